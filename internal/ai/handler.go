package ai

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Prabhu-B-26/FreshCart/internal/auth"
	"github.com/Prabhu-B-26/FreshCart/internal/domain/order"
	"github.com/Prabhu-B-26/FreshCart/internal/domain/product"
	"github.com/Prabhu-B-26/FreshCart/internal/history"
)

// MaxRecommendations caps what the storefront shows.
const MaxRecommendations = 4

type Catalog interface {
	List(ctx context.Context) ([]product.Product, error)
}

type Orders interface {
	ListForUser(ctx context.Context, userID string) ([]order.Order, error)
}

type Handler struct {
	gen     Generator
	catalog Catalog
	orders  Orders
	views   history.Store
	log     *zap.Logger
}

// NewHandler accepts a nil Generator; the endpoints then answer with
// empty lists.
func NewHandler(gen Generator, catalog Catalog, orders Orders, views history.Store, log *zap.Logger) *Handler {
	return &Handler{gen: gen, catalog: catalog, orders: orders, views: views, log: log}
}

func (h *Handler) Suggestions(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" || h.gen == nil {
		c.JSON(http.StatusOK, gin.H{"suggestions": []string{}})
		return
	}

	out, err := SearchSuggestions(c.Request.Context(), h.gen, q)
	if err != nil {
		h.log.Error("search suggestions failed", zap.String("query", q), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "suggestions unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": out})
}

func (h *Handler) Recommendations(c *gin.Context) {
	who, _ := auth.CurrentPrincipal(c)
	if h.gen == nil {
		c.JSON(http.StatusOK, gin.H{"items": []product.Product{}})
		return
	}

	var (
		placed   []order.Order
		catalog  []product.Product
		browsing []string
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		placed, err = h.orders.ListForUser(ctx, who.UserID)
		return err
	})
	g.Go(func() error {
		var err error
		catalog, err = h.catalog.List(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		browsing, err = h.views.Recent(ctx, who.UserID)
		return err
	})
	if err := g.Wait(); err != nil {
		h.log.Error("load recommendation inputs failed", zap.String("user_id", who.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load recommendations"})
		return
	}

	ids, err := Recommend(c.Request.Context(), h.gen, RecommendInput{
		UserID:    who.UserID,
		Purchases: purchasedIDs(placed),
		Browsing:  browsing,
		Catalog:   catalog,
	})
	if err != nil {
		h.log.Error("recommend failed", zap.String("user_id", who.UserID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "recommendations unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": Resolve(ids, catalog, MaxRecommendations)})
}

// Resolve keeps catalog products whose id was recommended, in catalog
// order, up to limit. Unknown ids are dropped.
func Resolve(ids []string, catalog []product.Product, limit int) []product.Product {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	out := []product.Product{}
	for _, p := range catalog {
		if len(out) == limit {
			break
		}
		if _, ok := want[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}

func purchasedIDs(placed []order.Order) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, o := range placed {
		for _, it := range o.Items {
			if _, ok := seen[it.ID]; ok {
				continue
			}
			seen[it.ID] = struct{}{}
			out = append(out, it.ID)
		}
	}
	return out
}
