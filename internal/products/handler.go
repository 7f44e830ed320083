package products

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Prabhu-B-26/FreshCart/internal/auth"
	"github.com/Prabhu-B-26/FreshCart/internal/domain/product"
	"github.com/Prabhu-B-26/FreshCart/internal/history"
)

type Handler struct {
	repo  Repo
	views history.Store
	log   *zap.Logger
}

func NewHandler(repo Repo, views history.Store, log *zap.Logger) *Handler {
	return &Handler{repo: repo, views: views, log: log}
}

// Public: list products (optional q=substring)
func (h *Handler) ListPublic(c *gin.Context) {
	var (
		items []product.Product
		err   error
	)
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		items, err = h.repo.Search(c.Request.Context(), q)
	} else {
		items, err = h.repo.List(c.Request.Context())
	}
	if err != nil {
		h.log.Error("list products failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Public: product details. Signed-in views feed recommendations.
func (h *Handler) GetPublic(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := h.repo.Get(ctx, c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	if err != nil {
		h.log.Error("get product failed", zap.String("product_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load product"})
		return
	}

	if who, ok := auth.CurrentPrincipal(c); ok && h.views != nil {
		if err := h.views.Record(ctx, who.UserID, p.ID); err != nil {
			h.log.Warn("record view failed", zap.String("user_id", who.UserID), zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, p)
}

type CreateProductReq struct {
	Name      string          `json:"name" binding:"required"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	ImageURL  string          `json:"image_url"`
	ImageHint string          `json:"image_hint"`
}

// Admin: create product
func (h *Handler) AdminCreate(c *gin.Context) {
	var req CreateProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	p, err := h.repo.Create(c.Request.Context(), CreateProductInput{
		Name:      strings.TrimSpace(req.Name),
		Price:     req.Price,
		Quantity:  req.Quantity,
		ImageURL:  req.ImageURL,
		ImageHint: req.ImageHint,
	})
	if errors.Is(err, ErrInvalid) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.log.Error("create product failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create product"})
		return
	}

	who, _ := auth.CurrentPrincipal(c)
	h.log.Info("product created", zap.String("product_id", p.ID), zap.String("by", who.Email))
	c.JSON(http.StatusCreated, p)
}

// Admin: partial update
func (h *Handler) AdminUpdate(c *gin.Context) {
	var patch product.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	p, err := h.repo.Update(c.Request.Context(), c.Param("id"), patch)
	switch {
	case errors.Is(err, ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
	case err != nil:
		h.log.Error("update product failed", zap.String("product_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update product"})
	default:
		c.JSON(http.StatusOK, p)
	}
}

// Admin: delete
func (h *Handler) AdminDelete(c *gin.Context) {
	err := h.repo.Delete(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
	case err != nil:
		h.log.Error("delete product failed", zap.String("product_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete product"})
	default:
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
