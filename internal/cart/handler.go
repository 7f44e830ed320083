package cart

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Prabhu-B-26/FreshCart/internal/auth"
	"github.com/Prabhu-B-26/FreshCart/internal/domain/cart"
	"github.com/Prabhu-B-26/FreshCart/internal/domain/product"
	"github.com/Prabhu-B-26/FreshCart/internal/products"
)

// Catalog is the slice of products.Repo the cart needs.
type Catalog interface {
	Get(ctx context.Context, id string) (product.Product, error)
}

type Handler struct {
	store   Store
	catalog Catalog
	log     *zap.Logger
}

func NewHandler(store Store, catalog Catalog, log *zap.Logger) *Handler {
	return &Handler{store: store, catalog: catalog, log: log}
}

func (h *Handler) GetMyCart(c *gin.Context) {
	key, ok := h.key(c)
	if !ok {
		return
	}
	crt, err := h.store.Get(c.Request.Context(), key)
	if err != nil {
		h.fail(c, "failed to load cart", err)
		return
	}
	c.JSON(http.StatusOK, crt.View())
}

var tooMany = fmt.Sprintf("at most %d units per item", cart.MaxLineQuantity)

type AddItemReq struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"min=0,max=999"`
}

func (h *Handler) AddItem(c *gin.Context) {
	key, ok := h.key(c)
	if !ok {
		return
	}

	var req AddItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ctx := c.Request.Context()
	p, err := h.catalog.Get(ctx, req.ProductID)
	if errors.Is(err, products.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	if err != nil {
		h.fail(c, "failed to load product", err)
		return
	}

	crt, err := h.store.Get(ctx, key)
	if err != nil {
		h.fail(c, "failed to load cart", err)
		return
	}
	err = crt.Add(cart.CartItem{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  req.Quantity,
		ImageURL:  p.ImageURL,
		ImageHint: p.ImageHint,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": tooMany})
		return
	}
	if err := h.store.Save(ctx, key, crt); err != nil {
		h.fail(c, "failed to add item", err)
		return
	}
	c.JSON(http.StatusOK, crt.View())
}

type UpdateQtyReq struct {
	Quantity *int `json:"quantity" binding:"required,max=999"`
}

// UpdateQty sets a line's quantity; zero or less drops the line.
func (h *Handler) UpdateQty(c *gin.Context) {
	key, ok := h.key(c)
	if !ok {
		return
	}

	var req UpdateQtyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ctx := c.Request.Context()
	crt, err := h.store.Get(ctx, key)
	if err != nil {
		h.fail(c, "failed to load cart", err)
		return
	}
	found, err := crt.SetQuantity(c.Param("id"), *req.Quantity)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": tooMany})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not in cart"})
		return
	}
	if err := h.store.Save(ctx, key, crt); err != nil {
		h.fail(c, "failed to update qty", err)
		return
	}
	c.JSON(http.StatusOK, crt.View())
}

func (h *Handler) RemoveItem(c *gin.Context) {
	key, ok := h.key(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	crt, err := h.store.Get(ctx, key)
	if err != nil {
		h.fail(c, "failed to load cart", err)
		return
	}
	if !crt.Remove(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not in cart"})
		return
	}
	if err := h.store.Save(ctx, key, crt); err != nil {
		h.fail(c, "failed to remove item", err)
		return
	}
	c.JSON(http.StatusOK, crt.View())
}

func (h *Handler) Clear(c *gin.Context) {
	key, ok := h.key(c)
	if !ok {
		return
	}
	if err := h.store.Delete(c.Request.Context(), key); err != nil {
		h.fail(c, "failed to clear cart", err)
		return
	}
	c.JSON(http.StatusOK, cart.Cart{}.View())
}

// Merge folds the guest cart named by X-Session-ID into the signed-in
// user's cart and drops the guest cart.
func (h *Handler) Merge(c *gin.Context) {
	p, ok := auth.CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	sid := sessionID(c)
	if sid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing " + SessionHeader + " header"})
		return
	}

	ctx := c.Request.Context()
	guest, err := h.store.Get(ctx, GuestKey(sid))
	if err != nil {
		h.fail(c, "failed to load guest cart", err)
		return
	}
	mine, err := h.store.Get(ctx, UserKey(p.UserID))
	if err != nil {
		h.fail(c, "failed to load cart", err)
		return
	}
	mine.Merge(guest)
	if err := h.store.Save(ctx, UserKey(p.UserID), mine); err != nil {
		h.fail(c, "failed to save cart", err)
		return
	}
	if err := h.store.Delete(ctx, GuestKey(sid)); err != nil {
		h.log.Warn("drop guest cart failed", zap.String("session_id", sid), zap.Error(err))
	}
	c.JSON(http.StatusOK, mine.View())
}

func (h *Handler) key(c *gin.Context) (string, bool) {
	key, ok := SessionKey(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sign in or send an " + SessionHeader + " header"})
	}
	return key, ok
}

func (h *Handler) fail(c *gin.Context, msg string, err error) {
	h.log.Error(msg, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
