package orders

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Prabhu-B-26/FreshCart/internal/auth"
	"github.com/Prabhu-B-26/FreshCart/internal/domain/order"
)

type Handler struct {
	svc *Service
	log *zap.Logger
}

func NewHandler(svc *Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) Checkout(c *gin.Context) {
	who, _ := auth.CurrentPrincipal(c)

	var req PaymentDetails
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	o, err := h.svc.Checkout(c.Request.Context(), who, req)
	switch {
	case errors.Is(err, ErrInvalidPayment):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
	case err != nil:
		h.log.Error("checkout failed", zap.String("user_id", who.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "order failed"})
	default:
		c.JSON(http.StatusCreated, o)
	}
}

func (h *Handler) ListMine(c *gin.Context) {
	who, _ := auth.CurrentPrincipal(c)

	items, err := h.svc.ListForUser(c.Request.Context(), who.UserID)
	if err != nil {
		h.log.Error("list orders failed", zap.String("user_id", who.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) GetMine(c *gin.Context) {
	o, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *Handler) ReceiptMine(c *gin.Context) {
	o, ok := h.load(c)
	if !ok {
		return
	}
	who, _ := auth.CurrentPrincipal(c)
	c.Header("Content-Disposition", `attachment; filename="FreshCart-Receipt-`+o.ID+`.txt"`)
	c.String(http.StatusOK, Receipt(o, who.Email))
}

type updateStatusReq struct {
	Status order.Status `json:"status" binding:"required"`
}

// Admin: move an order between Processing and Delivered.
func (h *Handler) AdminUpdateStatus(c *gin.Context) {
	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	o, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	switch {
	case errors.Is(err, ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be Processing or Delivered"})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
	case err != nil:
		h.log.Error("update order status failed", zap.String("order_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order"})
	default:
		c.JSON(http.StatusOK, o)
	}
}

func (h *Handler) load(c *gin.Context) (order.Order, bool) {
	who, _ := auth.CurrentPrincipal(c)

	o, err := h.svc.Get(c.Request.Context(), who.UserID, c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return order.Order{}, false
	}
	if err != nil {
		h.log.Error("get order failed", zap.String("order_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load order"})
		return order.Order{}, false
	}
	return o, true
}
