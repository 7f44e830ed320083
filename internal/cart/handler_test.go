package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Prabhu-B-26/FreshCart/internal/auth"
	"github.com/Prabhu-B-26/FreshCart/internal/domain/cart"
	"github.com/Prabhu-B-26/FreshCart/internal/products"
)

type fixture struct {
	router  *gin.Engine
	store   *MemoryStore
	jwt     *auth.JWTManager
	milkID  string
	breadID string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalog := products.NewMemoryRepo(0)
	ctx := context.Background()
	milk, err := catalog.Create(ctx, products.CreateProductInput{Name: "Milk", Price: decimal.RequireFromString("1.50"), Quantity: 10})
	require.NoError(t, err)
	bread, err := catalog.Create(ctx, products.CreateProductInput{Name: "Bread", Price: decimal.RequireFromString("2.25"), Quantity: 5})
	require.NoError(t, err)

	jwtMgr := auth.NewJWTManager(auth.JWTConfig{Issuer: "t", AccessSecret: "a", RefreshSecret: "r", AccessTTLMin: 5, RefreshTTLDays: 1})
	store := NewMemoryStore()
	h := NewHandler(store, catalog, zap.NewNop())

	r := gin.New()
	g := r.Group("/cart", auth.OptionalAuth(jwtMgr))
	g.GET("", h.GetMyCart)
	g.POST("/items", h.AddItem)
	g.PATCH("/items/:id", h.UpdateQty)
	g.DELETE("/items/:id", h.RemoveItem)
	g.DELETE("", h.Clear)
	r.POST("/cart/merge", auth.AuthMiddleware(jwtMgr), h.Merge)

	return fixture{router: r, store: store, jwt: jwtMgr, milkID: milk.ID, breadID: bread.ID}
}

func (f fixture) call(method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func guest(id string) map[string]string {
	return map[string]string{SessionHeader: id}
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) cart.View {
	t.Helper()
	var v cart.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestCartRequiresSession(t *testing.T) {
	f := newFixture(t)
	w := f.call(http.MethodGet, "/cart", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddingTwiceIncrementsQuantity(t *testing.T) {
	f := newFixture(t)

	w := f.call(http.MethodPost, "/cart/items", gin.H{"product_id": f.milkID, "quantity": 1}, guest("g1"))
	require.Equal(t, http.StatusOK, w.Code)
	w = f.call(http.MethodPost, "/cart/items", gin.H{"product_id": f.milkID}, guest("g1"))
	require.Equal(t, http.StatusOK, w.Code)

	v := decodeView(t, f.call(http.MethodGet, "/cart", nil, guest("g1")))
	require.Len(t, v.Items, 1)
	assert.Equal(t, 2, v.Items[0].Quantity)
	assert.Equal(t, "Milk", v.Items[0].Name)
	assert.True(t, decimal.RequireFromString("3").Equal(v.Total))
}

func TestAddUnknownProduct(t *testing.T) {
	f := newFixture(t)
	w := f.call(http.MethodPost, "/cart/items", gin.H{"product_id": "prod_nope"}, guest("g1"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateAndRemove(t *testing.T) {
	f := newFixture(t)
	f.call(http.MethodPost, "/cart/items", gin.H{"product_id": f.milkID}, guest("g1"))
	f.call(http.MethodPost, "/cart/items", gin.H{"product_id": f.breadID}, guest("g1"))

	w := f.call(http.MethodPatch, "/cart/items/"+f.milkID, gin.H{"quantity": 4}, guest("g1"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, decodeView(t, w).Count)

	w = f.call(http.MethodPatch, "/cart/items/"+f.milkID, gin.H{"quantity": 0}, guest("g1"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeView(t, w).Items, 1)

	w = f.call(http.MethodDelete, "/cart/items/"+f.milkID, nil, guest("g1"))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.call(http.MethodDelete, "/cart/items/"+f.breadID, nil, guest("g1"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeView(t, w).Items)
}

func TestSessionsAreIsolated(t *testing.T) {
	f := newFixture(t)
	f.call(http.MethodPost, "/cart/items", gin.H{"product_id": f.milkID}, guest("g1"))

	v := decodeView(t, f.call(http.MethodGet, "/cart", nil, guest("g2")))
	assert.Empty(t, v.Items)
}

func TestClear(t *testing.T) {
	f := newFixture(t)
	f.call(http.MethodPost, "/cart/items", gin.H{"product_id": f.milkID}, guest("g1"))

	w := f.call(http.MethodDelete, "/cart", nil, guest("g1"))
	require.Equal(t, http.StatusOK, w.Code)

	v := decodeView(t, f.call(http.MethodGet, "/cart", nil, guest("g1")))
	assert.Empty(t, v.Items)
}

func TestMergeGuestCartIntoUserCart(t *testing.T) {
	f := newFixture(t)
	access, _, err := f.jwt.SignAccess(auth.Principal{UserID: "u1", Email: "u1@example.com"})
	require.NoError(t, err)
	bearer := map[string]string{"Authorization": "Bearer " + access}

	f.call(http.MethodPost, "/cart/items", gin.H{"product_id": f.milkID, "quantity": 2}, guest("g1"))
	f.call(http.MethodPost, "/cart/items", gin.H{"product_id": f.milkID}, bearer)

	w := f.call(http.MethodPost, "/cart/merge", nil, map[string]string{
		"Authorization": "Bearer " + access,
		SessionHeader:   "g1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, decodeView(t, w).Count)

	guestCart, err := f.store.Get(context.Background(), GuestKey("g1"))
	require.NoError(t, err)
	assert.True(t, guestCart.IsEmpty())
}

func TestLineQuantityIsBounded(t *testing.T) {
	f := newFixture(t)

	w := f.call(http.MethodPost, "/cart/items", gin.H{"product_id": f.milkID, "quantity": math.MaxInt64}, guest("g1"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.call(http.MethodPost, "/cart/items", gin.H{"product_id": f.milkID, "quantity": cart.MaxLineQuantity}, guest("g1"))
	require.Equal(t, http.StatusOK, w.Code)

	w = f.call(http.MethodPost, "/cart/items", gin.H{"product_id": f.milkID, "quantity": 5}, guest("g1"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.call(http.MethodPatch, "/cart/items/"+f.milkID, gin.H{"quantity": cart.MaxLineQuantity + 1}, guest("g1"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	v := decodeView(t, f.call(http.MethodGet, "/cart", nil, guest("g1")))
	assert.Equal(t, cart.MaxLineQuantity, v.Count)
	assert.True(t, v.Total.IsPositive())
}

func TestMergeTrimsSessionHeader(t *testing.T) {
	f := newFixture(t)
	access, _, err := f.jwt.SignAccess(auth.Principal{UserID: "u1", Email: "u1@example.com"})
	require.NoError(t, err)

	f.call(http.MethodPost, "/cart/items", gin.H{"product_id": f.breadID, "quantity": 2}, guest(" g1 "))

	w := f.call(http.MethodPost, "/cart/merge", nil, map[string]string{
		"Authorization": "Bearer " + access,
		SessionHeader:   "  g1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decodeView(t, w).Count)
}
