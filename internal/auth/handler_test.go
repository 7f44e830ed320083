package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Prabhu-B-26/FreshCart/internal/config"
)

func testJWT() *JWTManager {
	return NewJWTManager(JWTConfig{
		Issuer:         "freshcart-test",
		AccessSecret:   "access-secret",
		RefreshSecret:  "refresh-secret",
		AccessTTLMin:   5,
		RefreshTTLDays: 1,
	})
}

func newTestRouter(t *testing.T) (*gin.Engine, *JWTManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtMgr := testJWT()
	h := NewHandler(Dependencies{
		Cfg:     config.Config{AdminEmail: "admin@example.com"},
		JWT:     jwtMgr,
		Users:   NewMemoryUserRepo(),
		Refresh: NewMemoryRefreshRepo(),
	})

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/mock-login", h.MockLogin)
	r.POST("/auth/refresh", h.Refresh)
	r.POST("/auth/logout", h.Logout)

	protected := r.Group("/")
	protected.Use(AuthMiddleware(jwtMgr))
	protected.GET("/me", h.Me)
	protected.GET("/admin", RequireAdmin(), func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	return r, jwtMgr
}

func do(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type tokenResp struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		IsAdmin bool   `json:"is_admin"`
	} `json:"user"`
}

func decodeTokens(t *testing.T, w *httptest.ResponseRecorder) tokenResp {
	t.Helper()
	var out tokenResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestMockLoginDefaultsToAdmin(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPost, "/auth/mock-login", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	tok := decodeTokens(t, w)
	assert.True(t, tok.User.IsAdmin)
	assert.Equal(t, MockAdminUser.ID, tok.User.ID)

	w = do(r, http.MethodGet, "/admin", tok.AccessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/me", tok.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Admin User")
}

func TestMockLoginRegularUserIsNotAdmin(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPost, "/auth/mock-login", "", gin.H{"as_admin": false})
	require.Equal(t, http.StatusOK, w.Code)
	tok := decodeTokens(t, w)
	assert.False(t, tok.User.IsAdmin)

	w = do(r, http.MethodGet, "/admin", tok.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRegisterLoginFlow(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPost, "/auth/register", "", gin.H{"email": "Shopper@Example.com", "password": "supersecret"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "shopper@example.com", decodeTokens(t, w).User.Email)

	w = do(r, http.MethodPost, "/auth/register", "", gin.H{"email": "shopper@example.com", "password": "supersecret"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPost, "/auth/login", "", gin.H{"email": "shopper@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPost, "/auth/login", "", gin.H{"email": "shopper@example.com", "password": "supersecret"})
	require.Equal(t, http.StatusOK, w.Code)
	tok := decodeTokens(t, w)
	assert.False(t, tok.User.IsAdmin)

	w = do(r, http.MethodGet, "/me", tok.AccessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestRegisterAdminEmailGrantsAdmin(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPost, "/auth/register", "", gin.H{"email": "ADMIN@example.com", "password": "supersecret"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decodeTokens(t, w).User.IsAdmin)
}

func TestRefreshRotatesToken(t *testing.T) {
	r, _ := newTestRouter(t)

	tok := decodeTokens(t, do(r, http.MethodPost, "/auth/mock-login", "", nil))

	w := do(r, http.MethodPost, "/auth/refresh", "", gin.H{"refresh_token": tok.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code)
	rotated := decodeTokens(t, w)
	assert.NotEqual(t, tok.RefreshToken, rotated.RefreshToken)

	// old token is revoked
	w = do(r, http.MethodPost, "/auth/refresh", "", gin.H{"refresh_token": tok.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPost, "/auth/logout", "", gin.H{"refresh_token": rotated.RefreshToken})
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(r, http.MethodPost, "/auth/refresh", "", gin.H{"refresh_token": rotated.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsBadTokens(t *testing.T) {
	r, jwtMgr := newTestRouter(t)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", "garbage", nil).Code)

	// a refresh token is not an access token
	refresh, _, err := jwtMgr.SignRefresh(Principal{UserID: "u1", Email: "a@b.c"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", refresh, nil).Code)
}

func TestOptionalAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwtMgr := testJWT()

	r := gin.New()
	r.GET("/who", OptionalAuth(jwtMgr), func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"signed_in": ok, "id": p.UserID})
	})

	w := do(r, http.MethodGet, "/who", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"signed_in":false,"id":""}`, w.Body.String())

	access, _, err := jwtMgr.SignAccess(Principal{UserID: "u1", Email: "a@b.c"})
	require.NoError(t, err)
	w = do(r, http.MethodGet, "/who", access, nil)
	assert.JSONEq(t, `{"signed_in":true,"id":"u1"}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/who", "garbage", nil).Code)
}

func TestIsAdminEmail(t *testing.T) {
	assert.True(t, IsAdminEmail(" Admin@Example.com ", "admin@example.com"))
	assert.False(t, IsAdminEmail("user@example.com", "admin@example.com"))
	assert.False(t, IsAdminEmail("", ""))
}

func TestConcurrentRefreshIssuesOnce(t *testing.T) {
	r, _ := newTestRouter(t)
	tok := decodeTokens(t, do(r, http.MethodPost, "/auth/mock-login", "", nil))

	codes := make([]int, 16)
	var wg sync.WaitGroup
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = do(r, http.MethodPost, "/auth/refresh", "", gin.H{"refresh_token": tok.RefreshToken}).Code
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, code := range codes {
		if code == http.StatusOK {
			ok++
		} else {
			assert.Equal(t, http.StatusUnauthorized, code)
		}
	}
	assert.Equal(t, 1, ok)
}
