package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Prabhu-B-26/FreshCart/internal/config"
	"github.com/Prabhu-B-26/FreshCart/internal/domain/user"
)

// Fixed identities served by mock-login.
var (
	MockAdminUser = user.User{
		ID:          "admin-user-id",
		Email:       "admin@example.com",
		DisplayName: "Admin User",
	}
	MockRegularUser = user.User{
		ID:          "regular-user-id",
		Email:       "user@example.com",
		DisplayName: "Regular User",
	}
)

type Dependencies struct {
	Cfg     config.Config
	JWT     *JWTManager
	Users   UserRepo
	Refresh RefreshRepo
	Log     *zap.Logger
}

type Handler struct {
	deps Dependencies
}

func NewHandler(d Dependencies) *Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	return &Handler{deps: d}
}

type registerReq struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name"`
}

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type mockLoginReq struct {
	AsAdmin *bool `json:"as_admin"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pwHash, err := HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "password hash failed"})
		return
	}

	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		name = strings.SplitN(normalizeEmail(req.Email), "@", 2)[0]
	}

	u, err := h.deps.Users.Create(c.Request.Context(), req.Email, name, pwHash)
	if errors.Is(err, ErrEmailTaken) {
		c.JSON(http.StatusConflict, gin.H{"error": "email already exists"})
		return
	}
	if err != nil {
		h.deps.Log.Error("register failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	h.issueTokens(c, http.StatusCreated, u)
}

func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.deps.Users.ByEmail(c.Request.Context(), req.Email)
	if err != nil || !CheckPassword(u.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	h.issueTokens(c, http.StatusOK, u)
}

// MockLogin signs in as the fixed admin or regular user without a password.
// Admin is the default when as_admin is omitted.
func (h *Handler) MockLogin(c *gin.Context) {
	var req mockLoginReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	u := MockRegularUser
	if req.AsAdmin == nil || *req.AsAdmin {
		u = MockAdminUser
		u.Email = normalizeEmail(h.deps.Cfg.AdminEmail)
	}
	h.issueTokens(c, http.StatusOK, u)
}

// Rotate refresh token
func (h *Handler) Refresh(c *gin.Context) {
	var req refreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, err := h.deps.JWT.ParseRefresh(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}

	ctx := c.Request.Context()
	ok, err := h.deps.Refresh.Consume(ctx, claims.UserID, HashToken(req.RefreshToken))
	if err != nil {
		h.deps.Log.Error("consume refresh token failed", zap.String("user_id", claims.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "refresh failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "refresh token expired or revoked"})
		return
	}

	p := claims.Principal()
	// admin-ness follows the current config, not the old token
	p.Admin = IsAdminEmail(p.Email, h.deps.Cfg.AdminEmail)

	tokens, err := h.sign(c, p)
	if err != nil {
		h.deps.Log.Error("token signing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token signing failed"})
		return
	}
	c.JSON(http.StatusOK, tokens)
}

func (h *Handler) Logout(c *gin.Context) {
	var req refreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	claims, err := h.deps.JWT.ParseRefresh(req.RefreshToken)
	if err == nil {
		_ = h.deps.Refresh.Revoke(c.Request.Context(), claims.UserID, HashToken(req.RefreshToken))
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) Me(c *gin.Context) {
	p, ok := CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	u, err := h.deps.Users.ByID(c.Request.Context(), p.UserID)
	if errors.Is(err, ErrUserNotFound) {
		// mock identities are not stored anywhere
		switch p.UserID {
		case MockAdminUser.ID:
			u = MockAdminUser
		case MockRegularUser.ID:
			u = MockRegularUser
		default:
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		u.Email = p.Email
	} else if err != nil {
		h.deps.Log.Error("load user failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}

	u.IsAdmin = IsAdminEmail(u.Email, h.deps.Cfg.AdminEmail)
	c.JSON(http.StatusOK, u)
}

func (h *Handler) issueTokens(c *gin.Context, status int, u user.User) {
	u.IsAdmin = IsAdminEmail(u.Email, h.deps.Cfg.AdminEmail)
	tokens, err := h.sign(c, Principal{UserID: u.ID, Email: u.Email, Admin: u.IsAdmin})
	if err != nil {
		h.deps.Log.Error("token signing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token signing failed"})
		return
	}
	tokens["user"] = u
	c.JSON(status, tokens)
}

func (h *Handler) sign(c *gin.Context, p Principal) (gin.H, error) {
	access, accessExp, err := h.deps.JWT.SignAccess(p)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := h.deps.JWT.SignRefresh(p)
	if err != nil {
		return nil, err
	}
	if err := h.deps.Refresh.Store(c.Request.Context(), p.UserID, HashToken(refresh), refreshExp); err != nil {
		return nil, err
	}
	return gin.H{
		"access_token":  access,
		"access_exp":    accessExp,
		"refresh_token": refresh,
		"refresh_exp":   refreshExp,
	}, nil
}
