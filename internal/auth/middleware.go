package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxUserIDKey = "user_id"
	CtxEmailKey  = "email"
	CtxAdminKey  = "is_admin"
)

// Principal is the signed-in caller as carried by an access token.
type Principal struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Admin  bool   `json:"is_admin"`
}

func AuthMiddleware(jwtMgr *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearer(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		claims, err := jwtMgr.ParseAccess(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid access token"})
			return
		}
		setPrincipal(c, claims.Principal())
		c.Next()
	}
}

// OptionalAuth sets the principal when a valid token is present and lets
// anonymous requests through. An invalid token is still rejected.
func OptionalAuth(jwtMgr *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearer(c)
		if !ok {
			c.Next()
			return
		}
		claims, err := jwtMgr.ParseAccess(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid access token"})
			return
		}
		setPrincipal(c, claims.Principal())
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if p, ok := CurrentPrincipal(c); !ok || !p.Admin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// CurrentPrincipal returns the caller set by one of the auth middlewares.
func CurrentPrincipal(c *gin.Context) (Principal, bool) {
	uid := c.GetString(CtxUserIDKey)
	if uid == "" {
		return Principal{}, false
	}
	return Principal{
		UserID: uid,
		Email:  c.GetString(CtxEmailKey),
		Admin:  c.GetBool(CtxAdminKey),
	}, true
}

func setPrincipal(c *gin.Context, p Principal) {
	c.Set(CtxUserIDKey, p.UserID)
	c.Set(CtxEmailKey, p.Email)
	c.Set(CtxAdminKey, p.Admin)
}

func bearer(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	if h == "" || !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(h, "Bearer "), true
}
