package cart

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Prabhu-B-26/FreshCart/internal/auth"
)

// SessionHeader identifies an anonymous shopper's cart.
const SessionHeader = "X-Session-ID"

func UserKey(userID string) string {
	return "user:" + userID
}

func GuestKey(sid string) string {
	return "session:" + sid
}

// SessionKey picks the cart for this request: the signed-in user's cart
// wins over the guest session header.
func SessionKey(c *gin.Context) (string, bool) {
	if p, ok := auth.CurrentPrincipal(c); ok {
		return UserKey(p.UserID), true
	}
	if sid := sessionID(c); sid != "" {
		return GuestKey(sid), true
	}
	return "", false
}

func sessionID(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(SessionHeader))
}
