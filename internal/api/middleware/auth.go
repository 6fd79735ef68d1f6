package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	// TokenHeader carries the per-launch bridge token.
	TokenHeader = "X-Bridge-Token"
	// TokenQuery carries the token where headers cannot be set (WebSocket upgrade).
	TokenQuery = "token"
)

// RequireToken rejects requests that do not present token. CORS preflights
// pass through so the browser can learn which headers it may send.
func RequireToken(token string) gin.HandlerFunc {
	want := []byte(token)
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		got := c.GetHeader(TokenHeader)
		if got == "" {
			got = c.Query(TokenQuery)
		}
		if len(want) == 0 || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			abort(c, http.StatusUnauthorized, "unauthorized", "missing or invalid bridge token")
			return
		}
		c.Next()
	}
}
