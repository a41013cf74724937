// README: Bearer-token auth backed by an external identity provider.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lastmile/internal/infra"
)

// UIDKey is the context key the verified caller UID is stored under.
const UIDKey = "auth_uid"

// Auth verifies the Authorization header against the identity provider. A nil
// verifier disables authentication, which is how local development runs.
func Auth(verifier infra.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil {
			c.Next()
			return
		}
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		auth, err := verifier.VerifyIDToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(UIDKey, auth.UID)
		c.Next()
	}
}
