package middleware

import (
	"net/http"

	"devlink/auth"

	"github.com/gin-gonic/gin"
)

// TokenHeader is the single header the identity token travels in.
const TokenHeader = "x-auth-token"

// ContextUserID is the gin context key the verified subject id is stored
// under. Handlers look up their own user record from it; the middleware never
// fetches it, so a deleted account with a live token still 404s downstream
// instead of 401ing here.
const ContextUserID = "userId"

// RequireAuth rejects requests without a verifiable token and injects the
// subject id into the context. The "no token" and "invalid token" cases share
// the 401 status but carry distinct messages.
func RequireAuth(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader(TokenHeader)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"errors": []gin.H{{"msg": "You are not authorized to access this route"}},
			})
			return
		}

		subjectID, err := tokens.Verify(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"errors": []gin.H{{"msg": "Token is invalid"}},
			})
			return
		}

		c.Set(ContextUserID, subjectID)
		c.Next()
	}
}
