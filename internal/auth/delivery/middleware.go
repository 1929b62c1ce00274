package delivery

import (
	"net/http"
	"strings"

	"automail-backend/internal/auth/usecase"

	"github.com/gin-gonic/gin"
)

// currentUserKey is where the middleware stashes the authenticated user
// for downstream handlers.
const currentUserKey = "currentUser"

// AuthMiddleware rejects requests that do not carry a valid bearer token.
// The app has a single owner account, so there is no role checking beyond
// validating the token itself.
func AuthMiddleware(authUsecase usecase.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "bearer token required"})
			return
		}

		user, err := authUsecase.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}
