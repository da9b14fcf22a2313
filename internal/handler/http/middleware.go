package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainErrors "github.com/matching-platform/user-service/internal/domain/errors"
)

const contextUserIDKey = "auth_user_id"

// AuthMiddleware resolves the bearer token via the token service and stores
// the authenticated user ID on the request context. Absent, malformed and
// revoked tokens all yield a 401 with the same message.
func AuthMiddleware(tokens TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, failure(domainErrors.ErrTokenNotFound.Error()))
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		userID, err := tokens.Verify(c.Request.Context(), token)
		if err != nil {
			status := http.StatusUnauthorized
			message := domainErrors.ErrTokenNotFound.Error()
			if domainErrors.IsUnavailable(err) {
				status = http.StatusServiceUnavailable
				message = "internal server error"
			}
			c.AbortWithStatusJSON(status, failure(message))
			return
		}

		c.Set(contextUserIDKey, userID)
		c.Next()
	}
}

// AuthenticatedUserID returns the user ID set by AuthMiddleware, or uuid.Nil
// when the request was not authenticated.
func AuthenticatedUserID(c *gin.Context) uuid.UUID {
	value, ok := c.Get(contextUserIDKey)
	if !ok {
		return uuid.Nil
	}
	id, ok := value.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
