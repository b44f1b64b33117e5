package middleware

import (
	"bitwise74/task-api/internal/model"
	"bitwise74/task-api/internal/service"
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SessionVerifier interface {
	Verify(ctx context.Context, token string) (*model.Account, string, error)
}

// NewAuthMiddleware resolves the bearer token of a request to its account.
// On success the account, the raw token and the account ID are stored as
// "account", "token" and "userID"
func NewAuthMiddleware(s SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		token := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))

		acc, token, err := s.Verify(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, service.ErrUnauthorized) {
				zap.L().Error("Failed to verify session", zap.Error(err), zap.String("requestID", requestID))
			}

			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Please authenticate.",
				"requestID": requestID,
			})
			return
		}

		c.Set("account", acc)
		c.Set("token", token)
		c.Set("userID", acc.ID)
		c.Next()
	}
}
