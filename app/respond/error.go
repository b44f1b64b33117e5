// Package respond turns service errors into HTTP responses
package respond

import (
	"bitwise74/task-api/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error writes the status and body matching err. Anything not recognised
// is logged and reported as an internal error
func Error(c *gin.Context, err error) {
	requestID := c.GetString("requestID")

	var (
		status int
		msg    string
	)

	switch {
	case errors.Is(err, service.ErrInvalidUpdate):
		status, msg = http.StatusBadRequest, "Invalid updates!"
	case errors.Is(err, service.ErrAuthenticationFailed):
		status, msg = http.StatusBadRequest, "Unable to login"
	case errors.Is(err, service.ErrValidationFailed),
		errors.Is(err, service.ErrUploadRejected):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrUnauthorized):
		status, msg = http.StatusUnauthorized, "Please authenticate."
	case errors.Is(err, service.ErrNotFound):
		status, msg = http.StatusNotFound, "Not found"
	default:
		status, msg = http.StatusInternalServerError, "Internal server error"
		zap.L().Error("Request failed", zap.Error(err), zap.String("requestID", requestID))
	}

	c.JSON(status, gin.H{
		"error":     msg,
		"requestID": requestID,
	})
}

// BadBody reports a request body that couldn't be parsed
func BadBody(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":     "Invalid request body",
		"requestID": c.GetString("requestID"),
	})
}
