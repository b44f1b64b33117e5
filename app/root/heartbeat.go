package root

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Heartbeat answers liveness checks from load balancers and uptime monitors
func Heartbeat(c *gin.Context) {
	c.Status(http.StatusOK)
}
