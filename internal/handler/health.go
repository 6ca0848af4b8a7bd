package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/leavehub/portal-gateway/pkg/redis"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	redis *redis.Client
}

// NewHealthHandler creates a health handler. The redis client may be
// nil when the gateway runs with the in-memory session store.
func NewHealthHandler(redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{redis: redisClient}
}

// Health reports process liveness.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready reports whether dependencies are reachable.
func (h *HealthHandler) Ready(c *gin.Context) {
	components := gin.H{}
	status := http.StatusOK

	if h.redis == nil {
		components["redis"] = "not configured"
	} else if err := h.redis.HealthCheck(c.Request.Context()); err != nil {
		components["redis"] = "unhealthy"
		status = http.StatusServiceUnavailable
	} else {
		components["redis"] = "healthy"
	}

	c.JSON(status, gin.H{
		"status":     readyStatus(status),
		"components": components,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}

func readyStatus(status int) string {
	if status == http.StatusOK {
		return "ready"
	}
	return "not ready"
}
