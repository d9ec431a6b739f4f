package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/snotevid/video-notes-go/internal/repository"
	"github.com/snotevid/video-notes-go/internal/service"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	repo      repository.Repository
	publisher *service.MessagePublisher
}

// NewHealthHandler creates a new HealthHandler instance. The publisher may be
// nil when event publishing is disabled.
func NewHealthHandler(repo repository.Repository, publisher *service.MessagePublisher) *HealthHandler {
	return &HealthHandler{
		repo:      repo,
		publisher: publisher,
	}
}

// LivenessProbe checks if the application is running.
func (h *HealthHandler) LivenessProbe(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "UP",
		"time":   time.Now(),
	})
}

// ReadinessProbe checks if the application is ready to serve traffic.
func (h *HealthHandler) ReadinessProbe(c *gin.Context) {
	ctx := c.Request.Context()

	// Check database connectivity
	if err := h.repo.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "DOWN",
			"database": "unhealthy",
			"error":    err.Error(),
			"time":     time.Now(),
		})
		return
	}

	response := gin.H{
		"status":   "UP",
		"database": "healthy",
		"time":     time.Now(),
	}

	// Check RabbitMQ connectivity when publishing is enabled
	if h.publisher != nil {
		if !h.publisher.IsHealthy() {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "DOWN",
				"database": "healthy",
				"rabbitmq": "unhealthy",
				"time":     time.Now(),
			})
			return
		}
		response["rabbitmq"] = "healthy"
	}

	c.JSON(http.StatusOK, response)
}
