package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/itsyosefali/zoho-integration/internal/infrastructure/logger"
)

// HealthCheck probes one dependency. A failing non-critical check degrades
// the service without making it unhealthy.
type HealthCheck struct {
	Name     string
	Critical bool
	Check    func(ctx context.Context) error
}

// HealthHandler serves GET /health
type HealthHandler struct {
	checks []HealthCheck
	now    func() time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks, now: time.Now}
}

// Health godoc
//
//	@ID				health
//	@Summary		Health check
//	@Tags			system
//	@Produce		json
//	@Success		200	{object}	map[string]any
//	@Failure		503	{object}	map[string]any
//	@Router			/health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	code := http.StatusOK
	components := make(map[string]string, len(h.checks))
	for _, check := range h.checks {
		if err := check.Check(ctx); err != nil {
			logger.FromContext(c.Request.Context()).Warn("Health check failed",
				zap.String("component", check.Name), zap.Error(err))
			components[check.Name] = "error"
			if check.Critical {
				status, code = "unhealthy", http.StatusServiceUnavailable
			} else if code == http.StatusOK {
				status = "degraded"
			}
			continue
		}
		components[check.Name] = "ok"
	}

	c.JSON(code, gin.H{
		"status":     status,
		"time":       h.now().Format(time.RFC3339),
		"components": components,
	})
}
