package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ClauseMatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/monitoring/prometheus"
)

// CheckFunc probes one dependency.
type CheckFunc func(ctx context.Context) error

// HealthHandler serves liveness and readiness probes.  Liveness never touches
// dependencies; readiness runs every registered check.
type HealthHandler struct {
	checks  map[string]CheckFunc
	timeout time.Duration
	metrics *prometheus.AppMetrics
	log     logging.Logger
}

// NewHealthHandler builds a HealthHandler.  metrics may be nil.
func NewHealthHandler(checks map[string]CheckFunc, metrics *prometheus.AppMetrics, log logging.Logger) *HealthHandler {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &HealthHandler{
		checks:  checks,
		timeout: 5 * time.Second,
		metrics: metrics,
		log:     log.Named("health"),
	}
}

// Liveness handles GET /healthz.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz.  Any failing dependency makes the service
// not ready; the response names the failing components.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	status := http.StatusOK
	components := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		err := check(ctx)
		if err != nil {
			status = http.StatusServiceUnavailable
			components[name] = err.Error()
			h.log.Warn("readiness check failed",
				logging.String("component", name), logging.Err(err))
		} else {
			components[name] = "ok"
		}
		if h.metrics != nil {
			up := 1.0
			if err != nil {
				up = 0
			}
			h.metrics.HealthCheckStatus.WithLabelValues(name).Set(up)
		}
	}

	body := gin.H{"components": components}
	if status == http.StatusOK {
		body["status"] = "ready"
	} else {
		body["status"] = "not_ready"
	}
	c.JSON(status, body)
}

//Personal.AI order the ending
