package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/samparkk13/fantasyedge-ai/internal/services"
)

var startTime = time.Now()

// HealthChecker is a dependency that can report its own health.
// database.PostgresDB and database.RedisClient implement it.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// NamedCheck pairs a dependency with the name it is reported under.
// Required checks decide readiness.
type NamedCheck struct {
	Name     string
	Checker  HealthChecker
	Required bool
}

type HealthHandler struct {
	checks    []NamedCheck
	optimizer *services.ResourceOptimizer
	ingestion *services.IngestionService
	version   string
}

type HealthResponse struct {
	Status          string                                  `json:"status"`
	Timestamp       time.Time                               `json:"timestamp"`
	Services        map[string]string                       `json:"services"`
	Version         string                                  `json:"version"`
	Uptime          string                                  `json:"uptime"`
	System          *services.SystemInfo                    `json:"system,omitempty"`
	CircuitBreakers map[string]services.CircuitBreakerStats `json:"circuit_breakers,omitempty"`
}

// NewHealthHandler creates a health handler. optimizer and ingestion may be
// nil; their sections are then omitted.
func NewHealthHandler(checks []NamedCheck, optimizer *services.ResourceOptimizer, ingestion *services.IngestionService, version string) *HealthHandler {
	return &HealthHandler{
		checks:    checks,
		optimizer: optimizer,
		ingestion: ingestion,
		version:   version,
	}
}

// HealthCheck handles GET /health
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	statuses := make(map[string]string, len(h.checks))
	overall := "healthy"
	for _, check := range h.checks {
		if err := check.Checker.HealthCheck(ctx); err != nil {
			statuses[check.Name] = "unhealthy: " + err.Error()
			if check.Required {
				overall = "unhealthy"
			} else if overall == "healthy" {
				overall = "degraded"
			}
			continue
		}
		statuses[check.Name] = "healthy"
	}

	response := HealthResponse{
		Status:    overall,
		Timestamp: time.Now(),
		Services:  statuses,
		Version:   h.version,
		Uptime:    time.Since(startTime).String(),
	}
	if h.optimizer != nil {
		info := h.optimizer.SystemInfo()
		response.System = &info
	}
	if h.ingestion != nil {
		response.CircuitBreakers = map[string]services.CircuitBreakerStats{
			"espn-roster": h.ingestion.BreakerStats(),
		}
	}

	status := http.StatusOK
	if overall == "unhealthy" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, response)
}

// ReadinessCheck handles GET /health/ready. Only required checks count.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	ready := true
	statuses := make(map[string]string)
	for _, check := range h.checks {
		if !check.Required {
			continue
		}
		if err := check.Checker.HealthCheck(ctx); err != nil {
			statuses[check.Name] = "not ready"
			ready = false
			continue
		}
		statuses[check.Name] = "ready"
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"ready":    ready,
		"services": statuses,
	})
}

// LivenessCheck handles GET /health/live
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
