package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDegraded  = "degraded"

	healthCheckTimeout = 5 * time.Second
)

// HealthChecker is a dependency that can report its availability
type HealthChecker interface {
	Health(ctx context.Context) error
}

// DependencyReporter receives the result of every dependency check
type DependencyReporter interface {
	UpdateDependencyHealth(dependency string, healthy bool)
}

// HealthHandler handles health check requests
type HealthHandler struct {
	logger       *zap.Logger
	version      string
	dependencies map[string]HealthChecker
	reporter     DependencyReporter
}

// NewHealthHandler creates a new health handler. reporter may be nil.
func NewHealthHandler(logger *zap.Logger, version string, dependencies map[string]HealthChecker, reporter DependencyReporter) *HealthHandler {
	return &HealthHandler{
		logger:       logger,
		version:      version,
		dependencies: dependencies,
		reporter:     reporter,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status       string            `json:"status"`
	Timestamp    string            `json:"timestamp"`
	Version      string            `json:"version"`
	Dependencies map[string]string `json:"dependencies"`
}

// Check runs every dependency check and reports the results
func (h *HealthHandler) Check(ctx context.Context) HealthResponse {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(h.dependencies))
	for name := range h.dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	overall := statusHealthy
	statuses := make(map[string]string, len(names))
	for _, name := range names {
		status := statusHealthy
		if err := h.dependencies[name].Health(ctx); err != nil {
			h.logger.Error("Dependency health check failed", zap.String("dependency", name), zap.Error(err))
			status = statusUnhealthy
			overall = statusDegraded
		}
		statuses[name] = status
		if h.reporter != nil {
			h.reporter.UpdateDependencyHealth(name, status == statusHealthy)
		}
	}

	return HealthResponse{
		Status:       overall,
		Timestamp:    time.Now().Format(time.RFC3339),
		Version:      h.version,
		Dependencies: statuses,
	}
}

// Health handles GET /health requests
func (h *HealthHandler) Health(c *gin.Context) {
	response := h.Check(c.Request.Context())

	h.logger.Debug("Health check requested",
		zap.String("status", response.Status),
		zap.Any("dependencies", response.Dependencies))

	statusCode := http.StatusOK
	if response.Status != statusHealthy {
		statusCode = http.StatusServiceUnavailable
	}
	c.JSON(statusCode, response)
}
