package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/talent-factory-api/internal/service"
)

// ReadinessCheck probes one dependency. A nil error means ready.
type ReadinessCheck func(ctx context.Context) error

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics  *service.MetricsService
	mockMode bool
	checks   map[string]ReadinessCheck
}

// NewMetricsHandler constructs a metrics handler.
func NewMetricsHandler(metrics *service.MetricsService, mockMode bool) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, mockMode: mockMode, checks: map[string]ReadinessCheck{}}
}

// WithCheck registers a named dependency probe for the readiness endpoint.
func (h *MetricsHandler) WithCheck(name string, check ReadinessCheck) *MetricsHandler {
	if check != nil {
		h.checks[name] = check
	}
	return h
}

// Ready runs every registered probe with a short deadline and answers 503
// when any of them fails.
func (h *MetricsHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	results := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			status = http.StatusServiceUnavailable
			results[name] = err.Error()
			continue
		}
		results[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "degraded"
	}
	c.JSON(status, gin.H{"status": state, "checks": results})
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health reports liveness along with a counter snapshot.
func (h *MetricsHandler) Health(c *gin.Context) {
	dataSource := "remote"
	if h.mockMode {
		dataSource = "mock"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"dataSource": dataSource,
		"metrics":    h.metrics.Snapshot(),
	})
}
