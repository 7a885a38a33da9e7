package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/timetable-workspace/internal/service"
	"github.com/noah-isme/timetable-workspace/pkg/response"
)

const healthCheckTimeout = 3 * time.Second

// HealthCheck probes one dependency.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// MetricsHandler serves the probe and metrics endpoints.
type MetricsHandler struct {
	metrics *service.MetricsService
	checks  []HealthCheck
}

// NewMetricsHandler constructs a metrics handler. checks run on every
// /health request.
func NewMetricsHandler(metrics *service.MetricsService, checks ...HealthCheck) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, checks: checks}
}

// Prometheus serves the Prometheus registry.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.AbortWithStatus(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health runs the dependency checks concurrently. Any failure turns the
// response into a 503 "degraded".
func (h *MetricsHandler) Health(c *gin.Context) {
	if len(h.checks) == 0 {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	results := make([]string, len(h.checks))
	var g errgroup.Group
	for i, check := range h.checks {
		i, check := i, check
		g.Go(func() error {
			results[i] = "ok"
			if err := check.Check(ctx); err != nil {
				results[i] = err.Error()
			}
			return nil
		})
	}
	_ = g.Wait()

	status, code := "ok", http.StatusOK
	report := make(map[string]string, len(h.checks))
	for i, check := range h.checks {
		report[check.Name] = results[i]
		if results[i] != "ok" {
			status, code = "degraded", http.StatusServiceUnavailable
		}
	}
	c.JSON(code, gin.H{"status": status, "checks": report})
}

// Snapshot godoc
// @Summary Process counters for the console dashboard
// @Tags System
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /system/metrics [get]
func (h *MetricsHandler) Snapshot(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.metrics.Snapshot())
}
