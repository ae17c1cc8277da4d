package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/talent-factory-api/internal/service"
)

func TestMetricsHandlerHealthIncludesSnapshot(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.RecordTransition("ADMIN_REVIEW", "accepted")
	handler := NewMetricsHandler(metrics, true)

	c, w := newJSONContext(http.MethodGet, "/health", nil, nil)
	handler.Health(c)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Status     string                  `json:"status"`
		DataSource string                  `json:"dataSource"`
		Metrics    service.MetricsSnapshot `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "mock", body.DataSource)
	assert.EqualValues(t, 1, body.Metrics.TransitionsTotal)
}

func TestMetricsHandlerPrometheusUnavailable(t *testing.T) {
	c, w := newJSONContext(http.MethodGet, "/metrics", nil, nil)
	NewMetricsHandler(nil, false).Prometheus(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetricsHandlerReadyReportsFailingCheck(t *testing.T) {
	handler := NewMetricsHandler(service.NewMetricsService(), false).
		WithCheck("database", func(context.Context) error { return nil }).
		WithCheck("cache", func(context.Context) error { return errors.New("connection refused") })

	c, w := newJSONContext(http.MethodGet, "/ready", nil, nil)
	handler.Ready(c)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "ok", body.Checks["database"])
	assert.Equal(t, "connection refused", body.Checks["cache"])
}

func TestMetricsHandlerReadyWithoutChecks(t *testing.T) {
	c, w := newJSONContext(http.MethodGet, "/ready", nil, nil)
	NewMetricsHandler(nil, true).Ready(c)
	assert.Equal(t, http.StatusOK, w.Code)
}
