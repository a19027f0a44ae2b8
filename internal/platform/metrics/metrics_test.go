package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SscSPs/mfrs_ledger_app/internal/platform/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.EntryPosted()
		m.ValidationFailed("post")
		m.ViolationRecorded("CRITICAL")
		m.BestEffortWriteFailed("audit")
		m.DisclosuresGenerated(2)
	})
}

func TestCountersAreExposed(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg, reg)

	m.EntryPosted()
	m.EntryPosted()
	m.ViolationRecorded("HIGH")
	m.DisclosuresGenerated(3)

	count, err := testutil.GatherAndCount(reg, "mfrs_journal_entries_posted_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(m.GinMiddleware())
	r.GET("/metrics", gin.WrapH(m.Handler()))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "mfrs_journal_entries_posted_total 2")
	assert.Contains(t, body, `mfrs_compliance_violations_total{level="HIGH"} 1`)
	assert.Contains(t, body, "mfrs_disclosures_generated_total 3")
	assert.True(t, strings.Contains(body, `mfrs_http_requests_total{method="GET",route="/ping",status="200"} 1`))
}
