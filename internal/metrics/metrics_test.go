package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/ianmwanzi/portfolio/internal/metrics"
)

func TestCountersAndHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.PageViews.WithLabelValues("home").Inc()
	m.PageViews.WithLabelValues("home").Inc()
	m.ContactSubmissions.WithLabelValues("success").Inc()
	m.RelayDuration.Observe(0.2)

	require.InDelta(t, 2, testutil.ToFloat64(m.PageViews.WithLabelValues("home")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.ContactSubmissions.WithLabelValues("success")), 0)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `portfolio_page_views_total{page="home"} 2`)
	require.Contains(t, string(body), "portfolio_relay_send_duration_seconds_count 1")
}

func TestDoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.New(reg)
	require.Panics(t, func() { metrics.New(reg) })
}
