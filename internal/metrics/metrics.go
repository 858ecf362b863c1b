// Package metrics holds the Prometheus collectors the web server updates.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "portfolio"

// Metrics are registered once per process. Tests build their own on a
// fresh registry.
type Metrics struct {
	PageViews          *prometheus.CounterVec
	ContactSubmissions *prometheus.CounterVec
	RelayMessages      *prometheus.CounterVec
	RelayDuration      prometheus.Histogram
	TrackingErrors     prometheus.Counter

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them on reg. A nil reg means
// the default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		PageViews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_views_total",
			Help:      "Rendered pages by route.",
		}, []string{"page"}),
		ContactSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contact_submissions_total",
			Help:      "Contact form submissions by outcome.",
		}, []string{"result"}),
		RelayMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relay_messages_total",
			Help:      "Messages handled by the mail relay by outcome.",
		}, []string{"result"}),
		RelayDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "relay_send_duration_seconds",
			Help:      "Time spent delivering a relayed message.",
			Buckets:   prometheus.DefBuckets,
		}),
		TrackingErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tracking_errors_total",
			Help:      "Visits that could not be recorded.",
		}),
	}

	reg.MustRegister(m.PageViews, m.ContactSubmissions, m.RelayMessages, m.RelayDuration, m.TrackingErrors)

	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	} else {
		m.gatherer = prometheus.DefaultGatherer
	}

	return m
}

// Handler serves the registry the collectors were registered on.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
