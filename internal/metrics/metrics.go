// Package metrics exposes Prometheus counters for HTTP traffic, lead capture and bulk uploads.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Email delivery outcomes recorded by LeadEmail.
const (
	EmailSent    = "sent"
	EmailFailed  = "failed"
	EmailSkipped = "skipped"
)

// Metrics is safe to use as a nil pointer; every recorder becomes a no-op.
type Metrics struct {
	registry          *prometheus.Registry
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	leadsSubmitted    prometheus.Counter
	leadEmails        *prometheus.CounterVec
	uploadRows        *prometheus.CounterVec
}

// New creates a Metrics backed by its own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		leadsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leads_submitted_total",
			Help: "Total leads persisted from the calculator.",
		}),
		leadEmails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lead_emails_total",
			Help: "Lead report emails by delivery result.",
		}, []string{"result"}),
		uploadRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cost_rate_upload_rows_total",
			Help: "Bulk-uploaded cost rate rows by outcome.",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpDuration,
		m.leadsSubmitted,
		m.leadEmails,
		m.uploadRows,
	)
	return m
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// Middleware records requests labelled by the ServeMux pattern that matched them.
// It must wrap the mux directly so the pattern set during routing is visible.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) LeadSubmitted() {
	if m == nil {
		return
	}
	m.leadsSubmitted.Inc()
}

// LeadEmail records one delivery attempt; result is EmailSent, EmailFailed or EmailSkipped.
func (m *Metrics) LeadEmail(result string) {
	if m == nil {
		return
	}
	m.leadEmails.WithLabelValues(result).Inc()
}

func (m *Metrics) UploadRows(created, updated, failed int) {
	if m == nil {
		return
	}
	m.uploadRows.WithLabelValues("created").Add(float64(created))
	m.uploadRows.WithLabelValues("updated").Add(float64(updated))
	m.uploadRows.WithLabelValues("failed").Add(float64(failed))
}
