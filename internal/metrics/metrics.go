// Package metrics exposes Prometheus instruments for the scoring service.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/creasebook/scoring/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder records scoring and HTTP metrics. A nil Recorder is a no-op.
type Recorder struct {
	registry      *prometheus.Registry
	applied       *prometheus.CounterVec
	rejected      *prometheus.CounterVec
	applyLatency  *prometheus.HistogramVec
	requests      *prometheus.CounterVec
	outboxBatches prometheus.Counter
	outboxErrors  prometheus.Counter
}

// NewRecorder builds a Recorder on its own registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		applied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "creasebook",
			Name:      "events_applied_total",
			Help:      "Scoring events applied, by event type.",
		}, []string{"type"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "creasebook",
			Name:      "events_rejected_total",
			Help:      "Scoring events rejected, by event type and error code.",
		}, []string{"type", "code"}),
		applyLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "creasebook",
			Name:      "event_apply_seconds",
			Help:      "Time to load, apply and persist one scoring event.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"type"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "creasebook",
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by method and status.",
		}, []string{"method", "status"}),
		outboxBatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "creasebook",
			Name:      "outbox_published_total",
			Help:      "Outbox events published to the broker.",
		}),
		outboxErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "creasebook",
			Name:      "outbox_errors_total",
			Help:      "Outbox poll or publish failures.",
		}),
	}
	reg.MustRegister(r.applied, r.rejected, r.applyLatency, r.requests, r.outboxBatches, r.outboxErrors)
	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// RecordEvent counts an applied or rejected scoring event.
func (r *Recorder) RecordEvent(t domain.EventType, d time.Duration, err error) {
	if r == nil {
		return
	}
	r.applyLatency.WithLabelValues(string(t)).Observe(d.Seconds())
	if err == nil {
		r.applied.WithLabelValues(string(t)).Inc()
		return
	}
	code := domain.CodeInternal
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		code = appErr.Code
	}
	r.rejected.WithLabelValues(string(t), code).Inc()
}

// RecordRequest counts a served HTTP request.
func (r *Recorder) RecordRequest(method string, status int) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// RecordOutbox counts published outbox events, or one failure.
func (r *Recorder) RecordOutbox(published int, err error) {
	if r == nil {
		return
	}
	if err != nil {
		r.outboxErrors.Inc()
		return
	}
	r.outboxBatches.Add(float64(published))
}
