// Package metrics exposes Prometheus instruments fed from pipeline diagnostics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "offer_engine"

// Recorder owns a private registry so tests and multiple hosts never collide on the
// default global registry.
type Recorder struct {
	registry              *prometheus.Registry
	offersReceived        *prometheus.CounterVec
	normalizationFailures *prometheus.CounterVec
	stageDropped          *prometheus.CounterVec
	pipelineDuration      *prometheus.HistogramVec
	httpRequests          *prometheus.CounterVec
	httpDuration          *prometheus.HistogramVec
}

// NewRecorder creates a Recorder with all instruments registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		offersReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offers_received_total",
			Help:      "Raw supplier offers handed to the engine.",
		}, []string{"provider"}),
		normalizationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "normalization_failures_total",
			Help:      "Raw offers dropped because they could not be normalized.",
		}, []string{"provider"}),
		stageDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_dropped_offers_total",
			Help:      "Offers excluded by a filter stage.",
		}, []string{"profile", "stage"}),
		pipelineDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_duration_seconds",
			Help:      "Time spent executing a filter pipeline.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
		}, []string{"profile"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	r.registry.MustRegister(
		r.offersReceived,
		r.normalizationFailures,
		r.stageDropped,
		r.pipelineDuration,
		r.httpRequests,
		r.httpDuration,
	)
	return r
}

// OffersReceived adds n raw offers for provider.
func (r *Recorder) OffersReceived(provider string, n int) {
	r.offersReceived.WithLabelValues(provider).Add(float64(n))
}

// NormalizationFailed counts one dropped raw offer for provider.
func (r *Recorder) NormalizationFailed(provider string) {
	r.normalizationFailures.WithLabelValues(provider).Inc()
}

// StageDropped adds the number of offers a stage excluded.
func (r *Recorder) StageDropped(profile, stage string, dropped int) {
	r.stageDropped.WithLabelValues(profile, stage).Add(float64(dropped))
}

// PipelineExecuted observes the duration of one pipeline run.
func (r *Recorder) PipelineExecuted(profile string, d time.Duration) {
	r.pipelineDuration.WithLabelValues(profile).Observe(d.Seconds())
}

// HTTPRequest records one served request. route is the registered path template,
// not the raw URL, to keep label cardinality bounded.
func (r *Recorder) HTTPRequest(method, route string, status int, d time.Duration) {
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler returns an http.Handler serving the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
