// Package monitoring exposes Prometheus collectors for analysis runs and HTTP traffic.
package monitoring

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"zoostat/domain/species"
)

// Outcome labels
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Catch-all label values for caller-supplied input
const (
	SpeciesUnknown = "unknown"
	MethodOther    = "other"
)

// Recorder records metrics into its own registry. A nil *Recorder is valid and
// records nothing, so components can take one optionally.
type Recorder struct {
	registry *prometheus.Registry

	analyses         *prometheus.CounterVec
	analysisDuration *prometheus.HistogramVec
	datasetRows      prometheus.Histogram
	validationIssues *prometheus.CounterVec
	correlations     prometheus.Histogram
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// Config holds configuration for metrics recording
type Config struct {
	Namespace string
	// WithRuntime adds the Go runtime and process collectors
	WithRuntime bool
}

// NewRecorder creates a recorder with a fresh registry
func NewRecorder(config Config) *Recorder {
	if config.Namespace == "" {
		config.Namespace = "zoostat"
	}
	reg := prometheus.NewRegistry()
	if config.WithRuntime {
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	factory := promauto.With(reg)
	ns := config.Namespace

	return &Recorder{
		registry: reg,
		analyses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "analyses_total",
			Help:      "Analysis operations by operation, species and outcome",
		}, []string{"operation", "species", "outcome"}),
		analysisDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "analysis_duration_seconds",
			Help:      "Time spent in analysis operations",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"operation"}),
		datasetRows: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "dataset_rows",
			Help:      "Rows per analysed dataset",
			Buckets:   prometheus.ExponentialBuckets(10, 10, 6),
		}),
		validationIssues: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "validation_issues_total",
			Help:      "Cross-validation warnings and errors by rule",
		}, []string{"rule", "severity"}),
		correlations: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "correlations_found",
			Help:      "Correlations kept per discovery run",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
		}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// Registry exposes the underlying registry, for tests and extra collectors
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ObserveAnalysis counts one analysis operation and its latency
func (r *Recorder) ObserveAnalysis(operation, speciesRaw string, err error, elapsed time.Duration) {
	if r == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	r.analyses.WithLabelValues(operation, speciesLabel(speciesRaw), outcome).Inc()
	r.analysisDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveDataset records the size of an analysed dataset
func (r *Recorder) ObserveDataset(rows int) {
	if r == nil {
		return
	}
	r.datasetRows.Observe(float64(rows))
}

// AddValidationIssues adds warnings and errors for a rule
func (r *Recorder) AddValidationIssues(rule string, warnings, errors int) {
	if r == nil {
		return
	}
	if warnings > 0 {
		r.validationIssues.WithLabelValues(rule, "warning").Add(float64(warnings))
	}
	if errors > 0 {
		r.validationIssues.WithLabelValues(rule, "error").Add(float64(errors))
	}
}

// ObserveCorrelations records how many correlations a discovery run kept
func (r *Recorder) ObserveCorrelations(n int) {
	if r == nil {
		return
	}
	r.correlations.Observe(float64(n))
}

// ObserveHTTP records one served request
func (r *Recorder) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	r.httpRequests.WithLabelValues(methodLabel(method), route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// speciesLabel keeps the species label to the canonical keys
func speciesLabel(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	if canonical, ok := species.Normalize(raw); ok {
		return canonical
	}
	return SpeciesUnknown
}

func methodLabel(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions:
		return method
	default:
		return MethodOther
	}
}
