package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/jonathan/listing-copywriter/internal/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Generation outcomes
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeInvalid = "invalid"
)

// ToneUnknown is the tone label for requests whose tone is not formal or casual
const ToneUnknown = "unknown"

// Attempt results
const (
	AttemptSuccess   = "success"
	AttemptTransient = "transient"
	AttemptTerminal  = "terminal"
)

var (
	llmDurationBuckets  = []float64{.5, 1, 2, 5, 10, 30, 60}
	httpDurationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}
	scoreBuckets        = prometheus.LinearBuckets(10, 10, 10)
)

// Metrics holds the application collectors on a private registry. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	generationsTotal    *prometheus.CounterVec
	generationDuration  prometheus.Histogram
	generationAttempts  *prometheus.CounterVec
	scores              *prometheus.HistogramVec
	historySaveFailures prometheus.Counter
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewMetrics registers all collectors, plus the Go and process collectors, on a new registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		generationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "listing_generations_total",
			Help: "Description generations by outcome",
		}, []string{"outcome", "tone"}),
		generationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "listing_generation_duration_seconds",
			Help:    "Time to produce a description, retries included",
			Buckets: llmDurationBuckets,
		}),
		generationAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "listing_generation_attempts_total",
			Help: "Individual calls to the generation backend by result",
		}, []string{"result"}),
		scores: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "listing_score",
			Help:    "Distribution of computed scores",
			Buckets: scoreBuckets,
		}, []string{"kind"}),
		historySaveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "listing_history_save_failures_total",
			Help: "Generated descriptions that could not be written to history",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"method", "path", "status_code"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: httpDurationBuckets,
		}, []string{"method", "path"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.generationsTotal,
		m.generationDuration,
		m.generationAttempts,
		m.scores,
		m.historySaveFailures,
		m.httpRequestsTotal,
		m.httpRequestDuration,
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveGeneration records the outcome and latency of one generation request
func (m *Metrics) ObserveGeneration(outcome string, tone types.Tone, d time.Duration) {
	if m == nil {
		return
	}
	m.generationsTotal.WithLabelValues(outcome, toneLabel(tone)).Inc()
	if outcome != OutcomeInvalid {
		m.generationDuration.Observe(d.Seconds())
	}
}

// toneLabel keeps the tone label bounded; anything but a known tone is "unknown"
func toneLabel(tone types.Tone) string {
	switch tone {
	case types.ToneFormal, types.ToneCasual:
		return string(tone)
	default:
		return ToneUnknown
	}
}

// ObserveAttempt records a single backend call
func (m *Metrics) ObserveAttempt(result string) {
	if m == nil {
		return
	}
	m.generationAttempts.WithLabelValues(result).Inc()
}

// ObserveScore records the three scores of a result
func (m *Metrics) ObserveScore(r types.ScoreResult) {
	if m == nil {
		return
	}
	m.scores.WithLabelValues("readability").Observe(float64(r.ReadabilityScore))
	m.scores.WithLabelValues("seo").Observe(float64(r.SEOScore))
	m.scores.WithLabelValues("overall").Observe(float64(r.OverallScore))
}

// ObserveHistorySaveFailure counts a description that was generated but not persisted
func (m *Metrics) ObserveHistorySaveFailure() {
	if m == nil {
		return
	}
	m.historySaveFailures.Inc()
}

// ObserveHTTP records one served request. path should be the route pattern, not the raw URL.
func (m *Metrics) ObserveHTTP(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}
