package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	assessments       *prometheus.CounterVec
	scores            prometheus.Histogram
	engineCacheHits   prometheus.Counter
	engineCacheMisses prometheus.Counter
	publishErrors     prometheus.Counter
}

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
		assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "energylabel_assessments_total",
			Help: "Submitted assessments by questionnaire and label.",
		}, []string{"questionnaire", "label"}),
		scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "energylabel_score",
			Help:    "Distribution of submitted scores.",
			Buckets: prometheus.LinearBuckets(0, 200, 10),
		}),
		engineCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "engine_cache_hits_total",
			Help: "Evaluations served by an already built engine.",
		}),
		engineCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "engine_cache_misses_total",
			Help: "Evaluations that had to build an engine.",
		}),
		publishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "assessment_publish_errors_total",
			Help: "Assessment events that could not be published.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpDuration,
		m.assessments,
		m.scores,
		m.engineCacheHits,
		m.engineCacheMisses,
		m.publishErrors,
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

// WrapHandler records request count and latency for route
func (m *Metrics) WrapHandler(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		if m != nil {
			m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
			m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		}
	})
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) AssessmentStored(questionnaireID, label string, score int) {
	if m == nil {
		return
	}
	m.assessments.WithLabelValues(questionnaireID, label).Inc()
	m.scores.Observe(float64(score))
}

func (m *Metrics) EngineCacheHit() {
	if m == nil {
		return
	}
	m.engineCacheHits.Inc()
}

func (m *Metrics) EngineCacheMiss() {
	if m == nil {
		return
	}
	m.engineCacheMisses.Inc()
}

func (m *Metrics) PublishFailed() {
	if m == nil {
		return
	}
	m.publishErrors.Inc()
}
