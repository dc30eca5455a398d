package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	searchTotal           *prometheus.CounterVec
	searchDuration        *prometheus.HistogramVec
	searchResults         *prometheus.HistogramVec
	searchWarningTotal    *prometheus.CounterVec
	evaluationRunsTotal   *prometheus.CounterVec
	evaluationPrecisionP1 *prometheus.GaugeVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "legalsearch",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "legalsearch",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "legalsearch",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	searchTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "legalsearch",
			Subsystem: "search",
			Name:      "requests_total",
			Help:      "Total completed searches by precision profile and query domain.",
		},
		[]string{"service", "profile", "domain"},
	)
	searchDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "legalsearch",
			Subsystem: "search",
			Name:      "duration_seconds",
			Help:      "End-to-end search duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "profile"},
	)
	searchResults := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "legalsearch",
			Subsystem: "search",
			Name:      "results_returned",
			Help:      "Distribution of results returned per search.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"service", "profile"},
	)
	searchWarningTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "legalsearch",
			Subsystem: "search",
			Name:      "quality_warnings_total",
			Help:      "Total searches that returned a quality warning.",
		},
		[]string{"service", "profile"},
	)
	evaluationRunsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "legalsearch",
			Subsystem: "evaluation",
			Name:      "runs_total",
			Help:      "Total batch quality evaluation runs by status.",
		},
		[]string{"service", "status"},
	)
	evaluationPrecisionP1 := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "legalsearch",
			Subsystem: "evaluation",
			Name:      "last_precision_at_one",
			Help:      "Average top-result score of the most recent evaluation run.",
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		searchTotal,
		searchDuration,
		searchResults,
		searchWarningTotal,
		evaluationRunsTotal,
		evaluationPrecisionP1,
	)

	return &HTTPServerMetrics{
		registry:              registry,
		requestTotal:          requestTotal,
		requestDuration:       requestDuration,
		requestInFlight:       requestInFlight,
		searchTotal:           searchTotal,
		searchDuration:        searchDuration,
		searchResults:         searchResults,
		searchWarningTotal:    searchWarningTotal,
		evaluationRunsTotal:   evaluationRunsTotal,
		evaluationPrecisionP1: evaluationPrecisionP1,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/laws/"):
		return "/v1/laws/{document_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordSearch(service, profile, domain string, resultCount int, duration time.Duration) {
	if domain == "" {
		domain = "unknown"
	}
	m.searchTotal.WithLabelValues(service, profile, domain).Inc()
	m.searchResults.WithLabelValues(service, profile).Observe(float64(resultCount))
	m.searchDuration.WithLabelValues(service, profile).Observe(duration.Seconds())
}

func (m *HTTPServerMetrics) RecordQualityOutcome(service, profile, warning string) {
	if warning != "" {
		m.searchWarningTotal.WithLabelValues(service, profile).Inc()
	}
}

func (m *HTTPServerMetrics) RecordEvaluationRun(service string, precisionAtOne float64, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.evaluationRunsTotal.WithLabelValues(service, status).Inc()
	if err == nil {
		m.evaluationPrecisionP1.WithLabelValues(service).Set(precisionAtOne)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
