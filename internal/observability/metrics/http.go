package metrics

import (
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

	submissionsTotal     *prometheus.CounterVec
	recommendationsTotal *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rfp",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rfp",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "rfp",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	submissionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rfp",
			Subsystem: "intake",
			Name:      "submissions_total",
			Help:      "Total RFP submissions by attachment presence.",
		},
		[]string{"service", "with_attachment"},
	)
	recommendationsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rfp",
			Subsystem: "analysis",
			Name:      "recommendations_total",
			Help:      "Recommendation tiers served to clients.",
		},
		[]string{"service", "tier"},
	)

	registry.MustRegister(requestTotal, requestDuration, requestInFlight, submissionsTotal, recommendationsTotal)

	return &HTTPServerMetrics{
		registry:             registry,
		requestTotal:         requestTotal,
		requestDuration:      requestDuration,
		requestInFlight:      requestInFlight,
		submissionsTotal:     submissionsTotal,
		recommendationsTotal: recommendationsTotal,
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
	case strings.HasPrefix(path, "/v1/rfps/"):
		return "/v1/rfps/{rfp_id}"
	case strings.HasPrefix(path, "/v1/demo-requests/"):
		return "/v1/demo-requests/{request_id}"
	case strings.HasPrefix(path, "/v1/notifications/"):
		return "/v1/notifications/{notification_id}"
	case strings.HasPrefix(path, "/v1/admin/"):
		return "/v1/admin" + normalizeAdminPath(strings.TrimPrefix(path, "/v1/admin"))
	default:
		return path
	}
}

func normalizeAdminPath(rest string) string {
	parts := strings.SplitN(strings.TrimPrefix(rest, "/"), "/", 2)
	if len(parts) == 2 {
		return "/" + parts[0] + "/{id}"
	}
	return rest
}

func (m *HTTPServerMetrics) RecordSubmission(service string, withAttachment bool) {
	m.submissionsTotal.WithLabelValues(service, strconv.FormatBool(withAttachment)).Inc()
}

// RecordRecommendation counts served recommendation tiers, keyed by the label
// prefix (SELECT, CONSIDER, REVIEW, REJECT).
func (m *HTTPServerMetrics) RecordRecommendation(service, recommendation string) {
	tier, _, _ := strings.Cut(recommendation, " ")
	if tier == "" {
		tier = "unknown"
	}
	m.recommendationsTotal.WithLabelValues(service, tier).Inc()
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
