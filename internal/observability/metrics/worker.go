package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	analysisTotal    *prometheus.CounterVec
	analysisDuration *prometheus.HistogramVec
	analysisInFlight prometheus.Gauge
	sweepProcessed   prometheus.Counter
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	analysisTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rfp",
			Subsystem: "worker",
			Name:      "analysis_total",
			Help:      "Total analyzed RFPs by status.",
		},
		[]string{"service", "status"},
	)
	analysisDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rfp",
			Subsystem: "worker",
			Name:      "analysis_duration_seconds",
			Help:      "RFP analysis duration in seconds by status.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		},
		[]string{"service", "status"},
	)
	analysisInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "rfp",
			Subsystem: "worker",
			Name:      "analysis_in_flight",
			Help:      "Number of in-flight RFP analyses.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	sweepProcessed := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "rfp",
			Subsystem: "worker",
			Name:      "sweep_processed_total",
			Help:      "RFPs picked up by the backlog sweep.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(analysisTotal, analysisDuration, analysisInFlight, sweepProcessed)

	return &WorkerMetrics{
		registry:         registry,
		analysisTotal:    analysisTotal,
		analysisDuration: analysisDuration,
		analysisInFlight: analysisInFlight,
		sweepProcessed:   sweepProcessed,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartAnalysis() {
	m.analysisInFlight.Inc()
}

func (m *WorkerMetrics) FinishAnalysis(service string, duration time.Duration, err error) {
	m.analysisInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.analysisTotal.WithLabelValues(service, status).Inc()
	m.analysisDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) AddSweepProcessed(n int) {
	if n <= 0 {
		return
	}
	m.sweepProcessed.Add(float64(n))
}
