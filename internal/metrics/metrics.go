// Package metrics provides Prometheus metrics for the analysis pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/OFFIS-RIT/docvis/pkg/ai"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Metrics holds the pipeline collectors. Each instance owns its registry so
// several can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	AnalysesTotal    *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram
	AnalysisSegments prometheus.Histogram

	VisualizationsTotal *prometheus.CounterVec
	GenerationDuration  *prometheus.HistogramVec

	ConceptMapsTotal  *prometheus.CounterVec
	HTTPRequestsTotal *prometheus.CounterVec
}

// New creates and registers all collectors, including the Go runtime and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		AnalysesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docvis_analyses_total",
				Help: "Total number of document analyses",
			},
			[]string{"status"},
		),
		AnalysisDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "docvis_analysis_duration_seconds",
				Help:    "Duration of document analyses in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
		),
		AnalysisSegments: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "docvis_analysis_segments",
				Help:    "Number of segments per analyzed document",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
		VisualizationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docvis_visualizations_total",
				Help: "Total number of generated visualizations",
			},
			[]string{"type", "status"},
		),
		GenerationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "docvis_generation_duration_seconds",
				Help:    "Duration of visualization generation in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"type"},
		),
		ConceptMapsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docvis_concept_maps_total",
				Help: "Total number of concept maps by source (ai, fallback, simple)",
			},
			[]string{"source"},
		),
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docvis_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "code"},
		),
	}
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func status(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}

func (m *Metrics) RecordAnalysis(segments int, duration time.Duration, err error) {
	m.AnalysesTotal.WithLabelValues(status(err)).Inc()
	if err != nil {
		return
	}
	m.AnalysisDuration.Observe(duration.Seconds())
	m.AnalysisSegments.Observe(float64(segments))
}

func (m *Metrics) RecordGeneration(visType string, duration time.Duration, err error) {
	m.VisualizationsTotal.WithLabelValues(visType, status(err)).Inc()
	if err == nil {
		m.GenerationDuration.WithLabelValues(visType).Observe(duration.Seconds())
	}
}

func (m *Metrics) RecordConceptMap(source string) {
	m.ConceptMapsTotal.WithLabelValues(source).Inc()
}

func (m *Metrics) RecordHTTPRequest(method, route string, code int) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
}

// WatchAI exposes the usage counters of client. Call it once per client.
func (m *Metrics) WatchAI(client ai.CompletionClient) {
	usage := func(pick func(ai.ModelMetrics) int) func() float64 {
		return func() float64 { return float64(pick(client.GetMetrics())) }
	}
	m.registry.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name:        "docvis_ai_tokens",
			Help:        "Model tokens used since the last metrics reset",
			ConstLabels: prometheus.Labels{"direction": "input"},
		}, usage(func(mm ai.ModelMetrics) int { return mm.InputTokens })),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name:        "docvis_ai_tokens",
			Help:        "Model tokens used since the last metrics reset",
			ConstLabels: prometheus.Labels{"direction": "output"},
		}, usage(func(mm ai.ModelMetrics) int { return mm.OutputTokens })),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "docvis_ai_requests",
			Help: "Model requests since the last metrics reset",
		}, usage(func(mm ai.ModelMetrics) int { return mm.Requests })),
	)
}
