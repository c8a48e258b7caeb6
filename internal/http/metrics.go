package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the service counters. It carries its own registry so
// repeated construction never collides on global state.
type Metrics struct {
	registry *prometheus.Registry

	ToolRequestsTotal    *prometheus.CounterVec
	ToolDuration         *prometheus.HistogramVec
	SendsTotal           *prometheus.CounterVec
	CatalogRequestsTotal *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ToolRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cloudjuke_tool_requests_total",
				Help: "Total number of tool invocations",
			},
			[]string{"tool", "status"},
		),
		ToolDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cloudjuke_tool_duration_seconds",
				Help:    "Time spent handling tool invocations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"tool"},
		),
		SendsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cloudjuke_sends_total",
				Help: "Total number of chat deliveries by kind",
			},
			[]string{"kind", "status"},
		),
		CatalogRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cloudjuke_catalog_requests_total",
				Help: "Total number of catalog operations",
			},
			[]string{"op", "status"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ToolRequestsTotal,
		m.ToolDuration,
		m.SendsTotal,
		m.CatalogRequestsTotal,
	)

	return m
}

// RecordSend implements core.Metrics.
func (m *Metrics) RecordSend(kind, status string) {
	m.SendsTotal.WithLabelValues(kind, status).Inc()
}

// RecordCatalog implements core.Metrics.
func (m *Metrics) RecordCatalog(op, status string) {
	m.CatalogRequestsTotal.WithLabelValues(op, status).Inc()
}

func (m *Metrics) recordTool(tool, status string, seconds float64) {
	m.ToolRequestsTotal.WithLabelValues(tool, status).Inc()
	m.ToolDuration.WithLabelValues(tool).Observe(seconds)
}
