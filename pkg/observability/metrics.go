// Package observability holds Prometheus metrics and OpenTelemetry tracing
// for segmentation and ingest operations.
package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Parse result label values.
const (
	ResultTranscript    = "transcript"
	ResultNotTranscript = "not_transcript"
)

// Cache operation label values.
const (
	CacheOpGet = "get"
	CacheOpSet = "set"

	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
	CacheOK    = "ok"
)

// Metrics holds all Prometheus metrics for chatseg.
type Metrics struct {
	// ParsesTotal counts extraction runs by outcome.
	ParsesTotal *prometheus.CounterVec

	// SegmentsTotal counts produced segments by kind.
	SegmentsTotal *prometheus.CounterVec

	// CacheOpsTotal counts cache operations by op and outcome.
	CacheOpsTotal *prometheus.CounterVec

	// ParseDuration observes extraction latency.
	ParseDuration prometheus.Histogram
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// Default returns the process-wide metric set on the default registerer.
// Registration happens once; later calls return the same set.
func Default() *Metrics {
	defaultOnce.Do(func() {
		defaultMetrics = NewMetrics(prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

// NewMetrics creates a metric set registered with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ParsesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatseg_parses_total",
				Help: "Total extraction runs by outcome",
			},
			[]string{"result"},
		),
		SegmentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatseg_segments_total",
				Help: "Total segments produced by kind",
			},
			[]string{"kind"},
		),
		CacheOpsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatseg_cache_ops_total",
				Help: "Total cache operations by op and outcome",
			},
			[]string{"op", "outcome"},
		),
		ParseDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "chatseg_parse_duration_seconds",
				Help:    "Extraction latency",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
		),
	}
}

// RecordParse records one extraction run.
func (m *Metrics) RecordParse(seconds float64, segmentKinds map[string]int) {
	result := ResultNotTranscript
	total := 0
	for kind, n := range segmentKinds {
		m.SegmentsTotal.WithLabelValues(kind).Add(float64(n))
		total += n
	}
	if total > 0 {
		result = ResultTranscript
	}
	m.ParsesTotal.WithLabelValues(result).Inc()
	m.ParseDuration.Observe(seconds)
}
