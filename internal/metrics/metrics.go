package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultOK            = "ok"
	ResultInvalid       = "invalid"
	ResultDecodeError   = "decode_error"
	ResultParseError    = "parse_error"
	ResultUpstreamError = "upstream_error"
	ResultError         = "error"
)

var (
	once sync.Once

	// AnalysesTotal counts /analyze requests by outcome.
	AnalysesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "neurospace",
		Subsystem: "analyzer",
		Name:      "analyses_total",
		Help:      "Total number of analyze requests, labeled by result.",
	}, []string{"result"})

	// AnalysisDurationSeconds is end-to-end handler time.
	AnalysisDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "neurospace",
		Subsystem: "analyzer",
		Name:      "analysis_duration_seconds",
		Help:      "End-to-end time to serve an analyze request.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 60, 120},
	}, []string{"result"})

	// UpstreamDurationSeconds is time spent waiting on the vision provider.
	UpstreamDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "neurospace",
		Subsystem: "analyzer",
		Name:      "upstream_duration_seconds",
		Help:      "Time spent in the vision provider call.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	}, []string{"provider"})

	UploadBytes = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "neurospace",
		Subsystem: "analyzer",
		Name:      "upload_bytes",
		Help:      "Size of accepted uploads before preparation.",
		Buckets:   prometheus.ExponentialBuckets(64*1024, 2, 10),
	})

	PreparedBytes = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "neurospace",
		Subsystem: "analyzer",
		Name:      "prepared_bytes",
		Help:      "Size of images sent to the vision provider.",
		Buckets:   prometheus.ExponentialBuckets(64*1024, 2, 10),
	})

	RecompressedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "neurospace",
		Subsystem: "analyzer",
		Name:      "recompressed_total",
		Help:      "Total number of uploads re-encoded to fit the size budget.",
	})
)

// Register registers analyzer metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			AnalysesTotal,
			AnalysisDurationSeconds,
			UpstreamDurationSeconds,
			UploadBytes,
			PreparedBytes,
			RecompressedTotal,
		)
	})
}
