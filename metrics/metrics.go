package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// GenerationsTotal counts generate requests by outcome.
	GenerationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "model3d",
		Subsystem: "generate",
		Name:      "requests_total",
		Help:      "Total number of generate-3d requests, labeled by result.",
	}, []string{"result"})

	// GenerationDurationSeconds is end-to-end time per generate request,
	// measured inside the handler.
	GenerationDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "model3d",
		Subsystem: "generate",
		Name:      "duration_seconds",
		Help:      "End-to-end time to serve a generate-3d request.",
		// Inference dominates, so buckets reach into the minutes.
		Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
	})

	// PipelineLoaded is 1 once the pipeline handle has been constructed.
	PipelineLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "model3d",
		Subsystem: "pipeline",
		Name:      "loaded",
		Help:      "Whether the generation pipeline is currently loaded.",
	})

	// UploadsRejectedTotal counts uploads rejected by validation, by reason.
	UploadsRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "model3d",
		Subsystem: "upload",
		Name:      "rejected_total",
		Help:      "Total number of uploads rejected before inference, labeled by reason.",
	}, []string{"reason"})
)

// Register registers all collectors with the default registry. Safe to call
// more than once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			GenerationsTotal,
			GenerationDurationSeconds,
			PipelineLoaded,
			UploadsRejectedTotal,
		)
	})
}
