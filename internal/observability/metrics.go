package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FramesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mva",
		Name:      "frames_processed_total",
		Help:      "Total number of frames processed",
	}, []string{"stream_id"})

	TracksCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mva",
		Name:      "tracks_created_total",
		Help:      "Total number of tracks created by the blob tracker",
	}, []string{"stream_id"})

	TracksFinalized = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mva",
		Name:      "tracks_finalized_total",
		Help:      "Total number of tracks emitted as final (deleted or flushed)",
	}, []string{"stream_id"})

	SnapshotsCaptured = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mva",
		Name:      "snapshots_captured_total",
		Help:      "Total number of snapshot records emitted by a track's SnapshotHistory",
	}, []string{"stream_id"})

	PipelineStageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mva",
		Name:      "pipeline_stage_duration_seconds",
		Help:      "Duration of one pipeline stage (background, extract, track) for one frame",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 10),
	}, []string{"stage"})

	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "mva",
		Name:      "queue_depth",
		Help:      "Number of pending frame tasks in queue",
	})

	ActiveStreams = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "mva",
		Name:      "active_streams",
		Help:      "Number of currently active video streams",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mva",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "mva",
		Name:      "ws_connections",
		Help:      "Number of active WebSocket connections",
	})
)
