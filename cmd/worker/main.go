package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/your-org/mva/internal/background"
	"github.com/your-org/mva/internal/blob"
	"github.com/your-org/mva/internal/config"
	"github.com/your-org/mva/internal/frame"
	"github.com/your-org/mva/internal/models"
	"github.com/your-org/mva/internal/observability"
	"github.com/your-org/mva/internal/pipeline"
	"github.com/your-org/mva/internal/queue"
	"github.com/your-org/mva/internal/storage"
	"github.com/your-org/mva/internal/tracker"
	"github.com/your-org/mva/internal/visualinfo"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	observability.SetupLogger(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("starting motion-tracking worker",
		"workers", cfg.Pipeline.WorkerCount,
		"cpu_cores", runtime.NumCPU(),
	)

	minioStore, err := storage.NewMinIOStore(cfg.MinIO)
	if err != nil {
		slog.Error("connect to minio", "error", err)
		os.Exit(1)
	}

	producer, err := queue.NewProducer(cfg.NATS.URL)
	if err != nil {
		slog.Error("connect to nats producer", "error", err)
		os.Exit(1)
	}
	defer producer.Close()

	if err := producer.EnsureStreams(context.Background()); err != nil {
		slog.Warn("ensure nats streams", "error", err)
	}

	w := newWorker(cfg, minioStore, producer)

	consumer, err := queue.NewConsumer(cfg.NATS.URL)
	if err != nil {
		slog.Error("create consumer", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err = consumer.ConsumeFrames(ctx, "mva-workers", func(ctx context.Context, msg jetstream.Msg) error {
		var task models.FrameTask
		if err := json.Unmarshal(msg.Data(), &task); err != nil {
			slog.Error("unmarshal frame task", "error", err)
			return nil
		}

		if err := w.processFrame(ctx, task); err != nil {
			return fmt.Errorf("process frame %s: %w", task.FrameID, err)
		}
		return nil
	}, cfg.Pipeline.WorkerCount)
	if err != nil {
		slog.Error("start frame consumer", "error", err)
		os.Exit(1)
	}

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
		slog.Info("worker metrics listening", "addr", ":8082")
		if err := http.ListenAndServe(":8082", mux); err != nil {
			slog.Error("metrics server error", "error", err)
		}
	}()

	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				depth, err := producer.QueueDepth(ctx)
				if err == nil {
					observability.QueueDepth.Set(float64(depth))
				}
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down worker...")
	cancel()
	w.finalizeAll(context.Background())
	time.Sleep(2 * time.Second)
	slog.Info("worker stopped")
}

// worker drives one Pipeline per stream, keyed by stream ID: a stream's
// frames are processed strictly in order by a single owner, never
// concurrently.
type worker struct {
	cfg      *config.Config
	minio    *storage.MinIOStore
	producer *queue.Producer

	mu           sync.Mutex
	pipelines    map[uuid.UUID]*pipeline.Pipeline
	frameCounter map[uuid.UUID]int32
}

func newWorker(cfg *config.Config, minio *storage.MinIOStore, producer *queue.Producer) *worker {
	return &worker{
		cfg:          cfg,
		minio:        minio,
		producer:     producer,
		pipelines:    make(map[uuid.UUID]*pipeline.Pipeline),
		frameCounter: make(map[uuid.UUID]int32),
	}
}

func (w *worker) pipelineFor(streamID uuid.UUID) *pipeline.Pipeline {
	w.mu.Lock()
	defer w.mu.Unlock()
	if p, ok := w.pipelines[streamID]; ok {
		return p
	}
	p := pipeline.New(buildPipelineConfig(w.cfg, w.cfg.Pipeline.FrameWidth, w.cfg.Pipeline.FrameHeight))
	w.pipelines[streamID] = p
	return p
}

func (w *worker) nextFrameIndex(streamID uuid.UUID) int32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	idx := w.frameCounter[streamID]
	w.frameCounter[streamID] = idx + 1
	return idx
}

func (w *worker) processFrame(ctx context.Context, task models.FrameTask) error {
	data, err := w.minio.GetObject(ctx, task.FrameRef)
	if err != nil {
		return fmt.Errorf("fetch frame object %s: %w", task.FrameRef, err)
	}

	f, err := visualinfo.DecodeJPEGFrame(data, task.Timestamp.UnixMilli(), w.nextFrameIndex(task.StreamID))
	if err != nil {
		return fmt.Errorf("decode frame: %w", err)
	}

	p := w.pipelineFor(task.StreamID)
	norm := visualinfo.NormalizeFrameSize(f, w.cfg.Pipeline.FrameWidth, w.cfg.Pipeline.FrameHeight)

	updates, err := p.Process(norm, nil)
	if err != nil {
		return fmt.Errorf("pipeline process: %w", err)
	}

	observability.FramesProcessed.WithLabelValues(task.StreamID.String()).Inc()

	for _, u := range updates {
		if err := w.emitUpdate(ctx, task.StreamID, u); err != nil {
			slog.Error("emit track update", "stream_id", task.StreamID, "track_id", u.ID, "error", err)
		}
	}

	return nil
}

func (w *worker) emitUpdate(ctx context.Context, streamID uuid.UUID, u tracker.TrackUpdate) error {
	if u.IsFinal {
		observability.TracksFinalized.WithLabelValues(streamID.String()).Inc()
	}

	for _, snap := range u.Snapshots {
		observability.SnapshotsCaptured.WithLabelValues(streamID.String()).Inc()

		msg := models.TrackEventMsg{
			StreamID:   streamID,
			TrackID:    u.ID,
			Timestamp:  time.UnixMilli(snap.TimeMs),
			FrameIndex: snap.FrameIndex,
			NormRect:   rectToDTO(snap.NormRect),
			OrigRect:   rectToDTO(snap.OrigRect),
			Bound:      snap.Bound,
			CrossIn:    snap.CrossIn,
			Direction:  snap.Direction,
		}

		if snap.Scene != nil {
			key := fmt.Sprintf("scenes/%s/%d-%d.jpg", streamID, u.ID, snap.FrameIndex)
			if img, err := visualinfo.EncodeJPEG(snap.Scene, 85); err == nil {
				if err := w.minio.PutObject(ctx, key, img, "image/jpeg"); err == nil {
					msg.SceneKey = key
				}
			}

			slice := visualinfo.CropRect(snap.Scene, snap.NormRect)
			if slice.W > 0 && slice.H > 0 {
				sliceKey := fmt.Sprintf("slices/%s/%d-%d.jpg", streamID, u.ID, snap.FrameIndex)
				if img, err := visualinfo.EncodeJPEG(slice, 85); err == nil {
					if err := w.minio.PutObject(ctx, sliceKey, img, "image/jpeg"); err == nil {
						msg.SliceKey = sliceKey
					}
				}
			}
		}
		if snap.Mask != nil {
			key := fmt.Sprintf("masks/%s/%d-%d.jpg", streamID, u.ID, snap.FrameIndex)
			if img, err := visualinfo.EncodeMaskJPEG(snap.Mask.Pixels, snap.Mask.W, snap.Mask.H, 85); err == nil {
				if err := w.minio.PutObject(ctx, key, img, "image/jpeg"); err == nil {
					msg.MaskKey = key
				}
			}
		}

		if err := w.producer.PublishEvent(ctx, streamID.String(), msg); err != nil {
			return fmt.Errorf("publish track event: %w", err)
		}
	}

	return nil
}

func (w *worker) finalizeAll(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for streamID, p := range w.pipelines {
		for _, u := range p.Final() {
			if err := w.emitUpdate(ctx, streamID, u); err != nil {
				slog.Error("finalize track update", "stream_id", streamID, "error", err)
			}
		}
	}
}

func rectToDTO(r frame.Rect) models.RectDTO {
	return models.RectDTO{X: r.X, Y: r.Y, W: r.W, H: r.H}
}

// buildPipelineConfig translates the service-wide YAML config into a
// pipeline.Config. Every stream's pipeline is built from these global
// tunables alone: a stream's own Config JSON is not read, and no ROI,
// loop or line is set.
func buildPipelineConfig(cfg *config.Config, frameW, frameH int) pipeline.Config {
	bgParams := background.RelaxedParams
	if cfg.Background.Regime == "strict" {
		bgParams = background.StrictParams
	}

	var viBeDomain background.ViBeDomain
	switch cfg.Background.ViBeDomain {
	case "gray":
		viBeDomain = background.DomainGray
	case "gradient":
		viBeDomain = background.DomainGradient
	default:
		viBeDomain = background.DomainColor
	}

	blobCfg := blob.DefaultConfig()
	blobCfg.MinArea = cfg.Blob.MinArea
	blobCfg.MinAvgWidth = cfg.Blob.MinAvgWidth
	blobCfg.MinAvgHeight = cfg.Blob.MinAvgHeight
	blobCfg.CorrRatioCheck = cfg.Blob.CorrRatioCheck
	blobCfg.MergeVertical = cfg.Blob.MergeVertical
	blobCfg.MergeHorizontal = cfg.Blob.MergeHorizontal
	blobCfg.MergeBigSmall = cfg.Blob.MergeBigSmall
	blobCfg.RefineByShape = cfg.Blob.RefineByShape
	blobCfg.RefineByGrad = cfg.Blob.RefineByGrad
	blobCfg.RefineByColor = cfg.Blob.RefineByColor
	blobCfg.CharRegionEnabled = cfg.Blob.CharRegionEnabled

	trackerCfg := tracker.DefaultConfig()
	trackerCfg.MaxDistRectAndBlob = cfg.Tracker.MaxDistRectAndBlob
	trackerCfg.MinRatioIntersectToSelf = cfg.Tracker.MinRatioIntersectToSelf
	trackerCfg.MinRatioIntersectToBlob = cfg.Tracker.MinRatioIntersectToBlob
	trackerCfg.CheckTurnAround = cfg.Tracker.CheckTurnAround
	trackerCfg.MinHistorySizeForOutput = cfg.Tracker.MinHistorySizeForOutput
	trackerCfg.MultiRecordNum = cfg.Tracker.MultiRecordNum
	trackerCfg.MultiRecordPeriod = cfg.Tracker.MultiRecordInterval
	switch cfg.Tracker.RecordMode {
	case "cross_tri_bound":
		trackerCfg.RecordMode = tracker.RecordCrossTriBound
	case "cross_bottom":
		trackerCfg.RecordMode = tracker.RecordCrossBottom
	case "cross_line":
		trackerCfg.RecordMode = tracker.RecordCrossLine
	case "multi":
		trackerCfg.RecordMode = tracker.RecordMultiRecord
	default:
		trackerCfg.RecordMode = tracker.RecordNone
	}

	return pipeline.Config{
		FrameW:             frameW,
		FrameH:             frameH,
		OrigW:              frameW,
		OrigH:              frameH,
		Background:         bgParams,
		UseViBe:            cfg.Background.Engine == "vibe",
		ViBeDomain:         viBeDomain,
		ViBeExtended:       cfg.Background.ViBeExtended,
		UpdateBackInterval: cfg.Pipeline.UpdateBackInterval,
		BuildBackCount:     cfg.Pipeline.BuildBackCount,
		ProcessEveryNFrame: cfg.Pipeline.ProcessEveryNFrame,
		Blob:               blobCfg,
		Tracker:            trackerCfg,
	}
}
