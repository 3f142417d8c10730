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
	"syscall"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/your-org/mva/internal/api"
	"github.com/your-org/mva/internal/api/ws"
	"github.com/your-org/mva/internal/config"
	"github.com/your-org/mva/internal/models"
	"github.com/your-org/mva/internal/observability"
	"github.com/your-org/mva/internal/queue"
	"github.com/your-org/mva/internal/storage"
	"github.com/your-org/mva/pkg/dto"
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

	slog.Info("starting motion-tracking API service", "port", cfg.Server.Port)

	db, err := storage.NewPostgresStore(cfg.Database)
	if err != nil {
		slog.Error("connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	minioStore, err := storage.NewMinIOStore(cfg.MinIO)
	if err != nil {
		slog.Error("connect to minio", "error", err)
		os.Exit(1)
	}
	if err := minioStore.EnsureBucket(context.Background()); err != nil {
		slog.Warn("ensure minio bucket", "error", err)
	}

	producer, err := queue.NewProducer(cfg.NATS.URL)
	if err != nil {
		slog.Error("connect to nats", "error", err)
		os.Exit(1)
	}
	defer producer.Close()

	if err := producer.EnsureStreams(context.Background()); err != nil {
		slog.Warn("ensure nats streams", "error", err)
	}

	hub := ws.NewHub()
	go hub.Run()

	consumer, err := queue.NewConsumer(cfg.NATS.URL)
	if err != nil {
		slog.Error("create event consumer", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err = consumer.ConsumeEvents(ctx, "api-events", func(ctx context.Context, msg jetstream.Msg) error {
		var wireMsg models.TrackEventMsg
		if err := json.Unmarshal(msg.Data(), &wireMsg); err != nil {
			return err
		}

		event := &models.Event{
			StreamID:   wireMsg.StreamID,
			TrackID:    wireMsg.TrackID,
			Timestamp:  wireMsg.Timestamp,
			FrameIndex: wireMsg.FrameIndex,
			NormRect:   wireMsg.NormRect,
			OrigRect:   wireMsg.OrigRect,
			Bound:      wireMsg.Bound,
			CrossIn:    wireMsg.CrossIn,
			Direction:  wireMsg.Direction,
			SceneKey:   wireMsg.SceneKey,
			SliceKey:   wireMsg.SliceKey,
			MaskKey:    wireMsg.MaskKey,
		}
		if err := db.CreateEvent(ctx, event); err != nil {
			slog.Error("store event", "error", err)
			return nil
		}

		resp := dto.EventResponse{
			ID:         event.ID,
			StreamID:   event.StreamID,
			TrackID:    event.TrackID,
			Timestamp:  event.Timestamp.Format(time.RFC3339),
			FrameIndex: event.FrameIndex,
			NormRect:   dto.RectResponse{X: event.NormRect.X, Y: event.NormRect.Y, W: event.NormRect.W, H: event.NormRect.H},
			OrigRect:   dto.RectResponse{X: event.OrigRect.X, Y: event.OrigRect.Y, W: event.OrigRect.W, H: event.OrigRect.H},
			Bound:      event.Bound,
			CrossIn:    event.CrossIn,
			Direction:  event.Direction,
			CreatedAt:  event.CreatedAt.Format(time.RFC3339),
		}
		if event.SceneKey != "" {
			resp.SceneURL = "/v1/events/" + event.ID.String() + "/scene"
		}
		if event.SliceKey != "" {
			resp.SliceURL = "/v1/events/" + event.ID.String() + "/slice"
		}
		if event.MaskKey != "" {
			resp.MaskURL = "/v1/events/" + event.ID.String() + "/mask"
		}

		hub.BroadcastEvent(&dto.WSEvent{
			Type:     "track_event",
			StreamID: event.StreamID,
			Data:     resp,
		})

		return nil
	})
	if err != nil {
		slog.Warn("start event consumer", "error", err)
	}

	router := api.NewRouter(api.RouterConfig{
		APIKey:   cfg.Server.APIKey,
		DB:       db,
		MinIO:    minioStore,
		Producer: producer,
		Hub:      hub,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("API server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down API server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("API server stopped")
}
