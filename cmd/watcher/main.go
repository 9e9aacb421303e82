package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/quake-watch/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/quake-watch/internal/adapter/kafka"
	"github.com/couchcryptid/quake-watch/internal/adapter/rawlog"
	"github.com/couchcryptid/quake-watch/internal/adapter/usgs"
	"github.com/couchcryptid/quake-watch/internal/config"
	"github.com/couchcryptid/quake-watch/internal/observability"
	"github.com/couchcryptid/quake-watch/internal/store"
	"github.com/couchcryptid/quake-watch/internal/watch"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Raw response side channel (feature-flagged via RAW_LOG_PATH).
	var rawSink usgs.RawSink
	var rawFile *rawlog.File
	if cfg.RawLogPath != "" {
		rawFile, err = rawlog.Open(cfg.RawLogPath)
		if err != nil {
			logger.Error("failed to open raw log", "path", cfg.RawLogPath, "error", err)
			os.Exit(1)
		}
		rawSink = rawFile
		logger.Info("raw response log enabled", "path", cfg.RawLogPath)
	}

	source := usgs.NewClient(cfg.FeedEndpoint, cfg.FetchTimeout, rawSink, logger)

	// Console output is always on; Kafka is feature-flagged via KAFKA_TOPIC /
	// KAFKA_ENABLED.
	emitters := []watch.Emitter{watch.NewConsoleEmitter(os.Stdout)}
	var kafkaWriter *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		kafkaWriter = kafkaadapter.NewWriter(cfg, logger)
		emitters = append(emitters, kafkaWriter)
		logger.Info("kafka emitter enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka emitter disabled")
	}

	seen := store.NewSeenIndex(cfg.SeenCacheSize, cfg.SeenTTL)
	matches := store.NewMatchLog(cfg.MatchLogSize)

	w := watch.New(source, watch.NewMultiEmitter(emitters...), seen, matches, cfg, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, w, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start the watcher loop.
	watchDone := make(chan struct{})
	go func() {
		defer close(watchDone)
		if err := w.Run(ctx); err != nil {
			logger.Error("watcher error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	<-watchDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if rawFile != nil {
		if err := rawFile.Close(); err != nil {
			logger.Error("raw log close error", "error", err)
		}
	}

	watch.WriteSummary(os.Stdout, w.LastBatch(), cfg.PlaceFilter, w.RegionMatches())
	logger.Info("shutdown complete")
}
