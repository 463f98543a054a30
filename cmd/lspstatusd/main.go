package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/statuskit/lspstatus/internal/api"
	"github.com/statuskit/lspstatus/internal/clock/system"
	"github.com/statuskit/lspstatus/internal/config"
	"github.com/statuskit/lspstatus/internal/diagnostics"
	"github.com/statuskit/lspstatus/internal/logging"
	"github.com/statuskit/lspstatus/internal/metrics"
	"github.com/statuskit/lspstatus/internal/notify"
	"github.com/statuskit/lspstatus/internal/progress"
	"github.com/statuskit/lspstatus/internal/progress/sinks"
	"github.com/statuskit/lspstatus/internal/registry"
	"github.com/statuskit/lspstatus/internal/storage/postgres"
	"github.com/statuskit/lspstatus/internal/store"
	"github.com/statuskit/lspstatus/internal/tracker"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", syncErr)
		}
	}()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.Init()

	clk := system.New()
	sched := system.NewScheduler()
	progressStore := progress.NewStore()
	notifier := notify.New(clk, sched)
	reg := registry.New()
	diagSrc := diagnostics.NewMemorySource()
	diagCache := diagnostics.NewCache(clk, diagSrc, diagnostics.CacheConfig{
		Interval: cfg.DiagnosticsInterval(),
		Icons: [diagnostics.SeverityCount]string{
			cfg.Diagnostics.ErrorIcon,
			cfg.Diagnostics.WarningIcon,
			cfg.Diagnostics.InfoIcon,
			cfg.Diagnostics.HintIcon,
		},
		Separator: cfg.Diagnostics.Separator,
	})

	var eventSinks []progress.Sink
	if cfg.Notify.DebugLog {
		eventSinks = append(eventSinks, sinks.NewLogSink(logger.Named("events")))
	}
	promSink, err := sinks.NewPrometheusSink(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Fatal("prometheus sink init failed", zap.Error(err))
	}
	eventSinks = append(eventSinks, promSink)

	var archive store.EventArchive
	var archiveStore *postgres.ArchiveStore
	if cfg.Archive.DSN != "" {
		archiveStore, err = postgres.NewArchiveStore(ctx, cfg.Archive.DSN)
		if err != nil {
			logger.Fatal("archive store init failed", zap.Error(err))
		}
		archive = archiveStore
		eventSinks = append(eventSinks, sinks.NewArchiveSink(archiveStore, reg))
	}

	hub := progress.NewHub(progress.HubConfig{
		BufferSize:     cfg.Progress.BufferSize,
		MaxBatchEvents: cfg.Progress.MaxBatchEvents,
		MaxBatchWait:   time.Duration(cfg.Progress.MaxBatchWaitMs) * time.Millisecond,
		SinkTimeout:    time.Duration(cfg.Progress.SinkTimeoutSeconds) * time.Second,
		Logger:         logger.Named("hub"),
	}, eventSinks...)

	trk := tracker.New(progressStore, notifier, hub, reg, diagCache, logger.Named("tracker"))
	broker := api.NewBroker()
	trk.Setup(tracker.SetupConfig{
		OnUpdate: func() {
			metrics.ObserveNotification()
			broker.Notify()
		},
		Interval: cfg.NotifyInterval(),
		DebugLog: cfg.Notify.DebugLog,
	})

	apiServer := api.NewServer(trk, reg, diagSrc, archive, broker, clk, cfg, logger.Named("api"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	if err := hub.Close(shutdownCtx); err != nil {
		logger.Error("event hub close error", zap.Error(err))
	}
	if archiveStore != nil {
		archiveStore.Close()
	}
	logger.Info("shutdown complete")
}
