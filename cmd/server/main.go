package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/pitak/internal/config"
	"github.com/mamadbah2/pitak/internal/repository/mongodb"
	"github.com/mamadbah2/pitak/internal/repository/sheets"
	"github.com/mamadbah2/pitak/internal/repository/sqlite"
	"github.com/mamadbah2/pitak/internal/scheduler"
	"github.com/mamadbah2/pitak/internal/server/handlers"
	"github.com/mamadbah2/pitak/internal/server/router"
	auditsvc "github.com/mamadbah2/pitak/internal/service/audit"
	"github.com/mamadbah2/pitak/internal/service/measurement"
	plotsvc "github.com/mamadbah2/pitak/internal/service/plots"
	"github.com/mamadbah2/pitak/pkg/clients/auditlog"
	"github.com/mamadbah2/pitak/pkg/logger"
)

// store is what every storage driver provides.
type store interface {
	plotsvc.Store
	auditsvc.Sink
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	primary, closeStore, err := openStore(context.Background(), cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer func() {
		if err := closeStore(context.Background()); err != nil {
			baseLogger.Error("failed to close storage", zap.Error(err))
		}
	}()

	sinks := []auditsvc.Sink{primary}
	if cfg.Sheets.Enabled() {
		auditSheet, err := sheets.NewAuditSheet(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init audit sheet", zap.Error(err))
		}
		sinks = append(sinks, sheets.NewAuditSink(auditSheet))
		baseLogger.Info("sheets audit mirror enabled")
	}
	if cfg.Audit.WebhookURL != "" {
		sinks = append(sinks, auditlog.NewClient(cfg.Audit))
		baseLogger.Info("remote audit log enabled", zap.String("url", cfg.Audit.WebhookURL))
	}

	recorder := auditsvc.NewRecorder(sinks, cfg.Audit.BufferSize, baseLogger.Named("svc.audit"))

	measurementSvc := measurement.NewService(measurement.NewEngine(), recorder, baseLogger.Named("svc.measurement"))
	plotSvc := plotsvc.NewService(primary, measurementSvc, baseLogger.Named("svc.plots"))

	engine := router.New(
		handlers.NewMeasurementHandler(measurementSvc, baseLogger.Named("handlers.measurement")),
		handlers.NewPlotHandler(plotSvc, baseLogger.Named("handlers.plots")),
		recorder,
		baseLogger.Named("router"),
	)

	sched := scheduler.NewScheduler(cfg.Audit.RetrySchedule, recorder, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}

	sched.Stop()

	if _, err := recorder.RetryPending(shutdownCtx); err != nil {
		baseLogger.Warn("final audit redelivery incomplete", zap.Error(err))
	}
	if err := recorder.Close(shutdownCtx); err != nil {
		baseLogger.Error("audit queue not drained", zap.Error(err))
	}
	if pending := recorder.Pending(); pending > 0 {
		baseLogger.Warn("audit deliveries lost on shutdown", zap.Int("pending", pending))
	}
}

func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (store, func(context.Context) error, error) {
	switch cfg.Storage.Driver {
	case config.DriverMongoDB:
		repo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			return nil, nil, err
		}
		return repo, repo.Close, nil
	default:
		repo, err := sqlite.Open(ctx, cfg.Storage.SQLitePath, log.Named("repo.sqlite"))
		if err != nil {
			return nil, nil, err
		}
		return repo, func(context.Context) error { return repo.Close() }, nil
	}
}
