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

	"github.com/mamadbah2/wagebook/internal/app"
	"github.com/mamadbah2/wagebook/internal/config"
	"github.com/mamadbah2/wagebook/internal/scheduler"
	"github.com/mamadbah2/wagebook/internal/server/handlers"
	"github.com/mamadbah2/wagebook/internal/server/router"
	"github.com/mamadbah2/wagebook/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	application, err := app.New(startCtx, cfg, baseLogger)
	cancelStart()
	if err != nil {
		baseLogger.Fatal("failed to initialize application", zap.Error(err))
	}
	defer application.Close(context.Background())

	engine := router.New(router.Handlers{
		Companies: handlers.NewCompanyHandler(application.Companies, baseLogger.Named("handlers.companies")),
		Workers:   handlers.NewWorkerHandler(application.Workers, baseLogger.Named("handlers.workers")),
		Reports:   handlers.NewReportHandler(application.Reports, baseLogger.Named("handlers.reports")),
	}, []byte(cfg.Auth.JWTSecret), baseLogger.Named("router"))

	if application.Notifier.Enabled() {
		sched, err := scheduler.NewScheduler(cfg.Digest, application.Location, application.Reports, baseLogger.Named("scheduler"))
		if err != nil {
			baseLogger.Fatal("failed to init scheduler", zap.Error(err))
		}
		sched.Start()
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
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
}
