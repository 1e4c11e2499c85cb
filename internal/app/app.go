// Package app wires configuration, storage and services for the binaries.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/wagebook/internal/config"
	"github.com/mamadbah2/wagebook/internal/layout"
	"github.com/mamadbah2/wagebook/internal/render"
	"github.com/mamadbah2/wagebook/internal/repository/logos"
	"github.com/mamadbah2/wagebook/internal/repository/mongodb"
	"github.com/mamadbah2/wagebook/internal/repository/sheets"
	"github.com/mamadbah2/wagebook/internal/service/companies"
	"github.com/mamadbah2/wagebook/internal/service/notify"
	"github.com/mamadbah2/wagebook/internal/service/reporting"
	"github.com/mamadbah2/wagebook/internal/service/workers"
	"github.com/mamadbah2/wagebook/pkg/clients/htmlpdf"
	whatsappclient "github.com/mamadbah2/wagebook/pkg/clients/whatsapp"
	"github.com/mamadbah2/wagebook/pkg/logger"
)

const htmlPDFTimeout = 60 * time.Second

// App holds the wired services.
type App struct {
	Store     *mongodb.Store
	Companies *companies.Service
	Workers   *workers.Service
	Reports   *reporting.Service
	Notifier  *notify.WhatsAppNotifier
	Location  *time.Location

	logger *zap.Logger
}

// RenderSettings derives renderer settings from the report configuration.
func RenderSettings(cfg config.ReportsConfig) (render.Settings, error) {
	geo, err := layout.LoadGeometry(cfg.GeometryFile)
	if err != nil {
		return render.Settings{}, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return render.Settings{}, err
	}

	settings := render.DefaultSettings()
	settings.Geometry = geo
	settings.Location = loc
	if cfg.CurrencySymbol != "" {
		settings.Currency = cfg.CurrencySymbol
	}
	if err := settings.Validate(); err != nil {
		return render.Settings{}, fmt.Errorf("report geometry %s: %w", cfg.GeometryFile, err)
	}
	return settings, nil
}

// LogoStore picks S3 when a bucket is configured and the disk otherwise.
func LogoStore(ctx context.Context, cfg config.LogoConfig) (logos.Store, error) {
	if cfg.S3Bucket != "" {
		return logos.NewS3Store(ctx, cfg.S3Bucket)
	}
	return logos.NewDiskStore(cfg.Dir), nil
}

// New connects to MongoDB and wires every service.
func New(ctx context.Context, cfg *config.Config, base *zap.Logger) (*App, error) {
	if base == nil {
		base = zap.NewNop()
	}

	settings, err := RenderSettings(cfg.Reports)
	if err != nil {
		return nil, err
	}

	store, err := mongodb.Connect(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureIndexes(ctx); err != nil {
		_ = store.Close(ctx)
		return nil, err
	}

	logoStore, err := LogoStore(ctx, cfg.Logos)
	if err != nil {
		_ = store.Close(ctx)
		return nil, fmt.Errorf("init logo store: %w", err)
	}

	var mirror workers.Mirror
	if cfg.Sheets.Enabled() {
		m, err := sheets.NewWorkLogMirror(ctx, cfg.Sheets, logger.Named(base, "repo.sheets"))
		if err != nil {
			_ = store.Close(ctx)
			return nil, err
		}
		mirror = m
		base.Info("work log mirror enabled")
	}

	var notifier *notify.WhatsAppNotifier
	if cfg.WhatsApp.Enabled() {
		notifier = notify.NewWhatsAppNotifier(whatsappclient.NewClient(cfg.WhatsApp), logger.Named(base, "svc.notify"))
		base.Info("whatsapp delivery enabled")
	} else {
		notifier = notify.NewWhatsAppNotifier(nil, logger.Named(base, "svc.notify"))
		base.Warn("whatsapp credentials missing, digests and share delivery disabled")
	}

	companyRepo := store.Companies()
	workerRepo := store.Workers()

	return &App{
		Store:     store,
		Companies: companies.NewService(companyRepo, logger.Named(base, "svc.companies")),
		Workers:   workers.NewService(workerRepo, companyRepo, mirror, logger.Named(base, "svc.workers")),
		Reports: reporting.NewService(reporting.Dependencies{
			Companies: companyRepo,
			Workers:   workerRepo,
			Logos:     logoStore,
			Renderers: reporting.NewRenderers(settings, logger.Named(base, "render")),
			Converter: htmlpdf.NewClient(cfg.Reports.HTMLPDFURL, htmlPDFTimeout),
			Notifier:  notifier,
			Settings:  settings,
			Logger:    logger.Named(base, "svc.reporting"),
		}),
		Notifier: notifier,
		Location: settings.Location,
		logger:   base,
	}, nil
}

// Close waits for background mirror writes, then releases the MongoDB
// connection.
func (a *App) Close(ctx context.Context) {
	a.Workers.Wait()
	if err := a.Store.Close(ctx); err != nil {
		a.logger.Error("failed to close mongodb connection", zap.Error(err))
	}
}
