// Package reporting loads a tenant's data and hands it to the renderers.
package reporting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/wagebook/internal/domain/models"
	"github.com/mamadbah2/wagebook/internal/render"
	"github.com/mamadbah2/wagebook/internal/repository"
	"github.com/mamadbah2/wagebook/internal/service/companies"
	"github.com/mamadbah2/wagebook/internal/service/notify"
	"github.com/mamadbah2/wagebook/internal/service/workers"
	"github.com/mamadbah2/wagebook/pkg/clients/htmlpdf"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ErrUnsupportedFormat is returned for report formats the service cannot produce.
var ErrUnsupportedFormat = errors.New("unsupported report format")

// CompanyStore is the company storage the service reads.
type CompanyStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Company, error)
	List(ctx context.Context) ([]models.Company, error)
}

// WorkerStore is the worker storage the service reads.
type WorkerStore interface {
	FindOwned(ctx context.Context, owner, id primitive.ObjectID) (models.Worker, error)
	ListAll(ctx context.Context, owner primitive.ObjectID) ([]models.Worker, error)
}

// LogoStore returns stored logo bytes.
type LogoStore interface {
	Open(ctx context.Context, key string) ([]byte, error)
}

// WorkerRenderer renders one worker report.
type WorkerRenderer interface {
	Worker(ctx context.Context, doc render.Document) ([]byte, error)
}

// SummaryRenderer renders the company summary.
type SummaryRenderer interface {
	Summary(ctx context.Context, sum render.Summary) ([]byte, error)
}

// Converter turns print HTML into PDF.
type Converter interface {
	Enabled() bool
	Convert(ctx context.Context, html []byte, paper htmlpdf.Paper) ([]byte, error)
}

// Renderers groups the report adapters.
type Renderers struct {
	Draw interface {
		WorkerRenderer
		SummaryRenderer
	}
	HTML   WorkerRenderer
	Raster WorkerRenderer
	XLSX   WorkerRenderer
}

// NewRenderers builds every adapter from one set of settings.
func NewRenderers(settings render.Settings, logger *zap.Logger) Renderers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Renderers{
		Draw:   render.NewDrawer(settings, logger.Named("draw")),
		HTML:   render.NewHTML(settings, logger.Named("html")),
		Raster: render.NewRasterizer(settings, logger.Named("raster")),
		XLSX:   render.NewXLSX(settings),
	}
}

// File is a generated report ready to be served.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Dependencies wires the reporting service.
type Dependencies struct {
	Companies CompanyStore
	Workers   WorkerStore
	Logos     LogoStore
	Renderers Renderers
	Converter Converter
	Notifier  notify.Notifier
	Settings  render.Settings
	Logger    *zap.Logger
}

// Service generates, shares and summarizes reports.
type Service struct {
	companies CompanyStore
	workers   WorkerStore
	logos     LogoStore
	renderers Renderers
	converter Converter
	notifier  notify.Notifier
	settings  render.Settings
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires a new reporting service instance.
func NewService(deps Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	settings := deps.Settings
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if settings.Currency == "" {
		settings.Currency = render.DefaultSettings().Currency
	}
	return &Service{
		companies: deps.Companies,
		workers:   deps.Workers,
		logos:     deps.Logos,
		renderers: deps.Renderers,
		converter: deps.Converter,
		notifier:  deps.Notifier,
		settings:  settings,
		logger:    logger,
		now:       time.Now,
	}
}

// WorkerReport renders one worker's history in the requested format.
func (s *Service) WorkerReport(ctx context.Context, owner primitive.ObjectID, workerID string, format models.ReportFormat, opts models.ReportOptions) (File, error) {
	worker, err := s.loadWorker(ctx, owner, workerID)
	if err != nil {
		return File{}, err
	}
	company, err := s.loadCompany(ctx, owner)
	if err != nil {
		return File{}, err
	}

	doc := render.NewDocument(company, worker, opts, s.loadLogo(ctx, company), s.now().In(s.settings.Location))
	logger := s.logger.With(
		zap.String("worker_id", worker.ID.Hex()),
		zap.String("format", string(format)),
		zap.Int("days", len(doc.Days)),
	)

	file, err := s.renderWorker(ctx, doc, format)
	if err != nil {
		logger.Error("worker report failed", zap.Error(err))
		return File{}, err
	}
	logger.Info("worker report generated", zap.Int("bytes", len(file.Data)))
	return file, nil
}

func (s *Service) renderWorker(ctx context.Context, doc render.Document, format models.ReportFormat) (File, error) {
	switch format {
	case models.FormatPDF:
		data, err := s.renderers.Draw.Worker(ctx, doc)
		return File{Name: doc.FileName("pdf"), ContentType: contentTypePDF, Data: data}, err
	case models.FormatRaster:
		data, err := s.renderers.Raster.Worker(ctx, doc)
		return File{Name: doc.FileName("pdf"), ContentType: contentTypePDF, Data: data}, err
	case models.FormatHTML:
		data, err := s.renderers.HTML.Worker(ctx, doc)
		return File{Name: doc.FileName("html"), ContentType: contentTypeHTML, Data: data}, err
	case models.FormatXLSX:
		data, err := s.renderers.XLSX.Worker(ctx, doc)
		return File{Name: doc.FileName("xlsx"), ContentType: contentTypeXLSX, Data: data}, err
	case models.FormatHTMLPDF:
		if s.converter == nil || !s.converter.Enabled() {
			return File{}, htmlpdf.ErrConverterUnavailable
		}
		page, err := s.renderers.HTML.Worker(ctx, doc)
		if err != nil {
			return File{}, err
		}
		geo := s.settings.Geometry
		data, err := s.converter.Convert(ctx, page, htmlpdf.PaperFromPoints(geo.PageWidth, geo.PageHeight))
		if err != nil {
			return File{}, fmt.Errorf("convert html report: %w", err)
		}
		return File{Name: doc.FileName("pdf"), ContentType: contentTypePDF, Data: data}, nil
	default:
		return File{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// SummaryReport renders the company-wide summary PDF over rng.
func (s *Service) SummaryReport(ctx context.Context, owner primitive.ObjectID, rng models.DateRange) (File, error) {
	company, err := s.loadCompany(ctx, owner)
	if err != nil {
		return File{}, err
	}
	list, err := s.workers.ListAll(ctx, owner)
	if err != nil {
		return File{}, fmt.Errorf("list workers: %w", err)
	}

	sum := render.NewSummary(company, list, rng, s.loadLogo(ctx, company), s.now().In(s.settings.Location))
	data, err := s.renderers.Draw.Summary(ctx, sum)
	if err != nil {
		s.logger.Error("summary report failed", zap.String("company_id", owner.Hex()), zap.Error(err))
		return File{}, err
	}

	s.logger.Info("summary report generated",
		zap.String("company_id", owner.Hex()),
		zap.Int("workers", len(sum.Workers)),
		zap.Int("bytes", len(data)),
	)
	return File{Name: sum.FileName(), ContentType: contentTypePDF, Data: data}, nil
}

func (s *Service) loadWorker(ctx context.Context, owner primitive.ObjectID, workerID string) (models.Worker, error) {
	id, err := workers.ParseID(workerID)
	if err != nil {
		return models.Worker{}, err
	}
	worker, err := s.workers.FindOwned(ctx, owner, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Worker{}, workers.ErrWorkerNotFound
		}
		return models.Worker{}, fmt.Errorf("load worker: %w", err)
	}
	return worker, nil
}

func (s *Service) loadCompany(ctx context.Context, owner primitive.ObjectID) (models.Company, error) {
	company, err := s.companies.FindByID(ctx, owner)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Company{}, companies.ErrCompanyNotFound
		}
		return models.Company{}, fmt.Errorf("load company: %w", err)
	}
	return company, nil
}

// loadLogo returns nil when the company has no logo or it cannot be read;
// the renderers then show a placeholder.
func (s *Service) loadLogo(ctx context.Context, company models.Company) *render.Logo {
	key := strings.TrimSpace(company.Logo)
	if key == "" || s.logos == nil {
		return nil
	}

	data, err := s.logos.Open(ctx, key)
	if err != nil {
		s.logger.Warn("logo unavailable", zap.String("logo", key), zap.Error(err))
		return nil
	}
	logo, err := render.DecodeLogo(data)
	if err != nil {
		s.logger.Warn("logo unreadable", zap.String("logo", key), zap.Error(err))
		return nil
	}
	return logo
}
