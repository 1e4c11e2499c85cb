// Package workers manages a company's workers and their daily work log.
package workers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/wagebook/internal/domain/models"
	"github.com/mamadbah2/wagebook/internal/repository"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	mirrorTimeout   = 10 * time.Second
)

// ErrWorkerNotFound is returned for unknown ids and for workers owned by
// another company.
var ErrWorkerNotFound = errors.New("worker not found")

// Repository is the storage the service needs.
type Repository interface {
	Create(ctx context.Context, worker *models.Worker) error
	List(ctx context.Context, owner primitive.ObjectID, search string, page, limit int) ([]models.Worker, int64, error)
	FindOwned(ctx context.Context, owner, id primitive.ObjectID) (models.Worker, error)
	AppendDailyWork(ctx context.Context, owner, id primitive.ObjectID, day models.DailyWork) (models.Worker, error)
	Update(ctx context.Context, owner, id primitive.ObjectID, changes models.WorkerChanges, at time.Time) (models.Worker, error)
	Delete(ctx context.Context, owner, id primitive.ObjectID) error
}

// CompanyFinder resolves the company a mirrored row is labelled with.
type CompanyFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Company, error)
}

// Mirror copies logged days to an external sheet.
type Mirror interface {
	AppendDailyWork(ctx context.Context, company models.Company, worker models.Worker, day models.DailyWork) error
}

// Service implements the worker operations.
type Service struct {
	repo      Repository
	companies CompanyFinder
	mirror    Mirror
	logger    *zap.Logger
	now       func() time.Time
	mirroring sync.WaitGroup
}

// NewService wires a worker service. mirror may be nil.
func NewService(repo Repository, companies CompanyFinder, mirror Mirror, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, companies: companies, mirror: mirror, logger: logger, now: time.Now}
}

// ParseID converts a hex id, treating malformed ids as unknown workers.
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, ErrWorkerNotFound
	}
	return id, nil
}

// Add registers a new active worker.
func (s *Service) Add(ctx context.Context, owner primitive.ObjectID, req models.AddWorkerRequest) (models.Worker, error) {
	now := s.now().UTC()
	worker := models.Worker{
		Name:        strings.TrimSpace(req.Name),
		Phone:       strings.TrimSpace(req.Phone),
		Email:       strings.TrimSpace(req.Email),
		Address:     strings.TrimSpace(req.Address),
		WorkHistory: []models.DailyWork{},
		Owner:       owner,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, &worker); err != nil {
		return models.Worker{}, fmt.Errorf("create worker: %w", err)
	}
	return worker, nil
}

// List returns one page of active workers whose name contains search.
func (s *Service) List(ctx context.Context, owner primitive.ObjectID, search string, page, limit int) (models.WorkerPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	workers, total, err := s.repo.List(ctx, owner, search, page, limit)
	if err != nil {
		return models.WorkerPage{}, fmt.Errorf("list workers: %w", err)
	}
	if workers == nil {
		workers = []models.Worker{}
	}

	return models.WorkerPage{
		Workers:     workers,
		TotalPages:  (total + int64(limit) - 1) / int64(limit),
		CurrentPage: int64(page),
		Total:       total,
	}, nil
}

// Get loads one worker of owner.
func (s *Service) Get(ctx context.Context, owner primitive.ObjectID, workerID string) (models.Worker, error) {
	id, err := ParseID(workerID)
	if err != nil {
		return models.Worker{}, err
	}
	worker, err := s.repo.FindOwned(ctx, owner, id)
	if err != nil {
		return models.Worker{}, notFound(err, "load worker")
	}
	return worker, nil
}

// AddDailyWork appends a day to the worker's history. Totals are always
// derived from the items, and a missing date means now. The sheet mirror runs
// in the background and never fails or delays the request.
func (s *Service) AddDailyWork(ctx context.Context, owner primitive.ObjectID, workerID string, req models.AddDailyWorkRequest) (models.Worker, error) {
	id, err := ParseID(workerID)
	if err != nil {
		return models.Worker{}, err
	}

	day := req.ToDailyWork(s.now().UTC())
	day.ID = primitive.NewObjectID()

	worker, err := s.repo.AppendDailyWork(ctx, owner, id, day)
	if err != nil {
		return models.Worker{}, notFound(err, "append daily work")
	}

	s.logger.Info("daily work logged",
		zap.String("worker_id", worker.ID.Hex()),
		zap.Int("items", len(day.Items)),
		zap.Float64("total", day.TotalEarned),
	)
	s.mirrorDay(ctx, owner, worker, day)
	return worker, nil
}

func (s *Service) mirrorDay(ctx context.Context, owner primitive.ObjectID, worker models.Worker, day models.DailyWork) {
	if s.mirror == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)

	s.mirroring.Add(1)
	go func() {
		defer s.mirroring.Done()
		s.writeMirror(ctx, owner, worker, day)
	}()
}

// Wait blocks until background mirror writes have finished.
func (s *Service) Wait() {
	s.mirroring.Wait()
}

func (s *Service) writeMirror(ctx context.Context, owner primitive.ObjectID, worker models.Worker, day models.DailyWork) {
	ctx, cancel := context.WithTimeout(ctx, mirrorTimeout)
	defer cancel()

	var company models.Company
	if s.companies != nil {
		c, err := s.companies.FindByID(ctx, owner)
		if err != nil {
			s.logger.Warn("mirror company lookup failed", zap.Error(err))
		}
		company = c
	}
	if err := s.mirror.AppendDailyWork(ctx, company, worker, day); err != nil {
		s.logger.Warn("work log mirror failed", zap.String("worker_id", worker.ID.Hex()), zap.Error(err))
	}
}

// Update applies the non-nil fields of req in a single write.
func (s *Service) Update(ctx context.Context, owner primitive.ObjectID, workerID string, req models.UpdateWorkerRequest) (models.Worker, error) {
	id, err := ParseID(workerID)
	if err != nil {
		return models.Worker{}, err
	}

	worker, err := s.repo.Update(ctx, owner, id, req.Changes(), s.now().UTC())
	if err != nil {
		return models.Worker{}, notFound(err, "update worker")
	}
	return worker, nil
}

// Delete removes a worker of owner.
func (s *Service) Delete(ctx context.Context, owner primitive.ObjectID, workerID string) error {
	id, err := ParseID(workerID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, owner, id); err != nil {
		return notFound(err, "delete worker")
	}
	s.logger.Info("worker deleted", zap.String("worker_id", workerID))
	return nil
}

func notFound(err error, op string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrWorkerNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
