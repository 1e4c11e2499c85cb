package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/wagebook/internal/domain/models"
	"github.com/mamadbah2/wagebook/internal/server/middleware"
)

// WorkerService is what the worker endpoints need.
type WorkerService interface {
	Add(ctx context.Context, owner primitive.ObjectID, req models.AddWorkerRequest) (models.Worker, error)
	List(ctx context.Context, owner primitive.ObjectID, search string, page, limit int) (models.WorkerPage, error)
	Get(ctx context.Context, owner primitive.ObjectID, workerID string) (models.Worker, error)
	AddDailyWork(ctx context.Context, owner primitive.ObjectID, workerID string, req models.AddDailyWorkRequest) (models.Worker, error)
	Update(ctx context.Context, owner primitive.ObjectID, workerID string, req models.UpdateWorkerRequest) (models.Worker, error)
	Delete(ctx context.Context, owner primitive.ObjectID, workerID string) error
}

// WorkerHandler serves the worker endpoints.
type WorkerHandler struct {
	svc    WorkerService
	logger *zap.Logger
}

// NewWorkerHandler constructs the HTTP handler adapter.
func NewWorkerHandler(svc WorkerService, logger *zap.Logger) *WorkerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkerHandler{svc: svc, logger: logger}
}

type workerPageView struct {
	Workers     []models.WorkerView `json:"workers"`
	TotalPages  int64               `json:"totalPages"`
	CurrentPage int64               `json:"currentPage"`
	Total       int64               `json:"total"`
}

// Add registers a worker.
func (h *WorkerHandler) Add(c *gin.Context) {
	owner, ok := tenant(c)
	if !ok {
		return
	}
	var req models.AddWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, middleware.FormatBindingError(err))
		return
	}

	worker, err := h.svc.Add(c.Request.Context(), owner, req)
	if err != nil {
		respondError(c, h.logger, err, "Error adding worker")
		return
	}
	c.JSON(http.StatusCreated, models.NewWorkerView(worker))
}

// List returns a page of active workers. Query: search, page, limit.
func (h *WorkerHandler) List(c *gin.Context) {
	owner, ok := tenant(c)
	if !ok {
		return
	}
	page, err := queryInt(c, "page", 1)
	if err != nil {
		badRequest(c, "page must be a number")
		return
	}
	limit, err := queryInt(c, "limit", 10)
	if err != nil {
		badRequest(c, "limit must be a number")
		return
	}

	result, err := h.svc.List(c.Request.Context(), owner, c.Query("search"), page, limit)
	if err != nil {
		respondError(c, h.logger, err, "Error fetching workers")
		return
	}

	view := workerPageView{
		Workers:     make([]models.WorkerView, 0, len(result.Workers)),
		TotalPages:  result.TotalPages,
		CurrentPage: result.CurrentPage,
		Total:       result.Total,
	}
	for _, w := range result.Workers {
		view.Workers = append(view.Workers, models.NewWorkerView(w))
	}
	c.JSON(http.StatusOK, view)
}

// Get returns one worker.
func (h *WorkerHandler) Get(c *gin.Context) {
	owner, ok := tenant(c)
	if !ok {
		return
	}
	worker, err := h.svc.Get(c.Request.Context(), owner, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Error fetching worker")
		return
	}
	c.JSON(http.StatusOK, models.NewWorkerView(worker))
}

// AddDailyWork logs a day of work for a worker.
func (h *WorkerHandler) AddDailyWork(c *gin.Context) {
	owner, ok := tenant(c)
	if !ok {
		return
	}
	var req models.AddDailyWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, middleware.FormatBindingError(err))
		return
	}

	worker, err := h.svc.AddDailyWork(c.Request.Context(), owner, c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err, "Error adding daily work")
		return
	}
	c.JSON(http.StatusCreated, models.NewWorkerView(worker))
}

// Update changes worker fields.
func (h *WorkerHandler) Update(c *gin.Context) {
	owner, ok := tenant(c)
	if !ok {
		return
	}
	var req models.UpdateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, middleware.FormatBindingError(err))
		return
	}

	worker, err := h.svc.Update(c.Request.Context(), owner, c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err, "Error updating worker")
		return
	}
	c.JSON(http.StatusOK, models.NewWorkerView(worker))
}

// Delete removes a worker.
func (h *WorkerHandler) Delete(c *gin.Context) {
	owner, ok := tenant(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), owner, c.Param("id")); err != nil {
		respondError(c, h.logger, err, "Error deleting worker")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Worker deleted successfully"})
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
