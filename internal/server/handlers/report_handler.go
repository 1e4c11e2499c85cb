package handlers

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/wagebook/internal/domain/models"
	"github.com/mamadbah2/wagebook/internal/server/middleware"
	"github.com/mamadbah2/wagebook/internal/service/reporting"
)

// ReportService is what the report endpoints need.
type ReportService interface {
	WorkerReport(ctx context.Context, owner primitive.ObjectID, workerID string, format models.ReportFormat, opts models.ReportOptions) (reporting.File, error)
	SummaryReport(ctx context.Context, owner primitive.ObjectID, rng models.DateRange) (reporting.File, error)
	ShareLink(ctx context.Context, owner primitive.ObjectID, req models.ShareReportRequest) (models.ShareReportResponse, error)
}

// ReportHandler serves report downloads and sharing.
type ReportHandler struct {
	svc    ReportService
	logger *zap.Logger
}

// NewReportHandler constructs the HTTP handler adapter.
func NewReportHandler(svc ReportService, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{svc: svc, logger: logger}
}

// WorkerReport streams a worker report.
// Query: format, startDate, endDate, includeNotes.
func (h *ReportHandler) WorkerReport(c *gin.Context) {
	format, ok := models.ParseReportFormat(c.Query("format"))
	if !ok {
		badRequest(c, "format must be one of pdf, html, htmlpdf, raster, xlsx")
		return
	}
	h.workerReport(c, format)
}

// WorkerReportHTMLPDF streams a worker report printed from HTML.
func (h *ReportHandler) WorkerReportHTMLPDF(c *gin.Context) {
	h.workerReport(c, models.FormatHTMLPDF)
}

func (h *ReportHandler) workerReport(c *gin.Context, format models.ReportFormat) {
	owner, ok := tenant(c)
	if !ok {
		return
	}
	opts, err := reportOptions(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	file, err := h.svc.WorkerReport(c.Request.Context(), owner, c.Param("workerId"), format, opts)
	if err != nil {
		respondError(c, h.logger, err, "Error generating report")
		return
	}
	sendFile(c, file, format != models.FormatHTML)
}

// SummaryReport streams the company summary PDF. Query: startDate, endDate.
func (h *ReportHandler) SummaryReport(c *gin.Context) {
	owner, ok := tenant(c)
	if !ok {
		return
	}
	rng, err := dateRange(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	file, err := h.svc.SummaryReport(c.Request.Context(), owner, rng)
	if err != nil {
		respondError(c, h.logger, err, "Error generating summary report")
		return
	}
	sendFile(c, file, true)
}

// Share returns a WhatsApp link for a report and optionally sends it.
func (h *ReportHandler) Share(c *gin.Context) {
	owner, ok := tenant(c)
	if !ok {
		return
	}
	var req models.ShareReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, middleware.FormatBindingError(err))
		return
	}

	resp, err := h.svc.ShareLink(c.Request.Context(), owner, req)
	if err != nil {
		respondError(c, h.logger, err, "Error sharing report")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func sendFile(c *gin.Context, file reporting.File, attachment bool) {
	disposition := "inline"
	if attachment {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": file.Name}))
	c.Header("Content-Length", strconv.Itoa(len(file.Data)))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

func reportOptions(c *gin.Context) (models.ReportOptions, error) {
	rng, err := dateRange(c)
	if err != nil {
		return models.ReportOptions{}, err
	}
	opts := models.ReportOptions{Range: rng}
	if raw := c.Query("includeNotes"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			return models.ReportOptions{}, errors.New("includeNotes must be true or false")
		}
		opts.IncludeNotes = include
	}
	return opts, nil
}

func dateRange(c *gin.Context) (models.DateRange, error) {
	var rng models.DateRange
	if raw := c.Query("startDate"); raw != "" {
		start, err := models.ParseDate(raw)
		if err != nil {
			return rng, errors.New("startDate must be a date (YYYY-MM-DD)")
		}
		rng.Start = &start
	}
	if raw := c.Query("endDate"); raw != "" {
		end, err := models.ParseDate(raw)
		if err != nil {
			return rng, errors.New("endDate must be a date (YYYY-MM-DD)")
		}
		rng.End = &end
	}
	if rng.Start != nil && rng.End != nil && rng.End.Before(*rng.Start) {
		return rng, errors.New("endDate must not be before startDate")
	}
	return rng, nil
}
