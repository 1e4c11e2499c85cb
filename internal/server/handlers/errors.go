package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/wagebook/internal/server/middleware"
	"github.com/mamadbah2/wagebook/internal/service/companies"
	"github.com/mamadbah2/wagebook/internal/service/notify"
	"github.com/mamadbah2/wagebook/internal/service/reporting"
	"github.com/mamadbah2/wagebook/internal/service/workers"
	"github.com/mamadbah2/wagebook/pkg/clients/htmlpdf"
)

// respondError maps service errors to a status and the JSON error envelope.
// Unknown errors are logged and answered with fallback.
func respondError(c *gin.Context, logger *zap.Logger, err error, fallback string) {
	status, message := http.StatusInternalServerError, fallback

	switch {
	case errors.Is(err, workers.ErrWorkerNotFound):
		status, message = http.StatusNotFound, "Worker not found"
	case errors.Is(err, companies.ErrCompanyNotFound):
		status, message = http.StatusNotFound, "Company not found"
	case errors.Is(err, companies.ErrEmailTaken):
		status, message = http.StatusConflict, "Email already registered"
	case errors.Is(err, reporting.ErrUnsupportedFormat):
		status, message = http.StatusBadRequest, "Unsupported report format"
	case errors.Is(err, htmlpdf.ErrConverterUnavailable):
		status, message = http.StatusServiceUnavailable, "HTML to PDF conversion is not available"
	case errors.Is(err, notify.ErrDisabled):
		status, message = http.StatusServiceUnavailable, "WhatsApp delivery is not configured"
	case errors.Is(err, context.Canceled):
		logger.Info("request cancelled", zap.String("path", c.Request.URL.Path))
	default:
		logger.Error(fallback, zap.Error(err), zap.String("request_id", middleware.GetRequestID(c)))
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, middleware.NewErrorResponse(message))
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, middleware.NewErrorResponse(message))
}

// tenant returns the calling company; Tenant middleware guarantees it.
func tenant(c *gin.Context) (primitive.ObjectID, bool) {
	id, ok := middleware.CompanyID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, middleware.NewErrorResponse("authentication required"))
	}
	return id, ok
}
