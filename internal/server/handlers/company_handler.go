package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/wagebook/internal/domain/models"
	"github.com/mamadbah2/wagebook/internal/server/middleware"
)

// CompanyService is what the company endpoints need.
type CompanyService interface {
	Register(ctx context.Context, req models.RegisterCompanyRequest) (models.Company, error)
	Profile(ctx context.Context, id primitive.ObjectID) (models.Company, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, req models.UpdateCompanyRequest) (models.Company, error)
}

// CompanyHandler serves registration and the profile.
type CompanyHandler struct {
	svc    CompanyService
	logger *zap.Logger
}

// NewCompanyHandler constructs the HTTP handler adapter.
func NewCompanyHandler(svc CompanyService, logger *zap.Logger) *CompanyHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompanyHandler{svc: svc, logger: logger}
}

// Register creates a company.
func (h *CompanyHandler) Register(c *gin.Context) {
	var req models.RegisterCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, middleware.FormatBindingError(err))
		return
	}

	company, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, "Error registering company")
		return
	}
	c.JSON(http.StatusCreated, company)
}

// Profile returns the calling company.
func (h *CompanyHandler) Profile(c *gin.Context) {
	owner, ok := tenant(c)
	if !ok {
		return
	}
	company, err := h.svc.Profile(c.Request.Context(), owner)
	if err != nil {
		respondError(c, h.logger, err, "Error loading profile")
		return
	}
	c.JSON(http.StatusOK, company)
}

// UpdateProfile changes the calling company's profile fields.
func (h *CompanyHandler) UpdateProfile(c *gin.Context) {
	owner, ok := tenant(c)
	if !ok {
		return
	}
	var req models.UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, middleware.FormatBindingError(err))
		return
	}

	company, err := h.svc.UpdateProfile(c.Request.Context(), owner, req)
	if err != nil {
		respondError(c, h.logger, err, "Error updating profile")
		return
	}
	c.JSON(http.StatusOK, company)
}
