package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/wagebook/internal/server/handlers"
	"github.com/mamadbah2/wagebook/internal/server/middleware"
)

// Handlers groups the HTTP adapters the router mounts.
type Handlers struct {
	Companies *handlers.CompanyHandler
	Workers   *handlers.WorkerHandler
	Reports   *handlers.ReportHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, jwtSecret []byte, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.POST("/companies", h.Companies.Register)

	authed := api.Group("")
	authed.Use(middleware.Tenant(jwtSecret))

	authed.GET("/profile", h.Companies.Profile)
	authed.PUT("/profile", h.Companies.UpdateProfile)

	workers := authed.Group("/workers")
	workers.POST("", h.Workers.Add)
	workers.GET("", h.Workers.List)
	workers.GET("/:id", h.Workers.Get)
	workers.POST("/:id/work", h.Workers.AddDailyWork)
	workers.PUT("/:id", h.Workers.Update)
	workers.DELETE("/:id", h.Workers.Delete)

	reports := authed.Group("/reports")
	reports.GET("/worker/:workerId", h.Reports.WorkerReport)
	reports.GET("/worker/:workerId/htmlpdf", h.Reports.WorkerReportHTMLPDF)
	reports.GET("/summary", h.Reports.SummaryReport)
	reports.POST("/share", h.Reports.Share)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}
