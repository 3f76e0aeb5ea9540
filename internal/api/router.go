package api

import (
	"dealer-insights/internal/api/handler"
	"dealer-insights/pkg/router"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "dealer-insights/docs"
)

func RegisterRoutes(r *router.Router, h *handler.Handler) {
	r.POST("/api/v1/uploads", h.CreateUpload)
	r.GET("/api/v1/uploads", h.ListUploads)
	// More specific routes first
	r.GET("/api/v1/uploads/*/columns", h.GetUploadColumns)
	r.POST("/api/v1/uploads/*/analyze", h.AnalyzeUpload)
	r.POST("/api/v1/uploads/*/question", h.AnswerQuestion)
	r.GET("/api/v1/uploads/*/download", h.DownloadProcessed)
	// Generic upload routes last
	r.GET("/api/v1/uploads/*", h.GetUpload)
	r.DELETE("/api/v1/uploads/*", h.DeleteUpload)

	r.GET("/api/v1/health", h.Health)
	r.GET("/swagger/*", httpSwagger.WrapHandler.ServeHTTP)
}
