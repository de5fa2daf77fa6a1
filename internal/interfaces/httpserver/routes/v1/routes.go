package v1

import (
	"github.com/gin-gonic/gin"

	"roottrack-api/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers *handlers.Provider
}

func NewRoutes(provider *handlers.Provider) *Routes {
	return &Routes{handlers: provider}
}

// Register attaches all v1 routes under the /v1 prefix, plus the
// analyze-root compatibility alias.
func (r *Routes) Register(router gin.IRouter) {
	h := r.handlers

	router.POST("/functions/v1/analyze-root", h.Analysis.Analyze)

	group := router.Group("/v1")
	group.POST("/analyze", h.Analysis.Analyze)
	group.GET("/analyze/schemas", h.Analysis.Schemas)
	group.POST("/analysis/image", h.Workflows.AnalyzeImage)

	group.GET("/dashboard", h.Dashboard.Summary)

	plants := group.Group("/plants")
	plants.GET("", h.Plants.List)
	plants.POST("", h.Plants.Create)
	plants.GET("/:plant_id", h.Plants.Get)
	plants.PATCH("/:plant_id", h.Plants.Update)
	plants.POST("/:plant_id/water", h.Plants.Water)
	plants.POST("/:plant_id/health-check", h.Workflows.HealthCheck)
	plants.GET("/:plant_id/predictions", h.Workflows.ListPredictions)
	plants.POST("/:plant_id/predictions", h.Workflows.PredictGrowth)
	plants.POST("/:plant_id/insights", h.Workflows.GenerateInsights)

	group.GET("/measurements", h.Measurements.List)
	group.POST("/measurements", h.Measurements.Record)

	group.GET("/insights", h.Insights.List)
	group.POST("/insights", h.Insights.Create)
	group.PATCH("/insights/:insight_id/read", h.Insights.MarkRead)

	group.GET("/activity", h.Activity.Recent)
	group.POST("/activity", h.Activity.Log)

	group.GET("/exports/measurements.xlsx", h.Exports.Measurements)
}
