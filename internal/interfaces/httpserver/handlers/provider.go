package handlers

import (
	"github.com/rs/zerolog"

	"roottrack-api/internal/domain/activity"
	"roottrack-api/internal/domain/analysis"
	"roottrack-api/internal/domain/dashboard"
	"roottrack-api/internal/domain/insight"
	"roottrack-api/internal/domain/measurement"
	"roottrack-api/internal/domain/plant"
	"roottrack-api/internal/domain/prediction"
	"roottrack-api/internal/domain/workflow"
)

// Services groups the domain services the HTTP layer depends on.
type Services struct {
	Analysis     *analysis.Service
	Plants       *plant.Service
	Measurements *measurement.Service
	Insights     *insight.Service
	Activity     *activity.Service
	Predictions  *prediction.Service
	Dashboard    *dashboard.Service
	Workflows    *workflow.Service
}

// Provider wires HTTP handlers.
type Provider struct {
	Analysis     *AnalysisHandler
	Plants       *PlantHandler
	Measurements *MeasurementHandler
	Insights     *InsightHandler
	Activity     *ActivityHandler
	Dashboard    *DashboardHandler
	Workflows    *WorkflowHandler
	Exports      *ExportHandler
}

func NewProvider(svc Services, log zerolog.Logger) *Provider {
	return &Provider{
		Analysis:     NewAnalysisHandler(svc.Analysis, log),
		Plants:       NewPlantHandler(svc.Plants),
		Measurements: NewMeasurementHandler(svc.Measurements),
		Insights:     NewInsightHandler(svc.Insights),
		Activity:     NewActivityHandler(svc.Activity),
		Dashboard:    NewDashboardHandler(svc.Dashboard),
		Workflows:    NewWorkflowHandler(svc.Workflows, svc.Predictions, log),
		Exports:      NewExportHandler(svc.Plants, svc.Measurements),
	}
}
