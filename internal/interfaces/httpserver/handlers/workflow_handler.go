package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"roottrack-api/internal/domain/analysis"
	"roottrack-api/internal/domain/prediction"
	"roottrack-api/internal/domain/workflow"
	"roottrack-api/internal/infrastructure/metrics"
	"roottrack-api/internal/interfaces/httpserver/responses"
	"roottrack-api/internal/utils/platformerrors"
)

// WorkflowHandler runs analyses for a plant and returns what was persisted.
type WorkflowHandler struct {
	service     *workflow.Service
	predictions *prediction.Service
	log         zerolog.Logger
}

func NewWorkflowHandler(service *workflow.Service, predictions *prediction.Service, log zerolog.Logger) *WorkflowHandler {
	return &WorkflowHandler{
		service:     service,
		predictions: predictions,
		log:         log.With().Str("component", "workflow-handler").Logger(),
	}
}

type analyzeImageRequest struct {
	PlantID     string `json:"plant_id,omitempty"`
	ImageBase64 string `json:"imageBase64,omitempty"`
}

// HealthCheck godoc
// @Summary      Run a health assessment
// @Description  Assesses the plant and saves up to three early warnings as health insights.
// @Tags         workflows
// @Produce      json
// @Param        plant_id  path      string  true  "Plant ID"
// @Success      200       {object}  responses.WorkflowResponse
// @Failure      404       {object}  responses.ErrorResponse
// @Failure      429       {object}  responses.ErrorResponse
// @Failure      500       {object}  responses.ErrorResponse
// @Router       /v1/plants/{plant_id}/health-check [post]
func (h *WorkflowHandler) HealthCheck(c *gin.Context) {
	outcome, err := h.service.HealthCheck(c.Request.Context(), c.Param("plant_id"))
	h.respond(c, analysis.KindHealthAssessment, outcome, err)
}

// PredictGrowth godoc
// @Summary      Predict root growth
// @Description  Runs a growth prediction and stores every predicted point.
// @Tags         workflows
// @Produce      json
// @Param        plant_id  path      string  true  "Plant ID"
// @Success      200       {object}  responses.WorkflowResponse
// @Failure      404       {object}  responses.ErrorResponse
// @Failure      500       {object}  responses.ErrorResponse
// @Router       /v1/plants/{plant_id}/predictions [post]
func (h *WorkflowHandler) PredictGrowth(c *gin.Context) {
	outcome, err := h.service.PredictGrowth(c.Request.Context(), c.Param("plant_id"))
	h.respond(c, analysis.KindPredictGrowth, outcome, err)
}

// ListPredictions godoc
// @Summary      List stored predictions
// @Tags         workflows
// @Produce      json
// @Param        plant_id  path      string  true  "Plant ID"
// @Success      200       {object}  responses.ListResponse[prediction.Prediction]
// @Router       /v1/plants/{plant_id}/predictions [get]
func (h *WorkflowHandler) ListPredictions(c *gin.Context) {
	items, err := h.predictions.ListByPlant(c.Request.Context(), c.Param("plant_id"))
	if err != nil {
		responses.HandleError(c, err, "failed to list predictions")
		return
	}
	c.JSON(http.StatusOK, responses.NewListResponse(items))
}

// GenerateInsights godoc
// @Summary      Generate AI insights
// @Description  Generates recommendations for the plant and stores each as an insight.
// @Tags         workflows
// @Produce      json
// @Param        plant_id  path      string  true  "Plant ID"
// @Success      200       {object}  responses.WorkflowResponse
// @Failure      404       {object}  responses.ErrorResponse
// @Failure      500       {object}  responses.ErrorResponse
// @Router       /v1/plants/{plant_id}/insights [post]
func (h *WorkflowHandler) GenerateInsights(c *gin.Context) {
	outcome, err := h.service.GenerateInsights(c.Request.Context(), c.Param("plant_id"))
	h.respond(c, analysis.KindGenerateInsights, outcome, err)
}

// AnalyzeImage godoc
// @Summary      Analyze a root photo
// @Description  Analyzes the image, stores it when object storage is configured and records a measurement when a plant is given.
// @Tags         workflows
// @Accept       json
// @Produce      json
// @Param        request  body      analyzeImageRequest  true  "Image as a data URL"
// @Success      200      {object}  responses.WorkflowResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      404      {object}  responses.ErrorResponse
// @Failure      500      {object}  responses.ErrorResponse
// @Router       /v1/analysis/image [post]
func (h *WorkflowHandler) AnalyzeImage(c *gin.Context) {
	var req analyzeImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body: "+err.Error(), "5a9d1c7e-3b4f-4e28-8d60-f1b3a7c9e254")
		return
	}
	outcome, err := h.service.AnalyzeImage(c.Request.Context(), req.PlantID, req.ImageBase64)
	h.respond(c, analysis.KindAnalyzeImage, outcome, err)
}

func (h *WorkflowHandler) respond(c *gin.Context, kind analysis.Kind, outcome *workflow.Outcome, err error) {
	if err != nil {
		metrics.RecordAnalysis(string(kind), outcomeFor(err))
		responses.HandleError(c, err, "Unknown error occurred")
		return
	}

	label := "success"
	if outcome.Result.Raw {
		label = "raw"
	}
	metrics.RecordAnalysis(string(kind), label)

	c.JSON(http.StatusOK, responses.WorkflowResponse{
		Success:     true,
		Result:      outcome.Result.Payload,
		Persisted:   !outcome.Result.Raw,
		Insights:    outcome.Insights,
		Predictions: outcome.Predictions,
		Measurement: outcome.Measurement,
		ImageKey:    outcome.ImageKey,
	})
}
