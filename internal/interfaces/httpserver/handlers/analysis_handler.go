package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"roottrack-api/internal/domain/analysis"
	"roottrack-api/internal/infrastructure/metrics"
	"roottrack-api/internal/interfaces/httpserver/responses"
	"roottrack-api/internal/utils/platformerrors"
)

// AnalysisHandler exposes the AI analysis proxy.
type AnalysisHandler struct {
	service *analysis.Service
	log     zerolog.Logger
}

func NewAnalysisHandler(service *analysis.Service, log zerolog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		service: service,
		log:     log.With().Str("component", "analysis-handler").Logger(),
	}
}

// Analyze godoc
// @Summary      Run an AI root analysis
// @Description  Forwards one analysis request (analyze-image, predict-growth, generate-insights, health-assessment) to the model provider and returns its parsed JSON answer.
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Param        request  body      analysis.Request  true  "Analysis request"
// @Success      200      {object}  responses.AnalyzeResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      402      {object}  responses.ErrorResponse
// @Failure      429      {object}  responses.ErrorResponse
// @Failure      500      {object}  responses.ErrorResponse
// @Router       /v1/analyze [post]
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req analysis.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.RecordAnalysis("", "bad_request")
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body: "+err.Error(), "3e1f9a2b-6c4d-4b7e-8a15-d2c3b4a5f607")
		return
	}

	result, err := h.service.Analyze(c.Request.Context(), req)
	if err != nil {
		metrics.RecordAnalysis(metricKind(req.Type), outcomeFor(err))
		responses.HandleError(c, err, "Unknown error occurred")
		return
	}

	outcome := "success"
	if result.Raw {
		outcome = "raw"
	}
	metrics.RecordAnalysis(req.Type, outcome)

	c.JSON(http.StatusOK, responses.AnalyzeResponse{Success: true, Result: result.Payload})
}

// Schemas godoc
// @Summary      Analysis result schemas
// @Description  JSON schema of the result object for each analysis kind.
// @Tags         analysis
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /v1/analyze/schemas [get]
func (h *AnalysisHandler) Schemas(c *gin.Context) {
	c.JSON(http.StatusOK, analysis.Schemas())
}

// metricKind keeps arbitrary client input out of label values.
func metricKind(raw string) string {
	if analysis.Kind(raw).Valid() {
		return raw
	}
	return "invalid"
}

func outcomeFor(err error) string {
	var perr *platformerrors.PlatformError
	if errors.As(err, &perr) {
		return strings.ToLower(string(perr.GetErrorType()))
	}
	return "error"
}
