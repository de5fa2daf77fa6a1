package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roottrack-api/internal/domain/insight"
	"roottrack-api/internal/interfaces/httpserver/responses"
	"roottrack-api/internal/utils/platformerrors"
)

type InsightHandler struct {
	service *insight.Service
}

func NewInsightHandler(service *insight.Service) *InsightHandler {
	return &InsightHandler{service: service}
}

// List godoc
// @Summary      List insights
// @Tags         insights
// @Produce      json
// @Success      200  {object}  responses.ListResponse[insight.Insight]
// @Router       /v1/insights [get]
func (h *InsightHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "failed to list insights")
		return
	}
	c.JSON(http.StatusOK, responses.NewListResponse(items))
}

// Create godoc
// @Summary      Create an insight
// @Tags         insights
// @Accept       json
// @Produce      json
// @Param        request  body      insight.CreateInput  true  "Insight"
// @Success      201      {object}  insight.Insight
// @Failure      400      {object}  responses.ErrorResponse
// @Router       /v1/insights [post]
func (h *InsightHandler) Create(c *gin.Context) {
	var in insight.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body: "+err.Error(), "4b8e2c6a-9d1f-4a73-b5e0-3c7f1a9d2e48")
		return
	}
	item, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		responses.HandleError(c, err, "failed to create insight")
		return
	}
	c.JSON(http.StatusCreated, item)
}

// MarkRead godoc
// @Summary      Mark an insight read
// @Tags         insights
// @Produce      json
// @Param        insight_id  path      string  true  "Insight ID"
// @Success      200         {object}  insight.Insight
// @Failure      404         {object}  responses.ErrorResponse
// @Router       /v1/insights/{insight_id}/read [patch]
func (h *InsightHandler) MarkRead(c *gin.Context) {
	item, err := h.service.MarkRead(c.Request.Context(), c.Param("insight_id"))
	if err != nil {
		responses.HandleError(c, err, "failed to mark insight read")
		return
	}
	c.JSON(http.StatusOK, item)
}
