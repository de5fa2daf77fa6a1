package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roottrack-api/internal/domain/measurement"
	"roottrack-api/internal/interfaces/httpserver/responses"
	"roottrack-api/internal/utils/platformerrors"
)

type MeasurementHandler struct {
	service *measurement.Service
}

func NewMeasurementHandler(service *measurement.Service) *MeasurementHandler {
	return &MeasurementHandler{service: service}
}

// List godoc
// @Summary      List measurements
// @Description  Oldest first. Filter by plant with plant_id.
// @Tags         measurements
// @Produce      json
// @Param        plant_id  query     string  false  "Plant ID"
// @Success      200       {object}  responses.ListResponse[measurement.Measurement]
// @Failure      400       {object}  responses.ErrorResponse
// @Router       /v1/measurements [get]
func (h *MeasurementHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), c.Query("plant_id"))
	if err != nil {
		responses.HandleError(c, err, "failed to list measurements")
		return
	}
	c.JSON(http.StatusOK, responses.NewListResponse(items))
}

// Record godoc
// @Summary      Record a measurement
// @Description  Stores the measurement, updates the plant's root length and logs a measurement activity in one transaction.
// @Tags         measurements
// @Accept       json
// @Produce      json
// @Param        request  body      measurement.RecordInput  true  "Measurement"
// @Success      201      {object}  measurement.Measurement
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      404      {object}  responses.ErrorResponse
// @Router       /v1/measurements [post]
func (h *MeasurementHandler) Record(c *gin.Context) {
	var in measurement.RecordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body: "+err.Error(), "1f7d3b9e-5a2c-4e61-8b04-e6c2a9d7f315")
		return
	}
	m, err := h.service.Record(c.Request.Context(), in)
	if err != nil {
		responses.HandleError(c, err, "failed to record measurement")
		return
	}
	c.JSON(http.StatusCreated, m)
}
