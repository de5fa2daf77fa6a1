package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roottrack-api/internal/domain/plant"
	"roottrack-api/internal/interfaces/httpserver/responses"
	"roottrack-api/internal/utils/platformerrors"
)

type PlantHandler struct {
	service *plant.Service
}

func NewPlantHandler(service *plant.Service) *PlantHandler {
	return &PlantHandler{service: service}
}

type waterRequest struct {
	WaterLevel *int `json:"water_level" binding:"required"`
}

// List godoc
// @Summary      List plants
// @Tags         plants
// @Produce      json
// @Success      200  {object}  responses.ListResponse[plant.Plant]
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /v1/plants [get]
func (h *PlantHandler) List(c *gin.Context) {
	plants, err := h.service.List(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "failed to list plants")
		return
	}
	c.JSON(http.StatusOK, responses.NewListResponse(plants))
}

// Get godoc
// @Summary      Get a plant
// @Tags         plants
// @Produce      json
// @Param        plant_id  path      string  true  "Plant ID"
// @Success      200       {object}  plant.Plant
// @Failure      400       {object}  responses.ErrorResponse
// @Failure      404       {object}  responses.ErrorResponse
// @Router       /v1/plants/{plant_id} [get]
func (h *PlantHandler) Get(c *gin.Context) {
	p, err := h.service.Get(c.Request.Context(), c.Param("plant_id"))
	if err != nil {
		responses.HandleError(c, err, "failed to get plant")
		return
	}
	c.JSON(http.StatusOK, p)
}

// Create godoc
// @Summary      Register a plant
// @Description  Omitted fields take the registration defaults.
// @Tags         plants
// @Accept       json
// @Produce      json
// @Param        request  body      plant.CreateInput  true  "Plant"
// @Success      201      {object}  plant.Plant
// @Failure      400      {object}  responses.ErrorResponse
// @Router       /v1/plants [post]
func (h *PlantHandler) Create(c *gin.Context) {
	var in plant.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body: "+err.Error(), "9a4c2e71-0b3d-4f58-86a2-c1d7e9f3b504")
		return
	}
	p, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		responses.HandleError(c, err, "failed to create plant")
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Update godoc
// @Summary      Update a plant
// @Description  Partial update. Only the provided fields change.
// @Tags         plants
// @Accept       json
// @Produce      json
// @Param        plant_id  path      string             true  "Plant ID"
// @Param        request   body      plant.UpdateInput  true  "Changed fields"
// @Success      200       {object}  plant.Plant
// @Failure      400       {object}  responses.ErrorResponse
// @Failure      404       {object}  responses.ErrorResponse
// @Router       /v1/plants/{plant_id} [patch]
func (h *PlantHandler) Update(c *gin.Context) {
	var in plant.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body: "+err.Error(), "6d2b8f40-7e1a-4c93-b5d6-0f4e8a2c1b93")
		return
	}
	p, err := h.service.Update(c.Request.Context(), c.Param("plant_id"), in)
	if err != nil {
		responses.HandleError(c, err, "failed to update plant")
		return
	}
	c.JSON(http.StatusOK, p)
}

// Water godoc
// @Summary      Water a plant
// @Description  Sets the water level and logs a water activity.
// @Tags         plants
// @Accept       json
// @Produce      json
// @Param        plant_id  path      string        true  "Plant ID"
// @Param        request   body      waterRequest  true  "New water level (0-100)"
// @Success      200       {object}  plant.Plant
// @Failure      400       {object}  responses.ErrorResponse
// @Failure      404       {object}  responses.ErrorResponse
// @Router       /v1/plants/{plant_id}/water [post]
func (h *PlantHandler) Water(c *gin.Context) {
	var req waterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body: "+err.Error(), "c8e5a1d3-2f6b-4a07-9c4e-7b1d3f5a8e26")
		return
	}
	p, err := h.service.Water(c.Request.Context(), c.Param("plant_id"), *req.WaterLevel)
	if err != nil {
		responses.HandleError(c, err, "failed to water plant")
		return
	}
	c.JSON(http.StatusOK, p)
}
