package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"roottrack-api/internal/domain/activity"
	"roottrack-api/internal/interfaces/httpserver/responses"
	"roottrack-api/internal/utils/platformerrors"
)

type ActivityHandler struct {
	service *activity.Service
}

func NewActivityHandler(service *activity.Service) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// Recent godoc
// @Summary      Recent activity
// @Description  Newest first. The limit defaults to and is capped at 20.
// @Tags         activity
// @Produce      json
// @Param        limit  query     int  false  "Maximum entries"
// @Success      200    {object}  responses.ListResponse[activity.Entry]
// @Failure      400    {object}  responses.ErrorResponse
// @Router       /v1/activity [get]
func (h *ActivityHandler) Recent(c *gin.Context) {
	limit := activity.MaxRecent
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "limit must be an integer", "7c3a9e15-2b8d-4f06-a1e4-9d5b7c3f0a62")
			return
		}
		limit = parsed
	}

	items, err := h.service.Recent(c.Request.Context(), limit)
	if err != nil {
		responses.HandleError(c, err, "failed to list activity")
		return
	}
	c.JSON(http.StatusOK, responses.NewListResponse(items))
}

// Log godoc
// @Summary      Log an activity
// @Tags         activity
// @Accept       json
// @Produce      json
// @Param        request  body      activity.LogInput  true  "Activity"
// @Success      201      {object}  activity.Entry
// @Failure      400      {object}  responses.ErrorResponse
// @Router       /v1/activity [post]
func (h *ActivityHandler) Log(c *gin.Context) {
	var in activity.LogInput
	if err := c.ShouldBindJSON(&in); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body: "+err.Error(), "e2d6b0a8-4c1f-4e37-9b52-8a0f6d4c2e19")
		return
	}
	entry, err := h.service.Log(c.Request.Context(), in)
	if err != nil {
		responses.HandleError(c, err, "failed to log activity")
		return
	}
	c.JSON(http.StatusCreated, entry)
}
