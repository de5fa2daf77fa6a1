package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roottrack-api/internal/domain/dashboard"
	"roottrack-api/internal/infrastructure/metrics"
	"roottrack-api/internal/interfaces/httpserver/responses"
)

type DashboardHandler struct {
	service *dashboard.Service
}

func NewDashboardHandler(service *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Summary godoc
// @Summary      Dashboard summary
// @Description  Plant count, average growth rate, average water and light levels, the recent growth chart and per-plant display values.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dashboard.Summary
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /v1/dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, cached, err := h.service.Summary(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "failed to build dashboard")
		return
	}
	metrics.RecordDashboardCache(cached)
	if cached {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}
	c.JSON(http.StatusOK, summary)
}
