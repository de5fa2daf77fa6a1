package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"roottrack-api/internal/domain/measurement"
	"roottrack-api/internal/domain/plant"
	"roottrack-api/internal/infrastructure/export"
	"roottrack-api/internal/interfaces/httpserver/responses"
	"roottrack-api/internal/utils/platformerrors"
)

type ExportHandler struct {
	plants       *plant.Service
	measurements *measurement.Service
}

func NewExportHandler(plants *plant.Service, measurements *measurement.Service) *ExportHandler {
	return &ExportHandler{plants: plants, measurements: measurements}
}

// Measurements godoc
// @Summary      Export measurements
// @Description  Excel workbook with a Plants sheet and a Measurements sheet.
// @Tags         exports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        plant_id  query  string  false  "Only this plant's measurements"
// @Success      200
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /v1/exports/measurements.xlsx [get]
func (h *ExportHandler) Measurements(c *gin.Context) {
	ctx := c.Request.Context()
	plants, err := h.plants.List(ctx)
	if err != nil {
		responses.HandleError(c, err, "failed to load plants")
		return
	}
	items, err := h.measurements.List(ctx, c.Query("plant_id"))
	if err != nil {
		responses.HandleError(c, err, "failed to load measurements")
		return
	}

	data, err := export.MeasurementsWorkbook(plants, items)
	if err != nil {
		responses.HandleError(c, platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeInternal, "failed to build workbook", err, "b7f0c3e9-1d5a-4b82-a6c4-2e9d8f1a3c70"), "failed to build workbook")
		return
	}

	filename := fmt.Sprintf("roottrack-measurements-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, export.ContentType, data)
}
