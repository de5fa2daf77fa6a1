package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"roottrack-api/internal/domain/measurement"
	"roottrack-api/internal/domain/plant"
)

const (
	SheetPlants       = "Plants"
	SheetMeasurements = "Measurements"
	ContentType       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	plantHeader = []any{
		"ID", "Name", "Species", "Stage", "Root Length (cm)", "Max Root Length (cm)",
		"Days Planted", "Health Score", "Water Level", "Light Level", "Soil Type",
		"Temperature (C)", "Moisture", "Created At",
	}
	measurementHeader = []any{
		"ID", "Plant ID", "Plant", "Root Length (cm)", "Root Depth (cm)",
		"Branching Count", "Density Score", "Health Notes", "Image", "Measured At",
	}
)

// MeasurementsWorkbook renders plants and their measurements as an xlsx file.
func MeasurementsWorkbook(plants []*plant.Plant, measurements []*measurement.Measurement) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetPlants); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetMeasurements); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	names := make(map[string]string, len(plants))
	plantRows := make([][]any, 0, len(plants))
	for _, p := range plants {
		names[p.ID] = p.Name
		plantRows = append(plantRows, []any{
			p.ID, p.Name, p.Species, string(p.Stage), p.RootLength, p.MaxRootLength,
			p.DaysPlanted, p.HealthScore, p.WaterLevel, p.LightLevel, p.SoilType,
			p.Temperature, p.Moisture, formatTime(p.CreatedAt),
		})
	}
	if err := writeSheet(f, SheetPlants, headerStyle, plantHeader, plantRows); err != nil {
		return nil, err
	}

	measurementRows := make([][]any, 0, len(measurements))
	for _, m := range measurements {
		measurementRows = append(measurementRows, []any{
			m.ID, m.PlantID, names[m.PlantID], m.RootLength, deref(m.RootDepth),
			deref(m.BranchingCount), deref(m.DensityScore), deref(m.HealthNotes),
			deref(m.ImageURL), formatTime(m.MeasuredAt),
		})
	}
	if err := writeSheet(f, SheetMeasurements, headerStyle, measurementHeader, measurementRows); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, headerStyle int, header []any, rows [][]any) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("open %s: %w", sheet, err)
	}
	if err := sw.SetRow("A1", header, excelize.RowOpts{StyleID: headerStyle}); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+2, err)
		}
	}
	return sw.Flush()
}

func deref[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
