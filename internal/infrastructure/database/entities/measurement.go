package entities

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"roottrack-api/internal/domain/measurement"
)

type Measurement struct {
	ID             string         `gorm:"type:uuid;primaryKey"`
	PlantID        string         `gorm:"type:uuid;not null;index:idx_measurements_plant_measured,priority:1"`
	Plant          *Plant         `gorm:"foreignKey:PlantID"`
	RootLength     float64        `gorm:"not null"`
	RootDepth      *float64
	BranchingCount *int
	DensityScore   *float64
	HealthNotes    *string        `gorm:"type:text"`
	ImageURL       *string        `gorm:"type:text"`
	AIAnalysis     datatypes.JSON `gorm:"column:ai_analysis"`
	MeasuredAt     time.Time      `gorm:"not null;index:idx_measurements_plant_measured,priority:2"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
}

func (Measurement) TableName() string {
	return "measurements"
}

func (m *Measurement) BeforeCreate(*gorm.DB) error {
	m.ID = newID(m.ID)
	return nil
}

func (m *Measurement) EtoD() *measurement.Measurement {
	var analysis json.RawMessage
	if len(m.AIAnalysis) > 0 {
		analysis = json.RawMessage(m.AIAnalysis)
	}
	return &measurement.Measurement{
		ID:             m.ID,
		PlantID:        m.PlantID,
		RootLength:     m.RootLength,
		RootDepth:      m.RootDepth,
		BranchingCount: m.BranchingCount,
		DensityScore:   m.DensityScore,
		HealthNotes:    m.HealthNotes,
		ImageURL:       m.ImageURL,
		AIAnalysis:     analysis,
		MeasuredAt:     m.MeasuredAt,
		CreatedAt:      m.CreatedAt,
	}
}

func MeasurementDtoE(m *measurement.Measurement) *Measurement {
	var analysis datatypes.JSON
	if len(m.AIAnalysis) > 0 {
		analysis = datatypes.JSON(m.AIAnalysis)
	}
	return &Measurement{
		ID:             m.ID,
		PlantID:        m.PlantID,
		RootLength:     m.RootLength,
		RootDepth:      m.RootDepth,
		BranchingCount: m.BranchingCount,
		DensityScore:   m.DensityScore,
		HealthNotes:    m.HealthNotes,
		ImageURL:       m.ImageURL,
		AIAnalysis:     analysis,
		MeasuredAt:     m.MeasuredAt,
		CreatedAt:      m.CreatedAt,
	}
}
