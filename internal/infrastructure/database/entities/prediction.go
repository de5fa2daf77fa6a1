package entities

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"roottrack-api/internal/domain/prediction"
)

type Prediction struct {
	ID              string    `gorm:"type:uuid;primaryKey"`
	PlantID         string    `gorm:"type:uuid;not null;index:idx_predictions_plant_date,priority:1"`
	Plant           *Plant    `gorm:"foreignKey:PlantID"`
	PredictedDate   time.Time `gorm:"not null;index:idx_predictions_plant_date,priority:2"`
	PredictedLength float64   `gorm:"not null"`
	Confidence      *float64
	Conditions      datatypes.JSON
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

func (Prediction) TableName() string {
	return "predictions"
}

func (p *Prediction) BeforeCreate(*gorm.DB) error {
	p.ID = newID(p.ID)
	return nil
}

func (p *Prediction) EtoD() *prediction.Prediction {
	return &prediction.Prediction{
		ID:              p.ID,
		PlantID:         p.PlantID,
		PredictedDate:   p.PredictedDate,
		PredictedLength: p.PredictedLength,
		Confidence:      p.Confidence,
		Conditions:      fromJSON(p.Conditions),
		CreatedAt:       p.CreatedAt,
	}
}

func PredictionDtoE(p *prediction.Prediction) *Prediction {
	return &Prediction{
		ID:              p.ID,
		PlantID:         p.PlantID,
		PredictedDate:   p.PredictedDate,
		PredictedLength: p.PredictedLength,
		Confidence:      p.Confidence,
		Conditions:      toJSON(p.Conditions),
		CreatedAt:       p.CreatedAt,
	}
}

// All lists every entity for AutoMigrate.
func All() []any {
	return []any{&Plant{}, &Measurement{}, &Insight{}, &ActivityLog{}, &Prediction{}}
}
