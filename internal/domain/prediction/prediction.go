package prediction

import (
	"context"
	"time"
)

// Prediction is a forecast root length for a future date.
type Prediction struct {
	ID              string         `json:"id"`
	PlantID         string         `json:"plant_id"`
	PredictedDate   time.Time      `json:"predicted_date"`
	PredictedLength float64        `json:"predicted_length"`
	Confidence      *float64       `json:"confidence"`
	Conditions      map[string]any `json:"conditions"`
	CreatedAt       time.Time      `json:"created_at"`
}

type Repository interface {
	Create(ctx context.Context, p *Prediction) error
	// ListByPlant returns predictions ordered by predicted date.
	ListByPlant(ctx context.Context, plantID string) ([]*Prediction, error)
}
