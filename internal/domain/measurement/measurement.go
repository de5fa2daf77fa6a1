package measurement

import (
	"context"
	"encoding/json"
	"time"
)

// Measurement is an append-only root observation.
type Measurement struct {
	ID             string          `json:"id"`
	PlantID        string          `json:"plant_id"`
	RootLength     float64         `json:"root_length"`
	RootDepth      *float64        `json:"root_depth"`
	BranchingCount *int            `json:"branching_count"`
	DensityScore   *float64        `json:"density_score"`
	HealthNotes    *string         `json:"health_notes"`
	ImageURL       *string         `json:"image_url"`
	AIAnalysis     json.RawMessage `json:"ai_analysis"`
	MeasuredAt     time.Time       `json:"measured_at"`
	CreatedAt      time.Time       `json:"created_at"`
}

type RecordInput struct {
	PlantID        string          `json:"plant_id" validate:"required,uuid"`
	RootLength     float64         `json:"root_length" validate:"gte=0"`
	RootDepth      *float64        `json:"root_depth,omitempty" validate:"omitempty,gte=0"`
	BranchingCount *int            `json:"branching_count,omitempty" validate:"omitempty,gte=0"`
	DensityScore   *float64        `json:"density_score,omitempty" validate:"omitempty,gte=0"`
	HealthNotes    *string         `json:"health_notes,omitempty"`
	ImageURL       *string         `json:"image_url,omitempty"`
	AIAnalysis     json.RawMessage `json:"ai_analysis,omitempty" swaggertype:"object"`
	MeasuredAt     *time.Time      `json:"measured_at,omitempty"`
}

type Filter struct {
	PlantID *string
}

type Repository interface {
	Create(ctx context.Context, m *Measurement) error
	// List returns measurements oldest first.
	List(ctx context.Context, filter Filter) ([]*Measurement, error)
}
