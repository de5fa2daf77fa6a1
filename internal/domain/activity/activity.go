package activity

import (
	"context"
	"time"
)

type Type string

const (
	TypeMeasurement Type = "measurement"
	TypeWater       Type = "water"
	TypeLight       Type = "light"
	TypeGermination Type = "germination"
	TypePhoto       Type = "photo"
	TypeAnalysis    Type = "analysis"
	TypeNote        Type = "note"
)

// MaxRecent caps the activity feed.
const MaxRecent = 20

// Entry is one append-only line in the activity feed.
type Entry struct {
	ID           string         `json:"id"`
	PlantID      *string        `json:"plant_id"`
	ActivityType Type           `json:"activity_type"`
	Description  string         `json:"description"`
	Metadata     map[string]any `json:"metadata"`
	CreatedAt    time.Time      `json:"created_at"`
}

type LogInput struct {
	PlantID      *string        `json:"plant_id,omitempty" validate:"omitempty,uuid"`
	ActivityType Type           `json:"activity_type" validate:"required,oneof=measurement water light germination photo analysis note"`
	Description  string         `json:"description" validate:"required,max=1000"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	// ListRecent returns at most limit entries, newest first.
	ListRecent(ctx context.Context, limit int) ([]*Entry, error)
}

// Publisher fans activity out to downstream consumers.
type Publisher interface {
	PublishActivity(ctx context.Context, entry *Entry) error
}
