package insight

import (
	"context"
	"time"
)

type Type string

const (
	TypeIrrigation    Type = "irrigation"
	TypeFertilization Type = "fertilization"
	TypeHealth        Type = "health"
	TypeStress        Type = "stress"
	TypeGeneral       Type = "general"
)

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

type Insight struct {
	ID          string    `json:"id"`
	PlantID     *string   `json:"plant_id"`
	InsightType Type      `json:"insight_type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    Priority  `json:"priority"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateInput struct {
	PlantID     *string  `json:"plant_id,omitempty" validate:"omitempty,uuid"`
	InsightType Type     `json:"insight_type" validate:"required,oneof=irrigation fertilization health stress general"`
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"required"`
	Priority    Priority `json:"priority,omitempty" validate:"omitempty,oneof=low medium high critical"`
}

type Repository interface {
	Create(ctx context.Context, in *Insight) error
	// List returns insights newest first.
	List(ctx context.Context) ([]*Insight, error)
	MarkRead(ctx context.Context, id string) (*Insight, error)
}
