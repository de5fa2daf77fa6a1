package plant

import (
	"context"
	"time"
)

// ===============================================
// Plant Types
// ===============================================

type Stage string

const (
	StageGermination Stage = "germination"
	StageSeedling    Stage = "seedling"
	StageVegetative  Stage = "vegetative"
	StageMature      Stage = "mature"
)

// Defaults applied when a plant is registered without the field.
const (
	DefaultMaxRootLength = 30.0
	DefaultStage         = StageGermination
	DefaultHealthScore   = 100
	DefaultWaterLevel    = 50
	DefaultLightLevel    = 50
	DefaultSoilType      = "loamy"
	DefaultTemperature   = 25.0
	DefaultMoisture      = 50
)

// Plant is a tracked specimen. Levels and health are percentages.
type Plant struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Species       string    `json:"species"`
	RootLength    float64   `json:"root_length"`
	MaxRootLength float64   `json:"max_root_length"`
	Stage         Stage     `json:"stage"`
	DaysPlanted   int       `json:"days_planted"`
	HealthScore   int       `json:"health_score"`
	WaterLevel    int       `json:"water_level"`
	LightLevel    int       `json:"light_level"`
	SoilType      string    `json:"soil_type"`
	Temperature   float64   `json:"temperature"`
	Moisture      int       `json:"moisture"`
	Notes         *string   `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateInput carries a new plant. Nil fields take the registration defaults.
type CreateInput struct {
	Name          string   `json:"name" validate:"required,max=120"`
	Species       string   `json:"species" validate:"required,max=120"`
	RootLength    *float64 `json:"root_length,omitempty" validate:"omitempty,gte=0"`
	MaxRootLength *float64 `json:"max_root_length,omitempty" validate:"omitempty,gt=0"`
	Stage         *Stage   `json:"stage,omitempty" validate:"omitempty,oneof=germination seedling vegetative mature"`
	DaysPlanted   *int     `json:"days_planted,omitempty" validate:"omitempty,gte=0"`
	HealthScore   *int     `json:"health_score,omitempty" validate:"omitempty,gte=0,lte=100"`
	WaterLevel    *int     `json:"water_level,omitempty" validate:"omitempty,gte=0,lte=100"`
	LightLevel    *int     `json:"light_level,omitempty" validate:"omitempty,gte=0,lte=100"`
	SoilType      *string  `json:"soil_type,omitempty" validate:"omitempty,max=60"`
	Temperature   *float64 `json:"temperature,omitempty"`
	Moisture      *int     `json:"moisture,omitempty" validate:"omitempty,gte=0,lte=100"`
	Notes         *string  `json:"notes,omitempty"`
}

// UpdateInput is a partial update; only non-nil fields change.
type UpdateInput struct {
	Name          *string  `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Species       *string  `json:"species,omitempty" validate:"omitempty,min=1,max=120"`
	RootLength    *float64 `json:"root_length,omitempty" validate:"omitempty,gte=0"`
	MaxRootLength *float64 `json:"max_root_length,omitempty" validate:"omitempty,gt=0"`
	Stage         *Stage   `json:"stage,omitempty" validate:"omitempty,oneof=germination seedling vegetative mature"`
	DaysPlanted   *int     `json:"days_planted,omitempty" validate:"omitempty,gte=0"`
	HealthScore   *int     `json:"health_score,omitempty" validate:"omitempty,gte=0,lte=100"`
	WaterLevel    *int     `json:"water_level,omitempty" validate:"omitempty,gte=0,lte=100"`
	LightLevel    *int     `json:"light_level,omitempty" validate:"omitempty,gte=0,lte=100"`
	SoilType      *string  `json:"soil_type,omitempty" validate:"omitempty,max=60"`
	Temperature   *float64 `json:"temperature,omitempty"`
	Moisture      *int     `json:"moisture,omitempty" validate:"omitempty,gte=0,lte=100"`
	Notes         *string  `json:"notes,omitempty"`
}

// ===============================================
// Plant Repository
// ===============================================

type Repository interface {
	Create(ctx context.Context, p *Plant) error
	GetByID(ctx context.Context, id string) (*Plant, error)
	// List returns plants newest first.
	List(ctx context.Context) ([]*Plant, error)
	Update(ctx context.Context, p *Plant) error
}

// ===============================================
// Plant Factory
// ===============================================

// NewPlant builds a plant from input, filling unset fields with defaults.
func NewPlant(in CreateInput) *Plant {
	p := &Plant{
		Name:          in.Name,
		Species:       in.Species,
		RootLength:    0,
		MaxRootLength: DefaultMaxRootLength,
		Stage:         DefaultStage,
		DaysPlanted:   0,
		HealthScore:   DefaultHealthScore,
		WaterLevel:    DefaultWaterLevel,
		LightLevel:    DefaultLightLevel,
		SoilType:      DefaultSoilType,
		Temperature:   DefaultTemperature,
		Moisture:      DefaultMoisture,
		Notes:         in.Notes,
	}
	p.apply(UpdateInput{
		RootLength:    in.RootLength,
		MaxRootLength: in.MaxRootLength,
		Stage:         in.Stage,
		DaysPlanted:   in.DaysPlanted,
		HealthScore:   in.HealthScore,
		WaterLevel:    in.WaterLevel,
		LightLevel:    in.LightLevel,
		SoilType:      in.SoilType,
		Temperature:   in.Temperature,
		Moisture:      in.Moisture,
	})
	return p
}

func (p *Plant) apply(in UpdateInput) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Species != nil {
		p.Species = *in.Species
	}
	if in.RootLength != nil {
		p.RootLength = *in.RootLength
	}
	if in.MaxRootLength != nil {
		p.MaxRootLength = *in.MaxRootLength
	}
	if in.Stage != nil {
		p.Stage = *in.Stage
	}
	if in.DaysPlanted != nil {
		p.DaysPlanted = *in.DaysPlanted
	}
	if in.HealthScore != nil {
		p.HealthScore = *in.HealthScore
	}
	if in.WaterLevel != nil {
		p.WaterLevel = *in.WaterLevel
	}
	if in.LightLevel != nil {
		p.LightLevel = *in.LightLevel
	}
	if in.SoilType != nil {
		p.SoilType = *in.SoilType
	}
	if in.Temperature != nil {
		p.Temperature = *in.Temperature
	}
	if in.Moisture != nil {
		p.Moisture = *in.Moisture
	}
	if in.Notes != nil {
		p.Notes = in.Notes
	}
}
