package entities

import (
	"time"

	"gorm.io/gorm"

	"roottrack-api/internal/domain/plant"
)

// Plant models the persisted representation of a tracked plant.
type Plant struct {
	ID            string    `gorm:"type:uuid;primaryKey"`
	Name          string    `gorm:"size:120;not null"`
	Species       string    `gorm:"size:120;not null"`
	RootLength    float64   `gorm:"not null"`
	MaxRootLength float64   `gorm:"not null"`
	Stage         string    `gorm:"size:20;not null"`
	DaysPlanted   int       `gorm:"not null"`
	HealthScore   int       `gorm:"not null"`
	WaterLevel    int       `gorm:"not null"`
	LightLevel    int       `gorm:"not null"`
	SoilType      string    `gorm:"size:60;not null"`
	Temperature   float64   `gorm:"not null"`
	Moisture      int       `gorm:"not null"`
	Notes         *string   `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (Plant) TableName() string {
	return "plants"
}

func (p *Plant) BeforeCreate(*gorm.DB) error {
	p.ID = newID(p.ID)
	return nil
}

// EtoD converts the row to the domain plant.
func (p *Plant) EtoD() *plant.Plant {
	return &plant.Plant{
		ID:            p.ID,
		Name:          p.Name,
		Species:       p.Species,
		RootLength:    p.RootLength,
		MaxRootLength: p.MaxRootLength,
		Stage:         plant.Stage(p.Stage),
		DaysPlanted:   p.DaysPlanted,
		HealthScore:   p.HealthScore,
		WaterLevel:    p.WaterLevel,
		LightLevel:    p.LightLevel,
		SoilType:      p.SoilType,
		Temperature:   p.Temperature,
		Moisture:      p.Moisture,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// PlantDtoE converts a domain plant to its row.
func PlantDtoE(p *plant.Plant) *Plant {
	return &Plant{
		ID:            p.ID,
		Name:          p.Name,
		Species:       p.Species,
		RootLength:    p.RootLength,
		MaxRootLength: p.MaxRootLength,
		Stage:         string(p.Stage),
		DaysPlanted:   p.DaysPlanted,
		HealthScore:   p.HealthScore,
		WaterLevel:    p.WaterLevel,
		LightLevel:    p.LightLevel,
		SoilType:      p.SoilType,
		Temperature:   p.Temperature,
		Moisture:      p.Moisture,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
