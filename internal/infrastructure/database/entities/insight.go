package entities

import (
	"time"

	"gorm.io/gorm"

	"roottrack-api/internal/domain/insight"
)

type Insight struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	PlantID     *string   `gorm:"type:uuid;index"`
	Plant       *Plant    `gorm:"foreignKey:PlantID"`
	InsightType string    `gorm:"size:20;not null"`
	Title       string    `gorm:"size:200;not null"`
	Description string    `gorm:"type:text;not null"`
	Priority    string    `gorm:"size:10;not null;default:medium"`
	IsRead      bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
}

func (Insight) TableName() string {
	return "insights"
}

func (i *Insight) BeforeCreate(*gorm.DB) error {
	i.ID = newID(i.ID)
	return nil
}

func (i *Insight) EtoD() *insight.Insight {
	return &insight.Insight{
		ID:          i.ID,
		PlantID:     i.PlantID,
		InsightType: insight.Type(i.InsightType),
		Title:       i.Title,
		Description: i.Description,
		Priority:    insight.Priority(i.Priority),
		IsRead:      i.IsRead,
		CreatedAt:   i.CreatedAt,
	}
}

func InsightDtoE(i *insight.Insight) *Insight {
	return &Insight{
		ID:          i.ID,
		PlantID:     i.PlantID,
		InsightType: string(i.InsightType),
		Title:       i.Title,
		Description: i.Description,
		Priority:    string(i.Priority),
		IsRead:      i.IsRead,
		CreatedAt:   i.CreatedAt,
	}
}
