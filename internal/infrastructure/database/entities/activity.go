package entities

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"roottrack-api/internal/domain/activity"
)

type ActivityLog struct {
	ID           string         `gorm:"type:uuid;primaryKey"`
	PlantID      *string        `gorm:"type:uuid;index"`
	Plant        *Plant         `gorm:"foreignKey:PlantID"`
	ActivityType string         `gorm:"size:20;not null"`
	Description  string         `gorm:"type:text;not null"`
	Metadata     datatypes.JSON
	CreatedAt    time.Time      `gorm:"autoCreateTime;index"`
}

func (ActivityLog) TableName() string {
	return "activity_log"
}

func (a *ActivityLog) BeforeCreate(*gorm.DB) error {
	a.ID = newID(a.ID)
	return nil
}

func (a *ActivityLog) EtoD() *activity.Entry {
	return &activity.Entry{
		ID:           a.ID,
		PlantID:      a.PlantID,
		ActivityType: activity.Type(a.ActivityType),
		Description:  a.Description,
		Metadata:     fromJSON(a.Metadata),
		CreatedAt:    a.CreatedAt,
	}
}

func ActivityDtoE(e *activity.Entry) *ActivityLog {
	return &ActivityLog{
		ID:           e.ID,
		PlantID:      e.PlantID,
		ActivityType: string(e.ActivityType),
		Description:  e.Description,
		Metadata:     toJSON(e.Metadata),
		CreatedAt:    e.CreatedAt,
	}
}
