package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entity represents an organization (جهة) whose finances are tracked.
type Entity struct {
	ID          uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	Name        string         `json:"name" gorm:"size:255;not null;index"`
	Type        string         `json:"type" gorm:"size:100"`
	Description string         `json:"description" gorm:"type:text"`
	IsActive    bool           `json:"is_active" gorm:"default:true;index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Revenues []Revenue `json:"revenues,omitempty" gorm:"foreignKey:EntityID"`
}

// BeforeCreate sets UUID before creating the record.
func (e *Entity) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
