package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Revenue is a named revenue category belonging to an entity. Income
// records reference a revenue to classify where the money came from.
type Revenue struct {
	ID          uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	EntityID    uuid.UUID      `json:"entity_id" gorm:"type:char(36);not null;index:idx_revenue_entity_code,unique"`
	Name        string         `json:"name" gorm:"size:255;not null"`
	Code        string         `json:"code" gorm:"size:50;not null;index:idx_revenue_entity_code,unique"`
	Description string         `json:"description" gorm:"type:text"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Entity Entity `json:"-" gorm:"foreignKey:EntityID"`
}

// BeforeCreate sets UUID before creating the record.
func (r *Revenue) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
