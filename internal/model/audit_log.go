package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLog records a before/after snapshot of a business record mutation.
type AuditLog struct {
	ID         uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID     uuid.UUID `json:"user_id" gorm:"type:char(36);not null;index"`
	RecordType string    `json:"record_type" gorm:"size:50;not null;index"`
	RecordID   uuid.UUID `json:"record_id" gorm:"type:char(36);not null;index"`
	Action     string    `json:"action" gorm:"size:50;not null"`
	Detail     string    `json:"detail" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
