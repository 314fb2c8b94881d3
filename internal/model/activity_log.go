package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Activity log action tags.
const (
	ActionLogin         = "LOGIN"
	ActionInstall       = "INSTALL"
	ActionPasswordReset = "PASSWORD_RESET"
	ActionCreate        = "CREATE"
	ActionUpdate        = "UPDATE"
	ActionDelete        = "DELETE"
)

// ActivityLog is an append-only audit trail record. Every successful login,
// account creation and password reset appends one, as do business mutations.
type ActivityLog struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID      uuid.UUID `json:"user_id" gorm:"type:char(36);not null;index"`
	Action      string    `json:"action" gorm:"size:50;not null;index"`
	Description string    `json:"description" gorm:"type:text"`
	IP          string    `json:"ip" gorm:"size:45"`
	UserAgent   string    `json:"user_agent" gorm:"size:500"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (a *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
