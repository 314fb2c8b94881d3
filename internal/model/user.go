package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an authenticated user in the system.
type User struct {
	ID           uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	Username     string         `json:"username" gorm:"uniqueIndex;size:100;not null"`
	Email        string         `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string         `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Name         string         `json:"name" gorm:"size:255;not null"`
	Role         Role           `json:"role" gorm:"type:varchar(20);not null;default:'VIEWER';index"`
	// AdminSlot is set only on the SYSTEM_ADMIN row. The unique index
	// rejects a second admin insert at the storage level; NULL values on
	// other rows never collide.
	AdminSlot *bool          `json:"-" gorm:"uniqueIndex"`
	IsActive  bool           `json:"is_active" gorm:"default:true;index"`
	LastLogin *time.Time     `json:"last_login,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	SecurityQuestions []SecurityQuestion `json:"-" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
