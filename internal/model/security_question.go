package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SecurityQuestion is a user-configured question/answer pair used as a
// secondary identity proof during password recovery. Each user carries
// exactly five, and position ordering is significant: submitted recovery
// answers are compared index-for-index against the stored set.
type SecurityQuestion struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:char(36);not null;index"`
	Question  string    `json:"question" gorm:"size:500;not null"`
	Answer    string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Position  int       `json:"position" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets UUID before creating the record.
func (q *SecurityQuestion) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
