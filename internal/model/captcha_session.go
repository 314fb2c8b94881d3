package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CaptchaTTL is how long a captcha session stays answerable.
const CaptchaTTL = 5 * time.Minute

// CaptchaSession is a short-lived, single-use arithmetic challenge.
// The used flag flips false to true exactly once; a session consumed by a
// wrong answer cannot be retried.
type CaptchaSession struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	SessionID string    `json:"session_id" gorm:"uniqueIndex;size:64;not null"`
	Question  string    `json:"question" gorm:"size:255;not null"`
	Answer    string    `json:"-" gorm:"size:64;not null"` // Never expose in JSON
	ExpiresAt time.Time `json:"expires_at" gorm:"not null;index"`
	Used      bool      `json:"used" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (s *CaptchaSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Expired reports whether the session is past its expiry at the given time.
func (s *CaptchaSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
