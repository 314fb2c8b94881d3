package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"fms/internal/model"
)

// CaptchaRepository defines captcha session persistence operations.
type CaptchaRepository interface {
	Create(ctx context.Context, session *model.CaptchaSession) error
	FindBySessionID(ctx context.Context, sessionID string) (*model.CaptchaSession, error)
	// Consume marks the session used if and only if it is still unused.
	// Returns false when another caller got there first.
	Consume(ctx context.Context, sessionID string) (bool, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type captchaRepository struct {
	db *gorm.DB
}

// NewCaptchaRepository builds a GORM-backed repository.
func NewCaptchaRepository(db *gorm.DB) CaptchaRepository {
	return &captchaRepository{db: db}
}

func (r *captchaRepository) Create(ctx context.Context, session *model.CaptchaSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *captchaRepository) FindBySessionID(ctx context.Context, sessionID string) (*model.CaptchaSession, error) {
	var session model.CaptchaSession
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// Consume is a single conditional UPDATE so two concurrent verifications
// cannot both succeed against one session.
func (r *captchaRepository) Consume(ctx context.Context, sessionID string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.CaptchaSession{}).
		Where("session_id = ? AND used = ?", sessionID, false).
		Update("used", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// DeleteExpired removes sessions whose expiry is before the given time.
// Called by the background sweeper, not by the verification path.
func (r *captchaRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&model.CaptchaSession{})
	return res.RowsAffected, res.Error
}
