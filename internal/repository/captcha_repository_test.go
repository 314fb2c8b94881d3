package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fms/internal/model"
)

func newTestDB(t *testing.T, models ...interface{}) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(models...))
	return db
}

func seedCaptcha(t *testing.T, repo CaptchaRepository, expiresAt time.Time) *model.CaptchaSession {
	t.Helper()
	session := &model.CaptchaSession{
		SessionID: uuid.NewString(),
		Question:  "كم ناتج 3 + 4؟",
		Answer:    "7",
		ExpiresAt: expiresAt,
	}
	assert.NoError(t, repo.Create(context.Background(), session))
	return session
}

func TestCaptchaRepository_ConsumeIsSingleUse(t *testing.T) {
	db := newTestDB(t, &model.CaptchaSession{})
	repo := NewCaptchaRepository(db)
	ctx := context.Background()

	session := seedCaptcha(t, repo, time.Now().Add(model.CaptchaTTL))

	ok, err := repo.Consume(ctx, session.SessionID)
	assert.NoError(t, err)
	assert.True(t, ok)

	// The second attempt against the same session must lose.
	ok, err = repo.Consume(ctx, session.SessionID)
	assert.NoError(t, err)
	assert.False(t, ok)

	found, err := repo.FindBySessionID(ctx, session.SessionID)
	assert.NoError(t, err)
	assert.True(t, found.Used)
}

func TestCaptchaRepository_ConsumeUnknownSession(t *testing.T) {
	db := newTestDB(t, &model.CaptchaSession{})
	repo := NewCaptchaRepository(db)

	ok, err := repo.Consume(context.Background(), "missing-session")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestCaptchaRepository_FindBySessionID(t *testing.T) {
	db := newTestDB(t, &model.CaptchaSession{})
	repo := NewCaptchaRepository(db)
	ctx := context.Background()

	session := seedCaptcha(t, repo, time.Now().Add(model.CaptchaTTL))

	found, err := repo.FindBySessionID(ctx, session.SessionID)
	assert.NoError(t, err)
	assert.Equal(t, session.Question, found.Question)
	assert.Equal(t, session.Answer, found.Answer)
	assert.False(t, found.Used)

	_, err = repo.FindBySessionID(ctx, "missing-session")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCaptchaRepository_DeleteExpired(t *testing.T) {
	db := newTestDB(t, &model.CaptchaSession{})
	repo := NewCaptchaRepository(db)
	ctx := context.Background()
	now := time.Now()

	expired1 := seedCaptcha(t, repo, now.Add(-time.Hour))
	expired2 := seedCaptcha(t, repo, now.Add(-time.Minute))
	live := seedCaptcha(t, repo, now.Add(model.CaptchaTTL))

	deleted, err := repo.DeleteExpired(ctx, now)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	_, err = repo.FindBySessionID(ctx, expired1.SessionID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = repo.FindBySessionID(ctx, expired2.SessionID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.FindBySessionID(ctx, live.SessionID)
	assert.NoError(t, err)
}
