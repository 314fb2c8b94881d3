package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fms/internal/model"
)

// SecurityQuestionRepository defines security question persistence operations.
type SecurityQuestionRepository interface {
	CreateBatch(ctx context.Context, questions []model.SecurityQuestion) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.SecurityQuestion, error)
	ReplaceForUser(ctx context.Context, userID uuid.UUID, questions []model.SecurityQuestion) error
}

type securityQuestionRepository struct {
	db *gorm.DB
}

// NewSecurityQuestionRepository builds a GORM-backed repository.
func NewSecurityQuestionRepository(db *gorm.DB) SecurityQuestionRepository {
	return &securityQuestionRepository{db: db}
}

func (r *securityQuestionRepository) CreateBatch(ctx context.Context, questions []model.SecurityQuestion) error {
	if len(questions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&questions).Error
}

// ListByUser returns the user's questions in position order. Recovery
// matching is positional, so the ordering here is significant.
func (r *securityQuestionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.SecurityQuestion, error) {
	var questions []model.SecurityQuestion
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("position ASC, created_at ASC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// ReplaceForUser swaps the user's question set atomically.
func (r *securityQuestionRepository) ReplaceForUser(ctx context.Context, userID uuid.UUID, questions []model.SecurityQuestion) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.SecurityQuestion{}).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].UserID = userID
		}
		return tx.Create(&questions).Error
	})
}
