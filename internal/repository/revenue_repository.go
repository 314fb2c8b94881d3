package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fms/internal/model"
)

// RevenueRepository defines revenue category persistence operations.
type RevenueRepository interface {
	Create(ctx context.Context, revenue *model.Revenue) error
	Update(ctx context.Context, revenue *model.Revenue) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Revenue, error)
	ListByEntity(ctx context.Context, entityID uuid.UUID) ([]model.Revenue, error)
}

type revenueRepository struct {
	db *gorm.DB
}

// NewRevenueRepository builds a GORM-backed repository.
func NewRevenueRepository(db *gorm.DB) RevenueRepository {
	return &revenueRepository{db: db}
}

func (r *revenueRepository) Create(ctx context.Context, revenue *model.Revenue) error {
	return r.db.WithContext(ctx).Create(revenue).Error
}

func (r *revenueRepository) Update(ctx context.Context, revenue *model.Revenue) error {
	return r.db.WithContext(ctx).Save(revenue).Error
}

func (r *revenueRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Revenue{}).Error
}

func (r *revenueRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Revenue, error) {
	var revenue model.Revenue
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&revenue).Error; err != nil {
		return nil, err
	}
	return &revenue, nil
}

func (r *revenueRepository) ListByEntity(ctx context.Context, entityID uuid.UUID) ([]model.Revenue, error) {
	var revenues []model.Revenue
	err := r.db.WithContext(ctx).
		Where("entity_id = ?", entityID).
		Order("code ASC").
		Find(&revenues).Error
	if err != nil {
		return nil, err
	}
	return revenues, nil
}
