package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fms/internal/model"
)

// EntityRepository defines entity persistence operations.
type EntityRepository interface {
	Create(ctx context.Context, entity *model.Entity) error
	Update(ctx context.Context, entity *model.Entity) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Entity, error)
	List(ctx context.Context) ([]model.Entity, error)
	ListActive(ctx context.Context) ([]model.Entity, error)
}

type entityRepository struct {
	db *gorm.DB
}

// NewEntityRepository builds a GORM-backed repository.
func NewEntityRepository(db *gorm.DB) EntityRepository {
	return &entityRepository{db: db}
}

func (r *entityRepository) Create(ctx context.Context, entity *model.Entity) error {
	return r.db.WithContext(ctx).Create(entity).Error
}

func (r *entityRepository) Update(ctx context.Context, entity *model.Entity) error {
	return r.db.WithContext(ctx).Save(entity).Error
}

func (r *entityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Entity{}).Error
}

func (r *entityRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Entity, error) {
	var entity model.Entity
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *entityRepository) List(ctx context.Context) ([]model.Entity, error) {
	var entities []model.Entity
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *entityRepository) ListActive(ctx context.Context) ([]model.Entity, error) {
	var entities []model.Entity
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}
