package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fms/internal/model"
)

// IncomeFilter narrows income listings and exports.
type IncomeFilter struct {
	EntityID  *uuid.UUID
	RevenueID *uuid.UUID
	From      *time.Time
	To        *time.Time
}

// EntityTotal is an aggregated income sum for one entity.
type EntityTotal struct {
	EntityID   uuid.UUID       `json:"entity_id"`
	EntityName string          `json:"entity_name"`
	Total      decimal.Decimal `json:"total"`
	Count      int64           `json:"count"`
}

// IncomeRepository defines income persistence operations.
type IncomeRepository interface {
	Create(ctx context.Context, income *model.Income) error
	Update(ctx context.Context, income *model.Income) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Income, error)
	List(ctx context.Context, filter IncomeFilter) ([]model.Income, error)
	TotalsByEntity(ctx context.Context, filter IncomeFilter) ([]EntityTotal, error)
}

type incomeRepository struct {
	db *gorm.DB
}

// NewIncomeRepository builds a GORM-backed repository.
func NewIncomeRepository(db *gorm.DB) IncomeRepository {
	return &incomeRepository{db: db}
}

func (r *incomeRepository) Create(ctx context.Context, income *model.Income) error {
	return r.db.WithContext(ctx).Create(income).Error
}

func (r *incomeRepository) Update(ctx context.Context, income *model.Income) error {
	return r.db.WithContext(ctx).Save(income).Error
}

func (r *incomeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Income{}).Error
}

func (r *incomeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Income, error) {
	var income model.Income
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&income).Error; err != nil {
		return nil, err
	}
	return &income, nil
}

func (r *incomeRepository) List(ctx context.Context, filter IncomeFilter) ([]model.Income, error) {
	var incomes []model.Income
	err := r.applyFilter(r.db.WithContext(ctx), filter).
		Order("date DESC, created_at DESC").
		Find(&incomes).Error
	if err != nil {
		return nil, err
	}
	return incomes, nil
}

// TotalsByEntity sums income per entity for the dashboard summary.
func (r *incomeRepository) TotalsByEntity(ctx context.Context, filter IncomeFilter) ([]EntityTotal, error) {
	var totals []EntityTotal
	q := r.applyFilter(r.db.WithContext(ctx).Model(&model.Income{}), filter).
		Select("incomes.entity_id AS entity_id, entities.name AS entity_name, SUM(incomes.amount) AS total, COUNT(incomes.id) AS count").
		Joins("JOIN entities ON entities.id = incomes.entity_id").
		Group("incomes.entity_id, entities.name").
		Order("entities.name ASC")
	if err := q.Scan(&totals).Error; err != nil {
		return nil, err
	}
	return totals, nil
}

func (r *incomeRepository) applyFilter(q *gorm.DB, filter IncomeFilter) *gorm.DB {
	if filter.EntityID != nil {
		q = q.Where("incomes.entity_id = ?", *filter.EntityID)
	}
	if filter.RevenueID != nil {
		q = q.Where("incomes.revenue_id = ?", *filter.RevenueID)
	}
	if filter.From != nil {
		q = q.Where("incomes.date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("incomes.date <= ?", *filter.To)
	}
	return q
}
