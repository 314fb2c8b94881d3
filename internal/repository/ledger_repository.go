package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fms/internal/model"
)

// LedgerRepository defines ledger entry persistence operations.
type LedgerRepository interface {
	Create(ctx context.Context, entry *model.LedgerEntry) error
	Update(ctx context.Context, entry *model.LedgerEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.LedgerEntry, error)
	ListByEntity(ctx context.Context, entityID uuid.UUID) ([]model.LedgerEntry, error)
}

type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository builds a GORM-backed repository.
func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Create(ctx context.Context, entry *model.LedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *ledgerRepository) Update(ctx context.Context, entry *model.LedgerEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *ledgerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.LedgerEntry{}).Error
}

func (r *ledgerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.LedgerEntry, error) {
	var entry model.LedgerEntry
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *ledgerRepository) ListByEntity(ctx context.Context, entityID uuid.UUID) ([]model.LedgerEntry, error) {
	var entries []model.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("entity_id = ?", entityID).
		Order("date ASC, created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
