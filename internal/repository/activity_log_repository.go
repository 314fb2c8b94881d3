package repository

import (
	"context"

	"gorm.io/gorm"

	"fms/internal/model"
)

// ActivityLogRepository defines activity log persistence operations. The
// trail is append-only: there is no update or delete surface.
type ActivityLogRepository interface {
	Create(ctx context.Context, entry *model.ActivityLog) error
	List(ctx context.Context, limit, offset int) ([]model.ActivityLog, error)
}

type activityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository builds a GORM-backed repository.
func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Create(ctx context.Context, entry *model.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *activityLogRepository) List(ctx context.Context, limit, offset int) ([]model.ActivityLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var entries []model.ActivityLog
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// AuditLogRepository defines audit log persistence operations.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *model.AuditLog) error
	CreateBatch(ctx context.Context, entries []model.AuditLog) error
}

type auditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository builds a GORM-backed repository.
func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, entry *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditLogRepository) CreateBatch(ctx context.Context, entries []model.AuditLog) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(entries, 100).Error
}
