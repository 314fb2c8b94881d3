package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fms/internal/cache"
	"fms/internal/errors"
	"fms/internal/model"
	"fms/internal/repository"
)

const entityCacheTTL = 5 * time.Minute

// EntityService handles entity and revenue category operations.
type EntityService interface {
	Create(ctx context.Context, entity *model.Entity, actorID uuid.UUID) error
	Update(ctx context.Context, entity *model.Entity, actorID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*model.Entity, error)
	List(ctx context.Context) ([]model.Entity, error)
	CreateRevenue(ctx context.Context, revenue *model.Revenue, actorID uuid.UUID) error
	ListRevenues(ctx context.Context, entityID uuid.UUID) ([]model.Revenue, error)
}

type entityService struct {
	repo        repository.EntityRepository
	revenueRepo repository.RevenueRepository
	auditRepo   repository.AuditLogRepository
	cache       *cache.Client
}

// NewEntityService creates a new entity service.
func NewEntityService(
	repo repository.EntityRepository,
	revenueRepo repository.RevenueRepository,
	auditRepo repository.AuditLogRepository,
	cache *cache.Client,
) EntityService {
	return &entityService{
		repo:        repo,
		revenueRepo: revenueRepo,
		auditRepo:   auditRepo,
		cache:       cache,
	}
}

func (s *entityService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("entity:%s", id.String())
}

func (s *entityService) Create(ctx context.Context, entity *model.Entity, actorID uuid.UUID) error {
	if err := s.repo.Create(ctx, entity); err != nil {
		return fmt.Errorf("create entity: %w", err)
	}
	s.audit(ctx, actorID, entity.ID, model.ActionCreate, entity.Name)
	return nil
}

func (s *entityService) Update(ctx context.Context, entity *model.Entity, actorID uuid.UUID) error {
	if err := s.repo.Update(ctx, entity); err != nil {
		return fmt.Errorf("update entity: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(entity.ID))
	s.audit(ctx, actorID, entity.ID, model.ActionUpdate, entity.Name)
	return nil
}

func (s *entityService) Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete entity: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	s.audit(ctx, actorID, id, model.ActionDelete, "")
	return nil
}

// Get retrieves an entity by ID with caching.
func (s *entityService) Get(ctx context.Context, id uuid.UUID) (*model.Entity, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Entity
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	entity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrEntityNotFound
		}
		return nil, fmt.Errorf("find entity: %w", err)
	}

	if payload, err := json.Marshal(entity); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, entityCacheTTL)
	}
	return entity, nil
}

func (s *entityService) List(ctx context.Context) ([]model.Entity, error) {
	entities, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}
	return entities, nil
}

func (s *entityService) CreateRevenue(ctx context.Context, revenue *model.Revenue, actorID uuid.UUID) error {
	if _, err := s.Get(ctx, revenue.EntityID); err != nil {
		return err
	}
	if err := s.revenueRepo.Create(ctx, revenue); err != nil {
		return fmt.Errorf("create revenue: %w", err)
	}
	s.audit(ctx, actorID, revenue.ID, model.ActionCreate, revenue.Name)
	return nil
}

func (s *entityService) ListRevenues(ctx context.Context, entityID uuid.UUID) ([]model.Revenue, error) {
	if _, err := s.Get(ctx, entityID); err != nil {
		return nil, err
	}
	revenues, err := s.revenueRepo.ListByEntity(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("list revenues: %w", err)
	}
	return revenues, nil
}

func (s *entityService) audit(ctx context.Context, actorID, recordID uuid.UUID, action, detail string) {
	_ = s.auditRepo.Create(ctx, &model.AuditLog{
		UserID:     actorID,
		RecordType: "ENTITY",
		RecordID:   recordID,
		Action:     action,
		Detail:     detail,
	})
}
