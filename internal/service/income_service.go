package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fms/internal/cache"
	"fms/internal/errors"
	"fms/internal/model"
	"fms/internal/repository"
)

// reportCachePrefix groups the cached report aggregates so income
// mutations can invalidate them wholesale.
const reportCachePrefix = "report:"

// IncomeService handles income record operations.
type IncomeService interface {
	Create(ctx context.Context, income *model.Income) error
	Update(ctx context.Context, income *model.Income) error
	Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*model.Income, error)
	List(ctx context.Context, filter repository.IncomeFilter) ([]model.Income, error)
}

type incomeService struct {
	repo        repository.IncomeRepository
	revenueRepo repository.RevenueRepository
	auditRepo   repository.AuditLogRepository
	cache       *cache.Client
}

// NewIncomeService creates a new income service.
func NewIncomeService(
	repo repository.IncomeRepository,
	revenueRepo repository.RevenueRepository,
	auditRepo repository.AuditLogRepository,
	cache *cache.Client,
) IncomeService {
	return &incomeService{
		repo:        repo,
		revenueRepo: revenueRepo,
		auditRepo:   auditRepo,
		cache:       cache,
	}
}

func (s *incomeService) Create(ctx context.Context, income *model.Income) error {
	revenue, err := s.revenueRepo.FindByID(ctx, income.RevenueID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrRevenueNotFound
		}
		return fmt.Errorf("find revenue: %w", err)
	}
	if revenue.EntityID != income.EntityID {
		return errors.ErrRevenueNotFound
	}

	if err := s.repo.Create(ctx, income); err != nil {
		return fmt.Errorf("create income: %w", err)
	}
	s.invalidateReports(ctx)
	s.audit(ctx, income.CreatedBy, income.ID, model.ActionCreate, income.Amount.String())
	return nil
}

func (s *incomeService) Update(ctx context.Context, income *model.Income) error {
	if err := s.repo.Update(ctx, income); err != nil {
		return fmt.Errorf("update income: %w", err)
	}
	s.invalidateReports(ctx)
	s.audit(ctx, income.CreatedBy, income.ID, model.ActionUpdate, income.Amount.String())
	return nil
}

func (s *incomeService) Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	s.invalidateReports(ctx)
	s.audit(ctx, actorID, id, model.ActionDelete, "")
	return nil
}

func (s *incomeService) Get(ctx context.Context, id uuid.UUID) (*model.Income, error) {
	income, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRecordNotFound
		}
		return nil, fmt.Errorf("find income: %w", err)
	}
	return income, nil
}

func (s *incomeService) List(ctx context.Context, filter repository.IncomeFilter) ([]model.Income, error) {
	incomes, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	return incomes, nil
}

func (s *incomeService) invalidateReports(ctx context.Context) {
	_ = s.cache.DeleteByPrefix(ctx, reportCachePrefix)
}

func (s *incomeService) audit(ctx context.Context, actorID, recordID uuid.UUID, action, detail string) {
	_ = s.auditRepo.Create(ctx, &model.AuditLog{
		UserID:     actorID,
		RecordType: "INCOME",
		RecordID:   recordID,
		Action:     action,
		Detail:     detail,
	})
}
