package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fms/internal/errors"
	"fms/internal/model"
	"fms/internal/repository"
)

// LedgerLine is a ledger entry annotated with its running balance.
type LedgerLine struct {
	model.LedgerEntry
	Balance decimal.Decimal `json:"balance"`
}

// LedgerService handles ledger entry operations.
type LedgerService interface {
	Create(ctx context.Context, entry *model.LedgerEntry) error
	Update(ctx context.Context, entry *model.LedgerEntry) error
	Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*model.LedgerEntry, error)
	Statement(ctx context.Context, entityID uuid.UUID) ([]LedgerLine, error)
}

type ledgerService struct {
	repo       repository.LedgerRepository
	entityRepo repository.EntityRepository
	auditRepo  repository.AuditLogRepository
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(
	repo repository.LedgerRepository,
	entityRepo repository.EntityRepository,
	auditRepo repository.AuditLogRepository,
) LedgerService {
	return &ledgerService{
		repo:       repo,
		entityRepo: entityRepo,
		auditRepo:  auditRepo,
	}
}

func (s *ledgerService) Create(ctx context.Context, entry *model.LedgerEntry) error {
	if _, err := s.entityRepo.FindByID(ctx, entry.EntityID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrEntityNotFound
		}
		return fmt.Errorf("find entity: %w", err)
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return fmt.Errorf("create ledger entry: %w", err)
	}
	s.audit(ctx, entry.CreatedBy, entry.ID, model.ActionCreate, entry.Description)
	return nil
}

func (s *ledgerService) Update(ctx context.Context, entry *model.LedgerEntry) error {
	if err := s.repo.Update(ctx, entry); err != nil {
		return fmt.Errorf("update ledger entry: %w", err)
	}
	s.audit(ctx, entry.CreatedBy, entry.ID, model.ActionUpdate, entry.Description)
	return nil
}

func (s *ledgerService) Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrRecordNotFound
		}
		return fmt.Errorf("find ledger entry: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete ledger entry: %w", err)
	}
	s.audit(ctx, actorID, id, model.ActionDelete, "")
	return nil
}

func (s *ledgerService) Get(ctx context.Context, id uuid.UUID) (*model.LedgerEntry, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRecordNotFound
		}
		return nil, fmt.Errorf("find ledger entry: %w", err)
	}
	return entry, nil
}

// Statement returns the entity's entries in date order with a running
// balance (credits add, debits subtract).
func (s *ledgerService) Statement(ctx context.Context, entityID uuid.UUID) ([]LedgerLine, error) {
	if _, err := s.entityRepo.FindByID(ctx, entityID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrEntityNotFound
		}
		return nil, fmt.Errorf("find entity: %w", err)
	}

	entries, err := s.repo.ListByEntity(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}

	lines := make([]LedgerLine, 0, len(entries))
	balance := decimal.Zero
	for _, entry := range entries {
		balance = balance.Add(entry.Credit).Sub(entry.Debit)
		lines = append(lines, LedgerLine{LedgerEntry: entry, Balance: balance})
	}
	return lines, nil
}

func (s *ledgerService) audit(ctx context.Context, actorID, recordID uuid.UUID, action, detail string) {
	_ = s.auditRepo.Create(ctx, &model.AuditLog{
		UserID:     actorID,
		RecordType: "LEDGER",
		RecordID:   recordID,
		Action:     action,
		Detail:     detail,
	})
}
