package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fms/internal/cache"
	"fms/internal/model"
	"fms/internal/repository"
)

const summaryCacheTTL = 5 * time.Minute

// Summary is the dashboard aggregate: per-entity totals plus a grand total.
type Summary struct {
	Entities    []repository.EntityTotal `json:"entities"`
	GrandTotal  string                   `json:"grand_total"`
	RecordCount int64                    `json:"record_count"`
	GeneratedAt time.Time                `json:"generated_at"`
}

// ReportService produces dashboard aggregates and CSV exports.
type ReportService interface {
	Summary(ctx context.Context, filter repository.IncomeFilter) (*Summary, error)
	ExportIncomesCSV(ctx context.Context, filter repository.IncomeFilter) ([]byte, error)
}

type reportService struct {
	incomeRepo  repository.IncomeRepository
	entityRepo  repository.EntityRepository
	revenueRepo repository.RevenueRepository
	cache       *cache.Client
}

// NewReportService creates a new report service.
func NewReportService(
	incomeRepo repository.IncomeRepository,
	entityRepo repository.EntityRepository,
	revenueRepo repository.RevenueRepository,
	cache *cache.Client,
) ReportService {
	return &reportService{
		incomeRepo:  incomeRepo,
		entityRepo:  entityRepo,
		revenueRepo: revenueRepo,
		cache:       cache,
	}
}

// Summary aggregates income totals per entity, cache-aside with a short
// TTL. Income mutations invalidate the whole report prefix.
func (s *reportService) Summary(ctx context.Context, filter repository.IncomeFilter) (*Summary, error) {
	key := s.summaryKey(filter)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached Summary
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	totals, err := s.incomeRepo.TotalsByEntity(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("totals by entity: %w", err)
	}

	summary := &Summary{
		Entities:    totals,
		GeneratedAt: time.Now(),
	}
	grand := decimal.Zero
	for _, t := range totals {
		grand = grand.Add(t.Total)
		summary.RecordCount += t.Count
	}
	summary.GrandTotal = grand.String()

	if payload, err := json.Marshal(summary); err == nil {
		_ = s.cache.Set(ctx, key, payload, summaryCacheTTL)
	}
	return summary, nil
}

// ExportIncomesCSV renders the filtered income records as CSV. The output
// starts with a UTF-8 BOM so spreadsheet tools render the Arabic headers.
func (s *reportService) ExportIncomesCSV(ctx context.Context, filter repository.IncomeFilter) ([]byte, error) {
	incomes, err := s.incomeRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}

	entityNames, revenueNames, err := s.nameIndexes(ctx, incomes)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write([]byte{0xEF, 0xBB, 0xBF}) // UTF-8 BOM
	w := csv.NewWriter(&buf)

	header := []string{"التاريخ", "الجهة", "بند الإيراد", "المبلغ", "رقم الإيصال", "ملاحظات"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, income := range incomes {
		record := []string{
			income.Date.Format("2006-01-02"),
			entityNames[income.EntityID.String()],
			revenueNames[income.RevenueID.String()],
			income.Amount.String(),
			income.ReceiptNumber,
			income.Notes,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *reportService) summaryKey(filter repository.IncomeFilter) string {
	key := reportCachePrefix + "summary"
	if filter.EntityID != nil {
		key += ":" + filter.EntityID.String()
	}
	if filter.From != nil {
		key += ":from=" + filter.From.Format("2006-01-02")
	}
	if filter.To != nil {
		key += ":to=" + filter.To.Format("2006-01-02")
	}
	return key
}

// nameIndexes resolves entity and revenue display names for the export.
func (s *reportService) nameIndexes(ctx context.Context, incomes []model.Income) (map[string]string, map[string]string, error) {
	entityNames := make(map[string]string)
	revenueNames := make(map[string]string)
	for _, income := range incomes {
		eid := income.EntityID.String()
		if _, ok := entityNames[eid]; !ok {
			entity, err := s.entityRepo.FindByID(ctx, income.EntityID)
			if err != nil && err != gorm.ErrRecordNotFound {
				return nil, nil, fmt.Errorf("find entity: %w", err)
			}
			if entity != nil {
				entityNames[eid] = entity.Name
			}
		}
		rid := income.RevenueID.String()
		if _, ok := revenueNames[rid]; !ok {
			revenue, err := s.revenueRepo.FindByID(ctx, income.RevenueID)
			if err != nil && err != gorm.ErrRecordNotFound {
				return nil, nil, fmt.Errorf("find revenue: %w", err)
			}
			if revenue != nil {
				revenueNames[rid] = revenue.Name
			}
		}
	}
	return entityNames, revenueNames, nil
}
