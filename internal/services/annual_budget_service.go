package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/viakisun/vws-rnd/internal/budget"
	"github.com/viakisun/vws-rnd/models"
)

const summaryCacheTTL = 5 * time.Minute

// AnnualBudgetService manages a project's per-period funding breakdown.
// Writes reconcile the funding figures against the stored category costs and
// report discrepancies as warnings; a mismatch never blocks the write.
// When a redis client is present the list summary is cached per project and
// dropped on every write; without one the service just recomputes.
type AnnualBudgetService struct {
	db        *gorm.DB
	rdb       *redis.Client
	tolerance int64
}

func NewAnnualBudgetService(db *gorm.DB, rdb *redis.Client, tolerance int64) *AnnualBudgetService {
	return &AnnualBudgetService{db: db, rdb: rdb, tolerance: tolerance}
}

// PeriodFundingInput is the funding breakdown of one period as submitted by
// the annual-budget flow. Category costs are deliberately absent: they are
// owned by a different flow and survive funding-only writes.
type PeriodFundingInput struct {
	PeriodNumber      int       `json:"periodNumber"`
	StartDate         time.Time `json:"startDate"`
	EndDate           time.Time `json:"endDate"`
	GovernmentFunding int64     `json:"governmentFunding"`
	CompanyCash       int64     `json:"companyCash"`
	CompanyInKind     int64     `json:"companyInKind"`
}

// BudgetSummary aggregates a project's periods by plain summation. No
// validation happens on read.
type BudgetSummary struct {
	PeriodCount       int     `json:"periodCount"`
	TotalBudget       int64   `json:"totalBudget"`
	GovernmentFunding int64   `json:"governmentFunding"`
	CompanyCash       int64   `json:"companyCash"`
	CompanyInKind     int64   `json:"companyInKind"`
	CompanyTotal      int64   `json:"companyTotal"`
	CashTotal         int64   `json:"cashTotal"`
	InKindTotal       int64   `json:"inKindTotal"`
	GovernmentRatio   float64 `json:"governmentRatio"`
	CompanyRatio      float64 `json:"companyRatio"`
	CashRatio         float64 `json:"cashRatio"`
	InKindRatio       float64 `json:"inKindRatio"`
}

// ListResult is the read model of the annual-budget screen.
type ListResult struct {
	Budgets []models.AnnualBudget `json:"budgets"`
	Summary BudgetSummary         `json:"summary"`
}

// WriteResult is returned by replace-all and single-period updates. Warnings
// and Mismatches are empty when every period reconciles within tolerance.
type WriteResult struct {
	Budgets    []models.AnnualBudget    `json:"budgets"`
	Warnings   []string                 `json:"warnings,omitempty"`
	Mismatches []budget.ReconcileDetail `json:"budgetMismatches,omitempty"`
}

// List returns all periods of a project ordered by period number, plus the
// summed-up summary.
func (s *AnnualBudgetService) List(ctx context.Context, projectID uint) (*ListResult, error) {
	if err := s.ensureProject(ctx, projectID); err != nil {
		return nil, err
	}

	var budgets []models.AnnualBudget
	err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("period_number asc").
		Find(&budgets).Error
	if err != nil {
		return nil, err
	}
	if budgets == nil {
		budgets = make([]models.AnnualBudget, 0)
	}

	summary, ok := s.cachedSummary(ctx, projectID)
	if !ok {
		summary = summarize(budgets)
		s.cacheSummary(ctx, projectID, summary)
	}

	return &ListResult{Budgets: budgets, Summary: summary}, nil
}

// ReplaceAll swaps the full period set of a project for the given one. The
// ten category-cost columns of any period number that already existed are
// carried over onto the new row, so a funding-only replace cannot wipe
// costs entered elsewhere. Every new period is then reconciled; warnings
// ride along with the committed result.
func (s *AnnualBudgetService) ReplaceAll(ctx context.Context, projectID uint, inputs []PeriodFundingInput) (*WriteResult, error) {
	if err := s.ensureProject(ctx, projectID); err != nil {
		return nil, err
	}

	result := &WriteResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []models.AnnualBudget
		if err := tx.Where("project_id = ?", projectID).Find(&existing).Error; err != nil {
			return err
		}
		previous := make(map[int]*models.AnnualBudget, len(existing))
		for i := range existing {
			previous[existing[i].PeriodNumber] = &existing[i]
		}

		// Hard delete: the (project, period) pair is unique and the numbers
		// are about to be reused.
		if err := tx.Unscoped().Where("project_id = ?", projectID).Delete(&models.AnnualBudget{}).Error; err != nil {
			return err
		}

		for _, in := range inputs {
			row := models.AnnualBudget{
				ProjectID:         projectID,
				PeriodNumber:      in.PeriodNumber,
				StartDate:         budget.DayStart(in.StartDate),
				EndDate:           budget.DayEnd(in.EndDate),
				GovernmentFunding: in.GovernmentFunding,
				CompanyCash:       in.CompanyCash,
				CompanyInKind:     in.CompanyInKind,
			}
			if old, ok := previous[in.PeriodNumber]; ok {
				row.CopyCategoryCosts(old)
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("create annual budget %d: %w", in.PeriodNumber, err)
			}
			result.Budgets = append(result.Budgets, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := range result.Budgets {
		s.collectReconciliation(result, &result.Budgets[i])
	}
	s.dropSummary(ctx, projectID)
	return result, nil
}

// UpdateOne overwrites the three funding columns of a single period and
// reconciles the result. The period's dates and category costs are left
// untouched.
func (s *AnnualBudgetService) UpdateOne(ctx context.Context, projectID uint, periodNumber int, in PeriodFundingInput) (*WriteResult, error) {
	var row models.AnnualBudget
	err := s.db.WithContext(ctx).
		Where("project_id = ? AND period_number = ?", projectID, periodNumber).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	row.GovernmentFunding = in.GovernmentFunding
	row.CompanyCash = in.CompanyCash
	row.CompanyInKind = in.CompanyInKind
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return nil, err
	}

	result := &WriteResult{Budgets: []models.AnnualBudget{row}}
	s.collectReconciliation(result, &row)
	s.dropSummary(ctx, projectID)
	return result, nil
}

// DeleteOne removes a single period.
func (s *AnnualBudgetService) DeleteOne(ctx context.Context, projectID uint, periodNumber int) error {
	res := s.db.WithContext(ctx).Unscoped().
		Where("project_id = ? AND period_number = ?", projectID, periodNumber).
		Delete(&models.AnnualBudget{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.dropSummary(ctx, projectID)
	return nil
}

func (s *AnnualBudgetService) ensureProject(ctx context.Context, projectID uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", projectID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *AnnualBudgetService) collectReconciliation(result *WriteResult, row *models.AnnualBudget) {
	rec := budget.Reconcile(row, s.tolerance)
	if rec.Mismatched {
		result.Warnings = append(result.Warnings, rec.Warning)
		result.Mismatches = append(result.Mismatches, rec.Detail)
	}
}

func summarize(budgets []models.AnnualBudget) BudgetSummary {
	sum := BudgetSummary{PeriodCount: len(budgets)}
	for i := range budgets {
		b := &budgets[i]
		sum.GovernmentFunding += b.GovernmentFunding
		sum.CompanyCash += b.CompanyCash
		sum.CompanyInKind += b.CompanyInKind
	}
	sum.CompanyTotal = sum.CompanyCash + sum.CompanyInKind
	sum.TotalBudget = sum.GovernmentFunding + sum.CompanyTotal
	sum.CashTotal = sum.GovernmentFunding + sum.CompanyCash
	sum.InKindTotal = sum.CompanyInKind
	if sum.TotalBudget > 0 {
		total := float64(sum.TotalBudget)
		sum.GovernmentRatio = float64(sum.GovernmentFunding) / total * 100
		sum.CompanyRatio = float64(sum.CompanyTotal) / total * 100
		sum.CashRatio = float64(sum.CashTotal) / total * 100
		sum.InKindRatio = float64(sum.InKindTotal) / total * 100
	}
	return sum
}

func summaryCacheKey(projectID uint) string {
	return fmt.Sprintf("vws:rnd:budget-summary:%d", projectID)
}

func (s *AnnualBudgetService) cachedSummary(ctx context.Context, projectID uint) (BudgetSummary, bool) {
	var summary BudgetSummary
	if s.rdb == nil {
		return summary, false
	}
	raw, err := s.rdb.Get(ctx, summaryCacheKey(projectID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("budget summary cache read failed", "projectId", projectID, "error", err)
		}
		return summary, false
	}
	if err := json.Unmarshal(raw, &summary); err != nil {
		return summary, false
	}
	return summary, true
}

func (s *AnnualBudgetService) cacheSummary(ctx context.Context, projectID uint, summary BudgetSummary) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, summaryCacheKey(projectID), raw, summaryCacheTTL).Err(); err != nil {
		slog.Warn("budget summary cache write failed", "projectId", projectID, "error", err)
	}
}

func (s *AnnualBudgetService) dropSummary(ctx context.Context, projectID uint) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, summaryCacheKey(projectID)).Err(); err != nil {
		slog.Warn("budget summary cache invalidation failed", "projectId", projectID, "error", err)
	}
}
