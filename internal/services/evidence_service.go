package services

import (
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/viakisun/vws-rnd/internal/budget"
	"github.com/viakisun/vws-rnd/models"
)

// EvidenceService derives proof-of-spending obligations from a fiscal
// period's budget. It always runs inside the caller's transaction so that
// generated items live or die with the rest of the creation sequence.
type EvidenceService struct{}

func NewEvidenceService() *EvidenceService {
	return &EvidenceService{}
}

// GenerateForPeriod creates one planned evidence item per category with a
// positive weight: the allocated share of the period budget, due one
// calendar month after the period ends. Categories weighted 0 produce no
// rows at all. Category records are created on first use, keyed by their
// display name.
func (s *EvidenceService) GenerateForPeriod(tx *gorm.DB, period *models.AnnualBudget, categories []CategoryWeightInput, naming string) ([]models.EvidenceItem, error) {
	due := budget.AddCalendarMonths(budget.DayStart(period.EndDate), 1)

	var items []models.EvidenceItem
	for _, c := range categories {
		if c.Percentage <= 0 {
			continue
		}
		key, ok := budget.NormalizeCategory(c.Name)
		if !ok {
			return nil, fmt.Errorf("unknown budget category %q", c.Name)
		}
		label := budget.CategoryLabels[key]

		var cat models.BudgetCategory
		if err := tx.Where(models.BudgetCategory{Name: label}).FirstOrCreate(&cat).Error; err != nil {
			return nil, fmt.Errorf("get-or-create category %q: %w", label, err)
		}

		item := models.EvidenceItem{
			AnnualBudgetID: period.ID,
			CategoryID:     cat.ID,
			Name:           evidenceName(naming, period.PeriodNumber, label),
			BudgetAmount:   budget.Allocate(period.FundingTotal(), c.Percentage),
			SpentAmount:    0,
			Status:         models.EvidenceStatusPlanned,
			DueDate:        due,
		}
		if err := tx.Create(&item).Error; err != nil {
			return nil, fmt.Errorf("create evidence item: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}

// evidenceName renders an item name from the caller's naming convention.
// The convention may reference {period} and {category}; when empty, a plain
// "N차년도 <category> 증빙" name is used.
func evidenceName(convention string, periodNumber int, categoryLabel string) string {
	if convention == "" {
		return fmt.Sprintf("%d차년도 %s 증빙", periodNumber, categoryLabel)
	}
	name := strings.ReplaceAll(convention, "{period}", strconv.Itoa(periodNumber))
	return strings.ReplaceAll(name, "{category}", categoryLabel)
}
