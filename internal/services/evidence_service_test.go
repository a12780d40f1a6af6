package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viakisun/vws-rnd/models"
)

func TestGenerateForPeriod(t *testing.T) {
	db := newTestDB(t)
	svc := NewEvidenceService()

	period := models.AnnualBudget{
		PeriodNumber:      1,
		StartDate:         day(2024, 1, 1),
		EndDate:           day(2024, 12, 31),
		GovernmentFunding: 10_000_000,
	}
	require.NoError(t, db.Create(&period).Error)

	categories := []CategoryWeightInput{
		{Name: "personnel", Percentage: 60},
		{Name: "material", Percentage: 20},
		{Name: "activity", Percentage: 15},
		{Name: "indirect", Percentage: 5},
		{Name: "stipend", Percentage: 0}, // weight 0: no row at all
	}

	items, err := svc.GenerateForPeriod(db, &period, categories, "")
	require.NoError(t, err)
	require.Len(t, items, 4)

	amounts := make(map[string]int64, len(items))
	for _, item := range items {
		var cat models.BudgetCategory
		require.NoError(t, db.First(&cat, item.CategoryID).Error)
		amounts[cat.Name] = item.BudgetAmount

		assert.Equal(t, models.EvidenceStatusPlanned, item.Status)
		assert.True(t, item.DueDate.Equal(day(2025, 1, 31)),
			"due date must be one month after period end, got %s", item.DueDate)
	}

	assert.EqualValues(t, 6_000_000, amounts["인건비"])
	assert.EqualValues(t, 2_000_000, amounts["재료비"])
	assert.EqualValues(t, 1_500_000, amounts["연구활동비"])
	assert.EqualValues(t, 500_000, amounts["간접비"])
}

func TestGenerateForPeriodCategoryGetOrCreate(t *testing.T) {
	db := newTestDB(t)
	svc := NewEvidenceService()

	period := models.AnnualBudget{PeriodNumber: 1, StartDate: day(2024, 1, 1), EndDate: day(2024, 12, 31), GovernmentFunding: 1_000_000}
	require.NoError(t, db.Create(&period).Error)
	second := models.AnnualBudget{PeriodNumber: 2, StartDate: day(2025, 1, 1), EndDate: day(2025, 12, 31), GovernmentFunding: 1_000_000}
	require.NoError(t, db.Create(&second).Error)

	categories := []CategoryWeightInput{{Name: "personnel", Percentage: 100}}

	_, err := svc.GenerateForPeriod(db, &period, categories, "")
	require.NoError(t, err)
	_, err = svc.GenerateForPeriod(db, &second, categories, "")
	require.NoError(t, err)

	// Two generations, one category row.
	var count int64
	require.NoError(t, db.Model(&models.BudgetCategory{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGenerateForPeriodNamingConvention(t *testing.T) {
	db := newTestDB(t)
	svc := NewEvidenceService()

	period := models.AnnualBudget{PeriodNumber: 3, StartDate: day(2026, 1, 1), EndDate: day(2026, 12, 31), GovernmentFunding: 1_000_000}
	require.NoError(t, db.Create(&period).Error)

	items, err := svc.GenerateForPeriod(db, &period,
		[]CategoryWeightInput{{Name: "personnel", Percentage: 100}},
		"{period}년차-{category}-증빙철")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "3년차-인건비-증빙철", items[0].Name)
}

func TestGenerateForPeriodUnknownCategory(t *testing.T) {
	db := newTestDB(t)
	svc := NewEvidenceService()

	period := models.AnnualBudget{PeriodNumber: 1, StartDate: day(2024, 1, 1), EndDate: day(2024, 12, 31), GovernmentFunding: 1_000_000}
	require.NoError(t, db.Create(&period).Error)

	_, err := svc.GenerateForPeriod(db, &period,
		[]CategoryWeightInput{{Name: "여비", Percentage: 10}}, "")
	assert.Error(t, err)
}
