package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/viakisun/vws-rnd/config"
)

// newTestDB opens a private in-memory database and applies the schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return db
}

func newProjectService(t *testing.T, db *gorm.DB) *ProjectService {
	t.Helper()
	return NewProjectService(db, NewEvidenceService(), 1000)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// twoYearRequest is the standard fixture: 100,000,000 total over two periods
// of 50,000,000, one member at 60% for the whole span.
func twoYearRequest() *CreateProjectRequest {
	return &CreateProjectRequest{
		Name:        "스마트팜 환경제어 고도화",
		Description: "다년도 정부과제",
		StartDate:   day(2024, 1, 1),
		EndDate:     day(2025, 12, 31),
		TotalBudget: 100_000_000,
		AnnualPeriods: []AnnualPeriodInput{
			{
				PeriodNumber: 1, StartDate: day(2024, 1, 1), EndDate: day(2024, 12, 31),
				GovernmentFunding: 40_000_000, CompanyCash: 5_000_000, CompanyInKind: 5_000_000,
			},
			{
				PeriodNumber: 2, StartDate: day(2025, 1, 1), EndDate: day(2025, 12, 31),
				GovernmentFunding: 40_000_000, CompanyCash: 5_000_000, CompanyInKind: 5_000_000,
			},
		},
		BudgetCategories: []CategoryWeightInput{
			{Name: "personnel", Percentage: 60},
			{Name: "material", Percentage: 20},
			{Name: "activity", Percentage: 15},
			{Name: "indirect", Percentage: 5},
		},
		Members: []MemberInput{
			{
				PersonnelID: "P-001", Name: "김연구", Role: "책임연구원",
				ParticipationRate: 60,
				StartDate:         day(2024, 1, 1), EndDate: day(2025, 12, 31),
				MonthlyAmount: 3_000_000,
			},
		},
	}
}

func rowCounts(t *testing.T, db *gorm.DB) (projects, budgets, members, evidence int64) {
	t.Helper()
	require.NoError(t, db.Table("projects").Count(&projects).Error)
	require.NoError(t, db.Table("annual_budgets").Count(&budgets).Error)
	require.NoError(t, db.Table("project_members").Count(&members).Error)
	require.NoError(t, db.Table("evidence_items").Count(&evidence).Error)
	return
}
