package models

import (
	"time"

	"gorm.io/gorm"
)

// AnnualBudget is one fiscal period (차년도) of a project. It carries two
// independently maintained breakdowns of the same money: five category costs
// (each split into cash and in-kind) and three funding-source totals. The two
// sides are reconciled within a tolerance, never forced equal, because they
// are edited by different user flows that may lag each other.
type AnnualBudget struct {
	gorm.Model
	ProjectID    uint      `json:"projectId" gorm:"uniqueIndex:idx_project_period;not null"`
	PeriodNumber int       `json:"periodNumber" gorm:"uniqueIndex:idx_project_period;not null"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`

	// Category costs, minor units.
	PersonnelCash   int64 `json:"personnelCash"`
	PersonnelInKind int64 `json:"personnelInKind"`
	MaterialCash    int64 `json:"materialCash"`
	MaterialInKind  int64 `json:"materialInKind"`
	ActivityCash    int64 `json:"activityCash"`
	ActivityInKind  int64 `json:"activityInKind"`
	StipendCash     int64 `json:"stipendCash"`
	StipendInKind   int64 `json:"stipendInKind"`
	IndirectCash    int64 `json:"indirectCash"`
	IndirectInKind  int64 `json:"indirectInKind"`

	// Funding sources, minor units.
	GovernmentFunding int64 `json:"governmentFunding"`
	CompanyCash       int64 `json:"companyCash"`
	CompanyInKind     int64 `json:"companyInKind"`

	EvidenceItems []EvidenceItem `json:"evidenceItems,omitempty" gorm:"foreignKey:AnnualBudgetID;constraint:OnDelete:CASCADE"`
}

// FundingTotal is the period budget as seen from the funding side.
func (b *AnnualBudget) FundingTotal() int64 {
	return b.GovernmentFunding + b.CompanyCash + b.CompanyInKind
}

// CategoryCashTotal sums the cash halves of the five category costs.
func (b *AnnualBudget) CategoryCashTotal() int64 {
	return b.PersonnelCash + b.MaterialCash + b.ActivityCash + b.StipendCash + b.IndirectCash
}

// CategoryInKindTotal sums the in-kind halves of the five category costs.
func (b *AnnualBudget) CategoryInKindTotal() int64 {
	return b.PersonnelInKind + b.MaterialInKind + b.ActivityInKind + b.StipendInKind + b.IndirectInKind
}

// CostTotal is the period budget as seen from the category side.
func (b *AnnualBudget) CostTotal() int64 {
	return b.CategoryCashTotal() + b.CategoryInKindTotal()
}

// CopyCategoryCosts copies the ten category-cost columns from src. Used by
// replace-all writes, which carry funding figures only and must not wipe
// category costs already entered for the same period number.
func (b *AnnualBudget) CopyCategoryCosts(src *AnnualBudget) {
	b.PersonnelCash = src.PersonnelCash
	b.PersonnelInKind = src.PersonnelInKind
	b.MaterialCash = src.MaterialCash
	b.MaterialInKind = src.MaterialInKind
	b.ActivityCash = src.ActivityCash
	b.ActivityInKind = src.ActivityInKind
	b.StipendCash = src.StipendCash
	b.StipendInKind = src.StipendInKind
	b.IndirectCash = src.IndirectCash
	b.IndirectInKind = src.IndirectInKind
}
