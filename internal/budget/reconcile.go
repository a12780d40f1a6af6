package budget

import (
	"fmt"

	"github.com/viakisun/vws-rnd/models"
)

// ReconcileDetail carries both sides of a funding-vs-cost comparison,
// including the cash/in-kind sub-totals, so a caller can render a precise
// discrepancy message without recomputing anything.
type ReconcileDetail struct {
	PeriodNumber  int   `json:"periodNumber"`
	FundingTotal  int64 `json:"fundingTotal"`
	FundingCash   int64 `json:"fundingCash"`
	FundingInKind int64 `json:"fundingInKind"`
	CostTotal     int64 `json:"costTotal"`
	CostCash      int64 `json:"costCash"`
	CostInKind    int64 `json:"costInKind"`
	Difference    int64 `json:"difference"`
}

// ReconcileResult is the outcome of reconciling one fiscal period. A
// mismatch is advisory: the funding breakdown and the category costs are
// maintained by different flows and may be updated at different times, so
// writers report the warning and proceed.
type ReconcileResult struct {
	Mismatched bool
	Warning    string
	Detail     ReconcileDetail
}

// Reconcile compares the funding-source total of b against its category-cost
// total. The two are considered matched when they differ by at most
// tolerance minor units.
func Reconcile(b *models.AnnualBudget, tolerance int64) ReconcileResult {
	detail := ReconcileDetail{
		PeriodNumber:  b.PeriodNumber,
		FundingTotal:  b.FundingTotal(),
		FundingCash:   b.GovernmentFunding + b.CompanyCash,
		FundingInKind: b.CompanyInKind,
		CostTotal:     b.CostTotal(),
		CostCash:      b.CategoryCashTotal(),
		CostInKind:    b.CategoryInKindTotal(),
	}
	detail.Difference = detail.FundingTotal - detail.CostTotal

	res := ReconcileResult{Detail: detail}
	if !WithinTolerance(detail.FundingTotal, detail.CostTotal, tolerance) {
		res.Mismatched = true
		res.Warning = fmt.Sprintf(
			"%d차년도 재원 합계(%d원)와 비목별 사업비 합계(%d원)가 일치하지 않습니다 (차액 %d원).",
			b.PeriodNumber, detail.FundingTotal, detail.CostTotal, detail.Difference)
	}
	return res
}
