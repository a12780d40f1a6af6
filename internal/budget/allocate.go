// Package budget holds the pure calculation core of the R&D budget service:
// weighted allocation, period-overlap resolution, participation-rate
// validation and funding-vs-cost reconciliation. Nothing in this package
// touches the database or the clock.
package budget

import "github.com/shopspring/decimal"

// DefaultTolerance is the allowed absolute difference, in minor currency
// units (won), between two figures that are supposed to describe the same
// money: period budgets vs the project total, and funding totals vs category
// cost totals. Both breakdowns are entered by hand in separate flows, so
// exact equality is not enforced. Override via BUDGET_TOLERANCE.
const DefaultTolerance int64 = 1000

var hundred = decimal.NewFromInt(100)

// Allocate returns the share of amount given by percentage, rounded half-up
// to the nearest minor unit. percentage 0 yields 0 and percentage 100 yields
// amount exactly. When several weights are applied to the same base the
// rounded shares need not sum back to the base; the residue is accepted, not
// redistributed.
func Allocate(amount int64, percentage float64) int64 {
	if amount == 0 || percentage == 0 {
		return 0
	}
	share := decimal.NewFromInt(amount).
		Mul(decimal.NewFromFloat(percentage)).
		Div(hundred)
	// decimal.Round is half away from zero, which is half-up for the
	// non-negative amounts handled here.
	return share.Round(0).IntPart()
}

// WithinTolerance reports whether a and b differ by at most tolerance.
func WithinTolerance(a, b, tolerance int64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tolerance
}
