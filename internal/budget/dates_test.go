package budget

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDayBoundaries(t *testing.T) {
	// A timestamp late in the evening in a local zone still belongs to
	// its calendar day once normalized to UTC boundaries.
	in := time.Date(2024, 3, 15, 14, 30, 45, 0, time.UTC)

	start := DayStart(in)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), start)

	end := DayEnd(in)
	assert.Equal(t, time.Date(2024, 3, 15, 23, 59, 59, int(999*time.Millisecond), time.UTC), end)
}

func TestOverlaps(t *testing.T) {
	pStart, pEnd := date(2024, 1, 1), date(2024, 12, 31)

	tests := []struct {
		name       string
		mStart     time.Time
		mEnd       time.Time
		wantInside bool
	}{
		{"fully inside", date(2024, 3, 1), date(2024, 6, 30), true},
		{"spanning", date(2023, 1, 1), date(2025, 12, 31), true},
		{"ends on period start day", date(2023, 6, 1), date(2024, 1, 1), true},
		{"starts on period end day", date(2024, 12, 31), date(2025, 6, 30), true},
		{"before", date(2023, 1, 1), date(2023, 12, 31), false},
		{"after", date(2025, 1, 1), date(2025, 12, 31), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantInside, Overlaps(tt.mStart, tt.mEnd, pStart, pEnd))
			// Symmetric by definition.
			assert.Equal(t, tt.wantInside, Overlaps(pStart, pEnd, tt.mStart, tt.mEnd))
		})
	}
}

func TestOverlapsIgnoresTimeOfDay(t *testing.T) {
	// A member record carrying a mid-day timestamp on the period's start
	// date still counts as overlapping.
	mEnd := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	assert.True(t, Overlaps(date(2023, 6, 1), mEnd, date(2024, 1, 1), date(2024, 12, 31)))
}

func TestAddCalendarMonths(t *testing.T) {
	assert.Equal(t, date(2024, 2, 15), AddCalendarMonths(date(2024, 1, 15), 1))
	assert.Equal(t, date(2025, 1, 31), AddCalendarMonths(date(2024, 12, 31), 1))
	assert.Equal(t, date(2025, 6, 30), AddCalendarMonths(date(2024, 6, 30), 12))

	// Day-of-month overflow rolls forward into the next month.
	assert.Equal(t, date(2024, 3, 2), AddCalendarMonths(date(2024, 1, 31), 1))
}
