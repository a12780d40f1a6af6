package budget

import (
	"fmt"
	"time"
)

// PeriodWindow is the date range of one fiscal period, identified by its
// 1-based period number (차년도).
type PeriodWindow struct {
	Number int
	Start  time.Time
	End    time.Time
}

// MemberWindow is one researcher's assignment window and participation rate.
type MemberWindow struct {
	Name  string
	Rate  float64
	Start time.Time
	End   time.Time
}

// ValidateParticipation checks participation rates against two rules and
// returns one human-readable issue per violation. First, every member's own
// rate must lie in (0, 100] regardless of any period. Second, for each
// period, the rates of all members whose assignment overlaps that period may
// sum to at most 100. An empty result means the input is valid.
func ValidateParticipation(periods []PeriodWindow, members []MemberWindow) []string {
	var issues []string

	for _, m := range members {
		if m.Rate <= 0 || m.Rate > 100 {
			issues = append(issues, fmt.Sprintf(
				"참여연구원 %s의 참여율(%.1f%%)이 올바르지 않습니다. 참여율은 0%% 초과 100%% 이하여야 합니다.",
				m.Name, m.Rate))
		}
	}

	for _, p := range periods {
		var sum float64
		for _, m := range members {
			if Overlaps(m.Start, m.End, p.Start, p.End) {
				sum += m.Rate
			}
		}
		if sum > 100 {
			issues = append(issues, fmt.Sprintf(
				"%d차년도 참여연구원 참여율 합계(%.1f%%)가 100%%를 초과합니다.",
				p.Number, sum))
		}
	}

	return issues
}
