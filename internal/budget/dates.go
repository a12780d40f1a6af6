package budget

import "time"

// DayStart normalizes t to 00:00:00.000 UTC of its calendar day.
func DayStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DayEnd normalizes t to 23:59:59.999 UTC of its calendar day.
func DayEnd(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 23, 59, 59, int(999*time.Millisecond), time.UTC)
}

// Overlaps reports whether the date ranges [aStart, aEnd] and
// [bStart, bEnd] intersect. Ranges are compared as whole calendar days in
// UTC and are inclusive on both ends, so a range ending on the day another
// starts still overlaps it. The check is symmetric in its two ranges.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	as, ae := DayStart(aStart), DayEnd(aEnd)
	bs, be := DayStart(bStart), DayEnd(bEnd)
	return !as.After(be) && !ae.Before(bs)
}

// AddCalendarMonths returns t moved forward by n calendar months in UTC,
// keeping the day-of-month and letting overflow roll into the next month
// (Jan 31 + 1 month lands in early March), which matches how due dates were
// computed historically.
func AddCalendarMonths(t time.Time, n int) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month()+time.Month(n), u.Day(),
		u.Hour(), u.Minute(), u.Second(), u.Nanosecond(), time.UTC)
}
