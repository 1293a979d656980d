package generic

import "time"

// =============================================================================
// PERIOD - A closed range of calendar days
// =============================================================================

// Period is the closed day range [Start, End].
//
// Example: the 2025 vacation year is Sep 1 2025 - Aug 31 2026.
type Period struct {
	Start TimePoint
	End   TimePoint
}

// Contains returns true if the time point is within the period [Start, End]
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Valid reports whether End is not before Start.
func (p Period) Valid() bool {
	return !p.End.Before(p.Start)
}

// Days returns all days in the period as a slice of TimePoints.
func (p Period) Days() []TimePoint {
	if !p.Valid() {
		return nil
	}
	days := make([]TimePoint, 0, DaysBetween(p.Start, p.End)+1)
	for current := p.Start; current.BeforeOrEqual(p.End); current = current.AddDays(1) {
		days = append(days, current)
	}
	return days
}

// Intersect returns the overlap of p and other; ok is false when they are disjoint.
func (p Period) Intersect(other Period) (Period, bool) {
	start := p.Start
	if other.Start.After(start) {
		start = other.Start
	}
	end := p.End
	if other.End.Before(end) {
		end = other.End
	}
	out := Period{Start: start, End: end}
	return out, out.Valid()
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// PeriodConfig defines a yearly period that starts on the 1st of StartMonth.
type PeriodConfig struct {
	StartMonth time.Month
}

// =============================================================================
// PERIOD CALCULATOR - Determines which period a date falls into
// =============================================================================

// PeriodFor returns the period that contains the given date.
func (pc PeriodConfig) PeriodFor(date TimePoint) Period {
	year := date.Year()
	if date.Month() < pc.StartMonth {
		// Before this year's start: still in the previous period
		year--
	}
	return pc.PeriodStarting(year)
}

// PeriodStarting returns the period whose first year is year. For a period
// starting in September, PeriodStarting(2025) is Sep 1 2025 - Aug 31 2026.
func (pc PeriodConfig) PeriodStarting(year int) Period {
	start := NewTimePoint(year, pc.StartMonth, 1)
	return Period{Start: start, End: start.AddYears(1).AddDays(-1)}
}
