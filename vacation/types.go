/*
Package vacation implements the vacation ledger engine.

PURPOSE:
  Given an employee's vacation settings and the set of days they have marked
  as taken, the engine computes per-period entitlement balances, allocates
  every taken day across periods, applies expiry with capped rollover, and
  classifies calendar days into display statuses.

VACATION YEAR:
  A period is identified by the calendar year it starts in. Period 2025
  earns entitlement Sep 1 2025 - Aug 31 2026 (the obtain window) and that
  entitlement may be taken until Dec 31 2026 (the usable window). On Jan 1
  2027 the period expires: up to TransferCap days roll into period 2026,
  the rest is lost.

ACCRUAL:
  2.08 days at the first of every month inside the obtain window, starting
  with the month employment began. An optional extra grant lands once per
  period on the first of ExtraGrantMonth. InitialDays is credited once, to
  the earliest period.

CONSUMPTION:
  Each taken day is one unit, drawn oldest period first. A day may be split
  across two periods when the older one only has a fraction left. When
  every eligible period is empty, the newest eligible period goes negative
  (advance vacation). AdvanceDays is how far the total may go negative
  before a day counts as overdrawn.

ENTRY POINTS:
  ClassifyDates:   status for many days in a single pass (hot path)
  SnapshotLedgers: every period's ledger at one point in time

Both run on the same engine (engine.go): a timeline of accrual and expiry
events merge-walked against the sorted taken days. Nothing here does I/O
or keeps state between calls.

SEE ALSO:
  - generic/period.go: Fiscal-year period arithmetic
  - generic/reconcile.go: Carryover/expire split
  - store.go: Persistence interface for plans
*/
package vacation

import (
	"slices"

	"github.com/warp/vacation-engine/generic"
)

// =============================================================================
// DATE SET
// =============================================================================

// DateSet is a set of calendar days. Keys are normalized to midnight UTC on
// insert and lookup, so callers may pass any TimePoint.
type DateSet map[generic.TimePoint]struct{}

// NewDateSet builds a set from days.
func NewDateSet(days ...generic.TimePoint) DateSet {
	s := make(DateSet, len(days))
	for _, d := range days {
		s.Add(d)
	}
	return s
}

// DateRange returns every day in [from, to].
func DateRange(from, to generic.TimePoint) DateSet {
	return NewDateSet(generic.Period{Start: from, End: to}.Days()...)
}

func (s DateSet) Add(d generic.TimePoint)    { s[generic.DateOf(d.Time)] = struct{}{} }
func (s DateSet) Remove(d generic.TimePoint) { delete(s, generic.DateOf(d.Time)) }
func (s DateSet) Len() int                   { return len(s) }

func (s DateSet) Has(d generic.TimePoint) bool {
	_, ok := s[generic.DateOf(d.Time)]
	return ok
}

// Sorted returns the days in ascending order.
func (s DateSet) Sorted() []generic.TimePoint {
	out := make([]generic.TimePoint, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	slices.SortFunc(out, generic.TimePoint.Compare)
	return out
}

// Without returns the days of s that are not in other.
func (s DateSet) Without(other DateSet) DateSet {
	out := make(DateSet, len(s))
	for d := range s {
		if !other.Has(d) {
			out[d] = struct{}{}
		}
	}
	return out
}

// =============================================================================
// STATUS - What the calendar shows for a day
// =============================================================================

type Status string

const (
	StatusBeforeStart       Status = "before-start"
	StatusHoliday           Status = "holiday"
	StatusWeekend           Status = "weekend"
	StatusNormal            Status = "normal"
	StatusSelectedOK        Status = "selected-ok"
	StatusSelectedWarning   Status = "selected-warning"
	StatusSelectedOverdrawn Status = "selected-overdrawn"
)

// IsSelected reports whether the status belongs to a taken day.
func (s Status) IsSelected() bool {
	switch s {
	case StatusSelectedOK, StatusSelectedWarning, StatusSelectedOverdrawn:
		return true
	}
	return false
}
