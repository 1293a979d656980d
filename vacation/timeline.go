package vacation

import (
	"slices"

	"github.com/warp/vacation-engine/generic"
)

// EventKind orders events that share a date: accruals before expiry, so an
// expiring period rolls over the day's final balance.
type EventKind int

const (
	EventEarn EventKind = iota
	EventExtra
	EventExpiry
)

func (k EventKind) String() string {
	switch k {
	case EventEarn:
		return "earn"
	case EventExtra:
		return "extra"
	case EventExpiry:
		return "expiry"
	}
	return "unknown"
}

func (k EventKind) priority() int {
	if k == EventExpiry {
		return 1
	}
	return 0
}

// Event is one entry on the timeline. Amount is zero for expiry events.
type Event struct {
	At     generic.TimePoint
	Kind   EventKind
	Period PeriodYear
	Amount generic.Amount
}

// buildTimeline returns every accrual and expiry event for the periods from
// the employment-start period through the period containing through, sorted
// by (date, accruals before expiry). Accruals after through are omitted;
// every period gets its expiry event regardless.
func buildTimeline(t terms, through generic.TimePoint) []Event {
	if through.Before(t.start) {
		return nil
	}
	first, last := HomePeriod(t.start), HomePeriod(through)

	monthly := &MonthlyAccrual{PerMonth: t.monthly}
	grant := &AnnualGrant{Month: t.grantMonth, Amount: t.grant, NotBefore: t.start}

	var events []Event
	for p := first; p <= last; p++ {
		obtain := p.ObtainWindow()

		earning := generic.Period{Start: t.start.MonthStart(), End: through}
		if window, ok := obtain.Intersect(earning); ok {
			events = appendAccruals(events, p, EventEarn, monthly.GenerateAccruals(window.Start, window.End))
		}

		granting := generic.Period{Start: t.start, End: through}
		if window, ok := obtain.Intersect(granting); ok {
			events = appendAccruals(events, p, EventExtra, grant.GenerateAccruals(window.Start, window.End))
		}

		events = append(events, Event{At: p.ExpiryDate(), Kind: EventExpiry, Period: p, Amount: generic.Days(0)})
	}

	slices.SortStableFunc(events, func(a, b Event) int {
		if c := a.At.Compare(b.At); c != 0 {
			return c
		}
		return a.Kind.priority() - b.Kind.priority()
	})
	return events
}

func appendAccruals(events []Event, p PeriodYear, kind EventKind, accruals []generic.AccrualEvent) []Event {
	for _, a := range accruals {
		events = append(events, Event{At: a.At, Kind: kind, Period: p, Amount: a.Amount})
	}
	return events
}
