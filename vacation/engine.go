package vacation

import (
	"github.com/warp/vacation-engine/generic"
)

// run is the shared ledger engine behind ClassifyDates, SnapshotLedgers and
// LedgersThrough.
// It owns one ledger per period from the employment-start period through
// the period containing the run's horizon, and replays the timeline against
// them through a cursor. A run lives for one call.
type run struct {
	terms   terms
	first   PeriodYear
	ledgers []*Ledger
	events  []Event
	next    int
}

func newRun(t terms, horizon generic.TimePoint) *run {
	r := &run{terms: t, first: HomePeriod(t.start)}
	if horizon.Before(t.start) {
		return r
	}
	last := HomePeriod(horizon)
	for p := r.first; p <= last; p++ {
		r.ledgers = append(r.ledgers, newLedger(p))
	}
	r.ledgers[0].Initial = t.initial
	r.events = buildTimeline(t, horizon)
	return r
}

func (r *run) ledger(p PeriodYear) *Ledger {
	i := int(p - r.first)
	if i < 0 || i >= len(r.ledgers) {
		return nil
	}
	return r.ledgers[i]
}

// advance applies every pending event dated on or before through.
func (r *run) advance(through generic.TimePoint) {
	for r.next < len(r.events) && r.events[r.next].At.BeforeOrEqual(through) {
		r.apply(r.events[r.next])
		r.next++
	}
}

// settle brings the run to the start of asOf: accruals dated before asOf
// and expiries dated on or before it.
func (r *run) settle(asOf generic.TimePoint) {
	for r.next < len(r.events) && r.events[r.next].At.BeforeOrEqual(asOf) {
		e := r.events[r.next]
		if e.At.Before(asOf) || e.Kind == EventExpiry {
			r.apply(e)
		}
		r.next++
	}
}

func (r *run) apply(e Event) {
	l := r.ledger(e.Period)
	if l == nil {
		return
	}
	if e.Kind != EventExpiry {
		l.credit(e.Kind, e.Amount)
		return
	}

	successor := r.ledger(e.Period.Next())
	rule := generic.CarryoverRule{MaxCarryover: &r.terms.transferCap}
	if successor == nil {
		zero := r.terms.transferCap.Zero()
		rule.MaxCarryover = &zero
	}
	summary := l.close(rule)
	if successor != nil {
		successor.Transferred = successor.Transferred.Add(summary.CarriedOver)
	}
}

// eligible returns the open ledgers whose usable window contains d, oldest
// first. At most the home period and the one before it qualify.
func (r *run) eligible(d generic.TimePoint) []*Ledger {
	home := HomePeriod(d)
	out := make([]*Ledger, 0, 2)
	for _, p := range []PeriodYear{home.Prev(), home} {
		if l := r.ledger(p); l != nil && !l.Expired && p.Usable(d) {
			out = append(out, l)
		}
	}
	return out
}

// consume charges one day taken on d.
func (r *run) consume(d generic.TimePoint) {
	Allocate(r.eligible(d), generic.Days(1))
}

// replay charges every taken day in [from, last], in date order.
func (r *run) replay(consumed DateSet, from, last generic.TimePoint) {
	for _, d := range consumed.Sorted() {
		if d.After(last) {
			break
		}
		if d.Before(from) {
			continue
		}
		r.advance(d)
		r.consume(d)
	}
}

// snapshot copies the ledgers out, oldest first.
func (r *run) snapshot() []Ledger {
	out := make([]Ledger, len(r.ledgers))
	for i, l := range r.ledgers {
		out[i] = *l
	}
	return out
}

// total sums the balances of every ledger not yet expired.
func (r *run) total() generic.Amount {
	sum := generic.Days(0)
	for _, l := range r.ledgers {
		if !l.Expired {
			sum = sum.Add(l.Balance())
		}
	}
	return sum.Settle()
}
