package vacation

import (
	"github.com/warp/vacation-engine/generic"
)

// ClassifyDates returns a status for every day in calendar.
//
// Days that are not taken are classified directly: before-start, holiday,
// weekend or normal. Taken days (consumed minus holidays) are walked in date
// order against the timeline in a single pass; each one is charged to the
// ledgers and classified by the resulting total balance:
//
//	total >= 0             selected-ok
//	total >= -AdvanceDays  selected-warning
//	otherwise              selected-overdrawn
func ClassifyDates(calendar, consumed, holidays DateSet, cfg Config) map[generic.TimePoint]Status {
	t := newTerms(cfg)
	statuses := make(map[generic.TimePoint]Status, len(calendar))

	taken := consumed.Without(holidays)
	var horizon generic.TimePoint
	for d := range calendar {
		switch {
		case d.Before(t.start):
			statuses[d] = StatusBeforeStart
		case holidays.Has(d):
			statuses[d] = StatusHoliday
		case taken.Has(d):
			if d.After(horizon) {
				horizon = d
			}
		case d.IsWeekend():
			statuses[d] = StatusWeekend
		default:
			statuses[d] = StatusNormal
		}
	}
	if horizon.IsZero() {
		return statuses
	}

	r := newRun(t, horizon)
	floor := t.advance.Neg()
	for _, d := range taken.Sorted() {
		if d.After(horizon) {
			break
		}
		if d.Before(t.start) {
			continue
		}
		r.advance(d)
		r.consume(d)
		if !calendar.Has(d) {
			continue
		}
		total := r.total()
		switch {
		case !total.IsNegative():
			statuses[d] = StatusSelectedOK
		case !total.LessThan(floor):
			statuses[d] = StatusSelectedWarning
		default:
			statuses[d] = StatusSelectedOverdrawn
		}
	}
	return statuses
}
