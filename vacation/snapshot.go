package vacation

import (
	"github.com/warp/vacation-engine/generic"
)

// SnapshotLedgers rebuilds every period's ledger as it stands at the start
// of asOf: accruals and taken days before asOf are counted, and any period
// whose usable window closed before asOf is expired. Ledgers are returned
// oldest first. Nothing is returned for an asOf before employment start.
//
// Because a period expires at the start of January 1, a day taken on
// December 31 is never visible together with the period it was charged to:
// SnapshotLedgers(Dec 31) does not count it yet and SnapshotLedgers(Jan 1)
// has already closed that period. LedgersThrough shows the balance right
// after such a day.
func SnapshotLedgers(cfg Config, consumed DateSet, asOf generic.TimePoint) []Ledger {
	t := newTerms(cfg)
	asOf = generic.DateOf(asOf.Time)
	if asOf.Before(t.start) {
		return nil
	}

	r := newRun(t, asOf)
	r.replay(consumed, t.start, asOf.AddDays(-1))
	r.settle(asOf)
	return r.snapshot()
}

// LedgersThrough rebuilds the ledgers as they stand at the end of through:
// every accrual and taken day up to and including through is counted, and
// periods expiring the next morning are still open. Its TotalBalance is the
// figure ClassifyDates compares against the advance floor for a taken day.
func LedgersThrough(cfg Config, consumed DateSet, through generic.TimePoint) []Ledger {
	t := newTerms(cfg)
	through = generic.DateOf(through.Time)
	if through.Before(t.start) {
		return nil
	}

	r := newRun(t, through)
	r.replay(consumed, t.start, through)
	r.advance(through)
	return r.snapshot()
}

// TotalBalance sums the balances of the ledgers that have not expired.
func TotalBalance(ledgers []Ledger) generic.Amount {
	sum := generic.Days(0)
	for i := range ledgers {
		if !ledgers[i].Expired {
			sum = sum.Add(ledgers[i].Balance())
		}
	}
	return sum.Settle()
}

// Find returns the ledger for p, if present.
func Find(ledgers []Ledger, p PeriodYear) (Ledger, bool) {
	for _, l := range ledgers {
		if l.Period == p {
			return l, true
		}
	}
	return Ledger{}, false
}
