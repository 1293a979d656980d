package vacation

import (
	"github.com/warp/vacation-engine/generic"
)

// Ledger is one period's running account during an evaluation.
//
// Balance = Earned + Extra + Initial + Transferred - Used. Initial is only
// ever non-zero on the earliest ledger of a run. Lost is informational and
// does not enter the balance.
type Ledger struct {
	Period      PeriodYear
	Earned      generic.Amount
	Extra       generic.Amount
	Initial     generic.Amount
	Transferred generic.Amount
	Used        generic.Amount
	Lost        generic.Amount
	Expired     bool
}

func newLedger(p PeriodYear) *Ledger {
	zero := generic.Days(0)
	return &Ledger{
		Period:      p,
		Earned:      zero,
		Extra:       zero,
		Initial:     zero,
		Transferred: zero,
		Used:        zero,
		Lost:        zero,
	}
}

// Balance is the entitlement still available in this period.
func (l Ledger) Balance() generic.Amount {
	return l.Earned.Add(l.Extra).Add(l.Initial).Add(l.Transferred).Sub(l.Used).Settle()
}

func (l *Ledger) credit(kind EventKind, amount generic.Amount) {
	if l.Expired {
		return
	}
	switch kind {
	case EventEarn:
		l.Earned = l.Earned.Add(amount)
	case EventExtra:
		l.Extra = l.Extra.Add(amount)
	}
}

func (l *Ledger) consume(amount generic.Amount) {
	l.Used = l.Used.Add(amount)
}

// close marks the ledger expired and returns how its balance splits into
// rollover and loss.
func (l *Ledger) close(rule generic.CarryoverRule) generic.ReconciliationSummary {
	summary := generic.Reconcile(l.Balance(), rule)
	l.Expired = true
	l.Lost = summary.Expired
	return summary
}
