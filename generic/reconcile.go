/*
reconcile.go - Period-end carryover and expiry

PURPOSE:
  When a period closes, whatever balance is left either carries over into
  the next period (up to a cap) or expires. This file computes that split.

RECONCILIATION:
  1. Check remaining balance
  2. Apply carryover (up to max limit)
  3. Expire anything above carryover limit

  A closing balance <= 0 carries nothing and expires nothing: a deficit is
  not rolled forward, and there is nothing to lose.

EXAMPLE:
  cap := generic.Days(5)
  summary := generic.Reconcile(generic.Days(29.96), generic.CarryoverRule{MaxCarryover: &cap})
  // summary.CarriedOver = 5, summary.Expired = 24.96
*/
package generic

// CarryoverRule defines what happens to a positive balance at period end.
// A nil MaxCarryover means the whole balance carries over.
type CarryoverRule struct {
	MaxCarryover *Amount
}

// ReconciliationSummary is the outcome of closing a period.
// Invariant: CarriedOver + Expired = max(Closing, 0).
type ReconciliationSummary struct {
	Closing     Amount
	CarriedOver Amount
	Expired     Amount
}

// Reconcile splits a closing balance into carried-over and expired parts.
func Reconcile(closing Amount, rule CarryoverRule) ReconciliationSummary {
	summary := ReconciliationSummary{
		Closing:     closing,
		CarriedOver: closing.Zero(),
		Expired:     closing.Zero(),
	}
	if !closing.IsPositive() {
		return summary
	}

	carry := closing
	if rule.MaxCarryover != nil {
		limit := rule.MaxCarryover.Max(closing.Zero())
		carry = carry.Min(limit)
	}
	summary.CarriedOver = carry
	summary.Expired = closing.Sub(carry).Settle()
	return summary
}
