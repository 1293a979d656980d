package vacation

import (
	"github.com/warp/vacation-engine/generic"
)

// Allocation is the part of one taken day charged to a period.
type Allocation struct {
	Period PeriodYear
	Amount generic.Amount
}

// Allocate charges amount to the eligible ledgers, oldest first.
//
// Each ledger with a balance above Epsilon gives min(balance, remaining).
// Whatever is left once every eligible ledger is drained goes to the newest
// one, which is the only way a balance turns negative. eligible must be
// sorted oldest first.
func Allocate(eligible []*Ledger, amount generic.Amount) []Allocation {
	if len(eligible) == 0 || !amount.IsPositive() {
		return nil
	}

	var allocations []Allocation
	remaining := amount

	for _, l := range eligible {
		if !remaining.ExceedsEpsilon() {
			break
		}
		available := l.Balance()
		if !available.ExceedsEpsilon() {
			continue
		}
		take := remaining.Min(available)
		l.consume(take)
		allocations = append(allocations, Allocation{Period: l.Period, Amount: take})
		remaining = remaining.Sub(take)
	}

	// Borrow the rest from the newest eligible period
	if remaining.IsPositive() {
		newest := eligible[len(eligible)-1]
		newest.consume(remaining)
		allocations = append(allocations, Allocation{Period: newest.Period, Amount: remaining})
	}
	return allocations
}
