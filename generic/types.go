/*
Package generic provides the domain-agnostic building blocks of the engine.

PURPOSE:
  Quantities, calendar days, periods, accrual schedules and period-end
  reconciliation. Nothing in here knows what a vacation year is; the
  vacation package composes these pieces into the Sep-Aug entitlement rules.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A quantity with a unit (e.g., 2.08 days)
  - Epsilon: The tolerance under which a balance counts as zero

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal so 2.08-day increments and fractional
     splits add up exactly
  2. Purity: No I/O, no clocks except Today()
  3. Type Safety: Amounts carry their unit

USAGE:
  monthly := generic.NewAmount(2.08, generic.UnitDays)
  balance := monthly.Add(monthly).Sub(generic.Days(4.16)).Settle() // 0 days

SEE ALSO:
  - time.go: TimePoint and holiday calendar
  - period.go: Period windows
  - reconcile.go: Carryover/expire at period end
*/
package generic

import (
	"math"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Quantity with unit (always time-based for this system)
// =============================================================================

type Amount struct {
	Value decimal.Decimal
	Unit  Unit
}

type Unit string

const UnitDays Unit = "days"

// Epsilon is the balance tolerance. Anything closer to zero than this is
// treated as zero when deciding whether a ledger still has entitlement.
var Epsilon = decimal.New(1, -6)

// NewAmount converts a float to an Amount. Non-finite values become zero;
// decimal cannot represent them.
func NewAmount(value float64, unit Unit) Amount {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Amount{Value: decimal.Zero, Unit: unit}
	}
	return Amount{Value: decimal.NewFromFloat(value), Unit: unit}
}

// Days is shorthand for NewAmount(value, UnitDays).
func Days(value float64) Amount { return NewAmount(value, UnitDays) }

func (a Amount) Zero() Amount                 { return Amount{Value: decimal.Zero, Unit: a.Unit} }
func (a Amount) Add(b Amount) Amount          { return Amount{Value: a.Value.Add(b.Value), Unit: a.Unit} }
func (a Amount) Sub(b Amount) Amount          { return Amount{Value: a.Value.Sub(b.Value), Unit: a.Unit} }
func (a Amount) Neg() Amount                  { return Amount{Value: a.Value.Neg(), Unit: a.Unit} }
func (a Amount) IsNegative() bool             { return a.Value.IsNegative() }
func (a Amount) IsZero() bool                 { return a.Value.IsZero() }
func (a Amount) IsPositive() bool             { return a.Value.IsPositive() }
func (a Amount) GreaterThan(b Amount) bool    { return a.Value.GreaterThan(b.Value) }
func (a Amount) LessThan(b Amount) bool       { return a.Value.LessThan(b.Value) }
func (a Amount) Float64() float64             { return a.Value.InexactFloat64() }

func (a Amount) Min(b Amount) Amount {
	if a.LessThan(b) {
		return a
	}
	return b
}

func (a Amount) Max(b Amount) Amount {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// ExceedsEpsilon reports a > Epsilon.
func (a Amount) ExceedsEpsilon() bool { return a.Value.GreaterThan(Epsilon) }

// Settle snaps values within Epsilon of zero to exactly zero.
func (a Amount) Settle() Amount {
	if a.Value.Abs().LessThan(Epsilon) {
		return a.Zero()
	}
	return a
}
