package vacation

import (
	"math"
	"time"

	"github.com/warp/vacation-engine/generic"
)

// DefaultTransferCap is how many days roll into the next period at expiry
// when nothing else is configured.
const DefaultTransferCap = 5.0

// MonthlyIncrement is the entitlement earned per month of employment.
const MonthlyIncrement = 2.08

// Config holds one employee's vacation settings. The engine treats it as
// read-only input.
type Config struct {
	EmploymentStart generic.TimePoint `json:"employment_start_date"`
	InitialDays     float64           `json:"initial_days"`
	ExtraGrantMonth time.Month        `json:"extra_grant_month"`
	ExtraGrantCount float64           `json:"extra_grant_count"`
	AdvanceDays     float64           `json:"advance_days"`
	TransferCap     float64           `json:"transfer_cap"`
}

// DefaultConfig returns the settings a new profile starts with.
func DefaultConfig(start generic.TimePoint) Config {
	return Config{
		EmploymentStart: start,
		ExtraGrantMonth: time.May,
		TransferCap:     DefaultTransferCap,
	}
}

// Validate reports settings that cannot describe a real vacation scheme.
// The engine itself never calls this; it clamps instead.
func (c Config) Validate() error {
	if c.EmploymentStart.IsZero() {
		return &generic.ConfigError{Field: "employment_start_date", Reason: "is required"}
	}
	checks := []struct {
		field string
		value float64
	}{
		{"initial_days", c.InitialDays},
		{"extra_grant_count", c.ExtraGrantCount},
		{"advance_days", c.AdvanceDays},
		{"transfer_cap", c.TransferCap},
	}
	for _, chk := range checks {
		if math.IsNaN(chk.value) || math.IsInf(chk.value, 0) {
			return &generic.ConfigError{Field: chk.field, Reason: "must be a finite number"}
		}
		if chk.value < 0 {
			return &generic.ConfigError{Field: chk.field, Reason: "must not be negative"}
		}
	}
	if c.ExtraGrantCount > 0 && (c.ExtraGrantMonth < time.January || c.ExtraGrantMonth > time.December) {
		return &generic.ConfigError{Field: "extra_grant_month", Reason: "must be between 1 and 12"}
	}
	return nil
}

// terms is Config after clamping, in decimal amounts.
type terms struct {
	start       generic.TimePoint
	initial     generic.Amount
	grantMonth  time.Month // 0 means no extra grant
	grant       generic.Amount
	advance     generic.Amount
	transferCap generic.Amount
	monthly     generic.Amount
}

func newTerms(c Config) terms {
	t := terms{
		start:       generic.DateOf(c.EmploymentStart.Time),
		initial:     nonNegative(c.InitialDays),
		grantMonth:  c.ExtraGrantMonth,
		grant:       nonNegative(c.ExtraGrantCount),
		advance:     nonNegative(c.AdvanceDays),
		transferCap: nonNegative(c.TransferCap),
		monthly:     generic.Days(MonthlyIncrement),
	}
	if t.grantMonth < time.January || t.grantMonth > time.December || t.grant.IsZero() {
		t.grantMonth = 0
	}
	return t
}

// nonNegative clamps non-finite and negative values to zero.
func nonNegative(v float64) generic.Amount {
	a := generic.Days(v)
	if a.IsNegative() {
		return a.Zero()
	}
	return a
}
