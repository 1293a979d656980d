package generic_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/warp/vacation-engine/generic"
)

func days(v float64) generic.Amount { return generic.Days(v) }

// =============================================================================
// RECONCILIATION TESTS
// =============================================================================

func TestReconcile_FullCarryover(t *testing.T) {
	// GIVEN: No cap
	summary := generic.Reconcile(days(7.5), generic.CarryoverRule{})

	// THEN: Everything carries over
	if !summary.CarriedOver.Value.Equal(days(7.5).Value) {
		t.Errorf("expected 7.5 carried over, got %v", summary.CarriedOver.Value)
	}
	if !summary.Expired.IsZero() {
		t.Errorf("expected nothing expired, got %v", summary.Expired.Value)
	}
}

func TestReconcile_CappedCarryover(t *testing.T) {
	// GIVEN: A closing balance of 29.96 and a cap of 5
	limit := days(5)
	summary := generic.Reconcile(days(29.96), generic.CarryoverRule{MaxCarryover: &limit})

	// THEN: 5 carries over and 24.96 is lost
	if !summary.CarriedOver.Value.Equal(days(5).Value) {
		t.Errorf("expected 5 carried over, got %v", summary.CarriedOver.Value)
	}
	if !summary.Expired.Value.Equal(days(24.96).Value) {
		t.Errorf("expected 24.96 expired, got %v", summary.Expired.Value)
	}
}

func TestReconcile_NoCarryover_AllExpires(t *testing.T) {
	zero := days(0)
	summary := generic.Reconcile(days(3), generic.CarryoverRule{MaxCarryover: &zero})

	if !summary.CarriedOver.IsZero() {
		t.Errorf("expected nothing carried over, got %v", summary.CarriedOver.Value)
	}
	if !summary.Expired.Value.Equal(days(3).Value) {
		t.Errorf("expected 3 expired, got %v", summary.Expired.Value)
	}
}

func TestReconcile_NegativeBalance_NoCarryoverOrExpire(t *testing.T) {
	limit := days(5)
	summary := generic.Reconcile(days(-2), generic.CarryoverRule{MaxCarryover: &limit})

	if !summary.CarriedOver.IsZero() || !summary.Expired.IsZero() {
		t.Errorf("expected no action on a deficit, got carry=%v expire=%v",
			summary.CarriedOver.Value, summary.Expired.Value)
	}
	if !summary.Closing.Value.Equal(days(-2).Value) {
		t.Errorf("closing balance must be reported as-is, got %v", summary.Closing.Value)
	}
}

func TestReconcile_NegativeCapTreatedAsZero(t *testing.T) {
	limit := days(-1)
	summary := generic.Reconcile(days(2), generic.CarryoverRule{MaxCarryover: &limit})

	if !summary.CarriedOver.IsZero() {
		t.Errorf("expected nothing carried over, got %v", summary.CarriedOver.Value)
	}
}

// =============================================================================
// PERIOD CALCULATION TESTS
// =============================================================================

func TestPeriodConfig_FiscalYear_September(t *testing.T) {
	config := generic.PeriodConfig{StartMonth: time.September}

	// Oct 15, 2025 should be in fiscal year Sep 1 2025 - Aug 31 2026
	period := config.PeriodFor(generic.NewTimePoint(2025, time.October, 15))

	if !period.Start.Equal(generic.NewTimePoint(2025, time.September, 1)) {
		t.Errorf("expected Sep 1 2025, got %s", period.Start)
	}
	if !period.End.Equal(generic.NewTimePoint(2026, time.August, 31)) {
		t.Errorf("expected Aug 31 2026, got %s", period.End)
	}

	// Aug 31, 2025 should still be in fiscal year Sep 1 2024 - Aug 31 2025
	period2 := config.PeriodFor(generic.NewTimePoint(2025, time.August, 31))

	if !period2.Start.Equal(generic.NewTimePoint(2024, time.September, 1)) {
		t.Errorf("expected Sep 1 2024, got %s", period2.Start)
	}
	if !period2.End.Equal(generic.NewTimePoint(2025, time.August, 31)) {
		t.Errorf("expected Aug 31 2025, got %s", period2.End)
	}

	// A leap day falls inside the period that started the previous September
	leap := config.PeriodFor(generic.NewTimePoint(2028, time.February, 29))
	if want := config.PeriodStarting(2027); !leap.Start.Equal(want.Start) || !leap.End.Equal(want.End) {
		t.Errorf("expected %s, got %s", want, leap)
	}
}

func TestPeriod_Intersect(t *testing.T) {
	a := generic.Period{Start: generic.MustParseDate("2025-09-01"), End: generic.MustParseDate("2026-08-31")}
	b := generic.Period{Start: generic.MustParseDate("2026-01-15"), End: generic.MustParseDate("2027-01-01")}

	got, ok := a.Intersect(b)
	if !ok {
		t.Fatal("expected overlap")
	}
	if got.Start != b.Start || got.End != a.End {
		t.Errorf("unexpected intersection %s", got)
	}
	if n := len(got.Days()); n != 229 {
		t.Errorf("expected 229 days, got %d", n)
	}

	c := generic.Period{Start: generic.MustParseDate("2027-02-01"), End: generic.MustParseDate("2027-03-01")}
	if _, ok := a.Intersect(c); ok {
		t.Error("disjoint periods must not intersect")
	}
}

// =============================================================================
// TIME POINT TESTS
// =============================================================================

func TestTimePoint_NormalizesToDay(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	late := time.Date(2025, 12, 31, 23, 30, 0, 0, loc)

	got := generic.DateOf(late)
	if got != generic.MustParseDate("2025-12-31") {
		t.Errorf("expected 2025-12-31, got %s", got)
	}
	if generic.DaysBetween(generic.StartOfYear(2028), generic.EndOfYear(2028)) != 365 {
		t.Errorf("expected 2028 to span 366 days")
	}
}

func TestTimePoint_JSONMapKey(t *testing.T) {
	in := map[generic.TimePoint]string{generic.MustParseDate("2025-09-01"): "x"}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"2025-09-01":"x"}` {
		t.Errorf("unexpected encoding %s", data)
	}

	var out map[generic.TimePoint]string
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out[generic.MustParseDate("2025-09-01")] != "x" {
		t.Errorf("round trip lost the key: %v", out)
	}

	if _, err := generic.ParseDate("2025-13-01"); err == nil {
		t.Error("expected an error for month 13")
	}
}

func TestAmount_Settle(t *testing.T) {
	tiny := days(29.96).Sub(days(24.96)).Sub(days(5))
	if !tiny.Settle().IsZero() {
		t.Errorf("expected zero, got %v", tiny.Value)
	}
	if days(1e-7).ExceedsEpsilon() {
		t.Error("1e-7 is within epsilon")
	}
	if !days(0.01).ExceedsEpsilon() {
		t.Error("0.01 exceeds epsilon")
	}
}

// =============================================================================
// ERROR TESTS
// =============================================================================

func TestErrorClassification(t *testing.T) {
	cfgErr := fmt.Errorf("saving: %w", &generic.ConfigError{Field: "transfer_cap", Reason: "must not be negative"})
	notFound := fmt.Errorf("lookup: %w", generic.ErrProfileNotFound)

	if !generic.IsClientError(cfgErr) || generic.IsNotFound(cfgErr) {
		t.Error("config errors are client errors")
	}
	if !errors.Is(cfgErr, generic.ErrInvalidConfiguration) {
		t.Error("ConfigError must unwrap to ErrInvalidConfiguration")
	}
	if !generic.IsNotFound(notFound) || generic.IsClientError(notFound) {
		t.Error("missing profiles are not-found errors")
	}
	if generic.IsClientError(errors.New("disk full")) {
		t.Error("plain errors are not client errors")
	}
}
