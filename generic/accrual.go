package generic

// =============================================================================
// ACCRUAL SCHEDULE - Interface for how resources accumulate
// =============================================================================

// AccrualSchedule generates accrual events for a time range.
// Implementations define the business logic (monthly increments, annual grants, ...)
type AccrualSchedule interface {
	// GenerateAccruals returns accrual events in [from, to], ordered by date.
	GenerateAccruals(from, to TimePoint) []AccrualEvent
}

// AccrualKind tells apart regular earning from one-off grants.
type AccrualKind string

const (
	AccrualEarn  AccrualKind = "earn"
	AccrualGrant AccrualKind = "grant"
)

// AccrualEvent represents a single accrual occurrence.
type AccrualEvent struct {
	At     TimePoint
	Amount Amount
	Kind   AccrualKind
	Reason string
}
