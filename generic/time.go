package generic

import (
	"fmt"
	"time"
)

// =============================================================================
// TIME POINT - Concrete time abstraction (this IS a time resource system)
// =============================================================================

// DateLayout is the wire format for calendar dates everywhere in the engine.
const DateLayout = "2006-01-02"

// TimePoint is a calendar day. The engine only deals in whole days, so every
// constructor normalizes to midnight UTC; two TimePoints for the same day are
// == comparable and safe to use as map keys.
type TimePoint struct {
	Time time.Time
}

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day, keeping the wall-clock date of t's
// own location.
func DateOf(t time.Time) TimePoint {
	return NewTimePoint(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (TimePoint, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return TimePoint{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", s, err)
	}
	return DateOf(t), nil
}

// MustParseDate is ParseDate for literals in tests and fixtures.
func MustParseDate(s string) TimePoint {
	tp, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return tp
}

func Today() TimePoint {
	return DateOf(time.Now())
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.Time.Before(other.Time) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.Time.Equal(other.Time) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.Time.After(other.Time) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return !tp.After(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return !tp.Before(other) }
func (tp TimePoint) Compare(other TimePoint) int        { return tp.Time.Compare(other.Time) }

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint   { return DateOf(tp.Time.AddDate(0, 0, n)) }
func (tp TimePoint) AddMonths(n int) TimePoint { return DateOf(tp.Time.AddDate(0, n, 0)) }
func (tp TimePoint) AddYears(n int) TimePoint  { return DateOf(tp.Time.AddDate(n, 0, 0)) }

// Properties
func (tp TimePoint) Year() int             { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month     { return tp.Time.Month() }
func (tp TimePoint) Day() int              { return tp.Time.Day() }
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }
func (tp TimePoint) IsWeekend() bool       { wd := tp.Weekday(); return wd == time.Saturday || wd == time.Sunday }
func (tp TimePoint) IsWorkday() bool       { return !tp.IsWeekend() }
func (tp TimePoint) IsZero() bool          { return tp.Time.IsZero() }

// MonthStart returns the first day of tp's month.
func (tp TimePoint) MonthStart() TimePoint { return StartOfMonth(tp.Year(), tp.Month()) }

func (tp TimePoint) String() string {
	return tp.Time.Format(DateLayout)
}

// MarshalText lets TimePoint be used as a JSON map key and value.
func (tp TimePoint) MarshalText() ([]byte, error) {
	return []byte(tp.String()), nil
}

func (tp *TimePoint) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*tp = parsed
	return nil
}

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

// HolidaySource records where a holiday came from.
type HolidaySource string

const (
	HolidayBundled HolidaySource = "bundled" // seeded from the built-in dataset
	HolidayCustom  HolidaySource = "custom"  // added by the user
)

// Holiday is a non-working day. Disabled holidays stay in the list so a
// re-seed does not bring them back, but they are treated as ordinary days.
type Holiday struct {
	ID        string
	ProfileID string
	Date      TimePoint
	Name      string
	Enabled   bool
	Source    HolidaySource
}

// HolidayCalendar provides holiday lookup functionality.
type HolidayCalendar interface {
	// IsHoliday reports whether date is an enabled holiday.
	IsHoliday(date TimePoint) bool

	// GetHolidays returns all holidays in a calendar year.
	GetHolidays(year int) []Holiday
}

// =============================================================================
// TIME UTILITIES
// =============================================================================

func DaysBetween(from, to TimePoint) int { return int(to.Time.Sub(from.Time).Hours() / 24) }
func StartOfYear(year int) TimePoint     { return NewTimePoint(year, time.January, 1) }
func EndOfYear(year int) TimePoint       { return NewTimePoint(year, time.December, 31) }
func StartOfMonth(year int, month time.Month) TimePoint {
	return NewTimePoint(year, month, 1)
}
