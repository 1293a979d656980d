/*
store.go - Persistence interface for vacation plans

PURPOSE:
  The engine is pure; callers own persistence. This file defines what a
  stored plan looks like and the interface both the SQLite and in-memory
  stores implement.

A PLAN CONSISTS OF:
  - Profile:  settings for one employee (Config plus a display name)
  - Days:     the set of days marked as taken
  - Holidays: bundled and custom holidays, each individually switchable

UNIQUENESS:
  A day is stored at most once per profile; adding it again is a no-op.
  Holidays are keyed by ID and upserted.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - store/memory/memory.go: In-memory for tests and the CLI

SEE ALSO:
  - api/handlers.go: HTTP surface over the store
  - factory/plan.go: Import/export documents
*/
package vacation

import (
	"context"
	"time"

	"github.com/warp/vacation-engine/generic"
)

// ProfileID identifies a stored plan.
type ProfileID string

// Profile is one employee's stored settings.
type Profile struct {
	ID        ProfileID `json:"id"`
	Name      string    `json:"name"`
	Config    Config    `json:"settings"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists profiles, taken days and holidays.
type Store interface {
	// SaveProfile creates or replaces a profile.
	SaveProfile(ctx context.Context, p Profile) error
	// GetProfile returns generic.ErrProfileNotFound for unknown IDs.
	GetProfile(ctx context.Context, id ProfileID) (Profile, error)
	ListProfiles(ctx context.Context) ([]Profile, error)
	// DeleteProfile removes the profile with its days and holidays.
	DeleteProfile(ctx context.Context, id ProfileID) error

	AddDays(ctx context.Context, id ProfileID, days []generic.TimePoint) error
	RemoveDays(ctx context.Context, id ProfileID, days []generic.TimePoint) error
	// ListDays returns the taken days in ascending order.
	ListDays(ctx context.Context, id ProfileID) ([]generic.TimePoint, error)

	// SaveHoliday inserts or replaces a holiday by ID.
	SaveHoliday(ctx context.Context, h generic.Holiday) error
	SetHolidayEnabled(ctx context.Context, id ProfileID, holidayID string, enabled bool) error
	// DeleteHoliday returns generic.ErrHolidayNotFound for unknown IDs.
	DeleteHoliday(ctx context.Context, id ProfileID, holidayID string) error
	// ListHolidays returns holidays ordered by date.
	ListHolidays(ctx context.Context, id ProfileID) ([]generic.Holiday, error)

	// ReplacePlan stores plan as a whole, replacing any plan with the same
	// profile ID. Either all of it is written or nothing changes.
	ReplacePlan(ctx context.Context, plan *Plan) error
}

// Plan is everything the engine needs for one profile.
type Plan struct {
	Profile  Profile
	Days     DateSet
	Holidays []generic.Holiday
}

// LoadPlan reads a full plan from the store.
func LoadPlan(ctx context.Context, s Store, id ProfileID) (*Plan, error) {
	profile, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	days, err := s.ListDays(ctx, id)
	if err != nil {
		return nil, err
	}
	holidays, err := s.ListHolidays(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Plan{Profile: profile, Days: NewDateSet(days...), Holidays: holidays}, nil
}

// EnabledHolidays returns the dates of holidays that are switched on.
func (p *Plan) EnabledHolidays() DateSet {
	out := NewDateSet()
	for _, h := range p.Holidays {
		if h.Enabled {
			out.Add(h.Date)
		}
	}
	return out
}

// Consumed returns the taken days that are not enabled holidays.
func (p *Plan) Consumed() DateSet {
	return p.Days.Without(p.EnabledHolidays())
}

// Classify runs ClassifyDates for every day in [from, to].
func (p *Plan) Classify(from, to generic.TimePoint) map[generic.TimePoint]Status {
	return ClassifyDates(DateRange(from, to), p.Days, p.EnabledHolidays(), p.Profile.Config)
}

// Snapshot runs SnapshotLedgers at asOf.
func (p *Plan) Snapshot(asOf generic.TimePoint) []Ledger {
	return SnapshotLedgers(p.Profile.Config, p.Consumed(), asOf)
}

// Through runs LedgersThrough for the end of day.
func (p *Plan) Through(day generic.TimePoint) []Ledger {
	return LedgersThrough(p.Profile.Config, p.Consumed(), day)
}
