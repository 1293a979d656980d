// Package memory provides an in-memory vacation.Store (for testing/dev).
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/warp/vacation-engine/generic"
	"github.com/warp/vacation-engine/holidays"
	"github.com/warp/vacation-engine/vacation"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Store struct {
	mu       sync.RWMutex
	profiles map[vacation.ProfileID]*entry
}

type entry struct {
	profile  vacation.Profile
	days     vacation.DateSet
	holidays map[string]generic.Holiday
}

var _ vacation.Store = (*Store)(nil)

func New() *Store {
	return &Store{profiles: make(map[vacation.ProfileID]*entry)}
}

func (m *Store) SaveProfile(_ context.Context, p vacation.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}
	if e, ok := m.profiles[p.ID]; ok {
		e.profile = p
		return nil
	}
	m.profiles[p.ID] = &entry{
		profile:  p,
		days:     vacation.NewDateSet(),
		holidays: make(map[string]generic.Holiday),
	}
	return nil
}

func (m *Store) GetProfile(_ context.Context, id vacation.ProfileID) (vacation.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, err := m.lookup(id)
	if err != nil {
		return vacation.Profile{}, err
	}
	return e.profile, nil
}

func (m *Store) ListProfiles(_ context.Context) ([]vacation.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]vacation.Profile, 0, len(m.profiles))
	for _, e := range m.profiles {
		out = append(out, e.profile)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Store) DeleteProfile(_ context.Context, id vacation.ProfileID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.lookup(id); err != nil {
		return err
	}
	delete(m.profiles, id)
	return nil
}

func (m *Store) AddDays(_ context.Context, id vacation.ProfileID, days []generic.TimePoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.lookup(id)
	if err != nil {
		return err
	}
	for _, d := range days {
		e.days.Add(d)
	}
	return nil
}

func (m *Store) RemoveDays(_ context.Context, id vacation.ProfileID, days []generic.TimePoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.lookup(id)
	if err != nil {
		return err
	}
	for _, d := range days {
		e.days.Remove(d)
	}
	return nil
}

func (m *Store) ListDays(_ context.Context, id vacation.ProfileID) ([]generic.TimePoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	return e.days.Sorted(), nil
}

func (m *Store) SaveHoliday(_ context.Context, h generic.Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.lookup(vacation.ProfileID(h.ProfileID))
	if err != nil {
		return err
	}
	h.Date = generic.DateOf(h.Date.Time)
	e.holidays[h.ID] = h
	return nil
}

func (m *Store) SetHolidayEnabled(_ context.Context, id vacation.ProfileID, holidayID string, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.lookup(id)
	if err != nil {
		return err
	}
	h, ok := e.holidays[holidayID]
	if !ok {
		return fmt.Errorf("%w: %s", generic.ErrHolidayNotFound, holidayID)
	}
	h.Enabled = enabled
	e.holidays[holidayID] = h
	return nil
}

func (m *Store) DeleteHoliday(_ context.Context, id vacation.ProfileID, holidayID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.lookup(id)
	if err != nil {
		return err
	}
	if _, ok := e.holidays[holidayID]; !ok {
		return fmt.Errorf("%w: %s", generic.ErrHolidayNotFound, holidayID)
	}
	delete(e.holidays, holidayID)
	return nil
}

func (m *Store) ListHolidays(_ context.Context, id vacation.ProfileID) ([]generic.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	out := make([]generic.Holiday, 0, len(e.holidays))
	for _, h := range e.holidays {
		out = append(out, h)
	}
	holidays.SortByDate(out)
	return out, nil
}

// ReplacePlan swaps in plan as a whole, dropping any stored plan with the
// same profile ID.
func (m *Store) ReplacePlan(_ context.Context, plan *vacation.Plan) error {
	e := &entry{
		profile:  plan.Profile,
		days:     vacation.NewDateSet(plan.Days.Sorted()...),
		holidays: make(map[string]generic.Holiday, len(plan.Holidays)),
	}
	if e.profile.UpdatedAt.IsZero() {
		e.profile.UpdatedAt = time.Now().UTC()
	}
	for _, h := range plan.Holidays {
		if h.ID == "" {
			return fmt.Errorf("%w: holiday on %s has no ID", generic.ErrInvalidPlan, h.Date)
		}
		h.ProfileID = string(plan.Profile.ID)
		h.Date = generic.DateOf(h.Date.Time)
		e.holidays[h.ID] = h
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[plan.Profile.ID] = e
	return nil
}

// lookup must be called with m.mu held.
func (m *Store) lookup(id vacation.ProfileID) (*entry, error) {
	e, ok := m.profiles[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", generic.ErrProfileNotFound, id)
	}
	return e, nil
}
