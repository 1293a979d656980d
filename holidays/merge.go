package holidays

import (
	"crypto/rand"
	"slices"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/warp/vacation-engine/generic"
)

// Merge returns the bundled holidays whose date is not yet in existing,
// tagged with profileID. Existing entries are never modified, so a bundled
// holiday the user disabled stays disabled.
func Merge(profileID string, existing, bundled []generic.Holiday) []generic.Holiday {
	seen := make(map[generic.TimePoint]bool, len(existing))
	for _, h := range existing {
		seen[h.Date] = true
	}

	var added []generic.Holiday
	for _, h := range bundled {
		if seen[h.Date] {
			continue
		}
		seen[h.Date] = true
		h.ProfileID = profileID
		added = append(added, h)
	}
	return added
}

// NewCustom builds a user-defined holiday with a fresh ULID.
func NewCustom(profileID string, date generic.TimePoint, name string) generic.Holiday {
	return generic.Holiday{
		ID:        NewID(),
		ProfileID: profileID,
		Date:      generic.DateOf(date.Time),
		Name:      name,
		Enabled:   true,
		Source:    generic.HolidayCustom,
	}
}

// NewID returns a new lexically sortable ID.
func NewID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// SortByDate orders holidays by date, then ID. Ties keep their input order.
func SortByDate(hs []generic.Holiday) {
	slices.SortStableFunc(hs, func(a, b generic.Holiday) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
}

// =============================================================================
// CALENDAR - generic.HolidayCalendar over a holiday list
// =============================================================================

// Calendar answers holiday lookups for a fixed list. Disabled holidays are
// ignored by IsHoliday but still returned by GetHolidays.
type Calendar struct {
	byDate map[generic.TimePoint][]generic.Holiday
}

// NewCalendar indexes hs by date.
func NewCalendar(hs []generic.Holiday) *Calendar {
	c := &Calendar{byDate: make(map[generic.TimePoint][]generic.Holiday, len(hs))}
	for _, h := range hs {
		d := generic.DateOf(h.Date.Time)
		c.byDate[d] = append(c.byDate[d], h)
	}
	return c
}

// DanishCalendar is a Calendar over the bundled dataset for [from, to].
func DanishCalendar(from, to int) *Calendar {
	return NewCalendar(DanishRange(from, to))
}

func (c *Calendar) IsHoliday(date generic.TimePoint) bool {
	for _, h := range c.byDate[generic.DateOf(date.Time)] {
		if h.Enabled {
			return true
		}
	}
	return false
}

func (c *Calendar) GetHolidays(year int) []generic.Holiday {
	var out []generic.Holiday
	for d, hs := range c.byDate {
		if d.Year() == year {
			out = append(out, hs...)
		}
	}
	SortByDate(out)
	return out
}

var _ generic.HolidayCalendar = (*Calendar)(nil)
