/*
Package holidays provides the bundled Danish public-holiday dataset and the
rules for merging it into a profile's holiday list.

DATASET:
  Fixed dates:   Nytårsdag, Grundlovsdag, Juleaftensdag, Juledag,
                 2. Juledag, Nytårsaftensdag
  Easter-based:  Skærtorsdag, Langfredag, Påskedag, 2. Påskedag,
                 Store Bededag (abolished after 2023), Kristi
                 Himmelfartsdag, Pinsedag, 2. Pinsedag

MERGING:
  Seeding is repeatable. Merge only adds bundled dates that are not in the
  list yet; it never re-enables a holiday the user switched off and never
  touches custom holidays.

SEE ALSO:
  - generic/time.go: Holiday and HolidayCalendar
  - vacation/classify.go: Enabled holidays are never consumed
*/
package holidays

import (
	"fmt"
	"time"

	"github.com/warp/vacation-engine/generic"
)

// lastStoreBededag is the last year Store Bededag was a public holiday.
const lastStoreBededag = 2023

type fixedHoliday struct {
	month time.Month
	day   int
	name  string
}

var fixed = []fixedHoliday{
	{time.January, 1, "Nytårsdag"},
	{time.June, 5, "Grundlovsdag"},
	{time.December, 24, "Juleaftensdag"},
	{time.December, 25, "Juledag"},
	{time.December, 26, "2. Juledag"},
	{time.December, 31, "Nytårsaftensdag"},
}

type easterHoliday struct {
	offset int // days from Easter Sunday
	name   string
}

var easterBased = []easterHoliday{
	{-3, "Skærtorsdag"},
	{-2, "Langfredag"},
	{0, "Påskedag"},
	{1, "2. Påskedag"},
	{26, "Store Bededag"},
	{39, "Kristi Himmelfartsdag"},
	{49, "Pinsedag"},
	{50, "2. Pinsedag"},
}

// Easter returns Easter Sunday for year (anonymous Gregorian algorithm).
func Easter(year int) generic.TimePoint {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return generic.NewTimePoint(year, time.Month(month), day)
}

// Danish returns the bundled holidays for year, ordered by date, all
// enabled and with deterministic IDs. Holidays sharing a date are listed
// once under a joined name, e.g. "Grundlovsdag / 2. Pinsedag" in 2028.
func Danish(year int) []generic.Holiday {
	easter := Easter(year)

	var out []generic.Holiday
	for _, f := range fixed {
		out = append(out, bundled(generic.NewTimePoint(year, f.month, f.day), f.name))
	}
	for _, e := range easterBased {
		if e.name == "Store Bededag" && year > lastStoreBededag {
			continue
		}
		out = append(out, bundled(easter.AddDays(e.offset), e.name))
	}
	SortByDate(out)
	return collapse(out)
}

// collapse merges neighbours on the same date. hs must be sorted.
func collapse(hs []generic.Holiday) []generic.Holiday {
	out := hs[:0]
	for _, h := range hs {
		if n := len(out); n > 0 && out[n-1].Date.Equal(h.Date) {
			out[n-1].Name += " / " + h.Name
			continue
		}
		out = append(out, h)
	}
	return out
}

// DanishRange returns the bundled holidays for every year in [from, to].
func DanishRange(from, to int) []generic.Holiday {
	var out []generic.Holiday
	for year := from; year <= to; year++ {
		out = append(out, Danish(year)...)
	}
	return out
}

// BundledID is the ID a bundled holiday gets, so re-seeding is idempotent.
func BundledID(date generic.TimePoint) string {
	return fmt.Sprintf("bundled-%s", date)
}

func bundled(date generic.TimePoint, name string) generic.Holiday {
	return generic.Holiday{
		ID:      BundledID(date),
		Date:    date,
		Name:    name,
		Enabled: true,
		Source:  generic.HolidayBundled,
	}
}
