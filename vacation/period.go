package vacation

import (
	"strconv"
	"time"

	"github.com/warp/vacation-engine/generic"
)

// vacationYear is a fiscal year starting September 1.
var vacationYear = generic.PeriodConfig{
	StartMonth: time.September,
}

// PeriodYear identifies a vacation period by the calendar year it starts in.
// It is its own type so it is never compared against a plain calendar year
// by accident.
type PeriodYear int

// HomePeriod returns the period whose obtain window contains date:
// September-December map to the same year, January-August to the year before.
func HomePeriod(date generic.TimePoint) PeriodYear {
	return PeriodYear(vacationYear.PeriodFor(date).Start.Year())
}

// ObtainWindow is Sep 1 p through Aug 31 p+1.
func (p PeriodYear) ObtainWindow() generic.Period {
	return vacationYear.PeriodStarting(int(p))
}

// UsableEnd is the last day entitlement from p may be taken: Dec 31 p+1.
func (p PeriodYear) UsableEnd() generic.TimePoint {
	return generic.EndOfYear(int(p) + 1)
}

// UsableWindow is Sep 1 p through Dec 31 p+1.
func (p PeriodYear) UsableWindow() generic.Period {
	return generic.Period{Start: p.ObtainWindow().Start, End: p.UsableEnd()}
}

// ExpiryDate is the day after the usable window closes: Jan 1 p+2.
func (p PeriodYear) ExpiryDate() generic.TimePoint {
	return generic.StartOfYear(int(p) + 2)
}

// Usable reports whether entitlement from p may be taken on d.
func (p PeriodYear) Usable(d generic.TimePoint) bool {
	return p.UsableWindow().Contains(generic.DateOf(d.Time))
}

func (p PeriodYear) Next() PeriodYear { return p + 1 }
func (p PeriodYear) Prev() PeriodYear { return p - 1 }

func (p PeriodYear) String() string {
	return strconv.Itoa(int(p)) + "/" + strconv.Itoa(int(p)+1)
}
