/*
accrual.go - Vacation accrual schedules

PURPOSE:
  Implements generic.AccrualSchedule for the two ways a period gains
  entitlement.

  MonthlyAccrual:
    - 2.08 days on the first of each month
    - A month is credited in full from day 1, including the month
      employment began even when that was mid-month

  AnnualGrant:
    - A fixed number of days on the first of one month each year
    - Only if that date is on or after employment start

Both schedules know nothing about periods. The timeline (timeline.go)
clips their [from, to] range to each period's obtain window.

EXAMPLE:
  monthly := &MonthlyAccrual{PerMonth: generic.Days(2.08)}
  events := monthly.GenerateAccruals(sep1, dec31)
  // 4 events: Sep 1, Oct 1, Nov 1, Dec 1
*/
package vacation

import (
	"time"

	"github.com/warp/vacation-engine/generic"
)

// MonthlyAccrual credits PerMonth on the first of every month in range.
type MonthlyAccrual struct {
	PerMonth generic.Amount
}

// GenerateAccruals returns one event per month start in [from, to].
func (ma *MonthlyAccrual) GenerateAccruals(from, to generic.TimePoint) []generic.AccrualEvent {
	var events []generic.AccrualEvent
	current := from.MonthStart()
	if current.Before(from) {
		current = current.AddMonths(1)
	}
	for current.BeforeOrEqual(to) {
		events = append(events, generic.AccrualEvent{
			At:     current,
			Amount: ma.PerMonth,
			Kind:   generic.AccrualEarn,
			Reason: "monthly accrual",
		})
		current = current.AddMonths(1)
	}
	return events
}

// AnnualGrant credits Amount on the first of Month every year, but never
// before NotBefore.
type AnnualGrant struct {
	Month     time.Month
	Amount    generic.Amount
	NotBefore generic.TimePoint
}

// GenerateAccruals returns the grant dates in [from, to].
func (ag *AnnualGrant) GenerateAccruals(from, to generic.TimePoint) []generic.AccrualEvent {
	if ag.Month < time.January || ag.Month > time.December || !ag.Amount.IsPositive() {
		return nil
	}
	var events []generic.AccrualEvent
	for year := from.Year(); year <= to.Year(); year++ {
		grantDate := generic.StartOfMonth(year, ag.Month)
		if grantDate.Before(ag.NotBefore) {
			continue
		}
		if from.BeforeOrEqual(grantDate) && grantDate.BeforeOrEqual(to) {
			events = append(events, generic.AccrualEvent{
				At:     grantDate,
				Amount: ag.Amount,
				Kind:   generic.AccrualGrant,
				Reason: "extra grant",
			})
		}
	}
	return events
}

var (
	_ generic.AccrualSchedule = (*MonthlyAccrual)(nil)
	_ generic.AccrualSchedule = (*AnnualGrant)(nil)
)
