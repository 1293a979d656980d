package vacation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/vacation-engine/generic"
)

func januaryGrantTerms(start string) terms {
	return newTerms(Config{
		EmploymentStart: generic.MustParseDate(start),
		ExtraGrantMonth: time.January,
		ExtraGrantCount: 5,
		TransferCap:     DefaultTransferCap,
	})
}

func TestBuildTimeline_OrderAndExpiries(t *testing.T) {
	// GIVEN: A January grant, so credits and an expiry share January 1
	tm := januaryGrantTerms("2025-09-01")

	// WHEN: Building the timeline through mid 2027
	events := buildTimeline(tm, generic.MustParseDate("2027-06-30"))

	// THEN: 22 monthly credits, 2 grants and one expiry per period
	counts := map[EventKind]int{}
	expiries := map[PeriodYear]int{}
	for _, e := range events {
		counts[e.Kind]++
		if e.Kind == EventExpiry {
			expiries[e.Period]++
			assert.Equal(t, e.Period.ExpiryDate(), e.At)
		}
	}
	assert.Equal(t, 22, counts[EventEarn])
	assert.Equal(t, 2, counts[EventExtra])
	assert.Equal(t, map[PeriodYear]int{2025: 1, 2026: 1}, expiries)

	// AND: Dates never go backwards and accruals precede expiry on a shared date
	for i := 1; i < len(events); i++ {
		prev, cur := events[i-1], events[i]
		require.False(t, cur.At.Before(prev.At), "event %d (%s) before event %d (%s)", i, cur.At, i-1, prev.At)
		if cur.At.Equal(prev.At) {
			assert.False(t, prev.Kind == EventExpiry && cur.Kind != EventExpiry,
				"%s on %s sorted after expiry", cur.Kind, cur.At)
		}
	}

	// AND: January 1 2027 credits period 2026 before period 2025 closes
	var newYear []Event
	for _, e := range events {
		if e.At.Equal(generic.MustParseDate("2027-01-01")) {
			newYear = append(newYear, e)
		}
	}
	require.Len(t, newYear, 3)
	assert.Equal(t, EventExpiry, newYear[2].Kind)
	assert.Equal(t, PeriodYear(2025), newYear[2].Period)
	for _, e := range newYear[:2] {
		assert.Equal(t, PeriodYear(2026), e.Period)
	}
}

func TestBuildTimeline_BoundedByStartAndThrough(t *testing.T) {
	// GIVEN: A mid-month start
	tm := januaryGrantTerms("2025-09-15")
	through := generic.MustParseDate("2025-12-31")

	// WHEN: Building the timeline for the first months only
	events := buildTimeline(tm, through)

	// THEN: Credits start at the start month and stop at through
	require.NotEmpty(t, events)
	assert.Equal(t, generic.MustParseDate("2025-09-01"), events[0].At)
	for _, e := range events {
		if e.Kind == EventExpiry {
			continue
		}
		assert.False(t, e.At.After(through), "credit on %s after %s", e.At, through)
		assert.Equal(t, EventEarn, e.Kind)
	}

	// AND: The open period still carries its expiry
	last := events[len(events)-1]
	assert.Equal(t, EventExpiry, last.Kind)
	assert.Equal(t, generic.MustParseDate("2027-01-01"), last.At)

	// AND: Nothing is produced before employment starts
	assert.Empty(t, buildTimeline(tm, generic.MustParseDate("2025-09-14")))
}
