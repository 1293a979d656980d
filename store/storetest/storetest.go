// Package storetest holds the behaviour every vacation.Store must share.
// Each implementation's tests call Run with a constructor.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/vacation-engine/generic"
	"github.com/warp/vacation-engine/holidays"
	"github.com/warp/vacation-engine/vacation"
)

var date = generic.MustParseDate

// Run exercises newStore against the vacation.Store contract. newStore must
// return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) vacation.Store) {
	t.Run("ProfileRoundTrip", func(t *testing.T) { testProfileRoundTrip(t, newStore(t)) })
	t.Run("UnknownProfile", func(t *testing.T) { testUnknownProfile(t, newStore(t)) })
	t.Run("DaysAreUnique", func(t *testing.T) { testDaysAreUnique(t, newStore(t)) })
	t.Run("Holidays", func(t *testing.T) { testHolidays(t, newStore(t)) })
	t.Run("DeleteCascades", func(t *testing.T) { testDeleteCascades(t, newStore(t)) })
	t.Run("LoadPlan", func(t *testing.T) { testLoadPlan(t, newStore(t)) })
	t.Run("ReplacePlan", func(t *testing.T) { testReplacePlan(t, newStore(t)) })
	t.Run("ReplacePlanIsAllOrNothing", func(t *testing.T) { testReplacePlanIsAllOrNothing(t, newStore(t)) })
}

func profile(id, name string) vacation.Profile {
	cfg := vacation.DefaultConfig(date("2025-09-01"))
	cfg.ExtraGrantCount = 5
	cfg.AdvanceDays = 2.5
	return vacation.Profile{
		ID:        vacation.ProfileID(id),
		Name:      name,
		Config:    cfg,
		UpdatedAt: time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC),
	}
}

func testProfileRoundTrip(t *testing.T, s vacation.Store) {
	ctx := context.Background()

	require.NoError(t, s.SaveProfile(ctx, profile("b", "Bo")))
	require.NoError(t, s.SaveProfile(ctx, profile("a", "Anna")))

	got, err := s.GetProfile(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Anna", got.Name)
	assert.Equal(t, profile("a", "Anna").Config, got.Config)

	// Saving again replaces the settings
	updated := profile("a", "Anna K")
	updated.Config.TransferCap = 3
	require.NoError(t, s.SaveProfile(ctx, updated))
	got, err = s.GetProfile(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Anna K", got.Name)
	assert.Equal(t, 3.0, got.Config.TransferCap)

	list, err := s.ListProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, vacation.ProfileID("a"), list[0].ID)
	assert.Equal(t, vacation.ProfileID("b"), list[1].ID)
}

func testUnknownProfile(t *testing.T, s vacation.Store) {
	ctx := context.Background()

	_, err := s.GetProfile(ctx, "ghost")
	assert.True(t, errors.Is(err, generic.ErrProfileNotFound), "GetProfile: %v", err)

	err = s.AddDays(ctx, "ghost", []generic.TimePoint{date("2025-10-01")})
	assert.True(t, errors.Is(err, generic.ErrProfileNotFound), "AddDays: %v", err)

	_, err = s.ListDays(ctx, "ghost")
	assert.True(t, errors.Is(err, generic.ErrProfileNotFound), "ListDays: %v", err)

	err = s.SaveHoliday(ctx, holidays.NewCustom("ghost", date("2025-10-01"), "x"))
	assert.True(t, errors.Is(err, generic.ErrProfileNotFound), "SaveHoliday: %v", err)

	err = s.DeleteProfile(ctx, "ghost")
	assert.True(t, errors.Is(err, generic.ErrProfileNotFound), "DeleteProfile: %v", err)
}

func testDaysAreUnique(t *testing.T, s vacation.Store) {
	// GIVEN: A profile with two taken days
	ctx := context.Background()
	require.NoError(t, s.SaveProfile(ctx, profile("a", "Anna")))
	require.NoError(t, s.AddDays(ctx, "a", []generic.TimePoint{date("2025-10-14"), date("2025-10-13")}))

	// WHEN: One of them is added again, and a third removed that was never taken
	require.NoError(t, s.AddDays(ctx, "a", []generic.TimePoint{date("2025-10-13")}))
	require.NoError(t, s.RemoveDays(ctx, "a", []generic.TimePoint{date("2025-12-01")}))

	// THEN: Still two days, ascending
	days, err := s.ListDays(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []generic.TimePoint{date("2025-10-13"), date("2025-10-14")}, days)

	require.NoError(t, s.RemoveDays(ctx, "a", []generic.TimePoint{date("2025-10-13")}))
	days, err = s.ListDays(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []generic.TimePoint{date("2025-10-14")}, days)
}

func testHolidays(t *testing.T, s vacation.Store) {
	ctx := context.Background()
	require.NoError(t, s.SaveProfile(ctx, profile("a", "Anna")))
	require.NoError(t, s.SaveProfile(ctx, profile("b", "Bo")))

	// Bundled IDs repeat across profiles
	for _, h := range holidays.Merge("a", nil, holidays.Danish(2025)) {
		require.NoError(t, s.SaveHoliday(ctx, h))
	}
	for _, h := range holidays.Merge("b", nil, holidays.Danish(2025)) {
		require.NoError(t, s.SaveHoliday(ctx, h))
	}
	custom := holidays.NewCustom("a", date("2025-11-14"), "Company day")
	require.NoError(t, s.SaveHoliday(ctx, custom))

	list, err := s.ListHolidays(ctx, "a")
	require.NoError(t, err)
	require.Len(t, list, 14)
	assert.Equal(t, date("2025-01-01"), list[0].Date)
	for i := 1; i < len(list); i++ {
		assert.False(t, list[i].Date.Before(list[i-1].Date), "holidays must be ordered by date")
	}

	xmasEve := holidays.BundledID(date("2025-12-24"))
	require.NoError(t, s.SetHolidayEnabled(ctx, "a", xmasEve, false))
	require.NoError(t, s.DeleteHoliday(ctx, "a", custom.ID))

	list, err = s.ListHolidays(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, list, 13)
	cal := holidays.NewCalendar(list)
	assert.False(t, cal.IsHoliday(date("2025-12-24")))
	assert.False(t, cal.IsHoliday(date("2025-11-14")))

	// Profile b is untouched
	other, err := s.ListHolidays(ctx, "b")
	require.NoError(t, err)
	assert.True(t, holidays.NewCalendar(other).IsHoliday(date("2025-12-24")))

	err = s.DeleteHoliday(ctx, "a", custom.ID)
	assert.True(t, errors.Is(err, generic.ErrHolidayNotFound), "DeleteHoliday: %v", err)
	err = s.SetHolidayEnabled(ctx, "a", "nope", true)
	assert.True(t, errors.Is(err, generic.ErrHolidayNotFound), "SetHolidayEnabled: %v", err)
}

func testDeleteCascades(t *testing.T, s vacation.Store) {
	ctx := context.Background()
	require.NoError(t, s.SaveProfile(ctx, profile("a", "Anna")))
	require.NoError(t, s.AddDays(ctx, "a", []generic.TimePoint{date("2025-10-13")}))
	require.NoError(t, s.SaveHoliday(ctx, holidays.NewCustom("a", date("2025-11-14"), "x")))

	require.NoError(t, s.DeleteProfile(ctx, "a"))

	// Recreating the profile starts empty
	require.NoError(t, s.SaveProfile(ctx, profile("a", "Anna")))
	days, err := s.ListDays(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, days)
	hs, err := s.ListHolidays(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, hs)
}

func testLoadPlan(t *testing.T, s vacation.Store) {
	// GIVEN: A profile with a taken day that is also an enabled holiday
	ctx := context.Background()
	require.NoError(t, s.SaveProfile(ctx, profile("a", "Anna")))
	require.NoError(t, s.AddDays(ctx, "a", []generic.TimePoint{date("2025-12-24"), date("2025-12-22")}))
	for _, h := range holidays.Merge("a", nil, holidays.Danish(2025)) {
		require.NoError(t, s.SaveHoliday(ctx, h))
	}

	// WHEN: Loading the plan
	plan, err := vacation.LoadPlan(ctx, s, "a")
	require.NoError(t, err)

	// THEN: The holiday is not consumed
	assert.Equal(t, 2, plan.Days.Len())
	assert.Equal(t, []generic.TimePoint{date("2025-12-22")}, plan.Consumed().Sorted())

	statuses := plan.Classify(date("2025-12-22"), date("2025-12-24"))
	assert.Equal(t, vacation.StatusSelectedOK, statuses[date("2025-12-22")])
	assert.Equal(t, vacation.StatusNormal, statuses[date("2025-12-23")])
	assert.Equal(t, vacation.StatusHoliday, statuses[date("2025-12-24")])

	_, err = vacation.LoadPlan(ctx, s, "ghost")
	assert.True(t, errors.Is(err, generic.ErrProfileNotFound))
}

func testReplacePlan(t *testing.T, s vacation.Store) {
	// GIVEN: A stored plan with a day and a custom holiday
	ctx := context.Background()
	require.NoError(t, s.SaveProfile(ctx, profile("a", "Anna")))
	require.NoError(t, s.AddDays(ctx, "a", []generic.TimePoint{date("2025-10-13")}))
	require.NoError(t, s.SaveHoliday(ctx, holidays.NewCustom("a", date("2025-11-14"), "Company day")))

	// WHEN: Replacing it with a plan whose holidays belong to another profile ID
	replacement := &vacation.Plan{
		Profile:  profile("a", "Anna K"),
		Days:     vacation.NewDateSet(date("2026-02-02"), date("2026-02-03")),
		Holidays: holidays.Danish(2026),
	}
	for i := range replacement.Holidays {
		replacement.Holidays[i].ProfileID = "someone-else"
	}
	require.NoError(t, s.ReplacePlan(ctx, replacement))

	// THEN: Only the new plan is left, owned by "a"
	plan, err := vacation.LoadPlan(ctx, s, "a")
	require.NoError(t, err)
	assert.Equal(t, "Anna K", plan.Profile.Name)
	assert.Equal(t, []generic.TimePoint{date("2026-02-02"), date("2026-02-03")}, plan.Days.Sorted())
	require.Len(t, plan.Holidays, 13)
	for _, h := range plan.Holidays {
		assert.Equal(t, "a", h.ProfileID)
		assert.Equal(t, generic.HolidayBundled, h.Source)
	}

	// AND: A fresh ID is created
	fresh := &vacation.Plan{Profile: profile("new", "Nina"), Days: vacation.NewDateSet()}
	require.NoError(t, s.ReplacePlan(ctx, fresh))
	got, err := s.GetProfile(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, "Nina", got.Name)
}

func testReplacePlanIsAllOrNothing(t *testing.T, s vacation.Store) {
	// GIVEN: A stored plan
	ctx := context.Background()
	require.NoError(t, s.SaveProfile(ctx, profile("a", "Anna")))
	require.NoError(t, s.AddDays(ctx, "a", []generic.TimePoint{date("2025-10-13")}))

	// WHEN: The replacement fails on its last holiday
	broken := &vacation.Plan{
		Profile:  profile("a", "Anna K"),
		Days:     vacation.NewDateSet(date("2026-02-02")),
		Holidays: append(holidays.Danish(2026), generic.Holiday{Date: date("2026-11-13"), Name: "No ID"}),
	}
	err := s.ReplacePlan(ctx, broken)

	// THEN: The error is a client error and the old plan is untouched
	assert.True(t, errors.Is(err, generic.ErrInvalidPlan), "ReplacePlan: %v", err)
	plan, err := vacation.LoadPlan(ctx, s, "a")
	require.NoError(t, err)
	assert.Equal(t, "Anna", plan.Profile.Name)
	assert.Equal(t, []generic.TimePoint{date("2025-10-13")}, plan.Days.Sorted())
	assert.Empty(t, plan.Holidays)
}
