/*
handlers_test.go - Tests for the HTTP API

Tests for:
- Profile create/read/delete and validation errors
- Days and holidays round trips through the router
- Calendar and ledger results, including caching
- Import/export of plan documents
- Holiday seeding keeps user choices
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/warp/vacation-engine/generic"
	"github.com/warp/vacation-engine/holidays"
	"github.com/warp/vacation-engine/store/memory"
	"github.com/warp/vacation-engine/vacation"
)

type testServer struct {
	store   *memory.Store
	handler *Handler
	router  http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.New()
	h := NewHandler(store, NewResultCache(time.Minute, time.Minute), zap.NewNop())
	h.Now = func() time.Time { return time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC) }
	return &testServer{store: store, handler: h, router: NewRouter(h, nil)}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (ts *testServer) createProfile(t *testing.T, id string, settings SettingsDTO) {
	t.Helper()
	rec := ts.do(t, http.MethodPut, "/api/profiles/"+id, SaveProfileRequest{Name: "Anna", Settings: settings})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func defaultSettings() SettingsDTO {
	return SettingsDTO{EmploymentStartDate: "2025-09-01"}
}

func TestProfileLifecycle(t *testing.T) {
	ts := newTestServer(t)

	// GIVEN: A profile saved with defaults
	ts.createProfile(t, "anna", defaultSettings())

	// WHEN: Reading it back
	rec := ts.do(t, http.MethodGet, "/api/profiles/anna", nil)

	// THEN: Defaults were filled in
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[ProfileDTO](t, rec)
	assert.Equal(t, "Anna", p.Name)
	assert.Equal(t, 5, p.Settings.ExtraGrantMonth)
	require.NotNil(t, p.Settings.TransferCap)
	assert.Equal(t, 5.0, *p.Settings.TransferCap)

	list := decode[[]ProfileDTO](t, ts.do(t, http.MethodGet, "/api/profiles", nil))
	assert.Len(t, list, 1)

	// WHEN: Deleting it
	rec = ts.do(t, http.MethodDelete, "/api/profiles/anna", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// THEN: It is gone
	rec = ts.do(t, http.MethodGet, "/api/profiles/anna", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaveProfile_InvalidSettings(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name     string
		settings SettingsDTO
	}{
		{"missing start", SettingsDTO{}},
		{"negative initial", SettingsDTO{EmploymentStartDate: "2025-09-01", InitialDays: -1}},
		{"bad month", SettingsDTO{EmploymentStartDate: "2025-09-01", ExtraGrantMonth: 13, ExtraGrantCount: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPut, "/api/profiles/x", SaveProfileRequest{Settings: tt.settings})
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decode[ErrorResponse](t, rec)
			assert.Contains(t, resp.Details, "invalid configuration")
		})
	}

	rec := ts.do(t, http.MethodPut, "/api/profiles/x", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDays(t *testing.T) {
	ts := newTestServer(t)
	ts.createProfile(t, "anna", defaultSettings())

	// GIVEN: Two days added, one twice
	rec := ts.do(t, http.MethodPost, "/api/profiles/anna/days", DaysRequest{Dates: []string{"2025-10-14", "2025-10-13", "2025-10-14"}})
	require.Equal(t, http.StatusCreated, rec.Code)

	// THEN: They are stored once, ascending
	assert.Equal(t, []string{"2025-10-13", "2025-10-14"}, decode[DaysResponse](t, rec).Dates)

	// WHEN: Removing one
	rec = ts.do(t, http.MethodDelete, "/api/profiles/anna/days/2025-10-13", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	days := decode[DaysResponse](t, ts.do(t, http.MethodGet, "/api/profiles/anna/days", nil))
	assert.Equal(t, []string{"2025-10-14"}, days.Dates)

	// Bad input and unknown profiles
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, "/api/profiles/anna/days", DaysRequest{Dates: []string{"14/10/2025"}}).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodPost, "/api/profiles/nobody/days", DaysRequest{Dates: []string{"2025-10-14"}}).Code)
}

func TestHolidays_SeedKeepsDisabled(t *testing.T) {
	ts := newTestServer(t)
	ts.createProfile(t, "anna", defaultSettings())

	// GIVEN: Bundled holidays seeded for 2025
	rec := ts.do(t, http.MethodPost, "/api/profiles/anna/holidays/defaults?from=2025&to=2025", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.EqualValues(t, 13, decode[map[string]any](t, rec)["count"])

	// WHEN: Christmas Eve is switched off and the seed runs again
	id := holidays.BundledID(generic.MustParseDate("2025-12-24"))
	rec = ts.do(t, http.MethodPut, "/api/profiles/anna/holidays/"+id, map[string]bool{"enabled": false})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/profiles/anna/holidays/defaults?from=2025&to=2025", nil)
	assert.EqualValues(t, 0, decode[map[string]any](t, rec)["count"])

	// THEN: It stays off
	list := decode[[]HolidayDTO](t, ts.do(t, http.MethodGet, "/api/profiles/anna/holidays", nil))
	require.Len(t, list, 13)
	for _, h := range list {
		if h.ID == id {
			assert.False(t, h.Enabled)
		}
	}

	// Unknown holiday and invalid year range
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodDelete, "/api/profiles/anna/holidays/nope", nil).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, "/api/profiles/anna/holidays/defaults?from=2026&to=2025", nil).Code)
}

func TestHolidays_Custom(t *testing.T) {
	ts := newTestServer(t)
	ts.createProfile(t, "anna", defaultSettings())

	rec := ts.do(t, http.MethodPost, "/api/profiles/anna/holidays", CreateHolidayRequest{Date: "2025-11-07", Name: "Company day"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[HolidayDTO](t, rec)
	assert.Equal(t, "custom", created.Source)
	assert.True(t, created.Enabled)

	rec = ts.do(t, http.MethodDelete, "/api/profiles/anna/holidays/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, "/api/profiles/anna/holidays", CreateHolidayRequest{Date: "2025-11-07"}).Code)
}

func TestCalendar(t *testing.T) {
	ts := newTestServer(t)
	ts.createProfile(t, "anna", defaultSettings())
	ts.do(t, http.MethodPost, "/api/profiles/anna/days", DaysRequest{Dates: []string{"2025-09-01", "2025-09-02", "2025-09-03", "2025-10-01"}})

	// WHEN: Classifying September and October
	rec := ts.do(t, http.MethodGet, "/api/profiles/anna/calendar?from=2025-08-31&to=2025-10-05", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cal := decode[CalendarResponse](t, rec)

	// THEN: Three days into the job the balance is 2.08 - 3 = -0.92
	assert.Equal(t, vacation.StatusBeforeStart, cal.Statuses["2025-08-31"])
	assert.Equal(t, vacation.StatusSelectedOK, cal.Statuses["2025-09-01"])
	assert.Equal(t, vacation.StatusSelectedOK, cal.Statuses["2025-09-02"])
	assert.Equal(t, vacation.StatusSelectedOverdrawn, cal.Statuses["2025-09-03"])
	assert.Equal(t, vacation.StatusWeekend, cal.Statuses["2025-09-06"])
	assert.Equal(t, vacation.StatusNormal, cal.Statuses["2025-09-04"])
	assert.Len(t, cal.Statuses, 36)

	// AND: The second request is served from the cache
	assert.Equal(t, 1, ts.handler.Cache.Len())
	ts.do(t, http.MethodGet, "/api/profiles/anna/calendar?from=2025-08-31&to=2025-10-05", nil)
	assert.Equal(t, 1, ts.handler.Cache.Len())

	// Invalid ranges
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/profiles/anna/calendar?from=2025-10-05&to=2025-10-01", nil).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/profiles/anna/calendar?from=2020-01-01&to=2025-10-01", nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/profiles/nobody/calendar", nil).Code)
}

func TestCalendar_CacheSeesEdits(t *testing.T) {
	ts := newTestServer(t)
	ts.createProfile(t, "anna", defaultSettings())
	path := "/api/profiles/anna/calendar?from=2025-09-01&to=2025-09-05"

	before := decode[CalendarResponse](t, ts.do(t, http.MethodGet, path, nil))
	assert.Equal(t, vacation.StatusNormal, before.Statuses["2025-09-02"])

	ts.do(t, http.MethodPost, "/api/profiles/anna/days", DaysRequest{Dates: []string{"2025-09-02"}})

	after := decode[CalendarResponse](t, ts.do(t, http.MethodGet, path, nil))
	assert.Equal(t, vacation.StatusSelectedOK, after.Statuses["2025-09-02"])
}

func TestCalendar_UnencodableSettingsSkipCache(t *testing.T) {
	// GIVEN: Settings that cannot be encoded, written past validation
	ts := newTestServer(t)
	cfg := vacation.DefaultConfig(generic.MustParseDate("2025-09-01"))
	cfg.AdvanceDays = math.NaN()
	require.NoError(t, ts.store.SaveProfile(context.Background(), vacation.Profile{ID: "odd", Config: cfg}))
	plan, err := vacation.LoadPlan(context.Background(), ts.store, "odd")
	require.NoError(t, err)
	assert.Empty(t, planKey(plan, "calendar"))

	// WHEN: Asking for the calendar twice
	path := "/api/profiles/odd/calendar?from=2025-09-01&to=2025-09-05"
	first := ts.do(t, http.MethodGet, path, nil)
	second := ts.do(t, http.MethodGet, path, nil)

	// THEN: Both are answered and nothing is cached under a shared key
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Zero(t, ts.handler.Cache.Len())
}

func TestLedgersAndSummary(t *testing.T) {
	ts := newTestServer(t)
	ts.createProfile(t, "anna", defaultSettings())

	// WHEN: Snapshotting at New Year
	rec := ts.do(t, http.MethodGet, "/api/profiles/anna/ledgers?as_of=2026-01-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[LedgersResponse](t, rec)

	// THEN: Four months have been earned
	require.Len(t, resp.Ledgers, 1)
	assert.Equal(t, "2025/2026", resp.Ledgers[0].Period)
	assert.InDelta(t, 8.32, resp.Ledgers[0].Earned, 1e-9)
	assert.InDelta(t, 8.32, resp.TotalBalance, 1e-9)

	// WHEN: Asking for the December summary
	rec = ts.do(t, http.MethodGet, "/api/profiles/anna/summary?year=2025&month=12", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sum := decode[SummaryResponse](t, rec)

	// THEN: It is the same snapshot
	assert.Equal(t, "2026-01-01", sum.AsOf)
	assert.InDelta(t, 8.32, sum.TotalBalance, 1e-9)

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/profiles/anna/summary?month=13", nil).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/profiles/anna/ledgers?as_of=soon", nil).Code)
}

func TestExportImport(t *testing.T) {
	ts := newTestServer(t)
	ts.createProfile(t, "anna", SettingsDTO{EmploymentStartDate: "2025-09-01", InitialDays: 3, AdvanceDays: 2})
	ts.do(t, http.MethodPost, "/api/profiles/anna/days", DaysRequest{Dates: []string{"2025-10-13"}})
	ts.do(t, http.MethodPost, "/api/profiles/anna/holidays", CreateHolidayRequest{Date: "2025-11-07", Name: "Company day"})

	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			// GIVEN: An exported plan
			rec := ts.do(t, http.MethodGet, "/api/profiles/anna/export?format="+format, nil)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), format)

			// WHEN: Importing it under a new ID
			rec = ts.do(t, http.MethodPost, "/api/profiles/copy/import?format="+format, rec.Body.String())
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

			// THEN: The copy evaluates identically
			orig := decode[LedgersResponse](t, ts.do(t, http.MethodGet, "/api/profiles/anna/ledgers?as_of=2026-03-01", nil))
			cp := decode[LedgersResponse](t, ts.do(t, http.MethodGet, "/api/profiles/copy/ledgers?as_of=2026-03-01", nil))
			assert.Equal(t, orig, cp)

			hs, err := ts.store.ListHolidays(context.Background(), "copy")
			require.NoError(t, err)
			require.Len(t, hs, 1)
			assert.Equal(t, "copy", hs[0].ProfileID)
		})
	}

	rec := ts.do(t, http.MethodPost, "/api/profiles/copy/import", `{"version": 1, "settings": {"employment_start_date": "nope"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImport_ReplacesExistingPlan(t *testing.T) {
	// GIVEN: A profile with a taken day and a custom holiday
	ts := newTestServer(t)
	ts.createProfile(t, "anna", defaultSettings())
	ts.do(t, http.MethodPost, "/api/profiles/anna/days", DaysRequest{Dates: []string{"2025-10-13"}})
	ts.do(t, http.MethodPost, "/api/profiles/anna/holidays", CreateHolidayRequest{Date: "2025-11-07", Name: "Company day"})

	// WHEN: Importing a document over it
	doc := `{"version": 1, "profile": {"name": "Anna K"},
		"settings": {"employment_start_date": "2025-09-01"},
		"selected_days": ["2026-02-02"]}`
	rec := ts.do(t, http.MethodPost, "/api/profiles/anna/import", doc)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// THEN: Only the imported content remains
	plan, err := vacation.LoadPlan(context.Background(), ts.store, "anna")
	require.NoError(t, err)
	assert.Equal(t, "Anna K", plan.Profile.Name)
	assert.Equal(t, []generic.TimePoint{generic.MustParseDate("2026-02-02")}, plan.Days.Sorted())
	assert.Empty(t, plan.Holidays)
}

func TestHolidaySeeder(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	cfg := vacation.DefaultConfig(generic.MustParseDate("2025-09-01"))
	require.NoError(t, store.SaveProfile(ctx, vacation.Profile{ID: "a", Config: cfg}))
	require.NoError(t, store.SaveProfile(ctx, vacation.Profile{ID: "b", Config: cfg}))

	seeder := NewHolidaySeeder(store, zap.NewNop())
	seeder.Now = func() time.Time { return time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC) }

	// WHEN: Seeding twice
	first := seeder.SeedAll(ctx)
	second := seeder.SeedAll(ctx)

	// THEN: 2025 and 2026 are added once per profile
	assert.Equal(t, 2*(13+13), first)
	assert.Zero(t, second)

	hs, err := store.ListHolidays(ctx, "b")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hs[0].ID, "bundled-2025-01-01"))
}

func TestHolidaySeeder_StartStop(t *testing.T) {
	seeder := NewHolidaySeeder(memory.New(), nil)
	seeder.CheckInterval = time.Hour
	seeder.Start()
	seeder.Stop()
	seeder.Stop()

	seeder.CheckInterval = 0
	seeder.Start()
	seeder.Stop()
}
