/*
handlers.go - HTTP API handlers for vacation plans

PURPOSE:
  Exposes stored plans and the vacation engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the store and to
  vacation.ClassifyDates / vacation.SnapshotLedgers.

ENDPOINTS:
  Profiles:
    GET    /api/profiles                         List all profiles
    GET    /api/profiles/{id}                    Get one profile
    PUT    /api/profiles/{id}                    Create or update settings
    DELETE /api/profiles/{id}                    Delete profile, days and holidays

  Days:
    GET    /api/profiles/{id}/days               Taken days, ascending
    POST   /api/profiles/{id}/days               Add {dates:[...]}
    DELETE /api/profiles/{id}/days/{date}        Remove one day

  Holidays:
    GET    /api/profiles/{id}/holidays           List by date
    POST   /api/profiles/{id}/holidays           Add a custom holiday
    POST   /api/profiles/{id}/holidays/defaults  Merge bundled holidays (?from=Y&to=Y)
    PUT    /api/profiles/{id}/holidays/{hid}     Switch {enabled}
    DELETE /api/profiles/{id}/holidays/{hid}     Remove

  Results:
    GET    /api/profiles/{id}/calendar?from=&to= Status per day
    GET    /api/profiles/{id}/ledgers?as_of=     Balance snapshot
    GET    /api/profiles/{id}/summary?year=&month= Balance at month end

  Documents:
    GET    /api/profiles/{id}/export?format=     Plan document (json|yaml)
    POST   /api/profiles/{id}/import?format=     Replace plan from document

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid settings, dates or documents (generic.IsClientError)
  - 404: Unknown profile or holiday (generic.IsNotFound)
  - 500: Internal errors (logged)

SEE ALSO:
  - dto.go: Request/response data structures
  - cache.go: Result cache for calendar and ledgers
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/warp/vacation-engine/factory"
	"github.com/warp/vacation-engine/generic"
	"github.com/warp/vacation-engine/holidays"
	"github.com/warp/vacation-engine/vacation"
)

const (
	// maxCalendarDays bounds a single calendar request.
	maxCalendarDays = 3 * 366
	maxDocumentSize = 1 << 20
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  vacation.Store
	Plans  *factory.PlanFactory
	Cache  *ResultCache
	Logger *zap.Logger
	// Now supplies "today" for default query values.
	Now func() time.Time
}

// NewHandler creates a new handler with the given store. cache may be nil.
func NewHandler(store vacation.Store, cache *ResultCache, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Store:  store,
		Plans:  factory.NewPlanFactory(),
		Cache:  cache,
		Logger: logger,
		Now:    time.Now,
	}
}

func (h *Handler) today() generic.TimePoint {
	return generic.DateOf(h.Now())
}

func profileID(r *http.Request) vacation.ProfileID {
	return vacation.ProfileID(chi.URLParam(r, "id"))
}

// =============================================================================
// PROFILE HANDLERS
// =============================================================================

// ListProfiles returns all profiles.
func (h *Handler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.Store.ListProfiles(r.Context())
	if err != nil {
		h.fail(w, "list_profiles", "Failed to list profiles", err)
		return
	}

	dtos := make([]ProfileDTO, len(profiles))
	for i, p := range profiles {
		dtos[i] = toProfileDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetProfile returns one profile.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.Store.GetProfile(r.Context(), profileID(r))
	if err != nil {
		h.fail(w, "get_profile", "Failed to get profile", err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileDTO(p))
}

// SaveProfile creates or replaces a profile's name and settings.
// PUT /api/profiles/{id}
func (h *Handler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	var req SaveProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	cfg, err := req.Settings.toConfig()
	if err != nil {
		h.fail(w, "save_profile", "Invalid settings", err)
		return
	}

	p := vacation.Profile{
		ID:        profileID(r),
		Name:      req.Name,
		Config:    cfg,
		UpdatedAt: h.Now().UTC(),
	}
	if err := h.Store.SaveProfile(r.Context(), p); err != nil {
		h.fail(w, "save_profile", "Failed to save profile", err)
		return
	}

	h.Logger.Info("profile saved", zap.String("profile", string(p.ID)))
	writeJSON(w, http.StatusOK, toProfileDTO(p))
}

// DeleteProfile removes a profile with its days and holidays.
func (h *Handler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteProfile(r.Context(), profileID(r)); err != nil {
		h.fail(w, "delete_profile", "Failed to delete profile", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// DAY HANDLERS
// =============================================================================

// ListDays returns the taken days.
func (h *Handler) ListDays(w http.ResponseWriter, r *http.Request) {
	days, err := h.Store.ListDays(r.Context(), profileID(r))
	if err != nil {
		h.fail(w, "list_days", "Failed to list days", err)
		return
	}
	writeJSON(w, http.StatusOK, toDaysResponse(days))
}

// AddDays marks days as taken. Days already taken are left alone.
// POST /api/profiles/{id}/days
func (h *Handler) AddDays(w http.ResponseWriter, r *http.Request) {
	var req DaysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	days := make([]generic.TimePoint, 0, len(req.Dates))
	for _, s := range req.Dates {
		d, err := generic.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date", err)
			return
		}
		days = append(days, d)
	}

	ctx := r.Context()
	id := profileID(r)
	if err := h.Store.AddDays(ctx, id, days); err != nil {
		h.fail(w, "add_days", "Failed to add days", err)
		return
	}
	all, err := h.Store.ListDays(ctx, id)
	if err != nil {
		h.fail(w, "add_days", "Failed to list days", err)
		return
	}
	writeJSON(w, http.StatusCreated, toDaysResponse(all))
}

// RemoveDay un-marks one day.
// DELETE /api/profiles/{id}/days/{date}
func (h *Handler) RemoveDay(w http.ResponseWriter, r *http.Request) {
	d, err := generic.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}
	if err := h.Store.RemoveDays(r.Context(), profileID(r), []generic.TimePoint{d}); err != nil {
		h.fail(w, "remove_day", "Failed to remove day", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toDaysResponse(days []generic.TimePoint) DaysResponse {
	resp := DaysResponse{Dates: make([]string, len(days))}
	for i, d := range days {
		resp.Dates[i] = d.String()
	}
	return resp
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns a profile's holidays ordered by date.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	hs, err := h.Store.ListHolidays(r.Context(), profileID(r))
	if err != nil {
		h.fail(w, "list_holidays", "Failed to list holidays", err)
		return
	}

	dtos := make([]HolidayDTO, len(hs))
	for i, hol := range hs {
		dtos[i] = toHolidayDTO(hol)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHoliday adds a custom holiday.
// POST /api/profiles/{id}/holidays
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := generic.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "Holiday name is required", nil)
		return
	}

	hol := holidays.NewCustom(string(profileID(r)), date, req.Name)
	if err := h.Store.SaveHoliday(r.Context(), hol); err != nil {
		h.fail(w, "create_holiday", "Failed to save holiday", err)
		return
	}
	writeJSON(w, http.StatusCreated, toHolidayDTO(hol))
}

// AddDefaultHolidays merges the bundled Danish holidays for a range of
// calendar years. Dates already present, including ones the user switched
// off, are left untouched.
// POST /api/profiles/{id}/holidays/defaults?from=2025&to=2026
func (h *Handler) AddDefaultHolidays(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := profileID(r)

	year := h.today().Year()
	from, err := queryInt(r, "from", year)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from year", err)
		return
	}
	to, err := queryInt(r, "to", from+1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to year", err)
		return
	}
	if to < from || to-from > 10 {
		writeError(w, http.StatusBadRequest, "Year range must be ascending and at most 10 years", nil)
		return
	}

	added, err := SeedProfile(ctx, h.Store, id, from, to)
	if err != nil {
		h.fail(w, "seed_holidays", "Failed to add default holidays", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"status": "created",
		"count":  added,
	})
}

// UpdateHoliday switches a holiday on or off.
// PUT /api/profiles/{id}/holidays/{hid}
func (h *Handler) UpdateHoliday(w http.ResponseWriter, r *http.Request) {
	var req UpdateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Enabled == nil {
		writeError(w, http.StatusBadRequest, "enabled is required", nil)
		return
	}

	err := h.Store.SetHolidayEnabled(r.Context(), profileID(r), chi.URLParam(r, "hid"), *req.Enabled)
	if err != nil {
		h.fail(w, "update_holiday", "Failed to update holiday", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteHoliday removes a holiday.
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteHoliday(r.Context(), profileID(r), chi.URLParam(r, "hid")); err != nil {
		h.fail(w, "delete_holiday", "Failed to delete holiday", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// RESULT HANDLERS
// =============================================================================

// GetCalendar classifies every day in [from, to].
// GET /api/profiles/{id}/calendar?from=2025-09-01&to=2026-08-31
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	year := h.today().Year()
	from, err := queryDate(r, "from", generic.StartOfYear(year))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date", err)
		return
	}
	to, err := queryDate(r, "to", generic.EndOfYear(year))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date", err)
		return
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "Invalid range", generic.ErrInvalidPeriod)
		return
	}
	if generic.DaysBetween(from, to) >= maxCalendarDays {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Range exceeds %d days", maxCalendarDays), nil)
		return
	}

	plan, err := vacation.LoadPlan(r.Context(), h.Store, profileID(r))
	if err != nil {
		h.fail(w, "calendar", "Failed to load plan", err)
		return
	}

	key := planKey(plan, "calendar|"+from.String()+"|"+to.String())
	if cached, ok := h.Cache.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	statuses := plan.Classify(from, to)
	resp := CalendarResponse{
		From:     from.String(),
		To:       to.String(),
		Statuses: make(map[string]vacation.Status, len(statuses)),
	}
	for d, s := range statuses {
		resp.Statuses[d.String()] = s
	}
	h.Cache.Set(key, resp)
	writeJSON(w, http.StatusOK, resp)
}

// GetLedgers returns every period's ledger at the start of as_of.
// GET /api/profiles/{id}/ledgers?as_of=2026-01-01
func (h *Handler) GetLedgers(w http.ResponseWriter, r *http.Request) {
	asOf, err := queryDate(r, "as_of", h.today())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of date", err)
		return
	}

	plan, err := vacation.LoadPlan(r.Context(), h.Store, profileID(r))
	if err != nil {
		h.fail(w, "ledgers", "Failed to load plan", err)
		return
	}

	key := planKey(plan, "ledgers|"+asOf.String())
	if cached, ok := h.Cache.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	ledgers := plan.Snapshot(asOf)
	resp := LedgersResponse{
		AsOf:         asOf.String(),
		TotalBalance: vacation.TotalBalance(ledgers).Float64(),
		Ledgers:      toLedgerDTOs(ledgers),
	}
	h.Cache.Set(key, resp)
	writeJSON(w, http.StatusOK, resp)
}

// GetSummary returns the balance left once a month is over, that is the
// snapshot at the first day of the following month.
// GET /api/profiles/{id}/summary?year=2026&month=3
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	today := h.today()
	year, err := queryInt(r, "year", today.Year())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}
	month, err := queryInt(r, "month", int(today.Month()))
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "Invalid month", err)
		return
	}

	plan, err := vacation.LoadPlan(r.Context(), h.Store, profileID(r))
	if err != nil {
		h.fail(w, "summary", "Failed to load plan", err)
		return
	}

	asOf := generic.StartOfMonth(year, time.Month(month)).AddMonths(1)
	ledgers := plan.Snapshot(asOf)
	writeJSON(w, http.StatusOK, SummaryResponse{
		Year:         year,
		Month:        month,
		AsOf:         asOf.String(),
		TotalBalance: vacation.TotalBalance(ledgers).Float64(),
		Ledgers:      toLedgerDTOs(ledgers),
	})
}

// =============================================================================
// DOCUMENT HANDLERS
// =============================================================================

// ExportPlan writes the plan as a JSON or YAML document.
func (h *Handler) ExportPlan(w http.ResponseWriter, r *http.Request) {
	id := profileID(r)
	plan, err := vacation.LoadPlan(r.Context(), h.Store, id)
	if err != nil {
		h.fail(w, "export", "Failed to load plan", err)
		return
	}

	format := requestFormat(r)
	data, err := h.Plans.Marshal(plan, format)
	if err != nil {
		h.fail(w, "export", "Failed to encode plan", err)
		return
	}

	contentType := "application/json"
	if format == factory.FormatYAML {
		contentType = "application/yaml"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", string(id)+"."+string(format)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ImportPlan replaces the stored plan with the uploaded document. The
// profile ID in the URL wins over the one in the document.
func (h *Handler) ImportPlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := profileID(r)

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read document", err)
		return
	}

	plan, err := h.Plans.ParsePlan(data, requestFormat(r))
	if err != nil {
		h.fail(w, "import", "Invalid plan document", err)
		return
	}
	plan.Profile.ID = id

	if err := h.Store.ReplacePlan(ctx, plan); err != nil {
		h.fail(w, "import", "Failed to save plan", err)
		return
	}

	h.Logger.Info("plan imported",
		zap.String("profile", string(id)),
		zap.Int("days", plan.Days.Len()),
		zap.Int("holidays", len(plan.Holidays)))
	writeJSON(w, http.StatusCreated, ImportResponse{
		Profile:  toProfileDTO(plan.Profile),
		Days:     plan.Days.Len(),
		Holidays: len(plan.Holidays),
	})
}

// requestFormat picks the document format from ?format= or Content-Type.
func requestFormat(r *http.Request) factory.Format {
	switch strings.ToLower(r.URL.Query().Get("format")) {
	case "yaml", "yml":
		return factory.FormatYAML
	case "json":
		return factory.FormatJSON
	}
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		return factory.FormatYAML
	}
	return factory.FormatJSON
}

// =============================================================================
// HELPERS
// =============================================================================

func queryDate(r *http.Request, name string, def generic.TimePoint) (generic.TimePoint, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	return generic.ParseDate(s)
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}

// fail maps domain errors to a status code and logs server-side failures.
func (h *Handler) fail(w http.ResponseWriter, op, message string, err error) {
	switch {
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		h.Logger.Error(message, zap.String("op", op), zap.Error(err))
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
