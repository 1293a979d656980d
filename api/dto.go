/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's types (decimal amounts, TimePoint, PeriodYear) from the
  external contract: amounts are plain floats, dates are "2006-01-02".

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Profiles:  ProfileDTO, SaveProfileRequest, SettingsDTO
  Days:      DaysRequest, DaysResponse
  Holidays:  HolidayDTO, CreateHolidayRequest, UpdateHolidayRequest
  Results:   CalendarResponse, LedgerDTO, LedgersResponse, SummaryResponse

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/plan.go: Document form used by import/export
*/
package api

import (
	"time"

	"github.com/warp/vacation-engine/generic"
	"github.com/warp/vacation-engine/vacation"
)

// =============================================================================
// PROFILES
// =============================================================================

// SettingsDTO is vacation.Config on the wire.
type SettingsDTO struct {
	EmploymentStartDate string   `json:"employment_start_date"`
	InitialDays         float64  `json:"initial_days"`
	ExtraGrantMonth     int      `json:"extra_grant_month"`
	ExtraGrantCount     float64  `json:"extra_grant_count"`
	AdvanceDays         float64  `json:"advance_days"`
	TransferCap         *float64 `json:"transfer_cap,omitempty"`
}

// ProfileDTO represents a profile in API responses.
type ProfileDTO struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Settings  SettingsDTO `json:"settings"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// SaveProfileRequest is the body of PUT /api/profiles/{id}.
type SaveProfileRequest struct {
	Name     string      `json:"name"`
	Settings SettingsDTO `json:"settings"`
}

func toProfileDTO(p vacation.Profile) ProfileDTO {
	transferCap := p.Config.TransferCap
	return ProfileDTO{
		ID:   string(p.ID),
		Name: p.Name,
		Settings: SettingsDTO{
			EmploymentStartDate: p.Config.EmploymentStart.String(),
			InitialDays:         p.Config.InitialDays,
			ExtraGrantMonth:     int(p.Config.ExtraGrantMonth),
			ExtraGrantCount:     p.Config.ExtraGrantCount,
			AdvanceDays:         p.Config.AdvanceDays,
			TransferCap:         &transferCap,
		},
		UpdatedAt: p.UpdatedAt,
	}
}

// toConfig parses and validates settings. Errors wrap
// generic.ErrInvalidConfiguration.
func (s SettingsDTO) toConfig() (vacation.Config, error) {
	start, err := generic.ParseDate(s.EmploymentStartDate)
	if err != nil {
		return vacation.Config{}, &generic.ConfigError{Field: "employment_start_date", Reason: "must be a date (YYYY-MM-DD)"}
	}
	cfg := vacation.DefaultConfig(start)
	cfg.InitialDays = s.InitialDays
	if s.ExtraGrantMonth != 0 {
		cfg.ExtraGrantMonth = time.Month(s.ExtraGrantMonth)
	}
	cfg.ExtraGrantCount = s.ExtraGrantCount
	cfg.AdvanceDays = s.AdvanceDays
	if s.TransferCap != nil {
		cfg.TransferCap = *s.TransferCap
	}
	if err := cfg.Validate(); err != nil {
		return vacation.Config{}, err
	}
	return cfg, nil
}

// =============================================================================
// DAYS
// =============================================================================

// DaysRequest is the body of POST /api/profiles/{id}/days.
type DaysRequest struct {
	Dates []string `json:"dates"`
}

// DaysResponse lists a profile's taken days in ascending order.
type DaysResponse struct {
	Dates []string `json:"dates"`
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// HolidayDTO represents a holiday in API responses.
type HolidayDTO struct {
	ID      string `json:"id"`
	Date    string `json:"date"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
	Source  string `json:"source"`
}

// CreateHolidayRequest adds a custom holiday.
type CreateHolidayRequest struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// UpdateHolidayRequest switches a holiday on or off.
type UpdateHolidayRequest struct {
	Enabled *bool `json:"enabled"`
}

func toHolidayDTO(h generic.Holiday) HolidayDTO {
	return HolidayDTO{
		ID:      h.ID,
		Date:    h.Date.String(),
		Name:    h.Name,
		Enabled: h.Enabled,
		Source:  string(h.Source),
	}
}

// =============================================================================
// RESULTS
// =============================================================================

// CalendarResponse maps each date in the range to its status.
type CalendarResponse struct {
	From     string                     `json:"from"`
	To       string                     `json:"to"`
	Statuses map[string]vacation.Status `json:"statuses"`
}

// LedgerDTO is one vacation year's ledger.
type LedgerDTO struct {
	Period      string  `json:"period"`
	Year        int     `json:"year"`
	ObtainFrom  string  `json:"obtain_from"`
	ObtainTo    string  `json:"obtain_to"`
	UsableUntil string  `json:"usable_until"`
	Earned      float64 `json:"earned"`
	Extra       float64 `json:"extra"`
	Initial     float64 `json:"initial"`
	Transferred float64 `json:"transferred"`
	Used        float64 `json:"used"`
	Lost        float64 `json:"lost"`
	Balance     float64 `json:"balance"`
	Expired     bool    `json:"expired"`
}

// LedgersResponse is a balance snapshot.
type LedgersResponse struct {
	AsOf         string      `json:"as_of"`
	TotalBalance float64     `json:"total_balance"`
	Ledgers      []LedgerDTO `json:"ledgers"`
}

// SummaryResponse is the balance left at the end of a month.
type SummaryResponse struct {
	Year         int         `json:"year"`
	Month        int         `json:"month"`
	AsOf         string      `json:"as_of"`
	TotalBalance float64     `json:"total_balance"`
	Ledgers      []LedgerDTO `json:"ledgers"`
}

// ImportResponse reports what an import stored.
type ImportResponse struct {
	Profile  ProfileDTO `json:"profile"`
	Days     int        `json:"days"`
	Holidays int        `json:"holidays"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func toLedgerDTO(l vacation.Ledger) LedgerDTO {
	obtain := l.Period.ObtainWindow()
	return LedgerDTO{
		Period:      l.Period.String(),
		Year:        int(l.Period),
		ObtainFrom:  obtain.Start.String(),
		ObtainTo:    obtain.End.String(),
		UsableUntil: l.Period.UsableEnd().String(),
		Earned:      l.Earned.Float64(),
		Extra:       l.Extra.Float64(),
		Initial:     l.Initial.Float64(),
		Transferred: l.Transferred.Float64(),
		Used:        l.Used.Float64(),
		Lost:        l.Lost.Float64(),
		Balance:     l.Balance().Float64(),
		Expired:     l.Expired,
	}
}

func toLedgerDTOs(ledgers []vacation.Ledger) []LedgerDTO {
	out := make([]LedgerDTO, len(ledgers))
	for i, l := range ledgers {
		out[i] = toLedgerDTO(l)
	}
	return out
}
