/*
Package factory converts plan documents to and from vacation.Plan.

PURPOSE:
  A plan document is the portable form of one profile: settings, taken
  days and holidays. It is what export writes and import reads, and what
  the CLI loads from disk. JSON and YAML carry the same schema.

DOCUMENT SCHEMA (JSON):
  {
    "version": 1,
    "profile": {"id": "anna", "name": "Anna"},
    "settings": {
      "employment_start_date": "2025-09-01",
      "initial_days": 0,
      "extra_grant_month": 5,
      "extra_grant_count": 5,
      "advance_days": 0,
      "transfer_cap": 5
    },
    "selected_days": ["2025-10-13", "2025-10-14"],
    "holidays": [
      {"date": "2025-12-24", "name": "Juleaftensdag", "enabled": false, "source": "bundled"}
    ]
  }

DEFAULTS:
  - transfer_cap missing: 5
  - source missing: custom
  - enabled missing: true

USAGE:
  f := factory.NewPlanFactory()
  plan, err := f.ParsePlan(data, factory.FormatYAML)
  if errors.Is(err, generic.ErrInvalidPlan) { ... }

SEE ALSO:
  - vacation/store.go: Plan
  - api/handlers.go: Export and import endpoints
  - cmd/vacationctl: Reads plan files
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/warp/vacation-engine/generic"
	"github.com/warp/vacation-engine/holidays"
	"github.com/warp/vacation-engine/vacation"
	"gopkg.in/yaml.v3"
)

// CurrentVersion is written on export. Older documents without a version
// are read as version 1.
const CurrentVersion = 1

// =============================================================================
// DOCUMENT SCHEMA TYPES
// =============================================================================

// PlanJSON is the document form of a plan.
type PlanJSON struct {
	Version      int           `json:"version" yaml:"version"`
	Profile      ProfileJSON   `json:"profile" yaml:"profile"`
	Settings     SettingsJSON  `json:"settings" yaml:"settings"`
	SelectedDays []string      `json:"selected_days" yaml:"selected_days"`
	Holidays     []HolidayJSON `json:"holidays" yaml:"holidays"`
}

type ProfileJSON struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// SettingsJSON mirrors vacation.Config with dates as strings.
type SettingsJSON struct {
	EmploymentStartDate string   `json:"employment_start_date" yaml:"employment_start_date"`
	InitialDays         float64  `json:"initial_days" yaml:"initial_days"`
	ExtraGrantMonth     int      `json:"extra_grant_month" yaml:"extra_grant_month"`
	ExtraGrantCount     float64  `json:"extra_grant_count" yaml:"extra_grant_count"`
	AdvanceDays         float64  `json:"advance_days" yaml:"advance_days"`
	TransferCap         *float64 `json:"transfer_cap,omitempty" yaml:"transfer_cap,omitempty"`
}

type HolidayJSON struct {
	Date    string `json:"date" yaml:"date"`
	Name    string `json:"name" yaml:"name"`
	Enabled *bool  `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Source  string `json:"source,omitempty" yaml:"source,omitempty"`
}

// Format selects the document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks a format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return FormatYAML
	}
	return FormatJSON
}

// =============================================================================
// PLAN FACTORY
// =============================================================================

// PlanFactory converts documents to plans and back.
type PlanFactory struct {
	// Now stamps Profile.UpdatedAt on import.
	Now func() time.Time
}

func NewPlanFactory() *PlanFactory {
	return &PlanFactory{Now: time.Now}
}

// ParsePlan decodes and validates a document. Every failure wraps
// generic.ErrInvalidPlan.
func (f *PlanFactory) ParsePlan(data []byte, format Format) (*vacation.Plan, error) {
	var pj PlanJSON
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &pj)
	default:
		err = json.Unmarshal(data, &pj)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", generic.ErrInvalidPlan, format, err)
	}
	return f.FromJSON(pj)
}

// FromJSON converts a decoded document to a Plan.
func (f *PlanFactory) FromJSON(pj PlanJSON) (*vacation.Plan, error) {
	if pj.Version > CurrentVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", generic.ErrInvalidPlan, pj.Version)
	}

	cfg, err := parseSettings(pj.Settings)
	if err != nil {
		return nil, err
	}

	days := vacation.NewDateSet()
	for _, s := range pj.SelectedDays {
		d, err := generic.ParseDate(s)
		if err != nil {
			return nil, fmt.Errorf("%w: selected day: %v", generic.ErrInvalidPlan, err)
		}
		days.Add(d)
	}

	hs := make([]generic.Holiday, 0, len(pj.Holidays))
	for _, hj := range pj.Holidays {
		h, err := parseHoliday(pj.Profile.ID, hj)
		if err != nil {
			return nil, err
		}
		hs = append(hs, h)
	}
	holidays.SortByDate(hs)

	return &vacation.Plan{
		Profile: vacation.Profile{
			ID:        vacation.ProfileID(pj.Profile.ID),
			Name:      pj.Profile.Name,
			Config:    cfg,
			UpdatedAt: f.Now().UTC(),
		},
		Days:     days,
		Holidays: hs,
	}, nil
}

// ToJSON converts a plan to its document form.
func (f *PlanFactory) ToJSON(plan *vacation.Plan) PlanJSON {
	cfg := plan.Profile.Config
	transferCap := cfg.TransferCap
	pj := PlanJSON{
		Version: CurrentVersion,
		Profile: ProfileJSON{ID: string(plan.Profile.ID), Name: plan.Profile.Name},
		Settings: SettingsJSON{
			EmploymentStartDate: cfg.EmploymentStart.String(),
			InitialDays:         cfg.InitialDays,
			ExtraGrantMonth:     int(cfg.ExtraGrantMonth),
			ExtraGrantCount:     cfg.ExtraGrantCount,
			AdvanceDays:         cfg.AdvanceDays,
			TransferCap:         &transferCap,
		},
		SelectedDays: make([]string, 0, plan.Days.Len()),
		Holidays:     make([]HolidayJSON, 0, len(plan.Holidays)),
	}
	for _, d := range plan.Days.Sorted() {
		pj.SelectedDays = append(pj.SelectedDays, d.String())
	}
	for _, h := range plan.Holidays {
		enabled := h.Enabled
		pj.Holidays = append(pj.Holidays, HolidayJSON{
			Date:    h.Date.String(),
			Name:    h.Name,
			Enabled: &enabled,
			Source:  string(h.Source),
		})
	}
	return pj
}

// Marshal encodes a plan in format.
func (f *PlanFactory) Marshal(plan *vacation.Plan, format Format) ([]byte, error) {
	pj := f.ToJSON(plan)
	if format == FormatYAML {
		return yaml.Marshal(pj)
	}
	return json.MarshalIndent(pj, "", "  ")
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseSettings(sj SettingsJSON) (vacation.Config, error) {
	start, err := generic.ParseDate(sj.EmploymentStartDate)
	if err != nil {
		return vacation.Config{}, fmt.Errorf("%w: employment_start_date: %v", generic.ErrInvalidPlan, err)
	}
	cfg := vacation.Config{
		EmploymentStart: start,
		InitialDays:     sj.InitialDays,
		ExtraGrantMonth: time.Month(sj.ExtraGrantMonth),
		ExtraGrantCount: sj.ExtraGrantCount,
		AdvanceDays:     sj.AdvanceDays,
		TransferCap:     vacation.DefaultTransferCap,
	}
	if sj.TransferCap != nil {
		cfg.TransferCap = *sj.TransferCap
	}
	if err := cfg.Validate(); err != nil {
		return vacation.Config{}, fmt.Errorf("%w: %w", generic.ErrInvalidPlan, err)
	}
	return cfg, nil
}

func parseHoliday(profileID string, hj HolidayJSON) (generic.Holiday, error) {
	d, err := generic.ParseDate(hj.Date)
	if err != nil {
		return generic.Holiday{}, fmt.Errorf("%w: holiday: %v", generic.ErrInvalidPlan, err)
	}

	var h generic.Holiday
	switch generic.HolidaySource(hj.Source) {
	case generic.HolidayBundled:
		h = generic.Holiday{ID: holidays.BundledID(d), Date: d, Source: generic.HolidayBundled}
	case generic.HolidayCustom, "":
		h = holidays.NewCustom(profileID, d, hj.Name)
	default:
		return generic.Holiday{}, fmt.Errorf("%w: holiday source %q", generic.ErrInvalidPlan, hj.Source)
	}
	h.ProfileID = profileID
	h.Name = hj.Name
	h.Enabled = hj.Enabled == nil || *hj.Enabled
	return h, nil
}
