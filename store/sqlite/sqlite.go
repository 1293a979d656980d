/*
Package sqlite provides a SQLite-backed implementation of vacation.Store.

KEY TABLES:
  profiles:      One row per plan; settings stored as config_json
  selected_days: Taken days, unique per (profile_id, day)
  holidays:      Bundled and custom holidays, keyed by (profile_id, id)

Deleting a profile cascades to its days and holidays through foreign keys.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of SQLite's own locking.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time

USAGE:
  store, err := sqlite.New("./data/vacation.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  plan, err := vacation.LoadPlan(ctx, store, "anna")

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - vacation/store.go: Interface definition
  - store/memory/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/vacation-engine/generic"
	"github.com/warp/vacation-engine/vacation"
)

// Store implements vacation.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ vacation.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Each connection to :memory: is its own database
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		config_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS selected_days (
		profile_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		day TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (profile_id, day)
	);

	CREATE TABLE IF NOT EXISTS holidays (
		profile_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		id TEXT NOT NULL,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		enabled BOOLEAN NOT NULL DEFAULT TRUE,
		source TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (profile_id, id)
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_profile_date
		ON holidays(profile_id, date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PROFILES
// =============================================================================

// SaveProfile creates or replaces a profile.
func (s *Store) SaveProfile(ctx context.Context, p vacation.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return upsertProfile(ctx, s.db, p)
}

func upsertProfile(ctx context.Context, db execer, p vacation.Profile) error {
	configJSON, err := json.Marshal(p.Config)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	query := `
		INSERT INTO profiles (id, name, config_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			config_json = excluded.config_json,
			updated_at = excluded.updated_at
	`

	updatedAt := p.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	_, err = db.ExecContext(ctx, query,
		string(p.ID), p.Name, string(configJSON),
		time.Now().UTC().Format(time.RFC3339),
		updatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// GetProfile retrieves a profile by ID.
func (s *Store) GetProfile(ctx context.Context, id vacation.ProfileID) (vacation.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, config_json, updated_at FROM profiles WHERE id = ?",
		string(id),
	)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return vacation.Profile{}, fmt.Errorf("%w: %s", generic.ErrProfileNotFound, id)
	}
	return p, err
}

// ListProfiles returns all profiles ordered by name.
func (s *Store) ListProfiles(ctx context.Context) ([]vacation.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, config_json, updated_at FROM profiles ORDER BY name, id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []vacation.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// DeleteProfile removes a profile with its days and holidays.
func (s *Store) DeleteProfile(ctx context.Context, id vacation.ProfileID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM profiles WHERE id = ?", string(id))
	if err != nil {
		return err
	}
	return expectAffected(res, fmt.Errorf("%w: %s", generic.ErrProfileNotFound, id))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (vacation.Profile, error) {
	var p vacation.Profile
	var id, configJSON, updatedAt string
	if err := row.Scan(&id, &p.Name, &configJSON, &updatedAt); err != nil {
		return vacation.Profile{}, err
	}
	if err := json.Unmarshal([]byte(configJSON), &p.Config); err != nil {
		return vacation.Profile{}, fmt.Errorf("failed to decode settings of %s: %w", id, err)
	}
	p.ID = vacation.ProfileID(id)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return p, nil
}

// =============================================================================
// SELECTED DAYS
// =============================================================================

// AddDays marks days as taken. Days already taken are left alone.
func (s *Store) AddDays(ctx context.Context, id vacation.ProfileID, days []generic.TimePoint) error {
	return s.withTx(ctx, id, func(tx *sql.Tx) error {
		return insertDays(ctx, tx, id, days)
	})
}

func insertDays(ctx context.Context, db execer, id vacation.ProfileID, days []generic.TimePoint) error {
	now := time.Now().UTC().Format(time.RFC3339)
	for _, d := range days {
		if _, err := db.ExecContext(ctx,
			"INSERT OR IGNORE INTO selected_days (profile_id, day, created_at) VALUES (?, ?, ?)",
			string(id), d.String(), now,
		); err != nil {
			return err
		}
	}
	return nil
}

// RemoveDays unmarks days. Days not taken are ignored.
func (s *Store) RemoveDays(ctx context.Context, id vacation.ProfileID, days []generic.TimePoint) error {
	return s.withTx(ctx, id, func(tx *sql.Tx) error {
		for _, d := range days {
			if _, err := tx.ExecContext(ctx,
				"DELETE FROM selected_days WHERE profile_id = ? AND day = ?",
				string(id), d.String(),
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListDays returns the taken days in ascending order.
func (s *Store) ListDays(ctx context.Context, id vacation.ProfileID) ([]generic.TimePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.requireProfile(ctx, s.db, id); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT day FROM selected_days WHERE profile_id = ? ORDER BY day ASC",
		string(id),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []generic.TimePoint
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		d, err := generic.ParseDate(day)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// SaveHoliday inserts or replaces a holiday by ID.
func (s *Store) SaveHoliday(ctx context.Context, h generic.Holiday) error {
	return s.withTx(ctx, vacation.ProfileID(h.ProfileID), func(tx *sql.Tx) error {
		return upsertHoliday(ctx, tx, h)
	})
}

func upsertHoliday(ctx context.Context, db execer, h generic.Holiday) error {
	query := `
		INSERT INTO holidays (profile_id, id, date, name, enabled, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(profile_id, id) DO UPDATE SET
			date = excluded.date,
			name = excluded.name,
			enabled = excluded.enabled,
			source = excluded.source
	`
	_, err := db.ExecContext(ctx, query,
		h.ProfileID, h.ID, h.Date.String(), h.Name, h.Enabled, string(h.Source),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// SetHolidayEnabled switches a holiday on or off.
func (s *Store) SetHolidayEnabled(ctx context.Context, id vacation.ProfileID, holidayID string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"UPDATE holidays SET enabled = ? WHERE profile_id = ? AND id = ?",
		enabled, string(id), holidayID,
	)
	if err != nil {
		return err
	}
	return expectAffected(res, fmt.Errorf("%w: %s", generic.ErrHolidayNotFound, holidayID))
}

// DeleteHoliday deletes a holiday by ID.
func (s *Store) DeleteHoliday(ctx context.Context, id vacation.ProfileID, holidayID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM holidays WHERE profile_id = ? AND id = ?",
		string(id), holidayID,
	)
	if err != nil {
		return err
	}
	return expectAffected(res, fmt.Errorf("%w: %s", generic.ErrHolidayNotFound, holidayID))
}

// ListHolidays returns a profile's holidays ordered by date.
func (s *Store) ListHolidays(ctx context.Context, id vacation.ProfileID) ([]generic.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.requireProfile(ctx, s.db, id); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT profile_id, id, date, name, enabled, source
		FROM holidays
		WHERE profile_id = ?
		ORDER BY date ASC, id ASC
	`, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []generic.Holiday
	for rows.Next() {
		var h generic.Holiday
		var dateStr, source string
		if err := rows.Scan(&h.ProfileID, &h.ID, &dateStr, &h.Name, &h.Enabled, &source); err != nil {
			return nil, err
		}
		if h.Date, err = generic.ParseDate(dateStr); err != nil {
			return nil, err
		}
		h.Source = generic.HolidaySource(source)
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// =============================================================================
// PLANS
// =============================================================================

// ReplacePlan writes plan in one transaction. An existing profile with the
// same ID is removed first, together with its days and holidays; on error
// the stored plan is left as it was.
func (s *Store) ReplacePlan(ctx context.Context, plan *vacation.Plan) error {
	id := plan.Profile.ID
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM profiles WHERE id = ?", string(id)); err != nil {
			return err
		}
		if err := upsertProfile(ctx, tx, plan.Profile); err != nil {
			return err
		}
		if err := insertDays(ctx, tx, id, plan.Days.Sorted()); err != nil {
			return err
		}
		for _, h := range plan.Holidays {
			if h.ID == "" {
				return fmt.Errorf("%w: holiday on %s has no ID", generic.ErrInvalidPlan, h.Date)
			}
			h.ProfileID = string(id)
			if err := upsertHoliday(ctx, tx, h); err != nil {
				return err
			}
		}
		return nil
	})
}

// =============================================================================
// HELPERS
// =============================================================================

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) requireProfile(ctx context.Context, db queryer, id vacation.ProfileID) error {
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM profiles WHERE id = ?", string(id)).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", generic.ErrProfileNotFound, id)
	}
	return nil
}

// withTx runs fn in a transaction after checking the profile exists.
func (s *Store) withTx(ctx context.Context, id vacation.ProfileID, fn func(*sql.Tx) error) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.requireProfile(ctx, tx, id); err != nil {
			return err
		}
		return fn(tx)
	})
}

// inTx runs fn in a transaction. If fn returns error, the transaction is
// rolled back.
func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func expectAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
