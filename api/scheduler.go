/*
scheduler.go - Background holiday seeding

PURPOSE:
  Keeps every profile's holiday list populated with the bundled Danish
  holidays for the current and next calendar year, so a plan made in
  December already sees next year's Easter.

DESIGN:
  - Runs a background goroutine with a configurable check interval
  - Uses holidays.Merge, so dates already present are never touched and a
    holiday the user switched off stays off
  - A failing profile is logged and skipped; the next tick retries it

USAGE:
  seeder := NewHolidaySeeder(store, logger)
  seeder.CheckInterval = cfg.Holidays.SeedInterval
  seeder.Start()
  // ... later
  seeder.Stop()

SEE ALSO:
  - handlers.go: AddDefaultHolidays endpoint (manual seeding)
  - holidays/merge.go: Merge rules
*/
package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/warp/vacation-engine/holidays"
	"github.com/warp/vacation-engine/vacation"
)

// HolidaySeeder periodically merges bundled holidays into every profile.
type HolidaySeeder struct {
	Store         vacation.Store
	Logger        *zap.Logger
	CheckInterval time.Duration
	Enabled       bool
	Now           func() time.Time

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewHolidaySeeder creates a seeder that runs daily.
func NewHolidaySeeder(store vacation.Store, logger *zap.Logger) *HolidaySeeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HolidaySeeder{
		Store:         store,
		Logger:        logger.Named("seeder"),
		CheckInterval: 24 * time.Hour,
		Enabled:       true,
		Now:           time.Now,
	}
}

// Start begins the seeder. A disabled seeder or a non-positive interval
// does nothing.
func (s *HolidaySeeder) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Enabled || s.CheckInterval <= 0 {
		s.Logger.Info("disabled, not starting")
		return
	}
	if s.ticker != nil {
		return
	}

	s.ticker = time.NewTicker(s.CheckInterval)
	s.stop = make(chan struct{})
	s.wg.Add(1)

	go s.run()

	s.Logger.Info("started", zap.Duration("interval", s.CheckInterval))
}

// Stop stops the seeder and waits for a running pass to finish.
func (s *HolidaySeeder) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil {
		s.ticker.Stop()
		close(s.stop)
		s.wg.Wait()
		s.ticker = nil
		s.Logger.Info("stopped")
	}
}

func (s *HolidaySeeder) run() {
	defer s.wg.Done()

	// Run immediately on start
	s.SeedAll(context.Background())

	for {
		select {
		case <-s.ticker.C:
			s.SeedAll(context.Background())
		case <-s.stop:
			return
		}
	}
}

// SeedAll merges this year's and next year's bundled holidays into every
// profile and returns how many holidays were added in total.
func (s *HolidaySeeder) SeedAll(ctx context.Context) int {
	year := s.Now().Year()

	profiles, err := s.Store.ListProfiles(ctx)
	if err != nil {
		s.Logger.Error("failed to list profiles", zap.Error(err))
		return 0
	}

	total := 0
	for _, p := range profiles {
		added, err := SeedProfile(ctx, s.Store, p.ID, year, year+1)
		if err != nil {
			s.Logger.Warn("failed to seed profile", zap.String("profile", string(p.ID)), zap.Error(err))
			continue
		}
		if added > 0 {
			s.Logger.Info("seeded holidays", zap.String("profile", string(p.ID)), zap.Int("added", added))
		}
		total += added
	}
	return total
}

// SeedProfile merges the bundled holidays for calendar years [from, to]
// into one profile and returns the number added.
func SeedProfile(ctx context.Context, store vacation.Store, id vacation.ProfileID, from, to int) (int, error) {
	existing, err := store.ListHolidays(ctx, id)
	if err != nil {
		return 0, err
	}

	added := holidays.Merge(string(id), existing, holidays.DanishRange(from, to))
	for _, h := range added {
		if err := store.SaveHoliday(ctx, h); err != nil {
			return 0, fmt.Errorf("failed to save holiday %s: %w", h.ID, err)
		}
	}
	return len(added), nil
}
