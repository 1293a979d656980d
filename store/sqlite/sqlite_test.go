package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/vacation-engine/generic"
	"github.com/warp/vacation-engine/store/sqlite"
	"github.com/warp/vacation-engine/store/storetest"
	"github.com/warp/vacation-engine/vacation"
)

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) vacation.Store {
		return newTestStore(t)
	})
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	// GIVEN: A plan written to a database file
	path := filepath.Join(t.TempDir(), "vacation.db")
	ctx := context.Background()

	store, err := sqlite.New(path)
	require.NoError(t, err)
	cfg := vacation.DefaultConfig(generic.MustParseDate("2025-09-01"))
	require.NoError(t, store.SaveProfile(ctx, vacation.Profile{ID: "a", Name: "Anna", Config: cfg}))
	require.NoError(t, store.AddDays(ctx, "a", []generic.TimePoint{generic.MustParseDate("2025-10-13")}))
	require.NoError(t, store.Close())

	// WHEN: Reopening it
	store, err = sqlite.New(path)
	require.NoError(t, err)
	defer store.Close()

	// THEN: Everything is still there
	plan, err := vacation.LoadPlan(ctx, store, "a")
	require.NoError(t, err)
	assert.Equal(t, cfg, plan.Profile.Config)
	assert.True(t, plan.Days.Has(generic.MustParseDate("2025-10-13")))
	assert.False(t, plan.Profile.UpdatedAt.IsZero())
}
