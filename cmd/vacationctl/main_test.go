package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPlan = `version: 1
profile:
  id: anna
  name: Anna
settings:
  employment_start_date: "2025-09-01"
  advance_days: 1
selected_days:
  - "2025-09-01"
  - "2025-09-02"
  - "2025-09-03"
  - "2025-09-04"
holidays:
  - date: "2025-12-24"
    name: Juleaftensdag
    source: bundled
`

func writePlan(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testPlan), 0600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestStatusCommand(t *testing.T) {
	// GIVEN: Four days taken in the first week with one day of advance
	path := writePlan(t)

	// WHEN: Printing the first week of September
	out, err := execute(t, "status", "--plan", path, "--from", "2025-09-01", "--to", "2025-09-07", "--no-color")
	require.NoError(t, err)

	// THEN: The third day dips into the advance and the fourth goes past it
	assert.Contains(t, out, "2025-09-02  Tue  selected-ok")
	assert.Contains(t, out, "2025-09-03  Wed  selected-warning")
	assert.Contains(t, out, "2025-09-04  Thu  selected-overdrawn")
	assert.Contains(t, out, "2025-09-06  Sat  weekend")
	assert.Contains(t, out, "selected: 2 ok, 1 warning, 1 overdrawn")
}

func TestStatusCommand_SelectedOnly(t *testing.T) {
	path := writePlan(t)

	out, err := execute(t, "status", "--plan", path, "--from", "2025-09-01", "--to", "2025-09-07", "--selected", "--no-color")
	require.NoError(t, err)
	assert.NotContains(t, out, "weekend")
	assert.NotContains(t, out, "normal")

	selectedOnly = false
}

func TestStatusCommand_BadRange(t *testing.T) {
	path := writePlan(t)

	_, err := execute(t, "status", "--plan", path, "--from", "2025-09-07", "--to", "2025-09-01")
	assert.Error(t, err)
}

func TestLedgersCommand(t *testing.T) {
	path := writePlan(t)

	out, err := execute(t, "ledgers", "--plan", path, "--as-of", "2026-01-01")
	require.NoError(t, err)

	// 4 months earned, 4 days used
	assert.Contains(t, out, "2025/2026")
	assert.Contains(t, out, "8.32")
	assert.Contains(t, out, "total balance at 2026-01-01: 4.32")
}

func TestLedgersCommand_Through(t *testing.T) {
	// GIVEN: Four days taken in September 2025
	path := writePlan(t)
	defer func() { throughString = "" }()

	// WHEN: Showing the end of the last taken day
	out, err := execute(t, "ledgers", "--plan", path, "--through", "2025-09-04")
	require.NoError(t, err)

	// THEN: All four days are charged against the single 2.08 credit
	assert.Contains(t, out, "total balance after 2025-09-04: -1.92")
}

func TestLedgersCommand_BeforeStart(t *testing.T) {
	path := writePlan(t)

	out, err := execute(t, "ledgers", "--plan", path, "--as-of", "2025-01-01")
	require.NoError(t, err)
	assert.Contains(t, out, "no ledgers")
}

func TestLedgersCommand_MissingPlan(t *testing.T) {
	_, err := execute(t, "ledgers", "--plan", filepath.Join(t.TempDir(), "missing.yaml"), "--as-of", "2026-01-01")
	assert.Error(t, err)
}

func TestHolidaysCommand(t *testing.T) {
	out, err := execute(t, "holidays", "--plan=", "--year", "2026")
	require.NoError(t, err)

	assert.Contains(t, out, "2026-04-05")
	assert.Contains(t, out, "Grundlovsdag")
	assert.NotContains(t, out, "Store Bededag")
}

func TestHolidaysCommand_FromPlan(t *testing.T) {
	path := writePlan(t)

	out, err := execute(t, "holidays", "--plan", path, "--year", "2025")
	require.NoError(t, err)

	assert.Contains(t, out, "Juleaftensdag")
	assert.NotContains(t, out, "Grundlovsdag")
}
