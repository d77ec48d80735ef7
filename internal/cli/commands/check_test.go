package commands

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/ezc/internal/cli/output"
	"github.com/leapstack-labs/ezc/internal/cli/testutil"
	"github.com/leapstack-labs/ezc/internal/state"
	logtest "github.com/leapstack-labs/ezc/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCommand(t *testing.T) {
	dir := testutil.SetupTestUnits(t)
	good := filepath.Join(dir, "good.yaml")
	bad := filepath.Join(dir, "bad.yaml")
	broken := filepath.Join(dir, "broken.yaml")

	t.Run("clean unit", func(t *testing.T) {
		out, _, err := executeCommand(t, NewCheckCommand(), testConfig(t, "text"), good)
		require.NoError(t, err)
		assert.Contains(t, out, "✓ good")
		assert.Contains(t, out, "1 conversions")
		assert.Contains(t, out, "Summary: 1 units")
		assert.NotContains(t, out, "implicit-conversion")
	})

	t.Run("info severity shows conversions", func(t *testing.T) {
		out, _, err := executeCommand(t, NewCheckCommand(), testConfig(t, "text"), good, "--severity", "info")
		require.NoError(t, err)
		assert.Contains(t, out, "implicit-conversion")
		assert.Contains(t, out, "I2R")
	})

	t.Run("semantic errors fail", func(t *testing.T) {
		out, _, err := executeCommand(t, NewCheckCommand(), testConfig(t, "text"), bad)
		require.ErrorIs(t, err, ErrCheckFailed)
		assert.Contains(t, out, "✗ bad")
		assert.Contains(t, out, "assignment")
		assert.Contains(t, out, "cannot assign real value to int variable n")
		assert.Contains(t, out, "1 failed")
	})

	t.Run("load errors fail", func(t *testing.T) {
		out, _, err := executeCommand(t, NewCheckCommand(), testConfig(t, "text"), broken)
		require.ErrorIs(t, err, ErrCheckFailed)
		assert.Contains(t, out, "ghost")
	})

	t.Run("markdown", func(t *testing.T) {
		out, _, err := executeCommand(t, NewCheckCommand(), testConfig(t, "markdown"), good, bad)
		require.ErrorIs(t, err, ErrCheckFailed)
		assert.Contains(t, out, "# Check results")
		testutil.AssertValidMarkdown(t, out)
	})

	t.Run("json keeps argument order", func(t *testing.T) {
		out, _, err := executeCommand(t, NewCheckCommand(), testConfig(t, "json"), bad, good, broken, "-j", "2")
		require.ErrorIs(t, err, ErrCheckFailed)

		var got output.CheckOutput
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, output.CheckSummary{Units: 3, Failed: 2, Errors: 1}, got.Summary)
		require.Len(t, got.Units, 3)

		assert.Equal(t, "bad", got.Units[0].Unit)
		assert.Equal(t, 1, got.Units[0].Errors)
		require.NotEmpty(t, got.Units[0].Diagnostics)
		assert.Equal(t, "assignment", got.Units[0].Diagnostics[0].Code)

		assert.Equal(t, "good", got.Units[1].Unit)
		assert.Equal(t, 1, got.Units[1].Conversions)
		assert.Empty(t, got.Units[1].LoadError)

		assert.Equal(t, broken, got.Units[2].Unit)
		assert.NotEmpty(t, got.Units[2].LoadError)
	})

	t.Run("unknown severity", func(t *testing.T) {
		_, _, err := executeCommand(t, NewCheckCommand(), testConfig(t, "text"), good, "--severity", "hint")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown severity")
	})

	t.Run("requires a unit", func(t *testing.T) {
		_, _, err := executeCommand(t, NewCheckCommand(), testConfig(t, "text"))
		require.Error(t, err)
	})
}

func TestCheckSaveSnapshotsCleanUnits(t *testing.T) {
	dir := testutil.SetupTestUnits(t)
	cfg := testConfig(t, "text")

	_, _, err := executeCommand(t, NewCheckCommand(), cfg,
		filepath.Join(dir, "good.yaml"), filepath.Join(dir, "bad.yaml"), "--save")
	require.ErrorIs(t, err, ErrCheckFailed)

	store := state.NewSQLiteStore(logtest.NewTestLogger(t))
	require.NoError(t, store.Open(cfg.StatePath))
	defer func() { _ = store.Close() }()

	snaps, err := store.ListSnapshots(t.Context(), "")
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "good", snaps[0].Unit)
	assert.Equal(t, filepath.Join(dir, "good.yaml"), snaps[0].SourcePath)
	assert.Equal(t, 3, snaps[0].Variables)
	assert.Positive(t, snaps[0].Nodes)
}
