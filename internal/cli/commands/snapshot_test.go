package commands

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/ezc/internal/cli/config"
	"github.com/leapstack-labs/ezc/internal/cli/output"
	"github.com/leapstack-labs/ezc/internal/cli/testutil"
	"github.com/leapstack-labs/ezc/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saveSnapshot(t *testing.T, cfg *config.Config, path string, args ...string) state.Snapshot {
	t.Helper()
	jsonCfg := *cfg
	jsonCfg.OutputFormat = "json"
	out, _, err := executeCommand(t, NewSnapshotCommand(), &jsonCfg, append([]string{path}, args...)...)
	require.NoError(t, err)

	var snap state.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	return snap
}

func TestSnapshotCommand(t *testing.T) {
	dir := testutil.SetupTestUnits(t)
	good := filepath.Join(dir, "good.yaml")

	t.Run("saves and restores tables", func(t *testing.T) {
		cfg := testConfig(t, "text")
		snap := saveSnapshot(t, cfg, good)

		assert.NotEmpty(t, snap.ID)
		assert.Equal(t, "good", snap.Unit)
		assert.Equal(t, good, snap.SourcePath)
		assert.Equal(t, 1, snap.Literals)
		assert.Equal(t, 3, snap.Variables)
		assert.Equal(t, 1, snap.Functions)

		jsonCfg := *cfg
		jsonCfg.OutputFormat = "json"
		out, _, err := executeCommand(t, NewTablesCommand(), &jsonCfg, "--snapshot", snap.ID)
		require.NoError(t, err)

		var tables output.TablesOutput
		require.NoError(t, json.Unmarshal([]byte(out), &tables))
		assert.Equal(t, "good", tables.Unit)
		assert.Equal(t, snap.ID, tables.Snapshot)
		require.Len(t, tables.Variables, 3)
		assert.Equal(t, "count", tables.Variables[1].Name)
		require.Len(t, tables.Functions, 1)
		assert.Equal(t, 1, tables.Functions[0].Arity)
	})

	t.Run("text output prints id", func(t *testing.T) {
		out, _, err := executeCommand(t, NewSnapshotCommand(), testConfig(t, "text"), good)
		require.NoError(t, err)
		assert.Contains(t, out, "✓ Saved snapshot of good")
	})

	t.Run("refuses units with errors", func(t *testing.T) {
		cfg := testConfig(t, "text")
		bad := filepath.Join(dir, "bad.yaml")

		_, errOut, err := executeCommand(t, NewSnapshotCommand(), cfg, bad)
		require.ErrorIs(t, err, ErrCheckFailed)
		assert.Contains(t, errOut, "cannot assign")

		snap := saveSnapshot(t, cfg, bad, "--force")
		assert.Equal(t, "bad", snap.Unit)
	})

	t.Run("keep prunes older snapshots", func(t *testing.T) {
		cfg := testConfig(t, "text")
		cfg.Keep = 1
		saveSnapshot(t, cfg, good)
		latest := saveSnapshot(t, cfg, good)

		jsonCfg := *cfg
		jsonCfg.OutputFormat = "json"
		out, _, err := executeCommand(t, NewHistoryCommand(), &jsonCfg, "good")
		require.NoError(t, err)

		var snaps []state.Snapshot
		require.NoError(t, json.Unmarshal([]byte(out), &snaps))
		require.Len(t, snaps, 1)
		assert.Equal(t, latest.ID, snaps[0].ID)
	})

	t.Run("unknown snapshot", func(t *testing.T) {
		_, _, err := executeCommand(t, NewTablesCommand(), testConfig(t, "text"), "--snapshot", "missing")
		require.ErrorIs(t, err, state.ErrSnapshotNotFound)
	})
}

func TestHistoryCommand(t *testing.T) {
	dir := testutil.SetupTestUnits(t)
	cfg := testConfig(t, "text")

	t.Run("empty", func(t *testing.T) {
		jsonCfg := *cfg
		jsonCfg.OutputFormat = "json"
		out, _, err := executeCommand(t, NewHistoryCommand(), &jsonCfg)
		require.NoError(t, err)
		assert.JSONEq(t, "[]", out)

		out, _, err = executeCommand(t, NewHistoryCommand(), cfg)
		require.NoError(t, err)
		assert.Contains(t, out, "No snapshots found")
	})

	saveSnapshot(t, cfg, filepath.Join(dir, "good.yaml"))
	saveSnapshot(t, cfg, filepath.Join(dir, "bad.yaml"), "--force")

	t.Run("all units", func(t *testing.T) {
		out, _, err := executeCommand(t, NewHistoryCommand(), cfg)
		require.NoError(t, err)
		assert.Contains(t, out, "good")
		assert.Contains(t, out, "bad")
	})

	t.Run("one unit", func(t *testing.T) {
		mdCfg := *cfg
		mdCfg.OutputFormat = "markdown"
		out, _, err := executeCommand(t, NewHistoryCommand(), &mdCfg, "bad")
		require.NoError(t, err)
		assert.Contains(t, out, "# Snapshots")
		assert.Contains(t, out, "| bad |")
		assert.NotContains(t, out, "| good |")
	})
}
