package commands

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/ezc/internal/cli/output"
	"github.com/leapstack-labs/ezc/internal/cli/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCommand(t *testing.T) {
	dir := testutil.SetupTestUnits(t)
	good := filepath.Join(dir, "good.yaml")

	t.Run("text tree", func(t *testing.T) {
		out, _, err := executeCommand(t, NewRenderCommand(), testConfig(t, "text"), good)
		require.NoError(t, err)

		assert.Contains(t, out, "block\n")
		assert.Contains(t, out, "I2R [real]")
		assert.Contains(t, out, `str_val "total" [string]`)
		assert.Contains(t, out, "var_use total [real]")
		testutil.AssertNoANSI(t, out)
	})

	t.Run("raw indices", func(t *testing.T) {
		out, _, err := executeCommand(t, NewRenderCommand(), testConfig(t, "text"), good, "--raw")
		require.NoError(t, err)
		assert.NotContains(t, out, "var_use total")
		assert.NotContains(t, out, `"total"`)
	})

	t.Run("no check leaves tree untyped", func(t *testing.T) {
		out, _, err := executeCommand(t, NewRenderCommand(), testConfig(t, "text"), good, "--no-check")
		require.NoError(t, err)
		assert.NotContains(t, out, "I2R")
	})

	t.Run("dot uses configured graph name", func(t *testing.T) {
		cfg := testConfig(t, "text")
		cfg.GraphName = "good_unit"
		out, _, err := executeCommand(t, NewRenderCommand(), cfg, good, "--format", "dot")
		require.NoError(t, err)
		assert.Contains(t, out, `digraph "good_unit" {`)
		assert.Contains(t, out, "->")
	})

	t.Run("markdown wraps tree in code block", func(t *testing.T) {
		out, _, err := executeCommand(t, NewRenderCommand(), testConfig(t, "markdown"), good)
		require.NoError(t, err)
		assert.Contains(t, out, "# Syntax tree: good")
		assert.Contains(t, out, "```text\n")
		testutil.AssertValidMarkdown(t, out)
	})

	t.Run("json", func(t *testing.T) {
		out, _, err := executeCommand(t, NewRenderCommand(), testConfig(t, "json"), good, "-f", "dot")
		require.NoError(t, err)

		var got output.RenderOutput
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, "good", got.Unit)
		assert.Equal(t, "dot", got.Format)
		assert.Positive(t, got.Nodes)
		assert.Contains(t, got.Tree, "digraph")
	})

	t.Run("semantic errors are warnings", func(t *testing.T) {
		out, errOut, err := executeCommand(t, NewRenderCommand(), testConfig(t, "text"), filepath.Join(dir, "bad.yaml"))
		require.NoError(t, err)
		assert.Contains(t, out, "real_val 1.5 [real]")
		assert.Contains(t, errOut, "cannot assign real value to int variable n")
	})

	t.Run("load error", func(t *testing.T) {
		_, _, err := executeCommand(t, NewRenderCommand(), testConfig(t, "text"), filepath.Join(dir, "broken.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ghost")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, _, err := executeCommand(t, NewRenderCommand(), testConfig(t, "text"), good, "--format", "svg")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown tree format")
	})
}
