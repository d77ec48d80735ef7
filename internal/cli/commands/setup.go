// Package commands implements the ezc subcommands.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/ezc/internal/cli/config"
	"github.com/leapstack-labs/ezc/internal/cli/output"
	"github.com/leapstack-labs/ezc/internal/state"
	"github.com/leapstack-labs/ezc/internal/unit"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for command execution.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	Loader   *unit.Loader
}

// NewCommandContext builds the dependencies of cmd from its context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.FromContext(cmd.Context())
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
		Loader:   unit.NewLoader(cfg.Limits.Tables(), logger),
	}
}

// OpenStore opens and migrates the state database. The returned cleanup
// closes it.
func (c *CommandContext) OpenStore() (*state.SQLiteStore, func(), error) {
	if dir := filepath.Dir(c.Cfg.StatePath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	store := state.NewSQLiteStore(c.Logger)
	if err := store.Open(c.Cfg.StatePath); err != nil {
		return nil, nil, err
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}

// closeUnit releases the unit's tree, logging failures.
func (c *CommandContext) closeUnit(u *unit.Unit) {
	if u == nil {
		return
	}
	n, err := u.Close()
	if err != nil {
		c.Logger.Warn("failed to release unit", slog.String("unit", u.Name), slog.Any("error", err))
		return
	}
	c.Logger.Debug("released unit", slog.String("unit", u.Name), slog.Int("nodes", n))
}
