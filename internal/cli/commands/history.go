package commands

import (
	"github.com/leapstack-labs/ezc/internal/cli/output"
	"github.com/leapstack-labs/ezc/internal/state"
	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [unit]",
		Short: "List saved snapshots",
		Long: `List snapshots in the state database, newest first.

Without a unit name, snapshots of every unit are listed.`,
		Example: `  # All snapshots
  ezc history

  # Snapshots of one unit as JSON
  ezc history prog -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			return runHistory(cmd, name)
		},
	}
	return cmd
}

func runHistory(cmd *cobra.Command, name string) error {
	cc := NewCommandContext(cmd)
	r := cc.Renderer

	store, cleanup, err := cc.OpenStore()
	if err != nil {
		return err
	}
	defer cleanup()

	snaps, err := store.ListSnapshots(cmd.Context(), name)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		if snaps == nil {
			snaps = []state.Snapshot{}
		}
		return r.JSON(snaps)
	}

	r.Header(1, "Snapshots")
	if len(snaps) == 0 {
		r.Muted("No snapshots found")
		return nil
	}
	rows := make([][]any, 0, len(snaps))
	for _, s := range snaps {
		rows = append(rows, []any{
			s.ID,
			s.Unit,
			s.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			s.Literals,
			s.Variables,
			s.Functions,
			s.Nodes,
		})
	}
	r.Table([]string{"ID", "Unit", "Created", "Literals", "Variables", "Functions", "Nodes"}, rows)
	return nil
}
