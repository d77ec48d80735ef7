package commands

import (
	"fmt"

	"github.com/leapstack-labs/ezc/internal/cli/output"
	"github.com/leapstack-labs/ezc/internal/sema"
	"github.com/leapstack-labs/ezc/pkg/ast"
	"github.com/spf13/cobra"
)

// SnapshotOptions holds flags of the snapshot command.
type SnapshotOptions struct {
	Force bool
}

// NewSnapshotCommand creates the snapshot command.
func NewSnapshotCommand() *cobra.Command {
	opts := &SnapshotOptions{}
	cmd := &cobra.Command{
		Use:   "snapshot <unit.yaml>",
		Short: "Save the symbol tables of a unit",
		Long: `Load and check a unit, then save its symbol tables to the state
database. Units with semantic errors are refused unless --force is set.

When keep is configured, older snapshots of the same unit beyond that
count are removed.`,
		Example: `  # Save a snapshot
  ezc snapshot prog.yaml

  # Keep only the three newest snapshots
  ezc snapshot prog.yaml --keep 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "Save even if the unit has semantic errors")

	return cmd
}

func runSnapshot(cmd *cobra.Command, path string, opts *SnapshotOptions) error {
	cc := NewCommandContext(cmd)
	r := cc.Renderer

	u, err := cc.Loader.LoadFile(path)
	if err != nil {
		return err
	}
	defer cc.closeUnit(u)

	res, err := sema.Check(u.Root, u.Tables, cc.Logger)
	if err != nil {
		return fmt.Errorf("semantic pass failed: %w", err)
	}
	if res.HasErrors() {
		for _, d := range res.Errors() {
			r.Warning(fmt.Sprintf("%s: %s", u.Name, d))
		}
		if !opts.Force {
			return fmt.Errorf("%s has %d semantic errors: %w", u.Name, len(res.Errors()), ErrCheckFailed)
		}
	}

	store, cleanup, err := cc.OpenStore()
	if err != nil {
		return err
	}
	defer cleanup()

	snap, err := saveUnit(cmd.Context(), cc, store, unitResult{
		Path:   path,
		Unit:   u,
		Result: res,
		Nodes:  ast.Count(u.Root),
	})
	if err != nil {
		return err
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(snap)
	case output.ModeMarkdown:
		r.Header(1, "Snapshot saved")
		r.Println(output.FormatKeyValue("ID", snap.ID))
		r.Println(output.FormatKeyValue("Unit", snap.Unit))
		r.Println(output.FormatKeyValue("Literals", fmt.Sprintf("%d", snap.Literals)))
		r.Println(output.FormatKeyValue("Variables", fmt.Sprintf("%d", snap.Variables)))
		r.Println(output.FormatKeyValue("Functions", fmt.Sprintf("%d", snap.Functions)))
	default:
		r.Success(fmt.Sprintf("Saved snapshot of %s", snap.Unit))
		r.Println(r.Styles().ID.Render(snap.ID))
	}
	return nil
}
