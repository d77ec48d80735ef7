package commands

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/ezc/internal/cli/output"
	"github.com/leapstack-labs/ezc/pkg/symtab"
	"github.com/spf13/cobra"
)

// TablesOptions holds flags of the tables command.
type TablesOptions struct {
	Snapshot string
	Raw      bool
}

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	opts := &TablesOptions{}
	cmd := &cobra.Command{
		Use:   "tables [unit.yaml]",
		Short: "Show the symbol tables of a unit",
		Long: `Show the literal, variable and function tables of a unit.

The tables are built by loading the unit, or restored from a saved
snapshot with --snapshot.

Output adapts to environment:
  - Terminal: Styled tables
  - Piped/Scripted: Markdown tables
  - JSON: Machine-readable format`,
		Example: `  # Tables of a unit
  ezc tables prog.yaml

  # Tables of a saved snapshot
  ezc tables --snapshot 2f6c...

  # Plain dump, one entry per line
  ezc tables prog.yaml --raw`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			return runTables(cmd, path, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Snapshot, "snapshot", "", "Show a saved snapshot instead of loading a unit")
	cmd.Flags().BoolVar(&opts.Raw, "raw", false, "Dump the tables as plain text")

	return cmd
}

func runTables(cmd *cobra.Command, path string, opts *TablesOptions) error {
	switch {
	case path == "" && opts.Snapshot == "":
		return errors.New("either a unit file or --snapshot is required")
	case path != "" && opts.Snapshot != "":
		return errors.New("a unit file and --snapshot cannot be combined")
	}

	cc := NewCommandContext(cmd)

	var (
		name   string
		tables *symtab.Tables
	)
	if opts.Snapshot != "" {
		store, cleanup, err := cc.OpenStore()
		if err != nil {
			return err
		}
		defer cleanup()

		snap, err := store.GetSnapshot(cmd.Context(), opts.Snapshot)
		if err != nil {
			return err
		}
		tables, err = store.LoadSnapshot(cmd.Context(), opts.Snapshot)
		if err != nil {
			return err
		}
		name = snap.Unit
	} else {
		u, err := cc.Loader.LoadFile(path)
		if err != nil {
			return err
		}
		defer cc.closeUnit(u)
		name, tables = u.Name, u.Tables
	}

	r := cc.Renderer
	if opts.Raw {
		return tables.Fprint(r.Writer())
	}
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(tablesOutput(name, opts.Snapshot, tables))
	}

	r.Header(1, fmt.Sprintf("Symbol tables: %s", name))
	renderTables(r, tables)
	return nil
}

func tablesOutput(name, snapshot string, t *symtab.Tables) output.TablesOutput {
	out := output.TablesOutput{
		Unit:      name,
		Snapshot:  snapshot,
		Literals:  make([]output.LiteralJSON, 0, t.Literals.Len()),
		Variables: make([]output.VariableJSON, 0, t.Vars.Len()),
		Functions: make([]output.FunctionJSON, 0, t.Funcs.Len()),
	}
	for i, text := range t.Literals.Entries() {
		out.Literals = append(out.Literals, output.LiteralJSON{Index: i, Text: text})
	}
	for i, e := range t.Vars.Entries() {
		out.Variables = append(out.Variables, output.VariableJSON{
			Index: i, Name: e.Name, Line: e.Line, Scope: e.Scope, Size: e.Size,
		})
	}
	for i, e := range t.Funcs.Entries() {
		out.Functions = append(out.Functions, output.FunctionJSON{
			Index: i, Name: e.Name, Line: e.Line, Arity: e.Arity,
		})
	}
	return out
}

func renderTables(r *output.Renderer, t *symtab.Tables) {
	r.Header(2, "Literals")
	rows := make([][]any, 0, t.Literals.Len())
	for i, text := range t.Literals.Entries() {
		rows = append(rows, []any{i, text})
	}
	renderTableOrNone(r, []string{"Index", "Text"}, rows)

	r.Header(2, "Variables")
	rows = make([][]any, 0, t.Vars.Len())
	for i, e := range t.Vars.Entries() {
		rows = append(rows, []any{i, e.Name, e.Line, e.Scope, sizeLabel(e)})
	}
	renderTableOrNone(r, []string{"Index", "Name", "Line", "Scope", "Size"}, rows)

	r.Header(2, "Functions")
	rows = make([][]any, 0, t.Funcs.Len())
	for i, e := range t.Funcs.Entries() {
		rows = append(rows, []any{i, e.Name, e.Line, e.Arity})
	}
	renderTableOrNone(r, []string{"Index", "Name", "Line", "Arity"}, rows)
}

func renderTableOrNone(r *output.Renderer, header []string, rows [][]any) {
	if len(rows) == 0 {
		r.Muted("(none)")
	} else {
		r.Table(header, rows)
	}
	r.Println("")
}

func sizeLabel(e symtab.VarEntry) string {
	switch {
	case e.IsArrayRef():
		return "array ref"
	case e.IsArray():
		return fmt.Sprintf("%d", e.Size)
	default:
		return "scalar"
	}
}
