package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/leapstack-labs/ezc/internal/cli/output"
	"github.com/leapstack-labs/ezc/internal/sema"
	"github.com/leapstack-labs/ezc/internal/state"
	"github.com/leapstack-labs/ezc/internal/unit"
	"github.com/leapstack-labs/ezc/pkg/ast"
	"github.com/leapstack-labs/ezc/pkg/core"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// ErrCheckFailed is returned when at least one unit fails to load or has
// semantic errors.
var ErrCheckFailed = errors.New("check failed")

// CheckOptions holds flags of the check command.
type CheckOptions struct {
	Severity string // Minimum severity shown: error, warning, info
	Jobs     int    // Units checked concurrently
	Save     bool   // Snapshot the tables of clean units
	Watch    bool   // Re-check when a file changes
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check <unit.yaml>...",
		Short: "Run the semantic pass over units",
		Long: `Load each unit, type-check its syntax tree and report diagnostics.

Every unit is checked with its own symbol tables, so units are checked
concurrently. The command fails when any unit cannot be loaded or has
semantic errors.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Check two units
  ezc check prog.yaml lib.yaml

  # Include implicit conversions in the report
  ezc check prog.yaml --severity info

  # Snapshot the tables of every clean unit
  ezc check prog.yaml --save

  # Re-check whenever a unit changes
  ezc check prog.yaml --watch`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Watch {
				return runCheckWatch(cmd, args, opts)
			}
			return runCheck(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Severity, "severity", "warning", "Minimum severity: error, warning, info")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", runtime.NumCPU(), "Number of units checked concurrently")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "Save a snapshot of each clean unit's tables")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-check when a unit file changes")

	return cmd
}

// unitResult is the outcome of checking one file.
type unitResult struct {
	Path    string
	Unit    *unit.Unit
	Result  *sema.Result
	Nodes   int
	LoadErr error
}

func (u unitResult) failed() bool {
	return u.LoadErr != nil || u.Result.HasErrors()
}

func (u unitResult) name() string {
	if u.Unit != nil {
		return u.Unit.Name
	}
	return u.Path
}

func runCheck(cmd *cobra.Command, paths []string, opts *CheckOptions) error {
	cc := NewCommandContext(cmd)
	threshold, ok := core.ParseSeverity(opts.Severity)
	if !ok {
		return fmt.Errorf("unknown severity %q (want error, warning or info)", opts.Severity)
	}
	return checkOnce(cmd.Context(), cc, paths, threshold, opts)
}

func checkOnce(ctx context.Context, cc *CommandContext, paths []string, threshold core.Severity, opts *CheckOptions) error {
	results, err := checkUnits(ctx, cc, paths, opts.Jobs)
	if err != nil {
		return err
	}
	defer func() {
		for _, res := range results {
			cc.closeUnit(res.Unit)
		}
	}()

	if opts.Save {
		if err := saveClean(ctx, cc, results); err != nil {
			return err
		}
	}

	if renderCheckResults(cc.Renderer, results, threshold) {
		return ErrCheckFailed
	}
	return nil
}

// checkUnits loads and checks every path. Results keep the order of paths.
// Per-unit failures are recorded in the result; the error is reserved for
// a cancelled context or a broken tree.
func checkUnits(ctx context.Context, cc *CommandContext, paths []string, jobs int) ([]unitResult, error) {
	results := make([]unitResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := unitResult{Path: path}
			u, err := cc.Loader.LoadFile(path)
			if err != nil {
				res.LoadErr = err
				results[i] = res
				return nil
			}
			res.Unit = u
			results[i] = res

			sr, err := sema.Check(u.Root, u.Tables, cc.Logger)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i].Result = sr
			results[i].Nodes = ast.Count(u.Root)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, res := range results {
			cc.closeUnit(res.Unit)
		}
		return nil, err
	}
	return results, nil
}

func saveClean(ctx context.Context, cc *CommandContext, results []unitResult) error {
	store, cleanup, err := cc.OpenStore()
	if err != nil {
		return err
	}
	defer cleanup()

	for _, res := range results {
		if res.failed() {
			continue
		}
		snap, err := saveUnit(ctx, cc, store, res)
		if err != nil {
			return err
		}
		cc.Logger.Info("saved snapshot",
			slog.String("unit", snap.Unit),
			slog.String("id", snap.ID))
	}
	return nil
}

// saveUnit snapshots the tables of a checked unit and prunes old snapshots
// of the same unit when a retention count is configured.
func saveUnit(ctx context.Context, cc *CommandContext, store state.Store, res unitResult) (*state.Snapshot, error) {
	snap, err := store.SaveSnapshot(ctx, res.Unit.Name, res.Unit.Tables,
		state.WithSourcePath(res.Path),
		state.WithNodeCount(res.Nodes))
	if err != nil {
		return nil, fmt.Errorf("failed to save snapshot of %s: %w", res.Unit.Name, err)
	}
	if cc.Cfg.Keep > 0 {
		n, err := store.PruneSnapshots(ctx, res.Unit.Name, cc.Cfg.Keep)
		if err != nil {
			return nil, fmt.Errorf("failed to prune snapshots of %s: %w", res.Unit.Name, err)
		}
		if n > 0 {
			cc.Logger.Debug("pruned snapshots", slog.String("unit", res.Unit.Name), slog.Int64("removed", n))
		}
	}
	return snap, nil
}

func visibleDiagnostics(res *sema.Result, threshold core.Severity) []sema.Diagnostic {
	if res == nil {
		return nil
	}
	var out []sema.Diagnostic
	for _, d := range res.Diagnostics {
		if d.Severity <= threshold {
			out = append(out, d)
		}
	}
	return out
}

func summarize(results []unitResult) output.CheckSummary {
	summary := output.CheckSummary{Units: len(results)}
	for _, res := range results {
		if res.failed() {
			summary.Failed++
		}
		if res.Result == nil {
			continue
		}
		summary.Errors += len(res.Result.Errors())
		summary.Warnings += len(res.Result.Warnings())
	}
	return summary
}

// renderCheckResults writes the report and reports whether any unit failed.
func renderCheckResults(r *output.Renderer, results []unitResult, threshold core.Severity) bool {
	summary := summarize(results)
	failed := summary.Failed > 0

	if r.EffectiveMode() == output.ModeJSON {
		out := output.CheckOutput{Summary: summary, Units: make([]output.UnitCheck, 0, len(results))}
		for _, res := range results {
			uc := output.UnitCheck{Unit: res.name(), Path: res.Path, Nodes: res.Nodes}
			if res.LoadErr != nil {
				uc.LoadError = res.LoadErr.Error()
			}
			if res.Result != nil {
				uc.Conversions = res.Result.Conversions
				uc.Errors = len(res.Result.Errors())
				uc.Warnings = len(res.Result.Warnings())
			}
			for _, d := range visibleDiagnostics(res.Result, threshold) {
				uc.Diagnostics = append(uc.Diagnostics, output.DiagnosticJSON{
					Code:     string(d.Code),
					Severity: d.Severity.String(),
					Message:  d.Message,
					Line:     d.Line,
				})
			}
			out.Units = append(out.Units, uc)
		}
		_ = r.JSON(out)
		return failed
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		r.Header(1, "Check results")
	}
	for _, res := range results {
		switch {
		case res.LoadErr != nil:
			r.StatusLine(res.Path, "error", res.LoadErr.Error())
			continue
		case res.Result.HasErrors():
			r.StatusLine(res.name(), "error", res.Path)
		case len(res.Result.Warnings()) > 0:
			r.StatusLine(res.name(), "warning", res.Path)
		default:
			r.StatusLine(res.name(), "success", fmt.Sprintf("%s (%d nodes, %d conversions)", res.Path, res.Nodes, res.Result.Conversions))
		}
		for _, d := range visibleDiagnostics(res.Result, threshold) {
			loc := "-"
			if d.Line > 0 {
				loc = fmt.Sprintf("%d", d.Line)
			}
			r.Printf("  %s  %s  %s  %s\n",
				r.Styles().Muted.Render(fmt.Sprintf("%-4s", loc)),
				severityStyle(r, d.Severity),
				r.Styles().Bold.Render(string(d.Code)),
				d.Message,
			)
		}
	}
	r.Println("")

	parts := []string{fmt.Sprintf("%d units", summary.Units)}
	if summary.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", summary.Failed))
	}
	if summary.Errors > 0 {
		parts = append(parts, fmt.Sprintf("%d errors", summary.Errors))
	}
	if summary.Warnings > 0 {
		parts = append(parts, fmt.Sprintf("%d warnings", summary.Warnings))
	}
	r.Printf("Summary: %s\n", strings.Join(parts, ", "))
	return failed
}

func severityStyle(r *output.Renderer, sev core.Severity) string {
	switch sev {
	case core.SeverityError:
		return r.Styles().Error.Render("error  ")
	case core.SeverityWarning:
		return r.Styles().Warning.Render("warning")
	case core.SeverityInfo:
		return r.Styles().Info.Render("info   ")
	default:
		return r.Styles().Muted.Render("unknown")
	}
}
