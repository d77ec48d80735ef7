package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/ezc/internal/cli/output"
	"github.com/leapstack-labs/ezc/internal/sema"
	"github.com/spf13/cobra"
)

// Health check statuses.
const (
	statusPass  = "pass"
	statusWarn  = "warn"
	statusError = "error"
)

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor [unit.yaml...]",
		Short: "Run a workspace health check",
		Long: `Check the ezc workspace and report a health summary.

The doctor command inspects:
- Configuration (config file, table limits)
- State database (schema version, snapshot history)
- Units given as arguments (load errors, semantic errors, unused variables)

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Check configuration and state
  ezc doctor

  # Include units in the report
  ezc doctor units/*.yaml -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd, args)
		},
	}
	return cmd
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	Summary         WorkspaceSummary `json:"summary"`
	HealthChecks    []HealthCheck    `json:"health_checks"`
	Score           int              `json:"score"`
	Recommendations []string         `json:"recommendations"`
	IssueCount      int              `json:"issue_count"`
}

// WorkspaceSummary contains workspace-level statistics.
type WorkspaceSummary struct {
	ConfigFile    string `json:"config_file,omitempty"`
	StatePath     string `json:"state_path"`
	SchemaVersion int64  `json:"schema_version"`
	Snapshots     int    `json:"snapshots"`
	Units         int    `json:"units"`
	Nodes         int    `json:"nodes"`
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	RuleID     string   `json:"rule_id"`
	Name       string   `json:"name"`
	Group      string   `json:"group"`
	Status     string   `json:"status"` // "pass", "warn", "error"
	IssueCount int      `json:"issue_count"`
	Details    []string `json:"details,omitempty"`
}

func (h *HealthCheck) issue(status, detail string) {
	if h.Status == statusPass || status == statusError {
		h.Status = status
	}
	h.IssueCount++
	h.Details = append(h.Details, detail)
}

func runDoctor(cmd *cobra.Command, paths []string) error {
	cc := NewCommandContext(cmd)
	r := cc.Renderer

	out := &DoctorOutput{Summary: WorkspaceSummary{
		ConfigFile: cc.Cfg.ConfigFile,
		StatePath:  cc.Cfg.StatePath,
		Units:      len(paths),
	}}

	out.HealthChecks = append(out.HealthChecks, configChecks(cc)...)
	out.HealthChecks = append(out.HealthChecks, stateChecks(cmd.Context(), cc, &out.Summary)...)
	if len(paths) > 0 {
		checks, err := unitChecks(cmd.Context(), cc, paths, &out.Summary)
		if err != nil {
			return err
		}
		out.HealthChecks = append(out.HealthChecks, checks...)
	}

	sort.SliceStable(out.HealthChecks, func(i, j int) bool {
		return out.HealthChecks[i].Group < out.HealthChecks[j].Group
	})
	for _, c := range out.HealthChecks {
		out.IssueCount += c.IssueCount
	}
	out.Score = calculateHealthScore(out.HealthChecks, len(paths))
	out.Recommendations = generateRecommendations(out.HealthChecks)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeMarkdown:
		renderDoctorMarkdown(r, out)
	default:
		renderDoctorText(r, out)
	}
	return nil
}

func configChecks(cc *CommandContext) []HealthCheck {
	file := HealthCheck{RuleID: "CF01", Name: "Configuration file", Group: "configuration", Status: statusPass}
	if cc.Cfg.ConfigFile == "" {
		file.issue(statusWarn, "no ezc.yaml found, using defaults")
	}

	limits := HealthCheck{RuleID: "CF02", Name: "Table limits", Group: "configuration", Status: statusPass}
	l := cc.Cfg.Limits
	if l.MaxLiterals == 0 && l.MaxVars == 0 && l.MaxFuncs == 0 {
		limits.issue(statusWarn, "no table has an entry limit")
	}
	return []HealthCheck{file, limits}
}

func stateChecks(ctx context.Context, cc *CommandContext, summary *WorkspaceSummary) []HealthCheck {
	db := HealthCheck{RuleID: "ST01", Name: "State database", Group: "state", Status: statusPass}
	history := HealthCheck{RuleID: "ST02", Name: "Snapshot history", Group: "state", Status: statusPass}

	if _, err := os.Stat(cc.Cfg.StatePath); errors.Is(err, os.ErrNotExist) {
		db.issue(statusWarn, fmt.Sprintf("%s does not exist yet", cc.Cfg.StatePath))
		return []HealthCheck{db, history}
	}

	store, cleanup, err := cc.OpenStore()
	if err != nil {
		db.issue(statusError, err.Error())
		return []HealthCheck{db, history}
	}
	defer cleanup()

	version, err := store.MigrationVersion()
	if err != nil {
		db.issue(statusError, err.Error())
	}
	summary.SchemaVersion = version

	snaps, err := store.ListSnapshots(ctx, "")
	if err != nil {
		history.issue(statusError, err.Error())
		return []HealthCheck{db, history}
	}
	summary.Snapshots = len(snaps)

	perUnit := make(map[string]int)
	for _, s := range snaps {
		perUnit[s.Unit]++
	}
	if cc.Cfg.Keep > 0 {
		for name, n := range perUnit {
			if n > cc.Cfg.Keep {
				history.issue(statusWarn, fmt.Sprintf("%s has %d snapshots, keep is %d", name, n, cc.Cfg.Keep))
			}
		}
	}
	sort.Strings(history.Details)
	return []HealthCheck{db, history}
}

func unitChecks(ctx context.Context, cc *CommandContext, paths []string, summary *WorkspaceSummary) ([]HealthCheck, error) {
	results, err := checkUnits(ctx, cc, paths, 0)
	if err != nil {
		return nil, err
	}
	defer func() {
		for _, res := range results {
			cc.closeUnit(res.Unit)
		}
	}()

	load := HealthCheck{RuleID: "UN01", Name: "Units load", Group: "units", Status: statusPass}
	semantic := HealthCheck{RuleID: "UN02", Name: "Semantic errors", Group: "units", Status: statusPass}
	unused := HealthCheck{RuleID: "UN03", Name: "Unused variables", Group: "units", Status: statusPass}

	for _, res := range results {
		summary.Nodes += res.Nodes
		if res.LoadErr != nil {
			load.issue(statusError, res.LoadErr.Error())
			continue
		}
		for _, d := range res.Result.Diagnostics {
			switch d.Code {
			case sema.CodeUnused:
				unused.issue(statusWarn, fmt.Sprintf("%s: %s", res.Unit.Name, d))
			case sema.CodeConversion:
			default:
				semantic.issue(statusError, fmt.Sprintf("%s: %s", res.Unit.Name, d))
			}
		}
	}
	return []HealthCheck{load, semantic, unused}, nil
}

// calculateHealthScore computes a health score from 0-100. With more
// units each individual issue has less impact; errors count double.
func calculateHealthScore(checks []HealthCheck, unitCount int) int {
	if len(checks) == 0 {
		return 100
	}

	score := 100.0
	basePenalty := 5.0
	if unitCount > 10 {
		basePenalty = 3.0
	}
	if unitCount > 50 {
		basePenalty = 2.0
	}

	for _, check := range checks {
		switch check.Status {
		case statusError:
			score -= float64(check.IssueCount) * basePenalty * 2
		case statusWarn:
			score -= float64(check.IssueCount) * basePenalty
		}
	}

	return int(min(max(score, 0), 100))
}

// generateRecommendations returns one recommendation per failing rule.
func generateRecommendations(checks []HealthCheck) []string {
	var recommendations []string
	for _, check := range checks {
		if check.IssueCount == 0 {
			continue
		}
		if rec := getRecommendation(check.RuleID); rec != "" {
			recommendations = append(recommendations, rec)
		}
	}
	return recommendations
}

func getRecommendation(ruleID string) string {
	switch ruleID {
	case "CF01":
		return "Run 'ezc init' to create an ezc.yaml"
	case "CF02":
		return "Set limits.max_literals, limits.max_vars and limits.max_funcs to bound table growth"
	case "ST01":
		return "Save a snapshot with 'ezc snapshot' to create the state database"
	case "ST02":
		return "Save a new snapshot to apply the keep setting"
	case "UN01":
		return "Fix units that fail to load before checking them"
	case "UN02":
		return "Run 'ezc check' for the full list of semantic errors"
	case "UN03":
		return "Remove declarations that are never used"
	default:
		return ""
	}
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) {
	styles := r.Styles()

	r.Println(styles.Header.Render("ezc Workspace Health Report"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	r.Println("")

	r.Println(styles.Header.Render("Workspace Summary"))
	config := out.Summary.ConfigFile
	if config == "" {
		config = "(defaults)"
	}
	r.Printf("   Config: %s | State: %s\n", config, out.Summary.StatePath)
	r.Printf("   Schema: v%d | Snapshots: %d | Units: %d | Nodes: %d\n",
		out.Summary.SchemaVersion, out.Summary.Snapshots, out.Summary.Units, out.Summary.Nodes)
	r.Println("")

	r.Println(styles.Header.Render("Health Checks"))
	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(styles.Bold.Render("   " + titleCaser.String(currentGroup)))
			r.Println(styles.Muted.Render("   " + strings.Repeat("-", 40)))
		}

		icon := styles.Success.Render("✓")
		switch check.Status {
		case statusWarn:
			icon = styles.Warning.Render("!")
		case statusError:
			icon = styles.Error.Render("✗")
		}
		status := fmt.Sprintf("%s %s: %s", icon, check.RuleID, check.Name)
		if check.IssueCount > 0 {
			status += fmt.Sprintf(" (%d issues)", check.IssueCount)
		}
		r.Println("   " + status)

		for i, detail := range check.Details {
			if i >= 3 {
				r.Println(styles.Muted.Render(fmt.Sprintf("       ... and %d more", len(check.Details)-3)))
				break
			}
			r.Println(styles.Muted.Render("       - " + detail))
		}
	}
	r.Println("")

	scoreStyle := styles.Success
	if out.Score < 70 {
		scoreStyle = styles.Warning
	}
	if out.Score < 50 {
		scoreStyle = styles.Error
	}
	r.Printf("   Health Score: %s\n", scoreStyle.Render(fmt.Sprintf("%d/100", out.Score)))

	if len(out.Recommendations) > 0 {
		r.Println("")
		r.Println(styles.Header.Render("Recommendations"))
		for i, rec := range out.Recommendations {
			r.Printf("   %d. %s\n", i+1, rec)
		}
	}
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) {
	r.Println("# ezc Workspace Health Report")
	r.Println("")

	r.Println("## Workspace Summary")
	r.Println("")
	if out.Summary.ConfigFile != "" {
		r.Println(output.FormatKeyValue("Config", out.Summary.ConfigFile))
	}
	r.Println(output.FormatKeyValue("State", out.Summary.StatePath))
	r.Println(output.FormatKeyValue("Schema version", fmt.Sprintf("%d", out.Summary.SchemaVersion)))
	r.Println(output.FormatKeyValue("Snapshots", fmt.Sprintf("%d", out.Summary.Snapshots)))
	r.Println(output.FormatKeyValue("Units", fmt.Sprintf("%d", out.Summary.Units)))
	r.Println("")

	r.Println("## Health Checks")
	r.Println("")
	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println("### " + titleCaser.String(currentGroup))
			r.Println("")
		}
		r.Printf("- **[%s]** %s: %s", strings.ToUpper(check.Status), check.RuleID, check.Name)
		if check.IssueCount > 0 {
			r.Printf(" (%d issues)", check.IssueCount)
		}
		r.Println("")
		for _, detail := range check.Details {
			r.Printf("  - %s\n", detail)
		}
	}
	r.Println("")

	r.Println("## Health Score")
	r.Println("")
	r.Printf("**%d/100**\n", out.Score)

	if len(out.Recommendations) > 0 {
		r.Println("")
		r.Println("## Recommendations")
		r.Println("")
		for i, rec := range out.Recommendations {
			r.Printf("%d. %s\n", i+1, rec)
		}
	}
}
