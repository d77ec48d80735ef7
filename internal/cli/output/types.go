package output

// DiagnosticJSON is a semantic diagnostic in JSON output.
type DiagnosticJSON struct {
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Line     int    `json:"line,omitempty"`
}

// UnitCheck is the check result of one unit.
type UnitCheck struct {
	Unit        string           `json:"unit"`
	Path        string           `json:"path"`
	Nodes       int              `json:"nodes"`
	Conversions int              `json:"conversions"`
	Errors      int              `json:"errors"`
	Warnings    int              `json:"warnings"`
	LoadError   string           `json:"load_error,omitempty"`
	Diagnostics []DiagnosticJSON `json:"diagnostics,omitempty"`
}

// CheckSummary totals a check run.
type CheckSummary struct {
	Units    int `json:"units"`
	Failed   int `json:"failed"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

// CheckOutput is the JSON output of the check command.
type CheckOutput struct {
	Summary CheckSummary `json:"summary"`
	Units   []UnitCheck  `json:"units"`
}

// LiteralJSON is a literal-table entry.
type LiteralJSON struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// VariableJSON is a variable-table entry.
type VariableJSON struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Line  int    `json:"line"`
	Scope int    `json:"scope"`
	Size  int    `json:"size"`
}

// FunctionJSON is a function-table entry.
type FunctionJSON struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Line  int    `json:"line"`
	Arity int    `json:"arity"`
}

// TablesOutput is the JSON output of the tables command.
type TablesOutput struct {
	Unit      string         `json:"unit"`
	Snapshot  string         `json:"snapshot,omitempty"`
	Literals  []LiteralJSON  `json:"literals"`
	Variables []VariableJSON `json:"variables"`
	Functions []FunctionJSON `json:"functions"`
}

// RenderOutput is the JSON output of the render command.
type RenderOutput struct {
	Unit   string `json:"unit"`
	Format string `json:"format"`
	Nodes  int    `json:"nodes"`
	Tree   string `json:"tree"`
}
