package sema

import (
	"fmt"

	"github.com/leapstack-labs/ezc/pkg/ast"
	"github.com/leapstack-labs/ezc/pkg/core"
)

// Code identifies the check that produced a diagnostic.
type Code string

// Diagnostic codes.
const (
	CodeUndeclared Code = "undeclared"
	CodeOperand    Code = "operand-type"
	CodeCondition  Code = "condition-type"
	CodeAssign     Code = "assignment"
	CodeInput      Code = "input-target"
	CodeIndex      Code = "index-type"
	CodeShape      Code = "malformed-node"
	CodeConversion Code = "implicit-conversion"
	CodeUnused     Code = "unused-variable"
)

// Diagnostic is a finding of the semantic pass.
type Diagnostic struct {
	Code     Code          `json:"code"`
	Severity core.Severity `json:"severity"`
	Message  string        `json:"message"`
	// Line is the source line of the variable involved, or 0 when the node
	// references no variable.
	Line int      `json:"line"`
	Node ast.Kind `json:"-"`
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", d.Line, d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}

// Result is the outcome of Check.
type Result struct {
	Diagnostics []Diagnostic `json:"diagnostics"`
	// Conversions is the number of conversion nodes inserted.
	Conversions int `json:"conversions"`
}

// HasErrors reports whether any diagnostic has error severity.
func (r *Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == core.SeverityError {
			return true
		}
	}
	return false
}

// Errors returns the diagnostics with error severity.
func (r *Result) Errors() []Diagnostic {
	return r.filter(core.SeverityError)
}

// Warnings returns the diagnostics with warning severity.
func (r *Result) Warnings() []Diagnostic {
	return r.filter(core.SeverityWarning)
}

func (r *Result) filter(s core.Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == s {
			out = append(out, d)
		}
	}
	return out
}
