package sema

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/ezc/pkg/ast"
	"github.com/leapstack-labs/ezc/pkg/core"
	"github.com/leapstack-labs/ezc/pkg/symtab"
)

// checker holds the state of one run over one tree.
type checker struct {
	tables *symtab.Tables
	logger *slog.Logger
	result *Result

	decls     map[int]core.Type
	declOrder []int
	used      map[int]bool
	// failed marks nodes stamped NoType because of a reported error, so
	// their parents stay quiet instead of reporting the same problem again.
	failed map[*ast.Node]bool
}

// Check runs the semantic pass over the tree rooted at root, modifying it
// in place. Type problems are returned as diagnostics in the Result; the
// error is reserved for unusable input.
func Check(root *ast.Node, tables *symtab.Tables, logger *slog.Logger) (*Result, error) {
	if root == nil {
		return nil, errors.New("nil tree")
	}
	if tables == nil {
		return nil, errors.New("nil symbol tables")
	}
	if root.Released() {
		return nil, core.ErrReleased
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	c := &checker{
		tables: tables,
		logger: logger,
		result: &Result{},
		decls:  make(map[int]core.Type),
		used:   make(map[int]bool),
		failed: make(map[*ast.Node]bool),
	}
	c.collectDecls(root)
	if err := c.visit(root); err != nil {
		return nil, err
	}
	c.reportUnused()

	logger.Debug("semantic pass finished",
		slog.Int("nodes", ast.Count(root)),
		slog.Int("diagnostics", len(c.result.Diagnostics)),
		slog.Int("conversions", c.result.Conversions))
	return c.result, nil
}

// collectDecls records the declared type of every variable. Declarations
// may appear anywhere in the tree, so this runs before any use is stamped.
func (c *checker) collectDecls(root *ast.Node) {
	ast.Walk(root, func(n *ast.Node, _ int) bool {
		if n.Kind() != ast.VarDecl {
			return true
		}
		idx, _ := n.VarIndex()
		if !n.Type().Valid() {
			c.errorf(CodeShape, n, "declaration of %s has no type", c.varName(idx))
			return true
		}
		if _, seen := c.decls[idx]; !seen {
			c.decls[idx] = n.Type()
			c.declOrder = append(c.declOrder, idx)
		}
		return true
	})
}

// visit checks children first, then applies the rule for n's kind.
func (c *checker) visit(n *ast.Node) error {
	for i := 0; i < n.ChildCount(); i++ {
		child, err := n.Child(i)
		if err != nil {
			return err
		}
		if err := c.visit(child); err != nil {
			return err
		}
	}

	check, ok := rules[n.Kind()]
	if !ok {
		return nil
	}
	t, err := check(c, n)
	if err != nil {
		return fmt.Errorf("%s node: %w", n.Kind(), err)
	}
	n.SetType(t)
	if !t.Valid() && c.anyChildFailed(n) {
		c.failed[n] = true
	}
	return nil
}

func (c *checker) anyChildFailed(n *ast.Node) bool {
	for _, child := range n.Children() {
		if c.failed[child] {
			return true
		}
	}
	return false
}

// widen converts operand i of n to type to, if it is not already of that
// type.
func (c *checker) widen(n *ast.Node, i int, to core.Type) error {
	child, err := n.Child(i)
	if err != nil {
		return err
	}
	from := child.Type()
	if from == to {
		return nil
	}
	w, err := n.WidenChild(i, to)
	if err != nil {
		return err
	}
	c.result.Conversions++
	c.report(CodeConversion, core.SeverityInfo, child,
		fmt.Sprintf("implicit conversion %s from %s to %s", w.Kind(), from, to))
	c.logger.Debug("inserted conversion",
		slog.String("parent", n.Kind().String()),
		slog.String("conversion", w.Kind().String()))
	return nil
}

// operand returns child i of n and its type. ok is false when the child
// failed an earlier check; a child without a type that did not fail is a
// malformed tree and is reported here.
func (c *checker) operand(n *ast.Node, i int) (*ast.Node, core.Type, bool) {
	child, err := n.Child(i)
	if err != nil {
		return nil, core.NoType, false
	}
	t := child.Type()
	if t.Valid() {
		return child, t, true
	}
	if !c.failed[child] {
		c.errorf(CodeShape, n, "operand %d of %s has no type", i, n.Kind())
	}
	return child, core.NoType, false
}

// arity reports a malformed node unless it has between lo and hi
// children.
func (c *checker) arity(n *ast.Node, lo, hi int) bool {
	if got := n.ChildCount(); got < lo || got > hi {
		if lo == hi {
			c.errorf(CodeShape, n, "%s expects %d children, has %d", n.Kind(), lo, got)
		} else {
			c.errorf(CodeShape, n, "%s expects %d to %d children, has %d", n.Kind(), lo, hi, got)
		}
		return false
	}
	return true
}

func (c *checker) errorf(code Code, n *ast.Node, format string, args ...any) {
	c.failed[n] = true
	c.report(code, core.SeverityError, n, fmt.Sprintf(format, args...))
}

func (c *checker) report(code Code, sev core.Severity, n *ast.Node, msg string) {
	c.result.Diagnostics = append(c.result.Diagnostics, Diagnostic{
		Code:     code,
		Severity: sev,
		Message:  msg,
		Line:     c.lineOf(n),
		Node:     n.Kind(),
	})
}

// lineOf returns the declaration line of the first variable referenced in
// the subtree of n, or 0.
func (c *checker) lineOf(n *ast.Node) int {
	line := 0
	ast.Walk(n, func(m *ast.Node, _ int) bool {
		if line > 0 {
			return false
		}
		if idx, ok := m.VarIndex(); ok {
			if l, err := c.tables.Vars.Line(idx); err == nil {
				line = l
			}
			return false
		}
		return true
	})
	return line
}

func (c *checker) varName(idx int) string {
	if name, err := c.tables.Vars.Name(idx); err == nil {
		return name
	}
	return fmt.Sprintf("@%d", idx)
}

func (c *checker) reportUnused() {
	for _, idx := range c.declOrder {
		if c.used[idx] {
			continue
		}
		line, _ := c.tables.Vars.Line(idx)
		c.result.Diagnostics = append(c.result.Diagnostics, Diagnostic{
			Code:     CodeUnused,
			Severity: core.SeverityWarning,
			Message:  fmt.Sprintf("variable %s declared but never used", c.varName(idx)),
			Line:     line,
			Node:     ast.VarDecl,
		})
	}
}
