package sema

import (
	"github.com/leapstack-labs/ezc/pkg/ast"
	"github.com/leapstack-labs/ezc/pkg/core"
)

// ruleFunc checks one node after its children and returns the node's type.
// A returned error aborts the pass; type problems are reported through
// the checker instead.
type ruleFunc func(c *checker, n *ast.Node) (core.Type, error)

// rules maps node kinds to their checks. Kinds without an entry keep
// the type they were built with.
var rules = map[ast.Kind]ruleFunc{
	ast.BoolVal: checkLiteral,
	ast.IntVal:  checkLiteral,
	ast.RealVal: checkLiteral,
	ast.StrVal:  checkLiteral,

	ast.VarUse: checkVarUse,

	ast.Plus:  checkArithmetic,
	ast.Minus: checkArithmetic,
	ast.Times: checkArithmetic,
	ast.Over:  checkArithmetic,

	ast.Eq:  checkComparison,
	ast.Neq: checkComparison,
	ast.Lt:  checkComparison,
	ast.Le:  checkComparison,
	ast.Gt:  checkComparison,
	ast.Ge:  checkComparison,

	ast.Assign: checkAssign,
	ast.If:     checkCondition,
	ast.While:  checkCondition,
	ast.Input:  checkInput,
	ast.Output: checkOutput,

	ast.B2I: checkConversion,
	ast.B2R: checkConversion,
	ast.B2S: checkConversion,
	ast.I2R: checkConversion,
	ast.I2S: checkConversion,
	ast.R2S: checkConversion,
}

var literalTypes = map[ast.Kind]core.Type{
	ast.BoolVal: core.Boolean,
	ast.IntVal:  core.Integer,
	ast.RealVal: core.Real,
	ast.StrVal:  core.String,
}

func isNumeric(t core.Type) bool {
	return t == core.Integer || t == core.Real
}

func checkLiteral(_ *checker, n *ast.Node) (core.Type, error) {
	return literalTypes[n.Kind()], nil
}

// checkVarUse stamps the use with the declared type of its variable. An
// optional single child is an array index and must be an int.
func checkVarUse(c *checker, n *ast.Node) (core.Type, error) {
	idx, _ := n.VarIndex()
	c.used[idx] = true

	if !c.arity(n, 0, 1) {
		return core.NoType, nil
	}
	if n.ChildCount() == 1 {
		if _, t, ok := c.operand(n, 0); ok && t != core.Integer {
			c.errorf(CodeIndex, n, "index of %s must be int, got %s", c.varName(idx), t)
			return core.NoType, nil
		}
	}

	t, ok := c.decls[idx]
	if !ok {
		c.errorf(CodeUndeclared, n, "variable %s used but not declared", c.varName(idx))
		return core.NoType, nil
	}
	return t, nil
}

// checkArithmetic types + over any two valid types and - * / over
// numeric types; the result is the wider operand type.
func checkArithmetic(c *checker, n *ast.Node) (core.Type, error) {
	l, r, ok := binary(c, n)
	if !ok {
		return core.NoType, nil
	}
	if n.Kind() != ast.Plus && (!isNumeric(l) || !isNumeric(r)) {
		c.errorf(CodeOperand, n, "operator %s requires numeric operands, got %s and %s", n.Kind(), l, r)
		return core.NoType, nil
	}
	t := core.Max(l, r)
	return t, widenBoth(c, n, t)
}

// checkComparison accepts numeric with numeric and string with string
// for every comparison, and bool with bool for == and !=.
func checkComparison(c *checker, n *ast.Node) (core.Type, error) {
	l, r, ok := binary(c, n)
	if !ok {
		return core.NoType, nil
	}
	switch {
	case isNumeric(l) && isNumeric(r):
		if err := widenBoth(c, n, core.Max(l, r)); err != nil {
			return core.NoType, err
		}
	case l == core.String && r == core.String:
	case l == core.Boolean && r == core.Boolean && (n.Kind() == ast.Eq || n.Kind() == ast.Neq):
	default:
		c.errorf(CodeOperand, n, "cannot compare %s with %s using %s", l, r, n.Kind())
		return core.NoType, nil
	}
	return core.Boolean, nil
}

// checkAssign widens the value to the type of the target variable.
// Narrowing assignments are errors.
func checkAssign(c *checker, n *ast.Node) (core.Type, error) {
	if !c.arity(n, 2, 2) {
		return core.NoType, nil
	}
	target, lt, lok := c.operand(n, 0)
	if target != nil && target.Kind() != ast.VarUse {
		c.errorf(CodeAssign, n, "cannot assign to %s", target.Kind())
		return core.NoType, nil
	}
	_, rt, rok := c.operand(n, 1)
	if !lok || !rok {
		return core.NoType, nil
	}

	switch {
	case rt == lt:
	case rt.WidensTo(lt):
		if err := c.widen(n, 1, lt); err != nil {
			return core.NoType, err
		}
	default:
		idx, _ := target.VarIndex()
		c.errorf(CodeAssign, n, "cannot assign %s value to %s variable %s", rt, lt, c.varName(idx))
		return core.NoType, nil
	}
	return lt, nil
}

// checkCondition requires the first child of if and while to be a bool.
// if takes an optional else branch.
func checkCondition(c *checker, n *ast.Node) (core.Type, error) {
	hi := 2
	if n.Kind() == ast.If {
		hi = 3
	}
	if !c.arity(n, 2, hi) {
		return core.NoType, nil
	}
	if _, t, ok := c.operand(n, 0); ok && t != core.Boolean {
		c.errorf(CodeCondition, n, "%s condition must be bool, got %s", n.Kind(), t)
	}
	return core.NoType, nil
}

func checkInput(c *checker, n *ast.Node) (core.Type, error) {
	if !c.arity(n, 1, 1) {
		return core.NoType, nil
	}
	target, _ := n.Child(0)
	if target.Kind() != ast.VarUse {
		c.errorf(CodeInput, n, "input target must be a variable, got %s", target.Kind())
	}
	return core.NoType, nil
}

func checkOutput(c *checker, n *ast.Node) (core.Type, error) {
	if c.arity(n, 1, 1) {
		c.operand(n, 0)
	}
	return core.NoType, nil
}

// checkConversion validates a conversion node that is already in the tree.
func checkConversion(c *checker, n *ast.Node) (core.Type, error) {
	from, to, _ := n.Kind().Conversion()
	if !c.arity(n, 1, 1) {
		return core.NoType, nil
	}
	_, t, ok := c.operand(n, 0)
	if !ok {
		return core.NoType, nil
	}
	if t != from {
		c.errorf(CodeShape, n, "%s expects a %s operand, got %s", n.Kind(), from, t)
		return core.NoType, nil
	}
	return to, nil
}

func binary(c *checker, n *ast.Node) (core.Type, core.Type, bool) {
	if !c.arity(n, 2, 2) {
		return core.NoType, core.NoType, false
	}
	_, l, lok := c.operand(n, 0)
	_, r, rok := c.operand(n, 1)
	return l, r, lok && rok
}

func widenBoth(c *checker, n *ast.Node, t core.Type) error {
	for i := 0; i < 2; i++ {
		if err := c.widen(n, i, t); err != nil {
			return err
		}
	}
	return nil
}
