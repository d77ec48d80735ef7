package unit

import (
	"fmt"

	"github.com/leapstack-labs/ezc/pkg/ast"
	"github.com/leapstack-labs/ezc/pkg/core"
	"github.com/leapstack-labs/ezc/pkg/symtab"
)

const globalScope = 0

// builder declares symbols and assembles the tree of one document.
type builder struct {
	unit   string
	tables *symtab.Tables
}

func (b *builder) errorf(line int, sentinel error, format string, args ...any) error {
	return &LoadError{Unit: b.unit, Line: line, Err: fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), sentinel)}
}

func (b *builder) wrap(line int, err error) error {
	if err == nil {
		return nil
	}
	return &LoadError{Unit: b.unit, Line: line, Err: err}
}

// build returns the root block:
//
//	block
//	  var_list   (globals)
//	  block      (one per function: var_list params, var_list locals, body...)
//	  block      (main body)
func (b *builder) build(doc *Document) (*ast.Node, error) {
	globals, err := b.declareAll(doc.Globals, globalScope, false)
	if err != nil {
		return nil, err
	}
	parts := []*ast.Node{globals}

	for _, fn := range doc.Functions {
		n, err := b.function(fn)
		if err != nil {
			return nil, err
		}
		parts = append(parts, n)
	}

	main, err := b.block(doc.Body, globalScope)
	if err != nil {
		return nil, err
	}
	parts = append(parts, main)
	return ast.NewSubtree(ast.Block, core.NoType, parts...)
}

func (b *builder) function(fn Function) (*ast.Node, error) {
	if fn.Name == "" {
		return nil, b.errorf(fn.Line, ErrInvalidDecl, "function without a name")
	}
	if _, exists := b.tables.Funcs.Lookup(fn.Name); exists {
		return nil, b.errorf(fn.Line, ErrRedeclared, "function %q", fn.Name)
	}
	idx, err := b.tables.Funcs.Declare(fn.Name, fn.Line)
	if err != nil {
		return nil, b.wrap(fn.Line, err)
	}
	scope := idx + 1

	params, err := b.declareAll(fn.Params, scope, true)
	if err != nil {
		return nil, err
	}
	if err := b.tables.Funcs.SetArity(idx, len(fn.Params)); err != nil {
		return nil, b.wrap(fn.Line, err)
	}
	locals, err := b.declareAll(fn.Locals, scope, false)
	if err != nil {
		return nil, err
	}

	stmts, err := b.statements(fn.Body, scope)
	if err != nil {
		return nil, err
	}
	return ast.NewSubtree(ast.Block, core.NoType, append([]*ast.Node{params, locals}, stmts...)...)
}

// declareAll declares decls in scope and returns the var_list holding
// their declaration nodes.
func (b *builder) declareAll(decls []Decl, scope int, params bool) (*ast.Node, error) {
	list := ast.New(ast.VarList, 0, core.NoType)
	for _, d := range decls {
		n, err := b.declare(d, scope, params)
		if err != nil {
			return nil, err
		}
		if err := list.AddChild(n); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (b *builder) declare(d Decl, scope int, param bool) (*ast.Node, error) {
	if d.Name == "" {
		return nil, b.errorf(d.Line, ErrInvalidDecl, "variable without a name")
	}
	typ, err := core.ParseType(d.Type)
	if err != nil {
		return nil, b.errorf(d.Line, ErrUnknownType, "variable %q has type %q", d.Name, d.Type)
	}

	size := d.Size
	switch {
	case d.Array && !param:
		return nil, b.errorf(d.Line, ErrInvalidDecl, "variable %q: only parameters can be array references", d.Name)
	case d.Array && d.Size != 0:
		return nil, b.errorf(d.Line, ErrInvalidDecl, "parameter %q: array references have no size", d.Name)
	case param && d.Size != 0:
		return nil, b.errorf(d.Line, ErrInvalidDecl, "parameter %q: pass arrays with array: true", d.Name)
	case d.Size < 0:
		return nil, b.errorf(d.Line, ErrInvalidDecl, "variable %q has negative size %d", d.Name, d.Size)
	case d.Array:
		size = symtab.ArrayRef
	}

	if prev, exists := b.tables.Vars.Lookup(d.Name, scope); exists {
		line, _ := b.tables.Vars.Line(prev)
		return nil, b.errorf(d.Line, ErrRedeclared, "variable %q in scope %d (first declared on line %d)", d.Name, scope, line)
	}
	idx, err := b.tables.Vars.Declare(d.Name, d.Line, scope, size)
	if err != nil {
		return nil, b.wrap(d.Line, err)
	}
	return ast.NewVarDecl(idx, typ), nil
}

// resolve finds name in scope, falling back to the global scope.
func (b *builder) resolve(name string, scope, line int) (int, error) {
	if idx, ok := b.tables.Vars.Lookup(name, scope); ok {
		return idx, nil
	}
	if scope != globalScope {
		if idx, ok := b.tables.Vars.Lookup(name, globalScope); ok {
			return idx, nil
		}
	}
	return -1, b.errorf(line, ErrUndeclared, "variable %q", name)
}

func (b *builder) block(stmts []Stmt, scope int) (*ast.Node, error) {
	nodes, err := b.statements(stmts, scope)
	if err != nil {
		return nil, err
	}
	return ast.NewSubtree(ast.Block, core.NoType, nodes...)
}

func (b *builder) statements(stmts []Stmt, scope int) ([]*ast.Node, error) {
	nodes := make([]*ast.Node, 0, len(stmts))
	for _, s := range stmts {
		n, err := b.statement(s, scope)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func (b *builder) statement(s Stmt, scope int) (*ast.Node, error) {
	switch s.Op {
	case StmtAssign:
		target, err := b.varUse(s.Target, s.Index, scope, s.Line)
		if err != nil {
			return nil, err
		}
		value, err := b.expr(s.Value, scope)
		if err != nil {
			return nil, err
		}
		return ast.NewSubtree(ast.Assign, core.NoType, target, value)

	case StmtInput:
		target, err := b.varUse(s.Target, s.Index, scope, s.Line)
		if err != nil {
			return nil, err
		}
		return ast.NewSubtree(ast.Input, core.NoType, target)

	case StmtOutput:
		value, err := b.expr(s.Value, scope)
		if err != nil {
			return nil, err
		}
		return ast.NewSubtree(ast.Output, core.NoType, value)

	case StmtIf:
		cond, err := b.expr(s.Cond, scope)
		if err != nil {
			return nil, err
		}
		then, err := b.block(s.Then, scope)
		if err != nil {
			return nil, err
		}
		children := []*ast.Node{cond, then}
		if len(s.Else) > 0 {
			els, err := b.block(s.Else, scope)
			if err != nil {
				return nil, err
			}
			children = append(children, els)
		}
		return ast.NewSubtree(ast.If, core.NoType, children...)

	case StmtWhile:
		cond, err := b.expr(s.Cond, scope)
		if err != nil {
			return nil, err
		}
		body, err := b.block(s.Body, scope)
		if err != nil {
			return nil, err
		}
		return ast.NewSubtree(ast.While, core.NoType, cond, body)

	case StmtBlock:
		return b.block(s.Body, scope)
	}
	return nil, b.errorf(s.Line, ErrInvalidDecl, "unknown statement %q", s.Op)
}

func (b *builder) varUse(name string, index *Expr, scope, line int) (*ast.Node, error) {
	idx, err := b.resolve(name, scope, line)
	if err != nil {
		return nil, err
	}
	use := ast.NewVarUse(idx, core.NoType)
	if index == nil {
		return use, nil
	}
	in, err := b.expr(index, scope)
	if err != nil {
		return nil, err
	}
	if err := use.AddChild(in); err != nil {
		return nil, err
	}
	return use, nil
}

func (b *builder) expr(e *Expr, scope int) (*ast.Node, error) {
	switch e.Op {
	case OpInt:
		return ast.NewInt(e.Int), nil
	case OpReal:
		return ast.NewReal(e.Real), nil
	case OpBool:
		return ast.NewBool(e.Bool), nil
	case OpStr:
		idx, err := b.tables.Literals.Intern(e.Str)
		if err != nil {
			return nil, b.wrap(e.Line, err)
		}
		return ast.NewStr(idx), nil
	case OpVar:
		return b.varUse(e.Var, e.Index, scope, e.Line)
	}

	kind, ok := binaryOps[e.Op]
	if !ok || len(e.Args) != 2 {
		return nil, b.errorf(e.Line, ErrInvalidDecl, "malformed expression %q", e.Op)
	}
	left, err := b.expr(&e.Args[0], scope)
	if err != nil {
		return nil, err
	}
	right, err := b.expr(&e.Args[1], scope)
	if err != nil {
		return nil, err
	}
	return ast.NewSubtree(kind, core.NoType, left, right)
}
