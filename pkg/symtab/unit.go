package symtab

import "io"

// Config holds the limits of the three tables of a unit.
type Config struct {
	Literals  Limits
	Variables Limits
	Functions Limits
}

// Tables groups the symbol tables of one compilation unit. Units never
// share a Tables value.
type Tables struct {
	Literals *LiteralTable
	Vars     *VarTable
	Funcs    *FuncTable
}

// NewTables creates an empty table set.
func NewTables(cfg Config) *Tables {
	return &Tables{
		Literals: NewLiteralTable(WithLimits(cfg.Literals)),
		Vars:     NewVarTable(WithLimits(cfg.Variables)),
		Funcs:    NewFuncTable(WithLimits(cfg.Functions)),
	}
}

// LiteralText implements ast.SymbolNamer.
func (t *Tables) LiteralText(idx int) (string, error) {
	return t.Literals.Text(idx)
}

// VarName implements ast.SymbolNamer.
func (t *Tables) VarName(idx int) (string, error) {
	return t.Vars.Name(idx)
}

// Fprint dumps the literal, variable and function tables in that order.
func (t *Tables) Fprint(w io.Writer) error {
	if err := t.Literals.Fprint(w); err != nil {
		return err
	}
	if err := t.Vars.Fprint(w); err != nil {
		return err
	}
	return t.Funcs.Fprint(w)
}
