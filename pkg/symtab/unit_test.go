package symtab

import (
	"bytes"
	"strings"
	"testing"

	"github.com/leapstack-labs/ezc/pkg/ast"
	"github.com/leapstack-labs/ezc/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ast.SymbolNamer = (*Tables)(nil)

func TestTablesAreIndependent(t *testing.T) {
	a := NewTables(Config{})
	b := NewTables(Config{})

	_, err := a.Literals.Intern("x")
	require.NoError(t, err)
	assert.Equal(t, 0, b.Literals.Len())
}

func TestTablesConfigLimits(t *testing.T) {
	tables := NewTables(Config{Variables: Limits{MaxEntries: 1}})
	_, err := tables.Vars.Declare("a", 1, 0, Scalar)
	require.NoError(t, err)
	_, err = tables.Vars.Declare("b", 1, 0, Scalar)
	assert.ErrorIs(t, err, core.ErrCapacityExceeded)

	// Other tables keep their own (unbounded) limits.
	for _, s := range []string{"1", "2", "3"} {
		_, err := tables.Literals.Intern(s)
		require.NoError(t, err)
	}
}

func TestTablesNameTreeNodes(t *testing.T) {
	tables := NewTables(Config{})
	vi, err := tables.Vars.Declare("count", 1, 0, Scalar)
	require.NoError(t, err)
	li, err := tables.Literals.Intern("done")
	require.NoError(t, err)

	out, err := ast.NewSubtree(ast.Output, core.NoType, ast.NewStr(li))
	require.NoError(t, err)
	root, err := ast.NewSubtree(ast.Block, core.NoType, ast.NewVarDecl(vi, core.Integer), out)
	require.NoError(t, err)

	text := ast.Text(root, ast.WithSymbols(tables))
	assert.Contains(t, text, "var_decl count [int]")
	assert.Contains(t, text, `str_val "done" [string]`)
}

func TestTablesFprintOrder(t *testing.T) {
	tables := NewTables(Config{})
	_, _ = tables.Literals.Intern("s")
	_, _ = tables.Vars.Declare("v", 1, 0, Scalar)
	_, _ = tables.Funcs.Declare("f", 2)

	var buf bytes.Buffer
	require.NoError(t, tables.Fprint(&buf))
	out := buf.String()

	lit := strings.Index(out, "Literals table:")
	vars := strings.Index(out, "Variables table:")
	funcs := strings.Index(out, "Functions table:")
	assert.True(t, lit >= 0 && lit < vars && vars < funcs, out)
}
