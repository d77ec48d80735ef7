package symtab

import (
	"fmt"
	"io"

	"github.com/leapstack-labs/ezc/pkg/core"
)

// Variable sizes with special meaning.
const (
	// Scalar marks a simple variable.
	Scalar = 0
	// ArrayRef marks an array parameter passed by reference whose length
	// is unknown at the declaration site.
	ArrayRef = -1
)

// VarEntry is a declared variable.
type VarEntry struct {
	Name  string `json:"name"`
	Line  int    `json:"line"`
	Scope int    `json:"scope"`
	// Size is Scalar, ArrayRef, or the length of a fixed-size array.
	Size int `json:"size"`
}

// IsArray reports whether the entry is a fixed-size array.
func (e VarEntry) IsArray() bool { return e.Size > 0 }

// IsArrayRef reports whether the entry is an array passed by reference.
func (e VarEntry) IsArrayRef() bool { return e.Size == ArrayRef }

type varKey struct {
	name  string
	scope int
}

// VarTable stores declared variables. Entries are identified by the pair
// (name, scope); the same name in two scopes gives two distinct entries.
// Lookups never consult other scopes.
type VarTable struct {
	entries []VarEntry
	index   map[varKey]int
	limits  Limits
}

// NewVarTable creates an empty variable table.
func NewVarTable(opts ...Option) *VarTable {
	return &VarTable{
		index:  make(map[varKey]int),
		limits: applyOptions(opts),
	}
}

// Lookup returns the index of the variable declared as name in exactly
// the given scope.
func (t *VarTable) Lookup(name string, scope int) (int, bool) {
	idx, ok := t.index[varKey{name, scope}]
	return idx, ok
}

// Declare appends a new entry and returns its index. It does not check for
// an earlier declaration of the same (name, scope); call Lookup first to
// detect redeclarations. If a duplicate is appended, Lookup keeps
// returning the first entry.
func (t *VarTable) Declare(name string, line, scope, size int) (int, error) {
	if size < ArrayRef {
		return -1, fmt.Errorf("variable %q: size %d: %w", name, size, core.ErrInvalidSize)
	}
	if err := t.limits.check("variables", len(t.entries), name); err != nil {
		return -1, err
	}
	idx := len(t.entries)
	t.entries = append(t.entries, VarEntry{Name: name, Line: line, Scope: scope, Size: size})
	key := varKey{name, scope}
	if _, exists := t.index[key]; !exists {
		t.index[key] = idx
	}
	return idx, nil
}

// Entry returns the entry stored at idx.
func (t *VarTable) Entry(idx int) (VarEntry, error) {
	if err := core.CheckIndex("variable", idx, len(t.entries)); err != nil {
		return VarEntry{}, err
	}
	return t.entries[idx], nil
}

// Name returns the name of entry idx.
func (t *VarTable) Name(idx int) (string, error) {
	e, err := t.Entry(idx)
	return e.Name, err
}

// Line returns the declaration line of entry idx.
func (t *VarTable) Line(idx int) (int, error) {
	e, err := t.Entry(idx)
	return e.Line, err
}

// Scope returns the scope of entry idx.
func (t *VarTable) Scope(idx int) (int, error) {
	e, err := t.Entry(idx)
	return e.Scope, err
}

// Size returns the size of entry idx.
func (t *VarTable) Size(idx int) (int, error) {
	e, err := t.Entry(idx)
	return e.Size, err
}

// Len returns the number of entries.
func (t *VarTable) Len() int { return len(t.entries) }

// Entries returns a copy of all entries in index order.
func (t *VarTable) Entries() []VarEntry {
	out := make([]VarEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Fprint writes one line per entry.
func (t *VarTable) Fprint(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "Variables table:"); err != nil {
		return err
	}
	for i, e := range t.entries {
		if _, err := fmt.Fprintf(w, "Entry %d -- name: %s, line: %d, scope: %d, size: %d\n",
			i, e.Name, e.Line, e.Scope, e.Size); err != nil {
			return err
		}
	}
	return nil
}
