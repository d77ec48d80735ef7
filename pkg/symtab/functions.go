package symtab

import (
	"fmt"
	"io"

	"github.com/leapstack-labs/ezc/pkg/core"
)

// FuncEntry is a declared function.
type FuncEntry struct {
	Name  string `json:"name"`
	Line  int    `json:"line"`
	Arity int    `json:"arity"`
}

// FuncTable stores declared functions keyed by name. There is no
// overloading.
type FuncTable struct {
	entries  []FuncEntry
	aritySet []bool
	index    map[string]int
	limits   Limits
}

// NewFuncTable creates an empty function table.
func NewFuncTable(opts ...Option) *FuncTable {
	return &FuncTable{
		index:  make(map[string]int),
		limits: applyOptions(opts),
	}
}

// Lookup returns the index of the function called name.
func (t *FuncTable) Lookup(name string) (int, bool) {
	idx, ok := t.index[name]
	return idx, ok
}

// Declare appends a function with arity 0 and returns its index. Like
// VarTable.Declare it does not check for duplicates.
func (t *FuncTable) Declare(name string, line int) (int, error) {
	if err := t.limits.check("functions", len(t.entries), name); err != nil {
		return -1, err
	}
	idx := len(t.entries)
	t.entries = append(t.entries, FuncEntry{Name: name, Line: line})
	t.aritySet = append(t.aritySet, false)
	if _, exists := t.index[name]; !exists {
		t.index[name] = idx
	}
	return idx, nil
}

// SetArity records the parameter count of entry idx once its parameter
// list is known. The arity can be set only once.
func (t *FuncTable) SetArity(idx, arity int) error {
	if err := core.CheckIndex("function", idx, len(t.entries)); err != nil {
		return err
	}
	if arity < 0 {
		return fmt.Errorf("function %q: arity %d: %w", t.entries[idx].Name, arity, core.ErrInvalidArity)
	}
	if t.aritySet[idx] {
		return fmt.Errorf("function %q: %w", t.entries[idx].Name, core.ErrArityAlreadySet)
	}
	t.entries[idx].Arity = arity
	t.aritySet[idx] = true
	return nil
}

// Entry returns the entry stored at idx.
func (t *FuncTable) Entry(idx int) (FuncEntry, error) {
	if err := core.CheckIndex("function", idx, len(t.entries)); err != nil {
		return FuncEntry{}, err
	}
	return t.entries[idx], nil
}

// Name returns the name of entry idx.
func (t *FuncTable) Name(idx int) (string, error) {
	e, err := t.Entry(idx)
	return e.Name, err
}

// Line returns the declaration line of entry idx.
func (t *FuncTable) Line(idx int) (int, error) {
	e, err := t.Entry(idx)
	return e.Line, err
}

// Arity returns the parameter count of entry idx.
func (t *FuncTable) Arity(idx int) (int, error) {
	e, err := t.Entry(idx)
	return e.Arity, err
}

// Len returns the number of entries.
func (t *FuncTable) Len() int { return len(t.entries) }

// Entries returns a copy of all entries in index order.
func (t *FuncTable) Entries() []FuncEntry {
	out := make([]FuncEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Fprint writes one line per entry.
func (t *FuncTable) Fprint(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "Functions table:"); err != nil {
		return err
	}
	for i, e := range t.entries {
		if _, err := fmt.Fprintf(w, "Entry %d -- name: %s, line: %d, arity: %d\n",
			i, e.Name, e.Line, e.Arity); err != nil {
			return err
		}
	}
	return nil
}
