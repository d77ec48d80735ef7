package symtab

import (
	"fmt"
	"io"

	"github.com/leapstack-labs/ezc/pkg/core"
)

// LiteralTable stores unique string literals in first-seen order.
type LiteralTable struct {
	entries []string
	index   map[string]int
	limits  Limits
}

// NewLiteralTable creates an empty literal table.
func NewLiteralTable(opts ...Option) *LiteralTable {
	return &LiteralTable{
		index:  make(map[string]int),
		limits: applyOptions(opts),
	}
}

// Intern returns the index of value, adding it if it is not yet present.
// The same text always yields the same index.
func (t *LiteralTable) Intern(value string) (int, error) {
	if idx, ok := t.index[value]; ok {
		return idx, nil
	}
	if err := t.limits.check("literals", len(t.entries), value); err != nil {
		return -1, err
	}
	idx := len(t.entries)
	t.entries = append(t.entries, value)
	t.index[value] = idx
	return idx, nil
}

// Lookup returns the index of value without adding it.
func (t *LiteralTable) Lookup(value string) (int, bool) {
	idx, ok := t.index[value]
	return idx, ok
}

// Text returns the literal stored at idx.
func (t *LiteralTable) Text(idx int) (string, error) {
	if err := core.CheckIndex("literal", idx, len(t.entries)); err != nil {
		return "", err
	}
	return t.entries[idx], nil
}

// Len returns the number of entries.
func (t *LiteralTable) Len() int { return len(t.entries) }

// Entries returns a copy of all literals in index order.
func (t *LiteralTable) Entries() []string {
	out := make([]string, len(t.entries))
	copy(out, t.entries)
	return out
}

// Fprint writes one line per entry.
func (t *LiteralTable) Fprint(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "Literals table:"); err != nil {
		return err
	}
	for i, s := range t.entries {
		if _, err := fmt.Fprintf(w, "Entry %d -- %s\n", i, s); err != nil {
			return err
		}
	}
	return nil
}
