package symtab

import (
	"unicode/utf8"

	"github.com/leapstack-labs/ezc/pkg/core"
)

// Limits caps the size of a table. Zero values mean unbounded.
type Limits struct {
	// MaxEntries is the maximum number of entries.
	MaxEntries int
	// MaxTextLen is the maximum length, in characters, of a literal or name.
	MaxTextLen int
}

// Option configures a table.
type Option func(*Limits)

// WithLimits sets the capacity limits of a table.
func WithLimits(l Limits) Option {
	return func(dst *Limits) { *dst = l }
}

// WithMaxEntries caps the number of entries.
func WithMaxEntries(n int) Option {
	return func(dst *Limits) { dst.MaxEntries = n }
}

// WithMaxTextLen caps the length of stored text.
func WithMaxTextLen(n int) Option {
	return func(dst *Limits) { dst.MaxTextLen = n }
}

func applyOptions(opts []Option) Limits {
	var l Limits
	for _, opt := range opts {
		opt(&l)
	}
	return l
}

// check reports whether one more entry with the given text fits.
func (l Limits) check(table string, count int, text string) error {
	if l.MaxTextLen > 0 {
		if n := utf8.RuneCountInString(text); n > l.MaxTextLen {
			return &core.CapacityError{Table: table, What: "text length", Limit: l.MaxTextLen, Got: n}
		}
	}
	if l.MaxEntries > 0 && count >= l.MaxEntries {
		return &core.CapacityError{Table: table, What: "entries", Limit: l.MaxEntries, Got: count + 1}
	}
	return nil
}
