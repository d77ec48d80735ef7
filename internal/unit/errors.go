package unit

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped by LoadError.
var (
	ErrRedeclared  = errors.New("redeclared")
	ErrUndeclared  = errors.New("undeclared")
	ErrUnknownType = errors.New("unknown type")
	ErrInvalidDecl = errors.New("invalid declaration")
	ErrEmptyUnit   = errors.New("empty unit")
)

// LoadError reports a problem in a unit document. Line is the line in the
// document, or 0 when unknown.
type LoadError struct {
	Unit string
	Line int
	Err  error
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", e.Unit, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Unit, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
