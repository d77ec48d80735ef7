package core

import (
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below unwrap to these so callers can use
// errors.Is for the category and errors.As for the details.
var (
	// ErrOutOfRange reports an invalid child or table index.
	ErrOutOfRange = errors.New("index out of range")
	// ErrCapacityExceeded reports a full table or an over-long entry.
	ErrCapacityExceeded = errors.New("capacity exceeded")
	// ErrIllegalConversion reports a conversion outside the six legal widenings.
	ErrIllegalConversion = errors.New("illegal conversion")
	// ErrPayloadMismatch reports a payload read that the node kind does not carry.
	ErrPayloadMismatch = errors.New("payload not carried by node kind")
	// ErrArityAlreadySet reports a second arity update on a function entry.
	ErrArityAlreadySet = errors.New("function arity already set")
	// ErrInvalidArity reports a negative arity.
	ErrInvalidArity = errors.New("invalid function arity")
	// ErrInvalidSize reports a variable size below -1.
	ErrInvalidSize = errors.New("invalid variable size")
	// ErrAlreadyOwned reports an attempt to attach a node that already has a parent.
	ErrAlreadyOwned = errors.New("node already has a parent")
	// ErrStillOwned reports an attempt to release a node still reachable from its parent.
	ErrStillOwned = errors.New("node is still owned by a parent")
	// ErrReleased reports use of a node after it was released.
	ErrReleased = errors.New("node already released")
)

// RangeError is returned for out-of-range child and table accesses.
type RangeError struct {
	What  string // "child", "literal", "variable", "function"
	Index int
	Len   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0,%d)", e.What, e.Index, e.Len)
}

// Unwrap returns ErrOutOfRange.
func (e *RangeError) Unwrap() error { return ErrOutOfRange }

// CheckIndex returns a *RangeError if i is not a valid index into a
// sequence of length n.
func CheckIndex(what string, i, n int) error {
	if i < 0 || i >= n {
		return &RangeError{What: what, Index: i, Len: n}
	}
	return nil
}

// CapacityError is returned when an insertion would exceed a configured limit.
type CapacityError struct {
	Table string // "literals", "variables", "functions"
	What  string // "entries" or "text length"
	Limit int
	Got   int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s table: %s limit %d exceeded (got %d)", e.Table, e.What, e.Limit, e.Got)
}

// Unwrap returns ErrCapacityExceeded.
func (e *CapacityError) Unwrap() error { return ErrCapacityExceeded }

// ConversionError is returned when no legal implicit conversion exists
// between two types.
type ConversionError struct {
	From Type
	To   Type
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("no implicit conversion from %s to %s", e.From, e.To)
}

// Unwrap returns ErrIllegalConversion.
func (e *ConversionError) Unwrap() error { return ErrIllegalConversion }

// PayloadError is returned when a node payload is read through an accessor
// the node kind does not support.
type PayloadError struct {
	Kind string // label of the node kind
	Want string // payload that was requested
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("%s node carries no %s payload", e.Kind, e.Want)
}

// Unwrap returns ErrPayloadMismatch.
func (e *PayloadError) Unwrap() error { return ErrPayloadMismatch }
