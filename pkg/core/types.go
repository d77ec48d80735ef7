package core

import (
	"fmt"
	"strings"
)

// Type is the static type of a value or node.
//
// The primitive types are totally ordered for implicit widening:
// Boolean < Integer < Real < String. NoType is the zero value and marks
// an unset or erroneous type; it takes no part in the ordering.
type Type int

// Type constants.
const (
	NoType Type = iota
	Boolean
	Integer
	Real
	String
)

var typeNames = map[Type]string{
	NoType:  "no_type",
	Boolean: "bool",
	Integer: "int",
	Real:    "real",
	String:  "string",
}

// String returns the stable label of the type.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TYPE(%d)", int(t))
}

// Valid reports whether t is one of the four primitive types.
func (t Type) Valid() bool {
	return t >= Boolean && t <= String
}

// Rank returns the position of t in the widening order, or -1 for NoType
// and unknown values.
func (t Type) Rank() int {
	if !t.Valid() {
		return -1
	}
	return int(t - Boolean)
}

// WidensTo reports whether a value of type t can be implicitly converted
// to dst. Only strict widening counts; t.WidensTo(t) is false.
func (t Type) WidensTo(dst Type) bool {
	return t.Valid() && dst.Valid() && t.Rank() < dst.Rank()
}

// Max returns the wider of two valid types, or NoType if either is invalid.
func Max(a, b Type) Type {
	if !a.Valid() || !b.Valid() {
		return NoType
	}
	if a.Rank() >= b.Rank() {
		return a
	}
	return b
}

// ParseType converts a type name to a Type.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bool", "boolean":
		return Boolean, nil
	case "int", "integer":
		return Integer, nil
	case "real", "float":
		return Real, nil
	case "string", "str":
		return String, nil
	default:
		return NoType, fmt.Errorf("unknown type %q", s)
	}
}
