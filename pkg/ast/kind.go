package ast

import (
	"fmt"

	"github.com/leapstack-labs/ezc/pkg/core"
)

// Kind identifies the variant of a node.
type Kind int

// Node kinds. The set is closed.
const (
	Assign Kind = iota

	// Comparisons
	Eq
	Lt
	Le
	Gt
	Ge
	Neq

	// Control structures
	Block
	If
	While

	// Literal values
	BoolVal
	IntVal
	RealVal
	StrVal

	// Arithmetic
	Plus
	Minus
	Times
	Over

	// I/O
	Input
	Output

	// Declarations and references
	VarDecl
	VarList
	VarUse

	// Implicit conversions
	B2I
	B2R
	B2S
	I2R
	I2S
	R2S

	numKinds
)

var kindNames = [numKinds]string{
	Assign:  "=",
	Eq:      "==",
	Lt:      "<",
	Le:      "<=",
	Gt:      ">",
	Ge:      ">=",
	Neq:     "!=",
	Block:   "block",
	If:      "if",
	While:   "while",
	BoolVal: "bool_val",
	IntVal:  "int_val",
	RealVal: "real_val",
	StrVal:  "str_val",
	Plus:    "+",
	Minus:   "-",
	Times:   "*",
	Over:    "/",
	Input:   "input",
	Output:  "output",
	VarDecl: "var_decl",
	VarList: "var_list",
	VarUse:  "var_use",
	B2I:     "B2I",
	B2R:     "B2R",
	B2S:     "B2S",
	I2R:     "I2R",
	I2S:     "I2S",
	R2S:     "R2S",
}

// String returns the stable human-readable label of the kind.
func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return fmt.Sprintf("KIND(%d)", int(k))
}

// Valid reports whether k is a member of the closed kind set.
func (k Kind) Valid() bool {
	return k >= 0 && k < numKinds
}

// IsComparison reports whether k is one of the six relational operators.
func (k Kind) IsComparison() bool {
	return k >= Eq && k <= Neq
}

// IsArithmetic reports whether k is one of the four arithmetic operators.
func (k Kind) IsArithmetic() bool {
	return k >= Plus && k <= Over
}

// IsLiteral reports whether k is a literal value kind.
func (k Kind) IsLiteral() bool {
	return k >= BoolVal && k <= StrVal
}

// IsConversion reports whether k is one of the six implicit conversion kinds.
func (k Kind) IsConversion() bool {
	return k >= B2I && k <= R2S
}

// Conversion returns the source and target types of a conversion kind.
func (k Kind) Conversion() (from, to core.Type, ok bool) {
	for pair, kind := range conversions {
		if kind == k {
			return pair.from, pair.to, true
		}
	}
	return core.NoType, core.NoType, false
}
