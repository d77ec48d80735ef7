package ast

import "fmt"

// Payload is the kind-specific auxiliary data of a node. The concrete type
// is fixed by the node kind:
//
//	int_val            IntValue
//	bool_val           BoolValue
//	real_val           RealValue
//	str_val            LiteralRef
//	var_decl, var_use  VarRef
//	everything else    Tag
type Payload interface {
	fmt.Stringer
	payload()
}

// Tag is the uninterpreted integer carried by kinds without a payload of
// their own. It is usually zero.
type Tag struct{ Value int }

// IntValue is the value of an integer literal.
type IntValue struct{ Value int }

// BoolValue is the value of a boolean literal. Raw keeps the integer the
// node was created with; any non-zero value is true.
type BoolValue struct{ Raw int }

// RealValue is the value of a real literal.
type RealValue struct{ Value float64 }

// LiteralRef is an index into the literal table.
type LiteralRef struct{ Index int }

// VarRef is an index into the variable table.
type VarRef struct{ Index int }

func (Tag) payload()        {}
func (IntValue) payload()   {}
func (BoolValue) payload()  {}
func (RealValue) payload()  {}
func (LiteralRef) payload() {}
func (VarRef) payload()     {}

func (p Tag) String() string        { return fmt.Sprintf("%d", p.Value) }
func (p IntValue) String() string   { return fmt.Sprintf("%d", p.Value) }
func (p BoolValue) String() string  { return fmt.Sprintf("%t", p.Bool()) }
func (p RealValue) String() string  { return formatReal(p.Value) }
func (p LiteralRef) String() string { return fmt.Sprintf("@%d", p.Index) }
func (p VarRef) String() string     { return fmt.Sprintf("@%d", p.Index) }

// Bool returns the boolean value.
func (p BoolValue) Bool() bool { return p.Raw != 0 }

// newPayload builds the payload variant for kind k from a raw integer.
func newPayload(k Kind, data int) Payload {
	switch k {
	case IntVal:
		return IntValue{Value: data}
	case BoolVal:
		return BoolValue{Raw: data}
	case RealVal:
		return RealValue{Value: float64(data)}
	case StrVal:
		return LiteralRef{Index: data}
	case VarDecl, VarUse:
		return VarRef{Index: data}
	default:
		return Tag{Value: data}
	}
}

// rawData returns the integer held by an integer-carrying payload.
func rawData(p Payload) (int, bool) {
	switch v := p.(type) {
	case Tag:
		return v.Value, true
	case IntValue:
		return v.Value, true
	case BoolValue:
		return v.Raw, true
	case LiteralRef:
		return v.Index, true
	case VarRef:
		return v.Index, true
	default:
		return 0, false
	}
}
