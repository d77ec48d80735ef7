package ast

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/ezc/pkg/core"
)

// Node is a single tree node. The zero value is not usable; create nodes
// with New or one of the typed constructors.
type Node struct {
	kind     Kind
	payload  Payload
	typ      core.Type
	parent   *Node
	children []*Node
	released bool
}

// New creates a leaf node. data is stored without validation in the
// payload variant selected by kind.
func New(kind Kind, data int, t core.Type) *Node {
	return &Node{
		kind:    kind,
		payload: newPayload(kind, data),
		typ:     t,
	}
}

// NewInt creates an integer literal node.
func NewInt(v int) *Node {
	return New(IntVal, v, core.Integer)
}

// NewBool creates a boolean literal node.
func NewBool(v bool) *Node {
	data := 0
	if v {
		data = 1
	}
	return New(BoolVal, data, core.Boolean)
}

// NewReal creates a real literal node.
func NewReal(v float64) *Node {
	return &Node{kind: RealVal, payload: RealValue{Value: v}, typ: core.Real}
}

// NewStr creates a string literal node referring to a literal-table entry.
func NewStr(litIdx int) *Node {
	return New(StrVal, litIdx, core.String)
}

// NewVarDecl creates a declaration node for a variable-table entry.
func NewVarDecl(varIdx int, t core.Type) *Node {
	return New(VarDecl, varIdx, t)
}

// NewVarUse creates a reference to a variable-table entry. Its type is
// usually stamped later by the semantic pass.
func NewVarUse(varIdx int, t core.Type) *Node {
	return New(VarUse, varIdx, t)
}

// NewSubtree creates a node of the given kind and attaches children in
// order. It is meant for nodes whose shape is fixed by the grammar. All
// children are checked before any is attached, so on error none of them
// changes owner.
func NewSubtree(kind Kind, t core.Type, children ...*Node) (*Node, error) {
	seen := make(map[*Node]bool, len(children))
	for i, c := range children {
		switch {
		case c == nil:
			return nil, fmt.Errorf("child %d: cannot attach nil child", i)
		case c.released:
			return nil, fmt.Errorf("child %d: %w", i, core.ErrReleased)
		case c.parent != nil, seen[c]:
			return nil, fmt.Errorf("child %d: %w", i, core.ErrAlreadyOwned)
		}
		seen[c] = true
	}

	n := New(kind, 0, t)
	n.children = make([]*Node, 0, len(children))
	for _, c := range children {
		c.parent = n
		n.children = append(n.children, c)
	}
	return n, nil
}

// Kind returns the node kind.
func (n *Node) Kind() Kind { return n.kind }

// Type returns the static type of the node.
func (n *Node) Type() core.Type { return n.typ }

// SetType stamps a resolved static type onto the node.
func (n *Node) SetType(t core.Type) { n.typ = t }

// Parent returns the owning node, or nil for a root or detached node.
func (n *Node) Parent() *Node { return n.parent }

// Released reports whether the node was released by Destroy.
func (n *Node) Released() bool { return n.released }

// IsConversion reports whether the node is an implicit conversion.
func (n *Node) IsConversion() bool { return n.kind.IsConversion() }

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// Child returns the child at index i.
func (n *Node) Child(i int) (*Node, error) {
	if err := core.CheckIndex("child", i, len(n.children)); err != nil {
		return nil, err
	}
	return n.children[i], nil
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// AddChild appends child to the child list and makes n its owner.
// A node can have only one parent. No cycle check is performed: callers
// must never attach an ancestor of n.
func (n *Node) AddChild(child *Node) error {
	if child == nil {
		return errors.New("cannot attach nil child")
	}
	if n.released || child.released {
		return core.ErrReleased
	}
	if child.parent != nil {
		return core.ErrAlreadyOwned
	}
	child.parent = n
	n.children = append(n.children, child)
	return nil
}

// RemoveChild detaches and returns the child at index i. The detached
// node becomes a root owned by the caller.
func (n *Node) RemoveChild(i int) (*Node, error) {
	c, err := n.Child(i)
	if err != nil {
		return nil, err
	}
	n.children = append(n.children[:i], n.children[i+1:]...)
	c.parent = nil
	return c, nil
}

// indexOf returns the position of child in n's child list, or -1.
func (n *Node) indexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// Payload returns the kind-specific payload.
func (n *Node) Payload() Payload { return n.payload }

// Data returns the integer payload. Every kind except real_val carries one.
func (n *Node) Data() (int, error) {
	if v, ok := rawData(n.payload); ok {
		return v, nil
	}
	return 0, &core.PayloadError{Kind: n.kind.String(), Want: "integer"}
}

// Real returns the value of a real_val node.
func (n *Node) Real() (float64, error) {
	if v, ok := n.payload.(RealValue); ok {
		return v.Value, nil
	}
	return 0, &core.PayloadError{Kind: n.kind.String(), Want: "real"}
}

// SetReal sets the value of a real_val node.
func (n *Node) SetReal(v float64) error {
	if n.kind != RealVal {
		return &core.PayloadError{Kind: n.kind.String(), Want: "real"}
	}
	n.payload = RealValue{Value: v}
	return nil
}

// IntValue returns the value of an int_val node.
func (n *Node) IntValue() (int, bool) {
	v, ok := n.payload.(IntValue)
	return v.Value, ok
}

// BoolValue returns the value of a bool_val node.
func (n *Node) BoolValue() (bool, bool) {
	v, ok := n.payload.(BoolValue)
	return v.Bool(), ok
}

// LiteralIndex returns the literal-table index of a str_val node.
func (n *Node) LiteralIndex() (int, bool) {
	v, ok := n.payload.(LiteralRef)
	return v.Index, ok
}

// VarIndex returns the variable-table index of a var_decl or var_use node.
func (n *Node) VarIndex() (int, bool) {
	v, ok := n.payload.(VarRef)
	return v.Index, ok
}
