package ast

import (
	"errors"

	"github.com/leapstack-labs/ezc/pkg/core"
)

type typePair struct {
	from, to core.Type
}

// conversions lists the only legal implicit widenings.
var conversions = map[typePair]Kind{
	{core.Boolean, core.Integer}: B2I,
	{core.Boolean, core.Real}:    B2R,
	{core.Boolean, core.String}:  B2S,
	{core.Integer, core.Real}:    I2R,
	{core.Integer, core.String}:  I2S,
	{core.Real, core.String}:     R2S,
}

// ConversionKind returns the conversion kind that widens from to to.
// Identity, narrowing and NoType requests fail with *core.ConversionError.
func ConversionKind(from, to core.Type) (Kind, error) {
	if k, ok := conversions[typePair{from, to}]; ok {
		return k, nil
	}
	return 0, &core.ConversionError{From: from, To: to}
}

// Wrap inserts an implicit conversion above n. The new node has n as its
// only child and to as its type; if n had a parent, the wrapper takes n's
// place in the parent's child list. n itself is left unchanged.
//
// Wrap performs a single step. A caller needing several steps composes
// them explicitly, innermost first.
func Wrap(n *Node, to core.Type) (*Node, error) {
	if n == nil {
		return nil, errors.New("cannot convert nil node")
	}
	if n.released {
		return nil, core.ErrReleased
	}
	kind, err := ConversionKind(n.typ, to)
	if err != nil {
		return nil, err
	}

	w := New(kind, 0, to)
	if p := n.parent; p != nil {
		i := p.indexOf(n)
		p.children[i] = w
		w.parent = p
	}
	n.parent = w
	w.children = []*Node{n}
	return w, nil
}

// WidenChild wraps the child at index i in a conversion to type to and
// returns the wrapper.
func (n *Node) WidenChild(i int, to core.Type) (*Node, error) {
	c, err := n.Child(i)
	if err != nil {
		return nil, err
	}
	return Wrap(c, to)
}
