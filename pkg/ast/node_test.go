package ast

import (
	"testing"

	"github.com/leapstack-labs/ezc/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoresPayloadVerbatim(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		data int
		want Payload
	}{
		{"int literal", IntVal, -42, IntValue{Value: -42}},
		{"bool literal", BoolVal, 7, BoolValue{Raw: 7}},
		{"string literal", StrVal, 3, LiteralRef{Index: 3}},
		{"var decl", VarDecl, 9, VarRef{Index: 9}},
		{"var use", VarUse, 0, VarRef{Index: 0}},
		{"block tag", Block, 11, Tag{Value: 11}},
		{"operator tag", Plus, 0, Tag{Value: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := New(tt.kind, tt.data, core.Integer)
			assert.Equal(t, tt.kind, n.Kind())
			assert.Equal(t, tt.want, n.Payload())
			assert.Equal(t, 0, n.ChildCount())

			got, err := n.Data()
			require.NoError(t, err)
			assert.Equal(t, tt.data, got)
		})
	}
}

func TestTypedAccessors(t *testing.T) {
	i := NewInt(5)
	v, ok := i.IntValue()
	assert.True(t, ok)
	assert.Equal(t, 5, v)
	_, ok = i.BoolValue()
	assert.False(t, ok)

	b := NewBool(true)
	bv, ok := b.BoolValue()
	assert.True(t, ok)
	assert.True(t, bv)
	raw, err := b.Data()
	require.NoError(t, err)
	assert.Equal(t, 1, raw)

	s := NewStr(2)
	idx, ok := s.LiteralIndex()
	assert.True(t, ok)
	assert.Equal(t, 2, idx)
	_, ok = s.VarIndex()
	assert.False(t, ok)

	u := NewVarUse(4, core.NoType)
	idx, ok = u.VarIndex()
	assert.True(t, ok)
	assert.Equal(t, 4, idx)
}

func TestRealPayload(t *testing.T) {
	r := New(RealVal, 0, core.Real)
	require.NoError(t, r.SetReal(2.75))

	got, err := r.Real()
	require.NoError(t, err)
	assert.Equal(t, 2.75, got)

	_, err = r.Data()
	assert.ErrorIs(t, err, core.ErrPayloadMismatch)

	assert.Equal(t, 1.5, mustReal(t, NewReal(1.5)))
}

func TestPayloadMismatch(t *testing.T) {
	n := NewInt(3)

	_, err := n.Real()
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrPayloadMismatch)

	var perr *core.PayloadError
	require.ErrorAs(t, n.SetReal(1), &perr)
	assert.Equal(t, "int_val", perr.Kind)
	assert.Equal(t, "real", perr.Want)
}

func TestSetType(t *testing.T) {
	n := NewVarUse(0, core.NoType)
	assert.Equal(t, core.NoType, n.Type())
	n.SetType(core.Real)
	assert.Equal(t, core.Real, n.Type())
}

func TestNewSubtreePreservesOrder(t *testing.T) {
	c0 := NewBool(true)
	c1 := New(Block, 0, core.NoType)
	c2 := New(Block, 0, core.NoType)

	n, err := NewSubtree(If, core.NoType, c0, c1, c2)
	require.NoError(t, err)
	require.Equal(t, 3, n.ChildCount())

	for i, want := range []*Node{c0, c1, c2} {
		got, err := n.Child(i)
		require.NoError(t, err)
		assert.Same(t, want, got)
		assert.Same(t, n, got.Parent())
	}
}

func TestNewSubtreeFailureLeavesChildrenUnowned(t *testing.T) {
	owner := New(Block, 0, core.NoType)
	ownedElsewhere := New(Block, 0, core.NoType)
	require.NoError(t, owner.AddChild(ownedElsewhere))

	released := NewInt(7)
	_, err := Destroy(released, nil)
	require.NoError(t, err)

	cond := NewBool(true)
	then := New(Block, 0, core.NoType)

	tests := []struct {
		name     string
		children []*Node
		wantErr  error
	}{
		{"already owned", []*Node{cond, then, ownedElsewhere}, core.ErrAlreadyOwned},
		{"listed twice", []*Node{cond, then, cond}, core.ErrAlreadyOwned},
		{"released", []*Node{cond, then, released}, core.ErrReleased},
		{"nil", []*Node{cond, then, nil}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewSubtree(If, core.NoType, tt.children...)
			require.Error(t, err)
			assert.Nil(t, n)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Nil(t, cond.Parent())
			assert.Nil(t, then.Parent())
			assert.Same(t, owner, ownedElsewhere.Parent())
		})
	}

	n, err := NewSubtree(If, core.NoType, cond, then)
	require.NoError(t, err)
	assert.Equal(t, 2, n.ChildCount())
	assert.Same(t, n, cond.Parent())
}

func TestChildOutOfRange(t *testing.T) {
	n, err := NewSubtree(Plus, core.Integer, NewInt(1), NewInt(2))
	require.NoError(t, err)

	for _, idx := range []int{-1, 2, 10} {
		_, err := n.Child(idx)
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrOutOfRange)

		var rerr *core.RangeError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, "child", rerr.What)
		assert.Equal(t, 2, rerr.Len)
	}
}

func TestAddChildOwnership(t *testing.T) {
	leaf := NewInt(1)
	a := New(Block, 0, core.NoType)
	b := New(Block, 0, core.NoType)

	require.NoError(t, a.AddChild(leaf))
	assert.ErrorIs(t, b.AddChild(leaf), core.ErrAlreadyOwned)
	assert.Equal(t, 0, b.ChildCount())
	assert.Error(t, a.AddChild(nil))
}

func TestRemoveChild(t *testing.T) {
	l, r := NewInt(1), NewInt(2)
	n, err := NewSubtree(Plus, core.Integer, l, r)
	require.NoError(t, err)

	got, err := n.RemoveChild(0)
	require.NoError(t, err)
	assert.Same(t, l, got)
	assert.Nil(t, got.Parent())
	assert.Equal(t, 1, n.ChildCount())

	first, err := n.Child(0)
	require.NoError(t, err)
	assert.Same(t, r, first)

	_, err = n.RemoveChild(5)
	assert.ErrorIs(t, err, core.ErrOutOfRange)
}

func TestChildrenReturnsCopy(t *testing.T) {
	n, err := NewSubtree(Block, core.NoType, NewInt(1))
	require.NoError(t, err)

	kids := n.Children()
	kids[0] = nil
	c, err := n.Child(0)
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestKindLabels(t *testing.T) {
	seen := map[string]Kind{}
	for k := Kind(0); k < numKinds; k++ {
		label := k.String()
		assert.NotEmpty(t, label, "kind %d", int(k))
		prev, dup := seen[label]
		assert.False(t, dup, "label %q shared by %d and %d", label, int(prev), int(k))
		seen[label] = k
	}
	assert.Equal(t, "KIND(99)", Kind(99).String())

	for k, want := range map[Kind]string{
		Assign: "=", Eq: "==", Neq: "!=", Over: "/",
		Block: "block", IntVal: "int_val", Input: "input", VarUse: "var_use",
		B2I: "B2I", R2S: "R2S",
	} {
		assert.Equal(t, want, k.String())
	}
	assert.False(t, Kind(-1).Valid())
}

func TestKindClasses(t *testing.T) {
	assert.True(t, Le.IsComparison())
	assert.False(t, Assign.IsComparison())
	assert.True(t, Over.IsArithmetic())
	assert.True(t, StrVal.IsLiteral())
	assert.True(t, R2S.IsConversion())
	assert.False(t, VarUse.IsConversion())
}

func mustReal(t *testing.T, n *Node) float64 {
	t.Helper()
	v, err := n.Real()
	require.NoError(t, err)
	return v
}
