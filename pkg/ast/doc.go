// Package ast defines the abstract syntax tree built by the parser and
// annotated by the semantic pass.
//
// A tree is made of *Node values. Every node has a Kind from a closed set,
// a kind-specific Payload, a static core.Type, and an ordered list of
// children it exclusively owns. Child order is significant: for If the
// children are condition, then-block and an optional else-block; for binary
// operators they are the left and right operands.
//
// Kind labels are operator symbols for operators ("=", "==", "+", ...) and
// snake case names for everything else ("block", "int_val", "var_use").
//
// Implicit widening is represented structurally: Wrap replaces a node with
// one of the six conversion nodes (B2I, B2R, B2S, I2R, I2S, R2S, labelled
// with the same names) whose only child is the original node and whose type
// is the target type.
package ast
