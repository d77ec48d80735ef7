// Package sema runs the semantic widening pass over a compilation unit.
//
// The pass stamps variable uses with their declared types, checks operand
// types of every operator and statement, and inserts implicit conversion
// nodes where a narrower operand meets a wider one. Problems are reported
// as diagnostics; the offending node is stamped core.NoType and checking
// continues so one run reports every error.
package sema
