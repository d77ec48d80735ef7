// Package unit loads compilation units described in YAML.
//
// A unit document lists global variables, functions with their parameters
// and locals, and a main body of statements. Loading declares every
// name in a fresh set of symbol tables and builds the syntax tree through
// the ast constructors, the same way a parser would:
//
//	name: demo
//	globals:
//	  - {name: total, type: real}
//	functions:
//	  - name: scale
//	    params:
//	      - {name: v, type: int, array: true}
//	    body:
//	      - output: {var: v, index: {int: 0}}
//	body:
//	  - assign: {target: total, value: {plus: [{int: 1}, {real: 2.5}]}}
//	  - output: {var: total}
//
// Scope 0 holds globals and the main body; function i (in declaration
// order) uses scope i+1 for its parameters and locals. A name used inside
// a function resolves to the function's own scope first, then to scope 0.
package unit
