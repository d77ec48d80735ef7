// Package core defines the shared language of the ezc front end.
//
// This package contains:
//   - The primitive type domain (Type) and its widening order
//   - The error taxonomy shared by the AST and the symbol tables
//   - Diagnostic severities used by the semantic pass
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// pkg/ast and pkg/symtab depend on core, never the reverse.
package core
