// Package symtab implements the three symbol tables of a compilation unit:
// literals, variables and functions.
//
// All tables are append-only. An index, once returned, stays valid and
// keeps referring to the same entry for the lifetime of the table. Storage
// grows on demand; Limits can cap it to bound memory on pathological input,
// in which case exceeding a cap is reported as a *core.CapacityError.
//
// Tables are not safe for concurrent use. Each compilation unit owns its
// own set (see Tables).
package symtab
