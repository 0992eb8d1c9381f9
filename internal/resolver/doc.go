// Package resolver computes what an attribute of a live node currently
// means: whether it is visible under its conditions, and its effective value
// once defaults, compound fields, matrix sizing and incoming links are taken
// into account.
//
// Resolution is read-only. Nothing here writes to the stores, so the same
// Resolver serves the engine after each mutation and the compiler.
package resolver
