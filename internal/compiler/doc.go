// Package compiler turns the live node graph into filter markup.
//
// Compilation is a full recompute. Walk derives a dependency forest from the
// primitives whose results nobody consumes, Compile orders the primitives so
// that every dependency is emitted before its dependents, nests container
// children, and serializes the top-level elements. Wrap embeds a compiled
// body into a standalone preview document.
package compiler
