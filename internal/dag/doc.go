// Package dag provides the directed dependency graph derived from the links
// between nodes. An edge a -> b means b consumes an output of a.
//
// The engine uses it to reject links that would close a cycle, and the
// compiler uses it for an advisory cycle scan over the whole graph.
package dag
