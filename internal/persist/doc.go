// Package persist exports a graph into an ordered tree of entries and
// rebuilds a graph from one. Entries follow the dependency forest of the
// compiler: each entry lists the entries it depends on under `dep`, and nodes
// the walk never reaches are appended as extra roots.
//
// Documents are stored as JSON or YAML, chosen by file extension.
package persist
