package dag

import "sync"

// Graph is a collection of nodes and their dependencies. All operations on
// the graph are concurrency-safe. Iteration follows insertion order so that
// results are deterministic.
type Graph struct {
	// mutex protects the nodes map during concurrent access.
	mutex sync.RWMutex
	// nodes stores all nodes in the graph, keyed by their unique ID.
	nodes map[string]*node
	// order lists node IDs in insertion order.
	order []string
}

// node represents a single vertex in the graph. It is un-exported to
// enforce interaction with the graph via the public API (using string IDs),
// not by direct struct manipulation.
type node struct {
	id string
	// deps holds the nodes this node depends on (predecessors), in edge order.
	deps []*node
	// dependents holds the nodes that depend on this node (successors).
	dependents []*node
}

// CycleError reports a cycle found by DetectCycles.
type CycleError struct {
	// Node is the first node found on the cycle.
	Node string
}

func (e *CycleError) Error() string {
	return "cycle detected involving node '" + e.Node + "'"
}
