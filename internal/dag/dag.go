package dag

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/filtergrid/internal/linkstore"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*node),
	}
}

// FromLinks builds the node-level dependency graph of a set of links. Nodes
// are added in the given order; link endpoints missing from ids are added
// after them. Self links are ignored.
func FromLinks(ids []string, links []linkstore.Link) *Graph {
	g := New()
	for _, id := range ids {
		g.AddNode(id)
	}
	for _, l := range links {
		g.AddNode(l.From.Node)
		g.AddNode(l.To.Node)
		if l.From.Node != l.To.Node {
			// Both ends exist, so the only possible error is a self edge.
			_ = g.AddEdge(l.From.Node, l.To.Node)
		}
	}
	return g
}

// AddNode adds a new node with the given ID to the graph. If a node with
// the same ID already exists, the function does nothing.
func (g *Graph) AddNode(id string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.nodes[id]; ok {
		return
	}

	g.nodes[id] = &node{id: id}
	g.order = append(g.order, id)
}

// AddEdge creates a directed edge from the `fromID` node to the `toID` node.
// This signifies that `toID` has a dependency on `fromID`. An error is returned
// if either node does not exist or if the edge would create a self-reference.
// Adding an existing edge is a no-op.
func (g *Graph) AddEdge(fromID, toID string) error {
	if fromID == toID {
		return fmt.Errorf("self-referential edge not allowed: %s -> %s", fromID, fromID)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("source node not found: %s", fromID)
	}

	toNode, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("destination node not found: %s", toID)
	}

	if slices.Contains(toNode.deps, fromNode) {
		return nil
	}
	toNode.deps = append(toNode.deps, fromNode)
	fromNode.dependents = append(fromNode.dependents, toNode)

	return nil
}

// Dependencies returns the IDs of the nodes the given node depends on.
func (g *Graph) Dependencies(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return ids(n.deps), nil
}

// Dependents returns the IDs of the nodes that depend on the given node.
func (g *Graph) Dependents(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return ids(n.dependents), nil
}

// Reachable reports whether `toID` can be reached from `fromID` by following
// dependents. A node reaches itself. Unknown nodes reach nothing.
func (g *Graph) Reachable(fromID, toID string) bool {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	start, ok := g.nodes[fromID]
	if !ok {
		return false
	}

	seen := map[string]bool{fromID: true}
	stack := []*node{start}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.id == toID {
			return true
		}
		for _, d := range n.dependents {
			if !seen[d.id] {
				seen[d.id] = true
				stack = append(stack, d)
			}
		}
	}
	return false
}

// DetectCycles checks the graph for any cycles. It returns a *CycleError
// naming the first node found on a cycle.
func (g *Graph) DetectCycles() error {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	// Use classic depth-first search with three sets of nodes:
	// permanent: nodes that have been fully visited and are not part of a cycle.
	// temporary: nodes currently in the recursion stack for the current traversal.
	// unvisited: all other nodes.
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)

	var visit func(n *node) error
	visit = func(n *node) error {
		if permanent[n.id] {
			return nil
		}
		if temporary[n.id] {
			return &CycleError{Node: n.id}
		}

		temporary[n.id] = true
		for _, dependent := range n.dependents {
			if err := visit(dependent); err != nil {
				return err
			}
		}
		delete(temporary, n.id)
		permanent[n.id] = true
		return nil
	}

	for _, id := range g.order {
		if err := visit(g.nodes[id]); err != nil {
			return err
		}
	}
	return nil
}

func ids(nodes []*node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.id)
	}
	return out
}
