// Package linkstore defines the interface for storing the directed links
// between node ports.
//
// The link store holds graph structure only. It performs no validation:
// direction, type, cardinality and cycle rules are enforced by the engine
// before a link reaches the store.
package linkstore

import (
	"github.com/specialistvlad/filtergrid/internal/nodeid"
)

// Link is a directed edge. From is always an output port and To an input.
type Link struct {
	From nodeid.Port
	To   nodeid.Port
}

func (l Link) String() string {
	return l.From.String() + " -> " + l.To.String()
}

// Touches reports whether either end of the link is on the given node.
func (l Link) Touches(nodeID string) bool {
	return l.From.Node == nodeID || l.To.Node == nodeID
}

// Store keeps links in insertion order.
//
// Implementations MUST be safe for concurrent reads.
type Store interface {
	// Add appends a link. Adding an existing link is a no-op that returns false.
	Add(l Link) bool
	// Remove deletes a link, reporting whether it existed.
	Remove(l Link) bool
	// Incoming returns the links into an input port, in insertion order.
	Incoming(to nodeid.Port) []Link
	// Outgoing returns the links out of an output port, in insertion order.
	Outgoing(from nodeid.Port) []Link
	// Touching returns every link with an end on the node.
	Touching(nodeID string) []Link
	// All returns every link in insertion order.
	All() []Link
}
