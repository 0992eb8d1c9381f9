// Package nodestore defines the interface for storing the live node
// instances of one engine.
//
// The node store isolates node state (type, position, stored attribute
// values) from the link graph, which is kept by a linkstore.Store. The
// engine owns exactly one of each; there is no process-wide store.
package nodestore

import (
	"errors"

	"github.com/specialistvlad/filtergrid/internal/node"
)

var (
	// ErrDuplicateID is returned when inserting an id that already exists.
	ErrDuplicateID = errors.New("node id already exists")
	// ErrNotFound is returned when updating an id that does not exist.
	ErrNotFound = errors.New("node not found")
)

// Store holds node instances in creation order.
//
// Implementations MUST be safe for concurrent reads. Instances passed in
// and handed out are copies; mutating them has no effect until Put.
type Store interface {
	// Insert adds a new instance. A zero Seq is replaced with the next
	// creation ordinal; a non-zero Seq is kept.
	Insert(n *node.Instance) (*node.Instance, error)
	// Get returns a copy of the instance with the given id.
	Get(id string) (*node.Instance, bool)
	// Put replaces an existing instance, keeping its creation slot.
	Put(n *node.Instance) error
	// Delete removes an instance, reporting whether it existed.
	Delete(id string) bool
	// All returns copies of every instance in creation order.
	All() []*node.Instance
	// Len returns the number of instances.
	Len() int
}
