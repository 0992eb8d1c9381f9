package inmemorystore

import (
	"fmt"
	"slices"
	"sync"

	"github.com/specialistvlad/filtergrid/internal/node"
	"github.com/specialistvlad/filtergrid/internal/nodestore"
)

// Store is an in-memory implementation of nodestore.Store guarded by an
// RWMutex. Reads take the shared lock, so many readers can resolve values
// while the engine holds its own single-writer lock.
type Store struct {
	mu    sync.RWMutex
	nodes map[string]*node.Instance
	order []string
	seq   int
}

var _ nodestore.Store = (*Store)(nil)

// New creates a new, empty in-memory node store.
func New() *Store {
	return &Store{nodes: make(map[string]*node.Instance)}
}

func (s *Store) Insert(n *node.Instance) (*node.Instance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nodes[n.ID]; exists {
		return nil, fmt.Errorf("insert %q: %w", n.ID, nodestore.ErrDuplicateID)
	}
	c := n.Clone()
	if c.Seq == 0 {
		s.seq++
		c.Seq = s.seq
	} else if c.Seq > s.seq {
		s.seq = c.Seq
	}
	s.nodes[c.ID] = c
	s.order = append(s.order, c.ID)
	return c.Clone(), nil
}

func (s *Store) Get(id string) (*node.Instance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[id]
	if !ok {
		return nil, false
	}
	return n.Clone(), true
}

func (s *Store) Put(n *node.Instance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.nodes[n.ID]
	if !ok {
		return fmt.Errorf("put %q: %w", n.ID, nodestore.ErrNotFound)
	}
	c := n.Clone()
	c.Seq = prev.Seq
	s.nodes[n.ID] = c
	return nil
}

func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.nodes[id]; !ok {
		return false
	}
	delete(s.nodes, id)
	s.order = slices.DeleteFunc(s.order, func(existing string) bool { return existing == id })
	return true
}

func (s *Store) All() []*node.Instance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*node.Instance, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.nodes[id].Clone())
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}
