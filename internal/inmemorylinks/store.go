package inmemorylinks

import (
	"slices"
	"sync"

	"github.com/specialistvlad/filtergrid/internal/linkstore"
	"github.com/specialistvlad/filtergrid/internal/nodeid"
)

type Store struct {
	mu    sync.RWMutex
	links []linkstore.Link
}

var _ linkstore.Store = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) Add(l linkstore.Link) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.Contains(s.links, l) {
		// Adding the same link twice is not an error, it's idempotent.
		return false
	}
	s.links = append(s.links, l)
	return true
}

func (s *Store) Remove(l linkstore.Link) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.Index(s.links, l)
	if i < 0 {
		return false
	}
	s.links = slices.Delete(s.links, i, i+1)
	return true
}

func (s *Store) Incoming(to nodeid.Port) []linkstore.Link {
	return s.filter(func(l linkstore.Link) bool { return l.To == to })
}

func (s *Store) Outgoing(from nodeid.Port) []linkstore.Link {
	return s.filter(func(l linkstore.Link) bool { return l.From == from })
}

func (s *Store) Touching(nodeID string) []linkstore.Link {
	return s.filter(func(l linkstore.Link) bool { return l.Touches(nodeID) })
}

func (s *Store) All() []linkstore.Link {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.links)
}

func (s *Store) filter(keep func(linkstore.Link) bool) []linkstore.Link {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []linkstore.Link
	for _, l := range s.links {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}
