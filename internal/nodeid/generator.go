// internal/nodeid/generator.go
package nodeid

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Generator produces node ids. Implementations must never return the same id
// twice for the same prefix.
type Generator interface {
	Next(prefix string) string
}

// UUIDGenerator derives ids from random UUIDs, keeping only the first group,
// e.g. `feOffset-1b4e28ba`.
type UUIDGenerator struct{}

// Next returns a new random id.
func (UUIDGenerator) Next(prefix string) string {
	short, _, _ := strings.Cut(uuid.NewString(), "-")
	return prefix + "-" + short
}

// SequenceGenerator returns deterministic ids (`prefix-1`, `prefix-2`, ...)
// counted per prefix. The zero value is ready to use.
type SequenceGenerator struct {
	mu     sync.Mutex
	counts map[string]int
}

// Next returns the next id for prefix.
func (g *SequenceGenerator) Next(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.counts == nil {
		g.counts = make(map[string]int)
	}
	g.counts[prefix]++
	return fmt.Sprintf("%s-%d", prefix, g.counts[prefix])
}

// Observe records an existing id so later calls never collide with it.
func (g *SequenceGenerator) Observe(id string) {
	idx := strings.LastIndex(id, "-")
	if idx < 0 {
		return
	}
	n, err := strconv.Atoi(id[idx+1:])
	if err != nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.counts == nil {
		g.counts = make(map[string]int)
	}
	if n > g.counts[id[:idx]] {
		g.counts[id[:idx]] = n
	}
}
