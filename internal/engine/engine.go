package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/specialistvlad/filtergrid/internal/compiler"
	"github.com/specialistvlad/filtergrid/internal/ctxlog"
	"github.com/specialistvlad/filtergrid/internal/inmemorylinks"
	"github.com/specialistvlad/filtergrid/internal/inmemorystore"
	"github.com/specialistvlad/filtergrid/internal/linkstore"
	"github.com/specialistvlad/filtergrid/internal/metrics"
	"github.com/specialistvlad/filtergrid/internal/node"
	"github.com/specialistvlad/filtergrid/internal/nodeid"
	"github.com/specialistvlad/filtergrid/internal/nodestore"
	"github.com/specialistvlad/filtergrid/internal/registry"
	"github.com/specialistvlad/filtergrid/internal/resolver"
	"github.com/specialistvlad/filtergrid/internal/schema"
)

// Engine owns one graph. All methods are safe for concurrent use; mutations
// are serialized.
type Engine struct {
	mu      sync.Mutex
	reg     *registry.Registry
	nodes   nodestore.Store
	links   linkstore.Store
	res     *resolver.Resolver
	comp    *compiler.Compiler
	ids     nodeid.Generator
	metrics *metrics.Registry
}

// Option configures an Engine.
type Option func(*Engine)

// WithIDGenerator replaces the default UUID-based id generator.
func WithIDGenerator(g nodeid.Generator) Option {
	return func(e *Engine) {
		e.ids = g
	}
}

// WithStores replaces the default in-memory stores.
func WithStores(nodes nodestore.Store, links linkstore.Store) Option {
	return func(e *Engine) {
		e.nodes = nodes
		e.links = links
	}
}

// WithMetrics records command, link and compile metrics into m.
func WithMetrics(m *metrics.Registry) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// New creates an engine over an empty graph.
func New(reg *registry.Registry, opts ...Option) *Engine {
	e := &Engine{
		reg:   reg,
		nodes: inmemorystore.New(),
		links: inmemorylinks.New(),
		ids:   nodeid.UUIDGenerator{},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.res = resolver.New(reg, e.nodes, e.links)
	e.comp = compiler.New(reg, e.nodes, e.links)
	return e
}

// Registry returns the schema registry the engine was built with.
func (e *Engine) Registry() *registry.Registry {
	return e.reg
}

// Node returns a copy of the instance with the given id.
func (e *Engine) Node(id string) (*node.Instance, bool) {
	return e.nodes.Get(id)
}

// Nodes returns copies of every instance in creation order.
func (e *Engine) Nodes() []*node.Instance {
	return e.nodes.All()
}

// Links returns every link in insertion order.
func (e *Engine) Links() []linkstore.Link {
	return e.links.All()
}

// Parent returns the node whose list attribute the given node is linked
// into, if any.
func (e *Engine) Parent(id string) (string, bool) {
	for _, l := range e.links.Touching(id) {
		if l.From.Node != id {
			continue
		}
		dst, ok := e.nodes.Get(l.To.Node)
		if !ok {
			continue
		}
		nt, err := e.reg.Lookup(dst.Type)
		if err != nil {
			continue
		}
		if spec, ok := nt.Attribute(l.To.Attribute); ok {
			if _, isList := spec.EffectiveKind().(schema.ListKind); isList {
				return dst.ID, true
			}
		}
	}
	return "", false
}

// State returns a snapshot of the current graph.
func (e *Engine) State(ctx context.Context) *State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot(ctx, "", nil)
}

// Walk returns the dependency forest of the current graph.
func (e *Engine) Walk() *compiler.Forest {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.comp.Walk()
}

// Compile compiles the current graph. Graph problems are reported as
// warnings on the result, never as errors.
func (e *Engine) Compile(ctx context.Context, opts compiler.Options) (*compiler.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	res, err := e.comp.Compile(ctx, opts)
	if err != nil {
		e.metrics.RecordCompile("error", 0, time.Since(start))
		return nil, fmt.Errorf("failed to compile graph: %w", err)
	}
	e.metrics.RecordCompile("success", len(res.Warnings), time.Since(start))
	return res, nil
}

func (e *Engine) lookup(id string) (*node.Instance, *schema.NodeType, error) {
	inst, ok := e.nodes.Get(id)
	if !ok {
		return nil, nil, fmt.Errorf("node %q: %w", id, ErrUnknownNode)
	}
	nt, err := e.reg.Lookup(inst.Type)
	if err != nil {
		return nil, nil, fmt.Errorf("node %q: %w", id, err)
	}
	return inst, nt, nil
}

// finish runs after every command. It records metrics and logs failures.
func (e *Engine) finish(ctx context.Context, command string, start time.Time, err error) {
	status := "success"
	var rejected *LinkRejectedError
	switch {
	case errors.As(err, &rejected):
		status = "rejected"
		e.metrics.RecordLinkRejection(string(rejected.Reason))
	case err != nil:
		status = "error"
	}
	e.metrics.RecordCommand(command, status, time.Since(start))
	e.metrics.UpdateGraphSize(e.nodes.Len(), len(e.links.All()))
	if err != nil {
		ctxlog.FromContext(ctx).Debug("Command failed.", "command", command, "status", status, "error", err)
	}
}
