package testutil

import (
	"context"
	"testing"

	"github.com/specialistvlad/filtergrid/internal/compiler"
	"github.com/specialistvlad/filtergrid/internal/engine"
	"github.com/specialistvlad/filtergrid/internal/node"
	"github.com/specialistvlad/filtergrid/internal/nodeid"
	"github.com/specialistvlad/filtergrid/internal/registry"
	"github.com/stretchr/testify/require"
)

// Graph drives an engine with deterministic ids and fails the test on any
// command error.
type Graph struct {
	T      testing.TB
	Engine *engine.Engine
}

// NewGraph creates an empty graph over the built-in schema.
func NewGraph(t testing.TB) *Graph {
	t.Helper()
	return NewGraphWith(t, BuiltinRegistry(t))
}

// NewGraphWith creates an empty graph over reg.
func NewGraphWith(t testing.TB, reg *registry.Registry, opts ...engine.Option) *Graph {
	opts = append([]engine.Option{engine.WithIDGenerator(&nodeid.SequenceGenerator{})}, opts...)
	return &Graph{T: t, Engine: engine.New(reg, opts...)}
}

// Create adds a node at pos and applies path/value pairs. It returns the id.
func (g *Graph) Create(typeRef string, values ...string) string {
	g.T.Helper()
	return g.CreateAt(typeRef, node.Position{}, values...)
}

// CreateAt is Create with an explicit canvas position.
func (g *Graph) CreateAt(typeRef string, pos node.Position, values ...string) string {
	g.T.Helper()
	ctx := context.Background()
	st, err := g.Engine.CreateNode(ctx, typeRef, pos)
	require.NoError(g.T, err)
	for i := 0; i+1 < len(values); i += 2 {
		_, err := g.Engine.SetAttribute(ctx, st.Subject, values[i], values[i+1])
		require.NoError(g.T, err)
	}
	return st.Subject
}

// Link joins an output attribute of from to an input attribute of to.
func (g *Graph) Link(from, fromAttr, to, toAttr string) {
	g.T.Helper()
	_, err := g.Engine.Link(context.Background(), nodeid.Out(from, fromAttr), nodeid.In(to, toAttr))
	require.NoError(g.T, err)
}

// Compile compiles the graph.
func (g *Graph) Compile(opts compiler.Options) *compiler.Result {
	g.T.Helper()
	res, err := g.Engine.Compile(context.Background(), opts)
	require.NoError(g.T, err)
	return res
}
