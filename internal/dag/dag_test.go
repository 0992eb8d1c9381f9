package dag

import (
	"testing"

	"github.com/specialistvlad/filtergrid/internal/linkstore"
	"github.com/specialistvlad/filtergrid/internal/nodeid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	g := New()
	require.NotNil(t, g)
	assert.NotNil(t, g.nodes)
	assert.Empty(t, g.nodes)
}

func TestAddNode(t *testing.T) {
	g := New()

	g.AddNode("a")
	assert.Len(t, g.nodes, 1)
	nodeA, ok := g.nodes["a"]
	require.True(t, ok)
	assert.Equal(t, "a", nodeA.id)

	g.AddNode("a") // Test idempotency
	assert.Len(t, g.nodes, 1)

	g.AddNode("b")
	assert.Equal(t, []string{"a", "b"}, g.order)
}

func TestAddEdge(t *testing.T) {
	t.Run("success case", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")

		require.NoError(t, g.AddEdge("a", "b")) // b depends on a
		require.NoError(t, g.AddEdge("a", "b")) // idempotent

		deps, err := g.Dependencies("b")
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, deps)

		dependents, err := g.Dependents("a")
		require.NoError(t, err)
		assert.Equal(t, []string{"b"}, dependents)
	})

	t.Run("error cases", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")

		err := g.AddEdge("dne", "a")
		assert.ErrorContains(t, err, "source node not found")

		err = g.AddEdge("a", "dne")
		assert.ErrorContains(t, err, "destination node not found")

		err = g.AddEdge("a", "a")
		assert.ErrorContains(t, err, "self-referential edge")

		_, err = g.Dependencies("dne")
		assert.ErrorContains(t, err, "node not found")
	})
}

func TestReachable(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "c", "d"} {
		g.AddNode(id)
	}
	require.NoError(t, g.AddEdge("a", "b"))
	require.NoError(t, g.AddEdge("b", "c"))

	testCases := []struct {
		from, to string
		want     bool
	}{
		{from: "a", to: "c", want: true},
		{from: "a", to: "a", want: true},
		{from: "c", to: "a", want: false},
		{from: "a", to: "d", want: false},
		{from: "dne", to: "a", want: false},
	}
	for _, tc := range testCases {
		t.Run(tc.from+"->"+tc.to, func(t *testing.T) {
			assert.Equal(t, tc.want, g.Reachable(tc.from, tc.to))
		})
	}
}

func TestFromLinks(t *testing.T) {
	links := []linkstore.Link{
		{From: nodeid.Out("offset", "result"), To: nodeid.In("blur", "in")},
		{From: nodeid.Out("blur", "result"), To: nodeid.In("merge", "nestedNodes")},
		{From: nodeid.Out("self", "result"), To: nodeid.In("self", "in")},
	}
	g := FromLinks([]string{"lonely", "offset"}, links)

	assert.Equal(t, []string{"lonely", "offset", "blur", "merge", "self"}, g.order)
	assert.True(t, g.Reachable("offset", "merge"))
	assert.NoError(t, g.DetectCycles())
}

func TestDetectCycles(t *testing.T) {
	t.Run("empty graph has no cycles", func(t *testing.T) {
		g := New()
		assert.NoError(t, g.DetectCycles())
	})

	t.Run("valid dag has no cycles", func(t *testing.T) {
		g := New()
		for _, id := range []string{"a", "b", "c", "d"} {
			g.AddNode(id)
		}
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("b", "c"))
		require.NoError(t, g.AddEdge("a", "c")) // Transitive edge
		require.NoError(t, g.AddEdge("c", "d"))
		assert.NoError(t, g.DetectCycles())
	})

	t.Run("simple direct cycle is detected", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("b", "a"))

		err := g.DetectCycles()
		var cycleErr *CycleError
		require.ErrorAs(t, err, &cycleErr)
		assert.Equal(t, "a", cycleErr.Node)
		assert.ErrorContains(t, err, "cycle detected involving node 'a'")
	})

	t.Run("cycle in a disjoint component is detected", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")
		require.NoError(t, g.AddEdge("a", "b"))

		g.AddNode("x")
		g.AddNode("y")
		g.AddNode("z")
		require.NoError(t, g.AddEdge("x", "y"))
		require.NoError(t, g.AddEdge("y", "z"))
		require.NoError(t, g.AddEdge("z", "y"))

		err := g.DetectCycles()
		var cycleErr *CycleError
		require.ErrorAs(t, err, &cycleErr)
		assert.Equal(t, "y", cycleErr.Node)
	})
}
