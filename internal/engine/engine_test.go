package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/specialistvlad/filtergrid/internal/builtin"
	"github.com/specialistvlad/filtergrid/internal/compiler"
	"github.com/specialistvlad/filtergrid/internal/hcl"
	"github.com/specialistvlad/filtergrid/internal/metrics"
	"github.com/specialistvlad/filtergrid/internal/node"
	"github.com/specialistvlad/filtergrid/internal/nodeid"
	"github.com/specialistvlad/filtergrid/internal/registry"
	"github.com/specialistvlad/filtergrid/modules/inputs"
	"github.com/specialistvlad/filtergrid/modules/maths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func builtinRegistry(t testing.TB) *registry.Registry {
	t.Helper()
	model, err := hcl.NewLoader(builtin.Manifests()).Load(context.Background())
	require.NoError(t, err)

	reg := registry.New()
	(&maths.Module{}).Register(reg)
	(&inputs.Module{}).Register(reg)
	reg.PopulateFromModel(model)
	return reg
}

func newEngine(t testing.TB, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithIDGenerator(&nodeid.SequenceGenerator{})}, opts...)
	return New(builtinRegistry(t), opts...)
}

func create(t testing.TB, e *Engine, typeRef string) string {
	t.Helper()
	st, err := e.CreateNode(context.Background(), typeRef, node.Position{})
	require.NoError(t, err)
	return st.Subject
}

func link(t testing.TB, e *Engine, from, fromAttr, to, toAttr string) *State {
	t.Helper()
	st, err := e.Link(context.Background(), nodeid.Out(from, fromAttr), nodeid.In(to, toAttr))
	require.NoError(t, err)
	return st
}

func attribute(t testing.TB, st *State, id, path string) string {
	t.Helper()
	n, ok := st.Node(id)
	require.True(t, ok, "node %s", id)
	a, ok := n.Attribute(path)
	require.True(t, ok, "attribute %s", path)
	return a.Value
}

func TestEngine_CreateNode(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)

	t.Run("defaults", func(t *testing.T) {
		st, err := e.CreateNode(ctx, "feOffset", node.Position{X: -5, Y: 20})
		require.NoError(t, err)
		require.Equal(t, "feOffset-1", st.Subject)

		n, ok := st.Node("feOffset-1")
		require.True(t, ok)
		assert.Equal(t, node.Position{X: 0, Y: 20}, n.Position)
		assert.Equal(t, 1, n.Seq)
		assert.Equal(t, "2", attribute(t, st, "feOffset-1", "dx"))
		assert.Equal(t, "feOffset-1", attribute(t, st, "feOffset-1", "result"))

		inst, ok := e.Node("feOffset-1")
		require.True(t, ok)
		assert.Equal(t, map[string]string{"in": "", "dx": "2", "dy": "2", "result": "feOffset-1"}, inst.Values)
	})

	t.Run("compound and matrix defaults", func(t *testing.T) {
		id := create(t, e, "feColorMatrix")
		inst, _ := e.Node(id)
		assert.Equal(t, "1 0 0 0 0\n0 1 0 0 0\n0 0 1 0 0\n0 0 0 1 0", inst.Values["values._matrix"])
		assert.Equal(t, "matrix", inst.Values["type"])

		st := e.State(ctx)
		assert.Equal(t, "1 0 0 0 0 0 1 0 0 0 0 0 1 0 0 0 0 0 1 0", attribute(t, st, id, "values"))
	})

	t.Run("compound with explicit default is split", func(t *testing.T) {
		id := create(t, e, "feMorphology")
		inst, _ := e.Node(id)
		assert.Equal(t, "0", inst.Values["radius._number"])
		assert.Equal(t, "", inst.Values["radius._optionalNumber"])
	})

	t.Run("units start at the first option", func(t *testing.T) {
		id := create(t, e, "feFlood")
		inst, _ := e.Node(id)
		assert.Equal(t, "", inst.Values["width:unit"])
		assert.Equal(t, "100", inst.Values["width"])
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := e.CreateNode(ctx, "feNope", node.Position{})
		assert.True(t, errors.Is(err, registry.ErrUnknownType))
	})
}

func TestEngine_SetAttribute(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	blur := create(t, e, "feGaussianBlur")
	flood := create(t, e, "feFlood")

	testCases := []struct {
		name    string
		id      string
		path    string
		value   string
		wantErr error
		check   func(t *testing.T, st *State)
	}{
		{
			name: "compound is split across fields", id: blur, path: "stdDeviation", value: "3 4",
			check: func(t *testing.T, st *State) {
				assert.Equal(t, "3 4", attribute(t, st, blur, "stdDeviation"))
			},
		},
		{
			name: "compound field", id: blur, path: "stdDeviation._optionalNumber", value: "",
			check: func(t *testing.T, st *State) {
				assert.Equal(t, "3", attribute(t, st, blur, "stdDeviation"))
			},
		},
		{name: "enum option", id: blur, path: "edgeMode", value: "wrap"},
		{name: "empty enum", id: blur, path: "in", value: ""},
		{name: "enum outside options", id: blur, path: "edgeMode", value: "mirror", wantErr: ErrInvalidValue},
		{name: "unknown attribute", id: blur, path: "nope", value: "1", wantErr: ErrUnknownAttribute},
		{name: "unknown field", id: blur, path: "stdDeviation._z", value: "1", wantErr: ErrUnknownAttribute},
		{name: "unit on attribute without units", id: blur, path: "edgeMode:unit", value: "%", wantErr: ErrUnknownAttribute},
		{
			name: "unit", id: flood, path: "width:unit", value: "%",
			check: func(t *testing.T, st *State) {
				n, _ := st.Node(flood)
				a, _ := n.Attribute("width")
				assert.Equal(t, "%", a.Unit)
			},
		},
		{name: "unit outside options", id: flood, path: "width:unit", value: "px", wantErr: ErrInvalidValue},
		{name: "unknown node", id: "ghost", path: "dx", value: "1", wantErr: ErrUnknownNode},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			st, err := e.SetAttribute(ctx, tc.id, tc.path, tc.value)
			if tc.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			if tc.check != nil {
				tc.check(t, st)
			}
		})
	}
}

func TestEngine_LinkRules(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name     string
		setup    func(t *testing.T, e *Engine) (from, to nodeid.Port)
		reason   Reason
		advisory string
	}{
		{
			name: "same direction",
			setup: func(t *testing.T, e *Engine) (nodeid.Port, nodeid.Port) {
				a, b := create(t, e, "feOffset"), create(t, e, "feGaussianBlur")
				return nodeid.Out(a, "result"), nodeid.Out(b, "result")
			},
			reason: ReasonIncompatibleDirection,
		},
		{
			name: "attribute without port",
			setup: func(t *testing.T, e *Engine) (nodeid.Port, nodeid.Port) {
				a, b := create(t, e, "feOffset"), create(t, e, "feBlend")
				return nodeid.Out(a, "result"), nodeid.In(b, "mode")
			},
			reason: ReasonNoPort,
		},
		{
			name: "self reference",
			setup: func(t *testing.T, e *Engine) (nodeid.Port, nodeid.Port) {
				a := create(t, e, "feOffset")
				return nodeid.Out(a, "result"), nodeid.In(a, "in")
			},
			reason:   ReasonSelfReference,
			advisory: SelfReferenceMessage,
		},
		{
			name: "cycle",
			setup: func(t *testing.T, e *Engine) (nodeid.Port, nodeid.Port) {
				a, b, c := create(t, e, "feOffset"), create(t, e, "feOffset"), create(t, e, "feBlend")
				link(t, e, a, "result", b, "in")
				link(t, e, b, "result", c, "in")
				return nodeid.Out(c, "result"), nodeid.In(a, "in")
			},
			reason:   ReasonCycle,
			advisory: CycleMessage,
		},
		{
			name: "number into string port",
			setup: func(t *testing.T, e *Engine) (nodeid.Port, nodeid.Port) {
				a, b := create(t, e, "mathsArithmetic"), create(t, e, "feGaussianBlur")
				return nodeid.Out(a, "result"), nodeid.In(b, "in")
			},
			reason: ReasonIncompatibleType,
		},
		{
			name: "color into number port",
			setup: func(t *testing.T, e *Engine) (nodeid.Port, nodeid.Port) {
				a, b := create(t, e, "inputColor"), create(t, e, "feOffset")
				return nodeid.Out(a, "result"), nodeid.In(b, "dx")
			},
			reason: ReasonIncompatibleType,
		},
		{
			name: "primitive into direct container",
			setup: func(t *testing.T, e *Engine) (nodeid.Port, nodeid.Port) {
				a, b := create(t, e, "feOffset"), create(t, e, "feComponentTransfer")
				return nodeid.Out(a, "result"), nodeid.In(b, "nestedNodes")
			},
			reason: ReasonIncompatibleNesting,
		},
		{
			name: "nested type outside a parent",
			setup: func(t *testing.T, e *Engine) (nodeid.Port, nodeid.Port) {
				a, b := create(t, e, "feFuncR"), create(t, e, "feGaussianBlur")
				return nodeid.Out(a, "result"), nodeid.In(b, "in")
			},
			reason: ReasonIncompatibleNesting,
		},
		{
			name: "nested type into the wrong parent",
			setup: func(t *testing.T, e *Engine) (nodeid.Port, nodeid.Port) {
				a, b := create(t, e, "fePointLight"), create(t, e, "feComponentTransfer")
				return nodeid.Out(a, "result"), nodeid.In(b, "nestedNodes")
			},
			reason: ReasonIncompatibleNesting,
		},
		{
			name: "nest limit",
			setup: func(t *testing.T, e *Engine) (nodeid.Port, nodeid.Port) {
				ct, r1, r2 := create(t, e, "feComponentTransfer"), create(t, e, "feFuncR"), create(t, e, "feFuncR")
				link(t, e, r1, "result", ct, "nestedNodes")
				return nodeid.Out(r2, "result"), nodeid.In(ct, "nestedNodes")
			},
			reason: ReasonIncompatibleNesting,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := newEngine(t)
			from, to := tc.setup(t, e)
			before := e.Links()

			st, err := e.Link(ctx, from, to)

			var rejected *LinkRejectedError
			require.ErrorAs(t, err, &rejected)
			assert.Equal(t, tc.reason, rejected.Reason)
			assert.Equal(t, before, e.Links(), "graph must be unchanged")
			if tc.advisory != "" {
				require.NotNil(t, st)
				require.Len(t, st.Advisories, 1)
				assert.Equal(t, tc.advisory, st.Advisories[0].Message)
			}
		})
	}
}

func TestEngine_LinkAccepted(t *testing.T) {
	ctx := context.Background()

	t.Run("ports in either order", func(t *testing.T) {
		e := newEngine(t)
		a, b := create(t, e, "feOffset"), create(t, e, "feGaussianBlur")
		st, err := e.Link(ctx, nodeid.In(b, "in"), nodeid.Out(a, "result"))
		require.NoError(t, err)
		assert.Equal(t, a, attribute(t, st, b, "in"))

		n, _ := st.Node(a)
		p, _ := n.Port("result")
		assert.True(t, p.Connected)
		assert.Equal(t, []nodeid.Port{nodeid.In(b, "in")}, p.Targets)
	})

	t.Run("value into number port", func(t *testing.T) {
		e := newEngine(t)
		num, off := create(t, e, "inputNumber"), create(t, e, "feOffset")
		_, err := e.SetAttribute(ctx, num, "value", "12.5")
		require.NoError(t, err)
		st := link(t, e, num, "result", off, "dx")
		assert.Equal(t, "12.5", attribute(t, st, off, "dx"))
	})

	t.Run("primitive into synthesize container", func(t *testing.T) {
		e := newEngine(t)
		a, m := create(t, e, "feOffset"), create(t, e, "feMerge")
		st := link(t, e, a, "result", m, "nestedNodes")
		n, _ := st.Node(m)
		res, _ := n.Attribute("nestedNodes")
		assert.Equal(t, "(1 node)", res.Display)
		parent, ok := e.Parent(a)
		require.True(t, ok)
		assert.Equal(t, m, parent)
	})

	t.Run("dynamic reference follows renames", func(t *testing.T) {
		e := newEngine(t)
		a, b := create(t, e, "feOffset"), create(t, e, "feGaussianBlur")
		link(t, e, a, "result", b, "in")
		st, err := e.SetAttribute(ctx, a, "result", "shifted")
		require.NoError(t, err)
		assert.Equal(t, "shifted", attribute(t, st, b, "in"))
	})
}

func TestEngine_LinkCardinality(t *testing.T) {
	e := newEngine(t)
	a, b, c := create(t, e, "feOffset"), create(t, e, "feOffset"), create(t, e, "feGaussianBlur")

	t.Run("one input replaces its source", func(t *testing.T) {
		link(t, e, a, "result", c, "in")
		st := link(t, e, b, "result", c, "in")
		n, _ := st.Node(c)
		p, _ := n.Port("in")
		assert.Equal(t, []nodeid.Port{nodeid.Out(b, "result")}, p.Sources)
	})

	t.Run("many output feeds several inputs", func(t *testing.T) {
		d := create(t, e, "feBlend")
		link(t, e, a, "result", d, "in")
		st := link(t, e, a, "result", d, "in2")
		n, _ := st.Node(a)
		p, _ := n.Port("result")
		assert.Len(t, p.Targets, 2)
	})

	t.Run("many list appends without duplicates", func(t *testing.T) {
		m := create(t, e, "feMerge")
		link(t, e, a, "result", m, "nestedNodes")
		link(t, e, b, "result", m, "nestedNodes")
		st := link(t, e, a, "result", m, "nestedNodes")
		n, _ := st.Node(m)
		p, _ := n.Port("nestedNodes")
		assert.Equal(t, []nodeid.Port{nodeid.Out(a, "result"), nodeid.Out(b, "result")}, p.Sources)
	})

	t.Run("one output moves to its new parent", func(t *testing.T) {
		ct1, ct2, fn := create(t, e, "feComponentTransfer"), create(t, e, "feComponentTransfer"), create(t, e, "feFuncR")
		link(t, e, fn, "result", ct1, "nestedNodes")
		st := link(t, e, fn, "result", ct2, "nestedNodes")

		n, _ := st.Node(ct1)
		p, _ := n.Port("nestedNodes")
		assert.False(t, p.Connected)
		parent, _ := e.Parent(fn)
		assert.Equal(t, ct2, parent)
	})
}

func TestEngine_Unlink(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	a, b, m := create(t, e, "feOffset"), create(t, e, "feOffset"), create(t, e, "feMerge")
	blur := create(t, e, "feGaussianBlur")
	link(t, e, a, "result", m, "nestedNodes")
	link(t, e, b, "result", m, "nestedNodes")
	link(t, e, a, "result", blur, "in")

	t.Run("single source", func(t *testing.T) {
		src := nodeid.Out(a, "result")
		st, err := e.Unlink(ctx, nodeid.In(m, "nestedNodes"), &src)
		require.NoError(t, err)
		n, _ := st.Node(m)
		p, _ := n.Port("nestedNodes")
		assert.Equal(t, []nodeid.Port{nodeid.Out(b, "result")}, p.Sources)
	})

	t.Run("all consumers of an output", func(t *testing.T) {
		st, err := e.Unlink(ctx, nodeid.Out(a, "result"), nil)
		require.NoError(t, err)
		n, _ := st.Node(a)
		p, _ := n.Port("result")
		assert.False(t, p.Connected)
		assert.Equal(t, "", attribute(t, st, blur, "in"))
	})

	t.Run("all sources of an input", func(t *testing.T) {
		st, err := e.Unlink(ctx, nodeid.In(m, "nestedNodes"), nil)
		require.NoError(t, err)
		assert.Empty(t, st.Links)
		assert.Len(t, st.Nodes, 4)
	})

	t.Run("attribute without port", func(t *testing.T) {
		_, err := e.Unlink(ctx, nodeid.In(blur, "edgeMode"), nil)
		assert.ErrorIs(t, err, ErrNoPort)
	})
}

func TestEngine_HiddenInputsAreUnlinked(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	num, comp := create(t, e, "inputNumber"), create(t, e, "feComposite")

	_, err := e.SetAttribute(ctx, comp, "operator", "arithmetic")
	require.NoError(t, err)
	link(t, e, num, "result", comp, "k1")
	require.Len(t, e.Links(), 1)

	st, err := e.SetAttribute(ctx, comp, "operator", "over")
	require.NoError(t, err)
	assert.Empty(t, st.Links)

	n, _ := st.Node(comp)
	k1, _ := n.Attribute("k1")
	assert.False(t, k1.Visible)
	assert.False(t, k1.Linked)
}

func TestEngine_MatrixFollowsSize(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	cm := create(t, e, "feConvolveMatrix")

	inst, _ := e.Node(cm)
	require.Equal(t, "-1 0 0\n0 0 0\n0 0 1", inst.Values["kernelMatrix"])

	t.Run("shrink", func(t *testing.T) {
		st, err := e.SetAttribute(ctx, cm, "order", "2")
		require.NoError(t, err)
		assert.Equal(t, "-1 0 0 0", attribute(t, st, cm, "kernelMatrix"))
		inst, _ := e.Node(cm)
		assert.Equal(t, "-1 0\n0 0", inst.Values["kernelMatrix"])
	})

	t.Run("rectangular growth pads with zeros", func(t *testing.T) {
		st, err := e.SetAttribute(ctx, cm, "order", "3 2")
		require.NoError(t, err)
		assert.Equal(t, "-1 0 0 0 0 0", attribute(t, st, cm, "kernelMatrix"))
	})

	t.Run("malformed size keeps the stored grid", func(t *testing.T) {
		st, err := e.SetAttribute(ctx, cm, "order._number", "abc")
		require.NoError(t, err)
		require.NotEmpty(t, st.Warnings)
		inst, _ := e.Node(cm)
		assert.Equal(t, "-1 0 0\n0 0 0", inst.Values["kernelMatrix"])
	})

	t.Run("oversized size keeps the stored grid", func(t *testing.T) {
		st, err := e.SetAttribute(ctx, cm, "order._number", "4000")
		require.NoError(t, err)
		require.NotEmpty(t, st.Warnings)
		assert.Equal(t, "-1 0 0 0 0 0", attribute(t, st, cm, "kernelMatrix"))
		inst, _ := e.Node(cm)
		assert.Equal(t, "-1 0 0\n0 0 0", inst.Values["kernelMatrix"])
	})
}

func TestEngine_DeleteNode(t *testing.T) {
	ctx := context.Background()

	t.Run("nested children are deleted with their parent", func(t *testing.T) {
		e := newEngine(t)
		ct, r, g := create(t, e, "feComponentTransfer"), create(t, e, "feFuncR"), create(t, e, "feFuncG")
		link(t, e, r, "result", ct, "nestedNodes")
		link(t, e, g, "result", ct, "nestedNodes")

		st, err := e.DeleteNode(ctx, ct)
		require.NoError(t, err)
		assert.Empty(t, st.Nodes)
		assert.Empty(t, st.Links)
	})

	t.Run("synthesized children are only unlinked", func(t *testing.T) {
		e := newEngine(t)
		m, a, mn := create(t, e, "feMerge"), create(t, e, "feOffset"), create(t, e, "feMergeNode")
		link(t, e, a, "result", m, "nestedNodes")
		link(t, e, mn, "in", m, "nestedNodes")

		st, err := e.DeleteNode(ctx, m)
		require.NoError(t, err)
		require.Len(t, st.Nodes, 1)
		assert.Equal(t, a, st.Nodes[0].ID)
		assert.Empty(t, st.Links)
	})

	t.Run("links through the node are removed", func(t *testing.T) {
		e := newEngine(t)
		a, b, c := create(t, e, "feOffset"), create(t, e, "feOffset"), create(t, e, "feGaussianBlur")
		link(t, e, a, "result", b, "in")
		link(t, e, b, "result", c, "in")

		st, err := e.DeleteNode(ctx, b)
		require.NoError(t, err)
		assert.Empty(t, st.Links)
		assert.Equal(t, "", attribute(t, st, c, "in"))
	})

	t.Run("unknown node", func(t *testing.T) {
		e := newEngine(t)
		_, err := e.DeleteNode(ctx, "ghost")
		assert.ErrorIs(t, err, ErrUnknownNode)
	})
}

func TestEngine_Reposition(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	a := create(t, e, "feOffset")

	st, err := e.Reposition(ctx, a, 40, -12)
	require.NoError(t, err)
	n, _ := st.Node(a)
	assert.Equal(t, node.Position{X: 40, Y: 0}, n.Position)

	_, err = e.Reposition(ctx, "ghost", 1, 1)
	assert.ErrorIs(t, err, ErrUnknownNode)
}

func TestEngine_RestoreNode(t *testing.T) {
	ctx := context.Background()
	gen := &nodeid.SequenceGenerator{}
	e := newEngine(t, WithIDGenerator(gen))

	restored := node.New("feOffset-7", "feOffset", node.Position{X: 3, Y: 4})
	restored.Seq = 9
	restored.Values["dx"] = "11"
	st, err := e.RestoreNode(ctx, restored)
	require.NoError(t, err)

	n, ok := st.Node("feOffset-7")
	require.True(t, ok)
	assert.Equal(t, 9, n.Seq)
	assert.Equal(t, "11", attribute(t, st, "feOffset-7", "dx"))
	assert.Equal(t, "2", attribute(t, st, "feOffset-7", "dy"))
	assert.Equal(t, "feOffset-8", create(t, e, "feOffset"))

	_, err = e.RestoreNode(ctx, restored)
	assert.Error(t, err)

	t.Run("compound values are split into fields", func(t *testing.T) {
		blur := node.New("blur", "feGaussianBlur", node.Position{})
		blur.Values["stdDeviation"] = "3"
		_, err := e.RestoreNode(ctx, blur)
		require.NoError(t, err)

		inst, _ := e.Node("blur")
		assert.Equal(t, "3", inst.Values["stdDeviation._number"])
		assert.Equal(t, "", inst.Values["stdDeviation._optionalNumber"])
	})

	t.Run("field paths override their compound", func(t *testing.T) {
		conv := node.New("conv", "feConvolveMatrix", node.Position{})
		conv.Values["order"] = "3 3"
		conv.Values["order._optionalNumber"] = "2"
		_, err := e.RestoreNode(ctx, conv)
		require.NoError(t, err)

		inst, _ := e.Node("conv")
		assert.Equal(t, "3", inst.Values["order._number"])
		assert.Equal(t, "2", inst.Values["order._optionalNumber"])
	})

	invalid := []struct {
		name   string
		values map[string]string
		want   error
	}{
		{name: "unknown attribute", values: map[string]string{"notAnAttr": "x"}, want: ErrUnknownAttribute},
		{name: "enum outside vocabulary", values: map[string]string{"edgeMode": "bogus"}, want: ErrInvalidValue},
		{name: "unit on unitless attribute", values: map[string]string{"stdDeviation:unit": "%"}, want: ErrUnknownAttribute},
		{name: "unknown field", values: map[string]string{"stdDeviation._nope": "1"}, want: ErrUnknownAttribute},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			inst := node.New("bad", "feGaussianBlur", node.Position{})
			for k, v := range tc.values {
				inst.Values[k] = v
			}
			_, err := e.RestoreNode(ctx, inst)
			require.ErrorIs(t, err, tc.want)
			_, ok := e.Node(inst.ID)
			assert.False(t, ok)
		})
	}
}

func TestEngine_Controls(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)

	blur := create(t, e, "feGaussianBlur")
	_, err := e.SetAttribute(ctx, blur, "stdDeviation", "3 4")
	require.NoError(t, err)
	flood := create(t, e, "feFlood")
	_, err = e.SetAttribute(ctx, flood, "width:unit", "%")
	require.NoError(t, err)
	cm := create(t, e, "feColorMatrix")
	_, err = e.SetAttribute(ctx, cm, "type", "saturate")
	require.NoError(t, err)
	_, err = e.SetAttribute(ctx, cm, "values._numbers_saturate", "0.5")
	require.NoError(t, err)

	t.Run("compounds are joined", func(t *testing.T) {
		ctrl, err := e.Controls(blur)
		require.NoError(t, err)
		assert.Equal(t, "3 4", ctrl["stdDeviation"])
		assert.NotContains(t, ctrl, "stdDeviation._number")
	})

	t.Run("units are explicit", func(t *testing.T) {
		ctrl, err := e.Controls(flood)
		require.NoError(t, err)
		assert.Equal(t, "%", ctrl["width:unit"])
		assert.Equal(t, "100", ctrl["width"])
	})

	t.Run("unsplittable compounds are written by field", func(t *testing.T) {
		ctrl, err := e.Controls(cm)
		require.NoError(t, err)
		assert.NotContains(t, ctrl, "values")
		assert.Equal(t, "0.5", ctrl["values._numbers_saturate"])
		assert.Contains(t, ctrl, "values._matrix")
	})

	t.Run("restoring controls reproduces the stored values", func(t *testing.T) {
		restored := newEngine(t)
		for _, id := range []string{blur, flood, cm} {
			ctrl, err := e.Controls(id)
			require.NoError(t, err)
			orig, _ := e.Node(id)
			inst := node.New(id, orig.Type, orig.Position)
			inst.Values = ctrl
			_, err = restored.RestoreNode(ctx, inst)
			require.NoError(t, err)

			got, _ := restored.Node(id)
			assert.Equal(t, orig.Values, got.Values, id)
		}
	})

	t.Run("unknown node", func(t *testing.T) {
		_, err := e.Controls("ghost")
		assert.ErrorIs(t, err, ErrUnknownNode)
	})
}

func TestEngine_CompileAndMetrics(t *testing.T) {
	ctx := context.Background()
	m := metrics.NewRegistry()
	e := newEngine(t, WithMetrics(m))
	a, b := create(t, e, "feOffset"), create(t, e, "feGaussianBlur")
	link(t, e, a, "result", b, "in")
	_, err := e.Link(ctx, nodeid.Out(a, "result"), nodeid.In(a, "in"))
	require.Error(t, err)

	res, err := e.Compile(ctx, compiler.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, res.Order)

	assert.Equal(t, 2.0, counterValue(t, m.CommandsTotal.WithLabelValues("create_node", "success")))
	assert.Equal(t, 1.0, counterValue(t, m.LinkRejectionsTotal.WithLabelValues(string(ReasonSelfReference))))
	assert.Equal(t, 1.0, counterValue(t, m.CompilesTotal.WithLabelValues("success")))
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	require.NoError(t, c.Write(&metric))
	return metric.Counter.GetValue()
}
