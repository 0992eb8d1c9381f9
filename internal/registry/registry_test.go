package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/filtergrid/internal/builtin"
	"github.com/specialistvlad/filtergrid/internal/config"
	"github.com/specialistvlad/filtergrid/internal/hcl"
	"github.com/specialistvlad/filtergrid/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passthrough(in map[string]string) (map[string]string, error) {
	return map[string]string{"result": in["value"]}, nil
}

func builtinRegistry(t *testing.T) *Registry {
	t.Helper()
	model, err := hcl.NewLoader(builtin.Manifests()).Load(context.Background())
	require.NoError(t, err)

	r := New()
	for _, name := range []string{"arithmetic", "clamp", "color", "number", "random"} {
		r.RegisterEvaluator(name, passthrough)
	}
	r.PopulateFromModel(model)
	return r
}

func TestRegistry_BuiltinValidates(t *testing.T) {
	r := builtinRegistry(t)
	require.NoError(t, r.ValidateRegistry(context.Background()))
}

func TestRegistry_Lookup(t *testing.T) {
	r := builtinRegistry(t)

	nt, err := r.Lookup("feOffset")
	require.NoError(t, err)
	assert.Equal(t, schema.CategoryPrimitive, nt.Category)

	_, err = r.Lookup("feNope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownType))

	var lookupErr *SchemaLookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, "feNope", lookupErr.Ref)
}

func TestRegistry_ListByCategory(t *testing.T) {
	r := builtinRegistry(t)

	refs := func(types []*schema.NodeType) []string {
		out := make([]string, 0, len(types))
		for _, nt := range types {
			out = append(out, nt.Ref)
		}
		return out
	}

	assert.Equal(t, []string{"mathsArithmetic", "mathsClamp"}, refs(r.ListByCategory(schema.CategoryValue)))
	assert.Equal(t, []string{"inputColor", "inputNumber", "inputRandom"}, refs(r.ListByCategory(schema.CategoryInput)))

	primitives := refs(r.ListByCategory(schema.CategoryPrimitive))
	assert.Contains(t, primitives, "feGaussianBlur")
	assert.Contains(t, primitives, "feMergeNode")
	assert.NotContains(t, primitives, "mathsClamp")
}

func TestRegistry_ListNestableInto(t *testing.T) {
	r := builtinRegistry(t)

	testCases := []struct {
		parent    string
		wantRefs  []string
		wantLimit int
	}{
		{parent: "feComponentTransfer", wantRefs: []string{"feFuncR", "feFuncG", "feFuncB", "feFuncA"}, wantLimit: 1},
		{parent: "feDiffuseLighting", wantRefs: []string{"feDistantLight", "fePointLight", "feSpotlight"}, wantLimit: 0},
		{parent: "feMerge", wantRefs: []string{"feMergeNode"}, wantLimit: 0},
		{parent: "feOffset", wantRefs: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.parent, func(t *testing.T) {
			var got []string
			for _, n := range r.ListNestableInto(tc.parent) {
				got = append(got, n.Type.Ref)
				assert.Equal(t, tc.wantLimit, n.Limit)
			}
			assert.Equal(t, tc.wantRefs, got)
		})
	}
}

func TestRegistry_RegisterEvaluatorTwicePanics(t *testing.T) {
	r := New()
	r.RegisterEvaluator("clamp", passthrough)
	assert.Panics(t, func() { r.RegisterEvaluator("clamp", passthrough) })
}

func TestRegistry_ValidateRegistryCollectsProblems(t *testing.T) {
	number := &schema.AttributeType{Name: "number", Kind: schema.ScalarKind{Scalar: schema.ScalarNumber}, Flow: schema.DirectionIn}
	mode := &schema.AttributeType{Name: "mode", Kind: schema.ScalarKind{Scalar: schema.ScalarEnum, Options: []string{"a", "b"}}}

	model := config.NewModel()
	model.NodeTypes = []*schema.NodeType{
		{
			Ref:      "broken",
			Category: schema.CategoryPrimitive,
			NestIn:   []string{"ghost"},
			Attributes: []*schema.AttributeSpec{
				{Name: "mode", Type: mode, DefaultVal: "c", HasDefault: true},
				{Name: "k1", Type: number, Conditions: []schema.Condition{{Attribute: "missing", Value: "x"}}},
				{Name: "grid", Type: number, Kind: schema.MatrixKind{Size: schema.Dims{Cols: 3, Rows: 3}, SizeFrom: "order"}},
			},
		},
		{
			Ref:       "aux",
			Category:  schema.CategoryValue,
			Evaluator: "unregistered",
		},
		{
			Ref:      "odd",
			Category: "decorative",
		},
	}

	r := New()
	r.PopulateFromModel(model)
	err := r.ValidateRegistry(context.Background())
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "registry validation failed:\n- ")
	assert.Contains(t, msg, "nest_in refers to unknown type 'ghost'")
	assert.Contains(t, msg, "default 'c' is not one of [a b]")
	assert.Contains(t, msg, "condition refers to unknown attribute 'missing'")
	assert.Contains(t, msg, "size_from refers to unknown attribute 'order'")
	assert.Contains(t, msg, "evaluator 'unregistered' is not registered")
	assert.Contains(t, msg, "node 'odd': field 'NodeType.Category' failed 'oneof' validation")
}
