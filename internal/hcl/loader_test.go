package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/filtergrid/internal/builtin"
	"github.com/specialistvlad/filtergrid/internal/config"
	"github.com/specialistvlad/filtergrid/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadBuiltin(t *testing.T, paths ...string) *config.Model {
	t.Helper()
	model, err := NewLoader(builtin.Manifests()).Load(context.Background(), paths...)
	require.NoError(t, err)
	return model
}

func nodeType(t *testing.T, model *config.Model, ref string) *schema.NodeType {
	t.Helper()
	nt, ok := model.NodeType(ref)
	require.True(t, ok, "node type %s", ref)
	return nt
}

func attr(t *testing.T, model *config.Model, ref, name string) *schema.AttributeSpec {
	t.Helper()
	nt := nodeType(t, model, ref)
	spec, ok := nt.Attribute(name)
	require.True(t, ok, "attribute %s.%s", ref, name)
	return spec
}

func TestLoader_Builtin(t *testing.T) {
	model := loadBuiltin(t)

	t.Run("offset defaults", func(t *testing.T) {
		assert.Equal(t, "2", attr(t, model, "feOffset", "dx").Default())
		assert.Equal(t, "Horizontal Offset", attr(t, model, "feOffset", "dx").DisplayLabel())
		assert.Equal(t, "", attr(t, model, "feOffset", "in").Default())
	})

	t.Run("ports", func(t *testing.T) {
		in := attr(t, model, "feBlend", "in2")
		assert.Equal(t, schema.DirectionIn, in.Flow())
		assert.Equal(t, schema.RelationOne, in.Relation())
		assert.True(t, in.Dynamic())

		result := attr(t, model, "feBlend", "result")
		assert.Equal(t, schema.DirectionOut, result.Flow())
		assert.Equal(t, schema.RelationMany, result.Relation())
		assert.True(t, schema.IsReference(result.EffectiveKind()))

		mergeIn := attr(t, model, "feMergeNode", "in")
		assert.Equal(t, schema.DirectionOut, mergeIn.Flow())
		assert.Equal(t, schema.RelationOne, mergeIn.Relation())
		assert.Equal(t, "SourceGraphic", mergeIn.Default())
	})

	t.Run("list words", func(t *testing.T) {
		list, ok := attr(t, model, "feComponentTransfer", "nestedNodes").EffectiveKind().(schema.ListKind)
		require.True(t, ok)
		assert.Equal(t, schema.ListKind{Relation: schema.RelationMany, Word: "channel"}, list)

		list, ok = attr(t, model, "feMerge", "nestedNodes").EffectiveKind().(schema.ListKind)
		require.True(t, ok)
		assert.Equal(t, "node", list.Word)
	})

	t.Run("inline compound with matrix field", func(t *testing.T) {
		values := attr(t, model, "feColorMatrix", "values")
		c, ok := values.EffectiveKind().(schema.CompoundKind)
		require.True(t, ok)
		require.Len(t, c.Fields, 3)

		m, ok := c.Fields[0].EffectiveKind().(schema.MatrixKind)
		require.True(t, ok)
		assert.Equal(t, schema.Dims{Cols: 5, Rows: 4}, m.Size)
		assert.Equal(t, "1 0 0 0 0\n0 1 0 0 0\n0 0 1 0 0\n0 0 0 1 0", c.Fields[0].Default())
		assert.Equal(t, []schema.Condition{{Attribute: "type", Value: "matrix"}}, c.Fields[0].Conditions)
		assert.Len(t, values.Conditions, 3)
	})

	t.Run("size_from matrix", func(t *testing.T) {
		kernel := attr(t, model, "feConvolveMatrix", "kernelMatrix")
		m, ok := kernel.EffectiveKind().(schema.MatrixKind)
		require.True(t, ok)
		assert.Equal(t, "order", m.SizeFrom)
		assert.Equal(t, "-1 0 0\n0 0 0\n0 0 1", kernel.Default())
	})

	t.Run("containers", func(t *testing.T) {
		merge := nodeType(t, model, "feMerge")
		assert.Equal(t, schema.ContainerSynthesize, merge.Container)
		assert.Equal(t, "feMergeNode", merge.LinkElement)
		assert.Equal(t, schema.ContainerDirect, nodeType(t, model, "feComponentTransfer").Container)
		assert.Equal(t, 1, nodeType(t, model, "feFuncA").NestLimit)
	})

	t.Run("units and list defaults", func(t *testing.T) {
		assert.Equal(t, []string{"", "%"}, attr(t, model, "feFlood", "width").Units)
		assert.Equal(t, "0.05", attr(t, model, "feTurbulence", "baseFrequency").Default())
	})
}

func TestLoader_UserManifestOverrides(t *testing.T) {
	dir := t.TempDir()
	src := `
node "feOffset" {
  category = "primitive"
  label    = "Shift"

  attribute "in" {}
  attribute "dx" {
    type    = "number"
    default = 7
  }
  attribute "result" {}
}

node "feCustom" {
  category = "primitive"

  attribute "in" {}
  attribute "result" {}
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom.hcl"), []byte(src), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	before := loadBuiltin(t)
	model := loadBuiltin(t, dir)

	assert.Len(t, model.NodeTypes, len(before.NodeTypes)+1)
	assert.Equal(t, "7", attr(t, model, "feOffset", "dx").Default())
	assert.Equal(t, "Shift", nodeType(t, model, "feOffset").DisplayLabel())

	_, hasDy := nodeType(t, model, "feOffset").Attribute("dy")
	assert.False(t, hasDy)
	assert.Equal(t, "feCustom", model.NodeTypes[len(model.NodeTypes)-1].Ref)
}

func TestLoader_KindExpressions(t *testing.T) {
	testCases := []struct {
		name string
		kind string
		want schema.Kind
	}{
		{name: "keyword", kind: "opacity", want: schema.ScalarKind{Scalar: schema.ScalarOpacity}},
		{name: "enum", kind: `enum("a", "b")`, want: schema.ScalarKind{Scalar: schema.ScalarEnum, Options: []string{"a", "b"}}},
		{name: "square matrix", kind: "matrix(4)", want: schema.MatrixKind{Size: schema.Dims{Cols: 4, Rows: 4}}},
		{name: "matrix", kind: "matrix(5, 4)", want: schema.MatrixKind{Size: schema.Dims{Cols: 5, Rows: 4}}},
		{name: "list one", kind: "list(one)", want: schema.ListKind{Relation: schema.RelationOne, Word: "node"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			src := "attribute_type \"x\" {\n  kind = " + tc.kind + "\n}\n"
			fsys := fstest.MapFS{"x.hcl": {Data: []byte(src)}}

			model, err := NewLoader(fsys).Load(context.Background())
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, model.AttributeTypes["x"].Kind); diff != "" {
				t.Errorf("kind mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoader_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name:    "unknown kind",
			src:     `attribute_type "x" { kind = tensor }`,
			wantErr: `unknown kind "tensor"`,
		},
		{
			name:    "bad matrix dims",
			src:     `attribute_type "x" { kind = matrix(0) }`,
			wantErr: "matrix dimensions must be positive",
		},
		{
			name:    "unknown attribute type",
			src:     "node \"n\" {\n  category = \"primitive\"\n  attribute \"ghost\" {}\n}\n",
			wantErr: `unknown attribute type "ghost"`,
		},
		{
			name:    "size_from on scalar",
			src:     "attribute_type \"s\" {\n  kind = string\n}\nnode \"n\" {\n  category = \"primitive\"\n  attribute \"s\" {\n    size_from = \"s\"\n  }\n}\n",
			wantErr: "size_from requires a matrix kind",
		},
		{
			name:    "duplicate attribute",
			src:     "attribute_type \"s\" {\n  kind = string\n}\nnode \"n\" {\n  category = \"primitive\"\n  attribute \"s\" {}\n  attribute \"s\" {}\n}\n",
			wantErr: `duplicate attribute "s"`,
		},
		{
			name:    "bad flow",
			src:     "attribute_type \"s\" {\n  kind = string\n  flow = \"sideways\"\n}\n",
			wantErr: "sideways",
		},
		{
			name:    "syntax error",
			src:     `attribute_type "x" {`,
			wantErr: "failed to parse HCL file",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fsys := fstest.MapFS{"bad.hcl": {Data: []byte(tc.src)}}
			_, err := NewLoader(fsys).Load(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoader_MissingPath(t *testing.T) {
	_, err := NewLoader(nil).Load(context.Background(), filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error accessing path")
}
