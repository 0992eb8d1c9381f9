package testutil

import (
	"context"
	"testing"

	"github.com/specialistvlad/filtergrid/internal/builtin"
	"github.com/specialistvlad/filtergrid/internal/hcl"
	"github.com/specialistvlad/filtergrid/internal/registry"
	"github.com/specialistvlad/filtergrid/modules/inputs"
	"github.com/specialistvlad/filtergrid/modules/maths"
	"github.com/stretchr/testify/require"
)

// BuiltinRegistry loads the embedded manifests and registers every core
// evaluator module.
func BuiltinRegistry(t testing.TB) *registry.Registry {
	t.Helper()
	model, err := hcl.NewLoader(builtin.Manifests()).Load(context.Background())
	require.NoError(t, err)

	reg := registry.New()
	(&maths.Module{}).Register(reg)
	(&inputs.Module{}).Register(reg)
	reg.PopulateFromModel(model)
	require.NoError(t, reg.ValidateRegistry(context.Background()))
	return reg
}
