package archgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/archgate/pkg/config"
	"github.com/fulmenhq/archgate/pkg/manifest"
	"github.com/fulmenhq/archgate/pkg/scanner"
)

func modelFixture(t *testing.T) *Model {
	t.Helper()
	scan := &scanner.Result{
		Root: "/repo",
		Units: []scanner.Unit{
			{Path: "billing/domain/invoice.go", Package: "domain", Imports: []string{"fmt", "example.com/shared/ids"}},
			{Path: "billing/internal/db/store.go", Package: "db", Imports: []string{"database/sql"}},
			{Path: "billing/adapters/http/handler.go", Package: "http", Imports: []string{"example.com/billing/domain"}},
			{Path: "contracts/types.go", Package: "contracts", Imports: []string{"time"}},
			{Path: "scripts/tooling.go", Package: "main", Imports: []string{"os"}},
		},
	}
	manifests := []manifest.Manifest{
		{ModulePath: "example.com/billing", RootPath: "billing", Requires: []manifest.Require{
			{Path: "example.com/contracts", Version: "v1.0.0"},
			{Path: "github.com/stretchr/testify", Version: "v1.11.1"},
		}},
		{ModulePath: "example.com/contracts", RootPath: "contracts"},
	}
	m, err := Build(scan, manifests, config.DefaultPolicy())
	require.NoError(t, err)
	return m
}

func TestBuildAssignsOwnersAndLayers(t *testing.T) {
	m := modelFixture(t)

	units := m.UnitsOf("example.com/billing")
	require.Len(t, units, 3)

	byPath := make(map[string]Unit)
	for _, u := range units {
		byPath[u.Path] = u
	}

	domain := byPath["billing/domain/invoice.go"]
	assert.Equal(t, LayerPureLogic, domain.Layer)
	assert.False(t, domain.Internal)

	store := byPath["billing/internal/db/store.go"]
	assert.True(t, store.Internal)
	assert.Equal(t, LayerUnknown, store.Layer)

	handler := byPath["billing/adapters/http/handler.go"]
	assert.Equal(t, LayerAdapter, handler.Layer)

	// Files outside every module root have no owner.
	all := m.Units()
	var orphan *Unit
	for i := range all {
		if all[i].Path == "scripts/tooling.go" {
			orphan = &all[i]
		}
	}
	require.NotNil(t, orphan)
	assert.Equal(t, "", orphan.Module)
}

func TestBuildExternalDependencyFlag(t *testing.T) {
	m := modelFixture(t)

	billing := m.Module("example.com/billing")
	require.NotNil(t, billing)
	assert.True(t, billing.HasExternalDependency, "testify require is external")

	contracts := m.Module("example.com/contracts")
	require.NotNil(t, contracts)
	assert.False(t, contracts.HasExternalDependency)
	assert.True(t, contracts.IsContract, "contracts root matches the contract glob")
	assert.False(t, billing.IsContract)
}

func TestResolveImportLongestPrefix(t *testing.T) {
	scan := &scanner.Result{Root: "/repo"}
	manifests := []manifest.Manifest{
		{ModulePath: "example.com/billing", RootPath: "billing"},
		{ModulePath: "example.com/billing/contracts", RootPath: "billing/contracts"},
	}
	m, err := Build(scan, manifests, config.DefaultPolicy())
	require.NoError(t, err)

	target := m.ResolveImport("example.com/billing/contracts/types")
	require.NotNil(t, target.Module)
	assert.Equal(t, "example.com/billing/contracts", target.Module.Name)

	target = m.ResolveImport("example.com/billing/domain/invoice")
	require.NotNil(t, target.Module)
	assert.Equal(t, "example.com/billing", target.Module.Name)
	assert.Equal(t, LayerPureLogic, target.Layer)

	// A module path prefix must end on a segment boundary.
	target = m.ResolveImport("example.com/billingx/domain")
	assert.Nil(t, target.Module)
	assert.True(t, target.External)
}

func TestResolveImportTagsInternalTrees(t *testing.T) {
	m := modelFixture(t)

	target := m.ResolveImport("example.com/billing/internal/db")
	require.NotNil(t, target.Module)
	assert.True(t, target.Internal)

	target = m.ResolveImport("example.com/billing/infra/queue")
	require.NotNil(t, target.Module)
	assert.Equal(t, LayerInfrastructure, target.Layer)
	assert.False(t, target.Internal)
}

func TestResolveImportStdlibAndExternal(t *testing.T) {
	m := modelFixture(t)

	fmtTarget := m.ResolveImport("fmt")
	assert.True(t, fmtTarget.Stdlib)
	assert.False(t, fmtTarget.External)

	sqlTarget := m.ResolveImport("database/sql")
	assert.True(t, sqlTarget.Stdlib)

	extTarget := m.ResolveImport("github.com/spf13/cobra")
	assert.True(t, extTarget.External)
	assert.False(t, extTarget.Stdlib)
	assert.Nil(t, extTarget.Module)
}

func TestBuildRejectsEmptyManifestSet(t *testing.T) {
	_, err := Build(&scanner.Result{Root: "/repo"}, nil, config.DefaultPolicy())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no module manifests")
}

func TestBuildRejectsDuplicateRoots(t *testing.T) {
	manifests := []manifest.Manifest{
		{ModulePath: "example.com/a", RootPath: "svc"},
		{ModulePath: "example.com/b", RootPath: "svc"},
	}
	_, err := Build(&scanner.Result{Root: "/repo"}, manifests, config.DefaultPolicy())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "share root")
}

func TestBuildRejectsDuplicateModuleNames(t *testing.T) {
	manifests := []manifest.Manifest{
		{ModulePath: "example.com/a", RootPath: "one"},
		{ModulePath: "example.com/a", RootPath: "two"},
	}
	_, err := Build(&scanner.Result{Root: "/repo"}, manifests, config.DefaultPolicy())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declared at both")
}

func TestDependencyGraphOnlyContainsInternalEdges(t *testing.T) {
	m := modelFixture(t)
	g := m.Graph()

	assert.Equal(t, []string{"example.com/billing", "example.com/contracts"}, g.Nodes())
	assert.Equal(t, []string{"example.com/contracts"}, g.DependenciesOf("example.com/billing"))
	assert.Empty(t, g.DependenciesOf("example.com/contracts"))
}

func TestLayerRank(t *testing.T) {
	tests := []struct {
		layer   Layer
		rank    int
		ordered bool
	}{
		{LayerPureLogic, 0, true},
		{LayerPort, 1, true},
		{LayerOrchestration, 1, true},
		{LayerAdapter, 2, true},
		{LayerInfrastructure, 3, true},
		{LayerContract, 0, false},
		{LayerUnknown, 0, false},
	}
	for _, test := range tests {
		rank, ordered := test.layer.Rank()
		assert.Equal(t, test.ordered, ordered, "layer %s", test.layer)
		if ordered {
			assert.Equal(t, test.rank, rank, "layer %s", test.layer)
		}
	}
}
