/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package boundary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/archgate/pkg/archgraph"
	"github.com/fulmenhq/archgate/pkg/config"
	"github.com/fulmenhq/archgate/pkg/manifest"
	"github.com/fulmenhq/archgate/pkg/scanner"
)

// buildModel assembles a graph model from hand-built scan and manifest
// values, no filesystem involved.
func buildModel(t *testing.T, units []scanner.Unit, manifests []manifest.Manifest) *archgraph.Model {
	t.Helper()
	model, err := archgraph.Build(&scanner.Result{Root: "/repo", Units: units}, manifests, config.DefaultPolicy())
	require.NoError(t, err)
	return model
}

func violationsOf(results []RuleResult, rule string) []Violation {
	for _, res := range results {
		if res.Name == rule {
			return res.Violations
		}
	}
	return nil
}

func TestModuleIsolation(t *testing.T) {
	model := buildModel(t,
		[]scanner.Unit{
			{Path: "api/handler.go", Package: "api", Imports: []string{"example.com/billing/internal/db"}},
			{Path: "billing/internal/db/store.go", Package: "db", Imports: []string{"database/sql"}},
		},
		[]manifest.Manifest{
			{ModulePath: "example.com/api", RootPath: "api"},
			{ModulePath: "example.com/billing", RootPath: "billing"},
		})

	violations := checkModuleIsolation(model)
	require.Len(t, violations, 1)
	assert.Equal(t, "api/handler.go", violations[0].Subject)
	assert.Contains(t, violations[0].Message, `"example.com/billing/internal/db"`)
	assert.Contains(t, violations[0].Message, "example.com/billing")
}

func TestModuleIsolationAllowsOwnInternal(t *testing.T) {
	model := buildModel(t,
		[]scanner.Unit{
			{Path: "billing/app/service.go", Package: "app", Imports: []string{"example.com/billing/internal/db"}},
		},
		[]manifest.Manifest{
			{ModulePath: "example.com/billing", RootPath: "billing"},
		})

	assert.Empty(t, checkModuleIsolation(model))
}

func TestDomainPurityScenarioBillingInfrastructure(t *testing.T) {
	// A pure-logic unit importing its own module's infrastructure layer
	// trips both domain-purity and layer-ordering, independently.
	model := buildModel(t,
		[]scanner.Unit{
			{Path: "billing/domain/calc.go", Package: "domain", Imports: []string{"example.com/billing/infra/queue"}},
			{Path: "billing/infra/queue/queue.go", Package: "queue", Imports: nil},
		},
		[]manifest.Manifest{
			{ModulePath: "example.com/billing", RootPath: "billing"},
		})

	purity := checkDomainPurity(model)
	require.Len(t, purity, 1)
	assert.Equal(t, "billing/domain/calc.go", purity[0].Subject)
	assert.Contains(t, purity[0].Message, `"example.com/billing/infra/queue"`)

	ordering := checkLayerOrdering(model)
	require.Len(t, ordering, 1)
	assert.Equal(t, "billing/domain/calc.go", ordering[0].Subject)
	assert.Contains(t, ordering[0].Message, `"example.com/billing/infra/queue"`)
}

func TestDomainPurityDenyList(t *testing.T) {
	model := buildModel(t,
		[]scanner.Unit{
			{Path: "billing/domain/calc.go", Package: "domain", Imports: []string{"net/http", "fmt"}},
		},
		[]manifest.Manifest{
			{ModulePath: "example.com/billing", RootPath: "billing"},
		})

	violations := checkDomainPurity(model)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0].Message, `"net/http"`)
}

func TestDependencyDirection(t *testing.T) {
	model := buildModel(t,
		[]scanner.Unit{
			{Path: "billing/ports/repository.go", Package: "ports", Imports: []string{"example.com/billing/adapters/postgres"}},
			{Path: "billing/adapters/postgres/repo.go", Package: "postgres", Imports: []string{"example.com/billing/ports"}},
		},
		[]manifest.Manifest{
			{ModulePath: "example.com/billing", RootPath: "billing"},
		})

	violations := checkDependencyDirection(model)
	require.Len(t, violations, 1)
	assert.Equal(t, "billing/ports/repository.go", violations[0].Subject)
	assert.Contains(t, violations[0].Message, `"example.com/billing/adapters/postgres"`)
}

func TestContractIsolationScenarioExternalDependency(t *testing.T) {
	// A contract module declaring one third-party dependency: exactly one
	// violation naming it, and zero violations from the source-side check.
	model := buildModel(t,
		[]scanner.Unit{
			{Path: "contracts/types.go", Package: "contracts", Imports: []string{"time"}},
		},
		[]manifest.Manifest{
			{ModulePath: "example.com/contracts", RootPath: "contracts", Requires: []manifest.Require{
				{Path: "github.com/rs/zerolog", Version: "v1.33.0"},
			}},
		})

	violations := checkContractIsolation(model)
	require.Len(t, violations, 1)
	assert.Equal(t, "example.com/contracts", violations[0].Subject)
	assert.Contains(t, violations[0].Message, `"github.com/rs/zerolog"`)
}

func TestContractIsolationPurityPrecision(t *testing.T) {
	units := []scanner.Unit{
		{Path: "contracts/types.go", Package: "contracts", Imports: []string{"time"}},
	}
	clean := []manifest.Manifest{
		{ModulePath: "example.com/contracts", RootPath: "contracts"},
	}

	model := buildModel(t, units, clean)
	assert.Empty(t, checkContractIsolation(model), "zero dependencies, zero internal imports: clean")

	// Adding one external dependency line adds exactly one violation
	// naming that dependency.
	dirty := []manifest.Manifest{
		{ModulePath: "example.com/contracts", RootPath: "contracts", Requires: []manifest.Require{
			{Path: "gopkg.in/yaml.v3", Version: "v3.0.1"},
		}},
	}
	model = buildModel(t, units, dirty)
	violations := checkContractIsolation(model)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0].Message, `"gopkg.in/yaml.v3"`)
}

func TestContractIsolationInternalAndExternalImports(t *testing.T) {
	model := buildModel(t,
		[]scanner.Unit{
			{Path: "contracts/client.go", Package: "contracts", Imports: []string{
				"example.com/billing/internal/db",
				"github.com/spf13/viper",
				"fmt",
			}},
		},
		[]manifest.Manifest{
			{ModulePath: "example.com/contracts", RootPath: "contracts"},
			{ModulePath: "example.com/billing", RootPath: "billing"},
		})

	violations := checkContractIsolation(model)
	require.Len(t, violations, 2)
	assert.Contains(t, violations[0].Message, `"example.com/billing/internal/db"`)
	assert.Contains(t, violations[1].Message, `"github.com/spf13/viper"`)
}

func TestContractIsolationIgnoresInternalRequires(t *testing.T) {
	model := buildModel(t,
		nil,
		[]manifest.Manifest{
			{ModulePath: "example.com/contracts", RootPath: "contracts", Requires: []manifest.Require{
				{Path: "example.com/shared-api", Version: "v1.0.0"},
			}},
			{ModulePath: "example.com/shared-api", RootPath: "shared-api"},
		})

	// Depending on another internal module is not an external dependency.
	assert.Empty(t, checkContractIsolation(model))
}

func TestLayerOrderingAllowsInwardImports(t *testing.T) {
	model := buildModel(t,
		[]scanner.Unit{
			{Path: "billing/adapters/http/handler.go", Package: "http", Imports: []string{
				"example.com/billing/domain",
				"example.com/billing/app",
			}},
			{Path: "billing/app/service.go", Package: "app", Imports: []string{"example.com/billing/domain"}},
		},
		[]manifest.Manifest{
			{ModulePath: "example.com/billing", RootPath: "billing"},
		})

	assert.Empty(t, checkLayerOrdering(model))
}

func TestModuleCyclesScenarioCoreApi(t *testing.T) {
	// core declares api, api declares core: exactly one cycle, members
	// named in canonical order.
	model := buildModel(t,
		nil,
		[]manifest.Manifest{
			{ModulePath: "example.com/core", RootPath: "core", Requires: []manifest.Require{
				{Path: "example.com/api", Version: "v0.1.0"},
			}},
			{ModulePath: "example.com/api", RootPath: "api", Requires: []manifest.Require{
				{Path: "example.com/core", Version: "v0.1.0"},
			}},
		})

	violations := checkModuleCycles(model)
	require.Len(t, violations, 1)
	assert.Equal(t, "module dependency cycle: example.com/api -> example.com/core -> example.com/api", violations[0].Message)
}

func TestRuleIndependence(t *testing.T) {
	// Disabling any single rule must not change what the others report.
	units := []scanner.Unit{
		{Path: "billing/domain/calc.go", Package: "domain", Imports: []string{"example.com/billing/infra/queue"}},
		{Path: "billing/ports/repo.go", Package: "ports", Imports: []string{"example.com/billing/adapters/pg"}},
		{Path: "api/handler.go", Package: "api", Imports: []string{"example.com/billing/internal/db"}},
	}
	manifests := []manifest.Manifest{
		{ModulePath: "example.com/billing", RootPath: "billing", Requires: []manifest.Require{
			{Path: "example.com/api", Version: "v0.1.0"},
		}},
		{ModulePath: "example.com/api", RootPath: "api", Requires: []manifest.Require{
			{Path: "example.com/billing", Version: "v0.1.0"},
		}},
	}
	model := buildModel(t, units, manifests)
	engine := NewEngine()

	baseline := engine.Run(model, Selection{})
	for _, disabled := range engine.Rules() {
		results := engine.Run(model, Selection{Skip: []string{disabled.Name}})
		for i, res := range results {
			if res.Name == disabled.Name {
				assert.True(t, res.Skipped)
				continue
			}
			assert.Equal(t, baseline[i].Violations, res.Violations,
				"disabling %s changed output of %s", disabled.Name, res.Name)
		}
	}
}
