/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package boundary

import (
	"fmt"
	"strings"

	"github.com/fulmenhq/archgate/pkg/archgraph"
)

// DefaultRules returns the built-in rule table in registration order.
// The order fixes report layout; each check is independent of the others.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:        "module-isolation",
			Description: "no compilation unit imports another module's internal tree",
			Check:       checkModuleIsolation,
		},
		{
			Name:        "domain-purity",
			Description: "pure business logic stays free of adapter, infrastructure, and denied external imports",
			Check:       checkDomainPurity,
		},
		{
			Name:        "dependency-direction",
			Description: "ports are depended upon, never the reverse: a port never imports an adapter",
			Check:       checkDependencyDirection,
		},
		{
			Name:        "contract-isolation",
			Description: "contract modules carry no external dependencies and no internal implementation knowledge",
			Check:       checkContractIsolation,
		},
		{
			Name:        "layer-ordering",
			Description: "imports never point outward in the layer order pure-logic < orchestration < adapter < infrastructure",
			Check:       checkLayerOrdering,
		},
		{
			Name:        "module-cycles",
			Description: "the module-level declared-dependency graph is cycle free",
			Check:       checkModuleCycles,
		},
	}
}

func checkModuleIsolation(m *archgraph.Model) []Violation {
	var violations []Violation
	for _, unit := range m.Units() {
		if unit.Module == "" {
			continue
		}
		for _, imp := range unit.Imports {
			target := m.ResolveImport(imp)
			if target.Module == nil || target.Module.Name == unit.Module {
				continue
			}
			if target.Internal {
				violations = append(violations, Violation{
					Rule:    "module-isolation",
					Subject: unit.Path,
					Message: fmt.Sprintf("%s imports %q, which is internal to module %s", unit.Path, imp, target.Module.Name),
				})
			}
		}
	}
	return violations
}

func checkDomainPurity(m *archgraph.Model) []Violation {
	denyList := m.Policy().DomainDenyList
	var violations []Violation
	for _, unit := range m.Units() {
		if unit.Layer != archgraph.LayerPureLogic {
			continue
		}
		for _, imp := range unit.Imports {
			target := m.ResolveImport(imp)
			switch {
			case target.Module != nil && (target.Layer == archgraph.LayerAdapter || target.Layer == archgraph.LayerInfrastructure):
				violations = append(violations, Violation{
					Rule:    "domain-purity",
					Subject: unit.Path,
					Message: fmt.Sprintf("%s is pure business logic but imports %q (%s layer)", unit.Path, imp, target.Layer),
				})
			case target.Module == nil && deniedImport(imp, denyList):
				violations = append(violations, Violation{
					Rule:    "domain-purity",
					Subject: unit.Path,
					Message: fmt.Sprintf("%s is pure business logic but imports denied library %q", unit.Path, imp),
				})
			}
		}
	}
	return violations
}

func deniedImport(imp string, denyList []string) bool {
	for _, fragment := range denyList {
		if strings.Contains(imp, fragment) {
			return true
		}
	}
	return false
}

func checkDependencyDirection(m *archgraph.Model) []Violation {
	var violations []Violation
	for _, unit := range m.Units() {
		if unit.Layer != archgraph.LayerPort {
			continue
		}
		for _, imp := range unit.Imports {
			target := m.ResolveImport(imp)
			if target.Module != nil && target.Layer == archgraph.LayerAdapter {
				violations = append(violations, Violation{
					Rule:    "dependency-direction",
					Subject: unit.Path,
					Message: fmt.Sprintf("%s declares a port but imports adapter %q", unit.Path, imp),
				})
			}
		}
	}
	return violations
}

func checkContractIsolation(m *archgraph.Model) []Violation {
	var violations []Violation
	for _, mod := range m.Modules() {
		if !mod.IsContract {
			continue
		}

		// Manifest side: a contract module declares no external dependencies.
		for _, req := range mod.Requires {
			if req.Indirect {
				continue
			}
			if m.Module(req.Path) == nil {
				violations = append(violations, Violation{
					Rule:    "contract-isolation",
					Subject: mod.Name,
					Message: fmt.Sprintf("contract module %s declares external dependency %q", mod.Name, req.Path),
				})
			}
		}

		// Source side: no internal implementation knowledge, no external
		// libraries. The standard library is allowed.
		for _, unit := range m.UnitsOf(mod.Name) {
			for _, imp := range unit.Imports {
				target := m.ResolveImport(imp)
				switch {
				case target.Internal:
					violations = append(violations, Violation{
						Rule:    "contract-isolation",
						Subject: unit.Path,
						Message: fmt.Sprintf("%s belongs to contract module %s but imports internal tree %q", unit.Path, mod.Name, imp),
					})
				case target.External:
					violations = append(violations, Violation{
						Rule:    "contract-isolation",
						Subject: unit.Path,
						Message: fmt.Sprintf("%s belongs to contract module %s but imports external library %q", unit.Path, mod.Name, imp),
					})
				}
			}
		}
	}
	return violations
}

func checkLayerOrdering(m *archgraph.Model) []Violation {
	var violations []Violation
	for _, unit := range m.Units() {
		rank, ordered := unit.Layer.Rank()
		if !ordered {
			continue
		}
		for _, imp := range unit.Imports {
			target := m.ResolveImport(imp)
			if target.Module == nil {
				continue
			}
			targetRank, targetOrdered := target.Layer.Rank()
			if targetOrdered && targetRank > rank {
				violations = append(violations, Violation{
					Rule:    "layer-ordering",
					Subject: unit.Path,
					Message: fmt.Sprintf("%s (%s) imports %q (%s), which points outward in the layer order", unit.Path, unit.Layer, imp, target.Layer),
				})
			}
		}
	}
	return violations
}

func checkModuleCycles(m *archgraph.Model) []Violation {
	var violations []Violation
	for _, cycle := range archgraph.FindCycles(m.Graph()) {
		violations = append(violations, Violation{
			Rule:    "module-cycles",
			Subject: cycle.Modules[0],
			Message: fmt.Sprintf("module dependency cycle: %s", cycle.String()),
		})
	}
	return violations
}
