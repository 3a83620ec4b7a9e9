// Package archgraph builds the in-memory model the boundary rules run
// against: compilation units resolved to owning modules and layer tags,
// plus the module-level declared-dependency graph. Two graph levels live
// here and must not be confused: the unit graph is file imports, the
// module graph is manifest declarations. Only the module graph is checked
// for cycles; package-level cycles are already the compiler's problem.
package archgraph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/fulmenhq/archgate/pkg/config"
	"github.com/fulmenhq/archgate/pkg/manifest"
	"github.com/fulmenhq/archgate/pkg/scanner"
)

// Module is one independently declared unit of source with its own manifest
type Module struct {
	Name                  string
	RootPath              string // slash-separated, relative to the scan root; "." for the root
	Requires              []manifest.Require
	DeclaredDependencies  map[string]struct{} // direct requires only
	HasExternalDependency bool                // any direct require outside the internal module set
	IsContract            bool                // matched a contract-module glob
}

// Unit is a compilation unit enriched with its owner and layer tags
type Unit struct {
	Path     string
	Module   string // owning module name; "" when the file sits outside every module root
	Package  string
	Imports  []string // raw targets, source order
	Layer    Layer
	Internal bool // any path segment below the module root is "internal"
}

// Target is the resolution of one import string
type Target struct {
	Module   *Module
	Layer    Layer
	Internal bool
	External bool // resolved to nothing internal and not the standard library
	Stdlib   bool
}

// Model is the immutable snapshot rules evaluate against
type Model struct {
	modules       []*Module
	modulesByName map[string]*Module
	units         []Unit
	unitsByModule map[string][]Unit
	graph         *DependencyGraph
	policy        config.Policy
}

// Build combines scanner and manifest output into a Model. Structural
// invariants are enforced here: at least one manifest, no two modules
// sharing a root, no two roots declaring the same module identity.
func Build(scan *scanner.Result, manifests []manifest.Manifest, policy config.Policy) (*Model, error) {
	if len(manifests) == 0 {
		return nil, fmt.Errorf("no module manifests found under %s", scan.Root)
	}

	m := &Model{
		modulesByName: make(map[string]*Module),
		unitsByModule: make(map[string][]Unit),
		policy:        policy,
	}

	roots := make(map[string]string) // root path -> module name
	for _, mf := range manifests {
		if owner, dup := roots[mf.RootPath]; dup {
			return nil, fmt.Errorf("modules %s and %s share root %s", owner, mf.ModulePath, mf.RootPath)
		}
		if prev, dup := m.modulesByName[mf.ModulePath]; dup {
			return nil, fmt.Errorf("module %s declared at both %s and %s", mf.ModulePath, prev.RootPath, mf.RootPath)
		}
		roots[mf.RootPath] = mf.ModulePath

		mod := &Module{
			Name:                 mf.ModulePath,
			RootPath:             mf.RootPath,
			Requires:             append([]manifest.Require(nil), mf.Requires...),
			DeclaredDependencies: mf.DirectDependencies(),
			IsContract:           matchesContractGlob(mf, policy),
		}
		m.modules = append(m.modules, mod)
		m.modulesByName[mod.Name] = mod
	}
	sort.Slice(m.modules, func(i, j int) bool { return m.modules[i].Name < m.modules[j].Name })

	for _, mod := range m.modules {
		for dep := range mod.DeclaredDependencies {
			if _, internal := m.modulesByName[dep]; !internal {
				mod.HasExternalDependency = true
				break
			}
		}
	}

	for _, su := range scan.Units {
		owner := m.ownerByPath(su.Path)
		unit := Unit{
			Path:    su.Path,
			Package: su.Package,
			Imports: append([]string(nil), su.Imports...),
		}
		if owner != nil {
			unit.Module = owner.Name
			below := pathBelow(owner.RootPath, su.Path)
			unit.Layer, unit.Internal = classifySegments(dirSegments(below), policy)
		} else {
			unit.Layer = LayerUnknown
		}
		m.units = append(m.units, unit)
		m.unitsByModule[unit.Module] = append(m.unitsByModule[unit.Module], unit)
	}
	sort.Slice(m.units, func(i, j int) bool { return m.units[i].Path < m.units[j].Path })

	m.graph = buildDependencyGraph(m.modules, m.modulesByName)
	return m, nil
}

// Modules returns all internal modules, sorted by name.
func (m *Model) Modules() []*Module {
	return m.modules
}

// Units returns all compilation units, sorted by path.
func (m *Model) Units() []Unit {
	return m.units
}

// UnitsOf returns the compilation units owned by the named module, sorted
// by path.
func (m *Model) UnitsOf(moduleName string) []Unit {
	return m.unitsByModule[moduleName]
}

// Module returns the named module, or nil.
func (m *Model) Module(name string) *Module {
	return m.modulesByName[name]
}

// Graph returns the module-level declared-dependency graph.
func (m *Model) Graph() *DependencyGraph {
	return m.graph
}

// Policy returns the policy the model was built with.
func (m *Model) Policy() config.Policy {
	return m.policy
}

// ResolveImport maps a raw import target to its owning module and layer.
// Resolution is longest-matching module path prefix; an unmatched target
// is tagged stdlib or external.
func (m *Model) ResolveImport(target string) Target {
	var best *Module
	for _, mod := range m.modules {
		if !importWithin(target, mod.Name) {
			continue
		}
		if best == nil || len(mod.Name) > len(best.Name) {
			best = mod
		}
	}
	if best == nil {
		if isStdlib(target) {
			return Target{Layer: LayerUnknown, Stdlib: true}
		}
		return Target{Layer: LayerUnknown, External: true}
	}

	remainder := strings.TrimPrefix(strings.TrimPrefix(target, best.Name), "/")
	layer, internal := classifySegments(splitSegments(remainder), m.policy)
	return Target{Module: best, Layer: layer, Internal: internal}
}

// ownerByPath finds the module whose root is the longest prefix of the
// unit's path.
func (m *Model) ownerByPath(path string) *Module {
	var best *Module
	for _, mod := range m.modules {
		if !pathWithin(path, mod.RootPath) {
			continue
		}
		if best == nil || rootLen(mod.RootPath) > rootLen(best.RootPath) {
			best = mod
		}
	}
	return best
}

func rootLen(root string) int {
	if root == "." {
		return 0
	}
	return len(root)
}

func pathWithin(path, root string) bool {
	if root == "." {
		return true
	}
	return strings.HasPrefix(path, root+"/")
}

func pathBelow(root, path string) string {
	if root == "." {
		return path
	}
	return strings.TrimPrefix(path, root+"/")
}

func importWithin(target, modulePath string) bool {
	return target == modulePath || strings.HasPrefix(target, modulePath+"/")
}

// isStdlib recognizes standard library imports by the absence of a dot in
// the first path segment, the same heuristic the Go toolchain applies.
func isStdlib(target string) bool {
	first := target
	if i := strings.Index(target, "/"); i >= 0 {
		first = target[:i]
	}
	return !strings.Contains(first, ".")
}

// dirSegments drops the filename from a relative unit path.
func dirSegments(rel string) []string {
	segments := splitSegments(rel)
	if len(segments) == 0 {
		return nil
	}
	return segments[:len(segments)-1]
}

func splitSegments(rel string) []string {
	if rel == "" || rel == "." {
		return nil
	}
	return strings.Split(rel, "/")
}

// classifySegments walks path segments outward from the module root. The
// first segment carrying a convention fixes the functional layer; an
// "internal" segment anywhere marks the private tree independently.
func classifySegments(segments []string, policy config.Policy) (Layer, bool) {
	layer := LayerUnknown
	internal := false
	for _, seg := range segments {
		if strings.EqualFold(seg, "internal") {
			internal = true
			continue
		}
		if layer == LayerUnknown {
			if tag := policy.LayerFor(seg); tag != "" {
				layer = Layer(tag)
			}
		}
	}
	return layer, internal
}

// matchesContractGlob checks the module's root path and declared name
// against the policy's contract globs.
func matchesContractGlob(mf manifest.Manifest, policy config.Policy) bool {
	for _, pattern := range policy.ContractModules {
		if ok, _ := doublestar.Match(pattern, mf.RootPath); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, mf.ModulePath); ok {
			return true
		}
	}
	return false
}
