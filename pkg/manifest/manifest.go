// Package manifest discovers go.mod files under a root and extracts each
// module's declared identity and dependency edges. Parsing goes through
// golang.org/x/mod/modfile, which normalizes single-line require directives
// and parenthesized require blocks into the same representation and tracks
// "// indirect" markers.
package manifest

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"

	"github.com/fulmenhq/archgate/pkg/ignore"
)

// Require is one declared dependency edge as written in a manifest
type Require struct {
	Path     string `json:"path"`
	Version  string `json:"version"`
	Indirect bool   `json:"indirect"`
}

// Manifest is one parsed go.mod
type Manifest struct {
	ModulePath string    `json:"module_path"`
	RootPath   string    `json:"root_path"` // slash-separated, relative to the discovery root; "." for the root itself
	Requires   []Require `json:"requires"`  // ordered as written
}

// ParseError records a manifest that could not be parsed. Other modules
// are still processed.
type ParseError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Options controls manifest discovery
type Options struct {
	Ignore *ignore.Matcher
}

// Discover walks root for go.mod files, lexical order. A malformed manifest
// yields a ParseError for that module only. The error return covers only an
// unwalkable root.
func Discover(root string, opts Options) ([]Manifest, []ParseError, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read manifest root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("manifest root %s is not a directory", root)
	}

	var manifests []Manifest
	var parseErrors []ParseError

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}
		if d.IsDir() {
			if opts.Ignore != nil && opts.Ignore.IsIgnored(rel, true) {
				return fs.SkipDir
			}
			return nil
		}
		if d.Name() != "go.mod" {
			return nil
		}
		if opts.Ignore != nil && opts.Ignore.IsIgnored(rel, false) {
			return nil
		}

		m, perr := parseManifest(path, rel)
		if perr != nil {
			parseErrors = append(parseErrors, *perr)
			return nil
		}
		manifests = append(manifests, *m)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return manifests, parseErrors, nil
}

func parseManifest(path, rel string) (*Manifest, *ParseError) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the walked tree
	if err != nil {
		return nil, &ParseError{Path: rel, Message: err.Error()}
	}

	file, err := modfile.Parse(rel, data, nil)
	if err != nil {
		return nil, &ParseError{Path: rel, Message: err.Error()}
	}
	if file.Module == nil || file.Module.Mod.Path == "" {
		return nil, &ParseError{Path: rel, Message: "manifest has no module directive"}
	}

	rootPath := filepath.ToSlash(filepath.Dir(rel))
	m := &Manifest{
		ModulePath: file.Module.Mod.Path,
		RootPath:   rootPath,
	}
	for _, req := range file.Require {
		m.Requires = append(m.Requires, Require{
			Path:     req.Mod.Path,
			Version:  req.Mod.Version,
			Indirect: req.Indirect,
		})
	}
	return m, nil
}

// DirectDependencies returns the set of required module paths, excluding
// entries marked "// indirect".
func (m Manifest) DirectDependencies() map[string]struct{} {
	deps := make(map[string]struct{})
	for _, req := range m.Requires {
		if req.Indirect {
			continue
		}
		deps[req.Path] = struct{}{}
	}
	return deps
}

// IsBelow reports whether the manifest's root is at or below the given
// directory prefix (slash-separated).
func (m Manifest) IsBelow(prefix string) bool {
	if prefix == "" || prefix == "." {
		return true
	}
	return m.RootPath == prefix || strings.HasPrefix(m.RootPath, prefix+"/")
}
