// Package scanner walks a source tree and extracts, for every Go
// compilation unit, its declared package name and raw import targets.
// Only import clauses are parsed; bodies and declarations are never read.
package scanner

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/fulmenhq/archgate/pkg/ignore"
)

// Unit is one compilation unit: a single Go source file
type Unit struct {
	Path    string   `json:"path"`    // slash-separated, relative to the scan root
	Package string   `json:"package"` // declared package clause identifier
	Imports []string `json:"imports"` // raw import paths, in source order
}

// ParseError records a file that could not be parsed. The scan continues
// past it; the error surfaces in the final report.
type ParseError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Options controls file selection and parse concurrency
type Options struct {
	IncludeTests  bool
	Ignore        *ignore.Matcher
	ExtraExcludes []string // doublestar globs, matched against root-relative paths
	Workers       int      // <=1 parses sequentially
}

// Result is the outcome of one scan pass. Units and ParseErrors are
// sorted by path; rescanning the same tree yields an identical Result.
type Result struct {
	Root        string
	Units       []Unit
	ParseErrors []ParseError
}

// Scan walks root and parses the import clauses of every matching Go file.
// The only error return is a root that cannot be walked at all; per-file
// parse failures are recorded in Result.ParseErrors instead.
func Scan(root string, opts Options) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot read scan root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root %s is not a directory", root)
	}

	paths, err := collectFiles(root, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Root: root}
	units := make([]*Unit, len(paths))
	parseErrs := make([]*ParseError, len(paths))

	parseOne := func(i int) {
		rel := paths[i]
		unit, perr := parseImports(root, rel)
		units[i] = unit
		parseErrs[i] = perr
	}

	if opts.Workers > 1 {
		var g errgroup.Group
		g.SetLimit(opts.Workers)
		for i := range paths {
			g.Go(func() error {
				parseOne(i)
				return nil
			})
		}
		_ = g.Wait() // workers never return errors; failures land in parseErrs
	} else {
		for i := range paths {
			parseOne(i)
		}
	}

	// Walk order is lexical, and results are reassembled by index, so the
	// output is deterministic regardless of worker count.
	for i := range paths {
		if parseErrs[i] != nil {
			result.ParseErrors = append(result.ParseErrors, *parseErrs[i])
			continue
		}
		result.Units = append(result.Units, *units[i])
	}
	return result, nil
}

// collectFiles returns the root-relative, slash-separated paths of every
// Go file the scan should visit, in lexical walk order.
func collectFiles(root string, opts Options) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			// Unreadable subtrees are skipped, not fatal.
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
			if excluded(rel, true, opts) {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(rel, ".go") {
			return nil
		}
		if !opts.IncludeTests && strings.HasSuffix(rel, "_test.go") {
			return nil
		}
		if excluded(rel, false, opts) {
			return nil
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return paths, nil
}

func excluded(rel string, isDir bool, opts Options) bool {
	if opts.Ignore != nil && opts.Ignore.IsIgnored(rel, isDir) {
		return true
	}
	for _, pattern := range opts.ExtraExcludes {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// parseImports parses only the package clause and import declarations.
func parseImports(root, rel string) (*Unit, *ParseError) {
	full := filepath.Join(root, filepath.FromSlash(rel))
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, full, nil, parser.ImportsOnly)
	if err != nil {
		return nil, &ParseError{Path: rel, Message: err.Error()}
	}

	unit := &Unit{Path: rel, Package: file.Name.Name}
	for _, imp := range file.Imports {
		target, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			// Should be unreachable for a file the parser accepted.
			target = strings.Trim(imp.Path.Value, `"`)
		}
		unit.Imports = append(unit.Imports, target)
	}
	return unit, nil
}
