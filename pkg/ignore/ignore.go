// Package ignore provides gitignore-based file filtering using go-git
package ignore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Matcher provides gitignore-based file filtering
type Matcher struct {
	matcher gitignore.Matcher
}

// NewMatcher creates a matcher with layered ignore files:
// 1. built-in defaults (vendor trees, VCS metadata)
// 2. .gitignore and related git ignore files
// 3. .archgateignore (repo overrides)
func NewMatcher(repoRoot string) (*Matcher, error) {
	fs := osfs.New(repoRoot)

	var allPatterns []gitignore.Pattern

	// Vendored dependency caches and VCS metadata are never part of the
	// architecture under validation.
	defaultPatterns := []string{".git/**", "vendor/**", "node_modules/**"}
	for _, pattern := range defaultPatterns {
		allPatterns = append(allPatterns, gitignore.ParsePattern(pattern, nil))
	}

	// ReadPatterns with nil reads .gitignore, global excludes, and .git/info/exclude
	if gitPatterns, err := gitignore.ReadPatterns(fs, nil); err == nil {
		allPatterns = append(allPatterns, gitPatterns...)
	}

	if archgatePatterns, err := readIgnoreFile(filepath.Join(repoRoot, ".archgateignore")); err == nil {
		for _, pattern := range archgatePatterns {
			allPatterns = append(allPatterns, gitignore.ParsePattern(pattern, nil))
		}
	}

	return &Matcher{
		matcher: gitignore.NewMatcher(allPatterns),
	}, nil
}

// NewMatcherFromPatterns builds a matcher from literal patterns only.
// Used by tests and by callers that opt out of filesystem ignore files.
func NewMatcherFromPatterns(patterns []string) *Matcher {
	parsed := make([]gitignore.Pattern, 0, len(patterns))
	for _, pattern := range patterns {
		parsed = append(parsed, gitignore.ParsePattern(pattern, nil))
	}
	return &Matcher{matcher: gitignore.NewMatcher(parsed)}
}

// readIgnoreFile reads patterns from a text file (like .archgateignore)
func readIgnoreFile(path string) ([]string, error) {
	cleaned := filepath.Clean(path)
	// Only the repo-root .archgateignore is honored; arbitrary paths are not.
	if !strings.HasSuffix(cleaned, string(os.PathSeparator)+".archgateignore") && cleaned != ".archgateignore" {
		return nil, fmt.Errorf("disallowed ignore file path: %s", cleaned)
	}
	content, err := os.ReadFile(cleaned) // #nosec G304 -- path cleaned and allowlisted
	if err != nil {
		return nil, err
	}

	var patterns []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, nil
}

// IsIgnored checks if a path should be ignored. The path is split on the
// OS separator and matched the way git would match it.
func (m *Matcher) IsIgnored(path string, isDir bool) bool {
	parts := strings.Split(filepath.ToSlash(path), "/")
	return m.matcher.Match(parts, isDir)
}
