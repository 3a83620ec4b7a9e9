package ignore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewMatcherLayering(t *testing.T) {
	tempDir := t.TempDir()

	gitignoreContent := `# build output
*.log
dist/
`
	if err := os.WriteFile(filepath.Join(tempDir, ".gitignore"), []byte(gitignoreContent), 0644); err != nil {
		t.Fatalf("Failed to write .gitignore: %v", err)
	}

	archgateignoreContent := `# local fixtures
fixtures/
*.golden
`
	if err := os.WriteFile(filepath.Join(tempDir, ".archgateignore"), []byte(archgateignoreContent), 0644); err != nil {
		t.Fatalf("Failed to write .archgateignore: %v", err)
	}

	matcher, err := NewMatcher(tempDir)
	if err != nil {
		t.Fatalf("Failed to create matcher: %v", err)
	}

	tests := []struct {
		path    string
		isDir   bool
		ignored bool
	}{
		{"vendor", true, true},
		{".git", true, true},
		{"node_modules", true, true},
		{"build.log", false, true},
		{"fixtures", true, true},
		{"report.golden", false, true},
		{"pkg/scanner/scanner.go", false, false},
		{"go.mod", false, false},
	}

	for _, test := range tests {
		if got := matcher.IsIgnored(test.path, test.isDir); got != test.ignored {
			t.Errorf("IsIgnored(%q, dir=%v) = %v, expected %v", test.path, test.isDir, got, test.ignored)
		}
	}
}

func TestNewMatcherFromPatterns(t *testing.T) {
	matcher := NewMatcherFromPatterns([]string{"testdata/**", "*.tmp"})

	if !matcher.IsIgnored("testdata/tree/a.go", false) {
		t.Error("expected testdata/tree/a.go to be ignored")
	}
	if !matcher.IsIgnored("scratch.tmp", false) {
		t.Error("expected scratch.tmp to be ignored")
	}
	if matcher.IsIgnored("cmd/check.go", false) {
		t.Error("did not expect cmd/check.go to be ignored")
	}
}

func TestReadIgnoreFileAllowlist(t *testing.T) {
	if _, err := readIgnoreFile("/etc/passwd"); err == nil {
		t.Error("expected error for disallowed ignore file path")
	}
}
