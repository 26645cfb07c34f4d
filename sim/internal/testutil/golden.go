// Package testutil provides shared test infrastructure for the delivery
// simulator. It resolves files under the repository testdata/ directory and
// compares solutions against golden files, for the sim/ sub-package and cmd/
// tests.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// TestdataPath returns the absolute path of name inside the repository
// testdata/ directory. The path is resolved relative to this source file:
// sim/internal/testutil/ → testdata/.
func TestdataPath(t *testing.T, name string) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", name)
}

// LoadGolden reads a golden file from testdata/.
func LoadGolden(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(TestdataPath(t, name))
	if err != nil {
		t.Fatalf("Failed to read golden file %s: %v", name, err)
	}
	return string(data)
}

// WriteTemp writes content to a file named name inside a per-test temporary
// directory and returns its path.
func WriteTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// AssertLinesEqual compares two multi-line outputs line by line, reporting
// the first differing line.
func AssertLinesEqual(t *testing.T, name, want, got string) {
	t.Helper()
	wantLines := strings.Split(strings.TrimRight(want, "\n"), "\n")
	gotLines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	for i := 0; i < len(wantLines) && i < len(gotLines); i++ {
		if wantLines[i] != gotLines[i] {
			t.Errorf("%s: line %d: got %q, want %q", name, i+1, gotLines[i], wantLines[i])
			return
		}
	}
	if len(wantLines) != len(gotLines) {
		t.Errorf("%s: got %d lines, want %d", name, len(gotLines), len(wantLines))
	}
}
