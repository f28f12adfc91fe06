// Package australtest provides the fixture-glob test helpers used
// across the compiler's package tests, grounded on the teacher's
// examples_test.go: glob a testdata directory, fail loudly if it comes
// back empty, and run each fixture as its own subtest.
package australtest

import (
	"os"
	"path/filepath"
	"testing"
)

// Fixtures globs pattern (relative to the calling package's directory)
// and fails the test if no file matches — a typo'd glob should be
// loud, not silently pass zero fixtures.
func Fixtures(t *testing.T, pattern string) []string {
	t.Helper()
	paths, err := filepath.Glob(pattern)
	if err != nil {
		t.Fatalf("glob %s: %v", pattern, err)
	}
	if len(paths) == 0 {
		t.Fatalf("no fixtures matched %s", pattern)
	}
	return paths
}

// ReadFixture reads path or fails the test.
func ReadFixture(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return data
}

// Each runs fn as a subtest named after each fixture matching pattern,
// passing the fixture's contents.
func Each(t *testing.T, pattern string, fn func(t *testing.T, path string, src []byte)) {
	t.Helper()
	for _, path := range Fixtures(t, pattern) {
		path := path
		t.Run(filepath.Base(path), func(t *testing.T) {
			fn(t, path, ReadFixture(t, path))
		})
	}
}
