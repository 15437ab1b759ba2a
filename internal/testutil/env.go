// Package testutil provides isolation helpers and fixtures for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Env describes an isolated test layout.
type Env struct {
	// Dir is the temporary directory holding everything below
	Dir string
	// AssetsDir is the staging root
	AssetsDir string
	// RepoDir is the repository root holding local sources
	RepoDir string
	// BundleDir is a bundle root as seen by the launcher
	BundleDir string
}

// SetupTestEnv creates isolated test directories and points the
// STEMSPLIT_* environment variables at them, so tests never touch a real
// staging root or bundle.
//
// Cleanup is handled by t.TempDir and t.Setenv.
func SetupTestEnv(t *testing.T) *Env {
	t.Helper()

	tmpDir := t.TempDir()
	env := &Env{
		Dir:       tmpDir,
		AssetsDir: filepath.Join(tmpDir, "repo", "packaging", "assets"),
		RepoDir:   filepath.Join(tmpDir, "repo"),
		BundleDir: filepath.Join(tmpDir, "bundle"),
	}

	t.Setenv("STEMSPLIT_ASSETS_DIR", env.AssetsDir)
	t.Setenv("STEMSPLIT_BUNDLE_ROOT", env.BundleDir)
	t.Setenv("STEMSPLIT_DEBUG", "")

	for _, dir := range []string{env.RepoDir, env.BundleDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}

	return env
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path string, content []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent of %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
