package stage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var chmod = os.Chmod

// tempPath is a scoped temporary file. Exactly one of Commit or Release
// takes effect; Release after a successful Commit is a no-op, so callers
// can always defer Release.
type tempPath struct {
	path string
	done bool
}

func newTempPath(path string) *tempPath {
	return &tempPath{path: path}
}

// Commit atomically renames the temporary file to final.
func (t *tempPath) Commit(final string) error {
	if err := os.Rename(t.path, final); err != nil {
		return fmt.Errorf("rename %s: %w", filepath.Base(t.path), err)
	}
	t.done = true
	return nil
}

// Release removes the temporary file unless it was committed.
func (t *tempPath) Release() error {
	if t.done {
		return nil
	}
	t.done = true
	if err := os.Remove(t.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", t.path, err)
	}
	return nil
}

// fileExists checks if a regular, non-empty file exists at path
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Size() > 0
}

// copyFile copies src to dst through a temporary sibling, preserving the
// permission bits and modification time of src.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	tmp := newTempPath(dst + ".tmp")
	defer tmp.Release()

	out, err := os.OpenFile(tmp.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy contents: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	// OpenFile's mode is filtered by the umask
	if err := os.Chmod(tmp.path, info.Mode().Perm()); err != nil {
		return fmt.Errorf("set mode: %w", err)
	}
	if err := os.Chtimes(tmp.path, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("set times: %w", err)
	}

	return tmp.Commit(dst)
}

// addExecBits adds user, group and other execute permission to path.
func addExecBits(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	mode := info.Mode().Perm()
	if mode&0o111 == 0o111 {
		return nil
	}
	if err := chmod(path, mode|0o111); err != nil {
		return fmt.Errorf("set executable: %w", err)
	}
	return nil
}

// resetDir removes dir and everything below it, then recreates it empty.
func resetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove stale %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}
