// Package archive extracts single named members from downloaded archives.
//
// Two archive families are supported behind one Extractor contract: tar
// (uncompressed, gzip, bzip2 or xz) and zip. A member is selected by name
// suffix; the first matching regular file in archive order wins, and only
// that member is written. Archive order is whatever the producing tool
// wrote, so two archives with the same contents but different ordering can
// select different members when a suffix is ambiguous.
package archive

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Kind identifies an archive family.
type Kind string

const (
	// KindTar is a tar stream, optionally gzip, bzip2 or xz compressed.
	KindTar Kind = "tar"
	// KindZip is a zip archive.
	KindZip Kind = "zip"
)

// String returns the string representation of the kind
func (k Kind) String() string {
	return string(k)
}

// Extractor locates and extracts exactly one member of an archive.
//
// ExtractOne scans member names in archive order and extracts the first
// regular file whose name ends with suffix into destDir, keeping the
// member's relative path. It returns the path of the extracted file.
type Extractor interface {
	ExtractOne(archivePath, destDir, suffix string) (string, error)
}

// ForKind returns the extractor for kind.
func ForKind(kind Kind) (Extractor, error) {
	switch kind {
	case KindTar:
		return NewTarExtractor(), nil
	case KindZip:
		return NewZipExtractor(), nil
	default:
		return nil, fmt.Errorf("unknown archive kind: %q", kind)
	}
}

// MemberNotFoundError is returned when no member matches the requested suffix.
type MemberNotFoundError struct {
	Archive string
	Kind    Kind
	Suffix  string
}

func (e *MemberNotFoundError) Error() string {
	return fmt.Sprintf("%s binary not found in %s archive %s", strings.TrimPrefix(e.Suffix, "/"), e.Kind, e.Archive)
}

// matchesSuffix reports whether member name ends with suffix. A suffix of
// the form "/name" also matches a member called exactly "name" at the
// archive root.
func matchesSuffix(name, suffix string) bool {
	if suffix == "" {
		return false
	}
	name = strings.TrimPrefix(name, "./")
	if strings.HasSuffix(name, suffix) {
		return true
	}
	return strings.HasPrefix(suffix, "/") && name == suffix[1:]
}

// memberPath resolves a member name under destDir, rejecting names that
// would escape it.
func memberPath(destDir, name string) (string, error) {
	clean := path.Clean(strings.ReplaceAll(name, `\`, "/"))
	if path.IsAbs(clean) || clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("illegal file path: %s", name)
	}

	target := filepath.Join(destDir, filepath.FromSlash(clean))
	if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("illegal file path: %s", name)
	}
	return target, nil
}

// writeMember copies r to target, creating parent directories.
func writeMember(target string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("create parent dir for %s: %w", target, err)
	}

	if mode.Perm() == 0 {
		mode = 0644
	}

	outFile, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return fmt.Errorf("create file %s: %w", target, err)
	}

	if _, err := io.Copy(outFile, r); err != nil {
		outFile.Close()
		return fmt.Errorf("write file %s: %w", target, err)
	}

	if err := outFile.Close(); err != nil {
		return fmt.Errorf("close file %s: %w", target, err)
	}
	return nil
}
