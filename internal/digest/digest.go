// Package digest computes truncated SHA-256 content hashes.
//
// The pinned values compared against are short, author-supplied prefixes.
// They catch corrupted or wrong downloads; they are not a defence against a
// tampered source, which could be crafted to collide on a short prefix.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// ChunkSize is the read size used when hashing, bounding memory use
// regardless of file size.
const ChunkSize = 1 << 20

// Prefix returns the first length lowercase hex characters of the SHA-256
// digest of the file at path.
func Prefix(path string, length int) (string, error) {
	if length <= 0 || length > hex.EncodedLen(sha256.Size) {
		return "", fmt.Errorf("invalid digest prefix length %d (want 1..%d)", length, hex.EncodedLen(sha256.Size))
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	hasher := sha256.New()
	buf := make([]byte, ChunkSize)
	if _, err := io.CopyBuffer(hasher, struct{ io.Reader }{file}, buf); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}

	return hex.EncodeToString(hasher.Sum(nil))[:length], nil
}

// Match computes the digest prefix of path with the length of expected and
// compares it case-insensitively. It returns the actual prefix either way.
func Match(path, expected string) (actual string, ok bool, err error) {
	actual, err = Prefix(path, len(expected))
	if err != nil {
		return "", false, err
	}
	return actual, strings.EqualFold(actual, expected), nil
}
