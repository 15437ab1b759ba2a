package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	return path
}

func fullHex(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func TestPrefix(t *testing.T) {
	content := []byte("htdemucs weights")
	path := writeFile(t, content)
	want := fullHex(content)

	tests := []struct {
		name    string
		length  int
		wantErr bool
	}{
		{"eight", 8, false},
		{"one", 1, false},
		{"full", 64, false},
		{"zero", 0, true},
		{"negative", -1, true},
		{"too_long", 65, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Prefix(path, tt.length)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != want[:tt.length] {
				t.Errorf("Prefix() = %s, want %s", got, want[:tt.length])
			}
		})
	}
}

func TestPrefixSpansChunks(t *testing.T) {
	content := []byte(strings.Repeat("x", ChunkSize*2+17))
	path := writeFile(t, content)

	got, err := Prefix(path, 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := fullHex(content)[:16]; got != want {
		t.Errorf("Prefix() = %s, want %s", got, want)
	}
}

func TestPrefixMissingFile(t *testing.T) {
	if _, err := Prefix(filepath.Join(t.TempDir(), "absent"), 8); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMatch(t *testing.T) {
	content := []byte("payload")
	path := writeFile(t, content)
	prefix := fullHex(content)[:8]

	tests := []struct {
		name     string
		expected string
		wantOK   bool
	}{
		{"exact", prefix, true},
		{"uppercase", strings.ToUpper(prefix), true},
		{"mismatch", "00000000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, ok, err := Match(path, tt.expected)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tt.wantOK {
				t.Errorf("Match() ok = %v, want %v", ok, tt.wantOK)
			}
			if actual != prefix {
				t.Errorf("Match() actual = %s, want %s", actual, prefix)
			}
		})
	}
}
