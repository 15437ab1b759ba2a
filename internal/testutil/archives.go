package testutil

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ulikunitz/xz"
)

// Entry is one member of a fixture archive. Entries are written in slice
// order, which is the order extractors see them in.
type Entry struct {
	Name    string
	Body    string
	Mode    int64  // defaults to 0644
	Dir     bool   // directory member
	Symlink string // symlink member pointing at Symlink
}

// Compression selects the tar compression layer.
type Compression int

const (
	// None writes a plain tar stream
	None Compression = iota
	// Gzip writes a .tar.gz stream
	Gzip
	// XZ writes a .tar.xz stream
	XZ
)

// WriteTar writes entries as a tar archive at path.
func WriteTar(t *testing.T, path string, compression Compression, entries []Entry) {
	t.Helper()

	archiveFile := createFile(t, path)
	defer func() { _ = archiveFile.Close() }()

	var out io.WriteCloser
	switch compression {
	case Gzip:
		out = gzip.NewWriter(archiveFile)
	case XZ:
		xzWriter, err := xz.NewWriter(archiveFile)
		if err != nil {
			t.Fatalf("failed to create xz writer: %v", err)
		}
		out = xzWriter
	default:
		out = nopWriteCloser{archiveFile}
	}

	tarWriter := tar.NewWriter(out)
	for _, e := range entries {
		header := &tar.Header{Name: e.Name, Mode: e.mode()}
		switch {
		case e.Dir:
			header.Typeflag = tar.TypeDir
			header.Mode = 0755
		case e.Symlink != "":
			header.Typeflag = tar.TypeSymlink
			header.Linkname = e.Symlink
		default:
			header.Typeflag = tar.TypeReg
			header.Size = int64(len(e.Body))
		}

		if err := tarWriter.WriteHeader(header); err != nil {
			t.Fatalf("failed to write header for %s: %v", e.Name, err)
		}
		if header.Typeflag == tar.TypeReg {
			if _, err := tarWriter.Write([]byte(e.Body)); err != nil {
				t.Fatalf("failed to write content for %s: %v", e.Name, err)
			}
		}
	}

	if err := tarWriter.Close(); err != nil {
		t.Fatalf("failed to close tar writer: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("failed to close compressor: %v", err)
	}
}

// WriteZip writes entries as a zip archive at path.
func WriteZip(t *testing.T, path string, entries []Entry) {
	t.Helper()

	archiveFile := createFile(t, path)
	defer func() { _ = archiveFile.Close() }()

	zipWriter := zip.NewWriter(archiveFile)
	for _, e := range entries {
		header := &zip.FileHeader{Name: e.Name, Method: zip.Deflate}
		switch {
		case e.Dir:
			header.SetMode(os.ModeDir | 0755)
		case e.Symlink != "":
			header.SetMode(os.ModeSymlink | 0777)
		default:
			header.SetMode(os.FileMode(e.mode()))
		}

		w, err := zipWriter.CreateHeader(header)
		if err != nil {
			t.Fatalf("failed to create zip entry %s: %v", e.Name, err)
		}

		body := e.Body
		if e.Symlink != "" {
			body = e.Symlink
		}
		if !e.Dir {
			if _, err := w.Write([]byte(body)); err != nil {
				t.Fatalf("failed to write zip entry %s: %v", e.Name, err)
			}
		}
	}

	if err := zipWriter.Close(); err != nil {
		t.Fatalf("failed to close zip writer: %v", err)
	}
}

func (e Entry) mode() int64 {
	if e.Mode == 0 {
		return 0644
	}
	return e.Mode
}

func createFile(t *testing.T, path string) *os.File {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create archive dir: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create archive: %v", err)
	}
	return f
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
