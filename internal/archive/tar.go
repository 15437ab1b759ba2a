package archive

import (
	"archive/tar"
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/ulikunitz/xz"
)

var (
	gzipMagic  = []byte{0x1f, 0x8b}
	xzMagic    = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
	bzip2Magic = []byte("BZh")
)

// TarExtractor extracts members from tar archives. The compression layer is
// detected from the stream's magic bytes.
type TarExtractor struct{}

// NewTarExtractor creates a new tar extractor
func NewTarExtractor() *TarExtractor {
	return &TarExtractor{}
}

// ExtractOne implements Extractor.
func (e *TarExtractor) ExtractOne(archivePath, destDir, suffix string) (string, error) {
	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return "", fmt.Errorf("open archive: %w", err)
	}
	defer archiveFile.Close()

	stream, err := decompress(bufio.NewReader(archiveFile))
	if err != nil {
		return "", err
	}
	defer stream.Close()

	tarReader := tar.NewReader(stream)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			return "", &MemberNotFoundError{Archive: archivePath, Kind: KindTar, Suffix: suffix}
		}
		if err != nil {
			return "", fmt.Errorf("read tar header: %w", err)
		}

		if header.Typeflag != tar.TypeReg || !matchesSuffix(header.Name, suffix) {
			continue
		}

		target, err := memberPath(destDir, header.Name)
		if err != nil {
			return "", err
		}
		if err := writeMember(target, tarReader, os.FileMode(header.Mode)); err != nil {
			return "", err
		}
		return target, nil
	}
}

// decompress wraps r in the decompressor matching its magic bytes.
func decompress(r *bufio.Reader) (io.ReadCloser, error) {
	head, err := r.Peek(len(xzMagic))
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read archive header: %w", err)
	}

	switch {
	case bytes.HasPrefix(head, gzipMagic):
		gzipReader, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		return gzipReader, nil
	case bytes.HasPrefix(head, xzMagic):
		xzReader, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("create xz reader: %w", err)
		}
		return io.NopCloser(xzReader), nil
	case bytes.HasPrefix(head, bzip2Magic):
		return io.NopCloser(bzip2.NewReader(r)), nil
	default:
		return io.NopCloser(r), nil
	}
}
