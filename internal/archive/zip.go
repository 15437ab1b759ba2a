package archive

import (
	"archive/zip"
	"fmt"
)

// ZipExtractor extracts members from zip archives.
type ZipExtractor struct{}

// NewZipExtractor creates a new zip extractor
func NewZipExtractor() *ZipExtractor {
	return &ZipExtractor{}
}

// ExtractOne implements Extractor. Members are scanned in central
// directory order.
func (e *ZipExtractor) ExtractOne(archivePath, destDir, suffix string) (string, error) {
	zipReader, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", fmt.Errorf("open zip archive: %w", err)
	}
	defer zipReader.Close()

	for _, member := range zipReader.File {
		if !member.Mode().IsRegular() || !matchesSuffix(member.Name, suffix) {
			continue
		}

		target, err := memberPath(destDir, member.Name)
		if err != nil {
			return "", err
		}

		rc, err := member.Open()
		if err != nil {
			return "", fmt.Errorf("open member %s: %w", member.Name, err)
		}
		err = writeMember(target, rc, member.Mode())
		rc.Close()
		if err != nil {
			return "", err
		}
		return target, nil
	}

	return "", &MemberNotFoundError{Archive: archivePath, Kind: KindZip, Suffix: suffix}
}
