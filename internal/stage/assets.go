package stage

import (
	"fmt"

	"github.com/stemsplit/bundle/internal/archive"
	"github.com/stemsplit/bundle/internal/platform"
)

// ModelSpec pins the model weight file and its companion metadata.
type ModelSpec struct {
	// Name is the model name; the metadata file is "<Name>.yaml"
	Name string
	// Signature identifies the weights within the model family
	Signature string
	// Checksum is the pinned SHA-256 hex prefix of the weight file
	Checksum string
	// URL is the download location of the weight file
	URL string
}

// Filename returns the weight file name, "<signature>-<checksum>.th".
func (m ModelSpec) Filename() string {
	return fmt.Sprintf("%s-%s.th", m.Signature, m.Checksum)
}

// MetadataFilename returns the companion metadata file name.
func (m ModelSpec) MetadataFilename() string {
	return m.Name + ".yaml"
}

// Validate checks that every field is set.
func (m ModelSpec) Validate() error {
	switch {
	case m.Name == "":
		return fmt.Errorf("model name is required")
	case m.Signature == "":
		return fmt.Errorf("model signature is required")
	case m.Checksum == "":
		return fmt.Errorf("model checksum is required")
	case m.URL == "":
		return fmt.Errorf("model URL is required")
	}
	return nil
}

// ToolSpec describes the executable pair shipped in one archive.
type ToolSpec struct {
	// Executables are the logical executable names, without extension
	Executables []string
	// URLs maps each platform to its default archive URL
	URLs map[platform.Key]string
}

// URLFor returns the archive URL for key, preferring override when set.
func (t ToolSpec) URLFor(key platform.Key, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	url, ok := t.URLs[key]
	if !ok || url == "" {
		return "", &platform.UnsupportedPlatformError{Value: key.String()}
	}
	return url, nil
}

// DefaultModel is the pinned six-source hybrid transformer model.
var DefaultModel = ModelSpec{
	Name:      "htdemucs_6s",
	Signature: "5c90dfd2",
	Checksum:  "34c22ccb",
	URL:       "https://dl.fbaipublicfiles.com/demucs/hybrid_transformer/5c90dfd2-34c22ccb.th",
}

// DefaultTools is the ffmpeg/ffprobe pair from upstream static builds.
var DefaultTools = ToolSpec{
	Executables: []string{"ffmpeg", "ffprobe"},
	URLs: map[platform.Key]string{
		platform.Linux:   "https://johnvansickle.com/ffmpeg/releases/ffmpeg-release-amd64-static.tar.xz",
		platform.MacOS:   "https://evermeet.cx/ffmpeg/getrelease/zip",
		platform.Windows: "https://www.gyan.dev/ffmpeg/builds/ffmpeg-release-essentials.zip",
	},
}

// ArchiveKindFor returns the archive family used by key's tool archive.
func ArchiveKindFor(key platform.Key) (archive.Kind, error) {
	switch key {
	case platform.Linux:
		return archive.KindTar, nil
	case platform.MacOS, platform.Windows:
		return archive.KindZip, nil
	default:
		return "", &platform.UnsupportedPlatformError{Value: key.String()}
	}
}

// MemberSuffix returns the archive member suffix for an executable.
func MemberSuffix(key platform.Key, executable string) string {
	return "/" + executable + key.ExeSuffix()
}
