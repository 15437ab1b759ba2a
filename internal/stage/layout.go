package stage

import (
	"path/filepath"

	"github.com/stemsplit/bundle/internal/platform"
)

// Fixed directory and temporary names under the staging root.
const (
	ModelsDirName = "models"
	ToolsDirName  = "ffmpeg"

	downloadSuffix  = ".download"
	toolArchiveName = "ffmpeg_download"
	toolScratchName = "ffmpeg_extract"
	lockFileName    = ".staging.lock"
)

// Layout resolves the canonical paths under a staging root.
type Layout struct {
	Root string
}

// ModelsDir holds the model metadata and weight files.
func (l Layout) ModelsDir() string {
	return filepath.Join(l.Root, ModelsDirName)
}

// ToolsDir holds the platform executables.
func (l Layout) ToolsDir() string {
	return filepath.Join(l.Root, ToolsDirName)
}

// ModelPath is the final path of the weight file.
func (l Layout) ModelPath(m ModelSpec) string {
	return filepath.Join(l.ModelsDir(), m.Filename())
}

// ModelDownloadPath is the temporary sibling the weights are fetched into.
func (l Layout) ModelDownloadPath(m ModelSpec) string {
	return l.ModelPath(m) + downloadSuffix
}

// MetadataPath is the final path of the model metadata file.
func (l Layout) MetadataPath(m ModelSpec) string {
	return filepath.Join(l.ModelsDir(), m.MetadataFilename())
}

// ToolPath is the final path of an executable for key.
func (l Layout) ToolPath(key platform.Key, executable string) string {
	return filepath.Join(l.ToolsDir(), executable+key.ExeSuffix())
}

// ToolArchivePath is where the tool archive is downloaded.
func (l Layout) ToolArchivePath() string {
	return filepath.Join(l.ToolsDir(), toolArchiveName)
}

// ToolScratchDir is the scratch extraction directory.
func (l Layout) ToolScratchDir() string {
	return filepath.Join(l.ToolsDir(), toolScratchName)
}

// LockPath is the advisory lock file guarding the staging root.
func (l Layout) LockPath() string {
	return filepath.Join(l.Root, lockFileName)
}
