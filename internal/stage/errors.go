package stage

import (
	"errors"
	"fmt"
)

// ErrLocked is returned by AcquireLock when another run holds the staging root.
var ErrLocked = errors.New("staging root is locked: another staging run may be in progress")

// AssetError reports which asset class failed and at which step.
type AssetError struct {
	Asset string // e.g. "model htdemucs_6s", "ffmpeg (linux)"
	Op    string // e.g. "download", "verify", "extract ffprobe"
	Err   error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Asset, e.Op, e.Err)
}

func (e *AssetError) Unwrap() error {
	return e.Err
}

// ChecksumMismatchError is returned when a downloaded file's digest prefix
// differs from the pinned value. The download has been discarded.
type ChecksumMismatchError struct {
	File     string
	Expected string
	Actual   string
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch for %s: expected %s, got %s", e.File, e.Expected, e.Actual)
}

// MissingLocalResourceError is returned when a required local source file
// is absent or cannot be used.
type MissingLocalResourceError struct {
	Path string
	Err  error // nil when the file does not exist
}

func (e *MissingLocalResourceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("missing required local file %s", e.Path)
	}
	return fmt.Sprintf("unusable local file %s: %v", e.Path, e.Err)
}

func (e *MissingLocalResourceError) Unwrap() error {
	return e.Err
}
