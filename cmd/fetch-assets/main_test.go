package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stemsplit/bundle/internal/archive"
	"github.com/stemsplit/bundle/internal/config"
	"github.com/stemsplit/bundle/internal/fetch"
	"github.com/stemsplit/bundle/internal/platform"
	"github.com/stemsplit/bundle/internal/stage"
)

func TestExitCodeFromError(t *testing.T) {
	wrap := func(op string, err error) error {
		return &stage.AssetError{Asset: "model htdemucs_6s", Op: op, Err: err}
	}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"general", errors.New("disk on fire"), ExitGeneralError},
		{"usage", &usageError{err: errors.New("unknown flag: --bogus")}, ExitInvalidArgs},
		{"manifest", fmt.Errorf("load manifest: %w", &config.ParseError{Message: "Lua error"}), ExitInvalidArgs},
		{"unsupported platform", &platform.UnsupportedPlatformError{Value: "beos"}, ExitUnsupportedPlatform},
		{"missing metadata", wrap("copy metadata", &stage.MissingLocalResourceError{Path: "x.yaml"}), ExitMissingResource},
		{"transport", wrap("download", &fetch.TransportError{URL: "https://x", StatusCode: 503}), ExitNetworkError},
		{"checksum", wrap("verify", &stage.ChecksumMismatchError{File: "w.th"}), ExitChecksumMismatch},
		{"member not found", wrap("extract ffprobe", &archive.MemberNotFoundError{Suffix: "/ffprobe"}), ExitMemberNotFound},
		{"locked", stage.ErrLocked, ExitLocked},
		{"wrapped lock", fmt.Errorf("stage: %w", stage.ErrLocked), ExitLocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCodeFromError(tt.err); got != tt.want {
				t.Errorf("exitCodeFromError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
