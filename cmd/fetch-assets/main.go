// Command fetch-assets stages the model weights and the ffmpeg/ffprobe pair
// into a bundle's staging root.
//
// Configuration is loaded from flags, with environment fallbacks:
//   - STEMSPLIT_ASSETS_DIR: staging root (default: packaging/assets)
//   - STEMSPLIT_DEBUG: enables debug logging when set
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/stemsplit/bundle/internal/archive"
	"github.com/stemsplit/bundle/internal/config"
	"github.com/stemsplit/bundle/internal/fetch"
	"github.com/stemsplit/bundle/internal/platform"
	"github.com/stemsplit/bundle/internal/stage"
)

// Version will be set at build time via -ldflags
var Version = "v0.1.0"

// CLI exit codes for standardized error reporting.
const (
	// ExitSuccess indicates the operation completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitInvalidArgs indicates invalid flags or an invalid asset manifest.
	ExitInvalidArgs = 2

	// ExitUnsupportedPlatform indicates an unknown platform key.
	ExitUnsupportedPlatform = 3

	// ExitMissingResource indicates a required local file is absent.
	ExitMissingResource = 4

	// ExitNetworkError indicates a download failed.
	ExitNetworkError = 5

	// ExitChecksumMismatch indicates downloaded weights failed verification.
	ExitChecksumMismatch = 6

	// ExitMemberNotFound indicates an archive lacked a required executable.
	ExitMemberNotFound = 7

	// ExitLocked indicates another run holds the staging root.
	ExitLocked = 8
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := newRootCommand(platform.NewDetector())
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", config.FormatError(err, false))
		stop()
		os.Exit(exitCodeFromError(err))
	}
}

// usageError marks errors caused by how the command was invoked.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// exitCodeFromError maps error types to exit codes.
func exitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var (
		usage       *usageError
		unsupported *platform.UnsupportedPlatformError
		missing     *stage.MissingLocalResourceError
		transport   *fetch.TransportError
		mismatch    *stage.ChecksumMismatchError
		notFound    *archive.MemberNotFoundError
		parseErr    *config.ParseError
	)

	switch {
	case errors.Is(err, stage.ErrLocked):
		return ExitLocked
	case errors.As(err, &unsupported):
		return ExitUnsupportedPlatform
	case errors.As(err, &mismatch):
		return ExitChecksumMismatch
	case errors.As(err, &notFound):
		return ExitMemberNotFound
	case errors.As(err, &transport):
		return ExitNetworkError
	case errors.As(err, &missing):
		return ExitMissingResource
	case errors.As(err, &usage), errors.As(err, &parseErr):
		return ExitInvalidArgs
	default:
		return ExitGeneralError
	}
}
