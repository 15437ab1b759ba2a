// Command stemsplit runs the stem separator from inside a self-contained
// bundle. It puts the bundled ffmpeg on PATH, fills in the bundled model
// defaults and forwards every argument to the separator.
//
// Configuration is loaded from environment variables:
//   - STEMSPLIT_BUNDLE_ROOT: bundle root (default: executable directory)
//   - STEMSPLIT_SEPARATOR: separator program (default: demucs)
//   - STEMSPLIT_DEBUG: enables debug logging when set
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/stemsplit/bundle/internal/launcher"
)

// Version will be set at build time via -ldflags
var Version = "v0.1.0"

// exitError carries the separator's exit status.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("separator exited with status %d", e.code)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := newRootCommand().ExecuteContext(ctx)
	stop()

	var exit *exitError
	switch {
	case err == nil:
	case errors.As(err, &exit):
		os.Exit(exit.code)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stemsplit [separator args...]",
		Short: "Run the bundled stem separator",
		Long: "Run the stem separator with the bundled model and ffmpeg. Arguments are\n" +
			"passed through; --repo, -n/--name and --device get bundle defaults when\n" +
			"not supplied.",
		Version:            Version,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeparator(cmd.Context(), cmd.ErrOrStderr(), args)
		},
	}
}

func runSeparator(ctx context.Context, stderr io.Writer, args []string) error {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if os.Getenv(launcher.EnvDebug) != "" {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	root, err := launcher.BundleRoot()
	if err != nil {
		return err
	}
	logger.Debug("using bundle root", "dir", root)

	cmd, err := launcher.Prepare(ctx, root, args)
	if err != nil {
		return err
	}
	logger.Debug("starting separator", "path", cmd.Path, "args", cmd.Args[1:])

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &exitError{code: exitErr.ExitCode()}
		}
		return fmt.Errorf("run separator: %w", err)
	}
	return nil
}
