package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/stemsplit/bundle/internal/config"
	"github.com/stemsplit/bundle/internal/fetch"
	"github.com/stemsplit/bundle/internal/launcher"
	"github.com/stemsplit/bundle/internal/platform"
	"github.com/stemsplit/bundle/internal/stage"
)

const (
	// EnvAssetsDir overrides the default staging root
	EnvAssetsDir = "STEMSPLIT_ASSETS_DIR"

	defaultAssetsDir = "packaging/assets"
)

type stageFlags struct {
	osName     string
	force      bool
	skipModels bool
	skipTools  bool
	toolURL    string
	root       string
	repo       string
	configPath string
	verbose    bool
}

// newRootCommand builds the fetch-assets command tree. detector supplies
// the host platform when --os is not given.
func newRootCommand(detector platform.Detector) *cobra.Command {
	var flags stageFlags

	cmd := &cobra.Command{
		Use:   "fetch-assets",
		Short: "Stage model weights and ffmpeg into the bundle",
		Long: "Download, verify and place the separation model and a platform-specific\n" +
			"ffmpeg/ffprobe pair under the staging root. Assets already present are\n" +
			"left alone unless --force is given.",
		Args:          cobra.NoArgs,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), detector, flags)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	f := cmd.Flags()
	f.StringVar(&flags.osName, "os", "", "target platform: linux, macos or windows (default: host)")
	f.BoolVar(&flags.force, "force", false, "re-download assets even if present")
	f.BoolVar(&flags.skipModels, "skip-models", false, "do not stage the model weights")
	f.BoolVar(&flags.skipTools, "skip-ffmpeg", false, "do not stage ffmpeg/ffprobe")
	f.StringVar(&flags.toolURL, "ffmpeg-url", "", "override the ffmpeg archive URL")
	f.StringVar(&flags.root, "root", defaultRoot(), "staging root directory (env "+EnvAssetsDir+")")
	f.StringVar(&flags.repo, "repo", "", "repository root holding demucs/remote (default: two levels above --root)")
	f.StringVar(&flags.configPath, "config", "", "optional Lua asset manifest")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(manifestCmd())

	return cmd
}

// defaultRoot returns the staging root
// First checks STEMSPLIT_ASSETS_DIR, then falls back to packaging/assets.
func defaultRoot() string {
	if dir := os.Getenv(EnvAssetsDir); dir != "" {
		return dir
	}
	return defaultAssetsDir
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose || os.Getenv(launcher.EnvDebug) != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// resolveTarget returns the platform to stage for. An explicit name is
// validated before anything touches the network.
func resolveTarget(ctx context.Context, detector platform.Detector, name string) (platform.Key, error) {
	if name != "" {
		return platform.ParseKey(name)
	}
	info, err := detector.Detect(ctx)
	if err != nil {
		return "", fmt.Errorf("detect host platform: %w", err)
	}
	return info.Key, nil
}

func runStage(ctx context.Context, stdout, stderr io.Writer, detector platform.Detector, flags stageFlags) error {
	logger := newLogger(stderr, flags.verbose)

	target, err := resolveTarget(ctx, detector, flags.osName)
	if err != nil {
		return err
	}
	logger.Debug("resolved target platform", "platform", target)

	root, err := filepath.Abs(flags.root)
	if err != nil {
		return &usageError{err: fmt.Errorf("invalid --root: %w", err)}
	}
	repo := flags.repo
	if repo == "" {
		repo = filepath.Dir(filepath.Dir(root))
	}

	model, tools := stage.DefaultModel, stage.DefaultTools
	if flags.configPath != "" {
		manifest, err := config.NewParser(detector).ParseFile(ctx, flags.configPath, target)
		if err != nil {
			return fmt.Errorf("load manifest %s: %w", flags.configPath, err)
		}
		model, tools = manifest.Apply(target, model, tools)
		logger.Debug("applied asset manifest", "path", flags.configPath)
	}

	stager, err := stage.New(stage.Config{
		Root:           root,
		MetadataSource: filepath.Join(repo, "demucs", "remote", model.MetadataFilename()),
		Platform:       target,
		Model:          &model,
		Tools:          &tools,
		Fetcher:        fetch.NewHTTPFetcher(),
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	lock, err := stage.AcquireLock(root, runID)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("failed to release staging lock", "error", err)
		}
	}()

	report, err := stager.Run(ctx, stage.Options{
		Force:      flags.force,
		SkipModels: flags.skipModels,
		SkipTools:  flags.skipTools,
		ToolURL:    flags.toolURL,
		RunID:      runID,
	})
	if err != nil {
		return err
	}

	printReport(stdout, report)
	return nil
}

func printReport(w io.Writer, report *stage.Report) {
	fmt.Fprintf(w, "Assets ready in %s\n", report.Root)
	for _, asset := range report.Assets {
		line := fmt.Sprintf("  %-22s %s", asset.Asset, asset.Outcome)
		if asset.Outcome != stage.OutcomeNotRequested && len(asset.Paths) > 0 {
			rel := make([]string, len(asset.Paths))
			for i, p := range asset.Paths {
				if r, err := filepath.Rel(report.Root, p); err == nil {
					p = r
				}
				rel[i] = filepath.ToSlash(p)
			}
			line += " (" + strings.Join(rel, ", ") + ")"
		}
		fmt.Fprintln(w, line)
	}
}
