package stage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/stemsplit/bundle/internal/fetch"
	"github.com/stemsplit/bundle/internal/platform"
)

// Config holds configuration for a Stager.
type Config struct {
	// Root is the staging root directory
	Root string
	// MetadataSource is the repository copy of the model metadata file
	MetadataSource string
	// Platform is the target platform of the tool pair
	Platform platform.Key
	// Model pins the model weights (default: DefaultModel)
	Model *ModelSpec
	// Tools describes the executable pair (default: DefaultTools)
	Tools *ToolSpec
	// Fetcher retrieves remote artifacts (default: fetch.NewHTTPFetcher())
	Fetcher fetch.Fetcher
	// Logger receives progress records (default: discard)
	Logger *slog.Logger
}

// Options selects what a single Run does.
type Options struct {
	// Force re-acquires assets even when they are already staged
	Force bool
	// SkipModels leaves the model asset class untouched
	SkipModels bool
	// SkipTools leaves the tool pair untouched
	SkipTools bool
	// ToolURL overrides the platform's default tool archive URL
	ToolURL string
	// RunID labels log records and the report (default: random UUID)
	RunID string
}

// Stager drives the staging pipeline for one staging root.
type Stager struct {
	layout         Layout
	metadataSource string
	platform       platform.Key
	model          ModelSpec
	tools          ToolSpec
	fetcher        fetch.Fetcher
	logger         *slog.Logger
}

// New validates config and creates a Stager. An unsupported platform
// fails here, before any network activity.
func New(config Config) (*Stager, error) {
	if config.Root == "" {
		return nil, fmt.Errorf("staging root is required")
	}
	if !config.Platform.IsValid() {
		return nil, &platform.UnsupportedPlatformError{Value: config.Platform.String()}
	}

	root, err := filepath.Abs(config.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve staging root: %w", err)
	}

	s := &Stager{
		layout:         Layout{Root: root},
		metadataSource: config.MetadataSource,
		platform:       config.Platform,
		model:          DefaultModel,
		tools:          DefaultTools,
		fetcher:        config.Fetcher,
		logger:         config.Logger,
	}
	if config.Model != nil {
		s.model = *config.Model
	}
	if config.Tools != nil {
		s.tools = *config.Tools
	}
	if s.fetcher == nil {
		s.fetcher = fetch.NewHTTPFetcher()
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if err := s.model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model: %w", err)
	}
	if len(s.tools.Executables) == 0 {
		return nil, fmt.Errorf("invalid tools: no executables")
	}

	return s, nil
}

// Layout returns the staging root layout.
func (s *Stager) Layout() Layout {
	return s.layout
}

// Run stages the requested asset classes in order: model weights, then the
// tool pair. The first failure stops the run and is returned unchanged
// apart from an AssetError wrapper naming the asset and step.
func (s *Stager) Run(ctx context.Context, opts Options) (*Report, error) {
	runID := opts.RunID
	if runID == "" {
		runID = uuid.New().String()
	}

	report := &Report{
		RunID:    runID,
		Root:     s.layout.Root,
		Platform: s.platform,
	}
	logger := s.logger.With("run_id", runID)
	logger.Debug("staging run started", "root", s.layout.Root, "platform", s.platform, "force", opts.Force)

	if opts.SkipModels {
		report.Assets = append(report.Assets, AssetResult{Asset: s.modelAsset(), Outcome: OutcomeNotRequested})
	} else {
		result, err := s.stageModel(ctx, logger, opts.Force)
		if err != nil {
			return report, err
		}
		report.Assets = append(report.Assets, result)
	}

	if opts.SkipTools {
		report.Assets = append(report.Assets, AssetResult{Asset: s.toolsAsset(), Outcome: OutcomeNotRequested})
	} else {
		result, err := s.stageTools(ctx, logger, opts.Force, opts.ToolURL)
		if err != nil {
			return report, err
		}
		report.Assets = append(report.Assets, result)
	}

	logger.Debug("staging run finished")
	return report, nil
}

// StageModel runs only the model asset class.
func (s *Stager) StageModel(ctx context.Context, force bool) (AssetResult, error) {
	return s.stageModel(ctx, s.logger, force)
}

// StageTools runs only the tool pair asset class. A non-empty url overrides
// the platform default.
func (s *Stager) StageTools(ctx context.Context, force bool, url string) (AssetResult, error) {
	return s.stageTools(ctx, s.logger, force, url)
}

func (s *Stager) modelAsset() string {
	return "model " + s.model.Name
}

func (s *Stager) toolsAsset() string {
	return fmt.Sprintf("%s (%s)", ToolsDirName, s.platform)
}
