package stage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/stemsplit/bundle/internal/digest"
)

func (s *Stager) stageModel(ctx context.Context, logger *slog.Logger, force bool) (AssetResult, error) {
	start := time.Now()
	asset := s.modelAsset()
	final := s.layout.ModelPath(s.model)
	result := AssetResult{
		Asset: asset,
		Paths: []string{s.layout.MetadataPath(s.model), final},
	}
	fail := func(op string, err error) (AssetResult, error) {
		return result, &AssetError{Asset: asset, Op: op, Err: err}
	}

	if err := os.MkdirAll(s.layout.ModelsDir(), 0755); err != nil {
		return fail("prepare", fmt.Errorf("create models directory: %w", err))
	}

	// Metadata is refreshed on every run, independent of the weights
	if err := s.copyMetadata(logger); err != nil {
		return fail("copy metadata", err)
	}

	if !force && fileExists(final) {
		logger.Info("model weights already staged", "path", final)
		result.Outcome = OutcomeSkipped
		result.Duration = time.Since(start)
		return result, nil
	}

	tmp := newTempPath(s.layout.ModelDownloadPath(s.model))
	defer func() {
		if err := tmp.Release(); err != nil {
			logger.Warn("failed to remove temporary download", "path", tmp.path, "error", err)
		}
	}()

	logger.Info("downloading model weights", "url", s.model.URL, "file", s.model.Filename())
	n, err := s.fetcher.Fetch(ctx, s.model.URL, tmp.path)
	if err != nil {
		return fail("download", err)
	}

	actual, ok, err := digest.Match(tmp.path, s.model.Checksum)
	if err != nil {
		return fail("verify", err)
	}
	if !ok {
		if rerr := tmp.Release(); rerr != nil {
			logger.Warn("failed to remove rejected download", "path", tmp.path, "error", rerr)
		}
		return fail("verify", &ChecksumMismatchError{
			File:     s.model.Filename(),
			Expected: s.model.Checksum,
			Actual:   actual,
		})
	}

	if err := tmp.Commit(final); err != nil {
		return fail("commit", err)
	}

	logger.Info("model weights staged", "path", final, "bytes", n)
	result.Outcome = OutcomeStaged
	result.Bytes = n
	result.Duration = time.Since(start)
	return result, nil
}

// copyMetadata validates the repository metadata file and copies it into
// the models directory.
func (s *Stager) copyMetadata(logger *slog.Logger) error {
	if s.metadataSource == "" {
		return &MissingLocalResourceError{Path: s.model.MetadataFilename()}
	}

	manifest, err := ReadModelManifest(s.metadataSource)
	if err != nil {
		return err
	}
	if !manifest.References(s.model.Signature) {
		logger.Warn("model metadata does not reference the pinned weights",
			"metadata", s.metadataSource, "signature", s.model.Signature)
	}

	if err := copyFile(s.metadataSource, s.layout.MetadataPath(s.model)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &MissingLocalResourceError{Path: s.metadataSource}
		}
		return err
	}
	logger.Debug("model metadata copied", "source", s.metadataSource)
	return nil
}
