package stage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/stemsplit/bundle/internal/archive"
)

func (s *Stager) stageTools(ctx context.Context, logger *slog.Logger, force bool, override string) (AssetResult, error) {
	start := time.Now()
	asset := s.toolsAsset()
	result := AssetResult{Asset: asset}
	fail := func(op string, err error) (AssetResult, error) {
		return result, &AssetError{Asset: asset, Op: op, Err: err}
	}

	for _, exe := range s.tools.Executables {
		result.Paths = append(result.Paths, s.layout.ToolPath(s.platform, exe))
	}

	if !force && s.toolsStaged() {
		// Earlier runs may have copied from archives without mode bits.
		// A pair that is already executable is left untouched.
		if s.platform.NeedsExecBit() {
			for _, path := range result.Paths {
				if err := addExecBits(path); err != nil {
					return fail("place", err)
				}
			}
		}
		logger.Info("tools already staged", "dir", s.layout.ToolsDir())
		result.Outcome = OutcomeSkipped
		result.Duration = time.Since(start)
		return result, nil
	}

	url, err := s.tools.URLFor(s.platform, override)
	if err != nil {
		return fail("resolve url", err)
	}
	kind, err := ArchiveKindFor(s.platform)
	if err != nil {
		return fail("resolve url", err)
	}
	extractor, err := archive.ForKind(kind)
	if err != nil {
		return fail("extract", err)
	}

	if err := os.MkdirAll(s.layout.ToolsDir(), 0755); err != nil {
		return fail("prepare", fmt.Errorf("create tools directory: %w", err))
	}

	download := newTempPath(s.layout.ToolArchivePath())
	defer func() {
		if err := download.Release(); err != nil {
			logger.Warn("failed to remove tool archive", "path", download.path, "error", err)
		}
	}()

	logger.Info("downloading tool archive", "url", url, "kind", kind)
	n, err := s.fetcher.Fetch(ctx, url, download.path)
	if err != nil {
		return fail("download", err)
	}

	scratch := s.layout.ToolScratchDir()
	if err := resetDir(scratch); err != nil {
		return fail("prepare", err)
	}
	defer func() {
		if err := os.RemoveAll(scratch); err != nil {
			logger.Warn("failed to remove scratch directory", "path", scratch, "error", err)
		}
	}()

	extracted := make([]string, len(s.tools.Executables))
	for i, exe := range s.tools.Executables {
		suffix := MemberSuffix(s.platform, exe)
		path, err := extractor.ExtractOne(download.path, scratch, suffix)
		if err != nil {
			return fail("extract "+exe, err)
		}
		logger.Debug("extracted archive member", "executable", exe, "path", path)
		extracted[i] = path
	}

	for i, exe := range s.tools.Executables {
		dst := result.Paths[i]
		if err := copyFile(extracted[i], dst); err != nil {
			return fail("place "+exe, err)
		}
		if s.platform.NeedsExecBit() {
			if err := addExecBits(dst); err != nil {
				return fail("place "+exe, err)
			}
		}
		logger.Info("tool staged", "executable", exe, "path", dst)
	}

	if err := os.RemoveAll(scratch); err != nil {
		return fail("cleanup", fmt.Errorf("remove scratch directory: %w", err))
	}
	if err := download.Release(); err != nil {
		return fail("cleanup", err)
	}

	result.Outcome = OutcomeStaged
	result.Bytes = n
	result.Duration = time.Since(start)
	return result, nil
}

// toolsStaged reports whether every executable is present at its final path.
func (s *Stager) toolsStaged() bool {
	for _, exe := range s.tools.Executables {
		if !fileExists(s.layout.ToolPath(s.platform, exe)) {
			return false
		}
	}
	return true
}
