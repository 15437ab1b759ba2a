package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// RealDetector implements Detector using actual platform detection.
type RealDetector struct {
	goos   string
	goarch string
}

// NewDetector creates a new platform detector for the running host.
func NewDetector() Detector {
	return &RealDetector{goos: runtime.GOOS, goarch: runtime.GOARCH}
}

// Detect maps the host OS to a platform key and, on Linux, fills in
// distribution details via gopsutil.
//
// A host outside the supported set fails with UnsupportedPlatformError
// before any network activity can happen. Distro detection failures are
// not fatal; the distro fields are left empty.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	key, err := FromGOOS(d.goos)
	if err != nil {
		return nil, fmt.Errorf("platform detection failed: %w", err)
	}

	info := &Info{
		Key:     key,
		Arch:    normalizeArch(d.goarch),
		ArchRaw: d.goarch,
	}

	if key != Linux {
		return info, nil
	}

	platform, family, version, err := host.PlatformInformationWithContext(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
		}
		return info, nil
	}

	platform = normalizePlatform(platform)
	if platform != "" {
		info.Platform = platform
		info.Family = mapFamily(family)
		info.Version = normalizePlatform(version)
	}

	return info, nil
}
