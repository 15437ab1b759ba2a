// Package platform identifies the target platform of a staging run.
//
// A Key selects which tool archive is downloaded, how its members are
// named, and whether placed executables need their permission bits fixed.
// Host detection uses runtime.GOOS for the key and gopsutil for Linux
// distribution details, which are informational only.
package platform

import (
	"context"
	"fmt"
)

// Key is one of the fixed set of supported target platforms.
type Key string

const (
	// Linux targets statically linked Linux builds.
	Linux Key = "linux"
	// MacOS targets macOS builds.
	MacOS Key = "macos"
	// Windows targets Windows builds (".exe" executables).
	Windows Key = "windows"
)

// Linux distribution family constants.
const (
	FamilyDebian  = "debian"  // Debian, Ubuntu, Linux Mint
	FamilyRHEL    = "rhel"    // RHEL, CentOS, Rocky Linux, AlmaLinux
	FamilyFedora  = "fedora"  // Fedora
	FamilySUSE    = "suse"    // openSUSE, SLES
	FamilyArch    = "arch"    // Arch Linux, Manjaro
	FamilyAlpine  = "alpine"  // Alpine Linux
	FamilyGentoo  = "gentoo"  // Gentoo
	FamilyUnknown = "unknown" // Unrecognized distributions
)

// Keys returns every supported key in a stable order.
func Keys() []Key {
	return []Key{Linux, MacOS, Windows}
}

// String returns the string representation of the key
func (k Key) String() string {
	return string(k)
}

// IsValid returns true if the key is one of the supported platforms
func (k Key) IsValid() bool {
	switch k {
	case Linux, MacOS, Windows:
		return true
	default:
		return false
	}
}

// ExeSuffix returns the executable file extension for the platform.
func (k Key) ExeSuffix() string {
	if k == Windows {
		return ".exe"
	}
	return ""
}

// NeedsExecBit reports whether placed executables must be chmod'ed +x.
// Archives do not reliably carry permission bits.
func (k Key) NeedsExecBit() bool {
	return k != Windows
}

// Info contains platform detection information.
type Info struct {
	Key      Key    // target platform
	Arch     string // "amd64", "arm64" (normalized when recognised)
	ArchRaw  string // original GOARCH
	Platform string // distro ID (Linux only, e.g., "ubuntu", "arch")
	Family   string // canonical family (e.g., "debian", "rhel", "arch")
	Version  string // distro version (Linux only, e.g., "22.04")
}

// Distro contains Linux distribution information.
type Distro struct {
	ID      string
	Family  string
	Version string
}

// GetDistro returns distro information if this is a Linux platform.
// Returns nil for non-Linux platforms or if distro detection failed.
func (i *Info) GetDistro() *Distro {
	if i.Key != Linux || i.Platform == "" {
		return nil
	}
	return &Distro{
		ID:      i.Platform,
		Family:  i.Family,
		Version: i.Version,
	}
}

// ForTarget returns a copy of the host info retargeted at key. Distro
// details only survive when the target is the host platform.
func (i *Info) ForTarget(key Key) *Info {
	out := *i
	if key != i.Key {
		out.Key = key
		out.Platform = ""
		out.Family = ""
		out.Version = ""
	}
	return &out
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool {
	return i.Key == Linux
}

// IsMacOS returns true if the platform is macOS.
func (i *Info) IsMacOS() bool {
	return i.Key == MacOS
}

// IsWindows returns true if the platform is Windows.
func (i *Info) IsWindows() bool {
	return i.Key == Windows
}

// IsAMD64 returns true if the architecture is amd64.
func (i *Info) IsAMD64() bool {
	return i.Arch == "amd64"
}

// IsARM64 returns true if the architecture is arm64.
func (i *Info) IsARM64() bool {
	return i.Arch == "arm64"
}

// UnsupportedPlatformError is returned for a platform outside the supported set.
type UnsupportedPlatformError struct {
	Value string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("unsupported platform: %q (supported: linux, macos, windows)", e.Value)
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}
