package launcher

// Environment variable names used by the bundle launcher
const (
	// EnvBundleRoot overrides the bundle root (default: executable directory)
	EnvBundleRoot = "STEMSPLIT_BUNDLE_ROOT"

	// EnvSeparator names the separator program to run
	EnvSeparator = "STEMSPLIT_SEPARATOR"

	// EnvDebug enables debug logging when set
	EnvDebug = "STEMSPLIT_DEBUG"
)

// Defaults injected into the separator's arguments
const (
	DefaultSeparator = "demucs"
	DefaultModelName = "htdemucs_6s"
	DefaultDevice    = "cpu"
)
