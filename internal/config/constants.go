package config

// Lua schema field names and globals
const (
	luaGlobalAssets    = "assets"
	luaFieldModel      = "model"
	luaFieldTools      = "ffmpeg"
	luaFieldName       = "name"
	luaFieldSignature  = "signature"
	luaFieldChecksum   = "checksum"
	luaFieldURL        = "url"
	luaFieldURLs       = "urls"
	luaFieldExecutable = "executables"
)

// MaxManifestSize is the largest manifest accepted, in bytes.
const MaxManifestSize = 1 << 20
