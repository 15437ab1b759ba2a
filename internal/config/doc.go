// Package config parses the optional Lua asset manifest (assets.lua) that
// overrides the pinned model and tool sources.
//
// # Schema
//
// The manifest assigns a global "assets" table. Every field is optional;
// whatever is set replaces the corresponding built-in default.
//
//	assets = {
//	  model = {
//	    name      = "htdemucs_6s",
//	    signature = "5c90dfd2",
//	    checksum  = "34c22ccb",
//	    url       = "https://mirror.example/5c90dfd2-34c22ccb.th",
//	  },
//	  ffmpeg = {
//	    -- archive for the target platform
//	    url  = platform.when(platform.is_linux, "https://mirror.example/ffmpeg.tar.xz"),
//	    -- or per platform key
//	    urls = { macos = "https://mirror.example/ffmpeg-macos.zip" },
//	  },
//	}
//
// # Sandbox
//
// Manifests run in a gopher-lua VM with the os, io, debug and module
// loading facilities removed. A read-only "platform" table describes the
// platform being staged for, which is not necessarily the host.
//
// # Limits
//
// Manifests larger than MaxManifestSize are rejected before execution, and
// execution is bounded by the caller's context.
package config
