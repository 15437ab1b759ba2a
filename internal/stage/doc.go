// Package stage stages third-party binary assets into a staging root so a
// bundled application can run without separately installed dependencies.
//
// # Asset classes
//
// Two asset classes are staged, one after the other:
//   - Model weights: a single file fetched from a pinned URL and accepted only
//     when its truncated SHA-256 digest equals the pinned checksum. A
//     companion metadata file is copied from the repository on every run.
//   - Tool pair: ffmpeg and ffprobe, extracted from one platform-specific
//     archive (tar on linux, zip on macos and windows).
//
// # Layout
//
//	<root>/models/<name>.yaml
//	<root>/models/<signature>-<checksum>.th
//	<root>/ffmpeg/ffmpeg[.exe]
//	<root>/ffmpeg/ffprobe[.exe]
//
// # Atomicity
//
// Every artifact is written to a temporary sibling path and renamed into
// place only after it is complete and verified, so a final path never
// holds a partially written file. The two tool
// executables are committed one at a time; a failed run can leave one
// staged and the other missing, and the next run re-stages both because
// its CHECK requires both to be present.
//
// A Stager does not lock the staging root. At most one staging run per root
// may be active at a time; callers that cannot guarantee this should hold
// the lock returned by AcquireLock for the duration of the run.
package stage
