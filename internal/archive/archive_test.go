package archive

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stemsplit/bundle/internal/testutil"
)

// ffmpegRelease mimics the layout of an upstream static ffmpeg release.
var ffmpegRelease = []testutil.Entry{
	{Name: "ffmpeg-7.0-amd64-static/", Dir: true},
	{Name: "ffmpeg-7.0-amd64-static/readme.txt", Body: "readme"},
	{Name: "ffmpeg-7.0-amd64-static/model/ffmpeg-notes", Body: "not a binary"},
	{Name: "ffmpeg-7.0-amd64-static/ffmpeg", Body: "ffmpeg binary", Mode: 0755},
	{Name: "ffmpeg-7.0-amd64-static/ffprobe", Body: "ffprobe binary", Mode: 0755},
}

type archiveCase struct {
	name  string
	kind  Kind
	write func(t *testing.T, path string, entries []testutil.Entry)
}

var archiveCases = []archiveCase{
	{"tar", KindTar, func(t *testing.T, p string, e []testutil.Entry) { testutil.WriteTar(t, p, testutil.None, e) }},
	{"tar_gz", KindTar, func(t *testing.T, p string, e []testutil.Entry) { testutil.WriteTar(t, p, testutil.Gzip, e) }},
	{"tar_xz", KindTar, func(t *testing.T, p string, e []testutil.Entry) { testutil.WriteTar(t, p, testutil.XZ, e) }},
	{"zip", KindZip, func(t *testing.T, p string, e []testutil.Entry) { testutil.WriteZip(t, p, e) }},
}

func TestExtractOne(t *testing.T) {
	for _, ac := range archiveCases {
		t.Run(ac.name, func(t *testing.T) {
			archivePath := filepath.Join(t.TempDir(), "release")
			ac.write(t, archivePath, ffmpegRelease)

			extractor, err := ForKind(ac.kind)
			if err != nil {
				t.Fatalf("ForKind() error = %v", err)
			}

			for _, tc := range []struct {
				suffix string
				body   string
			}{
				{"/ffmpeg", "ffmpeg binary"},
				{"/ffprobe", "ffprobe binary"},
			} {
				destDir := t.TempDir()
				got, err := extractor.ExtractOne(archivePath, destDir, tc.suffix)
				if err != nil {
					t.Fatalf("ExtractOne(%s) error = %v", tc.suffix, err)
				}

				// relative member path is preserved, not flattened
				want := filepath.Join(destDir, "ffmpeg-7.0-amd64-static", filepath.Base(tc.suffix))
				if got != want {
					t.Errorf("ExtractOne(%s) = %s, want %s", tc.suffix, got, want)
				}

				content, err := os.ReadFile(got)
				if err != nil {
					t.Fatalf("failed to read extracted file: %v", err)
				}
				if string(content) != tc.body {
					t.Errorf("content mismatch:\ngot:  %q\nwant: %q", content, tc.body)
				}
			}
		})
	}
}

func TestExtractOneOnlyWritesSelectedMember(t *testing.T) {
	for _, ac := range archiveCases {
		t.Run(ac.name, func(t *testing.T) {
			archivePath := filepath.Join(t.TempDir(), "release")
			ac.write(t, archivePath, ffmpegRelease)

			extractor, _ := ForKind(ac.kind)
			destDir := t.TempDir()
			if _, err := extractor.ExtractOne(archivePath, destDir, "/ffprobe"); err != nil {
				t.Fatalf("ExtractOne() error = %v", err)
			}

			var files []string
			err := filepath.WalkDir(destDir, func(path string, d os.DirEntry, err error) error {
				if err == nil && !d.IsDir() {
					files = append(files, path)
				}
				return err
			})
			if err != nil {
				t.Fatalf("walk failed: %v", err)
			}
			if len(files) != 1 {
				t.Errorf("extracted %d files, want 1: %v", len(files), files)
			}
		})
	}
}

func TestExtractOneFirstMatchWins(t *testing.T) {
	entries := []testutil.Entry{
		{Name: "a/bin/ffmpeg", Body: "first"},
		{Name: "b/bin/ffmpeg", Body: "second"},
	}

	for _, ac := range archiveCases {
		t.Run(ac.name, func(t *testing.T) {
			archivePath := filepath.Join(t.TempDir(), "release")
			ac.write(t, archivePath, entries)

			extractor, _ := ForKind(ac.kind)
			destDir := t.TempDir()
			got, err := extractor.ExtractOne(archivePath, destDir, "/ffmpeg")
			if err != nil {
				t.Fatalf("ExtractOne() error = %v", err)
			}

			content, _ := os.ReadFile(got)
			if string(content) != "first" {
				t.Errorf("extracted %q, want the first member in archive order", content)
			}
			if _, err := os.Stat(filepath.Join(destDir, "b")); !os.IsNotExist(err) {
				t.Error("second matching member must not be extracted")
			}
		})
	}
}

func TestExtractOneMemberAtRoot(t *testing.T) {
	entries := []testutil.Entry{
		{Name: "ffmpeg", Body: "macos ffmpeg", Mode: 0755},
	}

	for _, ac := range archiveCases {
		t.Run(ac.name, func(t *testing.T) {
			archivePath := filepath.Join(t.TempDir(), "release")
			ac.write(t, archivePath, entries)

			extractor, _ := ForKind(ac.kind)
			destDir := t.TempDir()
			got, err := extractor.ExtractOne(archivePath, destDir, "/ffmpeg")
			if err != nil {
				t.Fatalf("ExtractOne() error = %v", err)
			}
			if got != filepath.Join(destDir, "ffmpeg") {
				t.Errorf("ExtractOne() = %s", got)
			}
		})
	}
}

func TestExtractOneSkipsNonRegularMembers(t *testing.T) {
	entries := []testutil.Entry{
		{Name: "pkg/ffmpeg", Symlink: "../elsewhere/ffmpeg"},
		{Name: "pkg/real/ffmpeg", Body: "regular"},
	}

	for _, ac := range archiveCases {
		t.Run(ac.name, func(t *testing.T) {
			archivePath := filepath.Join(t.TempDir(), "release")
			ac.write(t, archivePath, entries)

			extractor, _ := ForKind(ac.kind)
			got, err := extractor.ExtractOne(archivePath, t.TempDir(), "/ffmpeg")
			if err != nil {
				t.Fatalf("ExtractOne() error = %v", err)
			}
			content, _ := os.ReadFile(got)
			if string(content) != "regular" {
				t.Errorf("extracted %q, want the regular file", content)
			}
		})
	}
}

func TestExtractOneMemberNotFound(t *testing.T) {
	for _, ac := range archiveCases {
		t.Run(ac.name, func(t *testing.T) {
			archivePath := filepath.Join(t.TempDir(), "release")
			ac.write(t, archivePath, ffmpegRelease)

			extractor, _ := ForKind(ac.kind)
			_, err := extractor.ExtractOne(archivePath, t.TempDir(), "/ffmpeg.exe")
			if err == nil {
				t.Fatal("expected error but got none")
			}

			var nfErr *MemberNotFoundError
			if !errors.As(err, &nfErr) {
				t.Fatalf("expected MemberNotFoundError, got %T: %v", err, err)
			}
			if nfErr.Suffix != "/ffmpeg.exe" || nfErr.Kind != ac.kind {
				t.Errorf("unexpected error fields: %+v", nfErr)
			}
		})
	}
}

func TestExtractOneRejectsPathTraversal(t *testing.T) {
	entries := []testutil.Entry{
		{Name: "../../escape/ffmpeg", Body: "evil"},
	}

	for _, ac := range archiveCases {
		t.Run(ac.name, func(t *testing.T) {
			archivePath := filepath.Join(t.TempDir(), "release")
			ac.write(t, archivePath, entries)

			extractor, _ := ForKind(ac.kind)
			destDir := filepath.Join(t.TempDir(), "dest")
			if _, err := extractor.ExtractOne(archivePath, destDir, "/ffmpeg"); err == nil {
				t.Fatal("expected path traversal to be rejected")
			}
		})
	}
}

func TestExtractOneMalformedArchive(t *testing.T) {
	for _, kind := range []Kind{KindTar, KindZip} {
		t.Run(kind.String(), func(t *testing.T) {
			archivePath := filepath.Join(t.TempDir(), "broken")
			testutil.WriteFile(t, archivePath, []byte("this is definitely not an archive, just some text padding it out"))

			extractor, _ := ForKind(kind)
			_, err := extractor.ExtractOne(archivePath, t.TempDir(), "/ffmpeg")
			if err == nil {
				t.Fatal("expected error for malformed archive")
			}
			var nfErr *MemberNotFoundError
			if errors.As(err, &nfErr) {
				t.Errorf("malformed archive should not report MemberNotFoundError: %v", err)
			}
		})
	}
}

func TestExtractOneMissingArchive(t *testing.T) {
	for _, kind := range []Kind{KindTar, KindZip} {
		t.Run(kind.String(), func(t *testing.T) {
			extractor, _ := ForKind(kind)
			if _, err := extractor.ExtractOne(filepath.Join(t.TempDir(), "absent"), t.TempDir(), "/ffmpeg"); err == nil {
				t.Fatal("expected error for missing archive")
			}
		})
	}
}

func TestForKindUnknown(t *testing.T) {
	if _, err := ForKind("rar"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestMatchesSuffix(t *testing.T) {
	tests := []struct {
		name   string
		member string
		suffix string
		want   bool
	}{
		{"nested", "dir/bin/ffmpeg", "/ffmpeg", true},
		{"root", "ffmpeg", "/ffmpeg", true},
		{"dot slash root", "./ffmpeg", "/ffmpeg", true},
		{"exe", "ffmpeg-7/bin/ffmpeg.exe", "/ffmpeg.exe", true},
		{"exe not matched without suffix", "ffmpeg-7/bin/ffmpeg.exe", "/ffmpeg", false},
		{"prefix word", "dir/libffmpeg", "/ffmpeg", false},
		{"bare suffix", "dir/libffmpeg", "ffmpeg", true},
		{"empty suffix", "dir/ffmpeg", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchesSuffix(tt.member, tt.suffix); got != tt.want {
				t.Errorf("matchesSuffix(%q, %q) = %v, want %v", tt.member, tt.suffix, got, tt.want)
			}
		})
	}
}
