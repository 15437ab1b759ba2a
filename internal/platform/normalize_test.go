package platform

import (
	"errors"
	"testing"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Key
		wantErr bool
	}{
		{"linux", "linux", Linux, false},
		{"macos", "macos", MacOS, false},
		{"windows", "windows", Windows, false},
		{"uppercase", "Windows", Windows, false},
		{"with spaces", "  linux ", Linux, false},
		{"darwin is not a key", "darwin", "", true},
		{"freebsd", "freebsd", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKey(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var upErr *UnsupportedPlatformError
				if !errors.As(err, &upErr) {
					t.Fatalf("expected UnsupportedPlatformError, got %T", err)
				}
				if upErr.Value != tt.input {
					t.Errorf("Value = %q, want %q", upErr.Value, tt.input)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromGOOS(t *testing.T) {
	tests := []struct {
		goos    string
		want    Key
		wantErr bool
	}{
		{"linux", Linux, false},
		{"darwin", MacOS, false},
		{"windows", Windows, false},
		{"plan9", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			got, err := FromGOOS(tt.goos)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FromGOOS() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("FromGOOS() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKeyConventions(t *testing.T) {
	tests := []struct {
		key      Key
		suffix   string
		execBits bool
	}{
		{Linux, "", true},
		{MacOS, "", true},
		{Windows, ".exe", false},
	}

	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			if got := tt.key.ExeSuffix(); got != tt.suffix {
				t.Errorf("ExeSuffix() = %q, want %q", got, tt.suffix)
			}
			if got := tt.key.NeedsExecBit(); got != tt.execBits {
				t.Errorf("NeedsExecBit() = %v, want %v", got, tt.execBits)
			}
		})
	}
}

func TestNormalizeArch(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"amd64", "amd64"},
		{"x86_64", "amd64"},
		{"arm64", "arm64"},
		{"aarch64", "arm64"},
		{"riscv64", "riscv64"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := normalizeArch(tt.input); got != tt.want {
				t.Errorf("normalizeArch() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMapFamily(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"debian", FamilyDebian},
		{"Ubuntu", FamilyDebian},
		{"rocky", FamilyRHEL},
		{"manjaro", FamilyArch},
		{" alpine ", FamilyAlpine},
		{"haiku", FamilyUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := mapFamily(tt.input); got != tt.want {
				t.Errorf("mapFamily() = %v, want %v", got, tt.want)
			}
		})
	}
}
