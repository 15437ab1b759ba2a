package platform

import (
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func TestInjectPlatformTable(t *testing.T) {
	tests := []struct {
		name string
		info *Info
		code string
		want lua.LValue
	}{
		{"linux os", &Info{Key: Linux, Arch: "amd64"}, `return platform.os`, lua.LString("linux")},
		{"linux exe suffix", &Info{Key: Linux}, `return platform.exe_suffix`, lua.LString("")},
		{"windows exe suffix", &Info{Key: Windows}, `return platform.exe_suffix`, lua.LString(".exe")},
		{"is_windows", &Info{Key: Windows}, `return platform.is_windows`, lua.LTrue},
		{"is_macos", &Info{Key: MacOS}, `return platform.is_macos`, lua.LTrue},
		{"is_linux on macos", &Info{Key: MacOS}, `return platform.is_linux`, lua.LFalse},
		{"is_arm64", &Info{Key: MacOS, Arch: "arm64"}, `return platform.is_arm64`, lua.LTrue},
		{
			"distro id",
			&Info{Key: Linux, Platform: "ubuntu", Family: FamilyDebian, Version: "22.04"},
			`return platform.distro.id`,
			lua.LString("ubuntu"),
		},
		{"no distro on windows", &Info{Key: Windows}, `return platform.distro`, lua.LNil},
		{"when true", &Info{Key: Linux}, `return platform.when(platform.is_linux, "x")`, lua.LString("x")},
		{"when false", &Info{Key: Linux}, `return platform.when(platform.is_windows, "x")`, lua.LNil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			L := lua.NewState()
			defer L.Close()

			if err := InjectPlatformTable(L, tt.info); err != nil {
				t.Fatalf("InjectPlatformTable() error = %v", err)
			}
			if err := L.DoString(tt.code); err != nil {
				t.Fatalf("failed to execute code: %v", err)
			}
			got := L.Get(-1)
			L.Pop(1)

			if got.Type() != tt.want.Type() {
				t.Fatalf("type mismatch: got %v, want %v", got.Type(), tt.want.Type())
			}
			if got.String() != tt.want.String() {
				t.Errorf("value mismatch: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInjectPlatformTable_ReadOnly(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	if err := InjectPlatformTable(L, &Info{Key: Linux}); err != nil {
		t.Fatalf("InjectPlatformTable() error = %v", err)
	}

	err := L.DoString(`platform.os = "windows"`)
	if err == nil {
		t.Fatal("expected error when writing to platform table")
	}
	if !strings.Contains(err.Error(), "read-only") {
		t.Errorf("error = %v, want read-only error", err)
	}

	if err := L.DoString(`setmetatable(platform, {})`); err == nil {
		t.Error("expected error when replacing the protected metatable")
	}
}
