// Package launcher prepares the separator invocation inside a
// self-contained bundle: it locates the bundle root, makes the staged
// ffmpeg pair discoverable and fills in default arguments.
package launcher

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/stemsplit/bundle/internal/stage"
)

// HasFlag reports whether args already carries flag, either as its own
// element or in "flag=value" form.
func HasFlag(args []string, flag string) bool {
	if slices.Contains(args, flag) {
		return true
	}
	prefix := flag + "="
	for _, arg := range args {
		if strings.HasPrefix(arg, prefix) {
			return true
		}
	}
	return false
}

// InjectDefaults returns a copy of args with the bundle defaults appended
// for every flag the caller did not supply:
//   - --repo <root>/models, only when that directory exists
//   - -n htdemucs_6s, unless --name or -n is present
//   - --device cpu
func InjectDefaults(args []string, root string) []string {
	out := slices.Clone(args)

	modelsDir := filepath.Join(root, stage.ModelsDirName)
	if !HasFlag(out, "--repo") && isDir(modelsDir) {
		out = append(out, "--repo", modelsDir)
	}

	if !HasFlag(out, "--name") && !HasFlag(out, "-n") {
		out = append(out, "-n", DefaultModelName)
	}

	if !HasFlag(out, "--device") {
		out = append(out, "--device", DefaultDevice)
	}

	return out
}

// PrependSearchPath puts dir at the front of PATH for the current process
// when dir exists. It reports whether PATH was changed.
func PrependSearchPath(dir string) (bool, error) {
	if !isDir(dir) {
		return false, nil
	}

	path := dir
	if current := os.Getenv("PATH"); current != "" {
		path = dir + string(os.PathListSeparator) + current
	}
	if err := os.Setenv("PATH", path); err != nil {
		return false, fmt.Errorf("set PATH: %w", err)
	}
	return true, nil
}

// BundleRoot returns the bundle root directory
// First checks STEMSPLIT_BUNDLE_ROOT, then falls back to the directory
// holding the running executable.
func BundleRoot() (string, error) {
	if root := os.Getenv(EnvBundleRoot); root != "" {
		return filepath.Abs(root)
	}

	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// Separator returns the separator program name.
func Separator() string {
	if name := os.Getenv(EnvSeparator); name != "" {
		return name
	}
	return DefaultSeparator
}

// Prepare makes the bundle's tools discoverable and builds the separator
// command for args. The command inherits the process's standard streams.
func Prepare(ctx context.Context, root string, args []string) (*exec.Cmd, error) {
	if _, err := PrependSearchPath(filepath.Join(root, stage.ToolsDirName)); err != nil {
		return nil, err
	}

	program, err := exec.LookPath(Separator())
	if err != nil {
		return nil, fmt.Errorf("find separator: %w", err)
	}

	//nolint:gosec // G204: program comes from the bundle environment, args from the caller
	cmd := exec.CommandContext(ctx, program, InjectDefaults(args, root)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
