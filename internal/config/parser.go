package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/stemsplit/bundle/internal/platform"
)

// Parser evaluates asset manifests.
type Parser struct {
	detector platform.Detector
}

// NewParser creates a new manifest parser. The detector supplies host
// details (architecture, distribution) for the platform table; nil limits
// the table to what the target key implies.
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector}
}

// ParseFile reads and evaluates the manifest at path for target.
func (p *Parser) ParseFile(ctx context.Context, path string, target platform.Key) (*Manifest, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	if info.Size() > MaxManifestSize {
		return nil, &ParseError{
			Message: "manifest too large",
			Detail:  fmt.Sprintf("%d bytes, maximum is %d", info.Size(), MaxManifestSize),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return p.ParseString(ctx, string(data), target)
}

// ParseString evaluates manifest source for target.
func (p *Parser) ParseString(ctx context.Context, luaCode string, target platform.Key) (*Manifest, error) {
	if !target.IsValid() {
		return nil, &platform.UnsupportedPlatformError{Value: target.String()}
	}
	if len(luaCode) > MaxManifestSize {
		return nil, &ParseError{
			Message: "manifest too large",
			Detail:  fmt.Sprintf("%d bytes, maximum is %d", len(luaCode), MaxManifestSize),
		}
	}

	platformInfo, err := p.targetInfo(ctx, target)
	if err != nil {
		return nil, err
	}

	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	if err := platform.InjectPlatformTable(L, platformInfo); err != nil {
		return nil, fmt.Errorf("inject platform table: %w", err)
	}

	if err := L.DoString(luaCode); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("evaluate manifest: %w", ctxErr)
		}
		return nil, &ParseError{
			Message: "Lua error",
			Detail:  err.Error(),
		}
	}

	return extractManifest(L)
}

// targetInfo describes target, borrowing host details when the detector
// reports the same platform.
func (p *Parser) targetInfo(ctx context.Context, target platform.Key) (*platform.Info, error) {
	if p.detector == nil {
		return &platform.Info{Key: target}, nil
	}
	host, err := p.detector.Detect(ctx)
	if err != nil {
		var unsupported *platform.UnsupportedPlatformError
		if errors.As(err, &unsupported) {
			return &platform.Info{Key: target}, nil
		}
		return nil, fmt.Errorf("platform detection failed: %w", err)
	}
	return host.ForTarget(target), nil
}

// ParseError represents a manifest parsing error with friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// extractManifest reads the global "assets" table from a Lua state.
func extractManifest(L *lua.LState) (*Manifest, error) {
	assetsVal := L.GetGlobal(luaGlobalAssets)
	if assetsVal.Type() != lua.LTTable {
		return nil, &ParseError{
			Message: "missing or invalid 'assets' table",
			Detail:  fmt.Sprintf("expected table, got %s", assetsVal.Type()),
		}
	}
	table := assetsVal.(*lua.LTable)

	manifest := &Manifest{}

	if modelVal := table.RawGetString(luaFieldModel); modelVal.Type() == lua.LTTable {
		model, err := extractModel(modelVal.(*lua.LTable))
		if err != nil {
			return nil, err
		}
		manifest.Model = model
	} else if modelVal.Type() != lua.LTNil {
		return nil, fieldTypeError(luaFieldModel, "table", modelVal)
	}

	if toolsVal := table.RawGetString(luaFieldTools); toolsVal.Type() == lua.LTTable {
		tools, err := extractTools(toolsVal.(*lua.LTable))
		if err != nil {
			return nil, err
		}
		manifest.Tools = tools
	} else if toolsVal.Type() != lua.LTNil {
		return nil, fieldTypeError(luaFieldTools, "table", toolsVal)
	}

	if err := manifest.Validate(); err != nil {
		return nil, &ParseError{
			Message: "manifest validation failed",
			Detail:  err.Error(),
		}
	}

	return manifest, nil
}

func extractModel(table *lua.LTable) (ModelOverride, error) {
	model := ModelOverride{}
	fields := []struct {
		name string
		dst  *string
	}{
		{luaFieldName, &model.Name},
		{luaFieldSignature, &model.Signature},
		{luaFieldChecksum, &model.Checksum},
		{luaFieldURL, &model.URL},
	}
	for _, f := range fields {
		s, err := optionalString(table, f.name, luaFieldModel+"."+f.name)
		if err != nil {
			return model, err
		}
		*f.dst = s
	}
	return model, nil
}

func extractTools(table *lua.LTable) (ToolOverride, error) {
	tools := ToolOverride{}

	u, err := optionalString(table, luaFieldURL, luaFieldTools+"."+luaFieldURL)
	if err != nil {
		return tools, err
	}
	tools.URL = u

	switch urlsVal := table.RawGetString(luaFieldURLs); urlsVal.Type() {
	case lua.LTNil:
	case lua.LTTable:
		tools.URLs = make(map[platform.Key]string)
		var parseErr error
		urlsVal.(*lua.LTable).ForEach(func(key, value lua.LValue) {
			if parseErr != nil || value.Type() == lua.LTNil {
				return
			}
			if key.Type() != lua.LTString || value.Type() != lua.LTString {
				parseErr = fieldTypeError(luaFieldTools+"."+luaFieldURLs, "map of platform to string", value)
				return
			}
			k, err := platform.ParseKey(key.String())
			if err != nil {
				parseErr = &ParseError{Message: "invalid platform in ffmpeg.urls", Detail: err.Error()}
				return
			}
			tools.URLs[k] = value.String()
		})
		if parseErr != nil {
			return tools, parseErr
		}
	default:
		return tools, fieldTypeError(luaFieldTools+"."+luaFieldURLs, "table", urlsVal)
	}

	switch exeVal := table.RawGetString(luaFieldExecutable); exeVal.Type() {
	case lua.LTNil:
	case lua.LTTable:
		// Skip nil values (from platform conditionals like: platform.when(cond, "tool"))
		exeVal.(*lua.LTable).ForEach(func(_, value lua.LValue) {
			if value.Type() == lua.LTString {
				tools.Executables = append(tools.Executables, value.String())
			}
		})
	default:
		return tools, fieldTypeError(luaFieldTools+"."+luaFieldExecutable, "table", exeVal)
	}

	return tools, nil
}

// optionalString reads an optional string field; nil reads as "".
func optionalString(table *lua.LTable, field, path string) (string, error) {
	val := table.RawGetString(field)
	switch val.Type() {
	case lua.LTNil:
		return "", nil
	case lua.LTString:
		return val.String(), nil
	default:
		return "", fieldTypeError(path, "string", val)
	}
}

func fieldTypeError(path, want string, got lua.LValue) *ParseError {
	return &ParseError{
		Message: fmt.Sprintf("invalid '%s' field", path),
		Detail:  fmt.Sprintf("expected %s, got %s", want, got.Type()),
	}
}

// FormatError formats a ParseError for user display.
// In verbose mode, show the raw Lua error. Otherwise, show friendly message.
func FormatError(err error, verbose bool) string {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		if verbose {
			return fmt.Sprintf("%s\n\nDetails:\n%s", parseErr.Message, parseErr.Detail)
		}
		detail := parseErr.Detail
		if idx := strings.Index(detail, "stack traceback"); idx > 0 {
			detail = strings.TrimSpace(detail[:idx])
		}
		return fmt.Sprintf("%s: %s", parseErr.Message, detail)
	}
	return err.Error()
}
