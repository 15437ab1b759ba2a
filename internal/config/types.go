package config

import (
	"fmt"
	"net/url"
	"regexp"
	"slices"

	"github.com/stemsplit/bundle/internal/platform"
	"github.com/stemsplit/bundle/internal/stage"
)

// Manifest holds the overrides read from an asset manifest. Empty fields
// leave the built-in defaults untouched.
type Manifest struct {
	Model ModelOverride
	Tools ToolOverride
}

// ModelOverride overrides parts of the pinned model.
type ModelOverride struct {
	Name      string
	Signature string
	Checksum  string
	URL       string
}

// ToolOverride overrides the tool pair sources.
type ToolOverride struct {
	// URL replaces the archive URL for the target platform only
	URL string
	// URLs replaces archive URLs per platform key
	URLs map[platform.Key]string
	// Executables replaces the logical executable names
	Executables []string
}

// Apply returns copies of model and tools with the manifest's overrides
// applied for target.
func (m *Manifest) Apply(target platform.Key, model stage.ModelSpec, tools stage.ToolSpec) (stage.ModelSpec, stage.ToolSpec) {
	if m.Model.Name != "" {
		model.Name = m.Model.Name
	}
	if m.Model.Signature != "" {
		model.Signature = m.Model.Signature
	}
	if m.Model.Checksum != "" {
		model.Checksum = m.Model.Checksum
	}
	if m.Model.URL != "" {
		model.URL = m.Model.URL
	}

	urls := make(map[platform.Key]string, len(tools.URLs))
	for key, u := range tools.URLs {
		urls[key] = u
	}
	for key, u := range m.Tools.URLs {
		urls[key] = u
	}
	if m.Tools.URL != "" {
		urls[target] = m.Tools.URL
	}
	tools.URLs = urls

	if len(m.Tools.Executables) > 0 {
		tools.Executables = slices.Clone(m.Tools.Executables)
	}

	return model, tools
}

// Validate performs basic validation on a Manifest.
func (m *Manifest) Validate() error {
	if m.Model.Checksum != "" && !checksumPattern.MatchString(m.Model.Checksum) {
		return &ValidationError{
			Field:   "model.checksum",
			Message: fmt.Sprintf("invalid checksum %q (expected 1-64 hex characters)", m.Model.Checksum),
		}
	}
	if m.Model.Signature != "" && !namePattern.MatchString(m.Model.Signature) {
		return &ValidationError{Field: "model.signature", Message: fmt.Sprintf("invalid signature %q", m.Model.Signature)}
	}
	if m.Model.Name != "" && !namePattern.MatchString(m.Model.Name) {
		return &ValidationError{Field: "model.name", Message: fmt.Sprintf("invalid model name %q", m.Model.Name)}
	}
	if m.Model.URL != "" {
		if err := validateURL(m.Model.URL); err != nil {
			return &ValidationError{Field: "model.url", Message: err.Error()}
		}
	}

	if m.Tools.URL != "" {
		if err := validateURL(m.Tools.URL); err != nil {
			return &ValidationError{Field: "ffmpeg.url", Message: err.Error()}
		}
	}
	for key, u := range m.Tools.URLs {
		if !key.IsValid() {
			return &ValidationError{
				Field:   "ffmpeg.urls",
				Message: (&platform.UnsupportedPlatformError{Value: key.String()}).Error(),
			}
		}
		if err := validateURL(u); err != nil {
			return &ValidationError{Field: fmt.Sprintf("ffmpeg.urls.%s", key), Message: err.Error()}
		}
	}
	for i, exe := range m.Tools.Executables {
		if !namePattern.MatchString(exe) {
			return &ValidationError{
				Field:   fmt.Sprintf("ffmpeg.executables[%d]", i),
				Message: fmt.Sprintf("invalid executable name %q", exe),
			}
		}
	}

	return nil
}

// ValidationError represents a manifest validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "manifest validation failed for " + e.Field + ": " + e.Message
	}
	return "manifest validation failed: " + e.Message
}

var (
	checksumPattern = regexp.MustCompile(`^[0-9a-fA-F]{1,64}$`)
	// file name components: no separators, no leading dot
	namePattern = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9._-]{0,127}$`)
)

// validateURL validates an artifact URL.
func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("URL must use https:// or http:// scheme (got: %s)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL has no host: %s", raw)
	}

	return nil
}
