package stage

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// ModelManifest is the subset of the model metadata file the stager reads.
type ModelManifest struct {
	Models  []string    `yaml:"models"`
	Weights [][]float64 `yaml:"weights,omitempty"`
	Segment float64     `yaml:"segment,omitempty"`
}

// References reports whether the manifest lists signature.
func (m *ModelManifest) References(signature string) bool {
	return slices.Contains(m.Models, signature)
}

// ReadModelManifest parses the metadata file at path. A missing or
// unparsable file is a MissingLocalResourceError.
func ReadModelManifest(path string) (*ModelManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &MissingLocalResourceError{Path: path}
		}
		return nil, &MissingLocalResourceError{Path: path, Err: err}
	}

	var manifest ModelManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, &MissingLocalResourceError{Path: path, Err: fmt.Errorf("parse yaml: %w", err)}
	}
	if len(manifest.Models) == 0 {
		return nil, &MissingLocalResourceError{Path: path, Err: errors.New("no models listed")}
	}

	return &manifest, nil
}
