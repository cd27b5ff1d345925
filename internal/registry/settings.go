package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"inferd/pkg/types"
)

// ModelSettings is one model's on-disk settings file: identity, the
// predictor implementation to bind, and the content-type annotations the
// resolver consults for that model's inputs and outputs.
type ModelSettings struct {
	Name    string `json:"name" yaml:"name" toml:"name"`
	Version string `json:"version,omitempty" yaml:"version,omitempty" toml:"version,omitempty"`
	// Implementation names the predictor backing this model (e.g. "echo").
	Implementation string `json:"implementation,omitempty" yaml:"implementation,omitempty" toml:"implementation,omitempty"`
	// ContentType is the model's default request-level content type.
	ContentType string             `json:"content_type,omitempty" yaml:"content_type,omitempty" toml:"content_type,omitempty"`
	Inputs      []types.TensorMeta `json:"inputs,omitempty" yaml:"inputs,omitempty" toml:"inputs,omitempty"`
	Outputs     []types.TensorMeta `json:"outputs,omitempty" yaml:"outputs,omitempty" toml:"outputs,omitempty"`
}

// Metadata projects the settings into the immutable per-model metadata
// shared by all concurrent requests.
func (s *ModelSettings) Metadata() *types.ModelMetadata {
	return &types.ModelMetadata{
		Name:        s.Name,
		Version:     s.Version,
		ContentType: s.ContentType,
		Inputs:      append([]types.TensorMeta(nil), s.Inputs...),
		Outputs:     append([]types.TensorMeta(nil), s.Outputs...),
	}
}

// LoadSettings reads one model settings file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func LoadSettings(path string) (ModelSettings, error) {
	var s ModelSettings
	b, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &s); err != nil {
			return s, err
		}
	case ".json":
		if err := json.Unmarshal(b, &s); err != nil {
			return s, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &s); err != nil {
			return s, err
		}
	default:
		return s, fmt.Errorf("unsupported settings extension: %s", ext)
	}
	return s, nil
}
