package types

// TensorMeta describes one declared model input or output: its name, wire
// datatype, expected shape, and optional default content type.
type TensorMeta struct {
	Name        string   `json:"name" yaml:"name" toml:"name"`
	Datatype    Datatype `json:"datatype" yaml:"datatype" toml:"datatype"`
	Shape       []int64  `json:"shape,omitempty" yaml:"shape,omitempty" toml:"shape,omitempty"`
	ContentType string   `json:"content_type,omitempty" yaml:"content_type,omitempty" toml:"content_type,omitempty"`
}

// ModelMetadata is the static per-model description loaded once at startup.
// It is immutable after load and read concurrently by all in-flight requests.
type ModelMetadata struct {
	Name    string `json:"name" yaml:"name" toml:"name"`
	Version string `json:"version,omitempty" yaml:"version,omitempty" toml:"version,omitempty"`
	// ContentType is the default request-level content type; when set, whole
	// requests to this model decode through a request codec unless overridden.
	ContentType string       `json:"content_type,omitempty" yaml:"content_type,omitempty" toml:"content_type,omitempty"`
	Inputs      []TensorMeta `json:"inputs,omitempty" yaml:"inputs,omitempty" toml:"inputs,omitempty"`
	Outputs     []TensorMeta `json:"outputs,omitempty" yaml:"outputs,omitempty" toml:"outputs,omitempty"`
}

// InputMeta returns the declared metadata for the named input.
func (m *ModelMetadata) InputMeta(name string) (TensorMeta, bool) {
	if m == nil {
		return TensorMeta{}, false
	}
	for _, in := range m.Inputs {
		if in.Name == name {
			return in, true
		}
	}
	return TensorMeta{}, false
}

// OutputMeta returns the declared metadata for the named output.
func (m *ModelMetadata) OutputMeta(name string) (TensorMeta, bool) {
	if m == nil {
		return TensorMeta{}, false
	}
	for _, out := range m.Outputs {
		if out.Name == name {
			return out, true
		}
	}
	return TensorMeta{}, false
}
