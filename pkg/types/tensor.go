package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Parameters is the open key/value bag carried by tensors and requests.
// The "content_type" key selects the codec used to interpret the payload.
type Parameters map[string]any

// ContentType returns the explicit content type, if one is present.
func (p Parameters) ContentType() (string, bool) {
	if p == nil {
		return "", false
	}
	ct, ok := p["content_type"].(string)
	if !ok || ct == "" {
		return "", false
	}
	return ct, true
}

// WithContentType returns a copy of p with the content type set.
func (p Parameters) WithContentType(ct string) Parameters {
	out := make(Parameters, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	out["content_type"] = ct
	return out
}

// TensorData is the flat payload of one tensor. On the wire it is either a
// JSON array of scalar values or a single JSON string carrying raw bytes
// (the compact form used by BYTES tensors).
type TensorData struct {
	values []any
	raw    []byte
	isRaw  bool
}

// Scalars builds a TensorData from a flat list of scalar values.
func Scalars(values ...any) TensorData {
	return TensorData{values: values}
}

// Raw builds a TensorData carrying raw bytes.
func Raw(b []byte) TensorData {
	return TensorData{raw: b, isRaw: true}
}

// IsRaw reports whether the payload is the raw-bytes form.
func (d TensorData) IsRaw() bool { return d.isRaw }

// Values returns the scalar values; nil for the raw form.
func (d TensorData) Values() []any { return d.values }

// Bytes returns the raw payload; nil for the scalar form.
func (d TensorData) Bytes() []byte { return d.raw }

// Len counts elements: scalar values in the list form, bytes in the raw form.
func (d TensorData) Len() int {
	if d.isRaw {
		return len(d.raw)
	}
	return len(d.values)
}

func (d TensorData) MarshalJSON() ([]byte, error) {
	if d.isRaw {
		return json.Marshal(string(d.raw))
	}
	if d.values == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(d.values)
}

func (d *TensorData) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty tensor data")
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*d = TensorData{raw: []byte(s), isRaw: true}
		return nil
	}
	var values []any
	if err := json.Unmarshal(trimmed, &values); err != nil {
		return err
	}
	*d = TensorData{values: values}
	return nil
}

// Tensor is the wire-level representation of one named input or output:
// a datatype, a shape, and a flat data payload whose element count must
// equal the product of the shape.
type Tensor struct {
	Name       string     `json:"name"`
	Shape      []int64    `json:"shape"`
	Datatype   Datatype   `json:"datatype"`
	Parameters Parameters `json:"parameters,omitempty"`
	Data       TensorData `json:"data"`
}

// Elements returns the element count implied by the shape. A negative
// dimension yields -1 (invalid shape).
func (t *Tensor) Elements() int64 {
	n := int64(1)
	for _, d := range t.Shape {
		if d < 0 {
			return -1
		}
		n *= d
	}
	return n
}
