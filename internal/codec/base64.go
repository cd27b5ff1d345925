package codec

import (
	"encoding/base64"
	"fmt"

	"inferd/pkg/types"
)

// Base64Codec is the "base64" codec: BYTES tensors whose elements are
// base64-encoded binary blobs. It decodes to one []byte per element.
type Base64Codec struct{}

func (Base64Codec) ContentType() string { return ContentTypeBase64 }

func (Base64Codec) SupportsDatatype(dt types.Datatype) bool { return dt == types.Bytes }

func (c Base64Codec) Decode(t *types.Tensor) (any, error) {
	if !c.SupportsDatatype(t.Datatype) {
		return nil, ErrUnsupportedDatatype(ContentTypeBase64, t.Datatype, t.Name)
	}
	if want := t.Elements(); want != int64(t.Data.Len()) {
		return nil, ErrShapeMismatch(t.Name, want, t.Data.Len())
	}
	if t.Data.IsRaw() {
		dec, err := base64.StdEncoding.DecodeString(string(t.Data.Bytes()))
		if err != nil {
			return nil, ErrMalformedPayload(t.Name, fmt.Sprintf("invalid base64 payload: %v", err))
		}
		return [][]byte{dec}, nil
	}
	out := make([][]byte, 0, len(t.Data.Values()))
	for i, v := range t.Data.Values() {
		s, ok := v.(string)
		if !ok {
			return nil, ErrMalformedPayload(t.Name, fmt.Sprintf("element %d is not a base64 string", i))
		}
		dec, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, ErrMalformedPayload(t.Name, fmt.Sprintf("element %d is not valid base64: %v", i, err))
		}
		out = append(out, dec)
	}
	return out, nil
}

func (Base64Codec) Encode(name string, v any) (*types.Tensor, error) {
	var blobs [][]byte
	switch b := v.(type) {
	case [][]byte:
		blobs = b
	case []byte:
		blobs = [][]byte{b}
	default:
		return nil, ErrMalformedPayload(name, fmt.Sprintf("cannot encode %T as base64", v))
	}
	vals := make([]any, len(blobs))
	for i, blob := range blobs {
		vals[i] = base64.StdEncoding.EncodeToString(blob)
	}
	return &types.Tensor{
		Name:     name,
		Shape:    []int64{int64(len(blobs))},
		Datatype: types.Bytes,
		Data:     types.Scalars(vals...),
	}, nil
}
