package codec

import (
	"fmt"
	"unicode/utf8"

	"inferd/pkg/types"
)

// TextCodec is the "str" codec: it interprets BYTES tensors as UTF-8 text.
// The raw-bytes wire form decodes to a single string; the scalar-list form
// decodes to one string per element.
type TextCodec struct{}

func (TextCodec) ContentType() string { return ContentTypeText }

func (TextCodec) SupportsDatatype(dt types.Datatype) bool { return dt == types.Bytes }

func (c TextCodec) Decode(t *types.Tensor) (any, error) {
	if !c.SupportsDatatype(t.Datatype) {
		return nil, ErrUnsupportedDatatype(ContentTypeText, t.Datatype, t.Name)
	}
	if want := t.Elements(); want != int64(t.Data.Len()) {
		return nil, ErrShapeMismatch(t.Name, want, t.Data.Len())
	}
	if t.Data.IsRaw() {
		if !utf8.Valid(t.Data.Bytes()) {
			return nil, ErrMalformedPayload(t.Name, "payload is not valid UTF-8 text")
		}
		return string(t.Data.Bytes()), nil
	}
	out := make([]string, 0, len(t.Data.Values()))
	for i, v := range t.Data.Values() {
		s, ok := v.(string)
		if !ok {
			return nil, ErrMalformedPayload(t.Name, fmt.Sprintf("element %d is not a string", i))
		}
		if !utf8.ValidString(s) {
			return nil, ErrMalformedPayload(t.Name, fmt.Sprintf("element %d is not valid UTF-8 text", i))
		}
		out = append(out, s)
	}
	return out, nil
}

func (TextCodec) Encode(name string, v any) (*types.Tensor, error) {
	switch s := v.(type) {
	case string:
		return &types.Tensor{
			Name:     name,
			Shape:    []int64{int64(len(s))},
			Datatype: types.Bytes,
			Data:     types.Raw([]byte(s)),
		}, nil
	case []string:
		vals := make([]any, len(s))
		for i, e := range s {
			vals[i] = e
		}
		return &types.Tensor{
			Name:     name,
			Shape:    []int64{int64(len(s))},
			Datatype: types.Bytes,
			Data:     types.Scalars(vals...),
		}, nil
	case []byte:
		return TextCodec{}.Encode(name, string(s))
	}
	return nil, ErrMalformedPayload(name, fmt.Sprintf("cannot encode %T as text", v))
}
