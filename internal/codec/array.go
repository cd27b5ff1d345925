package codec

import (
	"fmt"
	"math"

	"inferd/pkg/types"
)

// ContentType identifiers of the built-in codecs.
const (
	ContentTypeArray  = "np"
	ContentTypeText   = "str"
	ContentTypeBase64 = "base64"
	ContentTypeTable  = "pd"
)

// Array is the native dense value produced by the generic array codec: a
// datatype, a shape, and a flat row-major payload in one of the canonical Go
// forms ([]int64 for integer datatypes, []float64 for floats, []bool for
// BOOL, []byte for BYTES).
type Array struct {
	Datatype types.Datatype
	Shape    []int64
	Data     any
}

// Len returns the number of elements in the flat payload.
func (a *Array) Len() int {
	switch d := a.Data.(type) {
	case []int64:
		return len(d)
	case []float64:
		return len(d)
	case []bool:
		return len(d)
	case []byte:
		return len(d)
	}
	return 0
}

// ArrayCodec is the "np" codec: the generic dense-array representation used
// as the default for every non-BYTES datatype. It also accepts BYTES tensors
// (both the scalar-list and raw-bytes wire forms), treating each byte as one
// element.
type ArrayCodec struct{}

func (ArrayCodec) ContentType() string { return ContentTypeArray }

func (ArrayCodec) SupportsDatatype(dt types.Datatype) bool { return dt.Valid() }

func (c ArrayCodec) Decode(t *types.Tensor) (any, error) {
	if !c.SupportsDatatype(t.Datatype) {
		return nil, ErrUnsupportedDatatype(ContentTypeArray, t.Datatype, t.Name)
	}
	if want := t.Elements(); want != int64(t.Data.Len()) {
		return nil, ErrShapeMismatch(t.Name, want, t.Data.Len())
	}
	out := &Array{Datatype: t.Datatype, Shape: append([]int64(nil), t.Shape...)}
	switch {
	case t.Datatype == types.Bytes:
		if t.Data.IsRaw() {
			out.Data = append([]byte(nil), t.Data.Bytes()...)
			return out, nil
		}
		buf := make([]byte, 0, len(t.Data.Values()))
		for i, v := range t.Data.Values() {
			n, ok := asInt64(v)
			if !ok || n < 0 || n > math.MaxUint8 {
				return nil, ErrMalformedPayload(t.Name, fmt.Sprintf("element %d is not a byte value", i))
			}
			buf = append(buf, byte(n))
		}
		out.Data = buf
	case t.Datatype.Integer():
		vals := make([]int64, 0, len(t.Data.Values()))
		for i, v := range t.Data.Values() {
			n, ok := asInt64(v)
			if !ok {
				return nil, ErrMalformedPayload(t.Name, fmt.Sprintf("element %d is not an integer", i))
			}
			vals = append(vals, n)
		}
		out.Data = vals
	case t.Datatype.Float():
		vals := make([]float64, 0, len(t.Data.Values()))
		for i, v := range t.Data.Values() {
			f, ok := asFloat64(v)
			if !ok {
				return nil, ErrMalformedPayload(t.Name, fmt.Sprintf("element %d is not a number", i))
			}
			vals = append(vals, f)
		}
		out.Data = vals
	default: // BOOL
		vals := make([]bool, 0, len(t.Data.Values()))
		for i, v := range t.Data.Values() {
			b, ok := v.(bool)
			if !ok {
				return nil, ErrMalformedPayload(t.Name, fmt.Sprintf("element %d is not a boolean", i))
			}
			vals = append(vals, b)
		}
		out.Data = vals
	}
	return out, nil
}

func (c ArrayCodec) Encode(name string, v any) (*types.Tensor, error) {
	arr, err := asArray(name, v)
	if err != nil {
		return nil, err
	}
	shape := arr.Shape
	if shape == nil {
		shape = []int64{int64(arr.Len())}
	}
	t := &types.Tensor{Name: name, Shape: append([]int64(nil), shape...), Datatype: arr.Datatype}
	if want := t.Elements(); want != int64(arr.Len()) {
		return nil, ErrShapeMismatch(name, want, arr.Len())
	}
	switch d := arr.Data.(type) {
	case []byte:
		if arr.Datatype != types.Bytes {
			return nil, ErrMalformedPayload(name, "byte payload requires the BYTES datatype")
		}
		t.Data = types.Raw(append([]byte(nil), d...))
	case []int64:
		// JSON has a single number representation; emitting float64 keeps
		// encode(decode(t)) byte-identical to the parsed wire form.
		vals := make([]any, len(d))
		for i, n := range d {
			vals[i] = float64(n)
		}
		t.Data = types.Scalars(vals...)
	case []float64:
		vals := make([]any, len(d))
		for i, f := range d {
			vals[i] = f
		}
		t.Data = types.Scalars(vals...)
	case []bool:
		vals := make([]any, len(d))
		for i, b := range d {
			vals[i] = b
		}
		t.Data = types.Scalars(vals...)
	default:
		return nil, ErrMalformedPayload(name, fmt.Sprintf("unsupported array payload %T", arr.Data))
	}
	return t, nil
}

// asArray normalizes the accepted native forms into an *Array.
func asArray(name string, v any) (*Array, error) {
	switch d := v.(type) {
	case *Array:
		if !d.Datatype.Valid() {
			return nil, ErrMalformedPayload(name, fmt.Sprintf("invalid datatype %q", d.Datatype))
		}
		return d, nil
	case Array:
		return asArray(name, &d)
	case []float64:
		return &Array{Datatype: types.Fp64, Data: d}, nil
	case []int64:
		return &Array{Datatype: types.Int64, Data: d}, nil
	case []bool:
		return &Array{Datatype: types.Bool, Data: d}, nil
	case []byte:
		return &Array{Datatype: types.Bytes, Data: d}, nil
	}
	return nil, ErrMalformedPayload(name, fmt.Sprintf("cannot encode %T as an array", v))
}

// asInt64 coerces a decoded scalar to int64. JSON numbers arrive as float64;
// natively built tensors may carry Go integer types directly.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || math.IsNaN(n) {
			return 0, false
		}
		return int64(n), true
	case float32:
		return asInt64(float64(n))
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}

// asFloat64 coerces a decoded scalar to float64.
func asFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		i, ok := asInt64(v)
		if !ok {
			return 0, false
		}
		return float64(i), true
	}
}
