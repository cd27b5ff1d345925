package types

// Datatype identifies the wire-level element type of a tensor.
type Datatype string

const (
	Bool   Datatype = "BOOL"
	Uint8  Datatype = "UINT8"
	Uint16 Datatype = "UINT16"
	Uint32 Datatype = "UINT32"
	Uint64 Datatype = "UINT64"
	Int8   Datatype = "INT8"
	Int16  Datatype = "INT16"
	Int32  Datatype = "INT32"
	Int64  Datatype = "INT64"
	Fp16   Datatype = "FP16"
	Fp32   Datatype = "FP32"
	Fp64   Datatype = "FP64"
	Bytes  Datatype = "BYTES"
)

// datatypeKind classifies a datatype for codec selection.
type datatypeKind uint8

const (
	kindBool datatypeKind = iota
	kindInt
	kindFloat
	kindBytes
)

var datatypeKinds = map[Datatype]datatypeKind{
	Bool:   kindBool,
	Uint8:  kindInt,
	Uint16: kindInt,
	Uint32: kindInt,
	Uint64: kindInt,
	Int8:   kindInt,
	Int16:  kindInt,
	Int32:  kindInt,
	Int64:  kindInt,
	Fp16:   kindFloat,
	Fp32:   kindFloat,
	Fp64:   kindFloat,
	Bytes:  kindBytes,
}

// Valid reports whether dt is one of the known wire datatypes.
func (dt Datatype) Valid() bool {
	_, ok := datatypeKinds[dt]
	return ok
}

// Numeric reports whether dt carries numeric elements (integer or float).
func (dt Datatype) Numeric() bool {
	k, ok := datatypeKinds[dt]
	return ok && (k == kindInt || k == kindFloat)
}

// Integer reports whether dt is a (signed or unsigned) integer type.
func (dt Datatype) Integer() bool {
	return datatypeKinds[dt] == kindInt && dt.Valid()
}

// Float reports whether dt is a floating-point type.
func (dt Datatype) Float() bool {
	return datatypeKinds[dt] == kindFloat && dt.Valid()
}

// DefaultContentType returns the built-in content type used when neither the
// request nor the model metadata declares one: BYTES tensors default to the
// text codec, everything else to the generic array codec.
func (dt Datatype) DefaultContentType() string {
	if dt == Bytes {
		return "str"
	}
	return "np"
}

func (dt Datatype) String() string { return string(dt) }
