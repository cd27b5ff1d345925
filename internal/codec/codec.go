package codec

import (
	"inferd/pkg/types"
)

// Codec converts between the wire representation of a single tensor and a
// runtime-native value. Implementations are stateless and safe for
// concurrent use.
type Codec interface {
	// ContentType is the canonical identifier this codec registers under.
	ContentType() string
	// SupportsDatatype reports whether the codec can interpret tensors of
	// the given wire datatype. A codec may accept several datatypes and
	// select its conversion path from the observed one.
	SupportsDatatype(dt types.Datatype) bool
	// Decode converts a wire tensor into a native value. It must reject a
	// datatype outside its compatibility set and any payload whose flattened
	// length disagrees with the declared shape.
	Decode(t *types.Tensor) (any, error)
	// Encode is the inverse: it produces a self-consistent
	// shape/datatype/data triple for the given native value.
	Encode(name string, v any) (*types.Tensor, error)
}

// RequestCodec aggregates all inputs of a request into one native composite
// value, and splits a composite result back into output tensors. It is used
// for whole-request decoding (e.g. the column-table codec). DecodeRequest
// receives the model metadata so per-input content-type declarations keep
// their place in the resolution precedence; meta may be nil.
type RequestCodec interface {
	ContentType() string
	DecodeRequest(req *types.InferenceRequest, meta *types.ModelMetadata) (any, error)
	EncodeResponse(v any) ([]types.Tensor, error)
}
