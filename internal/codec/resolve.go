package codec

import (
	"inferd/pkg/types"
)

// ResolveInput determines the effective content type for one request input.
// Precedence, first match wins:
//
//  1. explicit content_type in the tensor's own parameters
//  2. content_type declared in model metadata for the same input name
//  3. the built-in default for the wire datatype
func ResolveInput(t *types.Tensor, meta *types.ModelMetadata) string {
	if ct, ok := t.Parameters.ContentType(); ok {
		return ct
	}
	if im, ok := meta.InputMeta(t.Name); ok && im.ContentType != "" {
		return im.ContentType
	}
	return t.Datatype.DefaultContentType()
}

// ResolveRequest determines the request-level content type: explicit request
// parameters win over the model's declared default. An empty result means no
// request-wide decoding applies and inputs decode independently.
func ResolveRequest(req *types.InferenceRequest, meta *types.ModelMetadata) string {
	if ct, ok := req.Parameters.ContentType(); ok {
		return ct
	}
	if meta != nil {
		return meta.ContentType
	}
	return ""
}

// ResolveOutput determines the content type for re-encoding one named output.
// Only explicit declarations count here; an empty result tells the caller to
// pick a codec from the native value's type.
func ResolveOutput(name string, meta *types.ModelMetadata) string {
	if om, ok := meta.OutputMeta(name); ok && om.ContentType != "" {
		return om.ContentType
	}
	return ""
}

// InputCodec resolves and validates the codec for one request input: it
// applies the resolution precedence, looks the identifier up in r, and checks
// the codec against the tensor's actual wire datatype before any decode runs.
func InputCodec(r *Registry, t *types.Tensor, meta *types.ModelMetadata) (Codec, error) {
	ct := ResolveInput(t, meta)
	c, ok := r.Lookup(ct)
	if !ok {
		return nil, ErrCodecNotFound(ct, t.Name)
	}
	if !c.SupportsDatatype(t.Datatype) {
		return nil, ErrUnsupportedDatatype(ct, t.Datatype, t.Name)
	}
	return c, nil
}
