package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"

	"inferd/internal/codec"
	"inferd/pkg/types"
)

// Dispatcher converts wire requests into model invocations: it resolves the
// decode mode once per request, decodes inputs through the codec registry,
// invokes the model's predict step, and re-encodes the results.
type Dispatcher struct {
	reg *codec.Registry
}

// New constructs a Dispatcher over the given registry. A nil registry means
// the process-wide default.
func New(reg *codec.Registry) *Dispatcher {
	if reg == nil {
		reg = codec.Default()
	}
	return &Dispatcher{reg: reg}
}

// Dispatch runs one inference call end to end. Decode and encode errors
// surface as the codec error taxonomy, attributable to an input name in
// per-input mode; predict failures pass through wrapped as model execution
// errors. A failed call leaves the registry and metadata untouched.
func (d *Dispatcher) Dispatch(ctx context.Context, req *types.InferenceRequest, m *Model) (*types.InferenceResponse, error) {
	start := time.Now()
	resp, err := d.dispatch(ctx, req, m)
	observeDispatch(m.Meta.Name, time.Since(start), err)
	return resp, err
}

func (d *Dispatcher) dispatch(ctx context.Context, req *types.InferenceRequest, m *Model) (*types.InferenceResponse, error) {
	meta := m.Meta
	in := &Input{ID: req.ID}

	// The decode mode is fixed once per request: request-wide iff the
	// request-level content type names a registered request codec.
	var rc codec.RequestCodec
	if ct := codec.ResolveRequest(req, meta); ct != "" {
		c, ok := d.reg.LookupRequest(ct)
		if !ok {
			if _, tensorCodec := d.reg.Lookup(ct); !tensorCodec {
				return nil, codec.ErrCodecNotFound(ct, "request")
			}
			// A plain tensor codec at request level leaves inputs to the
			// per-input path.
		} else {
			rc = c
		}
	}

	if rc != nil {
		in.Mode = RequestWide
		v, err := rc.DecodeRequest(req, meta)
		if err != nil {
			return nil, err
		}
		in.Request = v
	} else {
		in.Mode = PerInput
		in.Values = make([]NamedValue, 0, len(req.Inputs))
		for i := range req.Inputs {
			t := &req.Inputs[i]
			c, err := codec.InputCodec(d.reg, t, meta)
			if err != nil {
				return nil, err
			}
			v, err := c.Decode(t)
			if err != nil {
				return nil, err
			}
			in.Values = append(in.Values, NamedValue{Name: t.Name, Value: v})
		}
	}

	out, err := m.Predictor.Predict(ctx, in)
	if err != nil {
		return nil, codec.ErrModelExecution(meta.Name, err)
	}

	resp := &types.InferenceResponse{
		ModelName:    meta.Name,
		ModelVersion: meta.Version,
		ID:           req.ID,
	}
	if resp.ID == "" {
		resp.ID = uuid.NewString()
	}

	if out.Request != nil {
		outputs, err := d.encodeComposite(rc, out.Request)
		if err != nil {
			return nil, err
		}
		resp.Outputs = outputs
		return resp, nil
	}
	resp.Outputs = make([]types.Tensor, 0, len(out.Values))
	for _, nv := range out.Values {
		tensor, err := d.encodeOutput(nv, meta)
		if err != nil {
			return nil, err
		}
		resp.Outputs = append(resp.Outputs, *tensor)
	}
	return resp, nil
}

// encodeOutput re-encodes one named native value: an explicit content type
// from model metadata wins, otherwise the codec is picked from the value's
// native type.
func (d *Dispatcher) encodeOutput(nv NamedValue, meta *types.ModelMetadata) (*types.Tensor, error) {
	var c codec.Codec
	if ct := codec.ResolveOutput(nv.Name, meta); ct != "" {
		found, ok := d.reg.Lookup(ct)
		if !ok {
			return nil, codec.ErrCodecNotFound(ct, nv.Name)
		}
		c = found
	} else {
		c = defaultCodecFor(nv.Value)
	}
	return c.Encode(nv.Name, nv.Value)
}

// encodeComposite re-encodes a composite result. The request codec from the
// decode phase is reused when present; a composite produced by a per-input
// model falls back to the table codec.
func (d *Dispatcher) encodeComposite(rc codec.RequestCodec, v any) ([]types.Tensor, error) {
	if rc == nil {
		var ok bool
		rc, ok = d.reg.LookupRequest(codec.ContentTypeTable)
		if !ok {
			return nil, codec.ErrCodecNotFound(codec.ContentTypeTable, "request")
		}
	}
	return rc.EncodeResponse(v)
}

// defaultCodecFor selects an output codec from a native value's type when
// model metadata declares none.
func defaultCodecFor(v any) codec.Codec {
	switch v.(type) {
	case string, []string:
		return codec.TextCodec{}
	case [][]byte:
		return codec.Base64Codec{}
	default:
		return codec.ArrayCodec{}
	}
}
