// Package gateway ties the model registry and the dispatcher together into
// the serving surface consumed by the transport layer. It owns no per-call
// state: the registry and metadata are read-only during steady-state serving
// and every inference call is handled independently.
package gateway

import (
	"context"

	"inferd/internal/dispatch"
	"inferd/internal/registry"
	"inferd/pkg/types"
)

// Gateway exposes the loaded models over a transport-agnostic interface.
type Gateway struct {
	reg  *registry.Registry
	disp *dispatch.Dispatcher
}

// New constructs a gateway. A nil dispatcher means one over the process-wide
// codec registry.
func New(reg *registry.Registry, disp *dispatch.Dispatcher) *Gateway {
	if disp == nil {
		disp = dispatch.New(nil)
	}
	return &Gateway{reg: reg, disp: disp}
}

// ListModels returns metadata for every loaded model.
func (g *Gateway) ListModels() []*types.ModelMetadata { return g.reg.List() }

// Metadata returns the named model's metadata.
func (g *Gateway) Metadata(name string) (*types.ModelMetadata, bool) {
	m, ok := g.reg.Get(name)
	if !ok {
		return nil, false
	}
	return m.Meta, true
}

// Infer runs one inference call against the named model. Cancellation and
// timeout signals on ctx propagate through to the model's predict step;
// timeout enforcement itself belongs to the transport layer.
func (g *Gateway) Infer(ctx context.Context, name string, req *types.InferenceRequest) (*types.InferenceResponse, error) {
	m, ok := g.reg.Get(name)
	if !ok {
		return nil, registry.ErrModelNotFound(name)
	}
	return g.disp.Dispatch(ctx, req, m)
}

// Ready reports whether at least one model is loaded.
func (g *Gateway) Ready() bool { return g.reg.Len() > 0 }
