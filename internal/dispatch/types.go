package dispatch

import (
	"context"

	"inferd/pkg/types"
)

// Mode selects how request inputs were decoded before prediction.
type Mode int

const (
	// PerInput decodes every input independently through its own codec.
	PerInput Mode = iota
	// RequestWide aggregates all inputs into one composite native value
	// through a request codec.
	RequestWide
)

// NamedValue pairs an input or output name with its native value.
type NamedValue struct {
	Name  string
	Value any
}

// Input carries the decoded request handed to a Predictor. In PerInput mode
// Values holds one entry per request input, in request order; in RequestWide
// mode Request holds the composite value (e.g. *codec.Table) and Values is nil.
type Input struct {
	Mode    Mode
	ID      string
	Values  []NamedValue
	Request any
}

// Output is what a Predictor returns. Set Values for named native outputs
// (each re-encoded through the output resolution path), or Request for a
// composite value re-encoded through the request codec.
type Output struct {
	Values  []NamedValue
	Request any
}

// Predictor is the model-specific compute step. It may block and must honor
// ctx cancellation; the dispatcher propagates the caller's context untouched
// and owns no timers of its own.
type Predictor interface {
	Predict(ctx context.Context, in *Input) (*Output, error)
}

// Model binds immutable metadata to a predict entry point. Metadata is
// loaded once and read concurrently by all in-flight requests.
type Model struct {
	Meta      *types.ModelMetadata
	Predictor Predictor
}
