package dispatch

import "context"

// Echo is a Predictor returning every decoded input unchanged as an output.
// It exercises the full decode/encode path and backs gateway smoke tests and
// the demo models loaded by cmd/inferd.
type Echo struct{}

func (Echo) Predict(_ context.Context, in *Input) (*Output, error) {
	if in.Mode == RequestWide {
		return &Output{Request: in.Request}, nil
	}
	return &Output{Values: in.Values}, nil
}
