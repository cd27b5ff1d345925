// Package dispatch routes decoded inference requests to model predict
// functions and re-encodes their results. It is structured by concern:
//
//   - dispatcher.go: Dispatcher, decode-mode selection, output re-encoding.
//   - types.go: Mode, Input/Output shapes, the Predictor contract, Model.
//   - echo.go: identity predictor used for gateway smoke tests.
//   - metrics.go: prometheus instrumentation for the dispatch path.
//
// The dispatcher holds no per-call state beyond the request object: every
// call decodes, predicts, and encodes independently, so concurrent calls to
// the same or different models need no coordination here.
package dispatch
