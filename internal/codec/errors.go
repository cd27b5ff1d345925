package codec

import (
	"fmt"

	"inferd/pkg/types"
)

// codecNotFoundError signals a resolved content type with no registered codec.
type codecNotFoundError struct{ contentType, input string }

func (e codecNotFoundError) Error() string {
	return fmt.Sprintf("no codec registered for content type %q (input %q)", e.contentType, e.input)
}

// ErrCodecNotFound constructs a codecNotFoundError naming the offending input.
func ErrCodecNotFound(contentType, input string) error {
	return codecNotFoundError{contentType: contentType, input: input}
}

// IsCodecNotFound reports whether err indicates an unregistered content type.
func IsCodecNotFound(err error) bool {
	_, ok := err.(codecNotFoundError)
	return ok
}

// unsupportedDatatypeError signals a codec asked to handle a wire datatype
// outside its declared compatibility set.
type unsupportedDatatypeError struct {
	contentType string
	datatype    types.Datatype
	input       string
}

func (e unsupportedDatatypeError) Error() string {
	return fmt.Sprintf("codec %q does not support datatype %s (input %q)", e.contentType, e.datatype, e.input)
}

// ErrUnsupportedDatatype constructs an unsupportedDatatypeError.
func ErrUnsupportedDatatype(contentType string, dt types.Datatype, input string) error {
	return unsupportedDatatypeError{contentType: contentType, datatype: dt, input: input}
}

// IsUnsupportedDatatype reports whether err indicates a datatype/codec mismatch.
func IsUnsupportedDatatype(err error) bool {
	_, ok := err.(unsupportedDatatypeError)
	return ok
}

// shapeMismatchError signals a data payload whose flattened length disagrees
// with the element count implied by the declared shape.
type shapeMismatchError struct {
	input string
	want  int64
	got   int
}

func (e shapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch on input %q: shape implies %d elements, data has %d", e.input, e.want, e.got)
}

// ErrShapeMismatch constructs a shapeMismatchError.
func ErrShapeMismatch(input string, want int64, got int) error {
	return shapeMismatchError{input: input, want: want, got: got}
}

// IsShapeMismatch reports whether err indicates a shape/data length disagreement.
func IsShapeMismatch(err error) bool {
	_, ok := err.(shapeMismatchError)
	return ok
}

// malformedPayloadError signals data that is present but not interpretable
// under the target native representation.
type malformedPayloadError struct{ input, reason string }

func (e malformedPayloadError) Error() string {
	return fmt.Sprintf("malformed payload on input %q: %s", e.input, e.reason)
}

// ErrMalformedPayload constructs a malformedPayloadError.
func ErrMalformedPayload(input, reason string) error {
	return malformedPayloadError{input: input, reason: reason}
}

// IsMalformedPayload reports whether err indicates uninterpretable payload data.
func IsMalformedPayload(err error) bool {
	_, ok := err.(malformedPayloadError)
	return ok
}

// modelExecutionError wraps an opaque failure from the external predict step.
type modelExecutionError struct {
	model string
	err   error
}

func (e modelExecutionError) Error() string {
	return fmt.Sprintf("model %q execution failed: %v", e.model, e.err)
}

func (e modelExecutionError) Unwrap() error { return e.err }

// ErrModelExecution wraps a predict failure, passed through unchanged.
func ErrModelExecution(model string, err error) error {
	return modelExecutionError{model: model, err: err}
}

// IsModelExecution reports whether err originated in the model's predict step.
func IsModelExecution(err error) bool {
	_, ok := err.(modelExecutionError)
	return ok
}

// ErrorKind returns a stable label for the error taxonomy, used as a metrics
// label and in logs. Unknown errors map to "internal".
func ErrorKind(err error) string {
	switch {
	case IsCodecNotFound(err):
		return "codec_not_found"
	case IsUnsupportedDatatype(err):
		return "unsupported_datatype"
	case IsShapeMismatch(err):
		return "shape_mismatch"
	case IsMalformedPayload(err):
		return "malformed_payload"
	case IsModelExecution(err):
		return "model_execution"
	default:
		return "internal"
	}
}
