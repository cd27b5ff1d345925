package httpapi

import (
	"encoding/json"
	"net/http"

	"inferd/internal/codec"
	"inferd/internal/registry"
	"inferd/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

// statusForError maps the core error taxonomy to HTTP status codes. Codec
// errors are client errors: the payload, not the server, is at fault.
func statusForError(err error) int {
	switch {
	case registry.IsModelNotFound(err):
		return http.StatusNotFound
	case codec.IsCodecNotFound(err),
		codec.IsUnsupportedDatatype(err),
		codec.IsShapeMismatch(err),
		codec.IsMalformedPayload(err):
		return http.StatusBadRequest
	case codec.IsModelExecution(err):
		return http.StatusInternalServerError
	}
	if he, ok := err.(HTTPError); ok {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}
