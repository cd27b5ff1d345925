// Package codec converts between wire tensors and runtime-native values.
// It is structured into small files by concern:
//
//   - codec.go: the Codec and RequestCodec contracts.
//   - registry.go: content-type registry (process-wide default + instances).
//   - resolve.go: content-type resolution precedence for inputs/requests.
//   - errors.go: error taxonomy and helpers (IsCodecNotFound, IsShapeMismatch, ...).
//   - array.go: "np" generic array codec (numeric, bool, raw bytes).
//   - text.go: "str" UTF-8 text codec (BYTES).
//   - base64.go: "base64" binary codec (BYTES).
//   - table.go: "pd" whole-request column-table codec.
//
// Registry mutation is confined to process initialization; lookups and the
// decode/encode paths are pure and safe for unlimited concurrent callers.
package codec
