package types

// InferenceRequest is one inference call: an ordered list of input tensors,
// an optional id, and optional request-level parameters. A request-level
// content type selects whole-request decoding.
type InferenceRequest struct {
	ID         string     `json:"id,omitempty"`
	Parameters Parameters `json:"parameters,omitempty"`
	Inputs     []Tensor   `json:"inputs"`
}

// InferenceResponse carries the re-encoded model outputs back to the
// transport layer. The id mirrors the request id.
type InferenceResponse struct {
	ModelName    string     `json:"model_name"`
	ModelVersion string     `json:"model_version,omitempty"`
	ID           string     `json:"id,omitempty"`
	Parameters   Parameters `json:"parameters,omitempty"`
	Outputs      []Tensor   `json:"outputs"`
}
