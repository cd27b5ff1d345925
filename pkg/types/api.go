package types

// ModelsResponse wraps the list of models returned by GET /v2/models.
type ModelsResponse struct {
	// List of loaded model descriptions.
	Models []*ModelMetadata `json:"models"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: codec not found for content type "unknown" (input "x")
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
