// Package apierror provides the error envelopes returned by the API. Handlers
// never serialize raw errors; internal details stay in the logs.
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
// Codigo is a stable machine-readable key for domain errors.
type APIError struct {
	Detail string `json:"detail"`
	Codigo string `json:"codigo,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

func NewCodigo(codigo, msg string) *APIError {
	return &APIError{Detail: msg, Codigo: codigo}
}

// ValidationError wraps field-level binding errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
