// Package apierror provides the standardized error envelope for the API.
// All 4xx/5xx responses go through this package so that internal details
// (stack traces, DB errors) never reach clients.
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Error string `json:"error"`
}

func New(msg string) *APIError {
	return &APIError{Error: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Error: "Error de validacion", Fields: fields}
}

// Message is the envelope for confirmation responses (soft deletes,
// reactivations) that return 200 with a human-readable message.
type Message struct {
	Msg string `json:"msg"`
}

func NewMessage(msg string) *Message {
	return &Message{Msg: msg}
}
