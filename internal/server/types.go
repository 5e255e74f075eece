// internal/server/types.go
package server

// apiError is the JSON error body for /api endpoints. Retryable tells the
// browser to offer a retry rather than give up.
type apiError struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable"`
}
