package server

import (
	"encoding/json"
	"net/http"
)

// RespondWithError sends a JSON error response.
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, apiError{Error: message})
}

// RespondWithJSON sends a JSON response with the given status code and payload.
// If the payload is nil, no body is sent.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		// Headers are gone by now; nothing useful to do with an encode error.
		_ = json.NewEncoder(w).Encode(payload)
	}
}
