// Package httputil centralizes JSON response encoding so handlers stay thin.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "docport/pkg/domain-errors"
	httpErrors "docport/pkg/http-errors"
)

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Decode parses the request body into T, writing the error response itself
// on malformed input. The second return is false when the caller should stop.
func Decode[T any](w http.ResponseWriter, r *http.Request) (*T, bool) {
	req := new(T)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "malformed request body"))
		return nil, false
	}
	return req, true
}

// WriteError translates a domain error into the standard JSON error envelope.
func WriteError(w http.ResponseWriter, err error) {
	WriteJSON(w, httpErrors.StatusFor(err), map[string]string{
		"error":             httpErrors.CodeFor(err),
		"error_description": err.Error(),
	})
}
