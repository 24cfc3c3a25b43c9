package httpapi

import (
	"encoding/json"
	"net/http"

	"leadfunnel/internal/funnel"
	"leadfunnel/pkg/types"
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

// writeFieldError writes a field-scoped validation payload.
func writeFieldError(w http.ResponseWriter, status int, field, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Field: field, Code: status})
}

// writeFunnelError maps well-known funnel errors to HTTP status codes.
// Validation failures are field-scoped and user-correctable; remote-call
// failures surface the server-supplied message when one was given.
func writeFunnelError(w http.ResponseWriter, err error) {
	if v, ok := funnel.IsValidation(err); ok {
		writeFieldError(w, http.StatusUnprocessableEntity, v.Field, v.Message)
		return
	}
	if funnel.IsSessionNotFound(err) {
		writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}
	if funnel.IsStepMismatch(err) {
		writeJSONError(w, http.StatusConflict, err.Error())
		return
	}
	if funnel.IsRemoteCall(err) {
		writeJSONError(w, http.StatusBadGateway, err.Error())
		return
	}
	if he, ok := err.(HTTPError); ok {
		writeJSONError(w, he.StatusCode(), he.Error())
		return
	}
	writeJSONError(w, http.StatusInternalServerError, err.Error())
}
