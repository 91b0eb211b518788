package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/hugozeballos/lenga/internal/backend"
)

// maxBodySize is the maximum allowed request body size (1 MB).
const maxBodySize = 1 << 20

// errorEnvelope is the standard error response shape.
type errorEnvelope struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes a JSON error response with the given status code.
func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorEnvelope{
		Error: errorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// writeJSON writes a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// readJSON decodes the request body into v, enforcing a size limit.
func readJSON(r *http.Request, v interface{}) error {
	lr := io.LimitReader(r.Body, maxBodySize)
	return json.NewDecoder(lr).Decode(v)
}

// fieldErrorEnvelope extends the error envelope with the backend's per-field
// validation messages, so forms can annotate the offending inputs.
type fieldErrorEnvelope struct {
	Error  errorDetail    `json:"error"`
	Fields map[string]any `json:"fields,omitempty"`
}

// writeValidationError writes a 422 with per-field messages.
func writeValidationError(w http.ResponseWriter, fields map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	_ = json.NewEncoder(w).Encode(fieldErrorEnvelope{
		Error:  errorDetail{Code: "validation_error", Message: "some fields are invalid"},
		Fields: fields,
	})
}

// writeBackendError translates a backend client failure into the gateway's
// error shape. Authentication failures also clear the session; callers that
// hold the token cookie go through handlers.unauthorized instead.
func writeBackendError(w http.ResponseWriter, err error) {
	var apiErr *backend.APIError
	if !errors.As(err, &apiErr) {
		writeError(w, http.StatusBadGateway, "upstream_unavailable", "the translation platform could not be reached")
		return
	}
	switch {
	case backend.IsValidation(err):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(fieldErrorEnvelope{
			Error:  errorDetail{Code: "validation_error", Message: "the platform rejected the submitted values"},
			Fields: apiErr.Fields,
		})
	case backend.IsNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", "no such resource, or the link has expired")
	default:
		writeError(w, apiErr.Status, "backend_error", "the translation platform rejected the request")
	}
}
