package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// APIError is a non-2xx response from the backend. Fields carries the
// backend's per-field validation messages when the body was a JSON object.
type APIError struct {
	Status int
	Fields map[string]any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend responded %d", e.Status)
}

// Field returns the backend's message for a named field, if any. Django-style
// bodies report validation errors as {"field": ["message", ...]}.
func (e *APIError) Field(name string) string {
	v, ok := e.Fields[name]
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case []any:
		if len(t) > 0 {
			if s, ok := t[0].(string); ok {
				return s
			}
		}
	}
	return ""
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status}
	var fields map[string]any
	if json.Unmarshal(body, &fields) == nil {
		e.Fields = fields
	}
	return e
}

// IsValidation reports whether err is a backend validation rejection (400).
func IsValidation(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest
}

// IsUnauthorized reports whether err is an auth failure (401). Call sites
// treat this as terminal for the session: token cleared, login redirect.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404, which the invitation and password
// reset flows use for expired tokens.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// classifyTransportError categorizes a transport-level client error for
// logging and metrics.
func classifyTransportError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	var netErr *net.OpError
	if errors.As(err, &netErr) {
		if netErr.Op == "dial" {
			return "connection_refused"
		}
		return "network"
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "dns"
	}
	return "other"
}
