// Package backend is the typed client for the translation platform's REST
// API. Every outbound call attaches the bearer token when one is present,
// negotiates the content type (JSON unless the payload is multipart), logs
// the response status, and classifies failures by HTTP status. There is no
// request queuing and no retry: one failed call is one reported failure.
package backend

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

// API paths, relative to the configured base URL.
const (
	pathTranslate       = "api/translate/"
	pathTranscribe      = "api/asr/transcribe/"
	pathLanguages       = "api/languages/"
	pathUsers           = "api/users/"
	pathToken           = "api/users/token/"
	pathGetByToken      = "api/users/get_by_token"
	pathInvitations     = "api/invitations/"
	pathSendInvitation  = "api/invitations/send_invitation/"
	pathRequests        = "api/requests/"
	pathPendingRequests = "api/requests/get_pending_requests/"
	pathSuggestions     = "api/suggestions/"
	pathPasswordReset   = "api/password_reset/"
)

// Observer receives backend call outcomes for metrics. All methods must be
// safe for concurrent use.
type Observer interface {
	ObserveBackendCall(op string, status int, seconds float64)
	IncBackendError(op, kind string)
}

// Client calls the translation platform API.
type Client struct {
	http    *resty.Client
	metrics Observer
}

// New creates a Client for the given base URL. The timeout bounds every
// call; requests are never retried or aborted early beyond it.
func New(baseURL string, timeout time.Duration) *Client {
	h := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Client{http: h}
}

// SetMetrics sets the optional metrics observer.
func (c *Client) SetMetrics(m Observer) {
	c.metrics = m
}

// req builds a request carrying the bearer token when one is present. The
// backend uses the "Token" authorization scheme.
func (c *Client) req(ctx context.Context, token string) *resty.Request {
	r := c.http.R().SetContext(ctx)
	if token != "" {
		r.SetHeader("Authorization", "Token "+token)
	}
	return r
}

// finish logs the call outcome and maps failures: transport errors are
// classified for observability, non-2xx responses become *APIError.
func (c *Client) finish(op string, start time.Time, rr *resty.Response, err error) error {
	elapsed := time.Since(start).Seconds()
	if err != nil {
		kind := classifyTransportError(err)
		slog.Error("backend call failed", "op", op, "kind", kind, "error", err)
		if c.metrics != nil {
			c.metrics.IncBackendError(op, kind)
		}
		return err
	}

	slog.Debug("backend call", "op", op, "status", rr.StatusCode(), "duration_ms", rr.Time().Milliseconds())
	if c.metrics != nil {
		c.metrics.ObserveBackendCall(op, rr.StatusCode(), elapsed)
	}

	if rr.IsError() {
		return newAPIError(rr.StatusCode(), rr.Body())
	}
	return nil
}

// getPage fetches one page of a server-paginated list.
func getPage[T any](ctx context.Context, c *Client, token, op, path string, query map[string]string) (Page[T], error) {
	var page Page[T]
	start := time.Now()
	r := c.req(ctx, token).SetResult(&page)
	if len(query) > 0 {
		r.SetQueryParams(query)
	}
	rr, err := r.Get(path)
	if err := c.finish(op, start, rr, err); err != nil {
		return Page[T]{}, err
	}
	return page, nil
}

// getList fetches an unpaginated list.
func getList[T any](ctx context.Context, c *Client, token, op, path string, query map[string]string) ([]T, error) {
	var out []T
	start := time.Now()
	r := c.req(ctx, token).SetResult(&out)
	if len(query) > 0 {
		r.SetQueryParams(query)
	}
	rr, err := r.Get(path)
	if err := c.finish(op, start, rr, err); err != nil {
		return nil, err
	}
	return out, nil
}
