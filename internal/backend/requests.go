package backend

import (
	"context"
	"fmt"
	"time"
)

// AccessRequestInput is the payload for the public request-access form.
type AccessRequestInput struct {
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Organization string `json:"organization,omitempty"`
	Reason       string `json:"reason"`
}

// CreateAccessRequest submits a request for platform access. No session
// required.
func (c *Client) CreateAccessRequest(ctx context.Context, in AccessRequestInput) (AccessRequest, error) {
	var out AccessRequest
	start := time.Now()
	rr, err := c.req(ctx, "").
		SetBody(in).
		SetResult(&out).
		Post(pathRequests)
	if err := c.finish("create_request", start, rr, err); err != nil {
		return AccessRequest{}, err
	}
	return out, nil
}

// PendingRequests lists the access requests awaiting an admin decision.
func (c *Client) PendingRequests(ctx context.Context, token string) ([]AccessRequest, error) {
	return getList[AccessRequest](ctx, c, token, "pending_requests", pathPendingRequests, nil)
}

// ResolveRequest approves or rejects an access request.
func (c *Client) ResolveRequest(ctx context.Context, token string, id int, approved bool) error {
	start := time.Now()
	rr, err := c.req(ctx, token).
		SetBody(map[string]bool{"approved": approved}).
		Patch(fmt.Sprintf("%s%d/", pathRequests, id))
	return c.finish("resolve_request", start, rr, err)
}
