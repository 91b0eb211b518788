package backend

import (
	"context"
	"fmt"
	"time"
)

// InvitationInput is the payload for sending an invitation.
type InvitationInput struct {
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Organization string `json:"organization,omitempty"`
	Role         string `json:"role"`
}

// ListInvitations fetches the active invitations.
func (c *Client) ListInvitations(ctx context.Context, token string) ([]Invitation, error) {
	return getList[Invitation](ctx, c, token, "list_invitations", pathInvitations, nil)
}

// SendInvitation emails a new invitation.
func (c *Client) SendInvitation(ctx context.Context, token string, in InvitationInput) (Invitation, error) {
	var out Invitation
	start := time.Now()
	rr, err := c.req(ctx, token).
		SetBody(in).
		SetResult(&out).
		Post(pathSendInvitation)
	if err := c.finish("send_invitation", start, rr, err); err != nil {
		return Invitation{}, err
	}
	return out, nil
}

// ResendInvitation re-emails an existing invitation. The list is unchanged.
func (c *Client) ResendInvitation(ctx context.Context, token string, id int) error {
	start := time.Now()
	rr, err := c.req(ctx, token).
		Post(fmt.Sprintf("%s%d/resend_invitation/", pathInvitations, id))
	return c.finish("resend_invitation", start, rr, err)
}

// UpdateInvitationRole changes the role an invitation will grant.
func (c *Client) UpdateInvitationRole(ctx context.Context, token string, id int, role string) error {
	start := time.Now()
	rr, err := c.req(ctx, token).
		SetBody(map[string]string{"role": role}).
		Patch(fmt.Sprintf("%s%d/", pathInvitations, id))
	return c.finish("update_invitation", start, rr, err)
}

// DeleteInvitation revokes an invitation.
func (c *Client) DeleteInvitation(ctx context.Context, token string, id int) error {
	start := time.Now()
	rr, err := c.req(ctx, token).
		Delete(fmt.Sprintf("%s%d/", pathInvitations, id))
	return c.finish("delete_invitation", start, rr, err)
}

// CheckInvitationToken validates an invitation token and returns the
// invitation it belongs to. Expired or unknown tokens come back as 404.
func (c *Client) CheckInvitationToken(ctx context.Context, invitationToken string) (Invitation, error) {
	var out Invitation
	start := time.Now()
	rr, err := c.req(ctx, "").
		SetQueryParam("token", invitationToken).
		SetResult(&out).
		Get(pathInvitations + "check_invitation_token/")
	if err := c.finish("check_invitation_token", start, rr, err); err != nil {
		return Invitation{}, err
	}
	return out, nil
}
