package backend

import (
	"context"
	"time"
)

// RecoverPassword starts a password recovery: the backend emails a reset
// link for the address. No session required.
func (c *Client) RecoverPassword(ctx context.Context, email string) error {
	start := time.Now()
	rr, err := c.req(ctx, "").
		SetBody(map[string]string{"email": email}).
		Post(pathPasswordReset + "recover_password/")
	return c.finish("recover_password", start, rr, err)
}

// CheckResetToken validates a password-reset token. Expired or unknown
// tokens come back as 404.
func (c *Client) CheckResetToken(ctx context.Context, resetToken string) error {
	start := time.Now()
	rr, err := c.req(ctx, "").
		SetQueryParam("token", resetToken).
		Get(pathPasswordReset + "check_reset_token/")
	return c.finish("check_reset_token", start, rr, err)
}
