package backend

import (
	"context"
	"fmt"
	"time"
)

// Credentials is the login payload. The backend authenticates by email,
// passed in the username field.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Token exchanges credentials for a bearer token.
func (c *Client) Token(ctx context.Context, creds Credentials) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	start := time.Now()
	rr, err := c.req(ctx, "").
		SetBody(creds).
		SetResult(&out).
		Post(pathToken)
	if err := c.finish("token", start, rr, err); err != nil {
		return "", err
	}
	return out.Token, nil
}

// GetByToken resolves the current user from a stored token. A failure means
// the token is invalid and must be discarded.
func (c *Client) GetByToken(ctx context.Context, token string) (User, error) {
	var out User
	start := time.Now()
	rr, err := c.req(ctx, token).
		SetResult(&out).
		Get(pathGetByToken)
	if err := c.finish("get_by_token", start, rr, err); err != nil {
		return User{}, err
	}
	return out, nil
}

// ListUsers fetches the active users for the admin console.
func (c *Client) ListUsers(ctx context.Context, token string) ([]User, error) {
	return getList[User](ctx, c, token, "list_users", pathUsers, nil)
}

// UpdateUserRole changes a user's role.
func (c *Client) UpdateUserRole(ctx context.Context, token string, userID int, role string) error {
	start := time.Now()
	rr, err := c.req(ctx, token).
		SetBody(map[string]string{"role": role}).
		Patch(fmt.Sprintf("%s%d/update_user_role/", pathUsers, userID))
	return c.finish("update_user_role", start, rr, err)
}

// ChangeUserStatus enables or disables a user account.
func (c *Client) ChangeUserStatus(ctx context.Context, token string, userID int, active bool) error {
	start := time.Now()
	rr, err := c.req(ctx, token).
		SetBody(map[string]bool{"is_active": active}).
		Patch(fmt.Sprintf("%s%d/change_status/", pathUsers, userID))
	return c.finish("change_status", start, rr, err)
}

// ProfileUpdate holds the editable profile fields.
type ProfileUpdate struct {
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	Organization string `json:"organization,omitempty"`
	Proficiency  string `json:"proficiency,omitempty"`
	DateOfBirth  string `json:"date_of_birth,omitempty"`
}

// UpdateProfile edits the current user's profile.
func (c *Client) UpdateProfile(ctx context.Context, token string, userID int, in ProfileUpdate) (User, error) {
	var out User
	start := time.Now()
	rr, err := c.req(ctx, token).
		SetBody(in).
		SetResult(&out).
		Patch(fmt.Sprintf("%s%d/update_user_profile/", pathUsers, userID))
	if err := c.finish("update_user_profile", start, rr, err); err != nil {
		return User{}, err
	}
	return out, nil
}

// UpdatePassword changes the current user's password.
func (c *Client) UpdatePassword(ctx context.Context, token string, userID int, oldPassword, newPassword string) error {
	start := time.Now()
	rr, err := c.req(ctx, token).
		SetBody(map[string]string{"old_password": oldPassword, "new_password": newPassword}).
		Patch(fmt.Sprintf("%s%d/update_password/", pathUsers, userID))
	return c.finish("update_password", start, rr, err)
}

// UpdatePasswordWithToken completes a password recovery using a reset token
// instead of a session.
func (c *Client) UpdatePasswordWithToken(ctx context.Context, resetToken, newPassword string) error {
	start := time.Now()
	rr, err := c.req(ctx, "").
		SetBody(map[string]string{"token": resetToken, "new_password": newPassword}).
		Post(pathUsers + "update_password_token/")
	return c.finish("update_password_token", start, rr, err)
}

// Registration is the payload for account creation via invitation.
type Registration struct {
	Token       string `json:"token"`
	Password    string `json:"password"`
	Proficiency string `json:"proficiency,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
}

// CreateByInvitation creates an account from an invitation token.
func (c *Client) CreateByInvitation(ctx context.Context, in Registration) (User, error) {
	var out User
	start := time.Now()
	rr, err := c.req(ctx, "").
		SetBody(in).
		SetResult(&out).
		Post(pathUsers + "create_by_invitation/")
	if err := c.finish("create_by_invitation", start, rr, err); err != nil {
		return User{}, err
	}
	return out, nil
}

// DeleteUser removes a user account.
func (c *Client) DeleteUser(ctx context.Context, token string, userID int) error {
	start := time.Now()
	rr, err := c.req(ctx, token).
		Delete(fmt.Sprintf("%s%d/", pathUsers, userID))
	return c.finish("delete_user", start, rr, err)
}
