// Package admin implements the management console operations: reviewing
// suggestions, granting and revoking access, and steering invitations.
package admin

import (
	"context"
	"log/slog"

	"github.com/hugozeballos/lenga/internal/backend"
	"github.com/hugozeballos/lenga/internal/pagination"
)

// suggestionPageSize mirrors the backend's listing page length.
const suggestionPageSize = 10

type consoleAPI interface {
	ListSuggestions(ctx context.Context, token string, f backend.SuggestionFilter) (backend.Page[backend.Suggestion], error)
	UpdateSuggestion(ctx context.Context, token string, id int, srcText, dstText string) error
	AcceptSuggestion(ctx context.Context, token string, id int, srcText, updatedSuggestion string) error
	RejectSuggestion(ctx context.Context, token string, id int) error

	ListUsers(ctx context.Context, token string) ([]backend.User, error)
	UpdateUserRole(ctx context.Context, token string, userID int, role string) error
	ChangeUserStatus(ctx context.Context, token string, userID int, active bool) error
	DeleteUser(ctx context.Context, token string, userID int) error

	ListInvitations(ctx context.Context, token string) ([]backend.Invitation, error)
	SendInvitation(ctx context.Context, token string, in backend.InvitationInput) (backend.Invitation, error)
	ResendInvitation(ctx context.Context, token string, id int) error
	UpdateInvitationRole(ctx context.Context, token string, id int, role string) error
	DeleteInvitation(ctx context.Context, token string, id int) error

	PendingRequests(ctx context.Context, token string) ([]backend.AccessRequest, error)
	ResolveRequest(ctx context.Context, token string, id int, approved bool) error
}

// Console exposes the management operations over the backend client.
type Console struct {
	api consoleAPI
}

// NewConsole builds a Console.
func NewConsole(api consoleAPI) *Console {
	return &Console{api: api}
}

// SuggestionPage is one listing page with its navigation window.
type SuggestionPage struct {
	Items  []backend.Suggestion `json:"items"`
	Window pagination.Window    `json:"window"`
}

// Suggestions fetches one page of the review queue.
func (c *Console) Suggestions(ctx context.Context, token string, f backend.SuggestionFilter) (SuggestionPage, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	page, err := c.api.ListSuggestions(ctx, token, f)
	if err != nil {
		return SuggestionPage{}, err
	}
	return SuggestionPage{
		Items:  page.Results,
		Window: pagination.Derive(f.Page, page.Count, suggestionPageSize, page.Next, page.Previous),
	}, nil
}

// EditSuggestion saves an admin's correction. An already-validated entry is
// edited in place; a pending one is validated with the corrected text.
func (c *Console) EditSuggestion(ctx context.Context, token string, s backend.Suggestion, srcText, dstText string) error {
	if s.Validated {
		return c.api.UpdateSuggestion(ctx, token, s.ID, srcText, dstText)
	}
	return c.api.AcceptSuggestion(ctx, token, s.ID, srcText, dstText)
}

// ValidateSuggestion accepts a pending suggestion as-is.
func (c *Console) ValidateSuggestion(ctx context.Context, token string, s backend.Suggestion) error {
	return c.api.AcceptSuggestion(ctx, token, s.ID, s.SrcText, s.Suggestion)
}

// DiscardSuggestion rejects a pending suggestion.
func (c *Console) DiscardSuggestion(ctx context.Context, token string, id int) error {
	return c.api.RejectSuggestion(ctx, token, id)
}

// Users lists the platform's accounts.
func (c *Console) Users(ctx context.Context, token string) ([]backend.User, error) {
	return c.api.ListUsers(ctx, token)
}

// SetUserRole changes an account's role.
func (c *Console) SetUserRole(ctx context.Context, token string, userID int, role string) error {
	return c.api.UpdateUserRole(ctx, token, userID, role)
}

// SetUserActive enables or disables an account.
func (c *Console) SetUserActive(ctx context.Context, token string, userID int, active bool) error {
	return c.api.ChangeUserStatus(ctx, token, userID, active)
}

// RemoveUser deletes an account.
func (c *Console) RemoveUser(ctx context.Context, token string, userID int) error {
	return c.api.DeleteUser(ctx, token, userID)
}

// Invitations lists outstanding invitations.
func (c *Console) Invitations(ctx context.Context, token string) ([]backend.Invitation, error) {
	return c.api.ListInvitations(ctx, token)
}

// Invite sends a fresh invitation.
func (c *Console) Invite(ctx context.Context, token string, in backend.InvitationInput) (backend.Invitation, error) {
	return c.api.SendInvitation(ctx, token, in)
}

// Resend re-delivers an invitation email.
func (c *Console) Resend(ctx context.Context, token string, id int) error {
	return c.api.ResendInvitation(ctx, token, id)
}

// SetInvitationRole changes the role an invitation will grant.
func (c *Console) SetInvitationRole(ctx context.Context, token string, id int, role string) error {
	return c.api.UpdateInvitationRole(ctx, token, id, role)
}

// Revoke withdraws an invitation.
func (c *Console) Revoke(ctx context.Context, token string, id int) error {
	return c.api.DeleteInvitation(ctx, token, id)
}

// Requests lists pending access requests.
func (c *Console) Requests(ctx context.Context, token string) ([]backend.AccessRequest, error) {
	return c.api.PendingRequests(ctx, token)
}

// AcceptRequest approves an access request and sends the invitation that
// lets the requester register. The invitation carries the request's details
// under the role the admin granted.
func (c *Console) AcceptRequest(ctx context.Context, token string, req backend.AccessRequest, role string) (backend.Invitation, error) {
	if role == "" {
		role = req.Role
	}
	if role == "" {
		role = backend.RoleUser
	}
	if err := c.api.ResolveRequest(ctx, token, req.ID, true); err != nil {
		return backend.Invitation{}, err
	}
	inv, err := c.api.SendInvitation(ctx, token, backend.InvitationInput{
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Organization: req.Organization,
		Role:         role,
	})
	if err != nil {
		// The request is already resolved; the invitation can be re-sent
		// from the invitations tab.
		slog.Error("invitation after approval failed", "request_id", req.ID, "error", err)
		return backend.Invitation{}, err
	}
	return inv, nil
}

// RejectRequest declines an access request.
func (c *Console) RejectRequest(ctx context.Context, token string, id int) error {
	return c.api.ResolveRequest(ctx, token, id, false)
}
