package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hugozeballos/lenga/internal/admin"
	"github.com/hugozeballos/lenga/internal/backend"
)

// adminHandler exposes the management console: the suggestion review queue,
// accounts, invitations and access requests.
type adminHandler struct {
	console  *admin.Console
	sessions *sessionHandler
}

func newAdminHandler(console *admin.Console, sessions *sessionHandler) *adminHandler {
	return &adminHandler{console: console, sessions: sessions}
}

func (h *adminHandler) token(r *http.Request) string {
	return h.sessions.cookies.Token(r)
}

func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil && id > 0
}

// suggestionFilter reads the review-queue query parameters. Mutation
// handlers reuse it so their delta responses cover the page the browser is
// looking at.
func suggestionFilter(q url.Values) backend.SuggestionFilter {
	filter := backend.SuggestionFilter{
		Lang:      q.Get("lang"),
		Validated: q.Get("validated") == "true",
		Correct:   q.Get("correct") == "true",
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		filter.Page = page
	}
	return filter
}

// Suggestions handles GET /api/admin/suggestions.
func (h *adminHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	page, err := h.console.Suggestions(r.Context(), h.token(r), suggestionFilter(r.URL.Query()))
	if err != nil {
		h.sessions.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// EditSuggestion handles PATCH /api/admin/suggestions/{id}.
func (h *adminHandler) EditSuggestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid suggestion id")
		return
	}
	var req struct {
		SrcText   string `json:"src_text"`
		DstText   string `json:"dst_text"`
		Validated bool   `json:"validated"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if req.SrcText == "" || req.DstText == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "both texts are required")
		return
	}
	page, err := h.console.Suggestions(r.Context(), h.token(r), suggestionFilter(r.URL.Query()))
	if err != nil {
		h.sessions.respondError(w, r, err)
		return
	}
	s := backend.Suggestion{ID: id, Validated: req.Validated}
	if err := h.console.EditSuggestion(r.Context(), h.token(r), s, req.SrcText, req.DstText); err != nil {
		h.sessions.respondError(w, r, err)
		return
	}
	auditLog(r, "edit", "suggestion", strconv.Itoa(id), "validated", req.Validated)
	if req.Validated {
		page.Items = admin.PatchSuggestion(page.Items, id, req.SrcText, req.DstText)
	} else {
		page.Items = admin.MarkSuggestionValidated(page.Items, id, req.SrcText, req.DstText)
	}
	writeJSON(w, http.StatusOK, page)
}

// ValidateSuggestion handles POST /api/admin/suggestions/{id}/validate.
func (h *adminHandler) ValidateSuggestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid suggestion id")
		return
	}
	var req struct {
		SrcText    string `json:"src_text"`
		Suggestion string `json:"suggestion"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	page, err := h.console.Suggestions(r.Context(), h.token(r), suggestionFilter(r.URL.Query()))
	if err != nil {
		h.sessions.respondError(w, r, err)
		return
	}
	s := backend.Suggestion{ID: id, SrcText: req.SrcText, Suggestion: req.Suggestion}
	if err := h.console.ValidateSuggestion(r.Context(), h.token(r), s); err != nil {
		h.sessions.respondError(w, r, err)
		return
	}
	auditLog(r, "validate", "suggestion", strconv.Itoa(id))
	page.Items = admin.MarkSuggestionValidated(page.Items, id, req.SrcText, req.Suggestion)
	writeJSON(w, http.StatusOK, page)
}

// DiscardSuggestion handles DELETE /api/admin/suggestions/{id}.
func (h *adminHandler) DiscardSuggestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid suggestion id")
		return
	}
	page, err := h.console.Suggestions(r.Context(), h.token(r), suggestionFilter(r.URL.Query()))
	if err != nil {
		h.sessions.respondError(w, r, err)
		return
	}
	if err := h.console.DiscardSuggestion(r.Context(), h.token(r), id); err != nil {
		h.sessions.respondError(w, r, err)
		return
	}
	auditLog(r, "discard", "suggestion", strconv.Itoa(id))
	page.Items = admin.RemoveSuggestion(page.Items, id)
	writeJSON(w, http.StatusOK, page)
}

// Users handles GET /api/admin/users.
func (h *adminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.console.Users(r.Context(), h.token(r))
	if err != nil {
		h.sessions.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

// SetUserRole handles PATCH /api/admin/users/{id}/role.
func (h *adminHandler) SetUserRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid user id")
		return
	}
	var req struct {
		Role string `json:"role"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if !validRole(req.Role) {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "unknown role")
		return
	}
	users, err := h.console.Users(r.Context(), h.token(r))
	if err != nil {
		h.sessions.respondError(w, r, err)
		return
	}
	if err := h.console.SetUserRole(r.Context(), h.token(r), id, req.Role); err != nil {
		h.sessions.respondError(w, r, err)
		return
	}
	auditLog(r, "set_role", "user", strconv.Itoa(id), "role", req.Role)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"users": admin.SetUserRole(users, id, req.Role),
	})
}

// SetUserStatus handles PATCH /api/admin/users/{id}/status.
func (h *adminHandler) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid user id")
		return
	}
	var req struct {
		Active bool `json:"active"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	users, err := h.console.Users(r.Context(), h.token(r))
	if err != nil {
		h.sessions.respondError(w, r, err)
		return
	}
	if err := h.console.SetUserActive(r.Context(), h.token(r), id, req.Active); err != nil {
		h.sessions.respondError(w, r, err)
		return
	}
	auditLog(r, "set_status", "user", strconv.Itoa(id), "active", req.Active)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"users": admin.SetUserActive(users, id, req.Active),
	})
}

// DeleteUser handles DELETE /api/admin/users/{id}.
func (h *adminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid user id")
		return
	}
	users, err := h.console.Users(r.Context(), h.token(r))
	if err != nil {
		h.sessions.respondError(w, r, err)
		return
	}
	if err := h.console.RemoveUser(r.Context(), h.token(r), id); err != nil {
		h.sessions.respondError(w, r, err)
		return
	}
	auditLog(r, "delete", "user", strconv.Itoa(id))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"users": admin.RemoveUser(users, id),
	})
}

// Invitations handles GET /api/admin/invitations.
func (h *adminHandler) Invitations(w http.ResponseWriter, r *http.Request) {
	invitations, err := h.console.Invitations(r.Context(), h.token(r))
	if err != nil {
		h.sessions.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"invitations": invitations})
}

// SendInvitation handles POST /api/admin/invitations.
func (h *adminHandler) SendInvitation(w http.ResponseWriter, r *http.Request) {
	var req invitationPayload
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if !checkPayload(w, req) {
		return
	}
	invitations, err := h.console.Invitations(r.Context(), h.token(r))
	if err != nil {
		h.sessions.respondError(w, r, err)
		return
	}
	inv, err := h.console.Invite(r.Context(), h.token(r), backend.InvitationInput{
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Organization: req.Organization,
		Role:         req.Role,
	})
	if err != nil {
		h.sessions.respondError(w, r, err)
		return
	}
	auditLog(r, "invite", "invitation", strconv.Itoa(inv.ID), "email", inv.Email)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"invitation":  inv,
		"invitations": admin.AddInvitation(invitations, inv),
	})
}

// ResendInvitation handles POST /api/admin/invitations/{id}/resend.
func (h *adminHandler) ResendInvitation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid invitation id")
		return
	}
	if err := h.console.Resend(r.Context(), h.token(r), id); err != nil {
		h.sessions.respondError(w, r, err)
		return
	}
	auditLog(r, "resend", "invitation", strconv.Itoa(id))
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// SetInvitationRole handles PATCH /api/admin/invitations/{id}/role.
func (h *adminHandler) SetInvitationRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid invitation id")
		return
	}
	var req struct {
		Role string `json:"role"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if !validRole(req.Role) {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "unknown role")
		return
	}
	invitations, err := h.console.Invitations(r.Context(), h.token(r))
	if err != nil {
		h.sessions.respondError(w, r, err)
		return
	}
	if err := h.console.SetInvitationRole(r.Context(), h.token(r), id, req.Role); err != nil {
		h.sessions.respondError(w, r, err)
		return
	}
	auditLog(r, "set_role", "invitation", strconv.Itoa(id), "role", req.Role)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"invitations": admin.SetInvitationRole(invitations, id, req.Role),
	})
}

// RevokeInvitation handles DELETE /api/admin/invitations/{id}.
func (h *adminHandler) RevokeInvitation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid invitation id")
		return
	}
	invitations, err := h.console.Invitations(r.Context(), h.token(r))
	if err != nil {
		h.sessions.respondError(w, r, err)
		return
	}
	if err := h.console.Revoke(r.Context(), h.token(r), id); err != nil {
		h.sessions.respondError(w, r, err)
		return
	}
	auditLog(r, "revoke", "invitation", strconv.Itoa(id))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"invitations": admin.RemoveInvitation(invitations, id),
	})
}

// Requests handles GET /api/admin/requests.
func (h *adminHandler) Requests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.console.Requests(r.Context(), h.token(r))
	if err != nil {
		h.sessions.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"requests": requests})
}

// AcceptRequest handles POST /api/admin/requests/{id}/accept.
func (h *adminHandler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid request id")
		return
	}
	var req struct {
		Role string `json:"role"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if req.Role != "" && !validRole(req.Role) {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "unknown role")
		return
	}

	// The approval needs the request's details to build the invitation.
	pending, err := h.console.Requests(r.Context(), h.token(r))
	if err != nil {
		h.sessions.respondError(w, r, err)
		return
	}
	var target *backend.AccessRequest
	for i := range pending {
		if pending[i].ID == id {
			target = &pending[i]
			break
		}
	}
	if target == nil {
		writeError(w, http.StatusNotFound, "not_found", "no such pending request")
		return
	}

	inv, err := h.console.AcceptRequest(r.Context(), h.token(r), *target, req.Role)
	if err != nil {
		h.sessions.respondError(w, r, err)
		return
	}
	auditLog(r, "accept", "access_request", strconv.Itoa(id), "email", target.Email)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"invitation": inv,
		"requests":   admin.RemoveRequest(pending, id),
	})
}

// RejectRequest handles POST /api/admin/requests/{id}/reject.
func (h *adminHandler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid request id")
		return
	}
	pending, err := h.console.Requests(r.Context(), h.token(r))
	if err != nil {
		h.sessions.respondError(w, r, err)
		return
	}
	if err := h.console.RejectRequest(r.Context(), h.token(r), id); err != nil {
		h.sessions.respondError(w, r, err)
		return
	}
	auditLog(r, "reject", "access_request", strconv.Itoa(id))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"requests": admin.RemoveRequest(pending, id),
	})
}

func validRole(role string) bool {
	switch role {
	case backend.RoleUser, backend.RoleAdmin, backend.RoleNativeAdmin:
		return true
	}
	return false
}
