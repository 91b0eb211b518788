package api

import (
	"net/http"

	"github.com/hugozeballos/lenga/internal/backend"
	"github.com/hugozeballos/lenga/internal/session"
)

// accountHandler groups the self-service account flows: requesting access,
// registering through an invitation, password recovery and profile edits.
type accountHandler struct {
	backend  *backend.Client
	sessions *sessionHandler
}

func newAccountHandler(bc *backend.Client, sessions *sessionHandler) *accountHandler {
	return &accountHandler{backend: bc, sessions: sessions}
}

// RequestAccess handles POST /api/access-request. No session required.
func (h *accountHandler) RequestAccess(w http.ResponseWriter, r *http.Request) {
	var req accessRequestPayload
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if !checkPayload(w, req) {
		return
	}
	created, err := h.backend.CreateAccessRequest(r.Context(), backend.AccessRequestInput{
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Organization: req.Organization,
		Reason:       req.Reason,
	})
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"request": created,
	})
}

// CheckInvitation handles GET /api/invitation?token=. The registration page
// calls this before showing the form; an expired or unknown token sends the
// visitor away.
func (h *accountHandler) CheckInvitation(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, http.StatusBadRequest, "invalid_token", "an invitation token is required")
		return
	}
	inv, err := h.backend.CheckInvitationToken(r.Context(), token)
	if err != nil {
		if backend.IsNotFound(err) || backend.IsValidation(err) {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"valid":    false,
				"redirect": "/login",
			})
			return
		}
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"valid":      true,
		"invitation": inv,
	})
}

// Register handles POST /api/register: account creation through an
// invitation token.
func (h *accountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registrationPayload
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if !checkPayload(w, req) {
		return
	}
	u, err := h.backend.CreateByInvitation(r.Context(), backend.Registration{
		Token:       req.Token,
		Password:    req.Password,
		Proficiency: req.Proficiency,
		DateOfBirth: req.DateOfBirth,
	})
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"user":     userPayload(u),
		"redirect": "/login",
	})
}

// RecoverPassword handles POST /api/password/recover. The response is the
// same whether or not the address exists.
func (h *accountHandler) RecoverPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if !checkPayload(w, req) {
		return
	}
	if err := h.backend.RecoverPassword(r.Context(), req.Email); err != nil && !backend.IsNotFound(err) && !backend.IsValidation(err) {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sent": true,
	})
}

// CheckResetToken handles GET /api/password/reset?token=.
func (h *accountHandler) CheckResetToken(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, http.StatusBadRequest, "invalid_token", "a reset token is required")
		return
	}
	if err := h.backend.CheckResetToken(r.Context(), token); err != nil {
		if backend.IsNotFound(err) || backend.IsValidation(err) {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"valid":    false,
				"redirect": "/login",
			})
			return
		}
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"valid": true})
}

// ResetPassword handles POST /api/password/reset: setting a new password
// with a recovery token.
func (h *accountHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req passwordResetPayload
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if !checkPayload(w, req) {
		return
	}
	if err := h.backend.UpdatePasswordWithToken(r.Context(), req.Token, req.Password); err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"redirect": "/login",
	})
}

// UpdateProfile handles PATCH /api/profile for the signed-in user.
func (h *accountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	u, ok := session.FromContext(r.Context()).User()
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "session required")
		return
	}
	var req profilePayload
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	token := h.sessions.cookies.Token(r)
	updated, err := h.backend.UpdateProfile(r.Context(), token, u.ID, backend.ProfileUpdate{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Organization: req.Organization,
		Proficiency:  req.Proficiency,
		DateOfBirth:  req.DateOfBirth,
	})
	if err != nil {
		h.sessions.respondError(w, r, err)
		return
	}
	// The cached resolution now carries stale profile fields.
	h.sessions.guard.Invalidate(token)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user": userPayload(updated),
	})
}

// ChangePassword handles POST /api/password for the signed-in user.
func (h *accountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	u, ok := session.FromContext(r.Context()).User()
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "session required")
		return
	}
	var req passwordChangePayload
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if !checkPayload(w, req) {
		return
	}
	token := h.sessions.cookies.Token(r)
	if err := h.backend.UpdatePassword(r.Context(), token, u.ID, req.OldPassword, req.NewPassword); err != nil {
		h.sessions.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}
