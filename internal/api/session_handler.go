package api

import (
	"net/http"

	"github.com/hugozeballos/lenga/internal/backend"
	"github.com/hugozeballos/lenga/internal/metrics"
	"github.com/hugozeballos/lenga/internal/session"
)

// sessionHandler groups sign-in, sign-out and current-user handlers.
type sessionHandler struct {
	backend *backend.Client
	guard   *session.Guard
	cookies session.Cookies
	metrics *metrics.Metrics
}

func newSessionHandler(bc *backend.Client, guard *session.Guard, cookies session.Cookies, m *metrics.Metrics) *sessionHandler {
	return &sessionHandler{backend: bc, guard: guard, cookies: cookies, metrics: m}
}

func userPayload(u backend.User) map[string]interface{} {
	return map[string]interface{}{
		"id":         u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"role":       u.Profile.Role,
		"is_admin":   u.IsAdmin(),
	}
}

// Login handles POST /api/session.
func (h *sessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "username and password are required")
		return
	}

	token, err := h.backend.Token(r.Context(), backend.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if h.metrics != nil {
			h.metrics.IncAuthFailure("password")
		}
		if backend.IsUnauthorized(err) || backend.IsValidation(err) {
			writeError(w, http.StatusUnauthorized, "unauthorized", "invalid username or password")
			return
		}
		writeBackendError(w, err)
		return
	}

	u, err := h.backend.GetByToken(r.Context(), token)
	if err != nil {
		writeBackendError(w, err)
		return
	}

	if err := h.cookies.Set(w, token); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to store session")
		return
	}
	if h.metrics != nil {
		h.metrics.IncAuthSuccess("password")
	}
	auditLog(r, "login", "session", u.Username)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":     userPayload(u),
		"redirect": "/translator",
	})
}

// Logout handles DELETE /api/session.
func (h *sessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := h.cookies.Token(r); token != "" {
		h.guard.Invalidate(token)
	}
	h.cookies.Clear(w)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"redirect": "/login",
	})
}

// Current handles GET /api/session.
func (h *sessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())
	u, ok := s.User()
	if !ok {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"authenticated": false,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"authenticated": true,
		"user":          userPayload(u),
	})
}

// Navigate handles GET /api/session/navigate?to=. The web client asks the
// guard where a navigation should land before rendering a view.
func (h *sessionHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("to")
	if path == "" {
		path = "/"
	}
	token := h.cookies.Token(r)
	d := h.guard.Resolve(r.Context(), token, path)
	if d.ClearToken {
		h.cookies.Clear(w)
	}
	resp := map[string]interface{}{
		"authenticated": d.Session.IsAuthenticated(),
	}
	if d.Redirect != "" {
		resp["redirect"] = d.Redirect
	}
	if u, ok := d.Session.User(); ok {
		resp["user"] = userPayload(u)
	}
	writeJSON(w, http.StatusOK, resp)
}

// unauthorized handles a backend 401 seen mid-session: the stored token is
// no longer valid, so it is discarded and the client is sent to login.
func (h *sessionHandler) unauthorized(w http.ResponseWriter, r *http.Request) {
	if token := h.cookies.Token(r); token != "" {
		h.guard.Invalidate(token)
	}
	h.cookies.Clear(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":{"code":"unauthorized","message":"session expired"},"redirect":"/login"}`))
}

// respondError routes a backend failure: 401 clears the session, everything
// else maps to the standard envelope.
func (h *sessionHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	if backend.IsUnauthorized(err) {
		h.unauthorized(w, r)
		return
	}
	writeBackendError(w, err)
}
