package session

import (
	"encoding/json"
	"net/http"
)

// Middleware resolves the token cookie into a session and injects it into
// the request context. Requests without a valid token proceed as anonymous;
// handlers that require authentication use RequireAuth or RequireAdmin.
func Middleware(guard *Guard, cookies Cookies) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := cookies.Token(r)
			s := Anonymous()
			if token != "" {
				d := guard.Resolve(r.Context(), token, r.URL.Path)
				if d.ClearToken {
					cookies.Clear(w)
				}
				s = d.Session
			}
			ctx := ContextWith(r.Context(), s)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests with the login-redirect envelope.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !FromContext(r.Context()).IsAuthenticated() {
			writeLoginRedirect(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects sessions without an admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := FromContext(r.Context())
		if !s.IsAuthenticated() {
			writeLoginRedirect(w)
			return
		}
		if !s.IsAdmin() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]string{
					"code":    "forbidden",
					"message": "admin access required",
				},
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeLoginRedirect is the 401 envelope every authenticated surface
// returns: the browser clears its view state and hard-navigates to login.
func writeLoginRedirect(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    "unauthorized",
			"message": "session required",
		},
		"redirect": "/login",
	})
}
