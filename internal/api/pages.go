package api

import (
	"net/http"

	"github.com/hugozeballos/lenga/internal/session"
)

// pageHandler serves the web client shell for browser navigations, applying
// the guard first: direct entry to a private page without a valid session is
// redirected before any markup is sent.
func pageHandler(guard *session.Guard, cookies session.Cookies, shell http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := cookies.Token(r)
		d := guard.Resolve(r.Context(), token, r.URL.Path)
		if d.ClearToken {
			cookies.Clear(w)
		}
		if d.Redirect != "" {
			http.Redirect(w, r, d.Redirect, http.StatusFound)
			return
		}
		shell.ServeHTTP(w, r)
	}
}

// pagePaths are the browser routes that serve the shell. The guard decides
// per-path whether the visitor may stay.
var pagePaths = []string{
	"/",
	"/login",
	"/about",
	"/translator",
	"/request-access",
	"/invitation",
	"/reset-password",
	"/reset-password-request",
	"/admin",
	"/admin/*",
	"/profile",
}
