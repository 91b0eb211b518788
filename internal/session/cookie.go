package session

import (
	"net/http"

	"github.com/hugozeballos/lenga/internal/crypto"
)

// Cookies reads and writes the bearer-token cookie, the only client state
// the gateway persists on the browser. The token is sealed before leaving
// the process when a cookie key is configured.
type Cookies struct {
	Name   string
	Sealer *crypto.Sealer
}

// Token extracts the bearer token from the request, or "" when absent or
// unreadable. An unreadable cookie is treated like a missing token; the
// guard will clear it.
func (c Cookies) Token(r *http.Request) string {
	ck, err := r.Cookie(c.Name)
	if err != nil || ck.Value == "" {
		return ""
	}
	token, err := c.Sealer.Open(ck.Value)
	if err != nil {
		return ""
	}
	return token
}

// Set stores the token on the browser.
func (c Cookies) Set(w http.ResponseWriter, token string) error {
	sealed, err := c.Sealer.Seal(token)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    sealed,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear discards the token.
func (c Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
