// Package session resolves the stored bearer token into the current user
// and gates navigation into public and authenticated routes.
package session

import (
	"context"

	"github.com/hugozeballos/lenga/internal/backend"
)

// Session is the resolved authentication state: anonymous or a user.
type Session struct {
	user *backend.User
}

// Anonymous returns the unauthenticated session.
func Anonymous() Session {
	return Session{}
}

// Authenticated returns a session for the resolved user.
func Authenticated(u backend.User) Session {
	return Session{user: &u}
}

// User returns the session's user and whether one is present.
func (s Session) User() (backend.User, bool) {
	if s.user == nil {
		return backend.User{}, false
	}
	return *s.user, true
}

// IsAuthenticated reports whether a user has been resolved.
func (s Session) IsAuthenticated() bool {
	return s.user != nil
}

// IsAdmin reports whether the session belongs to an admin user.
func (s Session) IsAdmin() bool {
	return s.user != nil && s.user.IsAdmin()
}

type contextKey int

const sessionContextKey contextKey = iota

// ContextWith returns a new context carrying the given session.
func ContextWith(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

// FromContext extracts the session from the context. Absence is anonymous.
func FromContext(ctx context.Context) Session {
	s, _ := ctx.Value(sessionContextKey).(Session)
	return s
}
