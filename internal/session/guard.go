package session

import (
	"context"
	"strings"
	"sync"

	"github.com/hugozeballos/lenga/internal/backend"
)

// PublicPaths are reachable without a session. The translator itself is
// public; translation may still be restricted by configuration.
var PublicPaths = []string{
	"/login",
	"/reset-password",
	"/reset-password-request",
	"/request-access",
	"/invitation",
	"/about",
	"/translator",
}

// IsPublic reports whether the path may be visited anonymously.
func IsPublic(path string) bool {
	for _, p := range PublicPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// UserResolver resolves a bearer token into the current user.
type UserResolver interface {
	GetByToken(ctx context.Context, token string) (backend.User, error)
}

// Decision is the outcome of resolving a navigation against the stored
// token.
type Decision struct {
	Session Session
	// Redirect is the path the browser must navigate to, or "" to stay.
	Redirect string
	// ClearToken tells the caller to discard the stored token.
	ClearToken bool
}

// Guard gates navigation. A token is validated against the backend once and
// the resolved user is cached for the token's lifetime; path changes while
// resolved do not re-validate. Invalidate discards a cached resolution after
// logout or a 401.
type Guard struct {
	resolver UserResolver

	mu       sync.Mutex
	resolved map[string]backend.User
}

// NewGuard creates a Guard backed by the given resolver.
func NewGuard(resolver UserResolver) *Guard {
	return &Guard{
		resolver: resolver,
		resolved: make(map[string]backend.User),
	}
}

// Resolve decides what happens for a navigation to path with the given
// stored token ("" when absent).
func (g *Guard) Resolve(ctx context.Context, token, path string) Decision {
	if token == "" {
		if IsPublic(path) {
			return Decision{Session: Anonymous()}
		}
		if path == "/" || path == "" {
			return Decision{Session: Anonymous(), Redirect: "/about"}
		}
		return Decision{Session: Anonymous(), Redirect: "/login"}
	}

	g.mu.Lock()
	u, ok := g.resolved[token]
	g.mu.Unlock()
	if ok {
		return Decision{Session: Authenticated(u)}
	}

	u, err := g.resolver.GetByToken(ctx, token)
	if err != nil {
		// Invalid token: discard it and send the browser to login.
		return Decision{Session: Anonymous(), Redirect: "/login", ClearToken: true}
	}

	g.mu.Lock()
	g.resolved[token] = u
	g.mu.Unlock()
	return Decision{Session: Authenticated(u)}
}

// Invalidate drops the cached resolution for a token.
func (g *Guard) Invalidate(token string) {
	g.mu.Lock()
	delete(g.resolved, token)
	g.mu.Unlock()
}
