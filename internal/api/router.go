package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hugozeballos/lenga/internal/admin"
	"github.com/hugozeballos/lenga/internal/backend"
	"github.com/hugozeballos/lenga/internal/config"
	"github.com/hugozeballos/lenga/internal/metrics"
	"github.com/hugozeballos/lenga/internal/ratelimit"
	"github.com/hugozeballos/lenga/internal/session"
)

// RouterDeps holds all dependencies for the gateway router.
type RouterDeps struct {
	Config     *config.Config
	Backend    *backend.Client
	Console    *admin.Console
	Guard      *session.Guard
	Cookies    session.Cookies
	Workspaces *Workspaces
	Limiter    *ratelimit.Limiter
	Metrics    *metrics.Metrics
	Shell      http.Handler
}

// NewRouter builds the chi router with all routes and middleware.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chimw.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(secureHeaders)
	r.Use(slogRequestLogger)
	if deps.Metrics != nil {
		r.Use(metricsMiddleware(deps.Metrics))
	}
	if len(deps.Config.CORS.AllowedOrigins) > 0 {
		r.Use(corsMiddleware(deps.Config.CORS.AllowedOrigins))
	}

	// Handlers.
	sessions := newSessionHandler(deps.Backend, deps.Guard, deps.Cookies, deps.Metrics)
	translators := newTranslatorHandler(deps.Workspaces, sessions, deps.Config.LanguageVariant(), deps.Metrics)
	recorders := newRecorderHandler(deps.Workspaces, sessions, deps.Config, deps.Metrics)
	admins := newAdminHandler(deps.Console, sessions)
	accounts := newAccountHandler(deps.Backend, sessions)

	// Health check.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Well-known manifest.
	r.Get("/.well-known/lenga.json", wellKnownHandler(deps.Config))

	// Metrics: JSON summary plus the raw Prometheus exposition.
	if deps.Metrics != nil {
		r.Get("/metrics", deps.Metrics.Handler())
		r.Handle("/metrics/prometheus", promhttp.HandlerFor(deps.Metrics.Registry(), promhttp.HandlerOpts{}))
	}

	// API routes. Every request resolves its session first.
	r.Route("/api", func(ar chi.Router) {
		ar.Use(session.Middleware(deps.Guard, deps.Cookies))

		// Anonymous entry points, throttled per client address.
		ar.Group(func(pr chi.Router) {
			if deps.Limiter != nil {
				pr.Use(ratelimit.Middleware(deps.Limiter, func() {
					if deps.Metrics != nil {
						deps.Metrics.IncRateLimitRejection("anonymous")
					}
				}))
			}
			pr.Post("/session", sessions.Login)
			pr.Post("/access-request", accounts.RequestAccess)
			pr.Post("/password/recover", accounts.RecoverPassword)
			pr.Post("/password/reset", accounts.ResetPassword)
			pr.Post("/register", accounts.Register)
		})

		ar.Get("/session", sessions.Current)
		ar.Delete("/session", sessions.Logout)
		ar.Get("/session/navigate", sessions.Navigate)

		ar.Get("/invitation", accounts.CheckInvitation)
		ar.Get("/password/reset", accounts.CheckResetToken)

		// The translator is public; translation itself may still be
		// restricted by configuration.
		ar.Get("/languages", translators.Languages)
		ar.Route("/translator", func(tr chi.Router) {
			tr.Get("/", translators.State)
			tr.Post("/text", translators.SetText)
			tr.Post("/languages", translators.SetLanguages)
			tr.Post("/swap", translators.Swap)
			tr.Post("/translate", translators.Translate)
			tr.Post("/feedback", translators.Feedback)
		})

		ar.Route("/recorder", func(rr chi.Router) {
			rr.Get("/", recorders.State)
			rr.Post("/start", recorders.Start)
			rr.Post("/chunk", recorders.Chunk)
			rr.Post("/stop", recorders.Stop)
			rr.Post("/reset", recorders.Reset)
		})

		// Signed-in account management.
		ar.Group(func(ur chi.Router) {
			ur.Use(session.RequireAuth)
			ur.Patch("/profile", accounts.UpdateProfile)
			ur.Post("/password", accounts.ChangePassword)
		})

		// Management console.
		ar.Route("/admin", func(mr chi.Router) {
			mr.Use(session.RequireAdmin)

			mr.Get("/suggestions", admins.Suggestions)
			mr.Patch("/suggestions/{id}", admins.EditSuggestion)
			mr.Post("/suggestions/{id}/validate", admins.ValidateSuggestion)
			mr.Delete("/suggestions/{id}", admins.DiscardSuggestion)

			mr.Get("/users", admins.Users)
			mr.Patch("/users/{id}/role", admins.SetUserRole)
			mr.Patch("/users/{id}/status", admins.SetUserStatus)
			mr.Delete("/users/{id}", admins.DeleteUser)

			mr.Get("/invitations", admins.Invitations)
			mr.Post("/invitations", admins.SendInvitation)
			mr.Post("/invitations/{id}/resend", admins.ResendInvitation)
			mr.Patch("/invitations/{id}/role", admins.SetInvitationRole)
			mr.Delete("/invitations/{id}", admins.RevokeInvitation)

			mr.Get("/requests", admins.Requests)
			mr.Post("/requests/{id}/accept", admins.AcceptRequest)
			mr.Post("/requests/{id}/reject", admins.RejectRequest)
		})
	})

	// Browser navigations serve the shell, guard first.
	if deps.Shell != nil {
		page := pageHandler(deps.Guard, deps.Cookies, deps.Shell)
		for _, p := range pagePaths {
			r.Get(p, page)
		}
	}

	return r
}
