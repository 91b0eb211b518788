package api

import (
	"log/slog"
	"net/http"

	"github.com/hugozeballos/lenga/internal/ratelimit"
	"github.com/hugozeballos/lenga/internal/session"
)

// auditLog emits a structured audit log entry for a management action.
func auditLog(r *http.Request, action string, resourceType string, resourceID string, detail ...any) {
	attrs := []any{
		"action", action,
		"resource_type", resourceType,
		"resource_id", resourceID,
		"ip", ratelimit.ClientIP(r),
		"request_id", RequestIDFromContext(r.Context()),
	}

	if u, ok := session.FromContext(r.Context()).User(); ok {
		attrs = append(attrs, "user_id", u.ID, "user_email", u.Email, "user_role", u.Profile.Role)
	}

	attrs = append(attrs, detail...)
	slog.Info("audit", attrs...)
}
