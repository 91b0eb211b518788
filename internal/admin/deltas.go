package admin

import "github.com/hugozeballos/lenga/internal/backend"

// List deltas applied after a management action succeeds. Each delta matches
// entries by identity, never by position, and applying the same delta twice
// leaves the list unchanged.

func removeWhere[T any](items []T, match func(T) bool) []T {
	out := items[:0:0]
	for _, it := range items {
		if !match(it) {
			out = append(out, it)
		}
	}
	return out
}

func replaceWhere[T any](items []T, match func(T) bool, apply func(*T)) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := range out {
		if match(out[i]) {
			apply(&out[i])
		}
	}
	return out
}

// RemoveSuggestion drops the suggestion with the given id.
func RemoveSuggestion(items []backend.Suggestion, id int) []backend.Suggestion {
	return removeWhere(items, func(s backend.Suggestion) bool { return s.ID == id })
}

// PatchSuggestion rewrites the texts of the suggestion with the given id.
func PatchSuggestion(items []backend.Suggestion, id int, srcText, dstText string) []backend.Suggestion {
	return replaceWhere(items, func(s backend.Suggestion) bool { return s.ID == id }, func(s *backend.Suggestion) {
		s.SrcText = srcText
		s.DstText = dstText
	})
}

// MarkSuggestionValidated records a validation with the corrected texts.
func MarkSuggestionValidated(items []backend.Suggestion, id int, srcText, dstText string) []backend.Suggestion {
	return replaceWhere(items, func(s backend.Suggestion) bool { return s.ID == id }, func(s *backend.Suggestion) {
		s.SrcText = srcText
		s.DstText = dstText
		s.Validated = true
	})
}

// RemoveRequest drops the access request with the given id.
func RemoveRequest(items []backend.AccessRequest, id int) []backend.AccessRequest {
	return removeWhere(items, func(r backend.AccessRequest) bool { return r.ID == id })
}

// RemoveInvitation drops the invitation with the given id.
func RemoveInvitation(items []backend.Invitation, id int) []backend.Invitation {
	return removeWhere(items, func(i backend.Invitation) bool { return i.ID == id })
}

// AddInvitation appends inv unless an invitation with its id is present.
func AddInvitation(items []backend.Invitation, inv backend.Invitation) []backend.Invitation {
	for _, it := range items {
		if it.ID == inv.ID {
			return items
		}
	}
	return append(items[:len(items):len(items)], inv)
}

// SetInvitationRole rewrites the role of the invitation with the given id.
func SetInvitationRole(items []backend.Invitation, id int, role string) []backend.Invitation {
	return replaceWhere(items, func(i backend.Invitation) bool { return i.ID == id }, func(i *backend.Invitation) {
		i.Role = role
	})
}

// RemoveUser drops the account with the given id.
func RemoveUser(items []backend.User, id int) []backend.User {
	return removeWhere(items, func(u backend.User) bool { return u.ID == id })
}

// SetUserRole rewrites the role of the account with the given id.
func SetUserRole(items []backend.User, id int, role string) []backend.User {
	return replaceWhere(items, func(u backend.User) bool { return u.ID == id }, func(u *backend.User) {
		u.Profile.Role = role
	})
}

// SetUserActive rewrites the active flag of the account with the given id.
func SetUserActive(items []backend.User, id int, active bool) []backend.User {
	return replaceWhere(items, func(u backend.User) bool { return u.ID == id }, func(u *backend.User) {
		u.IsActive = active
	})
}
