package backend

import "github.com/hugozeballos/lenga/internal/language"

// Profile carries the backend-owned profile nested inside a user.
type Profile struct {
	Role         string `json:"role"` // "User", "Admin" or "NativeAdmin"
	Organization string `json:"organization,omitempty"`
	Proficiency  string `json:"proficiency,omitempty"`
	DateOfBirth  string `json:"date_of_birth,omitempty"`
	Avatar       string `json:"avatar,omitempty"`
}

// User is the backend's user object. The client holds a transient copy only;
// it is refetched from the stored token on every page load.
type User struct {
	ID        int     `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	IsActive  bool    `json:"is_active"`
	Profile   Profile `json:"profile"`
}

// Roles accepted by the backend.
const (
	RoleUser        = "User"
	RoleAdmin       = "Admin"
	RoleNativeAdmin = "NativeAdmin"
)

// IsAdmin reports whether the user may use the admin console.
func (u User) IsAdmin() bool {
	return u.Profile.Role == RoleAdmin || u.Profile.Role == RoleNativeAdmin
}

// TranslationRequest is the payload for the translate endpoint.
type TranslationRequest struct {
	SrcText string            `json:"src_text"`
	SrcLang language.Language `json:"src_lang"`
	DstLang language.Language `json:"dst_lang"`
}

// TranslationResponse carries the translated text and the model that
// produced it.
type TranslationResponse struct {
	DstText      string `json:"dst_text"`
	ModelName    string `json:"model_name"`
	ModelVersion string `json:"model_version"`
}

// Transcription is the transcription endpoint's response.
type Transcription struct {
	Transcript       string `json:"transcript"`
	DetectedLanguage string `json:"detected_language,omitempty"`
}

// Suggestion is a community-submitted correction to a machine translation.
// Its lifecycle is fully backend-owned; the client lists, creates and
// patches.
type Suggestion struct {
	ID         int               `json:"id"`
	SrcText    string            `json:"src_text"`
	DstText    string            `json:"dst_text"`
	SrcLang    language.Language `json:"src_lang"`
	DstLang    language.Language `json:"dst_lang"`
	Suggestion string            `json:"suggestion,omitempty"`
	Validated  bool              `json:"validated"`
	Author     string            `json:"author,omitempty"`
}

// Invitation is an outstanding invitation to join the platform.
type Invitation struct {
	ID           int    `json:"id"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Organization string `json:"organization,omitempty"`
	Role         string `json:"role"`
	IsActive     bool   `json:"is_active"`
}

// AccessRequest is a pending request for platform access.
type AccessRequest struct {
	ID           int    `json:"id"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Organization string `json:"organization,omitempty"`
	Reason       string `json:"reason,omitempty"`
	Role         string `json:"role"`
	Approved     *bool  `json:"approved,omitempty"`
}

// Page is the backend's pagination envelope: item count plus absolute
// next/previous URLs.
type Page[T any] struct {
	Count    int    `json:"count"`
	Next     string `json:"next"`
	Previous string `json:"previous"`
	Results  []T    `json:"results"`
}
