package api

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate checks the struct tags on inbound payloads. One instance is
// shared; Validate is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report field errors under the wire name, not the Go name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// invitationPayload is the body for sending an invitation.
type invitationPayload struct {
	Email        string `json:"email" validate:"required,email"`
	FirstName    string `json:"first_name" validate:"required"`
	LastName     string `json:"last_name" validate:"required"`
	Organization string `json:"organization"`
	Role         string `json:"role" validate:"required,oneof=User Admin NativeAdmin"`
}

// accessRequestPayload is the body for requesting platform access.
type accessRequestPayload struct {
	Email        string `json:"email" validate:"required,email"`
	FirstName    string `json:"first_name" validate:"required"`
	LastName     string `json:"last_name" validate:"required"`
	Organization string `json:"organization"`
	Reason       string `json:"reason" validate:"max=2000"`
}

// registrationPayload is the body for registering through an invitation.
// Name and email come from the invitation itself.
type registrationPayload struct {
	Token       string `json:"token" validate:"required"`
	Password    string `json:"password" validate:"required,min=8"`
	Proficiency string `json:"proficiency"`
	DateOfBirth string `json:"date_of_birth"`
}

// profilePayload is the body for updating the signed-in user's profile.
type profilePayload struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Organization string `json:"organization"`
	Proficiency  string `json:"proficiency"`
	DateOfBirth  string `json:"date_of_birth"`
}

// passwordChangePayload is the body for changing the password in-session.
type passwordChangePayload struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// passwordResetPayload is the body for resetting a forgotten password.
type passwordResetPayload struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// checkPayload validates v and, on failure, writes a 422 naming the
// offending fields. Returns true when the payload is valid.
func checkPayload(w http.ResponseWriter, v any) bool {
	err := validate.Struct(v)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "invalid payload")
		return false
	}
	fields := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = validationMessage(fe)
	}
	writeValidationError(w, fields)
	return false
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "too short (minimum " + fe.Param() + ")"
	case "max":
		return "too long (maximum " + fe.Param() + ")"
	case "oneof":
		return "must be one of: " + fe.Param()
	}
	return "invalid value"
}
