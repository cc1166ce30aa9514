// Package validation wraps go-playground/validator with the custom
// rules this service needs and translates failures into field-level
// errors the HTTP layer can return as 400s.
package validation

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	usPhoneRe  = regexp.MustCompile(`^\+1\d{10}$`)
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,32}$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// US-only E.164: +1 followed by exactly ten digits.
	_ = v.RegisterValidation("us_phone", func(fl validator.FieldLevel) bool {
		return usPhoneRe.MatchString(fl.Field().String())
	})

	// Public handle: letters, digits, underscore, 3-32 chars.
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	})

	return v
}

// ValidationError reports the first field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error [%s]: %s", e.Field, e.Message)
}

// Struct validates v against its `validate` tags and returns a
// *ValidationError for the first failing field, or nil.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	return &ValidationError{Field: fe.Field(), Message: message(fe)}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "us_phone":
		return "must be a US phone number in +1XXXXXXXXXX format"
	case "username":
		return "must be 3-32 characters of letters, digits, or underscore"
	case "oneof":
		return "must be one of " + fe.Param()
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "url":
		return "must be a valid URL"
	default:
		return "is invalid"
	}
}
