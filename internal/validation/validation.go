// Package validation is the schema gate in front of every mutation: request
// structs declare their rules in `validate` tags and Validate turns failures
// into field-level messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sbilibin2017/gw-identity/internal/models"
	"github.com/sbilibin2017/gw-identity/internal/password"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,50}$`)

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields []models.FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator wraps a configured validator.Validate.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator with the username and password rules registered.
// pwbytes caps the encoded length so every accepted password can be hashed.
// Field names in errors are taken from json tags.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	_ = v.RegisterValidation("pwbytes", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= password.MaxBytes
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return password.ValidateComplexity(fl.Field().String()) == nil
	})

	return &Validator{v: v}
}

// Struct validates s and returns a *ValidationError on rule failures.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{Fields: make([]models.FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, models.FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return out
}

var std = New()

// Validate validates s with the package validator.
func Validate(s any) error {
	return std.Struct(s)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Valid email is required"
	case "username":
		return "Username must be 3 to 50 characters and contain only letters, numbers, hyphens, and underscores"
	case "password":
		s, _ := fe.Value().(string)
		if s == "" {
			if p, ok := fe.Value().(*string); ok && p != nil {
				s = *p
			}
		}
		if err := password.ValidateComplexity(s); err != nil {
			return err.Error()
		}
		return "Password is too weak"
	case "pwbytes":
		return fmt.Sprintf("Password must be at most %d bytes", password.MaxBytes)
	case "eqfield":
		return "Passwords do not match"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s item(s)", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
