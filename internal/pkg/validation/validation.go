// Package validation checks caller-supplied input before it reaches the store.
package validation

import (
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/kyra/interntrack/internal/app/models"
	"github.com/kyra/interntrack/internal/pkg/apperrors"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared validator with the tracker's custom rules registered
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		if err := RegisterRules(v); err != nil {
			panic(err)
		}
		instance = v
	})
	return instance
}

// RegisterRules adds the "role" and "notblank" tags to v
func RegisterRules(v *validator.Validate) error {
	if err := v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseRole(fl.Field().String())
		return ok
	}); err != nil {
		return err
	}
	return v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

// FieldError is one violated constraint
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Struct validates s and returns an error matching apperrors.ErrValidationFailed on violation.
// The first violation becomes the error message; all of them are listed under Details["errors"].
func Struct(s interface{}) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, err.Error())
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Message: FormatFieldError(fe)})
	}

	return apperrors.NewValidationError(fields[0].Field, fields[0].Message).
		WithDetails(map[string]interface{}{"field": fields[0].Field, "errors": fields})
}

// FormatFieldError creates a human-readable validation error message
func FormatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "notblank":
		return e.Field() + " is required"
	case "min", "gte":
		return e.Field() + " must be at least " + e.Param()
	case "max", "lte":
		return e.Field() + " must be at most " + e.Param()
	case "ltefield":
		return e.Field() + " must not exceed " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "role":
		return e.Field() + " must be one of: " + roleList()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}

func roleList() string {
	names := make([]string, 0, len(models.Roles))
	for _, r := range models.Roles {
		names = append(names, string(r))
	}
	return strings.Join(names, ", ")
}
