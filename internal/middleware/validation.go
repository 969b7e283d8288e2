package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/kyra/interntrack/internal/pkg/validation"
)

// RegisterBindingValidators adds the tracker's custom tags to gin's binding validator so
// request DTOs can use them in `binding:"..."` tags.
func RegisterBindingValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}
	return validation.RegisterRules(v)
}
