package validators

import (
	"github.com/go-playground/validator/v10"
)

// Validator adapts go-playground/validator to Echo's Validator interface.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates the request validator wired into Echo via e.Validator.
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate validates a bound request struct. Handlers unwrap
// validator.ValidationErrors to build field-scoped error responses.
func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
