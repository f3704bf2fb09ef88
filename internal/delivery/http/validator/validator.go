// Package validator adapts go-playground/validator to Echo's Validator
// interface.
package validator

import (
	domainerrors "bazaar/internal/domain/errors"

	"github.com/go-playground/validator/v10"
)

// Validator wraps a single validator instance; it is safe for concurrent use
// and caches struct metadata across requests.
type Validator struct {
	validate *validator.Validate
}

// New creates the Echo request validator.
func New() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate implements echo.Validator.
func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
