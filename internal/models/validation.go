package models

import (
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// NewValidator returns the request validator shared by all handlers. It adds
// "notblank" so whitespace-only form fields are rejected like empty ones.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}
