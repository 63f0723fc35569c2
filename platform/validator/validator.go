// Package validator provides request validation for transport DTOs.
// This is part of the platform layer and contains no business logic.
package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// TagTradeName validates trade and trade type names such as "Plumber" or
// "General Contractor".
const TagTradeName = "tradename"

var tradeNameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z&/ -]*[A-Za-z]$`)

// Validator wraps the go-playground validator for structured validation.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator with the marketplace rules registered.
func New() *Validator {
	v := validator.New()
	_ = v.RegisterValidation(TagTradeName, validateTradeName)
	return &Validator{v: v}
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// Var validates a single variable against a tag.
func (val *Validator) Var(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation registers a custom validation function.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}

func validateTradeName(fl validator.FieldLevel) bool {
	return tradeNameRegex.MatchString(fl.Field().String())
}
