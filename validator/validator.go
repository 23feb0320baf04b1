// Package validator wraps go-playground/validator with the custom tags used
// by the API request types.
package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// phoneRegex is a regular expression to validate phone numbers.
var phoneRegex = regexp.MustCompile(`^\+[0-9\s\(\)\-]+$`)

// Validator is a wrapper around the go-playground/validator package.
type Validator struct {
	validator *validator.Validate
}

// New creates a new Validator instance.
func New() *Validator {
	v := validator.New()

	// Register custom validation functions
	_ = v.RegisterValidation("phone", validatePhone)
	_ = v.RegisterValidation("role", validateRole)
	_ = v.RegisterValidation("plan_duration", validatePlanDuration)

	return &Validator{
		validator: v,
	}
}

// Validate validates a struct using the validator package.
func (v *Validator) Validate(s interface{}) error {
	return v.validator.Struct(s)
}

// validatePhone validates a phone number.
func validatePhone(fl validator.FieldLevel) bool {
	// If the field is empty, it's valid (use required tag if it's required)
	if fl.Field().String() == "" {
		return true
	}
	return phoneRegex.MatchString(fl.Field().String())
}

// validateRole accepts the known account roles.
func validateRole(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", "member", "trainer", "admin":
		return true
	default:
		return false
	}
}

// validatePlanDuration accepts the known membership durations.
func validatePlanDuration(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", "Monthly", "Quarterly", "Yearly":
		return true
	default:
		return false
	}
}
