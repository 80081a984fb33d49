package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Validator collects field-level validation errors.
type Validator struct {
	Errors map[string]string
}

// New creates a new validator.
func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid checks if there are any validation errors.
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError adds an error to the validator.
func (v *Validator) AddError(field, message string) {
	v.Errors[field] = message
}

// Check adds an error if the condition is false.
func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

// First returns an arbitrary single error message, or "".
func (v *Validator) First() string {
	for _, msg := range v.Errors {
		return msg
	}
	return ""
}

// Email validates email format.
func (v *Validator) Email(field, email string) {
	v.Check(emailRegex.MatchString(email), field, "must be a valid email address")
}

// Required checks that a string is not blank.
func (v *Validator) Required(field, value string) {
	v.Check(strings.TrimSpace(value) != "", field, "must not be empty")
}

// MinLength checks if a string has at least n characters.
func (v *Validator) MinLength(field string, value string, n int) {
	v.Check(len(value) >= n, field, fmt.Sprintf("must be at least %d characters long", n))
}

// OneOf checks that value is one of the allowed strings.
func (v *Validator) OneOf(field, value string, allowed []string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v.AddError(field, fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")))
}
