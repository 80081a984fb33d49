package validation

import "finch/internal/models"

// UserRegistration validates a registration request.
func (v *Validator) UserRegistration(input *models.CreateUserInput) {
	v.Required("name", input.Name)
	v.Required("email", input.Email)
	if input.Email != "" {
		v.Email("email", input.Email)
	}
	v.MinLength("password", input.Password, 8)
}
