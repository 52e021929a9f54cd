package customer

import (
	"strings"

	"github.com/frahmantamala/pos-platform/internal"
	"github.com/frahmantamala/pos-platform/internal/core/common/validation"
)

type CreateCustomerDTO struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Notes string `json:"notes"`
}

func (d *CreateCustomerDTO) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Email = strings.TrimSpace(d.Email)

	if d.Name == "" && d.Phone == "" {
		return internal.NewValidationFieldError("name", "name or phone is required", internal.ErrCodeValidationFailed)
	}
	if d.Phone != "" {
		if err := validation.ValidatePhone(d.Phone); err != nil {
			return err
		}
	}

	validator := validation.NewValidator()
	validator.Field("name", d.Name).MaxLength(100)
	validator.Field("email", d.Email).MaxLength(255)
	if err := validator.Validate(); err != nil {
		return err
	}
	return nil
}

type ListFilter struct {
	Search string
}
