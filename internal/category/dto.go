package category

import (
	"strings"

	"github.com/frahmantamala/pos-platform/internal/core/common/validation"
)

type CreateCategoryDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (d *CreateCategoryDTO) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)

	validator := validation.NewValidator()
	validator.Field("name", d.Name).Required().MaxLength(100)
	validator.Field("description", d.Description).MaxLength(500)
	if err := validator.Validate(); err != nil {
		return err
	}
	return nil
}
