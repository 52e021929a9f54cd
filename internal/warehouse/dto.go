package warehouse

import (
	"strings"

	"github.com/frahmantamala/pos-platform/internal"
	"github.com/frahmantamala/pos-platform/internal/core/common/validation"
)

type CreateWarehouseDTO struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	Type    string `json:"type"`
	Address string `json:"address"`
}

type UpdateWarehouseDTO struct {
	Name     *string `json:"name,omitempty"`
	Type     *string `json:"type,omitempty"`
	Address  *string `json:"address,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

func (d *CreateWarehouseDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Code = strings.ToUpper(strings.TrimSpace(d.Code))
	d.Type = strings.ToUpper(strings.TrimSpace(d.Type))
	if d.Type == "" {
		d.Type = TypeBoutique
	}
}

func (d *CreateWarehouseDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("name", d.Name).Required().MaxLength(100)
	validator.Field("code", d.Code).Required().MaxLength(20)
	validator.Field("type", d.Type).Required().OneOf(TypeBoutique, TypeStockage)
	if err := validator.Validate(); err != nil {
		return err
	}
	return nil
}

func (d *UpdateWarehouseDTO) Validate() error {
	validator := validation.NewValidator()
	if d.Name != nil {
		validator.Field("name", strings.TrimSpace(*d.Name)).Required().MaxLength(100)
	}
	if d.Type != nil {
		validator.Field("type", strings.ToUpper(*d.Type)).OneOf(TypeBoutique, TypeStockage)
	}
	if err := validator.Validate(); err != nil {
		return err
	}
	if d.Name == nil && d.Type == nil && d.Address == nil && d.IsActive == nil {
		return internal.NewValidationError("Nothing to update", internal.ErrCodeInvalidRequest)
	}
	return nil
}
