package employee

import (
	"strings"

	"github.com/frahmantamala/pos-platform/internal/core/common/validation"
)

const minPasswordLength = 6

type CreateEmployeeDTO struct {
	Phone        string  `json:"phone"`
	Password     string  `json:"password"`
	PIN          string  `json:"pin,omitempty"`
	FullName     string  `json:"fullName"`
	Role         string  `json:"role"`
	WarehouseID  *int64  `json:"warehouseId,omitempty"`
	WarehouseIDs []int64 `json:"warehouseIds,omitempty"`
}

func (d *CreateEmployeeDTO) Normalize() {
	d.Phone = strings.TrimSpace(d.Phone)
	d.FullName = strings.TrimSpace(d.FullName)
	d.Role = strings.ToLower(strings.TrimSpace(d.Role))
	d.PIN = strings.TrimSpace(d.PIN)
}

func (d CreateEmployeeDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("fullName", d.FullName).Required().MaxLength(150)
	validator.Field("password", d.Password).Required().MinLength(minPasswordLength)
	validator.Field("role", d.Role).Required()
	if err := validator.Validate(); err != nil {
		return err
	}

	if err := validation.ValidatePhone(d.Phone); err != nil {
		return err
	}
	if d.PIN != "" {
		if err := validation.ValidatePIN(d.PIN); err != nil {
			return err
		}
	}
	return nil
}

// Requested is every warehouse the create would assign.
func (d CreateEmployeeDTO) Requested() []int64 {
	ids := append([]int64{}, d.WarehouseIDs...)
	if d.WarehouseID != nil {
		ids = append(ids, *d.WarehouseID)
	}
	return ids
}

// UpdateEmployeeDTO changes only the fields that are set. WarehouseIDs
// replaces the assignment rows when non-nil.
type UpdateEmployeeDTO struct {
	Phone        *string `json:"phone,omitempty"`
	FullName     *string `json:"fullName,omitempty"`
	Password     *string `json:"password,omitempty"`
	Role         *string `json:"role,omitempty"`
	WarehouseID  *int64  `json:"warehouseId,omitempty"`
	WarehouseIDs []int64 `json:"warehouseIds,omitempty"`
	IsActive     *bool   `json:"isActive,omitempty"`
}

func (d *UpdateEmployeeDTO) Normalize() {
	if d.Phone != nil {
		phone := strings.TrimSpace(*d.Phone)
		d.Phone = &phone
	}
	if d.FullName != nil {
		name := strings.TrimSpace(*d.FullName)
		d.FullName = &name
	}
	if d.Role != nil {
		role := strings.ToLower(strings.TrimSpace(*d.Role))
		d.Role = &role
	}
}

func (d UpdateEmployeeDTO) Validate() error {
	validator := validation.NewValidator()
	if d.FullName != nil {
		validator.Field("fullName", *d.FullName).Required().MaxLength(150)
	}
	if d.Password != nil {
		validator.Field("password", *d.Password).MinLength(minPasswordLength)
	}
	if d.Role != nil {
		validator.Field("role", *d.Role).Required()
	}
	if err := validator.Validate(); err != nil {
		return err
	}

	if d.Phone != nil {
		if err := validation.ValidatePhone(*d.Phone); err != nil {
			return err
		}
	}
	return nil
}

// privileged reports whether the update touches role, warehouses or status.
func (d UpdateEmployeeDTO) privileged() bool {
	return d.Role != nil || d.WarehouseID != nil || d.WarehouseIDs != nil || d.IsActive != nil
}

type SetPINDTO struct {
	PIN string `json:"pin"`
}

func (d *SetPINDTO) Validate() error {
	d.PIN = strings.TrimSpace(d.PIN)
	if err := validation.ValidatePIN(d.PIN); err != nil {
		return err
	}
	return nil
}

type ListFilter struct {
	Search      string
	WarehouseID *int64
	IsActive    *bool
}
