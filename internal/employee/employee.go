package employee

import (
	"time"

	"github.com/frahmantamala/pos-platform/internal/auth"
	employeeDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/employee"
)

// Employee never serialises its credentials.
type Employee struct {
	ID           int64     `json:"id"`
	Phone        string    `json:"phone"`
	FullName     string    `json:"fullName"`
	RoleID       int64     `json:"roleId"`
	Role         auth.Role `json:"role"`
	WarehouseID  *int64    `json:"warehouseId,omitempty"`
	WarehouseIDs []int64   `json:"warehouseIds"`
	IsActive     bool      `json:"isActive"`
	HasPIN       bool      `json:"hasPin"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	PasswordHash string  `json:"-"`
	PinHash      *string `json:"-"`
}

// Warehouses is the primary warehouse plus every assignment.
func (e *Employee) Warehouses() auth.WarehouseSet {
	set := auth.NewWarehouseSet(e.WarehouseIDs...)
	if e.WarehouseID != nil {
		set[*e.WarehouseID] = struct{}{}
	}
	return set
}

func FromDataModel(row *employeeDatamodel.Employee) *Employee {
	assigned := make([]int64, 0, len(row.Warehouses))
	for _, w := range row.Warehouses {
		assigned = append(assigned, w.ID)
	}

	e := &Employee{
		ID:           row.ID,
		Phone:        row.Phone,
		FullName:     row.FullName,
		RoleID:       row.RoleID,
		Role:         auth.ParseRole(row.Role.Name),
		WarehouseID:  row.WarehouseID,
		IsActive:     row.IsActive,
		HasPIN:       row.PinHash != nil,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
		PasswordHash: row.PasswordHash,
		PinHash:      row.PinHash,
	}
	e.WarehouseIDs = e.withPrimary(assigned)
	return e
}

func (e *Employee) withPrimary(assigned []int64) []int64 {
	set := auth.NewWarehouseSet(assigned...)
	if e.WarehouseID != nil {
		set[*e.WarehouseID] = struct{}{}
	}
	return set.IDs()
}

// Visibility narrows an employee listing to what one actor may see.
type Visibility struct {
	SelfID int64
	// Others is false when only the actor's own record is visible.
	Others bool
	// OtherRoles limits the others to these roles; empty means every non-admin role.
	OtherRoles []string
	// Warehouses limits the others to employees touching one of these; nil means any.
	Warehouses []int64
}
