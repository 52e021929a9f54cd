package employee

import (
	"time"

	warehouseDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/warehouse"
)

type Permission struct {
	ID          int64     `gorm:"primaryKey"`
	Code        string    `gorm:"column:code;uniqueIndex;not null"`
	Name        string    `gorm:"column:name;not null"`
	Group       string    `gorm:"column:group_name"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Permission) TableName() string {
	return "permissions"
}

type Role struct {
	ID          int64        `gorm:"primaryKey"`
	Name        string       `gorm:"column:name;uniqueIndex;not null"`
	Description string       `gorm:"column:description"`
	IsSystem    bool         `gorm:"column:is_system"`
	Permissions []Permission `gorm:"many2many:role_permissions;"`
	CreatedAt   time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time    `gorm:"column:updated_at;autoUpdateTime"`
}

func (Role) TableName() string {
	return "roles"
}

type Employee struct {
	ID           int64                          `gorm:"primaryKey"`
	Phone        string                         `gorm:"column:phone;uniqueIndex;not null"`
	PasswordHash string                         `gorm:"column:password_hash;not null"`
	PinHash      *string                        `gorm:"column:pin_hash"`
	FullName     string                         `gorm:"column:full_name;not null"`
	RoleID       int64                          `gorm:"column:role_id;not null;index"`
	Role         Role                           `gorm:"foreignKey:RoleID"`
	WarehouseID  *int64                         `gorm:"column:warehouse_id;index"`
	Warehouses   []warehouseDatamodel.Warehouse `gorm:"many2many:employee_warehouses;"`
	IsActive     bool                           `gorm:"column:is_active"`
	CreatedAt    time.Time                      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time                      `gorm:"column:updated_at;autoUpdateTime"`
}

func (Employee) TableName() string {
	return "employees"
}

// EmployeeWarehouse is the assignment join row beyond the primary warehouse.
type EmployeeWarehouse struct {
	EmployeeID  int64 `gorm:"column:employee_id;primaryKey"`
	WarehouseID int64 `gorm:"column:warehouse_id;primaryKey"`
}

func (EmployeeWarehouse) TableName() string {
	return "employee_warehouses"
}
