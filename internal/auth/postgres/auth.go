package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/pos-platform/internal/auth"
	"github.com/frahmantamala/pos-platform/internal/core/database"
	employeeDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/employee"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetCredentialsByPhone(ctx context.Context, phone string) (*auth.Credentials, error) {
	var creds auth.Credentials
	err := database.GetDB(ctx, r.db).
		Table("employees").
		Select("id, password_hash, pin_hash, is_active").
		Where("phone = ?", phone).
		Take(&creds).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &creds, nil
}

func (r *Repository) GetActor(ctx context.Context, employeeID int64) (*auth.Actor, error) {
	var emp employeeDatamodel.Employee
	err := database.GetDB(ctx, r.db).
		Preload("Role.Permissions").
		Where("id = ? AND is_active = ?", employeeID, true).
		Take(&emp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	permissions := make([]string, 0, len(emp.Role.Permissions))
	for _, p := range emp.Role.Permissions {
		permissions = append(permissions, p.Code)
	}

	return &auth.Actor{
		EmployeeID:  emp.ID,
		Name:        emp.FullName,
		Role:        auth.ParseRole(emp.Role.Name),
		Permissions: permissions,
	}, nil
}

// GetWarehouseAssignments returns the primary warehouse and the explicit
// assignment rows. A missing employee has no assignments.
func (r *Repository) GetWarehouseAssignments(ctx context.Context, employeeID int64) (*int64, []int64, error) {
	db := database.GetDB(ctx, r.db)

	var primary struct {
		WarehouseID *int64 `gorm:"column:warehouse_id"`
	}
	err := db.Model(&employeeDatamodel.Employee{}).
		Select("warehouse_id").
		Where("id = ?", employeeID).
		Take(&primary).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	var assigned []int64
	if err := db.Model(&employeeDatamodel.EmployeeWarehouse{}).
		Where("employee_id = ?", employeeID).
		Order("warehouse_id").
		Pluck("warehouse_id", &assigned).Error; err != nil {
		return nil, nil, err
	}

	return primary.WarehouseID, assigned, nil
}
