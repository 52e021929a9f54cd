package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/frahmantamala/pos-platform/internal/auth"
	"github.com/frahmantamala/pos-platform/internal/core/database"
	employeeDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/employee"
	"github.com/frahmantamala/pos-platform/internal/employee"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.RepositoryAPI {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) List(ctx context.Context, visibility employee.Visibility, filter employee.ListFilter, offset, limit int) ([]*employeeDatamodel.Employee, int64, error) {
	db := database.GetDB(ctx, r.db)
	query := db.Model(&employeeDatamodel.Employee{}).
		Joins("JOIN roles ON roles.id = employees.role_id")

	if visibility.Others {
		others := db.Where("roles.name <> ?", auth.RoleAdmin.String())
		if len(visibility.OtherRoles) > 0 {
			others = db.Where("roles.name IN ?", visibility.OtherRoles)
		}
		if visibility.Warehouses != nil {
			others = others.Where(
				"(employees.warehouse_id IN ? OR employees.id IN (SELECT employee_id FROM employee_warehouses WHERE warehouse_id IN ?))",
				visibility.Warehouses, visibility.Warehouses,
			)
		}
		query = query.Where(db.Where("employees.id = ?", visibility.SelfID).Or(others))
	} else {
		query = query.Where("employees.id = ?", visibility.SelfID)
	}

	if filter.WarehouseID != nil {
		query = query.Where(
			"(employees.warehouse_id = ? OR employees.id IN (SELECT employee_id FROM employee_warehouses WHERE warehouse_id = ?))",
			*filter.WarehouseID, *filter.WarehouseID,
		)
	}
	if filter.IsActive != nil {
		query = query.Where("employees.is_active = ?", *filter.IsActive)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(employees.full_name) LIKE ? OR employees.phone LIKE ?)", like, like)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*employeeDatamodel.Employee
	err := query.Preload("Role").
		Preload("Warehouses").
		Order("employees.full_name ASC, employees.id ASC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	return rows, total, err
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error) {
	return r.first(database.GetDB(ctx, r.db).Preload("Role").Preload("Warehouses").Where("id = ?", id))
}

func (r *EmployeeRepository) GetByPhone(ctx context.Context, phone string) (*employeeDatamodel.Employee, error) {
	return r.first(database.GetDB(ctx, r.db).Where("phone = ?", phone))
}

func (r *EmployeeRepository) first(query *gorm.DB) (*employeeDatamodel.Employee, error) {
	var row employeeDatamodel.Employee
	if err := query.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *EmployeeRepository) GetRoleByName(ctx context.Context, name string) (*employeeDatamodel.Role, error) {
	var role employeeDatamodel.Role
	err := database.GetDB(ctx, r.db).Where("LOWER(name) = LOWER(?)", name).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func (r *EmployeeRepository) Create(ctx context.Context, e *employeeDatamodel.Employee, warehouseIDs []int64) error {
	db := database.GetDB(ctx, r.db)
	if err := db.Omit(clause.Associations).Create(e).Error; err != nil {
		return err
	}
	return r.assign(db, e.ID, warehouseIDs)
}

func (r *EmployeeRepository) Update(ctx context.Context, e *employeeDatamodel.Employee) error {
	return database.GetDB(ctx, r.db).Omit(clause.Associations).Save(e).Error
}

func (r *EmployeeRepository) ReplaceWarehouses(ctx context.Context, employeeID int64, warehouseIDs []int64) error {
	db := database.GetDB(ctx, r.db)
	if err := db.Where("employee_id = ?", employeeID).Delete(&employeeDatamodel.EmployeeWarehouse{}).Error; err != nil {
		return err
	}
	return r.assign(db, employeeID, warehouseIDs)
}

func (r *EmployeeRepository) assign(db *gorm.DB, employeeID int64, warehouseIDs []int64) error {
	if len(warehouseIDs) == 0 {
		return nil
	}
	rows := make([]employeeDatamodel.EmployeeWarehouse, 0, len(warehouseIDs))
	for _, id := range warehouseIDs {
		rows = append(rows, employeeDatamodel.EmployeeWarehouse{EmployeeID: employeeID, WarehouseID: id})
	}
	return db.Create(&rows).Error
}

func (r *EmployeeRepository) UpdatePIN(ctx context.Context, employeeID int64, pinHash string) error {
	return database.GetDB(ctx, r.db).
		Model(&employeeDatamodel.Employee{}).
		Where("id = ?", employeeID).
		Update("pin_hash", pinHash).Error
}
