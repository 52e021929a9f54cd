// Package databasetest opens in-memory SQLite databases with the full schema
// for repository and service tests.
package databasetest

import (
	"fmt"

	alertDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/alert"
	categoryDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/category"
	customerDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/customer"
	employeeDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/employee"
	expenseDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/expense"
	inventoryDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/inventory"
	productDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/product"
	purchaseDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/purchase"
	saleDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/sale"
	warehouseDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/warehouse"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table of the schema in dependency order.
func Models() []interface{} {
	return []interface{}{
		&employeeDatamodel.Permission{},
		&employeeDatamodel.Role{},
		&warehouseDatamodel.Warehouse{},
		&employeeDatamodel.Employee{},
		&employeeDatamodel.EmployeeWarehouse{},
		&categoryDatamodel.Category{},
		&productDatamodel.Product{},
		&productDatamodel.ProductCategory{},
		&inventoryDatamodel.Inventory{},
		&inventoryDatamodel.StockMovement{},
		&customerDatamodel.Customer{},
		&saleDatamodel.Sale{},
		&saleDatamodel.SaleItem{},
		&purchaseDatamodel.PurchaseOrderItem{},
		&expenseDatamodel.Expense{},
		&alertDatamodel.Alert{},
	}
}

// Open returns a migrated in-memory database. The pool is capped at one
// connection so every statement, including transactions, sees the same data.
func Open() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return db, nil
}

// SQLX wraps the same connection for sqlx-based read queries.
func SQLX(db *gorm.DB) (*sqlx.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return sqlx.NewDb(sqlDB, "sqlite3"), nil
}
