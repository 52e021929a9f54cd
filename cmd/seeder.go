package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/frahmantamala/pos-platform/internal/auth"
	"github.com/frahmantamala/pos-platform/internal/core/database"
	categoryDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/category"
	employeeDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/employee"
	inventoryDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/inventory"
	productDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/product"
	warehouseDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/warehouse"
	"github.com/frahmantamala/pos-platform/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const seedPassword = "password"

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := database.Open(cfg.Database.GetDSN(), poolConfig(cfg.Database), logger.LoggerWrapper())
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		ctx := context.Background()
		if clearData {
			if err := clearSeedData(ctx, db); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		if err := seedData(ctx, db, bcrypt.DefaultCost); err != nil {
			log.Fatalf("failed to seed: %v", err)
		}
		fmt.Printf("Seeded sample data; every employee logs in with password %q\n", seedPassword)
	},
}

type seedEmployee struct {
	Phone     string
	Name      string
	Role      auth.Role
	Warehouse string
}

var (
	seedWarehouses = []warehouseDatamodel.Warehouse{
		{Code: "BTQ-01", Name: "Boutique Centre", Type: warehouseDatamodel.TypeBoutique, Address: "1 Main Street", IsActive: true},
		{Code: "BTQ-02", Name: "Boutique Gare", Type: warehouseDatamodel.TypeBoutique, Address: "12 Station Road", IsActive: true},
		{Code: "STK-01", Name: "Depot Nord", Type: warehouseDatamodel.TypeStockage, Address: "Zone Industrielle", IsActive: true},
	}

	seedEmployees = []seedEmployee{
		{Phone: "+33600000001", Name: "Admin", Role: auth.RoleAdmin},
		{Phone: "+33600000002", Name: "Manager Centre", Role: auth.RoleManager, Warehouse: "BTQ-01"},
		{Phone: "+33600000003", Name: "Cashier Centre", Role: auth.RoleCashier, Warehouse: "BTQ-01"},
		{Phone: "+33600000004", Name: "Cashier Gare", Role: auth.RoleCashier, Warehouse: "BTQ-02"},
	}

	seedCategories = []categoryDatamodel.Category{
		{Name: "Clothing", Description: "Shirts, trousers and dresses", IsActive: true},
		{Name: "Accessories", Description: "Hats, belts and bags", IsActive: true},
	}

	seedProducts = []productDatamodel.Product{
		{SKU: "TSHIRT-WHT-M", Name: "White T-shirt M", PurchasePrice: decimal.NewFromInt(6), SellingPrice: decimal.NewFromInt(15), Unit: "pcs", IsActive: true},
		{SKU: "JEANS-BLU-32", Name: "Blue Jeans 32", PurchasePrice: decimal.NewFromInt(22), SellingPrice: decimal.NewFromInt(49), Unit: "pcs", IsActive: true},
		{SKU: "CAP-BLK", Name: "Black Cap", PurchasePrice: decimal.NewFromInt(4), SellingPrice: decimal.RequireFromString("12.50"), Unit: "pcs", IsActive: true},
	}
)

// seedData inserts reference rows that are missing. Running it twice leaves
// the database unchanged.
func seedData(ctx context.Context, db *gorm.DB, bcryptCost int) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		permissions := make(map[string]employeeDatamodel.Permission, len(auth.Permissions))
		for _, def := range auth.Permissions {
			p := employeeDatamodel.Permission{Code: def.Code, Name: def.Name, Group: def.Group}
			if err := tx.Where("code = ?", def.Code).FirstOrCreate(&p).Error; err != nil {
				return fmt.Errorf("permission %s: %w", def.Code, err)
			}
			permissions[def.Code] = p
		}

		roles := make(map[auth.Role]employeeDatamodel.Role)
		for _, role := range []auth.Role{auth.RoleAdmin, auth.RoleManager, auth.RoleCashier} {
			r := employeeDatamodel.Role{Name: role.String(), Description: "System role", IsSystem: true}
			if err := tx.Where("name = ?", r.Name).FirstOrCreate(&r).Error; err != nil {
				return fmt.Errorf("role %s: %w", role, err)
			}
			granted := make([]employeeDatamodel.Permission, 0, len(auth.DefaultPermissions[role]))
			for _, code := range auth.DefaultPermissions[role] {
				granted = append(granted, permissions[code])
			}
			if len(granted) > 0 {
				if err := tx.Model(&r).Association("Permissions").Append(granted); err != nil {
					return fmt.Errorf("grant %s: %w", role, err)
				}
			}
			roles[role] = r
		}

		warehouses := make(map[string]warehouseDatamodel.Warehouse, len(seedWarehouses))
		for _, w := range seedWarehouses {
			if err := tx.Where("code = ?", w.Code).FirstOrCreate(&w).Error; err != nil {
				return fmt.Errorf("warehouse %s: %w", w.Code, err)
			}
			warehouses[w.Code] = w
		}

		hash, err := auth.HashSecret(seedPassword, bcryptCost)
		if err != nil {
			return err
		}
		for _, se := range seedEmployees {
			e := employeeDatamodel.Employee{
				Phone:        se.Phone,
				FullName:     se.Name,
				PasswordHash: hash,
				RoleID:       roles[se.Role].ID,
				IsActive:     true,
			}
			if se.Warehouse != "" {
				id := warehouses[se.Warehouse].ID
				e.WarehouseID = &id
			}
			if err := tx.Where("phone = ?", se.Phone).FirstOrCreate(&e).Error; err != nil {
				return fmt.Errorf("employee %s: %w", se.Phone, err)
			}
		}

		for _, c := range seedCategories {
			if err := tx.Where("name = ?", c.Name).FirstOrCreate(&c).Error; err != nil {
				return fmt.Errorf("category %s: %w", c.Name, err)
			}
		}

		for _, p := range seedProducts {
			if err := tx.Where("sku = ?", p.SKU).FirstOrCreate(&p).Error; err != nil {
				return fmt.Errorf("product %s: %w", p.SKU, err)
			}
			for _, w := range warehouses {
				inv := inventoryDatamodel.Inventory{ProductID: p.ID, WarehouseID: w.ID, Quantity: 20, MinStockLevel: 5, MaxStockLevel: 100}
				if err := tx.Where("product_id = ? AND warehouse_id = ?", p.ID, w.ID).FirstOrCreate(&inv).Error; err != nil {
					return fmt.Errorf("inventory %s@%s: %w", p.SKU, w.Code, err)
				}
			}
		}

		return nil
	})
}

// clearSeedData empties every table in reverse dependency order.
func clearSeedData(ctx context.Context, db *gorm.DB) error {
	tables := []string{
		"alerts", "expenses", "sale_items", "sales", "purchase_order_items", "customers",
		"stock_movements", "inventory", "product_categories", "products", "categories",
		"employee_warehouses", "employees", "warehouses", "role_permissions", "roles", "permissions",
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}
