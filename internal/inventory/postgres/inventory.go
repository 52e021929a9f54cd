package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/frahmantamala/pos-platform/internal/core/database"
	inventoryDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/inventory"
	"github.com/frahmantamala/pos-platform/internal/inventory"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const recordColumns = `i.id AS inventory_id, i.product_id, i.warehouse_id, i.quantity, i.min_stock_level, i.max_stock_level,
	p.sku AS product_sku, p.name AS product_name, w.code AS warehouse_code, w.name AS warehouse_name`

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) inventory.RepositoryAPI {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) Get(ctx context.Context, productID, warehouseID int64) (*inventoryDatamodel.Inventory, error) {
	return r.first(database.GetDB(ctx, r.db), productID, warehouseID)
}

func (r *InventoryRepository) ListByProducts(ctx context.Context, productIDs []int64, warehouseID int64) ([]*inventoryDatamodel.Inventory, error) {
	var rows []*inventoryDatamodel.Inventory
	err := database.GetDB(ctx, r.db).
		Where("product_id IN ? AND warehouse_id = ?", productIDs, warehouseID).
		Find(&rows).Error
	return rows, err
}

func (r *InventoryRepository) Lock(ctx context.Context, productID, warehouseID int64) (*inventoryDatamodel.Inventory, error) {
	return r.first(database.GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), productID, warehouseID)
}

func (r *InventoryRepository) LockOrCreate(ctx context.Context, productID, warehouseID int64) (*inventoryDatamodel.Inventory, error) {
	placeholder := inventoryDatamodel.Inventory{ProductID: productID, WarehouseID: warehouseID}
	err := database.GetDB(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}, {Name: "warehouse_id"}},
			DoNothing: true,
		}).
		Create(&placeholder).Error
	if err != nil {
		return nil, err
	}

	row, err := r.Lock(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, errors.New("inventory row vanished after insert")
	}
	return row, nil
}

func (r *InventoryRepository) first(query *gorm.DB, productID, warehouseID int64) (*inventoryDatamodel.Inventory, error) {
	var row inventoryDatamodel.Inventory
	err := query.Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *InventoryRepository) UpdateQuantity(ctx context.Context, id, quantity int64) error {
	return database.GetDB(ctx, r.db).
		Model(&inventoryDatamodel.Inventory{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"quantity": quantity, "updated_at": time.Now()}).Error
}

func (r *InventoryRepository) UpdateLevels(ctx context.Context, id, minStockLevel, maxStockLevel int64) error {
	return database.GetDB(ctx, r.db).
		Model(&inventoryDatamodel.Inventory{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"min_stock_level": minStockLevel,
			"max_stock_level": maxStockLevel,
			"updated_at":      time.Now(),
		}).Error
}

func (r *InventoryRepository) CreateMovement(ctx context.Context, movement *inventoryDatamodel.StockMovement) error {
	return database.GetDB(ctx, r.db).Create(movement).Error
}

func (r *InventoryRepository) GetProductRef(ctx context.Context, productID int64) (*inventory.ProductRef, error) {
	var ref inventory.ProductRef
	err := database.GetDB(ctx, r.db).
		Table("products").
		Select("id, sku, name, is_active").
		Where("id = ?", productID).
		Take(&ref).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ref, nil
}

func (r *InventoryRepository) ListRecords(ctx context.Context, q inventory.RecordQuery, offset, limit int) ([]inventory.Record, int64, error) {
	query := r.joined(ctx)
	if q.WarehouseIDs != nil {
		query = query.Where("i.warehouse_id IN ?", q.WarehouseIDs)
	}
	query = applyProductFilters(query, q).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []inventory.Record
	err := query.Select(recordColumns).
		Order("p.name ASC, w.code ASC, i.id ASC").
		Offset(offset).
		Limit(limit).
		Scan(&records).Error
	return records, total, err
}

func (r *InventoryRepository) ListWarehouseRecords(ctx context.Context, warehouseID int64, q inventory.RecordQuery, offset, limit int) ([]inventory.Record, int64, error) {
	query := database.GetDB(ctx, r.db).
		Table("products AS p").
		Joins("LEFT JOIN inventory i ON i.product_id = p.id AND i.warehouse_id = ?", warehouseID).
		Where("p.is_active = ?", true)
	query = applyProductFilters(query, q).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []inventory.Record
	err := query.Select(`i.id AS inventory_id, p.id AS product_id,
		COALESCE(i.quantity, 0) AS quantity,
		COALESCE(i.min_stock_level, 0) AS min_stock_level,
		COALESCE(i.max_stock_level, 0) AS max_stock_level,
		p.sku AS product_sku, p.name AS product_name`).
		Order("p.name ASC, p.id ASC").
		Offset(offset).
		Limit(limit).
		Scan(&records).Error
	return records, total, err
}

func (r *InventoryRepository) LowStockRecords(ctx context.Context, warehouseIDs []int64) ([]inventory.Record, error) {
	query := r.joined(ctx).Where("i.quantity <= i.min_stock_level")
	if warehouseIDs != nil {
		query = query.Where("i.warehouse_id IN ?", warehouseIDs)
	}

	var records []inventory.Record
	err := query.Select(recordColumns).Order("i.id ASC").Scan(&records).Error
	return records, err
}

func (r *InventoryRepository) ListMovements(ctx context.Context, filter inventory.MovementFilter, warehouseIDs []int64, offset, limit int) ([]*inventoryDatamodel.StockMovement, int64, error) {
	query := database.GetDB(ctx, r.db).Model(&inventoryDatamodel.StockMovement{})
	if filter.WarehouseID != nil {
		query = query.Where("warehouse_id = ?", *filter.WarehouseID)
	} else if warehouseIDs != nil {
		query = query.Where("warehouse_id IN ?", warehouseIDs)
	}
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Reference != "" {
		query = query.Where("reference = ?", filter.Reference)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*inventoryDatamodel.StockMovement
	err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&rows).Error
	return rows, total, err
}

func (r *InventoryRepository) joined(ctx context.Context) *gorm.DB {
	return database.GetDB(ctx, r.db).
		Table("inventory AS i").
		Joins("JOIN products p ON p.id = i.product_id").
		Joins("JOIN warehouses w ON w.id = i.warehouse_id")
}

func applyProductFilters(query *gorm.DB, q inventory.RecordQuery) *gorm.DB {
	if q.ProductID != nil {
		query = query.Where("p.id = ?", *q.ProductID)
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(p.name) LIKE ? OR LOWER(p.sku) LIKE ? OR p.barcode = ?)", like, like, search)
	}
	return query
}
