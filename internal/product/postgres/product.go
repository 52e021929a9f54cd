package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/frahmantamala/pos-platform/internal/core/database"
	inventoryDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/inventory"
	productDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/product"
	purchaseDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/purchase"
	saleDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/sale"
	"github.com/frahmantamala/pos-platform/internal/product"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) product.RepositoryAPI {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) List(ctx context.Context, filter product.ListFilter, offset, limit int) ([]*productDatamodel.Product, int64, error) {
	query := database.GetDB(ctx, r.db).Model(&productDatamodel.Product{})
	if !filter.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	if filter.CategoryID != nil {
		query = query.Where("id IN (SELECT product_id FROM product_categories WHERE category_id = ?)", *filter.CategoryID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(sku) LIKE ? OR barcode = ?)", like, like, search)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*productDatamodel.Product
	err := query.Preload("Categories").
		Order("name ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	return rows, total, err
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*productDatamodel.Product, error) {
	return r.first(database.GetDB(ctx, r.db).Preload("Categories").Where("id = ?", id))
}

func (r *ProductRepository) GetBySKU(ctx context.Context, sku string) (*productDatamodel.Product, error) {
	return r.first(database.GetDB(ctx, r.db).Where("UPPER(sku) = UPPER(?)", sku))
}

func (r *ProductRepository) GetByBarcode(ctx context.Context, barcode string) (*productDatamodel.Product, error) {
	return r.first(database.GetDB(ctx, r.db).Where("barcode = ?", barcode))
}

func (r *ProductRepository) first(query *gorm.DB) (*productDatamodel.Product, error) {
	var row productDatamodel.Product
	if err := query.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *productDatamodel.Product, categoryIDs []int64) error {
	db := database.GetDB(ctx, r.db)
	if err := db.Omit(clause.Associations).Create(p).Error; err != nil {
		return err
	}
	return r.linkCategories(db, p.ID, categoryIDs)
}

func (r *ProductRepository) Update(ctx context.Context, p *productDatamodel.Product) error {
	return database.GetDB(ctx, r.db).Omit(clause.Associations).Save(p).Error
}

func (r *ProductRepository) ReplaceCategories(ctx context.Context, productID int64, categoryIDs []int64) error {
	db := database.GetDB(ctx, r.db)
	if err := db.Where("product_id = ?", productID).Delete(&productDatamodel.ProductCategory{}).Error; err != nil {
		return err
	}
	return r.linkCategories(db, productID, categoryIDs)
}

func (r *ProductRepository) linkCategories(db *gorm.DB, productID int64, categoryIDs []int64) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	links := make([]productDatamodel.ProductCategory, 0, len(categoryIDs))
	seen := make(map[int64]struct{}, len(categoryIDs))
	for _, id := range categoryIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		links = append(links, productDatamodel.ProductCategory{ProductID: productID, CategoryID: id})
	}
	return db.Create(&links).Error
}

func (r *ProductRepository) CountHistory(ctx context.Context, productID int64) (product.History, error) {
	db := database.GetDB(ctx, r.db)

	// Lines referencing the product cannot be inserted while the row is locked.
	var locked productDatamodel.Product
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").Where("id = ?", productID).Take(&locked).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return product.History{}, err
	}

	var history product.History
	if err := db.Model(&saleDatamodel.SaleItem{}).Where("product_id = ?", productID).Count(&history.SaleLines).Error; err != nil {
		return product.History{}, err
	}
	if err := db.Model(&purchaseDatamodel.PurchaseOrderItem{}).Where("product_id = ?", productID).Count(&history.PurchaseOrderLines).Error; err != nil {
		return product.History{}, err
	}
	return history, nil
}

// Delete must run inside a transaction. Stock movements have no foreign key
// cascade and are removed explicitly.
func (r *ProductRepository) Delete(ctx context.Context, productID int64) error {
	db := database.GetDB(ctx, r.db)

	steps := []struct {
		model interface{}
		where string
	}{
		{&inventoryDatamodel.StockMovement{}, "product_id = ?"},
		{&inventoryDatamodel.Inventory{}, "product_id = ?"},
		{&productDatamodel.ProductCategory{}, "product_id = ?"},
		{&productDatamodel.Product{}, "id = ?"},
	}
	for _, step := range steps {
		if err := db.Where(step.where, productID).Delete(step.model).Error; err != nil {
			return err
		}
	}
	return nil
}
