package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/pos-platform/internal/core/database"
	productDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/product"
	saleDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/sale"
	"github.com/frahmantamala/pos-platform/internal/sale"
	"gorm.io/gorm"
)

type SaleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) sale.RepositoryAPI {
	return &SaleRepository{db: db}
}

func (r *SaleRepository) GetProducts(ctx context.Context, ids []int64) ([]sale.PricedProduct, error) {
	var rows []sale.PricedProduct
	err := database.GetDB(ctx, r.db).
		Model(&productDatamodel.Product{}).
		Select("id, name, selling_price, is_active").
		Where("id IN ?", ids).
		Scan(&rows).Error
	return rows, err
}

// Create inserts the sale together with its items.
func (r *SaleRepository) Create(ctx context.Context, s *saleDatamodel.Sale) error {
	return database.GetDB(ctx, r.db).Create(s).Error
}

func (r *SaleRepository) GetByID(ctx context.Context, id int64) (*saleDatamodel.Sale, error) {
	var row saleDatamodel.Sale
	err := database.GetDB(ctx, r.db).Preload("Items").Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *SaleRepository) List(ctx context.Context, warehouseIDs []int64, filter sale.ListFilter, offset, limit int) ([]*saleDatamodel.Sale, int64, error) {
	query := database.GetDB(ctx, r.db).Model(&saleDatamodel.Sale{})
	if warehouseIDs != nil {
		query = query.Where("warehouse_id IN ?", warehouseIDs)
	}
	if filter.EmployeeID != nil {
		query = query.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*saleDatamodel.Sale
	err := query.Preload("Items").
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	return rows, total, err
}
