package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/pos-platform/internal/core/database"
	warehouseDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/warehouse"
	"github.com/frahmantamala/pos-platform/internal/warehouse"
	"gorm.io/gorm"
)

type WarehouseRepository struct {
	db *gorm.DB
}

func NewWarehouseRepository(db *gorm.DB) warehouse.RepositoryAPI {
	return &WarehouseRepository{db: db}
}

func (r *WarehouseRepository) List(ctx context.Context, ids []int64, offset, limit int) ([]*warehouseDatamodel.Warehouse, int64, error) {
	query := database.GetDB(ctx, r.db).Model(&warehouseDatamodel.Warehouse{})
	if ids != nil {
		query = query.Where("id IN ?", ids)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*warehouseDatamodel.Warehouse
	err := query.Order("name ASC, id ASC").Offset(offset).Limit(limit).Find(&rows).Error
	return rows, total, err
}

func (r *WarehouseRepository) GetByID(ctx context.Context, id int64) (*warehouseDatamodel.Warehouse, error) {
	var row warehouseDatamodel.Warehouse
	err := database.GetDB(ctx, r.db).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *WarehouseRepository) GetByCode(ctx context.Context, code string) (*warehouseDatamodel.Warehouse, error) {
	var row warehouseDatamodel.Warehouse
	err := database.GetDB(ctx, r.db).Where("code = ?", code).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *WarehouseRepository) CountByIDs(ctx context.Context, ids []int64) (int64, error) {
	var count int64
	err := database.GetDB(ctx, r.db).Model(&warehouseDatamodel.Warehouse{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

func (r *WarehouseRepository) Create(ctx context.Context, w *warehouseDatamodel.Warehouse) error {
	return database.GetDB(ctx, r.db).Create(w).Error
}

func (r *WarehouseRepository) Update(ctx context.Context, w *warehouseDatamodel.Warehouse) error {
	return database.GetDB(ctx, r.db).Save(w).Error
}
