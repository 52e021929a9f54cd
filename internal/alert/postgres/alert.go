package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/pos-platform/internal/alert"
	"github.com/frahmantamala/pos-platform/internal/core/database"
	alertDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/alert"
	"gorm.io/gorm"
)

type AlertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) alert.RepositoryAPI {
	return &AlertRepository{db: db}
}

func (r *AlertRepository) Create(ctx context.Context, a *alertDatamodel.Alert) error {
	return database.GetDB(ctx, r.db).Create(a).Error
}

func (r *AlertRepository) GetByID(ctx context.Context, id int64) (*alertDatamodel.Alert, error) {
	var row alertDatamodel.Alert
	if err := database.GetDB(ctx, r.db).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *AlertRepository) List(ctx context.Context, warehouseIDs []int64, filter alert.ListFilter, offset, limit int) ([]*alertDatamodel.Alert, int64, error) {
	query := database.GetDB(ctx, r.db).Model(&alertDatamodel.Alert{})
	if warehouseIDs != nil {
		query = query.Where("warehouse_id IN ?", warehouseIDs)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*alertDatamodel.Alert
	err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&rows).Error
	return rows, total, err
}

func (r *AlertRepository) MarkRead(ctx context.Context, id int64) error {
	return database.GetDB(ctx, r.db).
		Model(&alertDatamodel.Alert{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}
