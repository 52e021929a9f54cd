package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/pos-platform/internal/category"
	"github.com/frahmantamala/pos-platform/internal/core/database"
	categoryDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/category"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) category.RepositoryAPI {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) List(ctx context.Context, activeOnly bool, offset, limit int) ([]*categoryDatamodel.Category, int64, error) {
	query := database.GetDB(ctx, r.db).Model(&categoryDatamodel.Category{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var categories []*categoryDatamodel.Category
	err := query.Order("name ASC").Offset(offset).Limit(limit).Find(&categories).Error
	return categories, total, err
}

func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*categoryDatamodel.Category, error) {
	var cat categoryDatamodel.Category
	err := database.GetDB(ctx, r.db).Where("LOWER(name) = LOWER(?)", name).First(&cat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*categoryDatamodel.Category, error) {
	var cat categoryDatamodel.Category
	err := database.GetDB(ctx, r.db).Where("id = ?", id).First(&cat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (r *CategoryRepository) CountActiveByIDs(ctx context.Context, ids []int64) (int64, error) {
	var count int64
	err := database.GetDB(ctx, r.db).
		Model(&categoryDatamodel.Category{}).
		Where("id IN ? AND is_active = ?", ids, true).
		Count(&count).Error
	return count, err
}

func (r *CategoryRepository) Create(ctx context.Context, cat *categoryDatamodel.Category) error {
	return database.GetDB(ctx, r.db).Create(cat).Error
}

func (r *CategoryRepository) Update(ctx context.Context, cat *categoryDatamodel.Category) error {
	return database.GetDB(ctx, r.db).Save(cat).Error
}
