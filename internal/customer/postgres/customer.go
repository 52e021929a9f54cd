package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/frahmantamala/pos-platform/internal/core/database"
	customerDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/customer"
	"github.com/frahmantamala/pos-platform/internal/customer"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) customer.RepositoryAPI {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) List(ctx context.Context, filter customer.ListFilter, offset, limit int) ([]*customerDatamodel.Customer, int64, error) {
	query := database.GetDB(ctx, r.db).Model(&customerDatamodel.Customer{})
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR phone LIKE ?", like, like)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*customerDatamodel.Customer
	err := query.Order("name ASC, id ASC").Offset(offset).Limit(limit).Find(&rows).Error
	return rows, total, err
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*customerDatamodel.Customer, error) {
	return r.first(database.GetDB(ctx, r.db).Where("id = ?", id))
}

func (r *CustomerRepository) GetByPhone(ctx context.Context, phone string) (*customerDatamodel.Customer, error) {
	return r.first(database.GetDB(ctx, r.db).Where("phone = ?", phone))
}

func (r *CustomerRepository) GetForUpdate(ctx context.Context, id int64) (*customerDatamodel.Customer, error) {
	return r.first(database.GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id))
}

func (r *CustomerRepository) first(query *gorm.DB) (*customerDatamodel.Customer, error) {
	var row customerDatamodel.Customer
	if err := query.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *CustomerRepository) Create(ctx context.Context, c *customerDatamodel.Customer) error {
	return database.GetDB(ctx, r.db).Create(c).Error
}

func (r *CustomerRepository) UpdateLoyaltyPoints(ctx context.Context, id int64, points int64) error {
	return database.GetDB(ctx, r.db).
		Model(&customerDatamodel.Customer{}).
		Where("id = ?", id).
		Update("loyalty_points", points).Error
}
