package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/pos-platform/internal/core/database"
	expenseDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/expense"
	"github.com/frahmantamala/pos-platform/internal/expense"
	"gorm.io/gorm"
)

// ExpenseRepository implements expense.RepositoryAPI using GORM
type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) expense.RepositoryAPI {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(ctx context.Context, exp *expenseDatamodel.Expense) error {
	return database.GetDB(ctx, r.db).Create(exp).Error
}

func (r *ExpenseRepository) GetByID(ctx context.Context, id int64) (*expenseDatamodel.Expense, error) {
	var exp expenseDatamodel.Expense
	err := database.GetDB(ctx, r.db).Where("id = ?", id).First(&exp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &exp, nil
}

func (r *ExpenseRepository) List(ctx context.Context, warehouseIDs []int64, filter expense.ListFilter, offset, limit int) ([]*expenseDatamodel.Expense, int64, error) {
	query := database.GetDB(ctx, r.db).Model(&expenseDatamodel.Expense{})
	if warehouseIDs != nil {
		query = query.Where("warehouse_id IN ?", warehouseIDs)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.From != nil {
		query = query.Where("expense_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("expense_date < ?", *filter.To)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var expenses []*expenseDatamodel.Expense
	err := query.Order("expense_date DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&expenses).Error
	return expenses, total, err
}

func (r *ExpenseRepository) Update(ctx context.Context, exp *expenseDatamodel.Expense) error {
	exp.UpdatedAt = time.Now()
	return database.GetDB(ctx, r.db).Save(exp).Error
}

func (r *ExpenseRepository) Delete(ctx context.Context, id int64) error {
	return database.GetDB(ctx, r.db).Delete(&expenseDatamodel.Expense{}, id).Error
}
