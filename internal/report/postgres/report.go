package postgres

import (
	"context"
	"strings"

	"github.com/frahmantamala/pos-platform/internal/report"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type ReportRepository struct {
	DB *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) report.RepositoryAPI {
	return &ReportRepository{DB: db}
}

func (r *ReportRepository) SalesTotals(ctx context.Context, warehouseIDs []int64, filter report.Filter) (report.SalesTotals, error) {
	query, args, err := r.build(`
		SELECT COUNT(*) AS sales_count,
		       COALESCE(SUM(total_amount), 0) AS revenue,
		       COALESCE(SUM(discount_amount), 0) AS discounts
		FROM sales`, "created_at", warehouseIDs, filter)
	if err != nil {
		return report.SalesTotals{}, err
	}

	var totals report.SalesTotals
	err = r.DB.GetContext(ctx, &totals, query, args...)
	return totals, err
}

func (r *ReportRepository) ExpenseTotal(ctx context.Context, warehouseIDs []int64, filter report.Filter) (decimal.Decimal, error) {
	query, args, err := r.build(`SELECT COALESCE(SUM(amount), 0) FROM expenses`, "expense_date", warehouseIDs, filter)
	if err != nil {
		return decimal.Zero, err
	}

	var total decimal.Decimal
	err = r.DB.GetContext(ctx, &total, query, args...)
	return total, err
}

func (r *ReportRepository) Valuation(ctx context.Context, warehouseIDs []int64) ([]report.WarehouseValuation, error) {
	query := `
		SELECT w.id AS warehouse_id, w.code, w.name,
		       COALESCE(SUM(i.quantity), 0) AS units,
		       COALESCE(SUM(i.quantity * p.purchase_price), 0) AS cost_value,
		       COALESCE(SUM(i.quantity * p.selling_price), 0) AS retail_value
		FROM warehouses w
		LEFT JOIN inventory i ON i.warehouse_id = w.id
		LEFT JOIN products p ON p.id = i.product_id`
	var args []interface{}
	if warehouseIDs != nil {
		var err error
		query, args, err = sqlx.In(query+` WHERE w.id IN (?)`, warehouseIDs)
		if err != nil {
			return nil, err
		}
	}
	query = r.DB.Rebind(query + ` GROUP BY w.id, w.code, w.name ORDER BY w.id`)

	var rows []report.WarehouseValuation
	err := r.DB.SelectContext(ctx, &rows, query, args...)
	return rows, err
}

// build appends the warehouse and period conditions shared by the totals
// queries and rebinds for the driver.
func (r *ReportRepository) build(base, dateColumn string, warehouseIDs []int64, filter report.Filter) (string, []interface{}, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if warehouseIDs != nil {
		in, inArgs, err := sqlx.In("warehouse_id IN (?)", warehouseIDs)
		if err != nil {
			return "", nil, err
		}
		conditions = append(conditions, in)
		args = append(args, inArgs...)
	}
	if filter.From != nil {
		conditions = append(conditions, dateColumn+" >= ?")
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conditions = append(conditions, dateColumn+" < ?")
		args = append(args, *filter.To)
	}

	query := base
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	return r.DB.Rebind(query), args, nil
}
