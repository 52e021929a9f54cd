package report

import (
	"time"

	"github.com/shopspring/decimal"
)

type Filter struct {
	WarehouseID *int64
	From        *time.Time
	// To is exclusive.
	To *time.Time
}

// SalesTotals aggregates sales rows.
type SalesTotals struct {
	Count     int64           `db:"sales_count"`
	Revenue   decimal.Decimal `db:"revenue"`
	Discounts decimal.Decimal `db:"discounts"`
}

type FinancialSummary struct {
	From        *time.Time      `json:"from,omitempty"`
	To          *time.Time      `json:"to,omitempty"`
	WarehouseID *int64          `json:"warehouseId,omitempty"`
	SalesCount  int64           `json:"salesCount"`
	Revenue     decimal.Decimal `json:"revenue"`
	Discounts   decimal.Decimal `json:"discounts"`
	Expenses    decimal.Decimal `json:"expenses"`
	Net         decimal.Decimal `json:"net"`
}

type WarehouseValuation struct {
	WarehouseID int64           `db:"warehouse_id" json:"warehouseId"`
	Code        string          `db:"code" json:"code"`
	Name        string          `db:"name" json:"name"`
	Units       int64           `db:"units" json:"units"`
	CostValue   decimal.Decimal `db:"cost_value" json:"costValue"`
	RetailValue decimal.Decimal `db:"retail_value" json:"retailValue"`
}

type StockValuation struct {
	Warehouses  []WarehouseValuation `json:"warehouses"`
	Units       int64                `json:"units"`
	CostValue   decimal.Decimal      `json:"costValue"`
	RetailValue decimal.Decimal      `json:"retailValue"`
}

func NewStockValuation(rows []WarehouseValuation) *StockValuation {
	v := &StockValuation{Warehouses: rows, CostValue: decimal.Zero, RetailValue: decimal.Zero}
	if v.Warehouses == nil {
		v.Warehouses = []WarehouseValuation{}
	}
	for _, row := range rows {
		v.Units += row.Units
		v.CostValue = v.CostValue.Add(row.CostValue)
		v.RetailValue = v.RetailValue.Add(row.RetailValue)
	}
	return v
}
