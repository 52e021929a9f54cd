package expense

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID          int64           `gorm:"primaryKey"`
	WarehouseID int64           `gorm:"column:warehouse_id;not null;index"`
	EmployeeID  int64           `gorm:"column:employee_id;not null"`
	Category    string          `gorm:"column:category;not null"`
	Amount      decimal.Decimal `gorm:"column:amount;type:numeric(15,2);not null"`
	Description string          `gorm:"column:description"`
	ExpenseDate time.Time       `gorm:"column:expense_date;not null;index"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Expense) TableName() string {
	return "expenses"
}
