package expense

import (
	"time"

	expenseDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/expense"
	"github.com/shopspring/decimal"
)

type Expense struct {
	ID          int64           `json:"id"`
	WarehouseID int64           `json:"warehouseId"`
	EmployeeID  int64           `json:"employeeId"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	ExpenseDate time.Time       `json:"expenseDate"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

const (
	CategoryRent        = "rent"
	CategoryUtilities   = "utilities"
	CategorySalary      = "salary"
	CategorySupplies    = "supplies"
	CategoryTransport   = "transport"
	CategoryMaintenance = "maintenance"
	CategoryOther       = "other"
)

var Categories = []string{
	CategoryRent,
	CategoryUtilities,
	CategorySalary,
	CategorySupplies,
	CategoryTransport,
	CategoryMaintenance,
	CategoryOther,
}

func NewExpense(employeeID int64, dto CreateExpenseDTO) *Expense {
	return &Expense{
		WarehouseID: dto.WarehouseID,
		EmployeeID:  employeeID,
		Category:    dto.Category,
		Amount:      dto.Amount,
		Description: dto.Description,
		ExpenseDate: dto.ExpenseDate,
	}
}

func ToDataModel(e *Expense) *expenseDatamodel.Expense {
	return &expenseDatamodel.Expense{
		ID:          e.ID,
		WarehouseID: e.WarehouseID,
		EmployeeID:  e.EmployeeID,
		Category:    e.Category,
		Amount:      e.Amount,
		Description: e.Description,
		ExpenseDate: e.ExpenseDate,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func FromDataModel(e *expenseDatamodel.Expense) *Expense {
	return &Expense{
		ID:          e.ID,
		WarehouseID: e.WarehouseID,
		EmployeeID:  e.EmployeeID,
		Category:    e.Category,
		Amount:      e.Amount,
		Description: e.Description,
		ExpenseDate: e.ExpenseDate,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func FromDataModelSlice(expenses []*expenseDatamodel.Expense) []*Expense {
	result := make([]*Expense, len(expenses))
	for i, e := range expenses {
		result[i] = FromDataModel(e)
	}
	return result
}
