package expense

import (
	"strings"
	"time"

	"github.com/frahmantamala/pos-platform/internal"
	"github.com/frahmantamala/pos-platform/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

type CreateExpenseDTO struct {
	WarehouseID int64           `json:"warehouseId"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	ExpenseDate time.Time       `json:"expenseDate"`
}

func (dto *CreateExpenseDTO) Normalize() {
	dto.Category = strings.ToLower(strings.TrimSpace(dto.Category))
	dto.Description = strings.TrimSpace(dto.Description)
	if dto.ExpenseDate.IsZero() {
		dto.ExpenseDate = time.Now()
	}
}

func (dto CreateExpenseDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("warehouseId", dto.WarehouseID).Required()
	validator.Field("category", dto.Category).Required().OneOf(Categories...)
	validator.Field("amount", dto.Amount).PositiveDecimal(internal.ErrCodeInvalidAmount)
	validator.Field("description", dto.Description).MaxLength(500)
	validator.Field("expenseDate", dto.ExpenseDate).NotFuture()
	if err := validator.Validate(); err != nil {
		return err
	}
	return nil
}

// UpdateExpenseDTO changes only the fields that are set.
type UpdateExpenseDTO struct {
	WarehouseID *int64           `json:"warehouseId,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Description *string          `json:"description,omitempty"`
	ExpenseDate *time.Time       `json:"expenseDate,omitempty"`
}

func (dto *UpdateExpenseDTO) Normalize() {
	if dto.Category != nil {
		category := strings.ToLower(strings.TrimSpace(*dto.Category))
		dto.Category = &category
	}
	if dto.Description != nil {
		description := strings.TrimSpace(*dto.Description)
		dto.Description = &description
	}
}

func (dto UpdateExpenseDTO) Validate() error {
	validator := validation.NewValidator()
	if dto.Category != nil {
		validator.Field("category", *dto.Category).Required().OneOf(Categories...)
	}
	if dto.Amount != nil {
		validator.Field("amount", *dto.Amount).PositiveDecimal(internal.ErrCodeInvalidAmount)
	}
	if dto.Description != nil {
		validator.Field("description", *dto.Description).MaxLength(500)
	}
	if dto.ExpenseDate != nil {
		validator.Field("expenseDate", *dto.ExpenseDate).NotFuture()
	}
	if err := validator.Validate(); err != nil {
		return err
	}
	return nil
}

type ListFilter struct {
	WarehouseID *int64
	Category    string
	From        *time.Time
	To          *time.Time
}
