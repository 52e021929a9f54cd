package sale

import (
	"fmt"
	"strings"
	"time"

	"github.com/frahmantamala/pos-platform/internal"
	"github.com/frahmantamala/pos-platform/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

type LineInput struct {
	ProductID int64 `json:"productId"`
	Quantity  int64 `json:"quantity"`
}

type CheckoutInput struct {
	WarehouseID   int64           `json:"warehouseId"`
	CustomerID    *int64          `json:"customerId,omitempty"`
	Items         []LineInput     `json:"items"`
	Discount      decimal.Decimal `json:"discount"`
	PaymentMethod string          `json:"paymentMethod"`
	RedeemPoints  int64           `json:"redeemPoints"`
}

func (in *CheckoutInput) Normalize() {
	in.PaymentMethod = strings.ToLower(strings.TrimSpace(in.PaymentMethod))
	if in.PaymentMethod == "" {
		in.PaymentMethod = PaymentCash
	}
}

func (in CheckoutInput) Validate() error {
	validator := validation.NewValidator()
	validator.Field("warehouseId", in.WarehouseID).Required()
	validator.Field("discount", in.Discount).NonNegativeDecimal(internal.ErrCodeInvalidAmount)
	validator.Field("paymentMethod", in.PaymentMethod).OneOf(PaymentCash, PaymentCard, PaymentTransfer)
	validator.Field("redeemPoints", in.RedeemPoints).MinInt(0, internal.ErrCodeInvalidQuantity)
	for i, line := range in.Items {
		validator.Field(fmt.Sprintf("items[%d].productId", i), line.ProductID).Required()
		validator.Field(fmt.Sprintf("items[%d].quantity", i), line.Quantity).MinInt(1, internal.ErrCodeInvalidQuantity)
	}
	if err := validator.Validate(); err != nil {
		return err
	}

	if len(in.Items) == 0 {
		return internal.NewValidationFieldError("items", "A sale needs at least one item", internal.ErrCodeInvalidRequest)
	}
	if in.RedeemPoints > 0 && in.CustomerID == nil {
		return internal.NewValidationFieldError("redeemPoints", "Redeeming points requires a customer", internal.ErrCodeInvalidRequest)
	}
	return nil
}

// Lines merges repeated products, keeping first-seen order.
func (in CheckoutInput) Lines() []LineInput {
	index := make(map[int64]int, len(in.Items))
	lines := make([]LineInput, 0, len(in.Items))
	for _, line := range in.Items {
		if i, ok := index[line.ProductID]; ok {
			lines[i].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(lines)
		lines = append(lines, line)
	}
	return lines
}

type ListFilter struct {
	WarehouseID *int64
	EmployeeID  *int64
	From        *time.Time
	To          *time.Time
}
