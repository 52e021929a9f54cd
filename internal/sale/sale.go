package sale

import (
	"time"

	saleDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/sale"
	"github.com/shopspring/decimal"
)

const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
)

// PointRate is the net amount that earns one loyalty point. A redeemed point
// is worth one unit of currency.
var PointRate = decimal.NewFromInt(100)

type Sale struct {
	ID                  int64           `json:"id"`
	ReceiptNumber       string          `json:"receiptNumber"`
	WarehouseID         int64           `json:"warehouseId"`
	EmployeeID          int64           `json:"employeeId"`
	CustomerID          *int64          `json:"customerId,omitempty"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	DiscountAmount      decimal.Decimal `json:"discountAmount"`
	TotalAmount         decimal.Decimal `json:"totalAmount"`
	PaymentMethod       string          `json:"paymentMethod"`
	LoyaltyPointsEarned int64           `json:"loyaltyPointsEarned"`
	LoyaltyPointsUsed   int64           `json:"loyaltyPointsUsed"`
	LoyaltyBalance      *int64          `json:"loyaltyBalance,omitempty"`
	Items               []Item          `json:"items"`
	CreatedAt           time.Time       `json:"createdAt"`
}

type Item struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"productId"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Total     decimal.Decimal `json:"total"`
}

// PricedProduct is the product data checkout needs.
type PricedProduct struct {
	ID           int64           `gorm:"column:id"`
	Name         string          `gorm:"column:name"`
	SellingPrice decimal.Decimal `gorm:"column:selling_price"`
	IsActive     bool            `gorm:"column:is_active"`
}

// PointsEarned floors the net total to whole points.
func PointsEarned(total decimal.Decimal) int64 {
	if !total.IsPositive() {
		return 0
	}
	return total.Div(PointRate).Floor().IntPart()
}

func FromDataModel(s *saleDatamodel.Sale) *Sale {
	items := make([]Item, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, Item{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Total:     it.Total,
		})
	}
	return &Sale{
		ID:                  s.ID,
		ReceiptNumber:       s.ReceiptNumber,
		WarehouseID:         s.WarehouseID,
		EmployeeID:          s.EmployeeID,
		CustomerID:          s.CustomerID,
		Subtotal:            s.Subtotal,
		DiscountAmount:      s.DiscountAmount,
		TotalAmount:         s.TotalAmount,
		PaymentMethod:       s.PaymentMethod,
		LoyaltyPointsEarned: s.LoyaltyPointsEarned,
		LoyaltyPointsUsed:   s.LoyaltyPointsUsed,
		Items:               items,
		CreatedAt:           s.CreatedAt,
	}
}
