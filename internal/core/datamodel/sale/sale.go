package sale

import (
	"time"

	"github.com/shopspring/decimal"
)

type Sale struct {
	ID                  int64           `gorm:"primaryKey"`
	ReceiptNumber       string          `gorm:"column:receipt_number;uniqueIndex;not null"`
	WarehouseID         int64           `gorm:"column:warehouse_id;not null;index"`
	EmployeeID          int64           `gorm:"column:employee_id;not null;index"`
	CustomerID          *int64          `gorm:"column:customer_id;index"`
	Subtotal            decimal.Decimal `gorm:"column:subtotal;type:numeric(15,2);not null"`
	DiscountAmount      decimal.Decimal `gorm:"column:discount_amount;type:numeric(15,2);not null;default:0"`
	TotalAmount         decimal.Decimal `gorm:"column:total_amount;type:numeric(15,2);not null"`
	PaymentMethod       string          `gorm:"column:payment_method;not null"`
	LoyaltyPointsEarned int64           `gorm:"column:loyalty_points_earned;not null;default:0"`
	LoyaltyPointsUsed   int64           `gorm:"column:loyalty_points_used;not null;default:0"`
	Items               []SaleItem      `gorm:"foreignKey:SaleID"`
	CreatedAt           time.Time       `gorm:"column:created_at;autoCreateTime;index"`
}

func (Sale) TableName() string {
	return "sales"
}

type SaleItem struct {
	ID        int64           `gorm:"primaryKey"`
	SaleID    int64           `gorm:"column:sale_id;not null;index"`
	ProductID int64           `gorm:"column:product_id;not null;index"`
	Quantity  int64           `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(15,2);not null"`
	Total     decimal.Decimal `gorm:"column:total;type:numeric(15,2);not null"`
}

func (SaleItem) TableName() string {
	return "sale_items"
}
