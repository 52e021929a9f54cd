package purchase

import "github.com/shopspring/decimal"

// PurchaseOrderItem is a supplier order line. Only its product reference is
// consulted here, to keep reporting history intact on product deletion.
type PurchaseOrderItem struct {
	ID               int64           `gorm:"primaryKey"`
	PurchaseOrderRef string          `gorm:"column:purchase_order_ref;not null;index"`
	ProductID        int64           `gorm:"column:product_id;not null;index"`
	Quantity         int64           `gorm:"column:quantity;not null"`
	UnitCost         decimal.Decimal `gorm:"column:unit_cost;type:numeric(15,2);not null"`
}

func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}
