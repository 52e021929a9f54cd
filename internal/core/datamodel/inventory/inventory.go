package inventory

import "time"

const (
	MovementAdjustment  = "adjustment"
	MovementTransferOut = "transfer_out"
	MovementTransferIn  = "transfer_in"
	MovementSale        = "sale"
	MovementInitial     = "initial"
)

// Inventory holds one product's quantity at one warehouse.
type Inventory struct {
	ID            int64     `gorm:"primaryKey"`
	ProductID     int64     `gorm:"column:product_id;not null;uniqueIndex:idx_inventory_product_warehouse"`
	WarehouseID   int64     `gorm:"column:warehouse_id;not null;uniqueIndex:idx_inventory_product_warehouse"`
	Quantity      int64     `gorm:"column:quantity;not null;default:0"`
	MinStockLevel int64     `gorm:"column:min_stock_level;not null;default:0"`
	MaxStockLevel int64     `gorm:"column:max_stock_level;not null;default:0"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Inventory) TableName() string {
	return "inventory"
}

// StockMovement is an append-only record of one signed quantity change.
type StockMovement struct {
	ID          int64     `gorm:"primaryKey"`
	ProductID   int64     `gorm:"column:product_id;not null;index"`
	WarehouseID int64     `gorm:"column:warehouse_id;not null;index"`
	Quantity    int64     `gorm:"column:quantity;not null"`
	Type        string    `gorm:"column:type;not null"`
	Reference   string    `gorm:"column:reference;index"`
	Notes       string    `gorm:"column:notes"`
	EmployeeID  int64     `gorm:"column:employee_id;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (StockMovement) TableName() string {
	return "stock_movements"
}
