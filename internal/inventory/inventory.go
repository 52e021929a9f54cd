package inventory

import (
	"fmt"
	"math/big"
	"strconv"
	"time"

	inventoryDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/inventory"
)

const (
	MovementAdjustment  = inventoryDatamodel.MovementAdjustment
	MovementTransferOut = inventoryDatamodel.MovementTransferOut
	MovementTransferIn  = inventoryDatamodel.MovementTransferIn
	MovementSale        = inventoryDatamodel.MovementSale
	MovementInitial     = inventoryDatamodel.MovementInitial
)

// InventoryView is the quantity of a product at a warehouse as callers see it.
// It is either backed by a persisted row or Virtual: a zero-quantity stand-in
// for a pair that has never been stocked.
type InventoryView struct {
	ID            string     `json:"id"`
	RowID         int64      `json:"-"`
	ProductID     int64      `json:"productId"`
	WarehouseID   int64      `json:"warehouseId"`
	Quantity      int64      `json:"quantity"`
	MinStockLevel int64      `json:"minStockLevel"`
	MaxStockLevel int64      `json:"maxStockLevel"`
	Virtual       bool       `json:"isVirtual"`
	ProductSKU    string     `json:"productSku,omitempty"`
	ProductName   string     `json:"productName,omitempty"`
	WarehouseCode string     `json:"warehouseCode,omitempty"`
	WarehouseName string     `json:"warehouseName,omitempty"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

func VirtualID(productID, warehouseID int64) string {
	return fmt.Sprintf("virtual-%d-%d", productID, warehouseID)
}

// materialize is the only place a missing row turns into a virtual view.
func materialize(productID, warehouseID int64, row *inventoryDatamodel.Inventory) InventoryView {
	if row == nil {
		return InventoryView{
			ID:          VirtualID(productID, warehouseID),
			ProductID:   productID,
			WarehouseID: warehouseID,
			Virtual:     true,
		}
	}

	updatedAt := row.UpdatedAt
	return InventoryView{
		ID:            strconv.FormatInt(row.ID, 10),
		RowID:         row.ID,
		ProductID:     row.ProductID,
		WarehouseID:   row.WarehouseID,
		Quantity:      row.Quantity,
		MinStockLevel: row.MinStockLevel,
		MaxStockLevel: row.MaxStockLevel,
		UpdatedAt:     &updatedAt,
	}
}

func (v InventoryView) IsLow() bool {
	return v.Quantity <= v.MinStockLevel
}

// NeedsAlert reports a persisted row at or below a configured minimum.
func (v InventoryView) NeedsAlert() bool {
	return !v.Virtual && v.MinStockLevel > 0 && v.IsLow()
}

// Ratio is quantity over minimum, with an unset minimum counting as 0.
func (v InventoryView) Ratio() float64 {
	if v.MinStockLevel <= 0 {
		return 0
	}
	return float64(v.Quantity) / float64(v.MinStockLevel)
}

// compareUrgency orders views by ascending ratio. The cross products are
// compared exactly, so large quantities neither overflow nor lose precision.
func compareUrgency(a, b InventoryView) int {
	aq, am := a.Quantity, a.MinStockLevel
	bq, bm := b.Quantity, b.MinStockLevel
	if am <= 0 {
		aq, am = 0, 1
	}
	if bm <= 0 {
		bq, bm = 0, 1
	}

	left := new(big.Int).Mul(big.NewInt(aq), big.NewInt(bm))
	right := new(big.Int).Mul(big.NewInt(bq), big.NewInt(am))
	return left.Cmp(right)
}

// Record is one joined inventory read. InventoryID is nil for a product
// without a row at the requested warehouse.
type Record struct {
	InventoryID   *int64 `gorm:"column:inventory_id"`
	ProductID     int64  `gorm:"column:product_id"`
	WarehouseID   int64  `gorm:"column:warehouse_id"`
	Quantity      int64  `gorm:"column:quantity"`
	MinStockLevel int64  `gorm:"column:min_stock_level"`
	MaxStockLevel int64  `gorm:"column:max_stock_level"`
	ProductSKU    string `gorm:"column:product_sku"`
	ProductName   string `gorm:"column:product_name"`
	WarehouseCode string `gorm:"column:warehouse_code"`
	WarehouseName string `gorm:"column:warehouse_name"`
}

func (r *Record) view() InventoryView {
	var row *inventoryDatamodel.Inventory
	if r.InventoryID != nil {
		row = &inventoryDatamodel.Inventory{
			ID:            *r.InventoryID,
			ProductID:     r.ProductID,
			WarehouseID:   r.WarehouseID,
			Quantity:      r.Quantity,
			MinStockLevel: r.MinStockLevel,
			MaxStockLevel: r.MaxStockLevel,
		}
	}

	v := materialize(r.ProductID, r.WarehouseID, row)
	v.UpdatedAt = nil
	v.ProductSKU = r.ProductSKU
	v.ProductName = r.ProductName
	v.WarehouseCode = r.WarehouseCode
	v.WarehouseName = r.WarehouseName
	return v
}

type StockMovement struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"productId"`
	WarehouseID int64     `json:"warehouseId"`
	Quantity    int64     `json:"quantity"`
	Type        string    `json:"type"`
	Reference   string    `json:"reference,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	EmployeeID  int64     `json:"employeeId"`
	CreatedAt   time.Time `json:"createdAt"`
}

func MovementFromDataModel(m *inventoryDatamodel.StockMovement) StockMovement {
	return StockMovement{
		ID:          m.ID,
		ProductID:   m.ProductID,
		WarehouseID: m.WarehouseID,
		Quantity:    m.Quantity,
		Type:        m.Type,
		Reference:   m.Reference,
		Notes:       m.Notes,
		EmployeeID:  m.EmployeeID,
		CreatedAt:   m.CreatedAt,
	}
}

type AdjustResult struct {
	Inventory InventoryView `json:"inventory"`
	Movement  StockMovement `json:"movement"`
}

// QuantityChange reports an absolute set. Movement is nil when nothing changed.
type QuantityChange struct {
	Previous  int64          `json:"previousQuantity"`
	Inventory InventoryView  `json:"inventory"`
	Movement  *StockMovement `json:"movement,omitempty"`
}

func (c *QuantityChange) Reduced() bool {
	return c.Inventory.Quantity < c.Previous
}

type TransferResult struct {
	Reference   string          `json:"reference"`
	Source      InventoryView   `json:"source"`
	Destination InventoryView   `json:"destination"`
	Movements   []StockMovement `json:"movements"`
}
