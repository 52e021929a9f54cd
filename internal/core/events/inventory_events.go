package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeStockReduced    = "stock.reduced"
	EventTypeLowStock        = "stock.low"
	EventTypeEmployeeCreated = "employee.created"
	EventTypeProductDeleted  = "product.deleted"
)

type StockReducedEvent struct {
	BaseEvent
	ProductID    int64  `json:"product_id"`
	ProductName  string `json:"product_name"`
	WarehouseID  int64  `json:"warehouse_id"`
	OldQuantity  int64  `json:"old_quantity"`
	NewQuantity  int64  `json:"new_quantity"`
	EmployeeID   int64  `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
}

func NewStockReducedEvent(productID int64, productName string, warehouseID, oldQty, newQty, employeeID int64, employeeName string) *StockReducedEvent {
	return &StockReducedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeStockReduced,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"product_id":    productID,
				"product_name":  productName,
				"warehouse_id":  warehouseID,
				"old_quantity":  oldQty,
				"new_quantity":  newQty,
				"employee_id":   employeeID,
				"employee_name": employeeName,
			},
		},
		ProductID:    productID,
		ProductName:  productName,
		WarehouseID:  warehouseID,
		OldQuantity:  oldQty,
		NewQuantity:  newQty,
		EmployeeID:   employeeID,
		EmployeeName: employeeName,
	}
}

// LowStockEvent fires when a quantity change leaves a row at or below its minimum level.
type LowStockEvent struct {
	BaseEvent
	ProductID     int64 `json:"product_id"`
	WarehouseID   int64 `json:"warehouse_id"`
	Quantity      int64 `json:"quantity"`
	MinStockLevel int64 `json:"min_stock_level"`
}

func NewLowStockEvent(productID, warehouseID, quantity, minStockLevel int64) *LowStockEvent {
	return &LowStockEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeLowStock,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"product_id":      productID,
				"warehouse_id":    warehouseID,
				"quantity":        quantity,
				"min_stock_level": minStockLevel,
			},
		},
		ProductID:     productID,
		WarehouseID:   warehouseID,
		Quantity:      quantity,
		MinStockLevel: minStockLevel,
	}
}

type ProductDeletedEvent struct {
	BaseEvent
	ProductID     int64  `json:"product_id"`
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	DeletedByID   int64  `json:"deleted_by_id"`
	DeletedByName string `json:"deleted_by_name"`
}

func NewProductDeletedEvent(productID int64, sku, name string, deletedByID int64, deletedByName string) *ProductDeletedEvent {
	return &ProductDeletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeProductDeleted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"product_id":      productID,
				"sku":             sku,
				"name":            name,
				"deleted_by_id":   deletedByID,
				"deleted_by_name": deletedByName,
			},
		},
		ProductID:     productID,
		SKU:           sku,
		Name:          name,
		DeletedByID:   deletedByID,
		DeletedByName: deletedByName,
	}
}
