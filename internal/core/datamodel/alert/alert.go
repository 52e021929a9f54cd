package alert

import "time"

const (
	TypeStockReduced    = "STOCK_REDUCED"
	TypeEmployeeCreated = "EMPLOYEE_CREATED"
	TypeProductDeleted  = "PRODUCT_DELETED"
	TypeLowStock        = "LOW_STOCK"

	SeverityInfo     = "INFO"
	SeverityWarning  = "WARNING"
	SeverityCritical = "CRITICAL"
)

type Alert struct {
	ID          int64     `gorm:"primaryKey"`
	Type        string    `gorm:"column:type;not null;index"`
	Severity    string    `gorm:"column:severity;not null"`
	Title       string    `gorm:"column:title;not null"`
	Message     string    `gorm:"column:message;not null"`
	ProductID   *int64    `gorm:"column:product_id"`
	WarehouseID *int64    `gorm:"column:warehouse_id"`
	EmployeeID  *int64    `gorm:"column:employee_id"`
	IsRead      bool      `gorm:"column:is_read"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Alert) TableName() string {
	return "alerts"
}
