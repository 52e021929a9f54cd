package alert

import (
	"time"

	alertDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/alert"
)

const (
	TypeStockReduced    = alertDatamodel.TypeStockReduced
	TypeEmployeeCreated = alertDatamodel.TypeEmployeeCreated
	TypeProductDeleted  = alertDatamodel.TypeProductDeleted
	TypeLowStock        = alertDatamodel.TypeLowStock

	SeverityInfo     = alertDatamodel.SeverityInfo
	SeverityWarning  = alertDatamodel.SeverityWarning
	SeverityCritical = alertDatamodel.SeverityCritical
)

type Alert struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	Severity    string    `json:"severity"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	ProductID   *int64    `json:"productId,omitempty"`
	WarehouseID *int64    `json:"warehouseId,omitempty"`
	EmployeeID  *int64    `json:"employeeId,omitempty"`
	IsRead      bool      `json:"isRead"`
	CreatedAt   time.Time `json:"createdAt"`
}

func FromDataModel(a *alertDatamodel.Alert) *Alert {
	return &Alert{
		ID:          a.ID,
		Type:        a.Type,
		Severity:    a.Severity,
		Title:       a.Title,
		Message:     a.Message,
		ProductID:   a.ProductID,
		WarehouseID: a.WarehouseID,
		EmployeeID:  a.EmployeeID,
		IsRead:      a.IsRead,
		CreatedAt:   a.CreatedAt,
	}
}

type ListFilter struct {
	Type       string
	UnreadOnly bool
}
