package events

import (
	"time"

	"github.com/google/uuid"
)

type EmployeeCreatedEvent struct {
	BaseEvent
	EmployeeID    int64  `json:"employee_id"`
	FullName      string `json:"full_name"`
	RoleName      string `json:"role_name"`
	WarehouseID   *int64 `json:"warehouse_id,omitempty"`
	CreatedByID   int64  `json:"created_by_id"`
	CreatedByName string `json:"created_by_name"`
}

func NewEmployeeCreatedEvent(employeeID int64, fullName, roleName string, warehouseID *int64, createdByID int64, createdByName string) *EmployeeCreatedEvent {
	return &EmployeeCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeEmployeeCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"employee_id":     employeeID,
				"full_name":       fullName,
				"role_name":       roleName,
				"warehouse_id":    warehouseID,
				"created_by_id":   createdByID,
				"created_by_name": createdByName,
			},
		},
		EmployeeID:    employeeID,
		FullName:      fullName,
		RoleName:      roleName,
		WarehouseID:   warehouseID,
		CreatedByID:   createdByID,
		CreatedByName: createdByName,
	}
}
