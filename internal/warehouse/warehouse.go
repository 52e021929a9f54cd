package warehouse

import (
	"time"

	warehouseDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/warehouse"
)

const (
	TypeBoutique = warehouseDatamodel.TypeBoutique
	TypeStockage = warehouseDatamodel.TypeStockage
)

// Warehouse is a physical location holding stock. Only boutiques sell.
type Warehouse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Type      string    `json:"type"`
	Address   string    `json:"address,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (w *Warehouse) IsBoutique() bool {
	return w.Type == TypeBoutique
}

func ToDataModel(w *Warehouse) *warehouseDatamodel.Warehouse {
	return &warehouseDatamodel.Warehouse{
		ID:        w.ID,
		Name:      w.Name,
		Code:      w.Code,
		Type:      w.Type,
		Address:   w.Address,
		IsActive:  w.IsActive,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func FromDataModel(w *warehouseDatamodel.Warehouse) *Warehouse {
	return &Warehouse{
		ID:        w.ID,
		Name:      w.Name,
		Code:      w.Code,
		Type:      w.Type,
		Address:   w.Address,
		IsActive:  w.IsActive,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}
