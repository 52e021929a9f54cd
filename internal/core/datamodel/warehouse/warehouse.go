package warehouse

import "time"

const (
	TypeBoutique = "BOUTIQUE"
	TypeStockage = "STOCKAGE"
)

type Warehouse struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Code      string    `gorm:"column:code;uniqueIndex;not null"`
	Type      string    `gorm:"column:type;not null;default:BOUTIQUE"`
	Address   string    `gorm:"column:address"`
	IsActive  bool      `gorm:"column:is_active"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Warehouse) TableName() string {
	return "warehouses"
}
