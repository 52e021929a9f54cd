package product

import (
	"time"

	categoryDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/category"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID            int64                        `gorm:"primaryKey"`
	SKU           string                       `gorm:"column:sku;uniqueIndex;not null"`
	Barcode       *string                      `gorm:"column:barcode;uniqueIndex"`
	Name          string                       `gorm:"column:name;not null"`
	Description   string                       `gorm:"column:description"`
	PurchasePrice decimal.Decimal              `gorm:"column:purchase_price;type:numeric(15,2);not null;default:0"`
	SellingPrice  decimal.Decimal              `gorm:"column:selling_price;type:numeric(15,2);not null;default:0"`
	Unit          string                       `gorm:"column:unit;default:pcs"`
	IsActive      bool                         `gorm:"column:is_active"`
	Categories    []categoryDatamodel.Category `gorm:"many2many:product_categories;"`
	CreatedAt     time.Time                    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time                    `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}

type ProductCategory struct {
	ProductID  int64 `gorm:"column:product_id;primaryKey"`
	CategoryID int64 `gorm:"column:category_id;primaryKey"`
}

func (ProductCategory) TableName() string {
	return "product_categories"
}
