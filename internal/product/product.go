package product

import (
	"time"

	productDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/product"
	"github.com/frahmantamala/pos-platform/internal/inventory"
	"github.com/shopspring/decimal"
)

type CategoryRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID            int64           `json:"id"`
	SKU           string          `json:"sku"`
	Barcode       *string         `json:"barcode,omitempty"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	SellingPrice  decimal.Decimal `json:"sellingPrice"`
	Unit          string          `json:"unit"`
	IsActive      bool            `json:"isActive"`
	Categories    []CategoryRef   `json:"categories"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`

	// Stock is set when the caller asked for a warehouse.
	Stock *inventory.InventoryView `json:"stock,omitempty"`
}

func (p *Product) CategoryIDs() []int64 {
	ids := make([]int64, 0, len(p.Categories))
	for _, c := range p.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}

func FromDataModel(row *productDatamodel.Product) *Product {
	categories := make([]CategoryRef, 0, len(row.Categories))
	for _, c := range row.Categories {
		categories = append(categories, CategoryRef{ID: c.ID, Name: c.Name})
	}

	return &Product{
		ID:            row.ID,
		SKU:           row.SKU,
		Barcode:       row.Barcode,
		Name:          row.Name,
		Description:   row.Description,
		PurchasePrice: row.PurchasePrice,
		SellingPrice:  row.SellingPrice,
		Unit:          row.Unit,
		IsActive:      row.IsActive,
		Categories:    categories,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

// History counts the line items that pin a product in place.
type History struct {
	SaleLines          int64
	PurchaseOrderLines int64
}

func (h History) Empty() bool {
	return h.SaleLines == 0 && h.PurchaseOrderLines == 0
}
