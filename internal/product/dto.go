package product

import (
	"strings"

	"github.com/frahmantamala/pos-platform/internal"
	"github.com/frahmantamala/pos-platform/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

const defaultUnit = "pcs"

type CreateProductDTO struct {
	SKU           string          `json:"sku"`
	Barcode       *string         `json:"barcode,omitempty"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	SellingPrice  decimal.Decimal `json:"sellingPrice"`
	Unit          string          `json:"unit,omitempty"`
	CategoryIDs   []int64         `json:"categoryIds"`

	// WarehouseID and InitialStock seed the first inventory row.
	WarehouseID  *int64 `json:"warehouseId,omitempty"`
	InitialStock int64  `json:"initialStock,omitempty"`
}

func (dto *CreateProductDTO) Normalize() {
	dto.SKU = strings.ToUpper(strings.TrimSpace(dto.SKU))
	dto.Name = strings.TrimSpace(dto.Name)
	dto.Description = strings.TrimSpace(dto.Description)
	dto.Unit = strings.TrimSpace(dto.Unit)
	if dto.Unit == "" {
		dto.Unit = defaultUnit
	}
	dto.Barcode = normalizeBarcode(dto.Barcode)
}

func (dto *CreateProductDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("sku", dto.SKU).Required().MaxLength(64)
	validator.Field("name", dto.Name).Required().MaxLength(200)
	validator.Field("purchasePrice", dto.PurchasePrice).NonNegativeDecimal(internal.ErrCodeInvalidAmount)
	validator.Field("sellingPrice", dto.SellingPrice).NonNegativeDecimal(internal.ErrCodeInvalidAmount)
	validator.Field("initialStock", dto.InitialStock).MinInt(0, internal.ErrCodeNegativeStock)
	if err := validator.Validate(); err != nil {
		return err
	}

	if len(dto.CategoryIDs) == 0 {
		return internal.NewValidationFieldError("categoryIds", "At least one category is required", internal.ErrCodeCategoryRequired)
	}
	if dto.InitialStock > 0 && dto.WarehouseID == nil {
		return internal.NewValidationFieldError("warehouseId", "warehouseId is required with initial stock", internal.ErrCodeWarehouseRequired)
	}
	return nil
}

// UpdateProductDTO changes only the fields that are set. Stock is an
// absolute quantity at WarehouseID.
type UpdateProductDTO struct {
	SKU           *string          `json:"sku,omitempty"`
	Barcode       *string          `json:"barcode,omitempty"`
	Name          *string          `json:"name,omitempty"`
	Description   *string          `json:"description,omitempty"`
	PurchasePrice *decimal.Decimal `json:"purchasePrice,omitempty"`
	SellingPrice  *decimal.Decimal `json:"sellingPrice,omitempty"`
	Unit          *string          `json:"unit,omitempty"`
	IsActive      *bool            `json:"isActive,omitempty"`
	CategoryIDs   []int64          `json:"categoryIds,omitempty"`
	WarehouseID   *int64           `json:"warehouseId,omitempty"`
	Stock         *int64           `json:"stock,omitempty"`
}

func (dto *UpdateProductDTO) Normalize() {
	if dto.SKU != nil {
		sku := strings.ToUpper(strings.TrimSpace(*dto.SKU))
		dto.SKU = &sku
	}
	if dto.Name != nil {
		name := strings.TrimSpace(*dto.Name)
		dto.Name = &name
	}
	if dto.Barcode != nil {
		barcode := strings.TrimSpace(*dto.Barcode)
		dto.Barcode = &barcode
	}
}

func (dto *UpdateProductDTO) Validate() error {
	validator := validation.NewValidator()
	if dto.SKU != nil {
		validator.Field("sku", *dto.SKU).Required().MaxLength(64)
	}
	if dto.Name != nil {
		validator.Field("name", *dto.Name).Required().MaxLength(200)
	}
	if dto.PurchasePrice != nil {
		validator.Field("purchasePrice", *dto.PurchasePrice).NonNegativeDecimal(internal.ErrCodeInvalidAmount)
	}
	if dto.SellingPrice != nil {
		validator.Field("sellingPrice", *dto.SellingPrice).NonNegativeDecimal(internal.ErrCodeInvalidAmount)
	}
	if dto.Stock != nil {
		validator.Field("stock", *dto.Stock).MinInt(0, internal.ErrCodeNegativeStock)
	}
	if err := validator.Validate(); err != nil {
		return err
	}

	if dto.CategoryIDs != nil && len(dto.CategoryIDs) == 0 {
		return internal.NewValidationFieldError("categoryIds", "At least one category is required", internal.ErrCodeCategoryRequired)
	}
	if dto.Stock != nil && dto.WarehouseID == nil {
		return internal.NewValidationFieldError("warehouseId", "warehouseId is required when updating stock", internal.ErrCodeWarehouseRequired)
	}
	return nil
}

type ListFilter struct {
	Search          string
	CategoryID      *int64
	IncludeInactive bool
	WarehouseID     *int64
}

// normalizeBarcode turns a blank barcode into no barcode so uniqueness only
// applies to real values.
func normalizeBarcode(barcode *string) *string {
	if barcode == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*barcode)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
