package inventory

import (
	"strings"

	"github.com/frahmantamala/pos-platform/internal"
	"github.com/frahmantamala/pos-platform/internal/core/common/validation"
)

// AdjustInput carries a signed delta.
type AdjustInput struct {
	ProductID   int64  `json:"productId"`
	WarehouseID int64  `json:"warehouseId"`
	Quantity    int64  `json:"quantity"`
	Reason      string `json:"reason,omitempty"`

	// MovementType defaults to adjustment. Not settable over HTTP.
	MovementType string `json:"-"`
}

func (in *AdjustInput) Validate() error {
	in.Reason = strings.TrimSpace(in.Reason)
	if in.MovementType == "" {
		in.MovementType = MovementAdjustment
	}

	validator := validation.NewValidator()
	validator.Field("productId", in.ProductID).Required()
	validator.Field("warehouseId", in.WarehouseID).Required()
	validator.Field("quantity", in.Quantity).NonZero(internal.ErrCodeInvalidQuantity)
	validator.Field("reason", in.Reason).MaxLength(500)
	if err := validator.Validate(); err != nil {
		return err
	}
	return nil
}

// QuantityInput sets an absolute quantity.
type QuantityInput struct {
	ProductID   int64
	WarehouseID int64
	Quantity    int64
	Reason      string
}

func (in *QuantityInput) Validate() error {
	in.Reason = strings.TrimSpace(in.Reason)

	validator := validation.NewValidator()
	validator.Field("productId", in.ProductID).Required()
	validator.Field("warehouseId", in.WarehouseID).Required()
	validator.Field("stock", in.Quantity).MinInt(0, internal.ErrCodeNegativeStock)
	if err := validator.Validate(); err != nil {
		return err
	}
	return nil
}

type TransferInput struct {
	ProductID       int64  `json:"productId"`
	FromWarehouseID int64  `json:"fromWarehouseId"`
	ToWarehouseID   int64  `json:"toWarehouseId"`
	Quantity        int64  `json:"quantity"`
	Notes           string `json:"notes,omitempty"`
}

func (in *TransferInput) Validate() error {
	in.Notes = strings.TrimSpace(in.Notes)

	validator := validation.NewValidator()
	validator.Field("productId", in.ProductID).Required()
	validator.Field("fromWarehouseId", in.FromWarehouseID).Required()
	validator.Field("toWarehouseId", in.ToWarehouseID).Required()
	validator.Field("quantity", in.Quantity).MinInt(1, internal.ErrCodeInvalidQuantity)
	validator.Field("notes", in.Notes).MaxLength(500)
	if err := validator.Validate(); err != nil {
		return err
	}

	if in.FromWarehouseID == in.ToWarehouseID {
		return internal.NewValidationError("Source and destination warehouses must be different", internal.ErrCodeSameWarehouse)
	}
	return nil
}

type LevelsInput struct {
	ProductID     int64 `json:"productId"`
	WarehouseID   int64 `json:"warehouseId"`
	MinStockLevel int64 `json:"minStockLevel"`
	MaxStockLevel int64 `json:"maxStockLevel"`
}

func (in *LevelsInput) Validate() error {
	validator := validation.NewValidator()
	validator.Field("productId", in.ProductID).Required()
	validator.Field("warehouseId", in.WarehouseID).Required()
	validator.Field("minStockLevel", in.MinStockLevel).MinInt(0, internal.ErrCodeInvalidStockLevels)
	validator.Field("maxStockLevel", in.MaxStockLevel).MinInt(0, internal.ErrCodeInvalidStockLevels)
	if err := validator.Validate(); err != nil {
		return err
	}

	if in.MaxStockLevel > 0 && in.MaxStockLevel < in.MinStockLevel {
		return internal.NewValidationError("maxStockLevel must be greater than or equal to minStockLevel", internal.ErrCodeInvalidStockLevels)
	}
	return nil
}

// SaleLine is one decrement performed by checkout.
type SaleLine struct {
	ProductID   int64
	WarehouseID int64
	Quantity    int64
	EmployeeID  int64
	Reference   string
}

type ListFilter struct {
	WarehouseID *int64
	ProductID   *int64
	LowStock    bool
	Search      string
}

type MovementFilter struct {
	WarehouseID *int64
	ProductID   *int64
	Type        string
	Reference   string
}
