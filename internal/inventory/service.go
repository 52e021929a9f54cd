package inventory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/pos-platform/internal"
	"github.com/frahmantamala/pos-platform/internal/auth"
	"github.com/frahmantamala/pos-platform/internal/core/database"
	inventoryDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/inventory"
	"github.com/frahmantamala/pos-platform/internal/core/events"
	"github.com/frahmantamala/pos-platform/internal/warehouse"
	"github.com/google/uuid"
)

// ProductRef is the slice of a product the engine needs.
type ProductRef struct {
	ID       int64  `gorm:"column:id"`
	SKU      string `gorm:"column:sku"`
	Name     string `gorm:"column:name"`
	IsActive bool   `gorm:"column:is_active"`
}

type RecordQuery struct {
	// WarehouseIDs restricts rows to these warehouses; nil means all.
	WarehouseIDs []int64
	ProductID    *int64
	Search       string
}

type RepositoryAPI interface {
	Get(ctx context.Context, productID, warehouseID int64) (*inventoryDatamodel.Inventory, error)
	ListByProducts(ctx context.Context, productIDs []int64, warehouseID int64) ([]*inventoryDatamodel.Inventory, error)
	// Lock returns the row locked for update, or nil when it does not exist.
	Lock(ctx context.Context, productID, warehouseID int64) (*inventoryDatamodel.Inventory, error)
	// LockOrCreate inserts a zero row when missing and returns it locked.
	LockOrCreate(ctx context.Context, productID, warehouseID int64) (*inventoryDatamodel.Inventory, error)
	UpdateQuantity(ctx context.Context, id, quantity int64) error
	UpdateLevels(ctx context.Context, id, minStockLevel, maxStockLevel int64) error
	CreateMovement(ctx context.Context, movement *inventoryDatamodel.StockMovement) error
	GetProductRef(ctx context.Context, productID int64) (*ProductRef, error)
	ListRecords(ctx context.Context, q RecordQuery, offset, limit int) ([]Record, int64, error)
	// ListWarehouseRecords returns every active product left-joined to its row at the warehouse.
	ListWarehouseRecords(ctx context.Context, warehouseID int64, q RecordQuery, offset, limit int) ([]Record, int64, error)
	// LowStockRecords returns rows at or below their minimum in insertion order.
	LowStockRecords(ctx context.Context, warehouseIDs []int64) ([]Record, error)
	ListMovements(ctx context.Context, filter MovementFilter, warehouseIDs []int64, offset, limit int) ([]*inventoryDatamodel.StockMovement, int64, error)
}

type ScopeResolver interface {
	ResolveScope(ctx context.Context, actor auth.Actor) (auth.Scope, error)
}

type WarehouseLookup interface {
	GetByID(ctx context.Context, id int64) (*warehouse.Warehouse, error)
}

// Service is the inventory engine. Every quantity change goes through it and
// leaves a stock movement behind.
type Service struct {
	repo       RepositoryAPI
	tx         database.TxManager
	scopes     ScopeResolver
	warehouses WarehouseLookup
	publisher  events.Publisher
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, tx database.TxManager, scopes ScopeResolver, warehouses WarehouseLookup, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		tx:         tx,
		scopes:     scopes,
		warehouses: warehouses,
		publisher:  publisher,
		logger:     logger,
	}
}

// GetEffectiveInventory never fails for a missing row; it answers with a virtual view.
func (s *Service) GetEffectiveInventory(ctx context.Context, productID, warehouseID int64) (InventoryView, error) {
	row, err := s.repo.Get(ctx, productID, warehouseID)
	if err != nil {
		s.logger.Error("failed to get inventory", "product_id", productID, "warehouse_id", warehouseID, "error", err)
		return InventoryView{}, internal.NewInternalError("failed to get inventory", err)
	}
	return materialize(productID, warehouseID, row), nil
}

// EffectiveInventories resolves one view per product at a warehouse.
func (s *Service) EffectiveInventories(ctx context.Context, productIDs []int64, warehouseID int64) (map[int64]InventoryView, error) {
	views := make(map[int64]InventoryView, len(productIDs))
	if len(productIDs) == 0 {
		return views, nil
	}

	rows, err := s.repo.ListByProducts(ctx, productIDs, warehouseID)
	if err != nil {
		return nil, s.internalError("failed to get inventory", err)
	}
	byProduct := make(map[int64]*inventoryDatamodel.Inventory, len(rows))
	for _, row := range rows {
		byProduct[row.ProductID] = row
	}
	for _, id := range productIDs {
		views[id] = materialize(id, warehouseID, byProduct[id])
	}
	return views, nil
}

// Adjust applies a signed delta. The result can never be negative.
func (s *Service) Adjust(ctx context.Context, actor auth.Actor, in AdjustInput) (*AdjustResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, in.WarehouseID); err != nil {
		return nil, err
	}
	if _, err := s.RequireProduct(ctx, in.ProductID); err != nil {
		return nil, err
	}
	if _, err := s.warehouses.GetByID(ctx, in.WarehouseID); err != nil {
		return nil, err
	}

	owned := !database.InTx(ctx)
	var result *AdjustResult
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		result, err = s.adjustTx(txCtx, actor.EmployeeID, in)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock adjusted",
		"product_id", in.ProductID,
		"warehouse_id", in.WarehouseID,
		"delta", in.Quantity,
		"quantity", result.Inventory.Quantity,
		"employee_id", actor.EmployeeID)

	if owned {
		s.NotifyLowStock(ctx, result.Inventory)
	}
	return result, nil
}

func (s *Service) adjustTx(ctx context.Context, employeeID int64, in AdjustInput) (*AdjustResult, error) {
	row, err := s.repo.LockOrCreate(ctx, in.ProductID, in.WarehouseID)
	if err != nil {
		return nil, s.internalError("failed to lock inventory", err)
	}

	newQty := row.Quantity + in.Quantity
	if newQty < 0 {
		return nil, internal.NewValidationError(
			fmt.Sprintf("Stock cannot go negative: current quantity %d, change %d", row.Quantity, in.Quantity),
			internal.ErrCodeNegativeStock,
		)
	}

	if err := s.repo.UpdateQuantity(ctx, row.ID, newQty); err != nil {
		return nil, s.internalError("failed to update inventory", err)
	}
	row.Quantity = newQty

	movement := &inventoryDatamodel.StockMovement{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		Type:        in.MovementType,
		Notes:       in.Reason,
		EmployeeID:  employeeID,
	}
	if err := s.repo.CreateMovement(ctx, movement); err != nil {
		return nil, s.internalError("failed to record stock movement", err)
	}

	return &AdjustResult{
		Inventory: materialize(in.ProductID, in.WarehouseID, row),
		Movement:  MovementFromDataModel(movement),
	}, nil
}

// SetQuantity brings a row to an absolute quantity by writing the difference
// as an adjustment. Setting a never-stocked pair to zero creates nothing.
func (s *Service) SetQuantity(ctx context.Context, actor auth.Actor, in QuantityInput) (*QuantityChange, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, in.WarehouseID); err != nil {
		return nil, err
	}
	if _, err := s.RequireProduct(ctx, in.ProductID); err != nil {
		return nil, err
	}
	if _, err := s.warehouses.GetByID(ctx, in.WarehouseID); err != nil {
		return nil, err
	}

	owned := !database.InTx(ctx)
	var change *QuantityChange
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		row, err := s.repo.Lock(txCtx, in.ProductID, in.WarehouseID)
		if err != nil {
			return s.internalError("failed to lock inventory", err)
		}
		if row == nil && in.Quantity == 0 {
			change = &QuantityChange{Inventory: materialize(in.ProductID, in.WarehouseID, nil)}
			return nil
		}

		previous := int64(0)
		if row != nil {
			previous = row.Quantity
		}
		delta := in.Quantity - previous
		if delta == 0 {
			change = &QuantityChange{Previous: previous, Inventory: materialize(in.ProductID, in.WarehouseID, row)}
			return nil
		}

		result, err := s.adjustTx(txCtx, actor.EmployeeID, AdjustInput{
			ProductID:    in.ProductID,
			WarehouseID:  in.WarehouseID,
			Quantity:     delta,
			Reason:       in.Reason,
			MovementType: MovementAdjustment,
		})
		if err != nil {
			return err
		}
		change = &QuantityChange{Previous: previous, Inventory: result.Inventory, Movement: &result.Movement}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if owned {
		s.NotifyLowStock(ctx, change.Inventory)
	}
	return change, nil
}

// Transfer moves quantity between two warehouses in one transaction. Only the
// source warehouse has to be in the actor's scope.
func (s *Service) Transfer(ctx context.Context, actor auth.Actor, in TransferInput) (*TransferResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, in.FromWarehouseID); err != nil {
		return nil, err
	}
	if _, err := s.RequireProduct(ctx, in.ProductID); err != nil {
		return nil, err
	}
	source, err := s.warehouses.GetByID(ctx, in.FromWarehouseID)
	if err != nil {
		return nil, err
	}
	destination, err := s.warehouses.GetByID(ctx, in.ToWarehouseID)
	if err != nil {
		return nil, err
	}

	reference := "TRF-" + uuid.NewString()
	owned := !database.InTx(ctx)

	var result *TransferResult
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		result, err = s.transferTx(txCtx, actor.EmployeeID, in, reference, source, destination)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock transferred",
		"reference", reference,
		"product_id", in.ProductID,
		"from_warehouse_id", in.FromWarehouseID,
		"to_warehouse_id", in.ToWarehouseID,
		"quantity", in.Quantity,
		"employee_id", actor.EmployeeID)

	if owned {
		s.NotifyLowStock(ctx, result.Source)
	}
	return result, nil
}

func (s *Service) transferTx(ctx context.Context, employeeID int64, in TransferInput, reference string, from, to *warehouse.Warehouse) (*TransferResult, error) {
	var src, dst *inventoryDatamodel.Inventory

	lockSource := func() error {
		row, err := s.repo.Lock(ctx, in.ProductID, in.FromWarehouseID)
		if err != nil {
			return s.internalError("failed to lock source inventory", err)
		}
		available := int64(0)
		if row != nil {
			available = row.Quantity
		}
		if available < in.Quantity {
			return internal.NewValidationError(
				fmt.Sprintf("Insufficient stock in %s: available %d, requested %d", from.Code, available, in.Quantity),
				internal.ErrCodeInsufficientStock,
			)
		}
		src = row
		return nil
	}
	lockDestination := func() error {
		row, err := s.repo.LockOrCreate(ctx, in.ProductID, in.ToWarehouseID)
		if err != nil {
			return s.internalError("failed to lock destination inventory", err)
		}
		dst = row
		return nil
	}

	// Rows are locked in warehouse id order so opposing transfers cannot deadlock.
	steps := []func() error{lockSource, lockDestination}
	if in.ToWarehouseID < in.FromWarehouseID {
		steps = []func() error{lockDestination, lockSource}
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}

	src.Quantity -= in.Quantity
	if err := s.repo.UpdateQuantity(ctx, src.ID, src.Quantity); err != nil {
		return nil, s.internalError("failed to debit source inventory", err)
	}
	dst.Quantity += in.Quantity
	if err := s.repo.UpdateQuantity(ctx, dst.ID, dst.Quantity); err != nil {
		return nil, s.internalError("failed to credit destination inventory", err)
	}

	out := &inventoryDatamodel.StockMovement{
		ProductID:   in.ProductID,
		WarehouseID: in.FromWarehouseID,
		Quantity:    -in.Quantity,
		Type:        MovementTransferOut,
		Reference:   reference,
		Notes:       transferNote("Transfer to", to, in.Notes),
		EmployeeID:  employeeID,
	}
	incoming := &inventoryDatamodel.StockMovement{
		ProductID:   in.ProductID,
		WarehouseID: in.ToWarehouseID,
		Quantity:    in.Quantity,
		Type:        MovementTransferIn,
		Reference:   reference,
		Notes:       transferNote("Transfer from", from, in.Notes),
		EmployeeID:  employeeID,
	}
	for _, m := range []*inventoryDatamodel.StockMovement{out, incoming} {
		if err := s.repo.CreateMovement(ctx, m); err != nil {
			return nil, s.internalError("failed to record stock movement", err)
		}
	}

	sourceView := materialize(in.ProductID, in.FromWarehouseID, src)
	sourceView.WarehouseCode, sourceView.WarehouseName = from.Code, from.Name
	destinationView := materialize(in.ProductID, in.ToWarehouseID, dst)
	destinationView.WarehouseCode, destinationView.WarehouseName = to.Code, to.Name

	return &TransferResult{
		Reference:   reference,
		Source:      sourceView,
		Destination: destinationView,
		Movements:   []StockMovement{MovementFromDataModel(out), MovementFromDataModel(incoming)},
	}, nil
}

func transferNote(prefix string, w *warehouse.Warehouse, notes string) string {
	note := fmt.Sprintf("%s %s", prefix, w.Code)
	if notes != "" {
		note += ": " + notes
	}
	return note
}

// SetLevels changes thresholds on an existing row. Quantity is untouched and
// no movement is written.
func (s *Service) SetLevels(ctx context.Context, actor auth.Actor, in LevelsInput) (InventoryView, error) {
	if err := in.Validate(); err != nil {
		return InventoryView{}, err
	}
	if err := s.authorize(ctx, actor, in.WarehouseID); err != nil {
		return InventoryView{}, err
	}

	var view InventoryView
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		row, err := s.repo.Lock(txCtx, in.ProductID, in.WarehouseID)
		if err != nil {
			return s.internalError("failed to lock inventory", err)
		}
		if row == nil {
			return internal.NewNotFoundError(
				fmt.Sprintf("No inventory for product %d at warehouse %d", in.ProductID, in.WarehouseID),
				internal.ErrCodeInventoryNotFound,
			)
		}

		if err := s.repo.UpdateLevels(txCtx, row.ID, in.MinStockLevel, in.MaxStockLevel); err != nil {
			return s.internalError("failed to update stock levels", err)
		}
		row.MinStockLevel, row.MaxStockLevel = in.MinStockLevel, in.MaxStockLevel
		view = materialize(in.ProductID, in.WarehouseID, row)
		return nil
	})
	if err != nil {
		return InventoryView{}, err
	}

	s.NotifyLowStock(ctx, view)
	return view, nil
}

// ApplySaleTx decrements stock for one sale line. It must run inside the
// caller's transaction.
func (s *Service) ApplySaleTx(ctx context.Context, line SaleLine) (InventoryView, error) {
	if !database.InTx(ctx) {
		return InventoryView{}, internal.NewInternalError("sale stock changes require a transaction", nil)
	}
	if line.Quantity <= 0 {
		return InventoryView{}, internal.NewValidationError("quantity must be at least 1", internal.ErrCodeInvalidQuantity)
	}

	row, err := s.repo.Lock(ctx, line.ProductID, line.WarehouseID)
	if err != nil {
		return InventoryView{}, s.internalError("failed to lock inventory", err)
	}
	available := int64(0)
	if row != nil {
		available = row.Quantity
	}
	if available < line.Quantity {
		return InventoryView{}, internal.NewValidationError(
			fmt.Sprintf("Insufficient stock for product %d: available %d, requested %d", line.ProductID, available, line.Quantity),
			internal.ErrCodeInsufficientStock,
		)
	}

	row.Quantity -= line.Quantity
	if err := s.repo.UpdateQuantity(ctx, row.ID, row.Quantity); err != nil {
		return InventoryView{}, s.internalError("failed to update inventory", err)
	}

	movement := &inventoryDatamodel.StockMovement{
		ProductID:   line.ProductID,
		WarehouseID: line.WarehouseID,
		Quantity:    -line.Quantity,
		Type:        MovementSale,
		Reference:   line.Reference,
		EmployeeID:  line.EmployeeID,
	}
	if err := s.repo.CreateMovement(ctx, movement); err != nil {
		return InventoryView{}, s.internalError("failed to record stock movement", err)
	}

	return materialize(line.ProductID, line.WarehouseID, row), nil
}

// NotifyLowStock emits stock.low for every view at or below its minimum.
// Callers that run the engine inside their own transaction call it after commit.
func (s *Service) NotifyLowStock(ctx context.Context, views ...InventoryView) {
	for _, v := range views {
		if !v.NeedsAlert() {
			continue
		}
		event := events.NewLowStockEvent(v.ProductID, v.WarehouseID, v.Quantity, v.MinStockLevel)
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish low stock event", "product_id", v.ProductID, "warehouse_id", v.WarehouseID, "error", err)
		}
	}
}

// RequireProduct fails with NotFound for an unknown product.
func (s *Service) RequireProduct(ctx context.Context, productID int64) (*ProductRef, error) {
	ref, err := s.repo.GetProductRef(ctx, productID)
	if err != nil {
		return nil, s.internalError("failed to get product", err)
	}
	if ref == nil {
		return nil, internal.NewNotFoundError(fmt.Sprintf("Product %d not found", productID), internal.ErrCodeProductNotFound)
	}
	return ref, nil
}

func (s *Service) authorize(ctx context.Context, actor auth.Actor, warehouseID int64) error {
	scope, err := s.scopes.ResolveScope(ctx, actor)
	if err != nil {
		return err
	}
	return scope.Require(warehouseID)
}

func (s *Service) internalError(message string, err error) error {
	s.logger.Error(message, "error", err)
	return internal.NewInternalError(message, err)
}
