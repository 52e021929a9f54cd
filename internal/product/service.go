package product

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/pos-platform/internal"
	"github.com/frahmantamala/pos-platform/internal/auth"
	"github.com/frahmantamala/pos-platform/internal/core/database"
	productDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/product"
	"github.com/frahmantamala/pos-platform/internal/core/events"
	"github.com/frahmantamala/pos-platform/internal/inventory"
	"github.com/frahmantamala/pos-platform/pkg/pagination"
)

type RepositoryAPI interface {
	List(ctx context.Context, filter ListFilter, offset, limit int) ([]*productDatamodel.Product, int64, error)
	GetByID(ctx context.Context, id int64) (*productDatamodel.Product, error)
	GetBySKU(ctx context.Context, sku string) (*productDatamodel.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*productDatamodel.Product, error)
	Create(ctx context.Context, p *productDatamodel.Product, categoryIDs []int64) error
	Update(ctx context.Context, p *productDatamodel.Product) error
	ReplaceCategories(ctx context.Context, productID int64, categoryIDs []int64) error
	// CountHistory locks the product row, so it must run in the delete transaction.
	CountHistory(ctx context.Context, productID int64) (History, error)
	// Delete removes the product with its movements, inventory rows and category links.
	Delete(ctx context.Context, productID int64) error
}

type CategoryChecker interface {
	EnsureActive(ctx context.Context, ids []int64) error
}

// StockEngine is the part of the inventory engine products write through.
type StockEngine interface {
	Adjust(ctx context.Context, actor auth.Actor, in inventory.AdjustInput) (*inventory.AdjustResult, error)
	SetQuantity(ctx context.Context, actor auth.Actor, in inventory.QuantityInput) (*inventory.QuantityChange, error)
	EffectiveInventories(ctx context.Context, productIDs []int64, warehouseID int64) (map[int64]inventory.InventoryView, error)
	NotifyLowStock(ctx context.Context, views ...inventory.InventoryView)
}

type ScopeResolver interface {
	ResolveScope(ctx context.Context, actor auth.Actor) (auth.Scope, error)
}

type Service struct {
	repo       RepositoryAPI
	tx         database.TxManager
	categories CategoryChecker
	stock      StockEngine
	scopes     ScopeResolver
	publisher  events.Publisher
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, tx database.TxManager, categories CategoryChecker, stock StockEngine, scopes ScopeResolver, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		tx:         tx,
		categories: categories,
		stock:      stock,
		scopes:     scopes,
		publisher:  publisher,
		logger:     logger,
	}
}

// List pages products. With a warehouse every product carries its stock there,
// zero for pairs that were never stocked.
func (s *Service) List(ctx context.Context, actor auth.Actor, filter ListFilter, page pagination.Params) (pagination.Page[*Product], error) {
	if filter.WarehouseID != nil {
		if err := s.authorize(ctx, actor, *filter.WarehouseID); err != nil {
			return pagination.Page[*Product]{}, err
		}
	}

	rows, total, err := s.repo.List(ctx, filter, page.Offset, page.Limit)
	if err != nil {
		s.logger.Error("failed to list products", "error", err)
		return pagination.Page[*Product]{}, internal.NewInternalError("failed to list products", err)
	}

	items := make([]*Product, 0, len(rows))
	for _, row := range rows {
		items = append(items, FromDataModel(row))
	}
	if filter.WarehouseID != nil {
		if err := s.attachStock(ctx, items, *filter.WarehouseID); err != nil {
			return pagination.Page[*Product]{}, err
		}
	}
	return pagination.NewPage(items, page, total), nil
}

func (s *Service) Get(ctx context.Context, actor auth.Actor, id int64, warehouseID *int64) (*Product, error) {
	if warehouseID != nil {
		if err := s.authorize(ctx, actor, *warehouseID); err != nil {
			return nil, err
		}
	}

	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	p := FromDataModel(row)
	if warehouseID != nil {
		if err := s.attachStock(ctx, []*Product{p}, *warehouseID); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (s *Service) attachStock(ctx context.Context, items []*Product, warehouseID int64) error {
	ids := make([]int64, 0, len(items))
	for _, p := range items {
		ids = append(ids, p.ID)
	}
	views, err := s.stock.EffectiveInventories(ctx, ids, warehouseID)
	if err != nil {
		return err
	}
	for _, p := range items {
		view := views[p.ID]
		p.Stock = &view
	}
	return nil
}

func (s *Service) Create(ctx context.Context, actor auth.Actor, dto CreateProductDTO) (*Product, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if dto.WarehouseID != nil {
		if err := s.authorize(ctx, actor, *dto.WarehouseID); err != nil {
			return nil, err
		}
	}
	if err := s.ensureUnique(ctx, 0, dto.SKU, dto.Barcode); err != nil {
		return nil, err
	}
	if err := s.categories.EnsureActive(ctx, dto.CategoryIDs); err != nil {
		return nil, err
	}

	row := &productDatamodel.Product{
		SKU:           dto.SKU,
		Barcode:       dto.Barcode,
		Name:          dto.Name,
		Description:   dto.Description,
		PurchasePrice: dto.PurchasePrice,
		SellingPrice:  dto.SellingPrice,
		Unit:          dto.Unit,
		IsActive:      true,
	}

	var stock *inventory.InventoryView
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, row, dto.CategoryIDs); err != nil {
			s.logger.Error("failed to create product", "sku", dto.SKU, "error", err)
			return internal.NewInternalError("failed to create product", err)
		}
		if dto.WarehouseID == nil || dto.InitialStock == 0 {
			return nil
		}

		result, err := s.stock.Adjust(txCtx, actor, inventory.AdjustInput{
			ProductID:    row.ID,
			WarehouseID:  *dto.WarehouseID,
			Quantity:     dto.InitialStock,
			Reason:       "Initial stock",
			MovementType: inventory.MovementInitial,
		})
		if err != nil {
			return err
		}
		stock = &result.Inventory
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product created", "product_id", row.ID, "sku", row.SKU, "actor_id", actor.EmployeeID)

	created, err := s.load(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	p := FromDataModel(created)
	p.Stock = stock
	return p, nil
}

// Update applies the set fields. A stock change is written through the engine
// and a decrease is announced on stock.reduced after commit.
func (s *Service) Update(ctx context.Context, actor auth.Actor, id int64, dto UpdateProductDTO) (*Product, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if dto.WarehouseID != nil {
		if err := s.authorize(ctx, actor, *dto.WarehouseID); err != nil {
			return nil, err
		}
	}

	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	sku := ""
	if dto.SKU != nil && *dto.SKU != row.SKU {
		sku = *dto.SKU
		row.SKU = sku
	}
	var barcode *string
	if dto.Barcode != nil {
		next := normalizeBarcode(dto.Barcode)
		if !sameBarcode(row.Barcode, next) {
			barcode = next
		}
		row.Barcode = next
	}
	if err := s.ensureUnique(ctx, id, sku, barcode); err != nil {
		return nil, err
	}
	if dto.CategoryIDs != nil {
		if err := s.categories.EnsureActive(ctx, dto.CategoryIDs); err != nil {
			return nil, err
		}
	}

	if dto.Name != nil {
		row.Name = *dto.Name
	}
	if dto.Description != nil {
		row.Description = *dto.Description
	}
	if dto.PurchasePrice != nil {
		row.PurchasePrice = *dto.PurchasePrice
	}
	if dto.SellingPrice != nil {
		row.SellingPrice = *dto.SellingPrice
	}
	if dto.Unit != nil && *dto.Unit != "" {
		row.Unit = *dto.Unit
	}
	if dto.IsActive != nil {
		row.IsActive = *dto.IsActive
	}

	var change *inventory.QuantityChange
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Update(txCtx, row); err != nil {
			s.logger.Error("failed to update product", "product_id", id, "error", err)
			return internal.NewInternalError("failed to update product", err)
		}
		if dto.CategoryIDs != nil {
			if err := s.repo.ReplaceCategories(txCtx, id, dto.CategoryIDs); err != nil {
				s.logger.Error("failed to replace product categories", "product_id", id, "error", err)
				return internal.NewInternalError("failed to update product", err)
			}
		}
		if dto.Stock == nil {
			return nil
		}

		var err error
		change, err = s.stock.SetQuantity(txCtx, actor, inventory.QuantityInput{
			ProductID:   id,
			WarehouseID: *dto.WarehouseID,
			Quantity:    *dto.Stock,
			Reason:      "Product stock update",
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	if change != nil {
		if change.Reduced() {
			s.publishStockReduced(ctx, actor, row, change)
		}
		s.stock.NotifyLowStock(ctx, change.Inventory)
	}

	updated, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	p := FromDataModel(updated)
	if change != nil {
		p.Stock = &change.Inventory
	}
	return p, nil
}

func (s *Service) publishStockReduced(ctx context.Context, actor auth.Actor, row *productDatamodel.Product, change *inventory.QuantityChange) {
	event := events.NewStockReducedEvent(
		row.ID,
		row.Name,
		change.Inventory.WarehouseID,
		change.Previous,
		change.Inventory.Quantity,
		actor.EmployeeID,
		actor.Name,
	)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish stock reduced event", "product_id", row.ID, "error", err)
	}
}

// Delete is a hard delete reserved to administrators. Products with sale or
// purchase order history are kept for reporting.
func (s *Service) Delete(ctx context.Context, actor auth.Actor, id int64) error {
	if !actor.Role.IsAdmin() {
		s.logger.Warn("product delete denied", "product_id", id, "actor_id", actor.EmployeeID)
		return internal.NewForbiddenError("Only administrators can delete products", internal.ErrCodeUnauthorizedAccess)
	}

	row, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		history, err := s.repo.CountHistory(txCtx, id)
		if err != nil {
			s.logger.Error("failed to count product history", "product_id", id, "error", err)
			return internal.NewInternalError("failed to delete product", err)
		}
		if !history.Empty() {
			return internal.NewValidationError(
				fmt.Sprintf("Cannot delete product: it appears in %d sale(s) and %d purchase order line(s)", history.SaleLines, history.PurchaseOrderLines),
				internal.ErrCodeProductHasHistory,
			)
		}

		if err := s.repo.Delete(txCtx, id); err != nil {
			s.logger.Error("failed to delete product", "product_id", id, "error", err)
			return internal.NewInternalError("failed to delete product", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("product deleted", "product_id", id, "sku", row.SKU, "actor_id", actor.EmployeeID)

	event := events.NewProductDeletedEvent(row.ID, row.SKU, row.Name, actor.EmployeeID, actor.Name)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish product deleted event", "product_id", id, "error", err)
	}
	return nil
}

func (s *Service) load(ctx context.Context, id int64) (*productDatamodel.Product, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get product", "product_id", id, "error", err)
		return nil, internal.NewInternalError("failed to get product", err)
	}
	if row == nil {
		return nil, internal.NewNotFoundError(fmt.Sprintf("Product %d not found", id), internal.ErrCodeProductNotFound)
	}
	return row, nil
}

// ensureUnique checks the given sku and barcode; empty values are skipped.
func (s *Service) ensureUnique(ctx context.Context, selfID int64, sku string, barcode *string) error {
	if sku != "" {
		existing, err := s.repo.GetBySKU(ctx, sku)
		if err != nil {
			return internal.NewInternalError("failed to check sku", err)
		}
		if existing != nil && existing.ID != selfID {
			return internal.NewConflictError(fmt.Sprintf("SKU %s already exists", sku), internal.ErrCodeDuplicateSKU)
		}
	}
	if barcode != nil {
		existing, err := s.repo.GetByBarcode(ctx, *barcode)
		if err != nil {
			return internal.NewInternalError("failed to check barcode", err)
		}
		if existing != nil && existing.ID != selfID {
			return internal.NewConflictError(fmt.Sprintf("Barcode %s already exists", *barcode), internal.ErrCodeDuplicateBarcode)
		}
	}
	return nil
}

func (s *Service) authorize(ctx context.Context, actor auth.Actor, warehouseID int64) error {
	scope, err := s.scopes.ResolveScope(ctx, actor)
	if err != nil {
		return err
	}
	return scope.Require(warehouseID)
}

func sameBarcode(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
