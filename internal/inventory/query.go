package inventory

import (
	"context"
	"iter"
	"slices"
	"strings"

	"github.com/frahmantamala/pos-platform/internal/auth"
	"github.com/frahmantamala/pos-platform/pkg/pagination"
)

// List returns inventory inside the actor's scope. With a warehouse filter
// every active product appears, virtual rows included.
func (s *Service) List(ctx context.Context, actor auth.Actor, filter ListFilter, page pagination.Params) (pagination.Page[InventoryView], error) {
	scope, err := s.scopes.ResolveScope(ctx, actor)
	if err != nil {
		return pagination.Page[InventoryView]{}, err
	}

	var ids []int64
	switch {
	case filter.WarehouseID != nil:
		if err := scope.Require(*filter.WarehouseID); err != nil {
			return pagination.Page[InventoryView]{}, err
		}
		ids = []int64{*filter.WarehouseID}
	case !scope.Unrestricted:
		ids = scope.WarehouseIDs()
		if len(ids) == 0 {
			return pagination.NewPage[InventoryView](nil, page, 0), nil
		}
	}

	if filter.LowStock {
		return s.listLowStock(ctx, ids, filter, page)
	}
	if filter.WarehouseID != nil {
		return s.listWarehouse(ctx, *filter.WarehouseID, filter, page)
	}

	q := RecordQuery{WarehouseIDs: ids, ProductID: filter.ProductID, Search: strings.TrimSpace(filter.Search)}
	records, total, err := s.repo.ListRecords(ctx, q, page.Offset, page.Limit)
	if err != nil {
		return pagination.Page[InventoryView]{}, s.internalError("failed to list inventory", err)
	}
	return pagination.NewPage(views(records), page, total), nil
}

func (s *Service) listWarehouse(ctx context.Context, warehouseID int64, filter ListFilter, page pagination.Params) (pagination.Page[InventoryView], error) {
	w, err := s.warehouses.GetByID(ctx, warehouseID)
	if err != nil {
		return pagination.Page[InventoryView]{}, err
	}

	q := RecordQuery{ProductID: filter.ProductID, Search: strings.TrimSpace(filter.Search)}
	records, total, err := s.repo.ListWarehouseRecords(ctx, warehouseID, q, page.Offset, page.Limit)
	if err != nil {
		return pagination.Page[InventoryView]{}, s.internalError("failed to list warehouse inventory", err)
	}

	for i := range records {
		records[i].WarehouseID = warehouseID
		records[i].WarehouseCode = w.Code
		records[i].WarehouseName = w.Name
	}
	return pagination.NewPage(views(records), page, total), nil
}

func (s *Service) listLowStock(ctx context.Context, ids []int64, filter ListFilter, page pagination.Params) (pagination.Page[InventoryView], error) {
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	var items []InventoryView
	for v, err := range s.lowStock(ctx, ids) {
		if err != nil {
			return pagination.Page[InventoryView]{}, err
		}
		if filter.ProductID != nil && v.ProductID != *filter.ProductID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(v.ProductName), search) && !strings.Contains(strings.ToLower(v.ProductSKU), search) {
			continue
		}
		items = append(items, v)
	}
	return pagination.NewPage(pagination.Slice(items, page), page, int64(len(items))), nil
}

// LowStock yields persisted rows at or below their minimum, most urgent
// first. Ties keep insertion order. Each range re-reads the database.
func (s *Service) LowStock(ctx context.Context, warehouseID *int64) iter.Seq2[InventoryView, error] {
	var ids []int64
	if warehouseID != nil {
		ids = []int64{*warehouseID}
	}
	return s.lowStock(ctx, ids)
}

func (s *Service) lowStock(ctx context.Context, ids []int64) iter.Seq2[InventoryView, error] {
	return func(yield func(InventoryView, error) bool) {
		records, err := s.repo.LowStockRecords(ctx, ids)
		if err != nil {
			yield(InventoryView{}, s.internalError("failed to load low stock", err))
			return
		}

		items := views(records)
		slices.SortStableFunc(items, compareUrgency)
		for _, v := range items {
			if !yield(v, nil) {
				return
			}
		}
	}
}

// Movements lists the stock movement history inside the actor's scope.
func (s *Service) Movements(ctx context.Context, actor auth.Actor, filter MovementFilter, page pagination.Params) (pagination.Page[StockMovement], error) {
	scope, err := s.scopes.ResolveScope(ctx, actor)
	if err != nil {
		return pagination.Page[StockMovement]{}, err
	}

	var ids []int64
	switch {
	case filter.WarehouseID != nil:
		if err := scope.Require(*filter.WarehouseID); err != nil {
			return pagination.Page[StockMovement]{}, err
		}
	case !scope.Unrestricted:
		ids = scope.WarehouseIDs()
		if len(ids) == 0 {
			return pagination.NewPage[StockMovement](nil, page, 0), nil
		}
	}

	rows, total, err := s.repo.ListMovements(ctx, filter, ids, page.Offset, page.Limit)
	if err != nil {
		return pagination.Page[StockMovement]{}, s.internalError("failed to list stock movements", err)
	}

	items := make([]StockMovement, 0, len(rows))
	for _, row := range rows {
		items = append(items, MovementFromDataModel(row))
	}
	return pagination.NewPage(items, page, total), nil
}

func views(records []Record) []InventoryView {
	items := make([]InventoryView, 0, len(records))
	for i := range records {
		items = append(items, records[i].view())
	}
	return items
}
