package report

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/pos-platform/internal"
	"github.com/frahmantamala/pos-platform/internal/auth"
	"github.com/shopspring/decimal"
)

// RepositoryAPI runs read-only aggregate queries. A nil warehouse slice
// covers every warehouse.
type RepositoryAPI interface {
	SalesTotals(ctx context.Context, warehouseIDs []int64, filter Filter) (SalesTotals, error)
	ExpenseTotal(ctx context.Context, warehouseIDs []int64, filter Filter) (decimal.Decimal, error)
	Valuation(ctx context.Context, warehouseIDs []int64) ([]WarehouseValuation, error)
}

type ScopeResolver interface {
	ResolveScope(ctx context.Context, actor auth.Actor) (auth.Scope, error)
}

type Service struct {
	repo   RepositoryAPI
	scopes ScopeResolver
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, scopes ScopeResolver, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		scopes: scopes,
		logger: logger,
	}
}

// FinancialSummary nets sales revenue against expenses over the period.
func (s *Service) FinancialSummary(ctx context.Context, actor auth.Actor, filter Filter) (*FinancialSummary, error) {
	summary := &FinancialSummary{
		From:        filter.From,
		To:          filter.To,
		WarehouseID: filter.WarehouseID,
		Revenue:     decimal.Zero,
		Discounts:   decimal.Zero,
		Expenses:    decimal.Zero,
		Net:         decimal.Zero,
	}

	ids, empty, err := s.warehouses(ctx, actor, filter.WarehouseID)
	if err != nil {
		return nil, err
	}
	if empty {
		return summary, nil
	}

	sales, err := s.repo.SalesTotals(ctx, ids, filter)
	if err != nil {
		s.logger.Error("failed to total sales", "actor_id", actor.EmployeeID, "error", err)
		return nil, internal.NewInternalError("failed to build financial summary", err)
	}
	expenses, err := s.repo.ExpenseTotal(ctx, ids, filter)
	if err != nil {
		s.logger.Error("failed to total expenses", "actor_id", actor.EmployeeID, "error", err)
		return nil, internal.NewInternalError("failed to build financial summary", err)
	}

	summary.SalesCount = sales.Count
	summary.Revenue = sales.Revenue
	summary.Discounts = sales.Discounts
	summary.Expenses = expenses
	summary.Net = sales.Revenue.Sub(expenses)
	return summary, nil
}

// StockValuation values on-hand stock at purchase and selling price.
func (s *Service) StockValuation(ctx context.Context, actor auth.Actor, warehouseID *int64) (*StockValuation, error) {
	ids, empty, err := s.warehouses(ctx, actor, warehouseID)
	if err != nil {
		return nil, err
	}
	if empty {
		return NewStockValuation(nil), nil
	}

	rows, err := s.repo.Valuation(ctx, ids)
	if err != nil {
		s.logger.Error("failed to value stock", "actor_id", actor.EmployeeID, "error", err)
		return nil, internal.NewInternalError("failed to build stock valuation", err)
	}
	return NewStockValuation(rows), nil
}

// warehouses narrows the query to the requested warehouse or the actor's
// scope. empty is true when a restricted actor has no warehouse at all.
func (s *Service) warehouses(ctx context.Context, actor auth.Actor, warehouseID *int64) (ids []int64, empty bool, err error) {
	scope, err := s.scopes.ResolveScope(ctx, actor)
	if err != nil {
		return nil, false, err
	}
	if warehouseID != nil {
		if err := scope.Require(*warehouseID); err != nil {
			s.logger.Warn("report denied", "actor_id", actor.EmployeeID, "warehouse_id", *warehouseID)
			return nil, false, err
		}
		return []int64{*warehouseID}, false, nil
	}
	ids = scope.WarehouseIDs()
	return ids, !scope.Unrestricted && len(ids) == 0, nil
}
