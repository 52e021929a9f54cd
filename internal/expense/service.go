package expense

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/pos-platform/internal"
	"github.com/frahmantamala/pos-platform/internal/auth"
	expenseDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/expense"
	"github.com/frahmantamala/pos-platform/pkg/pagination"
)

type RepositoryAPI interface {
	Create(ctx context.Context, e *expenseDatamodel.Expense) error
	GetByID(ctx context.Context, id int64) (*expenseDatamodel.Expense, error)
	// List pages expenses; nil warehouseIDs means every warehouse.
	List(ctx context.Context, warehouseIDs []int64, filter ListFilter, offset, limit int) ([]*expenseDatamodel.Expense, int64, error)
	Update(ctx context.Context, e *expenseDatamodel.Expense) error
	Delete(ctx context.Context, id int64) error
}

type WarehouseChecker interface {
	EnsureExist(ctx context.Context, ids []int64) error
}

type ScopeResolver interface {
	ResolveScope(ctx context.Context, actor auth.Actor) (auth.Scope, error)
}

// Service records operating expenses against warehouses.
type Service struct {
	repo       RepositoryAPI
	warehouses WarehouseChecker
	scopes     ScopeResolver
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, warehouses WarehouseChecker, scopes ScopeResolver, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		warehouses: warehouses,
		scopes:     scopes,
		logger:     logger,
	}
}

func (s *Service) CreateExpense(ctx context.Context, actor auth.Actor, dto CreateExpenseDTO) (*Expense, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		s.logger.Error("expense validation failed", "error", err, "actor_id", actor.EmployeeID)
		return nil, err
	}

	if err := s.authorize(ctx, actor, dto.WarehouseID); err != nil {
		s.logger.Warn("expense create denied", "actor_id", actor.EmployeeID, "warehouse_id", dto.WarehouseID)
		return nil, err
	}
	if err := s.warehouses.EnsureExist(ctx, []int64{dto.WarehouseID}); err != nil {
		return nil, err
	}

	row := ToDataModel(NewExpense(actor.EmployeeID, dto))
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create expense", "error", err, "actor_id", actor.EmployeeID)
		return nil, internal.NewInternalError("failed to create expense", err)
	}

	s.logger.Info("expense created successfully",
		"expense_id", row.ID,
		"warehouse_id", row.WarehouseID,
		"amount", row.Amount.String(),
		"actor_id", actor.EmployeeID)

	return FromDataModel(row), nil
}

// GetExpenseByID is limited to expenses of warehouses in the actor's scope.
func (s *Service) GetExpenseByID(ctx context.Context, actor auth.Actor, id int64) (*Expense, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, row.WarehouseID); err != nil {
		s.logger.Warn("unauthorized access to expense", "expense_id", id, "actor_id", actor.EmployeeID)
		return nil, err
	}
	return FromDataModel(row), nil
}

func (s *Service) ListExpenses(ctx context.Context, actor auth.Actor, filter ListFilter, page pagination.Params) (pagination.Page[*Expense], error) {
	scope, err := s.scopes.ResolveScope(ctx, actor)
	if err != nil {
		return pagination.Page[*Expense]{}, err
	}

	ids := scope.WarehouseIDs()
	if filter.WarehouseID != nil {
		if err := scope.Require(*filter.WarehouseID); err != nil {
			return pagination.Page[*Expense]{}, err
		}
		ids = []int64{*filter.WarehouseID}
	} else if !scope.Unrestricted && len(ids) == 0 {
		return pagination.NewPage([]*Expense{}, page, 0), nil
	}

	rows, total, err := s.repo.List(ctx, ids, filter, page.Offset, page.Limit)
	if err != nil {
		s.logger.Error("failed to list expenses", "error", err, "actor_id", actor.EmployeeID)
		return pagination.Page[*Expense]{}, internal.NewInternalError("failed to list expenses", err)
	}
	return pagination.NewPage(FromDataModelSlice(rows), page, total), nil
}

func (s *Service) UpdateExpense(ctx context.Context, actor auth.Actor, id int64, dto UpdateExpenseDTO) (*Expense, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, row.WarehouseID); err != nil {
		s.logger.Warn("expense update denied", "expense_id", id, "actor_id", actor.EmployeeID)
		return nil, err
	}

	if dto.WarehouseID != nil && *dto.WarehouseID != row.WarehouseID {
		if err := s.authorize(ctx, actor, *dto.WarehouseID); err != nil {
			return nil, err
		}
		if err := s.warehouses.EnsureExist(ctx, []int64{*dto.WarehouseID}); err != nil {
			return nil, err
		}
		row.WarehouseID = *dto.WarehouseID
	}
	if dto.Category != nil {
		row.Category = *dto.Category
	}
	if dto.Amount != nil {
		row.Amount = *dto.Amount
	}
	if dto.Description != nil {
		row.Description = *dto.Description
	}
	if dto.ExpenseDate != nil {
		row.ExpenseDate = *dto.ExpenseDate
	}

	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("failed to update expense", "error", err, "expense_id", id)
		return nil, internal.NewInternalError("failed to update expense", err)
	}

	s.logger.Info("expense updated", "expense_id", id, "actor_id", actor.EmployeeID)
	return FromDataModel(row), nil
}

func (s *Service) DeleteExpense(ctx context.Context, actor auth.Actor, id int64) error {
	row, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, actor, row.WarehouseID); err != nil {
		s.logger.Warn("expense delete denied", "expense_id", id, "actor_id", actor.EmployeeID)
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete expense", "error", err, "expense_id", id)
		return internal.NewInternalError("failed to delete expense", err)
	}

	s.logger.Info("expense deleted", "expense_id", id, "actor_id", actor.EmployeeID)
	return nil
}

func (s *Service) load(ctx context.Context, id int64) (*expenseDatamodel.Expense, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get expense", "error", err, "expense_id", id)
		return nil, internal.NewInternalError("failed to get expense", err)
	}
	if row == nil {
		return nil, internal.NewNotFoundError(fmt.Sprintf("Expense %d not found", id), internal.ErrCodeExpenseNotFound)
	}
	return row, nil
}

func (s *Service) authorize(ctx context.Context, actor auth.Actor, warehouseID int64) error {
	scope, err := s.scopes.ResolveScope(ctx, actor)
	if err != nil {
		return err
	}
	return scope.Require(warehouseID)
}
