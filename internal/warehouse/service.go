package warehouse

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/frahmantamala/pos-platform/internal"
	"github.com/frahmantamala/pos-platform/internal/auth"
	warehouseDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/warehouse"
	"github.com/frahmantamala/pos-platform/pkg/pagination"
)

type RepositoryAPI interface {
	// List returns warehouses whose id is in ids; nil ids means all.
	List(ctx context.Context, ids []int64, offset, limit int) ([]*warehouseDatamodel.Warehouse, int64, error)
	GetByID(ctx context.Context, id int64) (*warehouseDatamodel.Warehouse, error)
	GetByCode(ctx context.Context, code string) (*warehouseDatamodel.Warehouse, error)
	CountByIDs(ctx context.Context, ids []int64) (int64, error)
	Create(ctx context.Context, w *warehouseDatamodel.Warehouse) error
	Update(ctx context.Context, w *warehouseDatamodel.Warehouse) error
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

// List returns the warehouses inside the actor's scope.
func (s *Service) List(ctx context.Context, actor auth.Actor, page pagination.Params) (pagination.Page[*Warehouse], error) {
	scope, err := s.scopes.ResolveScope(ctx, actor)
	if err != nil {
		return pagination.Page[*Warehouse]{}, err
	}

	ids := scope.WarehouseIDs()
	if !scope.Unrestricted && len(ids) == 0 {
		return pagination.NewPage[*Warehouse](nil, page, 0), nil
	}

	rows, total, err := s.repo.List(ctx, ids, page.Offset, page.Limit)
	if err != nil {
		s.logger.Error("failed to list warehouses", "error", err)
		return pagination.Page[*Warehouse]{}, internal.NewInternalError("failed to list warehouses", err)
	}

	items := make([]*Warehouse, 0, len(rows))
	for _, row := range rows {
		items = append(items, FromDataModel(row))
	}
	return pagination.NewPage(items, page, total), nil
}

func (s *Service) Get(ctx context.Context, actor auth.Actor, id int64) (*Warehouse, error) {
	scope, err := s.scopes.ResolveScope(ctx, actor)
	if err != nil {
		return nil, err
	}
	if err := scope.Require(id); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// GetByID loads a warehouse without a scope check.
func (s *Service) GetByID(ctx context.Context, id int64) (*Warehouse, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get warehouse", "warehouse_id", id, "error", err)
		return nil, internal.NewInternalError("failed to get warehouse", err)
	}
	if row == nil {
		return nil, internal.NewNotFoundError(fmt.Sprintf("Warehouse %d not found", id), internal.ErrCodeWarehouseNotFound)
	}
	return FromDataModel(row), nil
}

// EnsureExist fails with NotFound unless every id names a warehouse.
func (s *Service) EnsureExist(ctx context.Context, ids []int64) error {
	unique := auth.NewWarehouseSet(ids...).IDs()
	if len(unique) == 0 {
		return nil
	}
	count, err := s.repo.CountByIDs(ctx, unique)
	if err != nil {
		s.logger.Error("failed to count warehouses", "error", err)
		return internal.NewInternalError("failed to check warehouses", err)
	}
	if count != int64(len(unique)) {
		return internal.NewNotFoundError("One or more warehouses not found", internal.ErrCodeWarehouseNotFound)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, actor auth.Actor, dto CreateWarehouseDTO) (*Warehouse, error) {
	if !actor.Role.IsAdmin() {
		return nil, internal.NewForbiddenError("Only administrators can create warehouses", internal.ErrCodeUnauthorizedAccess)
	}

	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByCode(ctx, dto.Code)
	if err != nil {
		s.logger.Error("failed to check warehouse code", "code", dto.Code, "error", err)
		return nil, internal.NewInternalError("failed to create warehouse", err)
	}
	if existing != nil {
		return nil, internal.NewConflictError(fmt.Sprintf("Warehouse code %s already exists", dto.Code), internal.ErrCodeDuplicateCode)
	}

	row := &warehouseDatamodel.Warehouse{
		Name:     dto.Name,
		Code:     dto.Code,
		Type:     dto.Type,
		Address:  strings.TrimSpace(dto.Address),
		IsActive: true,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create warehouse", "code", dto.Code, "error", err)
		return nil, internal.NewInternalError("failed to create warehouse", err)
	}

	s.logger.Info("warehouse created", "warehouse_id", row.ID, "code", row.Code, "created_by", actor.EmployeeID)
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, actor auth.Actor, id int64, dto UpdateWarehouseDTO) (*Warehouse, error) {
	if !actor.Role.IsAdmin() {
		return nil, internal.NewForbiddenError("Only administrators can update warehouses", internal.ErrCodeUnauthorizedAccess)
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get warehouse", err)
	}
	if row == nil {
		return nil, internal.NewNotFoundError(fmt.Sprintf("Warehouse %d not found", id), internal.ErrCodeWarehouseNotFound)
	}

	if dto.Name != nil {
		row.Name = strings.TrimSpace(*dto.Name)
	}
	if dto.Type != nil {
		row.Type = strings.ToUpper(*dto.Type)
	}
	if dto.Address != nil {
		row.Address = strings.TrimSpace(*dto.Address)
	}
	if dto.IsActive != nil {
		row.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("failed to update warehouse", "warehouse_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update warehouse", err)
	}
	return FromDataModel(row), nil
}
