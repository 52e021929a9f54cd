package alert

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/pos-platform/internal"
	"github.com/frahmantamala/pos-platform/internal/auth"
	alertDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/alert"
	"github.com/frahmantamala/pos-platform/pkg/pagination"
)

type RepositoryAPI interface {
	Create(ctx context.Context, a *alertDatamodel.Alert) error
	GetByID(ctx context.Context, id int64) (*alertDatamodel.Alert, error)
	// List pages alerts; nil warehouseIDs means every alert, including those
	// without a warehouse.
	List(ctx context.Context, warehouseIDs []int64, filter ListFilter, offset, limit int) ([]*alertDatamodel.Alert, int64, error)
	MarkRead(ctx context.Context, id int64) error
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

func (s *Service) Record(ctx context.Context, a *alertDatamodel.Alert) error {
	if err := s.repo.Create(ctx, a); err != nil {
		s.logger.Error("failed to record alert", "type", a.Type, "error", err)
		return err
	}
	return nil
}

// List shows admins every alert and everyone else the alerts of their warehouses.
func (s *Service) List(ctx context.Context, actor auth.Actor, filter ListFilter, page pagination.Params) (pagination.Page[*Alert], error) {
	scope, err := s.scopes.ResolveScope(ctx, actor)
	if err != nil {
		return pagination.Page[*Alert]{}, err
	}
	ids := scope.WarehouseIDs()
	if !scope.Unrestricted && len(ids) == 0 {
		return pagination.NewPage([]*Alert{}, page, 0), nil
	}

	rows, total, err := s.repo.List(ctx, ids, filter, page.Offset, page.Limit)
	if err != nil {
		s.logger.Error("failed to list alerts", "error", err)
		return pagination.Page[*Alert]{}, internal.NewInternalError("failed to list alerts", err)
	}
	items := make([]*Alert, 0, len(rows))
	for _, row := range rows {
		items = append(items, FromDataModel(row))
	}
	return pagination.NewPage(items, page, total), nil
}

func (s *Service) MarkRead(ctx context.Context, actor auth.Actor, id int64) error {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get alert", "alert_id", id, "error", err)
		return internal.NewInternalError("failed to get alert", err)
	}
	if row == nil {
		return internal.NewNotFoundError(fmt.Sprintf("Alert %d not found", id), internal.ErrCodeAlertNotFound)
	}

	scope, err := s.scopes.ResolveScope(ctx, actor)
	if err != nil {
		return err
	}
	if !scope.Unrestricted {
		if row.WarehouseID == nil {
			return internal.NewForbiddenError("Only administrators can manage this alert", internal.ErrCodeUnauthorizedAccess)
		}
		if err := scope.Require(*row.WarehouseID); err != nil {
			return err
		}
	}

	if err := s.repo.MarkRead(ctx, id); err != nil {
		s.logger.Error("failed to mark alert read", "alert_id", id, "error", err)
		return internal.NewInternalError("failed to update alert", err)
	}
	return nil
}
