package category

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/pos-platform/internal"
	categoryDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/category"
	"github.com/frahmantamala/pos-platform/pkg/pagination"
)

type RepositoryAPI interface {
	List(ctx context.Context, activeOnly bool, offset, limit int) ([]*categoryDatamodel.Category, int64, error)
	GetByID(ctx context.Context, id int64) (*categoryDatamodel.Category, error)
	GetByName(ctx context.Context, name string) (*categoryDatamodel.Category, error)
	CountActiveByIDs(ctx context.Context, ids []int64) (int64, error)
	Create(ctx context.Context, category *categoryDatamodel.Category) error
	Update(ctx context.Context, category *categoryDatamodel.Category) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context, includeInactive bool, page pagination.Params) (pagination.Page[*Category], error) {
	rows, total, err := s.repo.List(ctx, !includeInactive, page.Offset, page.Limit)
	if err != nil {
		s.logger.Error("failed to get categories from repository", "error", err)
		return pagination.Page[*Category]{}, internal.NewInternalError("failed to list categories", err)
	}

	categories := make([]*Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, fromRow(row))
	}

	s.logger.Debug("retrieved categories", "count", len(categories))
	return pagination.NewPage(categories, page, total), nil
}

func (s *Service) Create(ctx context.Context, dto CreateCategoryDTO) (*Category, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByName(ctx, dto.Name)
	if err != nil {
		s.logger.Error("failed to check category name", "name", dto.Name, "error", err)
		return nil, internal.NewInternalError("failed to create category", err)
	}
	if existing != nil {
		return nil, internal.NewConflictError(fmt.Sprintf("Category %s already exists", dto.Name), internal.ErrCodeDuplicateName)
	}

	row := newCategory(dto, time.Now()).toRow()
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create category", "name", dto.Name, "error", err)
		return nil, internal.NewInternalError("failed to create category", err)
	}
	return fromRow(row), nil
}

func (s *Service) Deactivate(ctx context.Context, id int64) (*Category, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get category", err)
	}
	if row == nil {
		return nil, internal.NewNotFoundError(fmt.Sprintf("Category %d not found", id), internal.ErrCodeCategoryNotFound)
	}

	c := fromRow(row)
	if !c.deactivate(time.Now()) {
		return c, nil
	}
	if err := s.repo.Update(ctx, c.toRow()); err != nil {
		s.logger.Error("failed to deactivate category", "category_id", id, "error", err)
		return nil, internal.NewInternalError("failed to deactivate category", err)
	}
	return c, nil
}

// EnsureActive fails with NotFound unless every id names an active category.
func (s *Service) EnsureActive(ctx context.Context, ids []int64) error {
	unique := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	if len(unique) == 0 {
		return nil
	}

	keys := make([]int64, 0, len(unique))
	for id := range unique {
		keys = append(keys, id)
	}

	count, err := s.repo.CountActiveByIDs(ctx, keys)
	if err != nil {
		s.logger.Error("failed to count categories", "error", err)
		return internal.NewInternalError("failed to check categories", err)
	}
	if count != int64(len(keys)) {
		return internal.NewNotFoundError("One or more categories not found", internal.ErrCodeCategoryNotFound)
	}
	return nil
}
