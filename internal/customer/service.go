package customer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/pos-platform/internal"
	customerDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/customer"
	"github.com/frahmantamala/pos-platform/pkg/pagination"
)

type RepositoryAPI interface {
	List(ctx context.Context, filter ListFilter, offset, limit int) ([]*customerDatamodel.Customer, int64, error)
	GetByID(ctx context.Context, id int64) (*customerDatamodel.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*customerDatamodel.Customer, error)
	// GetForUpdate locks the row for the rest of the caller's transaction.
	GetForUpdate(ctx context.Context, id int64) (*customerDatamodel.Customer, error)
	Create(ctx context.Context, c *customerDatamodel.Customer) error
	UpdateLoyaltyPoints(ctx context.Context, id int64, points int64) error
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

func (s *Service) Create(ctx context.Context, dto CreateCustomerDTO) (*Customer, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row := &customerDatamodel.Customer{
		Name:  dto.Name,
		Email: dto.Email,
		Notes: dto.Notes,
	}

	if dto.Phone != "" {
		existing, err := s.repo.GetByPhone(ctx, dto.Phone)
		if err != nil {
			s.logger.Error("failed to check customer phone", "error", err)
			return nil, internal.NewInternalError("failed to create customer", err)
		}
		if existing != nil {
			return nil, internal.NewConflictError("A customer with this phone already exists", internal.ErrCodeDuplicatePhone)
		}
		phone := dto.Phone
		row.Phone = &phone
	}

	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create customer", "error", err)
		return nil, internal.NewInternalError("failed to create customer", err)
	}
	return FromDataModel(row), nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get customer", "customer_id", id, "error", err)
		return nil, internal.NewInternalError("failed to get customer", err)
	}
	if row == nil {
		return nil, internal.NewNotFoundError(fmt.Sprintf("Customer %d not found", id), internal.ErrCodeCustomerNotFound)
	}
	return FromDataModel(row), nil
}

func (s *Service) List(ctx context.Context, filter ListFilter, page pagination.Params) (pagination.Page[*Customer], error) {
	rows, total, err := s.repo.List(ctx, filter, page.Offset, page.Limit)
	if err != nil {
		s.logger.Error("failed to list customers", "error", err)
		return pagination.Page[*Customer]{}, internal.NewInternalError("failed to list customers", err)
	}

	items := make([]*Customer, 0, len(rows))
	for _, row := range rows {
		items = append(items, FromDataModel(row))
	}
	return pagination.NewPage(items, page, total), nil
}

// ApplyLoyalty redeems then earns points on one customer inside the caller's
// transaction and returns the new balance. The balance never goes negative.
func (s *Service) ApplyLoyalty(ctx context.Context, customerID, earned, redeemed int64) (int64, error) {
	if earned < 0 || redeemed < 0 {
		return 0, internal.NewValidationError("Loyalty points cannot be negative", internal.ErrCodeInvalidQuantity)
	}

	row, err := s.repo.GetForUpdate(ctx, customerID)
	if err != nil {
		s.logger.Error("failed to lock customer", "customer_id", customerID, "error", err)
		return 0, internal.NewInternalError("failed to update loyalty points", err)
	}
	if row == nil {
		return 0, internal.NewNotFoundError(fmt.Sprintf("Customer %d not found", customerID), internal.ErrCodeCustomerNotFound)
	}

	if redeemed > row.LoyaltyPoints {
		return 0, internal.NewValidationError(
			fmt.Sprintf("Insufficient loyalty points: available %d, requested %d", row.LoyaltyPoints, redeemed),
			internal.ErrCodeInsufficientPoints,
		)
	}

	balance := row.LoyaltyPoints - redeemed + earned
	if err := s.repo.UpdateLoyaltyPoints(ctx, customerID, balance); err != nil {
		s.logger.Error("failed to update loyalty points", "customer_id", customerID, "error", err)
		return 0, internal.NewInternalError("failed to update loyalty points", err)
	}
	return balance, nil
}
