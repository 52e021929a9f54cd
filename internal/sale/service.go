package sale

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/pos-platform/internal"
	"github.com/frahmantamala/pos-platform/internal/auth"
	"github.com/frahmantamala/pos-platform/internal/core/database"
	saleDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/sale"
	"github.com/frahmantamala/pos-platform/internal/inventory"
	"github.com/frahmantamala/pos-platform/internal/warehouse"
	"github.com/frahmantamala/pos-platform/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RepositoryAPI interface {
	GetProducts(ctx context.Context, ids []int64) ([]PricedProduct, error)
	Create(ctx context.Context, s *saleDatamodel.Sale) error
	GetByID(ctx context.Context, id int64) (*saleDatamodel.Sale, error)
	// List pages sales; nil warehouseIDs means every warehouse.
	List(ctx context.Context, warehouseIDs []int64, filter ListFilter, offset, limit int) ([]*saleDatamodel.Sale, int64, error)
}

// StockEngine is the part of the inventory engine checkout writes through.
type StockEngine interface {
	ApplySaleTx(ctx context.Context, line inventory.SaleLine) (inventory.InventoryView, error)
	NotifyLowStock(ctx context.Context, views ...inventory.InventoryView)
}

type LoyaltyLedger interface {
	ApplyLoyalty(ctx context.Context, customerID, earned, redeemed int64) (int64, error)
}

type WarehouseLookup interface {
	GetByID(ctx context.Context, id int64) (*warehouse.Warehouse, error)
}

type ScopeResolver interface {
	ResolveScope(ctx context.Context, actor auth.Actor) (auth.Scope, error)
}

type Service struct {
	repo       RepositoryAPI
	tx         database.TxManager
	warehouses WarehouseLookup
	stock      StockEngine
	loyalty    LoyaltyLedger
	scopes     ScopeResolver
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, tx database.TxManager, warehouses WarehouseLookup, stock StockEngine, loyalty LoyaltyLedger, scopes ScopeResolver, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		tx:         tx,
		warehouses: warehouses,
		stock:      stock,
		loyalty:    loyalty,
		scopes:     scopes,
		logger:     logger,
	}
}

// Checkout records a sale from a boutique. Stock decrements, loyalty points
// and the sale rows commit or roll back together.
func (s *Service) Checkout(ctx context.Context, actor auth.Actor, in CheckoutInput) (*Sale, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	w, err := s.warehouses.GetByID(ctx, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if !w.IsBoutique() {
		return nil, internal.NewValidationError("Sales are not allowed from a storage warehouse", internal.ErrCodeSalesNotAllowed)
	}
	if err := s.authorize(ctx, actor, in.WarehouseID); err != nil {
		s.logger.Warn("checkout denied", "actor_id", actor.EmployeeID, "warehouse_id", in.WarehouseID)
		return nil, err
	}

	lines := in.Lines()
	items, subtotal, err := s.price(ctx, lines)
	if err != nil {
		return nil, err
	}

	redeemValue := decimal.NewFromInt(in.RedeemPoints)
	if in.Discount.Add(redeemValue).GreaterThan(subtotal) {
		return nil, internal.NewValidationFieldError("discount",
			fmt.Sprintf("Discount and redeemed points exceed the subtotal of %s", subtotal.StringFixed(2)),
			internal.ErrCodeInvalidAmount)
	}
	discount := in.Discount.Add(redeemValue)
	total := subtotal.Sub(discount)

	row := &saleDatamodel.Sale{
		ReceiptNumber:     newReceiptNumber(time.Now()),
		WarehouseID:       in.WarehouseID,
		EmployeeID:        actor.EmployeeID,
		CustomerID:        in.CustomerID,
		Subtotal:          subtotal,
		DiscountAmount:    discount,
		TotalAmount:       total,
		PaymentMethod:     in.PaymentMethod,
		LoyaltyPointsUsed: in.RedeemPoints,
		Items:             items,
	}
	if in.CustomerID != nil {
		row.LoyaltyPointsEarned = PointsEarned(total)
	}

	var (
		views   []inventory.InventoryView
		balance *int64
	)
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		for _, line := range lines {
			view, err := s.stock.ApplySaleTx(txCtx, inventory.SaleLine{
				ProductID:   line.ProductID,
				WarehouseID: in.WarehouseID,
				Quantity:    line.Quantity,
				EmployeeID:  actor.EmployeeID,
				Reference:   row.ReceiptNumber,
			})
			if err != nil {
				return err
			}
			views = append(views, view)
		}

		if in.CustomerID != nil {
			points, err := s.loyalty.ApplyLoyalty(txCtx, *in.CustomerID, row.LoyaltyPointsEarned, in.RedeemPoints)
			if err != nil {
				return err
			}
			balance = &points
		}

		if err := s.repo.Create(txCtx, row); err != nil {
			s.logger.Error("failed to create sale", "receipt_number", row.ReceiptNumber, "error", err)
			return internal.NewInternalError("failed to create sale", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sale recorded",
		"sale_id", row.ID,
		"receipt_number", row.ReceiptNumber,
		"warehouse_id", row.WarehouseID,
		"total", row.TotalAmount.String(),
		"actor_id", actor.EmployeeID)

	s.stock.NotifyLowStock(ctx, views...)

	sale := FromDataModel(row)
	sale.LoyaltyBalance = balance
	return sale, nil
}

// price builds the sale items from current selling prices.
func (s *Service) price(ctx context.Context, lines []LineInput) ([]saleDatamodel.SaleItem, decimal.Decimal, error) {
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	products, err := s.repo.GetProducts(ctx, ids)
	if err != nil {
		s.logger.Error("failed to load products for sale", "error", err)
		return nil, decimal.Zero, internal.NewInternalError("failed to load products", err)
	}
	byID := make(map[int64]PricedProduct, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]saleDatamodel.SaleItem, 0, len(lines))
	subtotal := decimal.Zero
	for _, line := range lines {
		p, ok := byID[line.ProductID]
		if !ok {
			return nil, decimal.Zero, internal.NewNotFoundError(fmt.Sprintf("Product %d not found", line.ProductID), internal.ErrCodeProductNotFound)
		}
		if !p.IsActive {
			return nil, decimal.Zero, internal.NewValidationError(fmt.Sprintf("Product %s is not for sale", p.Name), internal.ErrCodeInvalidRequest)
		}
		lineTotal := p.SellingPrice.Mul(decimal.NewFromInt(line.Quantity))
		items = append(items, saleDatamodel.SaleItem{
			ProductID: p.ID,
			Quantity:  line.Quantity,
			UnitPrice: p.SellingPrice,
			Total:     lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)
	}
	return items, subtotal, nil
}

func (s *Service) Get(ctx context.Context, actor auth.Actor, id int64) (*Sale, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get sale", "sale_id", id, "error", err)
		return nil, internal.NewInternalError("failed to get sale", err)
	}
	if row == nil {
		return nil, internal.NewNotFoundError(fmt.Sprintf("Sale %d not found", id), internal.ErrCodeSaleNotFound)
	}
	if err := s.authorize(ctx, actor, row.WarehouseID); err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

func (s *Service) List(ctx context.Context, actor auth.Actor, filter ListFilter, page pagination.Params) (pagination.Page[*Sale], error) {
	scope, err := s.scopes.ResolveScope(ctx, actor)
	if err != nil {
		return pagination.Page[*Sale]{}, err
	}

	ids := scope.WarehouseIDs()
	if filter.WarehouseID != nil {
		if err := scope.Require(*filter.WarehouseID); err != nil {
			return pagination.Page[*Sale]{}, err
		}
		ids = []int64{*filter.WarehouseID}
	} else if !scope.Unrestricted && len(ids) == 0 {
		return pagination.NewPage([]*Sale{}, page, 0), nil
	}

	rows, total, err := s.repo.List(ctx, ids, filter, page.Offset, page.Limit)
	if err != nil {
		s.logger.Error("failed to list sales", "error", err)
		return pagination.Page[*Sale]{}, internal.NewInternalError("failed to list sales", err)
	}
	items := make([]*Sale, 0, len(rows))
	for _, row := range rows {
		items = append(items, FromDataModel(row))
	}
	return pagination.NewPage(items, page, total), nil
}

func (s *Service) authorize(ctx context.Context, actor auth.Actor, warehouseID int64) error {
	scope, err := s.scopes.ResolveScope(ctx, actor)
	if err != nil {
		return err
	}
	return scope.Require(warehouseID)
}

func newReceiptNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("RCP-%s-%s", now.Format("20060102"), suffix)
}
