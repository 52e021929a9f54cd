package sale_test

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/frahmantamala/pos-platform/internal"
	"github.com/frahmantamala/pos-platform/internal/auth"
	"github.com/frahmantamala/pos-platform/internal/core/database"
	"github.com/frahmantamala/pos-platform/internal/core/database/databasetest"
	customerDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/customer"
	inventoryDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/inventory"
	productDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/product"
	saleDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/sale"
	warehouseDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/warehouse"
	"github.com/frahmantamala/pos-platform/internal/core/events"
	"github.com/frahmantamala/pos-platform/internal/customer"
	customerPostgres "github.com/frahmantamala/pos-platform/internal/customer/postgres"
	"github.com/frahmantamala/pos-platform/internal/inventory"
	inventoryPostgres "github.com/frahmantamala/pos-platform/internal/inventory/postgres"
	"github.com/frahmantamala/pos-platform/internal/sale"
	salePostgres "github.com/frahmantamala/pos-platform/internal/sale/postgres"
	"github.com/frahmantamala/pos-platform/internal/warehouse"
	warehousePostgres "github.com/frahmantamala/pos-platform/internal/warehouse/postgres"
	"github.com/frahmantamala/pos-platform/pkg/pagination"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func TestSale(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Sale Suite")
}

type fakeScopes struct {
	scope auth.Scope
}

func (f *fakeScopes) ResolveScope(ctx context.Context, actor auth.Actor) (auth.Scope, error) {
	if actor.Role.IsAdmin() {
		return auth.Scope{Unrestricted: true}, nil
	}
	return f.scope, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) ofType(eventType string) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.Event
	for _, e := range p.events {
		if e.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}

var _ = Describe("Sale Service", func() {
	var (
		ctx       context.Context
		db        *gorm.DB
		scopes    *fakeScopes
		publisher *recordingPublisher
		engine    *inventory.Service
		service   *sale.Service
		admin     auth.Actor
		cashier   auth.Actor
		boutique  *warehouseDatamodel.Warehouse
		depot     *warehouseDatamodel.Warehouse
		shirt     *productDatamodel.Product
		hat       *productDatamodel.Product
		buyer     *customerDatamodel.Customer
	)

	stockAt := func(productID, warehouseID int64) int64 {
		view, err := engine.GetEffectiveInventory(ctx, productID, warehouseID)
		Expect(err).NotTo(HaveOccurred())
		return view.Quantity
	}

	stock := func(productID, warehouseID, qty int64) {
		_, err := engine.Adjust(ctx, admin, inventory.AdjustInput{ProductID: productID, WarehouseID: warehouseID, Quantity: qty})
		Expect(err).NotTo(HaveOccurred())
	}

	pointsOf := func(id int64) int64 {
		var row customerDatamodel.Customer
		Expect(db.First(&row, id).Error).To(Succeed())
		return row.LoyaltyPoints
	}

	countSales := func() int64 {
		var n int64
		Expect(db.Model(&saleDatamodel.Sale{}).Count(&n).Error).To(Succeed())
		return n
	}

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		db, err = databasetest.Open()
		Expect(err).NotTo(HaveOccurred())

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		scopes = &fakeScopes{}
		publisher = &recordingPublisher{}
		tx := database.NewTxManager(db)
		warehouses := warehouse.NewService(warehousePostgres.NewWarehouseRepository(db), scopes, logger)
		engine = inventory.NewService(inventoryPostgres.NewInventoryRepository(db), tx, scopes, warehouses, publisher, logger)
		customers := customer.NewService(customerPostgres.NewCustomerRepository(db), logger)
		service = sale.NewService(salePostgres.NewSaleRepository(db), tx, warehouses, engine, customers, scopes, logger)

		admin = auth.Actor{EmployeeID: 1, Name: "Ada Admin", Role: auth.RoleAdmin}
		cashier = auth.Actor{EmployeeID: 2, Name: "Cal Cashier", Role: auth.RoleCashier}

		boutique = &warehouseDatamodel.Warehouse{Name: "Boutique", Code: "W1", Type: warehouseDatamodel.TypeBoutique, IsActive: true}
		depot = &warehouseDatamodel.Warehouse{Name: "Depot", Code: "W2", Type: warehouseDatamodel.TypeStockage, IsActive: true}
		Expect(db.Create(boutique).Error).To(Succeed())
		Expect(db.Create(depot).Error).To(Succeed())
		scopes.scope = auth.Scope{Warehouses: auth.NewWarehouseSet(boutique.ID)}

		shirt = &productDatamodel.Product{SKU: "SHIRT", Name: "Shirt", SellingPrice: decimal.RequireFromString("12.50"), IsActive: true, Unit: "pcs"}
		hat = &productDatamodel.Product{SKU: "HAT", Name: "Hat", SellingPrice: decimal.RequireFromString("40"), IsActive: true, Unit: "pcs"}
		Expect(db.Create(shirt).Error).To(Succeed())
		Expect(db.Create(hat).Error).To(Succeed())
		stock(shirt.ID, boutique.ID, 20)
		stock(hat.ID, boutique.ID, 3)
		stock(shirt.ID, depot.ID, 50)

		buyer = &customerDatamodel.Customer{Name: "Regular", LoyaltyPoints: 50}
		Expect(db.Create(buyer).Error).To(Succeed())
	})

	Describe("Checkout", func() {
		It("should price the lines, decrement stock and log sale movements", func() {
			s, err := service.Checkout(ctx, cashier, sale.CheckoutInput{
				WarehouseID: boutique.ID,
				Items: []sale.LineInput{
					{ProductID: shirt.ID, Quantity: 2},
					{ProductID: hat.ID, Quantity: 1},
				},
				Discount: decimal.RequireFromString("5"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Subtotal.StringFixed(2)).To(Equal("65.00"))
			Expect(s.DiscountAmount.StringFixed(2)).To(Equal("5.00"))
			Expect(s.TotalAmount.StringFixed(2)).To(Equal("60.00"))
			Expect(s.PaymentMethod).To(Equal(sale.PaymentCash))
			Expect(s.ReceiptNumber).To(HavePrefix("RCP-"))
			Expect(s.EmployeeID).To(Equal(cashier.EmployeeID))
			Expect(s.Items).To(HaveLen(2))

			Expect(stockAt(shirt.ID, boutique.ID)).To(Equal(int64(18)))
			Expect(stockAt(hat.ID, boutique.ID)).To(Equal(int64(2)))

			var movements []inventoryDatamodel.StockMovement
			Expect(db.Where("reference = ?", s.ReceiptNumber).Find(&movements).Error).To(Succeed())
			Expect(movements).To(HaveLen(2))
			for _, m := range movements {
				Expect(m.Type).To(Equal(inventory.MovementSale))
				Expect(m.Quantity).To(BeNumerically("<", 0))
			}
		})

		It("should merge repeated lines for the same product", func() {
			s, err := service.Checkout(ctx, cashier, sale.CheckoutInput{
				WarehouseID: boutique.ID,
				Items: []sale.LineInput{
					{ProductID: shirt.ID, Quantity: 1},
					{ProductID: shirt.ID, Quantity: 2},
				},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Items).To(HaveLen(1))
			Expect(s.Items[0].Quantity).To(Equal(int64(3)))
			Expect(stockAt(shirt.ID, boutique.ID)).To(Equal(int64(17)))
		})

		It("should redeem then earn loyalty points", func() {
			s, err := service.Checkout(ctx, cashier, sale.CheckoutInput{
				WarehouseID:  boutique.ID,
				CustomerID:   &buyer.ID,
				Items:        []sale.LineInput{{ProductID: shirt.ID, Quantity: 10}},
				RedeemPoints: 20,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.TotalAmount.StringFixed(2)).To(Equal("105.00"))
			Expect(s.LoyaltyPointsUsed).To(Equal(int64(20)))
			Expect(s.LoyaltyPointsEarned).To(Equal(int64(1)))
			Expect(*s.LoyaltyBalance).To(Equal(int64(31)))
			Expect(pointsOf(buyer.ID)).To(Equal(int64(31)))
		})

		It("should refuse to sell from a storage warehouse", func() {
			_, err := service.Checkout(ctx, admin, sale.CheckoutInput{
				WarehouseID: depot.ID,
				Items:       []sale.LineInput{{ProductID: shirt.ID, Quantity: 1}},
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeSalesNotAllowed))
			Expect(appErr.Message).To(Equal("Sales are not allowed from a storage warehouse"))
			Expect(stockAt(shirt.ID, depot.ID)).To(Equal(int64(50)))
		})

		It("should refuse a boutique outside the cashier's warehouses", func() {
			scopes.scope = auth.Scope{Warehouses: auth.NewWarehouseSet(depot.ID)}
			_, err := service.Checkout(ctx, cashier, sale.CheckoutInput{
				WarehouseID: boutique.ID,
				Items:       []sale.LineInput{{ProductID: shirt.ID, Quantity: 1}},
			})
			Expect(internal.HasType(err, internal.ErrorTypeForbidden)).To(BeTrue())
			Expect(countSales()).To(BeZero())
		})

		It("should roll back every line when one is short", func() {
			_, err := service.Checkout(ctx, cashier, sale.CheckoutInput{
				WarehouseID: boutique.ID,
				CustomerID:  &buyer.ID,
				Items: []sale.LineInput{
					{ProductID: shirt.ID, Quantity: 5},
					{ProductID: hat.ID, Quantity: 4},
				},
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInsufficientStock))

			Expect(stockAt(shirt.ID, boutique.ID)).To(Equal(int64(20)))
			Expect(stockAt(hat.ID, boutique.ID)).To(Equal(int64(3)))
			Expect(pointsOf(buyer.ID)).To(Equal(int64(50)))
			Expect(countSales()).To(BeZero())
		})

		It("should roll back stock when the customer cannot cover the redemption", func() {
			_, err := service.Checkout(ctx, cashier, sale.CheckoutInput{
				WarehouseID:  boutique.ID,
				CustomerID:   &buyer.ID,
				Items:        []sale.LineInput{{ProductID: shirt.ID, Quantity: 10}},
				RedeemPoints: 80,
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInsufficientPoints))
			Expect(stockAt(shirt.ID, boutique.ID)).To(Equal(int64(20)))
		})

		It("should reject discounts larger than the subtotal", func() {
			_, err := service.Checkout(ctx, cashier, sale.CheckoutInput{
				WarehouseID: boutique.ID,
				Items:       []sale.LineInput{{ProductID: shirt.ID, Quantity: 1}},
				Discount:    decimal.RequireFromString("13"),
			})
			Expect(internal.HasType(err, internal.ErrorTypeValidation)).To(BeTrue())
		})

		It("should report unknown products as not found", func() {
			_, err := service.Checkout(ctx, cashier, sale.CheckoutInput{
				WarehouseID: boutique.ID,
				Items:       []sale.LineInput{{ProductID: 999, Quantity: 1}},
			})
			Expect(internal.HasType(err, internal.ErrorTypeNotFound)).To(BeTrue())
		})

		It("should publish a low stock alert once the sale commits", func() {
			_, err := engine.SetLevels(ctx, admin, inventory.LevelsInput{ProductID: hat.ID, WarehouseID: boutique.ID, MinStockLevel: 2})
			Expect(err).NotTo(HaveOccurred())
			publisher.events = nil

			_, err = service.Checkout(ctx, cashier, sale.CheckoutInput{
				WarehouseID: boutique.ID,
				Items:       []sale.LineInput{{ProductID: hat.ID, Quantity: 2}},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(publisher.ofType(events.EventTypeLowStock)).To(HaveLen(1))
		})

		DescribeTable("should validate the request",
			func(in sale.CheckoutInput) {
				in.WarehouseID = boutique.ID
				_, err := service.Checkout(ctx, cashier, in)
				Expect(internal.HasType(err, internal.ErrorTypeValidation)).To(BeTrue())
			},
			Entry("no items", sale.CheckoutInput{}),
			Entry("zero quantity", sale.CheckoutInput{Items: []sale.LineInput{{ProductID: 1, Quantity: 0}}}),
			Entry("unknown payment method", sale.CheckoutInput{Items: []sale.LineInput{{ProductID: 1, Quantity: 1}}, PaymentMethod: "barter"}),
			Entry("points without a customer", sale.CheckoutInput{Items: []sale.LineInput{{ProductID: 1, Quantity: 1}}, RedeemPoints: 5}),
		)
	})

	Describe("Reading sales", func() {
		var recorded *sale.Sale

		BeforeEach(func() {
			var err error
			recorded, err = service.Checkout(ctx, cashier, sale.CheckoutInput{
				WarehouseID: boutique.ID,
				Items:       []sale.LineInput{{ProductID: shirt.ID, Quantity: 1}},
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should return a sale with its items", func() {
			s, err := service.Get(ctx, cashier, recorded.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.ReceiptNumber).To(Equal(recorded.ReceiptNumber))
			Expect(s.Items).To(HaveLen(1))
			Expect(s.Items[0].UnitPrice.StringFixed(2)).To(Equal("12.50"))
		})

		It("should hide sales of other warehouses", func() {
			scopes.scope = auth.Scope{Warehouses: auth.NewWarehouseSet(depot.ID)}
			_, err := service.Get(ctx, cashier, recorded.ID)
			Expect(internal.HasType(err, internal.ErrorTypeForbidden)).To(BeTrue())

			page, err := service.List(ctx, cashier, sale.ListFilter{}, pagination.New(1, 20))
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Data).To(BeEmpty())
		})

		It("should list every sale for an admin", func() {
			page, err := service.List(ctx, admin, sale.ListFilter{}, pagination.New(1, 20))
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Pagination.Total).To(Equal(int64(1)))
		})
	})
})
