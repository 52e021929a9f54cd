package product_test

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/frahmantamala/pos-platform/internal"
	"github.com/frahmantamala/pos-platform/internal/auth"
	"github.com/frahmantamala/pos-platform/internal/category"
	categoryPostgres "github.com/frahmantamala/pos-platform/internal/category/postgres"
	"github.com/frahmantamala/pos-platform/internal/core/database"
	"github.com/frahmantamala/pos-platform/internal/core/database/databasetest"
	categoryDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/category"
	inventoryDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/inventory"
	productDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/product"
	saleDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/sale"
	warehouseDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/warehouse"
	"github.com/frahmantamala/pos-platform/internal/core/events"
	"github.com/frahmantamala/pos-platform/internal/inventory"
	inventoryPostgres "github.com/frahmantamala/pos-platform/internal/inventory/postgres"
	"github.com/frahmantamala/pos-platform/internal/product"
	productPostgres "github.com/frahmantamala/pos-platform/internal/product/postgres"
	"github.com/frahmantamala/pos-platform/internal/warehouse"
	warehousePostgres "github.com/frahmantamala/pos-platform/internal/warehouse/postgres"
	"github.com/frahmantamala/pos-platform/pkg/pagination"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func TestProduct(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Product Suite")
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

// txObservingRepository records whether the history check ran inside a transaction.
type txObservingRepository struct {
	product.RepositoryAPI
	checkedInTx bool
}

func (r *txObservingRepository) CountHistory(ctx context.Context, productID int64) (product.History, error) {
	r.checkedInTx = database.InTx(ctx)
	return r.RepositoryAPI.CountHistory(ctx, productID)
}

var _ = Describe("Product Service", func() {
	var (
		ctx       context.Context
		db        *gorm.DB
		scopes    *fakeScopes
		publisher *recordingPublisher
		engine    *inventory.Service
		service   *product.Service
		admin     auth.Actor
		manager   auth.Actor
		boutique  *warehouseDatamodel.Warehouse
		stockage  *warehouseDatamodel.Warehouse
		shirts    *categoryDatamodel.Category
	)

	stockAt := func(productID, warehouseID int64) int64 {
		view, err := engine.GetEffectiveInventory(ctx, productID, warehouseID)
		Expect(err).NotTo(HaveOccurred())
		return view.Quantity
	}

	newDTO := func(sku string) product.CreateProductDTO {
		return product.CreateProductDTO{
			SKU:           sku,
			Name:          "Product " + sku,
			PurchasePrice: decimal.NewFromInt(60),
			SellingPrice:  decimal.NewFromInt(100),
			CategoryIDs:   []int64{shirts.ID},
		}
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
		categories := category.NewService(categoryPostgres.NewCategoryRepository(db), logger)
		engine = inventory.NewService(inventoryPostgres.NewInventoryRepository(db), tx, scopes, warehouses, publisher, logger)
		service = product.NewService(productPostgres.NewProductRepository(db), tx, categories, engine, scopes, publisher, logger)

		boutique = &warehouseDatamodel.Warehouse{Name: "Boutique", Code: "W1", Type: warehouseDatamodel.TypeBoutique, IsActive: true}
		stockage = &warehouseDatamodel.Warehouse{Name: "Depot", Code: "W2", Type: warehouseDatamodel.TypeStockage, IsActive: true}
		Expect(db.Create(boutique).Error).To(Succeed())
		Expect(db.Create(stockage).Error).To(Succeed())
		shirts = &categoryDatamodel.Category{Name: "Shirts", IsActive: true}
		Expect(db.Create(shirts).Error).To(Succeed())

		admin = auth.Actor{EmployeeID: 1, Name: "Alice Admin", Role: auth.RoleAdmin}
		manager = auth.Actor{EmployeeID: 2, Name: "Mo Manager", Role: auth.RoleManager}
	})

	Describe("Create", func() {
		It("should create the product with its categories", func() {
			p, err := service.Create(ctx, admin, newDTO("abc"))
			Expect(err).NotTo(HaveOccurred())
			Expect(p.SKU).To(Equal("ABC"))
			Expect(p.Unit).To(Equal("pcs"))
			Expect(p.IsActive).To(BeTrue())
			Expect(p.CategoryIDs()).To(ConsistOf(shirts.ID))
			Expect(p.Stock).To(BeNil())
		})

		It("should require a category", func() {
			dto := newDTO("ABC")
			dto.CategoryIDs = nil
			_, err := service.Create(ctx, admin, dto)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
			details, ok := appErr.Details.(internal.ValidationErrors)
			Expect(ok).To(BeTrue())
			Expect(details.Errors).To(HaveLen(1))
			Expect(details.Errors[0].Code).To(Equal(string(internal.ErrCodeCategoryRequired)))
		})

		It("should reject unknown categories", func() {
			dto := newDTO("ABC")
			dto.CategoryIDs = []int64{shirts.ID, 999}
			_, err := service.Create(ctx, admin, dto)
			Expect(internal.HasType(err, internal.ErrorTypeNotFound)).To(BeTrue())
		})

		It("should reject a duplicate SKU", func() {
			_, err := service.Create(ctx, admin, newDTO("ABC"))
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Create(ctx, admin, newDTO("abc"))
			Expect(internal.HasType(err, internal.ErrorTypeConflict)).To(BeTrue())
		})

		It("should reject a duplicate barcode but allow several without one", func() {
			barcode := "8991234567890"
			first := newDTO("A1")
			first.Barcode = &barcode
			_, err := service.Create(ctx, admin, first)
			Expect(err).NotTo(HaveOccurred())

			second := newDTO("A2")
			second.Barcode = &barcode
			_, err = service.Create(ctx, admin, second)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateBarcode))

			blank := ""
			third := newDTO("A3")
			third.Barcode = &blank
			_, err = service.Create(ctx, admin, third)
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Create(ctx, admin, newDTO("A4"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("should seed initial stock through the engine", func() {
			dto := newDTO("ABC")
			dto.WarehouseID = &stockage.ID
			dto.InitialStock = 25

			p, err := service.Create(ctx, admin, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Stock).NotTo(BeNil())
			Expect(p.Stock.Quantity).To(Equal(int64(25)))

			var movements []inventoryDatamodel.StockMovement
			Expect(db.Where("product_id = ?", p.ID).Find(&movements).Error).To(Succeed())
			Expect(movements).To(HaveLen(1))
			Expect(movements[0].Type).To(Equal(inventory.MovementInitial))
		})

		It("should roll back the product when the stock warehouse is out of scope", func() {
			scopes.scope = auth.Scope{Warehouses: auth.NewWarehouseSet(boutique.ID)}
			dto := newDTO("ABC")
			dto.WarehouseID = &stockage.ID
			dto.InitialStock = 5

			_, err := service.Create(ctx, manager, dto)
			Expect(internal.HasType(err, internal.ErrorTypeForbidden)).To(BeTrue())

			var count int64
			Expect(db.Model(&productDatamodel.Product{}).Count(&count).Error).To(Succeed())
			Expect(count).To(BeZero())
		})
	})

	Describe("Update", func() {
		var created *product.Product

		BeforeEach(func() {
			dto := newDTO("ABC")
			dto.WarehouseID = &boutique.ID
			dto.InitialStock = 10
			var err error
			created, err = service.Create(ctx, admin, dto)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should only re-check uniqueness when the SKU changes", func() {
			same := "abc"
			name := "Renamed"
			p, err := service.Update(ctx, admin, created.ID, product.UpdateProductDTO{SKU: &same, Name: &name})
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Name).To(Equal("Renamed"))

			_, err = service.Create(ctx, admin, newDTO("XYZ"))
			Expect(err).NotTo(HaveOccurred())
			taken := "XYZ"
			_, err = service.Update(ctx, admin, created.ID, product.UpdateProductDTO{SKU: &taken})
			Expect(internal.HasType(err, internal.ErrorTypeConflict)).To(BeTrue())
		})

		It("should publish stock.reduced with both quantities on a decrease", func() {
			stock := int64(4)
			p, err := service.Update(ctx, manager, created.ID, product.UpdateProductDTO{WarehouseID: &boutique.ID, Stock: &stock})
			Expect(err).To(HaveOccurred())
			Expect(p).To(BeNil())

			scopes.scope = auth.Scope{Warehouses: auth.NewWarehouseSet(boutique.ID)}
			p, err = service.Update(ctx, manager, created.ID, product.UpdateProductDTO{WarehouseID: &boutique.ID, Stock: &stock})
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Stock.Quantity).To(Equal(int64(4)))
			Expect(stockAt(created.ID, boutique.ID)).To(Equal(int64(4)))

			published := publisher.ofType(events.EventTypeStockReduced)
			Expect(published).To(HaveLen(1))
			reduced := published[0].(*events.StockReducedEvent)
			Expect(reduced.OldQuantity).To(Equal(int64(10)))
			Expect(reduced.NewQuantity).To(Equal(int64(4)))
			Expect(reduced.EmployeeName).To(Equal("Mo Manager"))
		})

		It("should not publish stock.reduced on an increase", func() {
			stock := int64(15)
			_, err := service.Update(ctx, admin, created.ID, product.UpdateProductDTO{WarehouseID: &boutique.ID, Stock: &stock})
			Expect(err).NotTo(HaveOccurred())
			Expect(stockAt(created.ID, boutique.ID)).To(Equal(int64(15)))
			Expect(publisher.ofType(events.EventTypeStockReduced)).To(BeEmpty())
		})

		It("should require a warehouse with a stock change", func() {
			stock := int64(1)
			_, err := service.Update(ctx, admin, created.ID, product.UpdateProductDTO{Stock: &stock})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
			details, ok := appErr.Details.(internal.ValidationErrors)
			Expect(ok).To(BeTrue())
			Expect(details.Errors).To(HaveLen(1))
			Expect(details.Errors[0].Code).To(Equal(string(internal.ErrCodeWarehouseRequired)))
		})

		It("should replace categories", func() {
			hats := &categoryDatamodel.Category{Name: "Hats", IsActive: true}
			Expect(db.Create(hats).Error).To(Succeed())

			p, err := service.Update(ctx, admin, created.ID, product.UpdateProductDTO{CategoryIDs: []int64{hats.ID}})
			Expect(err).NotTo(HaveOccurred())
			Expect(p.CategoryIDs()).To(ConsistOf(hats.ID))
		})
	})

	Describe("Get and List", func() {
		It("should attach a virtual zero row for an unstocked warehouse", func() {
			p, err := service.Create(ctx, admin, newDTO("ABC"))
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 2; i++ {
				got, err := service.Get(ctx, admin, p.ID, &boutique.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(got.Stock.Virtual).To(BeTrue())
				Expect(got.Stock.Quantity).To(BeZero())
			}

			page, err := service.List(ctx, admin, product.ListFilter{WarehouseID: &boutique.ID}, pagination.New(1, 20))
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Data).To(HaveLen(1))
			Expect(page.Data[0].Stock.Virtual).To(BeTrue())

			var rows int64
			Expect(db.Model(&inventoryDatamodel.Inventory{}).Count(&rows).Error).To(Succeed())
			Expect(rows).To(BeZero())
		})

		It("should answer NotFound for an unknown product", func() {
			_, err := service.Get(ctx, admin, 404, nil)
			Expect(internal.HasType(err, internal.ErrorTypeNotFound)).To(BeTrue())
		})
	})

	Describe("Delete", func() {
		var created *product.Product

		BeforeEach(func() {
			dto := newDTO("ABC")
			dto.WarehouseID = &boutique.ID
			dto.InitialStock = 10
			var err error
			created, err = service.Create(ctx, admin, dto)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should be reserved to administrators", func() {
			err := service.Delete(ctx, manager, created.ID)
			Expect(internal.HasType(err, internal.ErrorTypeForbidden)).To(BeTrue())
		})

		It("should refuse products with sale history and leave everything untouched", func() {
			sale := &saleDatamodel.Sale{
				ReceiptNumber: "RCP-1",
				WarehouseID:   boutique.ID,
				EmployeeID:    admin.EmployeeID,
				Subtotal:      decimal.NewFromInt(100),
				TotalAmount:   decimal.NewFromInt(100),
				PaymentMethod: "cash",
			}
			Expect(db.Create(sale).Error).To(Succeed())
			Expect(db.Create(&saleDatamodel.SaleItem{SaleID: sale.ID, ProductID: created.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(100), Total: decimal.NewFromInt(100)}).Error).To(Succeed())

			err := service.Delete(ctx, admin, created.ID)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
			Expect(appErr.Message).To(ContainSubstring("1 sale(s)"))

			var products, rows, movements int64
			Expect(db.Model(&productDatamodel.Product{}).Where("id = ?", created.ID).Count(&products).Error).To(Succeed())
			Expect(db.Model(&inventoryDatamodel.Inventory{}).Where("product_id = ?", created.ID).Count(&rows).Error).To(Succeed())
			Expect(db.Model(&inventoryDatamodel.StockMovement{}).Where("product_id = ?", created.ID).Count(&movements).Error).To(Succeed())
			Expect([]int64{products, rows, movements}).To(Equal([]int64{1, 1, 1}))
		})

		It("should purge movements, inventory and links then announce the deletion", func() {
			Expect(service.Delete(ctx, admin, created.ID)).To(Succeed())

			var products, rows, movements, links int64
			Expect(db.Model(&productDatamodel.Product{}).Count(&products).Error).To(Succeed())
			Expect(db.Model(&inventoryDatamodel.Inventory{}).Count(&rows).Error).To(Succeed())
			Expect(db.Model(&inventoryDatamodel.StockMovement{}).Count(&movements).Error).To(Succeed())
			Expect(db.Model(&productDatamodel.ProductCategory{}).Count(&links).Error).To(Succeed())
			Expect([]int64{products, rows, movements, links}).To(Equal([]int64{0, 0, 0, 0}))

			Expect(publisher.ofType(events.EventTypeProductDeleted)).To(HaveLen(1))
		})

		It("should check the history inside the delete transaction", func() {
			repo := &txObservingRepository{RepositoryAPI: productPostgres.NewProductRepository(db)}
			tx := database.NewTxManager(db)
			categories := category.NewService(categoryPostgres.NewCategoryRepository(db), slog.Default())
			guarded := product.NewService(repo, tx, categories, engine, scopes, publisher, slog.Default())

			Expect(guarded.Delete(ctx, admin, created.ID)).To(Succeed())
			Expect(repo.checkedInTx).To(BeTrue())
		})
	})
})
