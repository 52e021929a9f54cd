package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/pos-platform/internal/alert"
	"github.com/frahmantamala/pos-platform/internal/auth"
	"github.com/frahmantamala/pos-platform/internal/category"
	"github.com/frahmantamala/pos-platform/internal/customer"
	"github.com/frahmantamala/pos-platform/internal/employee"
	"github.com/frahmantamala/pos-platform/internal/expense"
	"github.com/frahmantamala/pos-platform/internal/inventory"
	"github.com/frahmantamala/pos-platform/internal/product"
	"github.com/frahmantamala/pos-platform/internal/report"
	"github.com/frahmantamala/pos-platform/internal/sale"
	"github.com/frahmantamala/pos-platform/internal/transport/middleware"
	"github.com/frahmantamala/pos-platform/internal/transport/swagger"
	"github.com/frahmantamala/pos-platform/internal/warehouse"
	"github.com/go-chi/chi"
)

// Handlers groups every resource handler mounted under /api/v1. A nil
// handler leaves its routes unmounted.
type Handlers struct {
	Health    *HealthHandler
	Auth      *auth.Handler
	Employee  *employee.Handler
	Warehouse *warehouse.Handler
	Category  *category.Handler
	Product   *product.Handler
	Inventory *inventory.Handler
	Customer  *customer.Handler
	Sale      *sale.Handler
	Expense   *expense.Handler
	Report    *report.Handler
	Alert     *alert.Handler
}

type RouterConfig struct {
	AllowedOrigins  string
	OpenAPISpecPath string
}

var (
	staffRoles = []auth.Role{auth.RoleAdmin, auth.RoleManager}
	adminRoles = []auth.Role{auth.RoleAdmin}
)

func RegisterAllRoutes(router *chi.Mux, cfg RouterConfig, h Handlers, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	if cfg.OpenAPISpecPath != "" {
		router.Get("/openapi.yml", swagger.SpecHandler(cfg.OpenAPISpecPath))
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.Health)
			r.Get("/ping", h.Health.Ping)
		}

		if h.Auth == nil {
			return
		}

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/auth/me", h.Auth.Me)

			if h.Employee != nil {
				registerEmployeeRoutes(pr, h.Employee)
			}
			if h.Warehouse != nil {
				registerWarehouseRoutes(pr, h.Warehouse)
			}
			if h.Category != nil {
				registerCategoryRoutes(pr, h.Category)
			}
			if h.Product != nil {
				registerProductRoutes(pr, h.Product)
			}
			if h.Inventory != nil {
				registerInventoryRoutes(pr, h.Inventory)
			}
			if h.Customer != nil {
				pr.Route("/customers", func(cr chi.Router) {
					cr.Get("/", h.Customer.ListCustomers)
					cr.Post("/", h.Customer.CreateCustomer)
					cr.Get("/{id}", h.Customer.GetCustomer)
				})
			}
			if h.Sale != nil {
				pr.Route("/sales", func(sr chi.Router) {
					sr.Get("/", h.Sale.ListSales)
					sr.With(middleware.RequirePermissions(auth.PermSalesCreate)).Post("/", h.Sale.Checkout)
					sr.Get("/{id}", h.Sale.GetSale)
				})
			}
			if h.Expense != nil {
				registerExpenseRoutes(pr, h.Expense)
			}
			if h.Report != nil {
				pr.Route("/reports", func(rr chi.Router) {
					rr.Use(middleware.RequirePermissions(auth.PermReportsView))
					rr.Get("/summary", h.Report.Summary)
					rr.Get("/stock-valuation", h.Report.StockValuation)
				})
			}
			if h.Alert != nil {
				pr.Route("/alerts", func(ar chi.Router) {
					ar.Use(middleware.RequireRoles(staffRoles...))
					ar.Get("/", h.Alert.ListAlerts)
					ar.Patch("/{id}/read", h.Alert.MarkAlertRead)
				})
			}
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"type":"NOT_FOUND","code":"ROUTE_NOT_FOUND","message":"Route not found"}}`))
	})
}

// Employee routes are open to every role; the service applies the hierarchy.
func registerEmployeeRoutes(r chi.Router, h *employee.Handler) {
	r.Route("/employees", func(er chi.Router) {
		er.Get("/", h.ListEmployees)
		er.Post("/", h.CreateEmployee)
		er.Get("/{id}", h.GetEmployee)
		er.Put("/{id}", h.UpdateEmployee)
		er.Delete("/{id}", h.DeleteEmployee)
		er.Put("/{id}/pin", h.SetEmployeePIN)
	})
}

func registerWarehouseRoutes(r chi.Router, h *warehouse.Handler) {
	r.Route("/warehouses", func(wr chi.Router) {
		wr.Get("/", h.ListWarehouses)
		wr.Get("/{id}", h.GetWarehouse)
		wr.Group(func(ar chi.Router) {
			ar.Use(middleware.RequireRoles(adminRoles...))
			ar.Post("/", h.CreateWarehouse)
			ar.Put("/{id}", h.UpdateWarehouse)
		})
	})
}

func registerCategoryRoutes(r chi.Router, h *category.Handler) {
	r.Route("/categories", func(cr chi.Router) {
		cr.Get("/", h.GetCategories)
		cr.Group(func(sr chi.Router) {
			sr.Use(middleware.RequireRoles(staffRoles...))
			sr.Post("/", h.CreateCategory)
			sr.Delete("/{id}", h.DeactivateCategory)
		})
	})
}

func registerProductRoutes(r chi.Router, h *product.Handler) {
	r.Route("/products", func(pr chi.Router) {
		pr.Get("/", h.ListProducts)
		pr.Get("/{id}", h.GetProduct)
		pr.Group(func(sr chi.Router) {
			sr.Use(middleware.RequirePermissions(auth.PermProductsManage))
			sr.Post("/", h.CreateProduct)
			sr.Put("/{id}", h.UpdateProduct)
		})
		pr.With(middleware.RequireRoles(adminRoles...)).Delete("/{id}", h.DeleteProduct)
	})
}

// Cashiers hold the transfer permission to request stock from warehouses
// they cannot write to. The engine checks the source warehouse.
func registerInventoryRoutes(r chi.Router, h *inventory.Handler) {
	r.Route("/inventory", func(ir chi.Router) {
		ir.Get("/", h.ListInventory)
		ir.Get("/low-stock", h.ListLowStock)
		ir.Get("/movements", h.ListMovements)
		ir.With(middleware.RequirePermissions(auth.PermInventoryTransfer)).Post("/transfer", h.TransferStock)
		ir.Group(func(sr chi.Router) {
			sr.Use(middleware.RequirePermissions(auth.PermInventoryAdjust))
			sr.Post("/adjust", h.AdjustStock)
			sr.Put("/levels", h.SetStockLevels)
		})
	})
}

func registerExpenseRoutes(r chi.Router, h *expense.Handler) {
	r.Route("/expenses", func(er chi.Router) {
		er.Use(middleware.RequirePermissions(auth.PermExpensesManage))
		er.Get("/", h.ListExpenses)
		er.Post("/", h.CreateExpense)
		er.Get("/{id}", h.GetExpense)
		er.Put("/{id}", h.UpdateExpense)
		er.Delete("/{id}", h.DeleteExpense)
	})
}
