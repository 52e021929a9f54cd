package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/pos-platform/internal"
	"github.com/frahmantamala/pos-platform/internal/alert"
	alertPostgres "github.com/frahmantamala/pos-platform/internal/alert/postgres"
	"github.com/frahmantamala/pos-platform/internal/auth"
	authPostgres "github.com/frahmantamala/pos-platform/internal/auth/postgres"
	"github.com/frahmantamala/pos-platform/internal/category"
	categoryPostgres "github.com/frahmantamala/pos-platform/internal/category/postgres"
	"github.com/frahmantamala/pos-platform/internal/core/database"
	"github.com/frahmantamala/pos-platform/internal/core/events"
	"github.com/frahmantamala/pos-platform/internal/customer"
	customerPostgres "github.com/frahmantamala/pos-platform/internal/customer/postgres"
	"github.com/frahmantamala/pos-platform/internal/employee"
	employeePostgres "github.com/frahmantamala/pos-platform/internal/employee/postgres"
	"github.com/frahmantamala/pos-platform/internal/expense"
	expensePostgres "github.com/frahmantamala/pos-platform/internal/expense/postgres"
	"github.com/frahmantamala/pos-platform/internal/inventory"
	inventoryPostgres "github.com/frahmantamala/pos-platform/internal/inventory/postgres"
	"github.com/frahmantamala/pos-platform/internal/product"
	productPostgres "github.com/frahmantamala/pos-platform/internal/product/postgres"
	"github.com/frahmantamala/pos-platform/internal/report"
	reportPostgres "github.com/frahmantamala/pos-platform/internal/report/postgres"
	"github.com/frahmantamala/pos-platform/internal/sale"
	salePostgres "github.com/frahmantamala/pos-platform/internal/sale/postgres"
	"github.com/frahmantamala/pos-platform/internal/transport"
	"github.com/frahmantamala/pos-platform/internal/transport/rest"
	"github.com/frahmantamala/pos-platform/internal/transport/swagger"
	"github.com/frahmantamala/pos-platform/internal/warehouse"
	warehousePostgres "github.com/frahmantamala/pos-platform/internal/warehouse/postgres"
	"github.com/frahmantamala/pos-platform/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *gorm.DB
	ReportDB *sqlx.DB
	EventBus *events.EventBus
	Router   *chi.Mux
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			deps.close()
			os.Exit(1)
		}
	}

	deps.close()
	deps.Logger.Info("Server stopped")
}

func (d *Dependencies) close() {
	d.EventBus.Shutdown()
	if err := d.ReportDB.Close(); err != nil {
		d.Logger.Error("Report database close error", "error", err)
	}
	if sqlDB, err := d.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			d.Logger.Error("Database close error", "error", err)
		}
	}
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Configure(config.Observability.Logging.Level, config.Observability.Logging.Format)
	log := logger.LoggerWrapper()

	db, err := database.Open(config.Database.GetDSN(), poolConfig(config.Database), log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	reportDB, err := database.OpenSQLX(config.Database.GetDSN(), poolConfig(config.Database))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize report database: %w", err)
	}

	if config.Server.OpenAPISpecPath != "" {
		if _, err := swagger.LoadSpec(context.Background(), config.Server.OpenAPISpecPath); err != nil {
			log.Warn("openapi document not served", "error", err)
			config.Server.OpenAPISpecPath = ""
		}
	}

	if config.Loyalty.AmountPerPoint > 0 {
		sale.PointRate = decimal.NewFromInt(config.Loyalty.AmountPerPoint)
	}

	eventBus := events.NewEventBus(log, events.Config{
		MaxWorkers:     config.Events.MaxWorkers,
		JobQueueSize:   config.Events.JobQueueSize,
		WorkerPoolSize: config.Events.WorkerPoolSize,
	})

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, rest.RouterConfig{
		AllowedOrigins:  config.Server.AllowedOrigins,
		OpenAPISpecPath: config.Server.OpenAPISpecPath,
	}, buildHandlers(config, db, reportDB, eventBus, log), log)

	return &Dependencies{
		Config:   config,
		DB:       db,
		ReportDB: reportDB,
		EventBus: eventBus,
		Router:   router,
		Logger:   log,
	}, nil
}

func buildHandlers(config *internal.Config, db *gorm.DB, reportDB *sqlx.DB, eventBus *events.EventBus, log *slog.Logger) rest.Handlers {
	txManager := database.NewTxManager(db)
	baseHandler := transport.NewBaseHandler(log)

	authRepo := authPostgres.NewRepository(db)
	scopes := auth.NewScopeResolver(authRepo, log)
	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.JWTAccessSecret,
		config.Security.JWTRefreshSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authRepo, tokenGen, log)

	warehouseService := warehouse.NewService(warehousePostgres.NewWarehouseRepository(db), scopes, log)
	categoryService := category.NewService(categoryPostgres.NewCategoryRepository(db), log)
	customerService := customer.NewService(customerPostgres.NewCustomerRepository(db), log)
	inventoryService := inventory.NewService(inventoryPostgres.NewInventoryRepository(db), txManager, scopes, warehouseService, eventBus, log)
	productService := product.NewService(productPostgres.NewProductRepository(db), txManager, categoryService, inventoryService, scopes, eventBus, log)
	employeeService := employee.NewService(employeePostgres.NewEmployeeRepository(db), txManager, scopes, warehouseService, eventBus, config.Security.BCryptCost, log)
	saleService := sale.NewService(salePostgres.NewSaleRepository(db), txManager, warehouseService, inventoryService, customerService, scopes, log)
	expenseService := expense.NewService(expensePostgres.NewExpenseRepository(db), warehouseService, scopes, log)
	reportService := report.NewService(reportPostgres.NewReportRepository(reportDB), scopes, log)

	alertService := alert.NewService(alertPostgres.NewAlertRepository(db), scopes, log)
	alert.NewEventHandler(alertService, log).RegisterEventHandlers(eventBus)

	return rest.Handlers{
		Health:    rest.NewHealthHandler(reportDB),
		Auth:      auth.NewHandler(authService),
		Employee:  employee.NewHandler(baseHandler, employeeService),
		Warehouse: warehouse.NewHandler(baseHandler, warehouseService),
		Category:  category.NewHandler(baseHandler, categoryService),
		Product:   product.NewHandler(baseHandler, productService),
		Inventory: inventory.NewHandler(baseHandler, inventoryService),
		Customer:  customer.NewHandler(baseHandler, customerService),
		Sale:      sale.NewHandler(baseHandler, saleService),
		Expense:   expense.NewHandler(baseHandler, expenseService),
		Report:    report.NewHandler(baseHandler, reportService),
		Alert:     alert.NewHandler(baseHandler, alertService),
	}
}
