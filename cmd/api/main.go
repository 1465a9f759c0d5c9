package main

import (
	"os"
	"os/signal"
	"syscall"

	"go-erp-ws/internal/handler"
	"go-erp-ws/internal/middleware"
	"go-erp-ws/internal/model"
	"go-erp-ws/internal/repository"
	"go-erp-ws/internal/service"
	"go-erp-ws/internal/ws"
	"go-erp-ws/pkg/database"
	"go-erp-ws/pkg/token"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type apiHandlers struct {
	inventory   *handler.InventoryHandler
	bom         *handler.BOMHandler
	production  *handler.ProductionHandler
	procurement *handler.ProcurementHandler
	sales       *handler.SalesHandler
	finance     *handler.FinanceHandler
	dashboard   *handler.DashboardHandler
}

// newApp builds the Fiber app and mounts every route. Reads are open to any
// authenticated role; every mutation requires the manager role.
func newApp(h apiHandlers, wsHub *ws.Hub) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "ERP Core v1.0",
	})

	app.Use(logger.New())  // Request logging
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	api := app.Group("/api/v1")

	protected := api.Group("", middleware.RequireAuth())
	manager := middleware.RequireRole(token.RoleManager)

	// Dashboard
	protected.Get("/dashboard/stats", h.dashboard.GetStats)
	protected.Get("/dashboard/stock-movement", h.dashboard.GetStockMovement)

	// Inventory Ledger
	protected.Get("/items", h.inventory.GetItems)
	protected.Get("/items/:id", h.inventory.GetItem)
	protected.Post("/items", manager, h.inventory.CreateItem)
	protected.Put("/items/:id", manager, h.inventory.UpdateItem)
	protected.Delete("/items/:id", manager, h.inventory.DeleteItem)
	protected.Post("/items/:id/adjust-stock", manager, h.inventory.AdjustStock)
	protected.Get("/adjustments", h.inventory.GetAdjustments)

	// Bill-of-Materials Catalog
	protected.Get("/boms", h.bom.GetBOMs)
	protected.Get("/boms/:id", h.bom.GetBOM)
	protected.Post("/boms", manager, h.bom.CreateBOM)
	protected.Put("/boms/:id", manager, h.bom.UpdateBOM)
	protected.Delete("/boms/:id", manager, h.bom.DeleteBOM)

	// Production Order Workflow
	protected.Get("/production-orders", h.production.GetOrders)
	protected.Get("/production-orders/:id", h.production.GetOrder)
	protected.Post("/production-orders", manager, h.production.CreateOrder)
	protected.Put("/production-orders/:id/status", manager, h.production.UpdateStatus)
	protected.Post("/production-orders/:id/complete", manager, h.production.CompleteOrder)
	protected.Delete("/production-orders/:id", manager, h.production.DeleteOrder)

	// Procurement Ledger
	protected.Get("/suppliers", h.procurement.GetSuppliers)
	protected.Post("/suppliers", manager, h.procurement.CreateSupplier)
	protected.Get("/purchase-orders", h.procurement.GetOrders)
	protected.Get("/purchase-orders/:id", h.procurement.GetOrder)
	protected.Post("/purchase-orders", manager, h.procurement.CreateOrder)
	protected.Put("/purchase-orders/:id/status", manager, h.procurement.UpdateStatus)
	protected.Delete("/purchase-orders/:id", manager, h.procurement.DeleteOrder)

	// Sales Ledger
	protected.Get("/customers", h.sales.GetCustomers)
	protected.Post("/customers", manager, h.sales.CreateCustomer)
	protected.Get("/sales-orders", h.sales.GetOrders)
	protected.Get("/sales-orders/:id", h.sales.GetOrder)
	protected.Post("/sales-orders", manager, h.sales.CreateOrder)
	protected.Put("/sales-orders/:id/status", manager, h.sales.UpdateStatus)
	protected.Post("/sales-orders/:id/return", manager, h.sales.ReturnOrder)
	protected.Delete("/sales-orders/:id", manager, h.sales.DeleteOrder)

	// Financial Ledger
	protected.Get("/transactions", h.finance.GetTransactions)
	protected.Post("/transactions", manager, h.finance.CreateTransaction)
	protected.Get("/finance/summary", h.finance.GetSummary)
	protected.Get("/finance/profit-loss", h.finance.GetProfitLoss)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	return app
}

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		logrus.Warn(".env file not found")
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// 2. Setup Database
	db := database.ConnectDB()
	// Auto Migrate (use a dedicated migration tool in production)
	db.AutoMigrate(
		&model.InventoryItem{}, &model.InventoryAdjustment{},
		&model.BOM{}, &model.BOMMaterial{}, &model.ProductionOrder{},
		&model.Supplier{}, &model.PurchaseOrder{}, &model.PurchaseItem{},
		&model.Customer{}, &model.SalesOrder{}, &model.SaleItem{},
		&model.Transaction{},
	)

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	itemRepo := repository.NewItemRepo(db)
	adjRepo := repository.NewAdjustmentRepo(db)
	bomRepo := repository.NewBOMRepo(db)
	productionRepo := repository.NewProductionRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	purchaseRepo := repository.NewPurchaseRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	salesRepo := repository.NewSalesRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	dashRepo := repository.NewDashboardRepo(db)

	invService := service.NewInventoryService(itemRepo, adjRepo, db, wsHub)
	financeService := service.NewFinanceService(txRepo)
	bomService := service.NewBOMService(bomRepo, itemRepo, productionRepo)
	productionService := service.NewProductionService(productionRepo, bomRepo, itemRepo, invService, financeService, service.ProductionConfig{
		ConsumeMaterials: os.Getenv("CONSUME_MATERIALS_ON_COMPLETION") == "true",
	})
	procurementService := service.NewProcurementService(purchaseRepo, supplierRepo, itemRepo, invService, financeService)
	salesService := service.NewSalesService(salesRepo, customerRepo, itemRepo, invService, financeService)
	dashService := service.NewDashboardService(dashRepo, adjRepo, purchaseRepo, salesRepo)

	handlers := apiHandlers{
		inventory:   handler.NewInventoryHandler(invService),
		bom:         handler.NewBOMHandler(bomService),
		production:  handler.NewProductionHandler(productionService),
		procurement: handler.NewProcurementHandler(procurementService),
		sales:       handler.NewSalesHandler(salesService),
		finance:     handler.NewFinanceHandler(financeService),
		dashboard:   handler.NewDashboardHandler(dashService),
	}

	// 5. Setup Fiber + Routes
	app := newApp(handlers, wsHub)

	// 6. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			logrus.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		logrus.Fatal("Server forced to shutdown: ", err)
	}

	logrus.Info("Server exited")
}
