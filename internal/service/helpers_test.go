package service

import (
	"testing"

	"go-erp-ws/internal/model"
	"go-erp-ws/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&model.InventoryItem{}, &model.InventoryAdjustment{},
		&model.BOM{}, &model.BOMMaterial{}, &model.ProductionOrder{},
		&model.Supplier{}, &model.PurchaseOrder{}, &model.PurchaseItem{},
		&model.Customer{}, &model.SalesOrder{}, &model.SaleItem{},
		&model.Transaction{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// testEnv wires the full service graph against one in-memory database.
type testEnv struct {
	db *gorm.DB

	itemRepo       repository.ItemRepository
	adjRepo        repository.AdjustmentRepository
	bomRepo        repository.BOMRepository
	productionRepo repository.ProductionRepository
	txRepo         repository.TransactionRepository
	purchaseRepo   repository.PurchaseRepository
	salesRepo      repository.SalesRepository

	inventory   InventoryService
	boms        BOMService
	finance     FinanceService
	procurement ProcurementService
	sales       SalesService
	dashboard   DashboardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)

	itemRepo := repository.NewItemRepo(db)
	adjRepo := repository.NewAdjustmentRepo(db)
	bomRepo := repository.NewBOMRepo(db)
	productionRepo := repository.NewProductionRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	purchaseRepo := repository.NewPurchaseRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	salesRepo := repository.NewSalesRepo(db)
	dashRepo := repository.NewDashboardRepo(db)

	inventory := NewInventoryService(itemRepo, adjRepo, db, nil)
	finance := NewFinanceService(txRepo)

	return &testEnv{
		db:             db,
		itemRepo:       itemRepo,
		adjRepo:        adjRepo,
		bomRepo:        bomRepo,
		productionRepo: productionRepo,
		txRepo:         txRepo,
		purchaseRepo:   purchaseRepo,
		salesRepo:      salesRepo,
		inventory:      inventory,
		boms:           NewBOMService(bomRepo, itemRepo, productionRepo),
		finance:        finance,
		procurement:    NewProcurementService(purchaseRepo, supplierRepo, itemRepo, inventory, finance),
		sales:          NewSalesService(salesRepo, customerRepo, itemRepo, inventory, finance),
		dashboard:      NewDashboardService(dashRepo, adjRepo, purchaseRepo, salesRepo),
	}
}

func (e *testEnv) production(cfg ProductionConfig) ProductionService {
	return NewProductionService(e.productionRepo, e.bomRepo, e.itemRepo, e.inventory, e.finance, cfg)
}

func (e *testEnv) createItem(t *testing.T, name, sku string, stock int, purchaseCost, sellingPrice float64) *model.InventoryItem {
	t.Helper()
	item := &model.InventoryItem{
		Name:          name,
		SKU:           sku,
		UnitOfMeasure: model.UnitPieces,
		CurrentStock:  stock,
		PurchaseCost:  decimal.NewFromFloat(purchaseCost),
		SellingPrice:  decimal.NewFromFloat(sellingPrice),
		IsActive:      true,
	}
	if err := e.inventory.CreateItem(item, "tester"); err != nil {
		t.Fatalf("failed to create item %s: %v", name, err)
	}
	return item
}

func (e *testEnv) createSupplier(t *testing.T, name string) *model.Supplier {
	t.Helper()
	supplier := &model.Supplier{Name: name}
	if err := e.procurement.CreateSupplier(supplier, "tester"); err != nil {
		t.Fatalf("failed to create supplier %s: %v", name, err)
	}
	return supplier
}

func (e *testEnv) createCustomer(t *testing.T, name string) *model.Customer {
	t.Helper()
	customer := &model.Customer{Name: name}
	if err := e.sales.CreateCustomer(customer, "tester"); err != nil {
		t.Fatalf("failed to create customer %s: %v", name, err)
	}
	return customer
}

func (e *testEnv) reloadItem(t *testing.T, item *model.InventoryItem) *model.InventoryItem {
	t.Helper()
	fresh, err := e.itemRepo.FindByID(item.ID)
	if err != nil {
		t.Fatalf("failed to reload item %s: %v", item.Name, err)
	}
	return fresh
}
