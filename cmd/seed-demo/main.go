package main

import (
	"time"

	"go-erp-ws/internal/model"
	"go-erp-ws/internal/repository"
	"go-erp-ws/internal/service"
	"go-erp-ws/pkg/database"
	"go-erp-ws/pkg/token"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Seeds a demo dataset and prints a manager token for local API testing.
// Usage: go run ./cmd/seed-demo
func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Warn(".env file not found")
	}

	db := database.ConnectDB()
	db.AutoMigrate(
		&model.InventoryItem{}, &model.InventoryAdjustment{},
		&model.BOM{}, &model.BOMMaterial{}, &model.ProductionOrder{},
		&model.Supplier{}, &model.PurchaseOrder{}, &model.PurchaseItem{},
		&model.Customer{}, &model.SalesOrder{}, &model.SaleItem{},
		&model.Transaction{},
	)

	itemRepo := repository.NewItemRepo(db)
	adjRepo := repository.NewAdjustmentRepo(db)
	bomRepo := repository.NewBOMRepo(db)
	productionRepo := repository.NewProductionRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	customerRepo := repository.NewCustomerRepo(db)

	invService := service.NewInventoryService(itemRepo, adjRepo, db, nil)
	bomService := service.NewBOMService(bomRepo, itemRepo, productionRepo)

	const actor = "seed"

	flour := &model.InventoryItem{
		Name:          "Wheat Flour",
		Category:      "raw material",
		UnitOfMeasure: model.UnitKg,
		PurchaseCost:  decimal.NewFromFloat(1.20),
		CurrentStock:  500,
		ReorderLevel:  100,
		SKU:           "RM-FLOUR-001",
		IsActive:      true,
	}
	sugar := &model.InventoryItem{
		Name:          "Sugar",
		Category:      "raw material",
		UnitOfMeasure: model.UnitKg,
		PurchaseCost:  decimal.NewFromFloat(0.90),
		CurrentStock:  200,
		ReorderLevel:  50,
		SKU:           "RM-SUGAR-001",
		IsActive:      true,
	}
	bread := &model.InventoryItem{
		Name:          "Bread Loaf",
		Category:      "finished goods",
		UnitOfMeasure: model.UnitPieces,
		PurchaseCost:  decimal.NewFromFloat(0.80),
		SellingPrice:  decimal.NewFromFloat(2.50),
		ReorderLevel:  20,
		SKU:           "FG-BREAD-001",
		IsActive:      true,
	}
	for _, item := range []*model.InventoryItem{flour, sugar, bread} {
		if err := invService.CreateItem(item, actor); err != nil {
			logrus.WithError(err).Fatalf("seed item %s", item.Name)
		}
	}

	supplier := &model.Supplier{
		Name:         "Golden Grain Mills",
		Telephone:    "+1-555-0101",
		Address:      "14 Harvest Rd",
		PaymentTerms: "net 30",
		IsActive:     true,
	}
	supplier.CreatedBy = actor
	if err := supplierRepo.Create(supplier); err != nil {
		logrus.WithError(err).Fatal("seed supplier")
	}

	customer := &model.Customer{
		Name:      "Corner Bakery Cafe",
		Telephone: "+1-555-0202",
		Address:   "7 Market St",
		Email:     "orders@cornerbakery.test",
	}
	customer.CreatedBy = actor
	if err := customerRepo.Create(customer); err != nil {
		logrus.WithError(err).Fatal("seed customer")
	}

	bom, err := bomService.CreateBOM("Bread Loaf", "Standard white loaf recipe", []service.MaterialInput{
		{ItemID: flour.ID, Quantity: 1},
		{ItemID: sugar.ID, Quantity: 1},
	}, &bread.ID, actor)
	if err != nil {
		logrus.WithError(err).Fatal("seed BOM")
	}

	devToken, err := token.Generate("demo-manager", token.RoleManager, 24*time.Hour)
	if err != nil {
		logrus.WithError(err).Fatal("generate token")
	}

	logrus.WithFields(logrus.Fields{
		"items":    3,
		"supplier": supplier.Name,
		"customer": customer.Name,
		"bom":      bom.ProductName,
	}).Info("demo data seeded")
	logrus.Infof("manager token (24h): %s", devToken)
}
