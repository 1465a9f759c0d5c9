package service

import (
	"testing"
	"time"

	"go-erp-ws/internal/model"

	"github.com/shopspring/decimal"
)

func TestDashboardStats(t *testing.T) {
	env := newTestEnv(t)

	// Valuation: 10*2 + 3*5 = 35; the second item sits at its reorder level
	env.createItem(t, "Flour", "SKU-FLOUR", 10, 2, 0)
	low := env.createItem(t, "Yeast", "SKU-YEAST", 3, 5, 0)
	low.ReorderLevel = 3
	if _, err := env.inventory.UpdateItem(low.ID, low, "tester"); err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}

	bom, err := env.boms.CreateBOM("Bread", "", []MaterialInput{
		{ItemID: low.ID, Quantity: 1},
	}, nil, "tester")
	if err != nil {
		t.Fatalf("CreateBOM failed: %v", err)
	}
	production := env.production(ProductionConfig{})
	if _, err := production.CreateOrder(bom.ID, 2, time.Now(), "tester"); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	supplier := env.createSupplier(t, "Acme Supplies")
	if _, err := env.procurement.CreateOrder(supplier.ID, []PurchaseItemInput{
		{Name: "Gravel", Quantity: 1, UnitCost: decimal.NewFromInt(1)},
	}, "", nil, "tester"); err != nil {
		t.Fatalf("purchase CreateOrder failed: %v", err)
	}

	customer := env.createCustomer(t, "Corner Cafe")
	so, err := env.sales.CreateOrder(customer.ID, []SaleItemInput{
		{ItemID: low.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(9)},
	}, "", "", "tester")
	if err != nil {
		t.Fatalf("sales CreateOrder failed: %v", err)
	}
	if _, err := env.sales.UpdateStatus(so.ID, model.SalesCancelled, "tester"); err != nil {
		t.Fatalf("cancel sales order failed: %v", err)
	}

	stats, err := env.dashboard.GetStats()
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}

	if stats.TotalItems != 2 {
		t.Errorf("expected 2 items, got %d", stats.TotalItems)
	}
	if stats.LowStockCount != 1 {
		t.Errorf("expected 1 low stock item, got %d", stats.LowStockCount)
	}
	if !stats.TotalValuation.Equal(decimal.NewFromInt(35)) {
		t.Errorf("expected valuation 35, got %s", stats.TotalValuation)
	}
	if stats.PendingProduction != 1 {
		t.Errorf("expected 1 pending production order, got %d", stats.PendingProduction)
	}
	if stats.OpenPurchases != 1 {
		t.Errorf("expected 1 open purchase, got %d", stats.OpenPurchases)
	}
	if stats.OpenSales != 0 {
		t.Errorf("cancelled sales order must not count as open, got %d", stats.OpenSales)
	}
}

func TestStockMovementGroupsByDay(t *testing.T) {
	env := newTestEnv(t)
	item := env.createItem(t, "Flour", "SKU-FLOUR", 100, 2, 0)

	if _, err := env.inventory.AdjustStock(item.ID, 20, model.ReasonPurchase, "", "tester"); err != nil {
		t.Fatalf("AdjustStock failed: %v", err)
	}
	if _, err := env.inventory.AdjustStock(item.ID, -5, model.ReasonDamage, "", "tester"); err != nil {
		t.Fatalf("AdjustStock failed: %v", err)
	}

	movement, err := env.dashboard.GetStockMovement(7)
	if err != nil {
		t.Fatalf("GetStockMovement failed: %v", err)
	}
	if len(movement) != 1 {
		t.Fatalf("expected 1 day bucket, got %d", len(movement))
	}
	if movement[0].Inbound != 20 {
		t.Errorf("expected inbound 20, got %d", movement[0].Inbound)
	}
	if movement[0].Outbound != 5 {
		t.Errorf("expected outbound 5, got %d", movement[0].Outbound)
	}
}
