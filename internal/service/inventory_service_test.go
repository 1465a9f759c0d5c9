package service

import (
	"errors"
	"testing"

	"go-erp-ws/internal/model"
	"go-erp-ws/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newUUID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}

func TestAdjustStockAppliesDelta(t *testing.T) {
	env := newTestEnv(t)
	item := env.createItem(t, "Steel Bolt", "SKU-BOLT", 10, 0.50, 1.00)

	change, err := env.inventory.AdjustStock(item.ID, -3, model.ReasonDamage, "dropped crate", "tester")
	if err != nil {
		t.Fatalf("AdjustStock failed: %v", err)
	}
	if change.PreviousQuantity != 10 || change.NewQuantity != 7 {
		t.Errorf("expected change 10 -> 7, got %d -> %d", change.PreviousQuantity, change.NewQuantity)
	}

	fresh := env.reloadItem(t, item)
	if fresh.CurrentStock != 7 {
		t.Errorf("expected stored stock 7, got %d", fresh.CurrentStock)
	}

	trail, err := env.adjRepo.FindByItem(item.ID)
	if err != nil {
		t.Fatalf("FindByItem failed: %v", err)
	}
	if len(trail) != 1 {
		t.Fatalf("expected 1 adjustment row, got %d", len(trail))
	}
	adj := trail[0]
	if adj.PreviousQuantity != 10 || adj.NewQuantity != 7 {
		t.Errorf("adjustment row recorded %d -> %d, expected 10 -> 7", adj.PreviousQuantity, adj.NewQuantity)
	}
	if adj.Reason != model.ReasonDamage {
		t.Errorf("expected reason %q, got %q", model.ReasonDamage, adj.Reason)
	}
	if adj.AdjustedBy != "tester" {
		t.Errorf("expected adjusted_by 'tester', got %q", adj.AdjustedBy)
	}
}

func TestAdjustStockRejectsNegativeResult(t *testing.T) {
	env := newTestEnv(t)
	item := env.createItem(t, "Copper Wire", "SKU-WIRE", 5, 2.00, 4.00)

	_, err := env.inventory.AdjustStock(item.ID, -10, model.ReasonDamage, "", "tester")
	if !errors.Is(err, apperr.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}

	fresh := env.reloadItem(t, item)
	if fresh.CurrentStock != 5 {
		t.Errorf("stock must stay at 5 after rejected adjustment, got %d", fresh.CurrentStock)
	}

	trail, err := env.adjRepo.FindByItem(item.ID)
	if err != nil {
		t.Fatalf("FindByItem failed: %v", err)
	}
	if len(trail) != 0 {
		t.Errorf("rejected adjustment must not leave a trail row, found %d", len(trail))
	}
}

func TestAdjustStockUnknownReason(t *testing.T) {
	env := newTestEnv(t)
	item := env.createItem(t, "Widget", "SKU-WIDGET", 5, 1, 2)

	_, err := env.inventory.AdjustStock(item.ID, 1, model.AdjustmentReason("fire"), "", "tester")
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown reason, got %v", err)
	}
}

func TestCreateItemRejectsDuplicateSKU(t *testing.T) {
	env := newTestEnv(t)
	env.createItem(t, "Original", "SKU-DUP", 1, 1, 2)

	dup := &model.InventoryItem{Name: "Copy", SKU: "SKU-DUP"}
	err := env.inventory.CreateItem(dup, "tester")
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected ErrValidation for duplicate SKU, got %v", err)
	}
}

func TestCreateItemRejectsNegativeCost(t *testing.T) {
	env := newTestEnv(t)

	item := &model.InventoryItem{
		Name:         "Bad Item",
		SKU:          "SKU-NEG",
		PurchaseCost: decimal.NewFromInt(-1),
	}
	err := env.inventory.CreateItem(item, "tester")
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected ErrValidation for negative cost, got %v", err)
	}
}

func TestCreateItemDefaultsUnit(t *testing.T) {
	env := newTestEnv(t)

	item := &model.InventoryItem{Name: "Plain Item", SKU: "SKU-PLAIN"}
	if err := env.inventory.CreateItem(item, "tester"); err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}
	if item.UnitOfMeasure != model.UnitPieces {
		t.Errorf("expected default unit %q, got %q", model.UnitPieces, item.UnitOfMeasure)
	}
}

func TestUpdateItemDoesNotTouchStock(t *testing.T) {
	env := newTestEnv(t)
	item := env.createItem(t, "Gear", "SKU-GEAR", 42, 3, 6)

	patch := &model.InventoryItem{
		Name:         "Gear Mk2",
		SKU:          "SKU-GEAR",
		CurrentStock: 999,
		PurchaseCost: decimal.NewFromInt(4),
		SellingPrice: decimal.NewFromInt(8),
		IsActive:     true,
	}
	updated, err := env.inventory.UpdateItem(item.ID, patch, "tester")
	if err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}
	if updated.Name != "Gear Mk2" {
		t.Errorf("expected renamed item, got %q", updated.Name)
	}
	if updated.CurrentStock != 42 {
		t.Errorf("UpdateItem must not change stock, got %d", updated.CurrentStock)
	}

	fresh := env.reloadItem(t, item)
	if fresh.CurrentStock != 42 {
		t.Errorf("stored stock changed to %d, expected 42", fresh.CurrentStock)
	}
}

func TestUpdateItemKeepsPricingOnPartialPatch(t *testing.T) {
	env := newTestEnv(t)
	item := env.createItem(t, "Gear", "SKU-GEAR", 42, 3, 6)
	item.ReorderLevel = 5
	if _, err := env.inventory.UpdateItem(item.ID, item, "tester"); err != nil {
		t.Fatalf("seed reorder level: %v", err)
	}

	patch := &model.InventoryItem{Name: "Gear Mk2", IsActive: true}
	updated, err := env.inventory.UpdateItem(item.ID, patch, "tester")
	if err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}
	if updated.Name != "Gear Mk2" {
		t.Errorf("expected renamed item, got %q", updated.Name)
	}

	fresh := env.reloadItem(t, item)
	if !fresh.PurchaseCost.Equal(decimal.NewFromInt(3)) {
		t.Errorf("purchase cost must survive a name-only patch, got %s", fresh.PurchaseCost)
	}
	if !fresh.SellingPrice.Equal(decimal.NewFromInt(6)) {
		t.Errorf("selling price must survive a name-only patch, got %s", fresh.SellingPrice)
	}
	if fresh.ReorderLevel != 5 {
		t.Errorf("reorder level must survive a name-only patch, got %d", fresh.ReorderLevel)
	}
}

func TestGetItemByIDNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.inventory.GetItemByID(newUUID(t))
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMaterialCost(t *testing.T) {
	env := newTestEnv(t)
	flour := env.createItem(t, "Flour", "SKU-FLOUR", 100, 2, 0)
	sugar := env.createItem(t, "Sugar", "SKU-SUGAR", 100, 3, 0)

	bom := &model.BOM{
		ProductName: "Cake",
		Materials: []model.BOMMaterial{
			{ItemID: flour.ID, Quantity: 2},
			{ItemID: sugar.ID, Quantity: 1},
			{ItemID: newUUID(t), Quantity: 5}, // unresolved, priced at zero
		},
	}

	cost := MaterialCost(bom, map[uuid.UUID]model.InventoryItem{
		flour.ID: *flour,
		sugar.ID: *sugar,
	}, 3)

	// 3 * (2*2 + 1*3) = 21
	if !cost.Equal(decimal.NewFromInt(21)) {
		t.Errorf("expected material cost 21, got %s", cost)
	}
}
