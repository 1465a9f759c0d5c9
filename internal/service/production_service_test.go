package service

import (
	"errors"
	"testing"
	"time"

	"go-erp-ws/internal/model"
	"go-erp-ws/internal/repository"
	"go-erp-ws/pkg/apperr"

	"github.com/shopspring/decimal"
)

func setupProductionFixture(t *testing.T, env *testEnv) (*model.InventoryItem, *model.InventoryItem, *model.BOM) {
	t.Helper()
	material := env.createItem(t, "Flour", "SKU-FLOUR", 100, 2, 0)
	finished := env.createItem(t, "Bread", "SKU-BREAD", 0, 1, 3)

	bom, err := env.boms.CreateBOM("Bread", "", []MaterialInput{
		{ItemID: material.ID, Quantity: 2},
	}, &finished.ID, "tester")
	if err != nil {
		t.Fatalf("CreateBOM failed: %v", err)
	}
	return material, finished, bom
}

func TestCreateOrderUnknownBOM(t *testing.T) {
	env := newTestEnv(t)
	production := env.production(ProductionConfig{})

	_, err := production.CreateOrder(newUUID(t), 5, time.Now(), "tester")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateOrderRejectsNonPositiveQuantity(t *testing.T) {
	env := newTestEnv(t)
	_, _, bom := setupProductionFixture(t, env)
	production := env.production(ProductionConfig{})

	_, err := production.CreateOrder(bom.ID, 0, time.Now(), "tester")
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCreateOrderStartsPlanned(t *testing.T) {
	env := newTestEnv(t)
	_, _, bom := setupProductionFixture(t, env)
	production := env.production(ProductionConfig{})

	order, err := production.CreateOrder(bom.ID, 5, time.Now(), "tester")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if order.Status != model.ProductionPlanned {
		t.Errorf("expected status planned, got %q", order.Status)
	}
	if order.OrderNumber == "" || order.BatchID == "" {
		t.Errorf("expected generated order number and batch id, got %q / %q", order.OrderNumber, order.BatchID)
	}
	if !order.TotalCost.IsZero() {
		t.Errorf("new order must carry zero cost, got %s", order.TotalCost)
	}
}

func TestCompleteCreditsFinishedGood(t *testing.T) {
	env := newTestEnv(t)
	material, finished, bom := setupProductionFixture(t, env)
	production := env.production(ProductionConfig{})

	order, err := production.CreateOrder(bom.ID, 5, time.Now(), "tester")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	result, err := production.Complete(order.ID, decimal.NewFromInt(20), decimal.NewFromInt(5), "tester")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if result.Order.Status != model.ProductionCompleted {
		t.Errorf("expected status completed, got %q", result.Order.Status)
	}
	if result.Order.CompletionDate == nil {
		t.Error("expected completion date to be set")
	}
	if !result.Order.TotalCost.Equal(decimal.NewFromInt(25)) {
		t.Errorf("expected total cost 25 (labor + additional), got %s", result.Order.TotalCost)
	}
	// 5 units * 2 flour * cost 2
	if !result.MaterialCost.Equal(decimal.NewFromInt(20)) {
		t.Errorf("expected reported material cost 20, got %s", result.MaterialCost)
	}

	if stock := env.reloadItem(t, finished).CurrentStock; stock != 5 {
		t.Errorf("expected finished stock 5, got %d", stock)
	}
	if stock := env.reloadItem(t, material).CurrentStock; stock != 100 {
		t.Errorf("materials must not be consumed by default, got stock %d", stock)
	}

	expenses, err := env.finance.GetTransactions(repository.TransactionFilter{Category: "production"})
	if err != nil {
		t.Fatalf("GetTransactions failed: %v", err)
	}
	if len(expenses) != 1 {
		t.Fatalf("expected 1 production expense, got %d", len(expenses))
	}
	if !expenses[0].Amount.Equal(decimal.NewFromInt(25)) {
		t.Errorf("expected expense amount 25, got %s", expenses[0].Amount)
	}
	if expenses[0].ReferenceNumber != order.BatchID {
		t.Errorf("expected expense reference %q, got %q", order.BatchID, expenses[0].ReferenceNumber)
	}
}

func TestCompleteConsumesMaterialsWhenConfigured(t *testing.T) {
	env := newTestEnv(t)
	material, finished, bom := setupProductionFixture(t, env)
	production := env.production(ProductionConfig{ConsumeMaterials: true})

	order, err := production.CreateOrder(bom.ID, 3, time.Now(), "tester")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	if _, err := production.Complete(order.ID, decimal.Zero, decimal.Zero, "tester"); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	// 3 units * 2 flour each
	if stock := env.reloadItem(t, material).CurrentStock; stock != 94 {
		t.Errorf("expected material stock 94, got %d", stock)
	}
	if stock := env.reloadItem(t, finished).CurrentStock; stock != 3 {
		t.Errorf("expected finished stock 3, got %d", stock)
	}
}

func TestCompleteRejectsInsufficientMaterials(t *testing.T) {
	env := newTestEnv(t)
	material, _, bom := setupProductionFixture(t, env)
	production := env.production(ProductionConfig{ConsumeMaterials: true})

	// 60 units need 120 flour, only 100 on hand
	order, err := production.CreateOrder(bom.ID, 60, time.Now(), "tester")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	_, err = production.Complete(order.ID, decimal.Zero, decimal.Zero, "tester")
	if !errors.Is(err, apperr.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}

	if stock := env.reloadItem(t, material).CurrentStock; stock != 100 {
		t.Errorf("material stock must be unchanged after rejection, got %d", stock)
	}

	loaded, err := production.GetOrderByID(order.ID)
	if err != nil {
		t.Fatalf("GetOrderByID failed: %v", err)
	}
	if loaded.Status != model.ProductionPlanned {
		t.Errorf("order must stay planned after failed completion, got %q", loaded.Status)
	}
}

func TestCompleteWithoutFinishedItemLink(t *testing.T) {
	env := newTestEnv(t)
	material := env.createItem(t, "Paint", "SKU-PAINT", 30, 4, 0)

	bom, err := env.boms.CreateBOM("Custom Job", "", []MaterialInput{
		{ItemID: material.ID, Quantity: 1},
	}, nil, "tester")
	if err != nil {
		t.Fatalf("CreateBOM failed: %v", err)
	}

	production := env.production(ProductionConfig{})
	order, err := production.CreateOrder(bom.ID, 2, time.Now(), "tester")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	result, err := production.Complete(order.ID, decimal.NewFromInt(10), decimal.Zero, "tester")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if result.Order.Status != model.ProductionCompleted {
		t.Errorf("expected completed, got %q", result.Order.Status)
	}

	adjustments, err := env.adjRepo.FindByItem(material.ID)
	if err != nil {
		t.Fatalf("FindByItem failed: %v", err)
	}
	if len(adjustments) != 0 {
		t.Errorf("no stock movement expected without a finished item link, found %d rows", len(adjustments))
	}
}

func TestCompleteTwiceRejected(t *testing.T) {
	env := newTestEnv(t)
	_, _, bom := setupProductionFixture(t, env)
	production := env.production(ProductionConfig{})

	order, err := production.CreateOrder(bom.ID, 1, time.Now(), "tester")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if _, err := production.Complete(order.ID, decimal.Zero, decimal.Zero, "tester"); err != nil {
		t.Fatalf("first Complete failed: %v", err)
	}

	_, err = production.Complete(order.ID, decimal.Zero, decimal.Zero, "tester")
	if !errors.Is(err, apperr.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation on second completion, got %v", err)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	env := newTestEnv(t)
	_, _, bom := setupProductionFixture(t, env)
	production := env.production(ProductionConfig{})

	order, err := production.CreateOrder(bom.ID, 1, time.Now(), "tester")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	// Legacy spelling is accepted and normalized
	if err := production.UpdateStatus(order.ID, "in-progress", nil, "tester"); err != nil {
		t.Fatalf("legacy spelling must be accepted: %v", err)
	}
	loaded, err := production.GetOrderByID(order.ID)
	if err != nil {
		t.Fatalf("GetOrderByID failed: %v", err)
	}
	if loaded.Status != model.ProductionInProgress {
		t.Errorf("expected canonical in_progress, got %q", loaded.Status)
	}

	if err := production.UpdateStatus(order.ID, "planned", nil, "tester"); !errors.Is(err, apperr.ErrInvalidOperation) {
		t.Errorf("expected ErrInvalidOperation moving back to planned, got %v", err)
	}

	if err := production.UpdateStatus(order.ID, "cancelled", nil, "tester"); err != nil {
		t.Fatalf("in_progress -> cancelled must be allowed: %v", err)
	}

	if err := production.UpdateStatus(order.ID, "completed", nil, "tester"); !errors.Is(err, apperr.ErrInvalidOperation) {
		t.Errorf("expected ErrInvalidOperation leaving a terminal state, got %v", err)
	}

	if err := production.UpdateStatus(order.ID, "melted", nil, "tester"); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected ErrValidation for unknown status, got %v", err)
	}
}

func TestUpdateStatusStampsCompletionDate(t *testing.T) {
	env := newTestEnv(t)
	_, _, bom := setupProductionFixture(t, env)
	production := env.production(ProductionConfig{})

	order, err := production.CreateOrder(bom.ID, 1, time.Now(), "tester")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	if err := production.UpdateStatus(order.ID, "completed", nil, "tester"); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	loaded, err := production.GetOrderByID(order.ID)
	if err != nil {
		t.Fatalf("GetOrderByID failed: %v", err)
	}
	if loaded.CompletionDate == nil {
		t.Error("expected completion date to be stamped")
	}
}

func TestDeleteCompletedOrderRejected(t *testing.T) {
	env := newTestEnv(t)
	_, _, bom := setupProductionFixture(t, env)
	production := env.production(ProductionConfig{})

	order, err := production.CreateOrder(bom.ID, 1, time.Now(), "tester")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if _, err := production.Complete(order.ID, decimal.Zero, decimal.Zero, "tester"); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if err := production.DeleteOrder(order.ID); !errors.Is(err, apperr.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation deleting a completed order, got %v", err)
	}

	if err := production.DeleteOrder(newUUID(t)); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
