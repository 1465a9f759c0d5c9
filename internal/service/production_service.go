package service

import (
	"errors"
	"fmt"
	"time"

	"go-erp-ws/internal/model"
	"go-erp-ws/internal/repository"
	"go-erp-ws/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ProductionConfig controls the disputed parts of the completion flow.
// ConsumeMaterials debits raw materials proportionally to the produced
// quantity; the legacy behavior (false) only credits the finished good.
type ProductionConfig struct {
	ConsumeMaterials bool
}

// CompletionResult carries the post-completion order plus the material cost,
// which is computed for reporting and never folded into the persisted total.
type CompletionResult struct {
	Order        *model.ProductionOrder `json:"order"`
	MaterialCost decimal.Decimal        `json:"material_cost"`
}

type ProductionService interface {
	CreateOrder(bomID uuid.UUID, quantityToProduce int, startDate time.Time, actor string) (*model.ProductionOrder, error)
	UpdateStatus(id uuid.UUID, status string, completionDate *time.Time, actor string) error
	Complete(id uuid.UUID, laborCost, additionalCosts decimal.Decimal, actor string) (*CompletionResult, error)
	GetAllOrders() ([]model.ProductionOrder, error)
	GetOrderByID(id uuid.UUID) (*model.ProductionOrder, error)
	DeleteOrder(id uuid.UUID) error
}

type productionService struct {
	productionRepo repository.ProductionRepository
	bomRepo        repository.BOMRepository
	itemRepo       repository.ItemRepository
	inventory      InventoryService
	finance        FinanceService
	cfg            ProductionConfig
}

func NewProductionService(
	productionRepo repository.ProductionRepository,
	bomRepo repository.BOMRepository,
	itemRepo repository.ItemRepository,
	inventory InventoryService,
	finance FinanceService,
	cfg ProductionConfig,
) ProductionService {
	return &productionService{
		productionRepo: productionRepo,
		bomRepo:        bomRepo,
		itemRepo:       itemRepo,
		inventory:      inventory,
		finance:        finance,
		cfg:            cfg,
	}
}

func (s *productionService) CreateOrder(bomID uuid.UUID, quantityToProduce int, startDate time.Time, actor string) (*model.ProductionOrder, error) {
	if quantityToProduce <= 0 {
		return nil, apperr.Validationf("quantity to produce must be greater than zero")
	}

	bom, err := s.bomRepo.FindByID(bomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("BOM %s", bomID)
		}
		return nil, apperr.Persistence("load BOM", err)
	}

	order := &model.ProductionOrder{
		BOMID:             bom.ID,
		QuantityToProduce: quantityToProduce,
		Status:            model.ProductionPlanned,
		StartDate:         startDate,
		LaborCost:         decimal.Zero,
		AdditionalCosts:   decimal.Zero,
		TotalCost:         decimal.Zero,
		BatchID:           fmt.Sprintf("BATCH-%06d", time.Now().UnixMilli()%1000000),
	}
	order.ID = uuid.New()
	order.OrderNumber = fmt.Sprintf("PO-%d-%s", time.Now().Year(), order.ID.String()[:4])
	order.CreatedBy = actor
	order.UpdatedBy = actor
	order.BOM = bom

	if err := s.productionRepo.Create(order); err != nil {
		return nil, apperr.Persistence("create production order", err)
	}

	logrus.WithFields(logrus.Fields{
		"order":    order.OrderNumber,
		"batch":    order.BatchID,
		"bom":      bom.ProductName,
		"quantity": quantityToProduce,
	}).Info("production order created")

	return order, nil
}

func (s *productionService) UpdateStatus(id uuid.UUID, status string, completionDate *time.Time, actor string) error {
	next, ok := model.ParseProductionStatus(status)
	if !ok {
		return apperr.Validationf("unknown production status '%s'", status)
	}

	order, err := s.productionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFoundf("production order %s", id)
		}
		return apperr.Persistence("load production order", err)
	}

	if !order.Status.CanTransition(next) {
		return apperr.InvalidOperationf("cannot move production order from '%s' to '%s'", order.Status, next)
	}

	fields := map[string]interface{}{
		"status":     next,
		"updated_by": actor,
	}
	if next == model.ProductionCompleted {
		if completionDate == nil {
			now := time.Now()
			completionDate = &now
		}
		fields["completion_date"] = *completionDate
	}

	if err := s.productionRepo.UpdateFields(id, fields); err != nil {
		return apperr.Persistence("update production order status", err)
	}
	return nil
}

// Complete is the central cross-ledger operation: it credits the finished
// good (and optionally debits the consumed materials), records the realized
// cost, and closes the order. A failure after an inventory credit is not
// compensated; the adjustment trail is the record of what actually happened.
func (s *productionService) Complete(id uuid.UUID, laborCost, additionalCosts decimal.Decimal, actor string) (*CompletionResult, error) {
	if laborCost.IsNegative() || additionalCosts.IsNegative() {
		return nil, apperr.Validationf("costs must not be negative")
	}

	order, err := s.productionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("production order %s", id)
		}
		return nil, apperr.Persistence("load production order", err)
	}
	if order.Status.IsTerminal() {
		return nil, apperr.InvalidOperationf("production order is already %s", order.Status)
	}
	if !order.Status.CanTransition(model.ProductionCompleted) {
		return nil, apperr.InvalidOperationf("cannot complete production order from '%s'", order.Status)
	}

	bom := order.BOM
	if bom == nil {
		loaded, err := s.bomRepo.FindByID(order.BOMID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFoundf("BOM %s", order.BOMID)
			}
			return nil, apperr.Persistence("load BOM", err)
		}
		bom = loaded
	}

	if s.cfg.ConsumeMaterials {
		for _, material := range bom.Materials {
			consumed := material.Quantity * order.QuantityToProduce
			note := fmt.Sprintf("consumed by batch %s", order.BatchID)
			if _, err := s.inventory.AdjustStock(material.ItemID, -consumed, model.ReasonProduction, note, actor); err != nil {
				return nil, fmt.Errorf("consume material '%s': %w", material.Name, err)
			}
		}
	}

	if bom.FinishedItemID != nil {
		note := fmt.Sprintf("produced by batch %s", order.BatchID)
		if _, err := s.inventory.AdjustStock(*bom.FinishedItemID, order.QuantityToProduce, model.ReasonProduction, note, actor); err != nil {
			return nil, fmt.Errorf("credit finished goods: %w", err)
		}
	}

	totalCost := laborCost.Add(additionalCosts)
	completionDate := time.Now()

	if err := s.productionRepo.UpdateFields(id, map[string]interface{}{
		"status":           model.ProductionCompleted,
		"completion_date":  completionDate,
		"labor_cost":       laborCost,
		"additional_costs": additionalCosts,
		"total_cost":       totalCost,
		"updated_by":       actor,
	}); err != nil {
		return nil, apperr.Persistence("complete production order", err)
	}

	if totalCost.IsPositive() {
		_, err := s.finance.AddTransaction(&model.Transaction{
			Type:            model.TxExpense,
			Amount:          totalCost,
			Category:        "production",
			Description:     fmt.Sprintf("Production run %s (%s)", order.OrderNumber, bom.ProductName),
			Date:            completionDate,
			ReferenceNumber: order.BatchID,
		}, actor)
		if err != nil {
			// The order is already closed; an unrecorded cost is logged,
			// not rolled back.
			logrus.WithError(err).WithField("order", order.OrderNumber).
				Warn("failed to record production expense")
		}
	}

	order.Status = model.ProductionCompleted
	order.CompletionDate = &completionDate
	order.LaborCost = laborCost
	order.AdditionalCosts = additionalCosts
	order.TotalCost = totalCost

	logrus.WithFields(logrus.Fields{
		"order":    order.OrderNumber,
		"batch":    order.BatchID,
		"quantity": order.QuantityToProduce,
		"cost":     totalCost.String(),
	}).Info("production order completed")

	return &CompletionResult{
		Order:        order,
		MaterialCost: s.materialCost(bom, order.QuantityToProduce),
	}, nil
}

func (s *productionService) materialCost(bom *model.BOM, quantity int) decimal.Decimal {
	items := make(map[uuid.UUID]model.InventoryItem, len(bom.Materials))
	for _, material := range bom.Materials {
		if item, err := s.itemRepo.FindByID(material.ItemID); err == nil {
			items[material.ItemID] = *item
		}
	}
	return MaterialCost(bom, items, quantity)
}

func (s *productionService) GetAllOrders() ([]model.ProductionOrder, error) {
	return s.productionRepo.FindAll()
}

func (s *productionService) GetOrderByID(id uuid.UUID) (*model.ProductionOrder, error) {
	order, err := s.productionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("production order %s", id)
		}
		return nil, apperr.Persistence("load production order", err)
	}
	return order, nil
}

func (s *productionService) DeleteOrder(id uuid.UUID) error {
	order, err := s.productionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFoundf("production order %s", id)
		}
		return apperr.Persistence("load production order", err)
	}
	if order.Status == model.ProductionCompleted {
		return apperr.InvalidOperationf("completed production orders are immutable")
	}
	if err := s.productionRepo.Delete(id); err != nil {
		return apperr.Persistence("delete production order", err)
	}
	return nil
}
