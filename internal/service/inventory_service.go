package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-erp-ws/internal/model"
	"go-erp-ws/internal/repository"
	"go-erp-ws/internal/ws"
	"go-erp-ws/pkg/apperr"
	"go-erp-ws/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// StockChange is the result of a stock adjustment.
type StockChange struct {
	PreviousQuantity int `json:"previous_quantity"`
	NewQuantity      int `json:"new_quantity"`
}

type InventoryService interface {
	CreateItem(req *model.InventoryItem, actor string) error
	UpdateItem(id uuid.UUID, req *model.InventoryItem, actor string) (*model.InventoryItem, error)
	DeleteItem(id uuid.UUID) error
	GetAllItems() ([]model.InventoryItem, error)
	GetItemByID(id uuid.UUID) (*model.InventoryItem, error)
	GetAllAdjustments() ([]model.InventoryAdjustment, error)
	AdjustStock(itemID uuid.UUID, delta int, reason model.AdjustmentReason, notes, actor string) (*StockChange, error)
}

type inventoryService struct {
	itemRepo repository.ItemRepository
	adjRepo  repository.AdjustmentRepository
	db       *gorm.DB
	wsHub    *ws.Hub

	// Per-item locks serialize read-modify-write stock sequences. Two
	// concurrent adjustments against the same item must not both read the
	// same CurrentStock before either writes.
	locksMu sync.Mutex
	locks   map[uuid.UUID]*sync.Mutex
}

func NewInventoryService(itemRepo repository.ItemRepository, adjRepo repository.AdjustmentRepository, db *gorm.DB, hub *ws.Hub) InventoryService {
	return &inventoryService{
		itemRepo: itemRepo,
		adjRepo:  adjRepo,
		db:       db,
		wsHub:    hub,
		locks:    make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *inventoryService) itemLock(id uuid.UUID) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

func (s *inventoryService) CreateItem(req *model.InventoryItem, actor string) error {
	if err := validator.Check(req); err != nil {
		return err
	}
	if req.PurchaseCost.IsNegative() || req.SellingPrice.IsNegative() {
		return apperr.Validationf("purchase cost and selling price must not be negative")
	}
	if req.CurrentStock < 0 {
		return apperr.Validationf("current stock must not be negative")
	}
	if req.UnitOfMeasure == "" {
		req.UnitOfMeasure = model.UnitPieces
	}
	if !req.UnitOfMeasure.IsValid() {
		return apperr.Validationf("unknown unit of measure '%s'", req.UnitOfMeasure)
	}

	if req.SKU != "" {
		existing, _ := s.itemRepo.FindBySKU(req.SKU)
		if existing != nil && existing.ID != uuid.Nil {
			return apperr.Validationf("SKU already exists")
		}
	}

	req.CreatedBy = actor
	req.UpdatedBy = actor

	if err := s.itemRepo.Create(req); err != nil {
		return apperr.Persistence("create inventory item", err)
	}

	s.broadcast(map[string]interface{}{
		"type":   "stock_update",
		"action": "item_created",
		"item": map[string]interface{}{
			"id":    req.ID,
			"sku":   req.SKU,
			"name":  req.Name,
			"stock": req.CurrentStock,
		},
		"message": fmt.Sprintf("%s created item '%s'", actor, req.Name),
	})

	return nil
}

func (s *inventoryService) UpdateItem(id uuid.UUID, req *model.InventoryItem, actor string) (*model.InventoryItem, error) {
	existing, err := s.itemRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("inventory item %s", id)
		}
		return nil, apperr.Persistence("load inventory item", err)
	}

	if req.PurchaseCost.IsNegative() || req.SellingPrice.IsNegative() {
		return nil, apperr.Validationf("purchase cost and selling price must not be negative")
	}
	if req.UnitOfMeasure != "" && !req.UnitOfMeasure.IsValid() {
		return nil, apperr.Validationf("unknown unit of measure '%s'", req.UnitOfMeasure)
	}

	// Merge editable fields. CurrentStock is deliberately not merged here:
	// stock changes go through AdjustStock so the adjustment trail stays
	// complete.
	if req.Name != "" {
		existing.Name = req.Name
	}
	existing.Description = req.Description
	existing.Category = req.Category
	if req.UnitOfMeasure != "" {
		existing.UnitOfMeasure = req.UnitOfMeasure
	}
	// A zero cost, price, or reorder level means the field was not sent;
	// partial updates must not wipe pricing.
	if !req.PurchaseCost.IsZero() {
		existing.PurchaseCost = req.PurchaseCost
	}
	if !req.SellingPrice.IsZero() {
		existing.SellingPrice = req.SellingPrice
	}
	if req.ReorderLevel != 0 {
		existing.ReorderLevel = req.ReorderLevel
	}
	if req.SKU != "" {
		existing.SKU = req.SKU
	}
	existing.IsActive = req.IsActive
	existing.UpdatedBy = actor

	if err := s.itemRepo.Save(existing); err != nil {
		return nil, apperr.Persistence("update inventory item", err)
	}

	return existing, nil
}

func (s *inventoryService) DeleteItem(id uuid.UUID) error {
	if _, err := s.itemRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFoundf("inventory item %s", id)
		}
		return apperr.Persistence("load inventory item", err)
	}
	// Adjustment history is kept; orphaned rows still carry the quantities
	// and reason codes they were written with.
	if err := s.itemRepo.Delete(id); err != nil {
		return apperr.Persistence("delete inventory item", err)
	}
	return nil
}

func (s *inventoryService) GetAllItems() ([]model.InventoryItem, error) {
	return s.itemRepo.FindAll()
}

func (s *inventoryService) GetItemByID(id uuid.UUID) (*model.InventoryItem, error) {
	item, err := s.itemRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("inventory item %s", id)
		}
		return nil, apperr.Persistence("load inventory item", err)
	}
	return item, nil
}

func (s *inventoryService) GetAllAdjustments() ([]model.InventoryAdjustment, error) {
	return s.adjRepo.FindAll()
}

// AdjustStock is the only sanctioned path for stock changes driven by
// business events. The adjustment row and the stock write commit in one
// database transaction, and adjustments against the same item are serialized.
func (s *inventoryService) AdjustStock(itemID uuid.UUID, delta int, reason model.AdjustmentReason, notes, actor string) (*StockChange, error) {
	if !reason.IsValid() {
		return nil, apperr.Validationf("unknown adjustment reason '%s'", reason)
	}

	lock := s.itemLock(itemID)
	lock.Lock()
	defer lock.Unlock()

	var change StockChange
	var itemName string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		item, err := s.itemRepo.FindByIDTx(tx, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFoundf("inventory item %s", itemID)
			}
			return apperr.Persistence("load inventory item", err)
		}

		newQuantity := item.CurrentStock + delta
		if newQuantity < 0 {
			return apperr.InvalidOperationf("adjustment would result in negative stock")
		}

		adjustment := &model.InventoryAdjustment{
			ItemID:           item.ID,
			PreviousQuantity: item.CurrentStock,
			NewQuantity:      newQuantity,
			Reason:           reason,
			Notes:            notes,
			AdjustedBy:       actor,
			AdjustmentDate:   time.Now(),
		}
		adjustment.CreatedBy = actor

		if err := s.adjRepo.Create(tx, adjustment); err != nil {
			return apperr.Persistence("create inventory adjustment", err)
		}
		if err := s.itemRepo.UpdateStock(tx, item.ID, newQuantity, actor); err != nil {
			return apperr.Persistence("update stock", err)
		}

		change = StockChange{PreviousQuantity: item.CurrentStock, NewQuantity: newQuantity}
		itemName = item.Name
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"item":     itemName,
		"delta":    delta,
		"reason":   reason,
		"previous": change.PreviousQuantity,
		"new":      change.NewQuantity,
	}).Info("stock adjusted")

	s.broadcast(map[string]interface{}{
		"type":   "stock_update",
		"action": "stock_adjusted",
		"item": map[string]interface{}{
			"id":        itemID,
			"name":      itemName,
			"old_stock": change.PreviousQuantity,
			"new_stock": change.NewQuantity,
		},
		"reason":  reason,
		"message": fmt.Sprintf("%s adjusted '%s' by %d (%s)", actor, itemName, delta, reason),
	})

	return &change, nil
}

// MaterialCost walks a BOM's materials and prices quantity units of output at
// each material's current purchase cost.
func MaterialCost(bom *model.BOM, items map[uuid.UUID]model.InventoryItem, quantity int) decimal.Decimal {
	total := decimal.Zero
	for _, material := range bom.Materials {
		item, ok := items[material.ItemID]
		if !ok {
			continue
		}
		units := decimal.NewFromInt(int64(material.Quantity) * int64(quantity))
		total = total.Add(item.PurchaseCost.Mul(units))
	}
	return total
}

func (s *inventoryService) broadcast(payload map[string]interface{}) {
	if s.wsHub == nil {
		return
	}
	go func() {
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()
}
