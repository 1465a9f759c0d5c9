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

// PurchaseItemInput is one inbound line. ItemID is optional; when absent the
// line is matched against the inventory ledger by name, and an unmatched line
// stays free-text (it will not be credited to stock on receipt).
type PurchaseItemInput struct {
	ItemID   *uuid.UUID      `json:"item_id,omitempty"`
	Name     string          `json:"name" validate:"required"`
	Quantity int             `json:"quantity" validate:"required,gt=0"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// ReceiptLineInput overrides how much of a purchase order line actually
// arrived. Lines not named in a receipt default to their full ordered
// quantity.
type ReceiptLineInput struct {
	LineID   uuid.UUID `json:"line_id" validate:"uuid_required"`
	Quantity int       `json:"quantity"`
}

type ProcurementService interface {
	CreateSupplier(supplier *model.Supplier, actor string) error
	GetAllSuppliers() ([]model.Supplier, error)
	CreateOrder(supplierID uuid.UUID, items []PurchaseItemInput, notes string, expectedDelivery *time.Time, actor string) (*model.PurchaseOrder, error)
	UpdateStatus(id uuid.UUID, status model.PurchaseOrderStatus, receipts []ReceiptLineInput, actor string) (*model.PurchaseOrder, error)
	DeleteOrder(id uuid.UUID) error
	GetAllOrders() ([]model.PurchaseOrder, error)
	GetOrderByID(id uuid.UUID) (*model.PurchaseOrder, error)
}

type procurementService struct {
	purchaseRepo repository.PurchaseRepository
	supplierRepo repository.SupplierRepository
	itemRepo     repository.ItemRepository
	inventory    InventoryService
	finance      FinanceService
}

func NewProcurementService(
	purchaseRepo repository.PurchaseRepository,
	supplierRepo repository.SupplierRepository,
	itemRepo repository.ItemRepository,
	inventory InventoryService,
	finance FinanceService,
) ProcurementService {
	return &procurementService{
		purchaseRepo: purchaseRepo,
		supplierRepo: supplierRepo,
		itemRepo:     itemRepo,
		inventory:    inventory,
		finance:      finance,
	}
}

func (s *procurementService) CreateSupplier(supplier *model.Supplier, actor string) error {
	if supplier.Name == "" {
		return apperr.Validationf("supplier name is required")
	}
	supplier.CreatedBy = actor
	supplier.UpdatedBy = actor
	supplier.IsActive = true
	if err := s.supplierRepo.Create(supplier); err != nil {
		return apperr.Persistence("create supplier", err)
	}
	return nil
}

func (s *procurementService) GetAllSuppliers() ([]model.Supplier, error) {
	return s.supplierRepo.FindAll()
}

func (s *procurementService) CreateOrder(supplierID uuid.UUID, items []PurchaseItemInput, notes string, expectedDelivery *time.Time, actor string) (*model.PurchaseOrder, error) {
	if len(items) == 0 {
		return nil, apperr.Validationf("a purchase order needs at least one line item")
	}

	supplier, err := s.supplierRepo.FindByID(supplierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("supplier %s", supplierID)
		}
		return nil, apperr.Persistence("load supplier", err)
	}

	total := decimal.Zero
	lines := make([]model.PurchaseItem, 0, len(items))
	for _, in := range items {
		if in.Name == "" || in.Quantity <= 0 {
			return nil, apperr.Validationf("each line needs a name and a positive quantity")
		}
		if in.UnitCost.IsNegative() {
			return nil, apperr.Validationf("unit cost must not be negative")
		}

		itemID := in.ItemID
		if itemID == nil {
			// Best-effort inventory link by exact name
			if item, err := s.itemRepo.FindByName(in.Name); err == nil {
				itemID = &item.ID
			}
		}

		lineTotal := in.UnitCost.Mul(decimal.NewFromInt(int64(in.Quantity)))
		total = total.Add(lineTotal)
		lines = append(lines, model.PurchaseItem{
			ItemID:    itemID,
			Name:      in.Name,
			Quantity:  in.Quantity,
			UnitCost:  in.UnitCost,
			TotalCost: lineTotal,
		})
	}

	order := &model.PurchaseOrder{
		SupplierID:           supplier.ID,
		Status:               model.PurchaseDraft,
		TotalAmount:          total,
		Notes:                notes,
		ExpectedDeliveryDate: expectedDelivery,
		Items:                lines,
	}
	order.ID = uuid.New()
	order.OrderNumber = fmt.Sprintf("PUR-%d-%06d", time.Now().Year(), time.Now().UnixMilli()%1000000)
	order.CreatedBy = actor
	order.UpdatedBy = actor

	if err := s.purchaseRepo.Create(order); err != nil {
		return nil, apperr.Persistence("create purchase order", err)
	}

	order.Supplier = supplier
	return order, nil
}

// UpdateStatus drives the inbound workflow. Entering "received" records a
// goods receipt: each line is received at its ordered quantity unless a
// receipt override names it, linked lines are credited to stock for the
// received amount, and the received value is booked as spend.
func (s *procurementService) UpdateStatus(id uuid.UUID, status model.PurchaseOrderStatus, receipts []ReceiptLineInput, actor string) (*model.PurchaseOrder, error) {
	if !status.IsValid() {
		return nil, apperr.Validationf("unknown purchase order status '%s'", status)
	}

	order, err := s.purchaseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("purchase order %s", id)
		}
		return nil, apperr.Persistence("load purchase order", err)
	}

	if !order.Status.CanTransition(status) {
		return nil, apperr.InvalidOperationf("cannot move purchase order from '%s' to '%s'", order.Status, status)
	}

	if status == model.PurchaseReceived && order.Status != model.PurchaseReceived {
		if err := s.receiveGoods(order, receipts, actor); err != nil {
			return nil, err
		}
	}

	if err := s.purchaseRepo.UpdateFields(nil, id, map[string]interface{}{
		"status":     status,
		"updated_by": actor,
	}); err != nil {
		return nil, apperr.Persistence("update purchase order status", err)
	}

	order.Status = status
	return order, nil
}

func (s *procurementService) receiveGoods(order *model.PurchaseOrder, receipts []ReceiptLineInput, actor string) error {
	lineByID := make(map[uuid.UUID]*model.PurchaseItem, len(order.Items))
	for i := range order.Items {
		lineByID[order.Items[i].ID] = &order.Items[i]
	}

	overrides := make(map[uuid.UUID]int, len(receipts))
	for _, in := range receipts {
		line, ok := lineByID[in.LineID]
		if !ok {
			return apperr.Validationf("line %s is not on order %s", in.LineID, order.OrderNumber)
		}
		if in.Quantity < 0 || in.Quantity > line.Quantity {
			return apperr.Validationf("received quantity for '%s' must be between 0 and %d", line.Name, line.Quantity)
		}
		overrides[in.LineID] = in.Quantity
	}

	receivedValue := decimal.Zero
	for i := range order.Items {
		line := &order.Items[i]
		received := line.Quantity
		if qty, ok := overrides[line.ID]; ok {
			received = qty
		}

		if err := s.purchaseRepo.MarkItemReceived(nil, line.ID, received); err != nil {
			return apperr.Persistence("mark line received", err)
		}
		line.ReceivedQuantity = received
		receivedValue = receivedValue.Add(line.UnitCost.Mul(decimal.NewFromInt(int64(received))))

		if line.ItemID == nil || received == 0 {
			continue
		}
		note := fmt.Sprintf("goods receipt for %s", order.OrderNumber)
		if _, err := s.inventory.AdjustStock(*line.ItemID, received, model.ReasonPurchase, note, actor); err != nil {
			return fmt.Errorf("credit received goods '%s': %w", line.Name, err)
		}
	}

	if receivedValue.IsPositive() {
		supplierName := ""
		if order.Supplier != nil {
			supplierName = order.Supplier.Name
		}
		_, err := s.finance.AddTransaction(&model.Transaction{
			Type:            model.TxExpense,
			Amount:          receivedValue,
			Category:        "procurement",
			Description:     fmt.Sprintf("Goods received from %s (%s)", supplierName, order.OrderNumber),
			Date:            time.Now(),
			ReferenceNumber: order.OrderNumber,
		}, actor)
		if err != nil {
			logrus.WithError(err).WithField("order", order.OrderNumber).
				Warn("failed to record procurement expense")
		}
	}

	return nil
}

func (s *procurementService) DeleteOrder(id uuid.UUID) error {
	order, err := s.purchaseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFoundf("purchase order %s", id)
		}
		return apperr.Persistence("load purchase order", err)
	}
	if order.Status == model.PurchaseReceived || order.Status == model.PurchaseCompleted {
		return apperr.InvalidOperationf("received purchase orders are immutable")
	}
	if err := s.purchaseRepo.Delete(id); err != nil {
		return apperr.Persistence("delete purchase order", err)
	}
	return nil
}

func (s *procurementService) GetAllOrders() ([]model.PurchaseOrder, error) {
	return s.purchaseRepo.FindAll()
}

func (s *procurementService) GetOrderByID(id uuid.UUID) (*model.PurchaseOrder, error) {
	order, err := s.purchaseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("purchase order %s", id)
		}
		return nil, apperr.Persistence("load purchase order", err)
	}
	return order, nil
}
