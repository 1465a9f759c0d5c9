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

// SaleItemInput is one outbound line. UnitPrice zero means "price from the
// item's selling price"; Discount is an absolute per-line amount.
type SaleItemInput struct {
	ItemID    uuid.UUID       `json:"item_id" validate:"uuid_required"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
}

// ReturnItemInput names a line to take back. Quantity must not exceed what
// was sold minus what has already been returned on that line.
type ReturnItemInput struct {
	ItemID   uuid.UUID `json:"item_id" validate:"uuid_required"`
	Quantity int       `json:"quantity" validate:"required,gt=0"`
}

type SalesService interface {
	CreateCustomer(customer *model.Customer, actor string) error
	GetAllCustomers() ([]model.Customer, error)
	CreateOrder(customerID uuid.UUID, items []SaleItemInput, paymentMethod, notes string, actor string) (*model.SalesOrder, error)
	UpdateStatus(id uuid.UUID, status model.SalesOrderStatus, actor string) (*model.SalesOrder, error)
	ReturnOrder(id uuid.UUID, items []ReturnItemInput, actor string) (*model.SalesOrder, error)
	DeleteOrder(id uuid.UUID) error
	GetAllOrders() ([]model.SalesOrder, error)
	GetOrderByID(id uuid.UUID) (*model.SalesOrder, error)
}

type salesService struct {
	salesRepo    repository.SalesRepository
	customerRepo repository.CustomerRepository
	itemRepo     repository.ItemRepository
	inventory    InventoryService
	finance      FinanceService
}

func NewSalesService(
	salesRepo repository.SalesRepository,
	customerRepo repository.CustomerRepository,
	itemRepo repository.ItemRepository,
	inventory InventoryService,
	finance FinanceService,
) SalesService {
	return &salesService{
		salesRepo:    salesRepo,
		customerRepo: customerRepo,
		itemRepo:     itemRepo,
		inventory:    inventory,
		finance:      finance,
	}
}

func (s *salesService) CreateCustomer(customer *model.Customer, actor string) error {
	if customer.Name == "" {
		return apperr.Validationf("customer name is required")
	}
	customer.CreatedBy = actor
	customer.UpdatedBy = actor
	if err := s.customerRepo.Create(customer); err != nil {
		return apperr.Persistence("create customer", err)
	}
	return nil
}

func (s *salesService) GetAllCustomers() ([]model.Customer, error) {
	return s.customerRepo.FindAll()
}

func (s *salesService) CreateOrder(customerID uuid.UUID, items []SaleItemInput, paymentMethod, notes string, actor string) (*model.SalesOrder, error) {
	if len(items) == 0 {
		return nil, apperr.Validationf("a sales order needs at least one line item")
	}

	customer, err := s.customerRepo.FindByID(customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("customer %s", customerID)
		}
		return nil, apperr.Persistence("load customer", err)
	}

	total := decimal.Zero
	lines := make([]model.SaleItem, 0, len(items))
	for _, in := range items {
		if in.Quantity <= 0 {
			return nil, apperr.Validationf("line quantity must be greater than zero")
		}
		if in.Discount.IsNegative() {
			return nil, apperr.Validationf("discount must not be negative")
		}

		item, err := s.itemRepo.FindByID(in.ItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFoundf("inventory item %s", in.ItemID)
			}
			return nil, apperr.Persistence("load inventory item", err)
		}

		unitPrice := in.UnitPrice
		if unitPrice.IsZero() {
			unitPrice = item.SellingPrice
		}
		lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(in.Quantity))).Sub(in.Discount)
		if lineTotal.IsNegative() {
			return nil, apperr.Validationf("discount exceeds line total for '%s'", item.Name)
		}

		total = total.Add(lineTotal)
		lines = append(lines, model.SaleItem{
			ItemID:     item.ID,
			Name:       item.Name,
			Quantity:   in.Quantity,
			UnitPrice:  unitPrice,
			Discount:   in.Discount,
			TotalPrice: lineTotal,
		})
	}

	order := &model.SalesOrder{
		CustomerID:    customer.ID,
		Status:        model.SalesDraft,
		OrderDate:     time.Now(),
		TotalAmount:   total,
		PaymentMethod: paymentMethod,
		Notes:         notes,
		Items:         lines,
	}
	order.ID = uuid.New()
	order.OrderNumber = fmt.Sprintf("SO-%d-%06d", time.Now().Year(), time.Now().UnixMilli()%1000000)
	order.CreatedBy = actor
	order.UpdatedBy = actor

	if err := s.salesRepo.Create(order); err != nil {
		return nil, apperr.Persistence("create sales order", err)
	}

	order.Customer = customer
	return order, nil
}

// UpdateStatus drives the outbound workflow. Entering "completed" debits each
// line from stock (the negative-stock guard in the inventory ledger is the
// only oversell protection) and records the revenue.
func (s *salesService) UpdateStatus(id uuid.UUID, status model.SalesOrderStatus, actor string) (*model.SalesOrder, error) {
	if !status.IsValid() {
		return nil, apperr.Validationf("unknown sales order status '%s'", status)
	}

	order, err := s.salesRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("sales order %s", id)
		}
		return nil, apperr.Persistence("load sales order", err)
	}

	if !order.Status.CanTransition(status) {
		return nil, apperr.InvalidOperationf("cannot move sales order from '%s' to '%s'", order.Status, status)
	}

	// Returns carry per-line quantities, so they go through ReturnOrder.
	// A shipped order never left the warehouse ledger (stock is debited on
	// completion), so moving it to returned is a plain status change.
	if status == model.SalesReturned && order.Status == model.SalesCompleted {
		return nil, apperr.InvalidOperationf("use the return operation to return a fulfilled order")
	}

	if status == model.SalesCompleted && order.Status != model.SalesCompleted {
		if err := s.fulfillOrder(order, actor); err != nil {
			return nil, err
		}
	}

	if err := s.salesRepo.UpdateFields(id, map[string]interface{}{
		"status":     status,
		"updated_by": actor,
	}); err != nil {
		return nil, apperr.Persistence("update sales order status", err)
	}

	order.Status = status
	return order, nil
}

func (s *salesService) fulfillOrder(order *model.SalesOrder, actor string) error {
	for _, line := range order.Items {
		note := fmt.Sprintf("shipped on %s", order.OrderNumber)
		if _, err := s.inventory.AdjustStock(line.ItemID, -line.Quantity, model.ReasonSale, note, actor); err != nil {
			return fmt.Errorf("debit sold goods '%s': %w", line.Name, err)
		}
	}

	if order.TotalAmount.IsPositive() {
		customerName := ""
		if order.Customer != nil {
			customerName = order.Customer.Name
		}
		_, err := s.finance.AddTransaction(&model.Transaction{
			Type:            model.TxIncome,
			Amount:          order.TotalAmount,
			Category:        "sales",
			Description:     fmt.Sprintf("Sales order %s (%s)", order.OrderNumber, customerName),
			Date:            time.Now(),
			PaymentMethod:   order.PaymentMethod,
			ReferenceNumber: order.OrderNumber,
		}, actor)
		if err != nil {
			logrus.WithError(err).WithField("order", order.OrderNumber).
				Warn("failed to record sales income")
		}
	}

	return nil
}

// ReturnOrder takes goods back against a fulfilled order. Each named line is
// credited back to stock and its returned tally persisted; the order ends up
// in "returned". Returning in several steps is allowed as long as no line
// exceeds its sold quantity. Revenue already booked is left untouched; any
// refund is recorded separately in finance.
func (s *salesService) ReturnOrder(id uuid.UUID, items []ReturnItemInput, actor string) (*model.SalesOrder, error) {
	if len(items) == 0 {
		return nil, apperr.Validationf("a return needs at least one line item")
	}

	order, err := s.salesRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("sales order %s", id)
		}
		return nil, apperr.Persistence("load sales order", err)
	}

	if order.Status != model.SalesCompleted && order.Status != model.SalesReturned {
		return nil, apperr.InvalidOperationf("only fulfilled orders can be returned, not '%s'", order.Status)
	}

	lineByItem := make(map[uuid.UUID]*model.SaleItem, len(order.Items))
	for i := range order.Items {
		lineByItem[order.Items[i].ItemID] = &order.Items[i]
	}

	for _, in := range items {
		line, ok := lineByItem[in.ItemID]
		if !ok {
			return nil, apperr.Validationf("item %s is not on order %s", in.ItemID, order.OrderNumber)
		}
		if in.Quantity <= 0 {
			return nil, apperr.Validationf("return quantity must be greater than zero")
		}
		if in.Quantity > line.Quantity-line.ReturnedQuantity {
			return nil, apperr.Validationf("cannot return %d of '%s', only %d outstanding",
				in.Quantity, line.Name, line.Quantity-line.ReturnedQuantity)
		}
	}

	for _, in := range items {
		line := lineByItem[in.ItemID]
		note := fmt.Sprintf("returned against %s", order.OrderNumber)
		if _, err := s.inventory.AdjustStock(line.ItemID, in.Quantity, model.ReasonReturn, note, actor); err != nil {
			return nil, fmt.Errorf("restock returned goods '%s': %w", line.Name, err)
		}
		line.ReturnedQuantity += in.Quantity
		if err := s.salesRepo.UpdateItemReturned(line.ID, line.ReturnedQuantity); err != nil {
			return nil, apperr.Persistence("update returned quantity", err)
		}
	}

	if err := s.salesRepo.UpdateFields(id, map[string]interface{}{
		"status":     model.SalesReturned,
		"updated_by": actor,
	}); err != nil {
		return nil, apperr.Persistence("update sales order status", err)
	}

	order.Status = model.SalesReturned
	return order, nil
}

func (s *salesService) DeleteOrder(id uuid.UUID) error {
	order, err := s.salesRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFoundf("sales order %s", id)
		}
		return apperr.Persistence("load sales order", err)
	}
	if order.Status == model.SalesCompleted || order.Status == model.SalesReturned {
		return apperr.InvalidOperationf("fulfilled sales orders are immutable")
	}
	if err := s.salesRepo.Delete(id); err != nil {
		return apperr.Persistence("delete sales order", err)
	}
	return nil
}

func (s *salesService) GetAllOrders() ([]model.SalesOrder, error) {
	return s.salesRepo.FindAll()
}

func (s *salesService) GetOrderByID(id uuid.UUID) (*model.SalesOrder, error) {
	order, err := s.salesRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("sales order %s", id)
		}
		return nil, apperr.Persistence("load sales order", err)
	}
	return order, nil
}
