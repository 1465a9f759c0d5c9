package handler

import (
	"time"

	"go-erp-ws/internal/model"
	"go-erp-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ProcurementHandler struct {
	service service.ProcurementService
}

func NewProcurementHandler(s service.ProcurementService) *ProcurementHandler {
	return &ProcurementHandler{service: s}
}

type createPurchaseOrderRequest struct {
	SupplierID           uuid.UUID                   `json:"supplier_id"`
	Items                []service.PurchaseItemInput `json:"items"`
	Notes                string                      `json:"notes"`
	ExpectedDeliveryDate *time.Time                  `json:"expected_delivery_date,omitempty"`
}

type updatePurchaseStatusRequest struct {
	Status model.PurchaseOrderStatus `json:"status"`
	// Items overrides per-line received quantities on the receive
	// transition; omitted lines are received in full.
	Items []service.ReceiptLineInput `json:"items,omitempty"`
}

func (h *ProcurementHandler) GetSuppliers(c *fiber.Ctx) error {
	suppliers, err := h.service.GetAllSuppliers()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(suppliers)
}

func (h *ProcurementHandler) CreateSupplier(c *fiber.Ctx) error {
	var supplier model.Supplier
	if err := c.BodyParser(&supplier); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.CreateSupplier(&supplier, getActor(c)); err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Supplier created", "data": supplier})
}

func (h *ProcurementHandler) GetOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetAllOrders()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(orders)
}

func (h *ProcurementHandler) GetOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid purchase order ID"})
	}

	order, err := h.service.GetOrderByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

func (h *ProcurementHandler) CreateOrder(c *fiber.Ctx) error {
	var req createPurchaseOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.service.CreateOrder(req.SupplierID, req.Items, req.Notes, req.ExpectedDeliveryDate, getActor(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Purchase order created", "data": order})
}

func (h *ProcurementHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid purchase order ID"})
	}

	var req updatePurchaseStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.service.UpdateStatus(id, req.Status, req.Items, getActor(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Purchase order status updated", "data": order})
}

func (h *ProcurementHandler) DeleteOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid purchase order ID"})
	}

	if err := h.service.DeleteOrder(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Purchase order deleted"})
}
