package handler

import (
	"time"

	"go-erp-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductionHandler struct {
	service service.ProductionService
}

func NewProductionHandler(s service.ProductionService) *ProductionHandler {
	return &ProductionHandler{service: s}
}

type createProductionOrderRequest struct {
	BOMID             uuid.UUID  `json:"bom_id"`
	QuantityToProduce int        `json:"quantity_to_produce"`
	StartDate         *time.Time `json:"start_date,omitempty"`
}

type updateProductionStatusRequest struct {
	Status         string     `json:"status"`
	CompletionDate *time.Time `json:"completion_date,omitempty"`
}

type completeProductionRequest struct {
	LaborCost       decimal.Decimal `json:"labor_cost"`
	AdditionalCosts decimal.Decimal `json:"additional_costs"`
}

func (h *ProductionHandler) GetOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetAllOrders()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(orders)
}

func (h *ProductionHandler) GetOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid production order ID"})
	}

	order, err := h.service.GetOrderByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

func (h *ProductionHandler) CreateOrder(c *fiber.Ctx) error {
	var req createProductionOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	startDate := time.Now()
	if req.StartDate != nil {
		startDate = *req.StartDate
	}

	order, err := h.service.CreateOrder(req.BOMID, req.QuantityToProduce, startDate, getActor(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Production order created", "data": order})
}

func (h *ProductionHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid production order ID"})
	}

	var req updateProductionStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.UpdateStatus(id, req.Status, req.CompletionDate, getActor(c)); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Production order status updated"})
}

func (h *ProductionHandler) CompleteOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid production order ID"})
	}

	var req completeProductionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	result, err := h.service.Complete(id, req.LaborCost, req.AdditionalCosts, getActor(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Production order completed", "data": result})
}

func (h *ProductionHandler) DeleteOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid production order ID"})
	}

	if err := h.service.DeleteOrder(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Production order deleted"})
}
