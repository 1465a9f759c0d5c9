package handler

import (
	"go-erp-ws/internal/model"
	"go-erp-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SalesHandler struct {
	service service.SalesService
}

func NewSalesHandler(s service.SalesService) *SalesHandler {
	return &SalesHandler{service: s}
}

type createSalesOrderRequest struct {
	CustomerID    uuid.UUID               `json:"customer_id"`
	Items         []service.SaleItemInput `json:"items"`
	PaymentMethod string                  `json:"payment_method"`
	Notes         string                  `json:"notes"`
}

type updateSalesStatusRequest struct {
	Status model.SalesOrderStatus `json:"status"`
}

type returnSalesOrderRequest struct {
	Items []service.ReturnItemInput `json:"items"`
}

func (h *SalesHandler) GetCustomers(c *fiber.Ctx) error {
	customers, err := h.service.GetAllCustomers()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(customers)
}

func (h *SalesHandler) CreateCustomer(c *fiber.Ctx) error {
	var customer model.Customer
	if err := c.BodyParser(&customer); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.CreateCustomer(&customer, getActor(c)); err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Customer created", "data": customer})
}

func (h *SalesHandler) GetOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetAllOrders()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(orders)
}

func (h *SalesHandler) GetOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sales order ID"})
	}

	order, err := h.service.GetOrderByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

func (h *SalesHandler) CreateOrder(c *fiber.Ctx) error {
	var req createSalesOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.service.CreateOrder(req.CustomerID, req.Items, req.PaymentMethod, req.Notes, getActor(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Sales order created", "data": order})
}

func (h *SalesHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sales order ID"})
	}

	var req updateSalesStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.service.UpdateStatus(id, req.Status, getActor(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Sales order status updated", "data": order})
}

func (h *SalesHandler) ReturnOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sales order ID"})
	}

	var req returnSalesOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.service.ReturnOrder(id, req.Items, getActor(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Sales order returned", "data": order})
}

func (h *SalesHandler) DeleteOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sales order ID"})
	}

	if err := h.service.DeleteOrder(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Sales order deleted"})
}
