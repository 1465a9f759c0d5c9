package handler

import (
	"go-erp-ws/internal/model"
	"go-erp-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

func (h *InventoryHandler) GetItems(c *fiber.Ctx) error {
	items, err := h.service.GetAllItems()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(items)
}

func (h *InventoryHandler) GetItem(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	item, err := h.service.GetItemByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

func (h *InventoryHandler) CreateItem(c *fiber.Ctx) error {
	var item model.InventoryItem
	if err := c.BodyParser(&item); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.CreateItem(&item, getActor(c)); err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Item created", "data": item})
}

func (h *InventoryHandler) UpdateItem(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	var item model.InventoryItem
	if err := c.BodyParser(&item); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.UpdateItem(id, &item, getActor(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Item updated", "data": updated})
}

func (h *InventoryHandler) DeleteItem(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	if err := h.service.DeleteItem(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Item deleted"})
}

type adjustStockRequest struct {
	QuantityDelta int                    `json:"quantity_delta"`
	Reason        model.AdjustmentReason `json:"reason"`
	Notes         string                 `json:"notes"`
}

func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	var req adjustStockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	change, err := h.service.AdjustStock(id, req.QuantityDelta, req.Reason, req.Notes, getActor(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Stock adjusted", "data": change})
}

func (h *InventoryHandler) GetAdjustments(c *fiber.Ctx) error {
	adjustments, err := h.service.GetAllAdjustments()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(adjustments)
}
