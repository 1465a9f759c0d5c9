package handler

import (
	"fmt"

	"go-erp-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type BOMHandler struct {
	service service.BOMService
}

func NewBOMHandler(s service.BOMService) *BOMHandler {
	return &BOMHandler{service: s}
}

type bomRequest struct {
	ProductName    string                  `json:"product_name"`
	Description    string                  `json:"description"`
	FinishedItemID *uuid.UUID              `json:"finished_item_id,omitempty"`
	Materials      []service.MaterialInput `json:"materials"`
}

func (h *BOMHandler) GetBOMs(c *fiber.Ctx) error {
	boms, err := h.service.GetAllBOMs()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(boms)
}

func (h *BOMHandler) GetBOM(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid BOM ID"})
	}

	bom, err := h.service.GetBOMByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bom)
}

func (h *BOMHandler) CreateBOM(c *fiber.Ctx) error {
	var req bomRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	bom, err := h.service.CreateBOM(req.ProductName, req.Description, req.Materials, req.FinishedItemID, getActor(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Bill of Materials created", "data": bom})
}

func (h *BOMHandler) UpdateBOM(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid BOM ID"})
	}

	var req bomRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	bom, err := h.service.UpdateBOM(id, req.ProductName, req.Description, req.Materials, req.FinishedItemID, getActor(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Bill of Materials updated", "data": bom})
}

func (h *BOMHandler) DeleteBOM(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid BOM ID"})
	}

	result, err := h.service.DeleteBOM(id)
	if err != nil {
		return respondError(c, err)
	}

	response := fiber.Map{"message": "Bill of Materials deleted"}
	if result.ReferencingOrders > 0 {
		response["warning"] = fmt.Sprintf(
			"This BOM was used in %d production order(s). Deleting it may affect production data.",
			result.ReferencingOrders,
		)
	}
	return c.JSON(response)
}
