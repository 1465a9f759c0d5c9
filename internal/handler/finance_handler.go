package handler

import (
	"time"

	"go-erp-ws/internal/model"
	"go-erp-ws/internal/repository"
	"go-erp-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type FinanceHandler struct {
	service service.FinanceService
}

func NewFinanceHandler(s service.FinanceService) *FinanceHandler {
	return &FinanceHandler{service: s}
}

func (h *FinanceHandler) GetTransactions(c *fiber.Ctx) error {
	filter := repository.TransactionFilter{
		Type:     model.TransactionType(c.Query("type")),
		Category: c.Query("category"),
	}
	if start, err := time.Parse("2006-01-02", c.Query("start")); err == nil {
		filter.StartDate = &start
	}
	if end, err := time.Parse("2006-01-02", c.Query("end")); err == nil {
		filter.EndDate = &end
	}

	transactions, err := h.service.GetTransactions(filter)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(transactions)
}

func (h *FinanceHandler) CreateTransaction(c *fiber.Ctx) error {
	var tx model.Transaction
	if err := c.BodyParser(&tx); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	created, err := h.service.AddTransaction(&tx, getActor(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Transaction recorded", "data": created})
}

// dateRange resolves start/end query params, defaulting to a trailing window
// like the old dashboard did.
func dateRange(c *fiber.Ctx) (time.Time, time.Time) {
	now := time.Now()
	start := now.AddDate(0, -1, 0)
	end := now

	if parsed, err := time.Parse("2006-01-02", c.Query("start")); err == nil {
		start = parsed
	}
	if parsed, err := time.Parse("2006-01-02", c.Query("end")); err == nil {
		// End of day so the range is inclusive
		end = parsed.Add(24*time.Hour - time.Nanosecond)
	}
	return start, end
}

func (h *FinanceHandler) GetSummary(c *fiber.Ctx) error {
	start, end := dateRange(c)

	summary, err := h.service.GetFinancialSummary(start, end)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

func (h *FinanceHandler) GetProfitLoss(c *fiber.Ctx) error {
	start, end := dateRange(c)

	report, err := h.service.GetProfitLoss(start, end)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}
