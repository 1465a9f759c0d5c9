package service

import (
	"time"

	"go-erp-ws/internal/repository"
	"go-erp-ws/pkg/apperr"

	"github.com/shopspring/decimal"
)

// DashboardStats for the overview page
type DashboardStats struct {
	TotalItems        int64           `json:"total_items"`
	LowStockCount     int64           `json:"low_stock_count"`
	TotalValuation    decimal.Decimal `json:"total_valuation"`
	PendingProduction int64           `json:"pending_production"`
	OpenPurchases     int64           `json:"open_purchases"`
	OpenSales         int64           `json:"open_sales"`
}

type DashboardService interface {
	GetStats() (*DashboardStats, error)
	GetStockMovement(days int) ([]repository.StockMovementData, error)
}

type dashboardService struct {
	dashRepo     repository.DashboardRepository
	adjRepo      repository.AdjustmentRepository
	purchaseRepo repository.PurchaseRepository
	salesRepo    repository.SalesRepository
}

func NewDashboardService(
	dashRepo repository.DashboardRepository,
	adjRepo repository.AdjustmentRepository,
	purchaseRepo repository.PurchaseRepository,
	salesRepo repository.SalesRepository,
) DashboardService {
	return &dashboardService{
		dashRepo:     dashRepo,
		adjRepo:      adjRepo,
		purchaseRepo: purchaseRepo,
		salesRepo:    salesRepo,
	}
}

func (s *dashboardService) GetStats() (*DashboardStats, error) {
	inventory, err := s.dashRepo.GetInventoryStats()
	if err != nil {
		return nil, apperr.Persistence("inventory stats", err)
	}
	pending, err := s.dashRepo.CountPendingProduction()
	if err != nil {
		return nil, apperr.Persistence("pending production count", err)
	}
	openPurchases, err := s.purchaseRepo.CountOpen()
	if err != nil {
		return nil, apperr.Persistence("open purchase count", err)
	}
	openSales, err := s.salesRepo.CountOpen()
	if err != nil {
		return nil, apperr.Persistence("open sales count", err)
	}

	return &DashboardStats{
		TotalItems:        inventory.TotalItems,
		LowStockCount:     inventory.LowStockCount,
		TotalValuation:    inventory.TotalValuation,
		PendingProduction: pending,
		OpenPurchases:     openPurchases,
		OpenSales:         openSales,
	}, nil
}

func (s *dashboardService) GetStockMovement(days int) ([]repository.StockMovementData, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)
	return s.adjRepo.GetStockMovement(startDate, endDate)
}
