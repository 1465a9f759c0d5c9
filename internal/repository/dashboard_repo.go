package repository

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"go-erp-ws/internal/model"
)

type DashboardRepository interface {
	GetInventoryStats() (*InventoryStats, error)
	CountPendingProduction() (int64, error)
}

// InventoryStats for the overview cards
type InventoryStats struct {
	TotalItems     int64           `json:"total_items"`
	LowStockCount  int64           `json:"low_stock_count"`
	TotalValuation decimal.Decimal `json:"total_valuation"`
}

type dashboardRepo struct {
	db *gorm.DB
}

func NewDashboardRepo(db *gorm.DB) DashboardRepository {
	return &dashboardRepo{db}
}

func (r *dashboardRepo) GetInventoryStats() (*InventoryStats, error) {
	var stats InventoryStats

	if err := r.db.Model(&model.InventoryItem{}).Count(&stats.TotalItems).Error; err != nil {
		return nil, err
	}

	// Low stock = at or below the item's own reorder level
	if err := r.db.Model(&model.InventoryItem{}).
		Where("current_stock <= reorder_level").
		Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}

	row := r.db.Model(&model.InventoryItem{}).
		Select("COALESCE(SUM(current_stock * purchase_cost), 0)").
		Row()
	if err := row.Scan(&stats.TotalValuation); err != nil {
		return nil, err
	}

	return &stats, nil
}

func (r *dashboardRepo) CountPendingProduction() (int64, error) {
	var count int64
	err := r.db.Model(&model.ProductionOrder{}).
		Where("status IN ?", []model.ProductionStatus{model.ProductionPlanned, model.ProductionInProgress}).
		Count(&count).Error
	return count, err
}
