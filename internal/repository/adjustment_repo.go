package repository

import (
	"time"

	"go-erp-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdjustmentRepository interface {
	Create(tx *gorm.DB, adjustment *model.InventoryAdjustment) error
	FindAll() ([]model.InventoryAdjustment, error)
	FindByItem(itemID uuid.UUID) ([]model.InventoryAdjustment, error)
	GetStockMovement(startDate, endDate time.Time) ([]StockMovementData, error)
}

// StockMovementData for chart data
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

type adjustmentRepo struct {
	db *gorm.DB
}

func NewAdjustmentRepo(db *gorm.DB) AdjustmentRepository {
	return &adjustmentRepo{db}
}

func (r *adjustmentRepo) Create(tx *gorm.DB, adjustment *model.InventoryAdjustment) error {
	return tx.Create(adjustment).Error
}

func (r *adjustmentRepo) FindAll() ([]model.InventoryAdjustment, error) {
	var adjustments []model.InventoryAdjustment
	err := r.db.Preload("Item").Order("adjustment_date DESC").Find(&adjustments).Error
	return adjustments, err
}

func (r *adjustmentRepo) FindByItem(itemID uuid.UUID) ([]model.InventoryAdjustment, error) {
	var adjustments []model.InventoryAdjustment
	err := r.db.Where("item_id = ?", itemID).Order("adjustment_date DESC").Find(&adjustments).Error
	return adjustments, err
}

func (r *adjustmentRepo) GetStockMovement(startDate, endDate time.Time) ([]StockMovementData, error) {
	var results []StockMovementData

	rows, err := r.db.Model(&model.InventoryAdjustment{}).
		Select(`
			DATE(adjustment_date) as date,
			COALESCE(SUM(CASE WHEN new_quantity > previous_quantity THEN new_quantity - previous_quantity ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN new_quantity < previous_quantity THEN previous_quantity - new_quantity ELSE 0 END), 0) as outbound
		`).
		Where("adjustment_date BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(adjustment_date)").
		Order("date ASC").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data StockMovementData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}
