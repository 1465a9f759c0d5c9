package repository

import (
	"go-erp-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductionRepository interface {
	Create(order *model.ProductionOrder) error
	FindAll() ([]model.ProductionOrder, error)
	FindByID(id uuid.UUID) (*model.ProductionOrder, error)
	UpdateFields(id uuid.UUID, fields map[string]interface{}) error
	CountByBOM(bomID uuid.UUID) (int64, error)
	Delete(id uuid.UUID) error
}

type productionRepo struct {
	db *gorm.DB
}

func NewProductionRepo(db *gorm.DB) ProductionRepository {
	return &productionRepo{db}
}

func (r *productionRepo) Create(order *model.ProductionOrder) error {
	return r.db.Create(order).Error
}

func (r *productionRepo) FindAll() ([]model.ProductionOrder, error) {
	var orders []model.ProductionOrder
	err := r.db.Preload("BOM").Preload("BOM.Materials").Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *productionRepo) FindByID(id uuid.UUID) (*model.ProductionOrder, error) {
	var order model.ProductionOrder
	err := r.db.Preload("BOM").Preload("BOM.Materials").First(&order, "id = ?", id).Error
	return &order, err
}

func (r *productionRepo) UpdateFields(id uuid.UUID, fields map[string]interface{}) error {
	return r.db.Model(&model.ProductionOrder{}).Where("id = ?", id).Updates(fields).Error
}

func (r *productionRepo) CountByBOM(bomID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.ProductionOrder{}).Where("bom_id = ?", bomID).Count(&count).Error
	return count, err
}

func (r *productionRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.ProductionOrder{}, "id = ?", id).Error
}
