package repository

import (
	"go-erp-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SalesRepository interface {
	Create(order *model.SalesOrder) error
	FindAll() ([]model.SalesOrder, error)
	FindByID(id uuid.UUID) (*model.SalesOrder, error)
	UpdateFields(id uuid.UUID, fields map[string]interface{}) error
	UpdateItemReturned(lineID uuid.UUID, returnedQuantity int) error
	Delete(id uuid.UUID) error
	CountOpen() (int64, error)
}

type salesRepo struct {
	db *gorm.DB
}

func NewSalesRepo(db *gorm.DB) SalesRepository {
	return &salesRepo{db}
}

func (r *salesRepo) Create(order *model.SalesOrder) error {
	return r.db.Create(order).Error
}

func (r *salesRepo) FindAll() ([]model.SalesOrder, error) {
	var orders []model.SalesOrder
	err := r.db.Preload("Customer").Preload("Items").Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *salesRepo) FindByID(id uuid.UUID) (*model.SalesOrder, error) {
	var order model.SalesOrder
	err := r.db.Preload("Customer").Preload("Items").First(&order, "id = ?", id).Error
	return &order, err
}

func (r *salesRepo) UpdateFields(id uuid.UUID, fields map[string]interface{}) error {
	return r.db.Model(&model.SalesOrder{}).Where("id = ?", id).Updates(fields).Error
}

func (r *salesRepo) UpdateItemReturned(lineID uuid.UUID, returnedQuantity int) error {
	return r.db.Model(&model.SaleItem{}).Where("id = ?", lineID).
		Update("returned_quantity", returnedQuantity).Error
}

func (r *salesRepo) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sales_order_id = ?", id).Delete(&model.SaleItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.SalesOrder{}, "id = ?", id).Error
	})
}

func (r *salesRepo) CountOpen() (int64, error) {
	var count int64
	err := r.db.Model(&model.SalesOrder{}).
		Where("status NOT IN ?", []model.SalesOrderStatus{model.SalesCompleted, model.SalesReturned, model.SalesCancelled}).
		Count(&count).Error
	return count, err
}
