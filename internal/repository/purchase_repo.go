package repository

import (
	"go-erp-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchaseRepository interface {
	Create(order *model.PurchaseOrder) error
	FindAll() ([]model.PurchaseOrder, error)
	FindByID(id uuid.UUID) (*model.PurchaseOrder, error)
	UpdateFields(tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	MarkItemReceived(tx *gorm.DB, itemID uuid.UUID, receivedQuantity int) error
	Delete(id uuid.UUID) error
	CountOpen() (int64, error)
}

type purchaseRepo struct {
	db *gorm.DB
}

func NewPurchaseRepo(db *gorm.DB) PurchaseRepository {
	return &purchaseRepo{db}
}

func (r *purchaseRepo) Create(order *model.PurchaseOrder) error {
	return r.db.Create(order).Error
}

func (r *purchaseRepo) FindAll() ([]model.PurchaseOrder, error) {
	var orders []model.PurchaseOrder
	err := r.db.Preload("Supplier").Preload("Items").Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *purchaseRepo) FindByID(id uuid.UUID) (*model.PurchaseOrder, error) {
	var order model.PurchaseOrder
	err := r.db.Preload("Supplier").Preload("Items").First(&order, "id = ?", id).Error
	return &order, err
}

func (r *purchaseRepo) UpdateFields(tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Model(&model.PurchaseOrder{}).Where("id = ?", id).Updates(fields).Error
}

func (r *purchaseRepo) MarkItemReceived(tx *gorm.DB, itemID uuid.UUID, receivedQuantity int) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Model(&model.PurchaseItem{}).Where("id = ?", itemID).
		Update("received_quantity", receivedQuantity).Error
}

func (r *purchaseRepo) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("purchase_order_id = ?", id).Delete(&model.PurchaseItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.PurchaseOrder{}, "id = ?", id).Error
	})
}

func (r *purchaseRepo) CountOpen() (int64, error) {
	var count int64
	err := r.db.Model(&model.PurchaseOrder{}).
		Where("status NOT IN ?", []model.PurchaseOrderStatus{model.PurchaseCompleted, model.PurchaseCancelled}).
		Count(&count).Error
	return count, err
}
