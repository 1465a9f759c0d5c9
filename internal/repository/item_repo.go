package repository

import (
	"go-erp-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ItemRepository interface {
	Create(item *model.InventoryItem) error
	FindAll() ([]model.InventoryItem, error)
	FindByID(id uuid.UUID) (*model.InventoryItem, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.InventoryItem, error)
	FindBySKU(sku string) (*model.InventoryItem, error)
	FindByName(name string) (*model.InventoryItem, error)
	Save(item *model.InventoryItem) error
	UpdateStock(tx *gorm.DB, id uuid.UUID, newStock int, updatedBy string) error
	Delete(id uuid.UUID) error
}

type itemRepo struct {
	db *gorm.DB
}

func NewItemRepo(db *gorm.DB) ItemRepository {
	return &itemRepo{db}
}

func (r *itemRepo) Create(item *model.InventoryItem) error {
	return r.db.Create(item).Error
}

func (r *itemRepo) FindAll() ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	err := r.db.Order("name ASC").Find(&items).Error
	return items, err
}

func (r *itemRepo) FindByID(id uuid.UUID) (*model.InventoryItem, error) {
	return r.FindByIDTx(r.db, id)
}

// FindByIDTx reads through the supplied transaction so stock math sees rows
// written earlier in the same transaction.
func (r *itemRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := tx.First(&item, "id = ?", id).Error
	return &item, err
}

func (r *itemRepo) FindBySKU(sku string) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := r.db.First(&item, "sku = ?", sku).Error
	return &item, err
}

func (r *itemRepo) FindByName(name string) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := r.db.First(&item, "name = ?", name).Error
	return &item, err
}

func (r *itemRepo) Save(item *model.InventoryItem) error {
	return r.db.Save(item).Error
}

// UpdateStock runs inside the caller's transaction so the adjustment row and
// the stock write commit together.
func (r *itemRepo) UpdateStock(tx *gorm.DB, id uuid.UUID, newStock int, updatedBy string) error {
	return tx.Model(&model.InventoryItem{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"current_stock": newStock,
			"updated_by":    updatedBy,
		}).Error
}

func (r *itemRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.InventoryItem{}, "id = ?", id).Error
}
