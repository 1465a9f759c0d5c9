package repository

import (
	"go-erp-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BOMRepository interface {
	Create(bom *model.BOM) error
	FindAll() ([]model.BOM, error)
	FindByID(id uuid.UUID) (*model.BOM, error)
	Update(bom *model.BOM, materials []model.BOMMaterial) error
	Delete(id uuid.UUID) error
}

type bomRepo struct {
	db *gorm.DB
}

func NewBOMRepo(db *gorm.DB) BOMRepository {
	return &bomRepo{db}
}

func (r *bomRepo) Create(bom *model.BOM) error {
	return r.db.Create(bom).Error
}

func (r *bomRepo) FindAll() ([]model.BOM, error) {
	var boms []model.BOM
	err := r.db.Preload("Materials").Order("created_at DESC").Find(&boms).Error
	return boms, err
}

func (r *bomRepo) FindByID(id uuid.UUID) (*model.BOM, error) {
	var bom model.BOM
	err := r.db.Preload("Materials").First(&bom, "id = ?", id).Error
	return &bom, err
}

// Update replaces the materials list wholesale (delete then reinsert). The
// old system never diffed material rows and nothing depends on their identity.
func (r *bomRepo) Update(bom *model.BOM, materials []model.BOMMaterial) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(bom).Omit("Materials").Updates(map[string]interface{}{
			"product_name":     bom.ProductName,
			"description":      bom.Description,
			"finished_item_id": bom.FinishedItemID,
			"updated_by":       bom.UpdatedBy,
		}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("bom_id = ?", bom.ID).Delete(&model.BOMMaterial{}).Error; err != nil {
			return err
		}
		for i := range materials {
			materials[i].BOMID = bom.ID
		}
		if len(materials) > 0 {
			if err := tx.Create(&materials).Error; err != nil {
				return err
			}
		}
		bom.Materials = materials
		return nil
	})
}

func (r *bomRepo) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("bom_id = ?", id).Delete(&model.BOMMaterial{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.BOM{}, "id = ?", id).Error
	})
}
