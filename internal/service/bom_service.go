package service

import (
	"errors"

	"go-erp-ws/internal/model"
	"go-erp-ws/internal/repository"
	"go-erp-ws/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaterialInput is one BOM line as supplied by the caller; the display name
// is denormalized from the inventory ledger, never trusted from input.
type MaterialInput struct {
	ItemID        uuid.UUID           `json:"item_id" validate:"uuid_required"`
	Quantity      int                 `json:"quantity" validate:"required,gt=0"`
	UnitOfMeasure model.UnitOfMeasure `json:"unit_of_measure"`
}

// BOMDeleteResult reports whether the deleted BOM was still referenced.
// Deletion proceeds either way; the count is surfaced as a warning.
type BOMDeleteResult struct {
	ReferencingOrders int64 `json:"referencing_orders"`
}

type BOMService interface {
	CreateBOM(productName, description string, materials []MaterialInput, finishedItemID *uuid.UUID, actor string) (*model.BOM, error)
	UpdateBOM(id uuid.UUID, productName, description string, materials []MaterialInput, finishedItemID *uuid.UUID, actor string) (*model.BOM, error)
	DeleteBOM(id uuid.UUID) (*BOMDeleteResult, error)
	GetAllBOMs() ([]model.BOM, error)
	GetBOMByID(id uuid.UUID) (*model.BOM, error)
}

type bomService struct {
	bomRepo        repository.BOMRepository
	itemRepo       repository.ItemRepository
	productionRepo repository.ProductionRepository
}

func NewBOMService(bomRepo repository.BOMRepository, itemRepo repository.ItemRepository, productionRepo repository.ProductionRepository) BOMService {
	return &bomService{
		bomRepo:        bomRepo,
		itemRepo:       itemRepo,
		productionRepo: productionRepo,
	}
}

// resolveMaterials denormalizes display names from the inventory ledger.
// An unresolved item is not an error, the name falls back to a placeholder.
func (s *bomService) resolveMaterials(materials []MaterialInput) []model.BOMMaterial {
	resolved := make([]model.BOMMaterial, 0, len(materials))
	for _, m := range materials {
		name := model.UnknownItemName
		unit := m.UnitOfMeasure
		if item, err := s.itemRepo.FindByID(m.ItemID); err == nil {
			name = item.Name
			if unit == "" {
				unit = item.UnitOfMeasure
			}
		}
		resolved = append(resolved, model.BOMMaterial{
			ItemID:        m.ItemID,
			Name:          name,
			Quantity:      m.Quantity,
			UnitOfMeasure: unit,
		})
	}
	return resolved
}

func validateMaterials(productName string, materials []MaterialInput) error {
	if productName == "" {
		return apperr.Validationf("product name is required")
	}
	if len(materials) == 0 {
		return apperr.Validationf("a bill of materials needs at least one material")
	}
	for _, m := range materials {
		if m.ItemID == uuid.Nil {
			return apperr.Validationf("material item reference is required")
		}
		if m.Quantity <= 0 {
			return apperr.Validationf("material quantity must be greater than zero")
		}
	}
	return nil
}

func (s *bomService) CreateBOM(productName, description string, materials []MaterialInput, finishedItemID *uuid.UUID, actor string) (*model.BOM, error) {
	if err := validateMaterials(productName, materials); err != nil {
		return nil, err
	}

	bom := &model.BOM{
		ProductName:    productName,
		Description:    description,
		FinishedItemID: finishedItemID,
		Materials:      s.resolveMaterials(materials),
	}
	bom.CreatedBy = actor
	bom.UpdatedBy = actor

	if err := s.bomRepo.Create(bom); err != nil {
		return nil, apperr.Persistence("create BOM", err)
	}
	return bom, nil
}

func (s *bomService) UpdateBOM(id uuid.UUID, productName, description string, materials []MaterialInput, finishedItemID *uuid.UUID, actor string) (*model.BOM, error) {
	if err := validateMaterials(productName, materials); err != nil {
		return nil, err
	}

	bom, err := s.bomRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("BOM %s", id)
		}
		return nil, apperr.Persistence("load BOM", err)
	}

	bom.ProductName = productName
	bom.Description = description
	bom.FinishedItemID = finishedItemID
	bom.UpdatedBy = actor

	if err := s.bomRepo.Update(bom, s.resolveMaterials(materials)); err != nil {
		return nil, apperr.Persistence("update BOM", err)
	}
	return bom, nil
}

func (s *bomService) DeleteBOM(id uuid.UUID) (*BOMDeleteResult, error) {
	if _, err := s.bomRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("BOM %s", id)
		}
		return nil, apperr.Persistence("load BOM", err)
	}

	count, err := s.productionRepo.CountByBOM(id)
	if err != nil {
		return nil, apperr.Persistence("count production orders", err)
	}

	if err := s.bomRepo.Delete(id); err != nil {
		return nil, apperr.Persistence("delete BOM", err)
	}

	return &BOMDeleteResult{ReferencingOrders: count}, nil
}

func (s *bomService) GetAllBOMs() ([]model.BOM, error) {
	return s.bomRepo.FindAll()
}

func (s *bomService) GetBOMByID(id uuid.UUID) (*model.BOM, error) {
	bom, err := s.bomRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("BOM %s", id)
		}
		return nil, apperr.Persistence("load BOM", err)
	}
	return bom, nil
}
