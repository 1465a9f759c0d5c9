package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductionStatus string

const (
	ProductionPlanned    ProductionStatus = "planned"
	ProductionInProgress ProductionStatus = "in_progress"
	ProductionCompleted  ProductionStatus = "completed"
	ProductionCancelled  ProductionStatus = "cancelled"

	// Legacy spelling still present in persisted rows from the old system.
	legacyInProgress ProductionStatus = "in-progress"
)

// ParseProductionStatus normalizes the legacy "in-progress" spelling to the
// canonical one and reports whether the value is a known status.
func ParseProductionStatus(s string) (ProductionStatus, bool) {
	status := ProductionStatus(s)
	if status == legacyInProgress {
		status = ProductionInProgress
	}
	switch status {
	case ProductionPlanned, ProductionInProgress, ProductionCompleted, ProductionCancelled:
		return status, true
	}
	return status, false
}

func (s ProductionStatus) IsTerminal() bool {
	return s == ProductionCompleted || s == ProductionCancelled
}

// productionTransitions is the allowed transition table. planned may jump
// straight to completed: the old workflow let short runs be closed without an
// explicit in-progress step and callers depend on that.
var productionTransitions = map[ProductionStatus][]ProductionStatus{
	ProductionPlanned:    {ProductionInProgress, ProductionCompleted, ProductionCancelled},
	ProductionInProgress: {ProductionCompleted, ProductionCancelled},
}

// CanTransition reports whether moving from s to next is legal. Writing the
// current status again is treated as a no-op and allowed.
func (s ProductionStatus) CanTransition(next ProductionStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range productionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type ProductionOrder struct {
	BaseModel
	BOMID             uuid.UUID        `gorm:"type:uuid;not null;index" json:"bom_id" validate:"uuid_required"`
	BOM               *BOM             `gorm:"foreignKey:BOMID" json:"bom,omitempty" validate:"-"`
	OrderNumber       string           `gorm:"type:varchar(30)" json:"order_number"`
	BatchID           string           `gorm:"type:varchar(30)" json:"batch_id"`
	QuantityToProduce int              `gorm:"not null" json:"quantity_to_produce" validate:"required,gt=0"`
	Status            ProductionStatus `gorm:"type:varchar(20);not null;default:planned" json:"status"`
	StartDate         time.Time        `gorm:"not null" json:"start_date"`
	LaborCost         decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0" json:"labor_cost"`
	AdditionalCosts   decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0" json:"additional_costs"`
	TotalCost         decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0" json:"total_cost"`
	CompletionDate    *time.Time       `json:"completion_date,omitempty"`
}

// AfterFind migrates the legacy status spelling on the read path so the rest
// of the code only ever sees canonical values.
func (o *ProductionOrder) AfterFind(tx *gorm.DB) error {
	if o.Status == legacyInProgress {
		o.Status = ProductionInProgress
	}
	return nil
}
