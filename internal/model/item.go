package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UnitOfMeasure string

const (
	UnitPieces UnitOfMeasure = "pieces"
	UnitKg     UnitOfMeasure = "kg"
	UnitLiters UnitOfMeasure = "liters"
	UnitMeters UnitOfMeasure = "meters"
	UnitUnits  UnitOfMeasure = "units"
)

func (u UnitOfMeasure) IsValid() bool {
	switch u {
	case UnitPieces, UnitKg, UnitLiters, UnitMeters, UnitUnits:
		return true
	}
	return false
}

type AdjustmentReason string

const (
	ReasonDamage        AdjustmentReason = "damage"
	ReasonCountingError AdjustmentReason = "counting_error"
	ReasonReturn        AdjustmentReason = "return"
	ReasonTheft         AdjustmentReason = "theft"
	ReasonProduction    AdjustmentReason = "production"
	ReasonPurchase      AdjustmentReason = "purchase"
	ReasonSale          AdjustmentReason = "sale"
	ReasonOther         AdjustmentReason = "other"
)

func (r AdjustmentReason) IsValid() bool {
	switch r {
	case ReasonDamage, ReasonCountingError, ReasonReturn, ReasonTheft,
		ReasonProduction, ReasonPurchase, ReasonSale, ReasonOther:
		return true
	}
	return false
}

type InventoryItem struct {
	BaseModel
	Name          string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Description   string          `json:"description"`
	Category      string          `gorm:"type:varchar(100)" json:"category"`
	UnitOfMeasure UnitOfMeasure   `gorm:"type:varchar(20);not null;default:pieces" json:"unit_of_measure"`
	PurchaseCost  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"purchase_cost"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"selling_price"`
	CurrentStock  int             `gorm:"not null;default:0" json:"current_stock"`
	ReorderLevel  int             `gorm:"not null;default:0" json:"reorder_level"`
	SKU           string          `gorm:"type:varchar(50);uniqueIndex" json:"sku"`
	IsActive      bool            `gorm:"not null;default:true" json:"is_active"`
}

// InventoryAdjustment is an append-only ledger entry. CurrentStock is only
// ever mutated alongside one of these rows; rows are never updated or deleted.
type InventoryAdjustment struct {
	BaseModel
	ItemID           uuid.UUID        `gorm:"type:uuid;not null;index" json:"item_id"`
	Item             *InventoryItem   `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	PreviousQuantity int              `gorm:"not null" json:"previous_quantity"`
	NewQuantity      int              `gorm:"not null" json:"new_quantity"`
	Reason           AdjustmentReason `gorm:"type:varchar(20);not null" json:"reason"`
	Notes            string           `json:"notes"`
	AdjustedBy       string           `gorm:"type:varchar(255)" json:"adjusted_by"`
	AdjustmentDate   time.Time        `gorm:"not null;index" json:"adjustment_date"`
}
