package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PurchaseOrderStatus string

const (
	PurchaseDraft     PurchaseOrderStatus = "draft"
	PurchaseSent      PurchaseOrderStatus = "sent"
	PurchaseReceived  PurchaseOrderStatus = "received"
	PurchaseCompleted PurchaseOrderStatus = "completed"
	PurchaseCancelled PurchaseOrderStatus = "cancelled"
)

var purchaseTransitions = map[PurchaseOrderStatus][]PurchaseOrderStatus{
	PurchaseDraft:    {PurchaseSent, PurchaseReceived, PurchaseCancelled},
	PurchaseSent:     {PurchaseReceived, PurchaseCancelled},
	PurchaseReceived: {PurchaseCompleted},
}

func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseDraft, PurchaseSent, PurchaseReceived, PurchaseCompleted, PurchaseCancelled:
		return true
	}
	return false
}

func (s PurchaseOrderStatus) CanTransition(next PurchaseOrderStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range purchaseTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Supplier struct {
	BaseModel
	Name         string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Telephone    string `gorm:"type:varchar(30)" json:"telephone"`
	Address      string `json:"address"`
	PaymentTerms string `gorm:"type:varchar(100)" json:"payment_terms"`
	IsActive     bool   `gorm:"not null;default:true" json:"is_active"`
}

type PurchaseOrder struct {
	BaseModel
	OrderNumber          string              `gorm:"type:varchar(30);uniqueIndex" json:"order_number"`
	SupplierID           uuid.UUID           `gorm:"type:uuid;not null;index" json:"supplier_id" validate:"uuid_required"`
	Supplier             *Supplier           `gorm:"foreignKey:SupplierID" json:"supplier,omitempty" validate:"-"`
	Status               PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:draft" json:"status"`
	TotalAmount          decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0" json:"total_amount"`
	ExpectedDeliveryDate *time.Time          `json:"expected_delivery_date,omitempty"`
	Notes                string              `json:"notes"`
	Items                []PurchaseItem      `gorm:"foreignKey:PurchaseOrderID" json:"items" validate:"-"`
}

// PurchaseItem lines may carry an optional inventory link; unlinked lines
// (free-text goods) are never credited to stock on receipt.
type PurchaseItem struct {
	BaseModel
	PurchaseOrderID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"purchase_order_id"`
	ItemID           *uuid.UUID      `gorm:"type:uuid" json:"item_id,omitempty"`
	Name             string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Quantity         int             `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	UnitCost         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"unit_cost"`
	TotalCost        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"total_cost"`
	ReceivedQuantity int             `gorm:"not null;default:0" json:"received_quantity"`
}
