package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SalesOrderStatus string

const (
	SalesDraft     SalesOrderStatus = "draft"
	SalesConfirmed SalesOrderStatus = "confirmed"
	SalesShipped   SalesOrderStatus = "shipped"
	SalesCompleted SalesOrderStatus = "completed"
	SalesReturned  SalesOrderStatus = "returned"
	SalesCancelled SalesOrderStatus = "cancelled"
)

var salesTransitions = map[SalesOrderStatus][]SalesOrderStatus{
	SalesDraft:     {SalesConfirmed, SalesCancelled},
	SalesConfirmed: {SalesShipped, SalesCompleted, SalesCancelled},
	SalesShipped:   {SalesCompleted, SalesReturned},
	SalesCompleted: {SalesReturned},
}

func (s SalesOrderStatus) IsValid() bool {
	switch s {
	case SalesDraft, SalesConfirmed, SalesShipped, SalesCompleted, SalesReturned, SalesCancelled:
		return true
	}
	return false
}

func (s SalesOrderStatus) CanTransition(next SalesOrderStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range salesTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Customer struct {
	BaseModel
	Name      string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Telephone string `gorm:"type:varchar(30)" json:"telephone"`
	Address   string `json:"address"`
	Email     string `gorm:"type:varchar(255)" json:"email"`
}

type SalesOrder struct {
	BaseModel
	OrderNumber   string           `gorm:"type:varchar(30);uniqueIndex" json:"order_number"`
	CustomerID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"customer_id" validate:"uuid_required"`
	Customer      *Customer        `gorm:"foreignKey:CustomerID" json:"customer,omitempty" validate:"-"`
	Status        SalesOrderStatus `gorm:"type:varchar(20);not null;default:draft" json:"status"`
	OrderDate     time.Time        `gorm:"not null" json:"order_date"`
	TotalAmount   decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0" json:"total_amount"`
	PaymentMethod string           `gorm:"type:varchar(20)" json:"payment_method"`
	Notes         string           `json:"notes"`
	Items         []SaleItem       `gorm:"foreignKey:SalesOrderID" json:"items" validate:"-"`
}

type SaleItem struct {
	BaseModel
	SalesOrderID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"sales_order_id"`
	ItemID           uuid.UUID       `gorm:"type:uuid;not null" json:"item_id"`
	Name             string          `gorm:"type:varchar(255)" json:"name"`
	Quantity         int             `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"unit_price"`
	Discount         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"discount"`
	TotalPrice       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"total_price"`
	ReturnedQuantity int             `gorm:"not null;default:0" json:"returned_quantity"`
}
