package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxIncome  TransactionType = "income"
	TxExpense TransactionType = "expense"
)

func (t TransactionType) IsValid() bool {
	return t == TxIncome || t == TxExpense
}

// Transaction is an append-only financial ledger entry. ReferenceNumber links
// back to the originating order or production batch when there is one.
type Transaction struct {
	BaseModel
	Type            TransactionType `gorm:"type:varchar(10);not null;index" json:"type" validate:"required,oneof=income expense"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Category        string          `gorm:"type:varchar(100);not null" json:"category" validate:"required"`
	Description     string          `json:"description"`
	Date            time.Time       `gorm:"not null;index" json:"date"`
	PaymentMethod   string          `gorm:"type:varchar(20)" json:"payment_method"`
	ReferenceNumber string          `gorm:"type:varchar(50)" json:"reference_number"`
}
