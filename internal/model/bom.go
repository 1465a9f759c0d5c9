package model

import "github.com/google/uuid"

// UnknownItemName is the display placeholder when a BOM material references
// an inventory item that no longer resolves.
const UnknownItemName = "Unknown Item"

// BOM is a recipe: one unit of the finished product consumes each material's
// Quantity of the referenced inventory item. FinishedItemID may be nil, in
// which case completing a production order records costs but credits no stock.
type BOM struct {
	BaseModel
	ProductName    string        `gorm:"type:varchar(255);not null" json:"product_name" validate:"required"`
	Description    string        `json:"description"`
	FinishedItemID *uuid.UUID    `gorm:"type:uuid" json:"finished_item_id,omitempty"`
	Materials      []BOMMaterial `gorm:"foreignKey:BOMID" json:"materials"`
}

type BOMMaterial struct {
	BaseModel
	BOMID         uuid.UUID     `gorm:"type:uuid;not null;index" json:"bom_id"`
	ItemID        uuid.UUID     `gorm:"type:uuid;not null" json:"item_id"`
	Name          string        `gorm:"type:varchar(255)" json:"name"` // denormalized from the inventory item
	Quantity      int           `gorm:"not null" json:"quantity"`
	UnitOfMeasure UnitOfMeasure `gorm:"type:varchar(20)" json:"unit_of_measure"`
}
