package model

import (
	"time"
)

// Inventory holds the authoritative stock counters for one product. Quantity
// is mutated only under a row lock by the fulfillment worker. Reserved is
// carried for a future reservation phase and is always zero in this version;
// Available already accounts for it.
type Inventory struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	ProductID         uint      `json:"product_id" gorm:"uniqueIndex;not null"`
	Quantity          int       `json:"quantity" gorm:"not null;default:0"`
	Reserved          int       `json:"reserved" gorm:"not null;default:0"`
	ReorderLevel      int       `json:"reorder_level" gorm:"not null;default:10"`
	WarehouseLocation string    `json:"warehouse_location,omitempty" gorm:"size:50"`
	UpdatedAt         time.Time `json:"updated_at"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// Available is the sellable stock: quantity minus reserved.
func (i *Inventory) Available() int {
	return i.Quantity - i.Reserved
}

// IsLowStock reports whether available stock is at or below the reorder level.
func (i *Inventory) IsLowStock() bool {
	return i.Available() <= i.ReorderLevel
}
