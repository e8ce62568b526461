package model

import (
	"time"
)

// Product is the catalog entry orders are fulfilled against. Rows are owned
// by the catalog side; the fulfillment worker only reads them.
type Product struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	SKU         string    `json:"sku" gorm:"size:50;uniqueIndex;not null"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	Price       float64   `json:"price" gorm:"not null;default:0"`
	Category    string    `json:"category,omitempty" gorm:"size:100"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Inventory *Inventory `json:"inventory,omitempty" gorm:"foreignKey:ProductID"`
}
