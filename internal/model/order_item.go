package model

// OrderItem is one immutable line item of an order. ProductID is resolved at
// ingestion time when the SKU is known to the catalog, zero otherwise.
type OrderItem struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	OrderID   uint    `json:"-" gorm:"not null;index"`
	ProductID uint    `json:"product_id,omitempty"`
	SKU       string  `json:"sku" gorm:"size:50;not null"`
	Name      string  `json:"name,omitempty" gorm:"size:255"`
	Quantity  int     `json:"quantity" gorm:"not null;default:1"`
	UnitPrice float64 `json:"unit_price" gorm:"not null;default:0"`
}

func (i *OrderItem) LineTotal() float64 {
	return float64(i.Quantity) * i.UnitPrice
}
