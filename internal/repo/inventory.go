package repo

import (
	"core/internal/model"

	"gorm.io/gorm"
)

func ListInventory(db *gorm.DB) ([]model.Inventory, error) {
	var items []model.Inventory
	err := db.Preload("Product").Order("product_id").Find(&items).Error
	return items, err
}

// ListLowStock returns inventory rows at or below their reorder level,
// out-of-stock included.
func ListLowStock(db *gorm.DB) ([]model.Inventory, error) {
	items, err := ListInventory(db)
	if err != nil {
		return nil, err
	}

	low := make([]model.Inventory, 0)
	for _, inv := range items {
		if inv.IsLowStock() {
			low = append(low, inv)
		}
	}
	return low, nil
}
