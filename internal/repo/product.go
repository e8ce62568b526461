package repo

import (
	"core/internal/model"

	"gorm.io/gorm"
)

func ListProducts(db *gorm.DB, category string, activeOnly bool) ([]model.Product, error) {
	q := db.Model(&model.Product{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var products []model.Product
	err := q.Order("name").Find(&products).Error
	return products, err
}

func GetProduct(db *gorm.DB, id uint) (*model.Product, error) {
	var product model.Product
	if err := db.First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}
