package repo

import (
	"core/internal/model"

	"gorm.io/gorm"
)

// ListOrders returns one page of orders, newest first, optionally filtered by
// status, together with the total match count.
func ListOrders(db *gorm.DB, status *model.OrderStatus, page, limit int) ([]model.Order, int64, error) {
	q := db.Model(&model.Order{})
	if status != nil {
		q = q.Where("status = ?", *status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []model.Order
	err := q.Preload("Items").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error
	return orders, total, err
}

func GetOrder(db *gorm.DB, id uint) (*model.Order, error) {
	var order model.Order
	if err := db.Preload("Items").First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindOrderByExternalID is the ingestion idempotency lookup.
func FindOrderByExternalID(db *gorm.DB, externalID string) (*model.Order, error) {
	var order model.Order
	err := db.Where("external_order_id = ?", externalID).First(&order).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateOrderWithItems persists the order and its line items in one
// transaction.
func CreateOrderWithItems(db *gorm.DB, order *model.Order) error {
	return db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
}

// ResetForRetry puts a failed or pending order back to pending for manual
// retry: clears the error, bumps the retry count.
func ResetForRetry(db *gorm.DB, order *model.Order) error {
	if err := order.TransitionTo(model.OrderPending); err != nil {
		return err
	}
	if err := db.Model(&model.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
		"status":        model.OrderPending,
		"error_message": nil,
		"retry_count":   gorm.Expr("retry_count + ?", 1),
	}).Error; err != nil {
		return err
	}
	order.RetryCount++
	order.ErrorMessage = nil
	return nil
}
