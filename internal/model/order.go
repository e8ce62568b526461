package model

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// OrderStatus is the closed set of states an order can be in. Transitions go
// through CanTransitionTo so an illegal move is an error, not a silent write.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderCompleted  OrderStatus = "completed"
	OrderFailed     OrderStatus = "failed"
	OrderCancelled  OrderStatus = "cancelled"
)

// ParseOrderStatus maps a raw string (query param, payload) to a status.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderPending, OrderProcessing, OrderCompleted, OrderFailed, OrderCancelled:
		return OrderStatus(s), nil
	}
	return "", fmt.Errorf("invalid order status: %q", s)
}

// IsTerminal reports whether no further transition is allowed out of s.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderCompleted, OrderCancelled:
		return true
	case OrderPending, OrderProcessing, OrderFailed:
		return false
	}
	return false
}

// CanTransitionTo reports whether next is a legal successor of s.
//
//	pending    -> processing (job start), pending (manual retry re-queue)
//	processing -> processing (redelivered claim), completed, failed
//	failed     -> pending (manual retry), processing (automatic retry attempt)
//	completed, cancelled -> nothing
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderPending:
		return next == OrderProcessing || next == OrderPending
	case OrderProcessing:
		return next == OrderProcessing || next == OrderCompleted || next == OrderFailed
	case OrderFailed:
		return next == OrderPending || next == OrderProcessing
	case OrderCompleted, OrderCancelled:
		return false
	}
	return false
}

// Order is one externally received order. Created pending by the ingestion
// webhook; owned by the fulfillment worker from then on. Never deleted.
type Order struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	ExternalOrderID string         `json:"external_order_id" gorm:"size:100;uniqueIndex;not null"`
	Status          OrderStatus    `json:"status" gorm:"size:20;not null;default:'pending';index:ix_orders_status_created"`
	CustomerName    string         `json:"customer_name,omitempty" gorm:"size:255"`
	CustomerEmail   string         `json:"customer_email,omitempty" gorm:"size:255"`
	TotalAmount     float64        `json:"total_amount" gorm:"not null;default:0"`
	Currency        string         `json:"currency" gorm:"size:10;default:'USD'"`
	Source          string         `json:"source" gorm:"size:50;default:'shopify'"`
	RawPayload      datatypes.JSON `json:"raw_payload,omitempty"`
	ProcessedAt     *time.Time     `json:"processed_at,omitempty"`
	ErrorMessage    *string        `json:"error_message,omitempty" gorm:"type:text"`
	RetryCount      int            `json:"retry_count" gorm:"default:0"`
	CreatedAt       time.Time      `json:"created_at" gorm:"index:ix_orders_status_created"`
	UpdatedAt       time.Time      `json:"updated_at"`

	Items []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TransitionTo moves the order to next, rejecting illegal transitions.
func (o *Order) TransitionTo(next OrderStatus) error {
	if !o.Status.CanTransitionTo(next) {
		return fmt.Errorf("illegal order transition %s -> %s", o.Status, next)
	}
	o.Status = next
	return nil
}
