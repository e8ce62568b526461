package fulfillment

import (
	"errors"
	"fmt"
)

// The failure taxonomy the processor acts on. Order/product lookups that miss
// and stock validation are permanent: the request itself is wrong, retrying
// cannot help. Everything else is treated as transient infrastructure trouble
// and retried with backoff.

// OrderNotFoundError means the job references an order that does not exist.
// The job itself is malformed, so it is never retried.
type OrderNotFoundError struct {
	OrderID uint
}

func (e *OrderNotFoundError) Error() string {
	return fmt.Sprintf("order %d not found", e.OrderID)
}

// ProductNotFoundError means a line item names a SKU the catalog does not
// know, or the SKU has no inventory record.
type ProductNotFoundError struct {
	SKU string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product with SKU %q not found in catalog", e.SKU)
}

// InsufficientStockError carries the requested/available counts so the order's
// error message states exactly why fulfillment was rejected.
type InsufficientStockError struct {
	SKU       string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested=%d, available=%d", e.SKU, e.Requested, e.Available)
}

// IsBusinessError reports whether err is a validation failure caused by the
// request's content rather than by infrastructure.
func IsBusinessError(err error) bool {
	var onf *OrderNotFoundError
	var pnf *ProductNotFoundError
	var ins *InsufficientStockError
	return errors.As(err, &onf) || errors.As(err, &pnf) || errors.As(err, &ins)
}
