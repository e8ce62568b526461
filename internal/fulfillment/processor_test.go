package fulfillment

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"core/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps the in-memory database alive and serializes
	// concurrent transactions the way row locks do on MySQL
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Product{}, &model.Inventory{}, &model.Order{}, &model.OrderItem{}, &model.SyncLog{},
	))
	return db
}

func newTestProcessor(db *gorm.DB) *Processor {
	return NewProcessor(db, Config{MaxRetries: 3, BaseRetryDelay: 60 * time.Second})
}

func seedProduct(t *testing.T, db *gorm.DB, sku string, qty, reserved, reorder int) model.Product {
	t.Helper()
	p := model.Product{
		SKU:      sku,
		Name:     "Test " + sku,
		Price:    9.99,
		IsActive: true,
		Inventory: &model.Inventory{
			Quantity:     qty,
			Reserved:     reserved,
			ReorderLevel: reorder,
		},
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func seedOrder(t *testing.T, db *gorm.DB, externalID string, items ...model.OrderItem) model.Order {
	t.Helper()
	o := model.Order{
		ExternalOrderID: externalID,
		Status:          model.OrderPending,
		Items:           items,
	}
	require.NoError(t, db.Create(&o).Error)
	return o
}

func inventoryQty(t *testing.T, db *gorm.DB, productID uint) int {
	t.Helper()
	var inv model.Inventory
	require.NoError(t, db.Where("product_id = ?", productID).First(&inv).Error)
	return inv.Quantity
}

func syncLogsByStatus(t *testing.T, db *gorm.DB, status model.SyncStatus) []model.SyncLog {
	t.Helper()
	var logs []model.SyncLog
	require.NoError(t, db.Where("status = ?", status).Find(&logs).Error)
	return logs
}

func TestProcessCompletesOrder(t *testing.T) {
	db := newTestDB(t)
	p := newTestProcessor(db)

	product := seedProduct(t, db, "W1", 5, 0, 15)
	order := seedOrder(t, db, "ext-1001", model.OrderItem{SKU: "W1", Quantity: 3, UnitPrice: 9.99})

	out := p.Process(context.Background(), order.ID, 0)
	assert.Equal(t, OutcomeCompleted, out.Status)

	assert.Equal(t, 2, inventoryQty(t, db, product.ID))

	var got model.Order
	require.NoError(t, db.First(&got, order.ID).Error)
	assert.Equal(t, model.OrderCompleted, got.Status)
	assert.NotNil(t, got.ProcessedAt)
	assert.Nil(t, got.ErrorMessage)

	logs := syncLogsByStatus(t, db, model.SyncSuccess)
	require.Len(t, logs, 1)
	assert.Equal(t, "process_order", logs[0].TaskName)
	require.NotNil(t, logs[0].OrderID)
	assert.Equal(t, order.ID, *logs[0].OrderID)
	assert.NotNil(t, logs[0].DurationMs)
	assert.Contains(t, logs[0].Details, "ext-1001")
}

func TestProcessInsufficientStock(t *testing.T) {
	db := newTestDB(t)
	p := newTestProcessor(db)

	product := seedProduct(t, db, "X1", 2, 0, 10)
	order := seedOrder(t, db, "ext-1002", model.OrderItem{SKU: "X1", Quantity: 5})

	out := p.Process(context.Background(), order.ID, 0)
	assert.Equal(t, OutcomeFailed, out.Status)
	assert.Contains(t, out.Error, `insufficient stock for "X1": requested=5, available=2`)

	assert.Equal(t, 2, inventoryQty(t, db, product.ID), "inventory must be untouched")

	var got model.Order
	require.NoError(t, db.First(&got, order.ID).Error)
	assert.Equal(t, model.OrderFailed, got.Status)
	require.NotNil(t, got.ErrorMessage)
	assert.Contains(t, *got.ErrorMessage, "insufficient stock")

	assert.Len(t, syncLogsByStatus(t, db, model.SyncFailure), 1)
	assert.Empty(t, syncLogsByStatus(t, db, model.SyncRetry), "business failures are never retried")
}

func TestProcessReservedStockCounts(t *testing.T) {
	db := newTestDB(t)
	p := newTestProcessor(db)

	// quantity 5 but 4 reserved: only 1 available
	product := seedProduct(t, db, "R1", 5, 4, 10)
	order := seedOrder(t, db, "ext-1003", model.OrderItem{SKU: "R1", Quantity: 2})

	out := p.Process(context.Background(), order.ID, 0)
	assert.Equal(t, OutcomeFailed, out.Status)
	assert.Contains(t, out.Error, "requested=2, available=1")
	assert.Equal(t, 5, inventoryQty(t, db, product.ID))
}

func TestProcessUnknownSKU(t *testing.T) {
	db := newTestDB(t)
	p := newTestProcessor(db)

	order := seedOrder(t, db, "ext-1004", model.OrderItem{SKU: "GHOST-1", Quantity: 1})

	out := p.Process(context.Background(), order.ID, 0)
	assert.Equal(t, OutcomeFailed, out.Status)
	assert.Contains(t, out.Error, `product with SKU "GHOST-1" not found in catalog`)

	var got model.Order
	require.NoError(t, db.First(&got, order.ID).Error)
	assert.Equal(t, model.OrderFailed, got.Status)

	assert.Empty(t, syncLogsByStatus(t, db, model.SyncRetry))
}

func TestProcessOrderNotFound(t *testing.T) {
	db := newTestDB(t)
	p := newTestProcessor(db)

	out := p.Process(context.Background(), 9999, 0)
	assert.Equal(t, OutcomeFailed, out.Status)
	assert.Contains(t, out.Error, "order 9999 not found")

	assert.Len(t, syncLogsByStatus(t, db, model.SyncFailure), 1)
	assert.Empty(t, syncLogsByStatus(t, db, model.SyncRetry), "malformed jobs are never retried")
}

func TestProcessEmptyOrderCompletesTrivially(t *testing.T) {
	db := newTestDB(t)
	p := newTestProcessor(db)

	order := seedOrder(t, db, "ext-1005")

	out := p.Process(context.Background(), order.ID, 0)
	assert.Equal(t, OutcomeCompleted, out.Status)

	var got model.Order
	require.NoError(t, db.First(&got, order.ID).Error)
	assert.Equal(t, model.OrderCompleted, got.Status)
	assert.NotNil(t, got.ProcessedAt)
}

func TestProcessZeroQuantityItem(t *testing.T) {
	db := newTestDB(t)
	p := newTestProcessor(db)

	product := seedProduct(t, db, "Z1", 5, 0, 2)
	order := seedOrder(t, db, "ext-1006", model.OrderItem{SKU: "Z1", Quantity: 0})

	out := p.Process(context.Background(), order.ID, 0)
	assert.Equal(t, OutcomeCompleted, out.Status)
	assert.Equal(t, 5, inventoryQty(t, db, product.ID), "zero-quantity item is a no-op decrement")
}

func TestProcessTerminalOrderIsNoop(t *testing.T) {
	db := newTestDB(t)
	p := newTestProcessor(db)

	product := seedProduct(t, db, "T1", 5, 0, 2)

	now := time.Now()
	order := model.Order{
		ExternalOrderID: "ext-1007",
		Status:          model.OrderCompleted,
		ProcessedAt:     &now,
		Items:           []model.OrderItem{{SKU: "T1", Quantity: 3}},
	}
	require.NoError(t, db.Create(&order).Error)

	out := p.Process(context.Background(), order.ID, 0)
	assert.Equal(t, OutcomeCompleted, out.Status)
	assert.Equal(t, 5, inventoryQty(t, db, product.ID), "redelivery must not decrement again")

	var count int64
	require.NoError(t, db.Model(&model.SyncLog{}).Count(&count).Error)
	assert.Zero(t, count, "no duplicate audit entry for a terminal order")

	cancelled := model.Order{ExternalOrderID: "ext-1008", Status: model.OrderCancelled}
	require.NoError(t, db.Create(&cancelled).Error)

	out = p.Process(context.Background(), cancelled.ID, 0)
	assert.Equal(t, OutcomeFailed, out.Status)
	require.NoError(t, db.Model(&model.SyncLog{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestProcessTransientErrorSchedulesRetry(t *testing.T) {
	db := newTestDB(t)
	p := newTestProcessor(db)

	seedProduct(t, db, "I1", 5, 0, 2)
	order := seedOrder(t, db, "ext-1009", model.OrderItem{SKU: "I1", Quantity: 1})

	// break the infrastructure underneath the processor
	require.NoError(t, db.Migrator().DropTable(&model.Inventory{}))

	out := p.Process(context.Background(), order.ID, 0)
	assert.Equal(t, OutcomeRetrying, out.Status)
	assert.Equal(t, 60*time.Second, out.RetryIn)

	var got model.Order
	require.NoError(t, db.First(&got, order.ID).Error)
	assert.Equal(t, model.OrderFailed, got.Status)
	assert.Equal(t, 1, got.RetryCount)
	require.NotNil(t, got.ErrorMessage)

	assert.Len(t, syncLogsByStatus(t, db, model.SyncFailure), 1)
	retries := syncLogsByStatus(t, db, model.SyncRetry)
	require.Len(t, retries, 1)
	assert.Equal(t, "Retry attempt 1", retries[0].Details)

	// attempts exhausted: permanent failure, no further retry entry
	out = p.Process(context.Background(), order.ID, 3)
	assert.Equal(t, OutcomeFailed, out.Status)
	assert.Len(t, syncLogsByStatus(t, db, model.SyncRetry), 1)
}

func TestBackoffDelays(t *testing.T) {
	base := 60 * time.Second
	assert.Equal(t, 60*time.Second, backoffDelay(base, 0))
	assert.Equal(t, 120*time.Second, backoffDelay(base, 1))
	assert.Equal(t, 240*time.Second, backoffDelay(base, 2))
}

func TestConcurrentOrdersDoNotOversell(t *testing.T) {
	db := newTestDB(t)
	p := newTestProcessor(db)

	const stock = 5
	const orders = 8

	product := seedProduct(t, db, "RACE-1", stock, 0, 1)

	ids := make([]uint, 0, orders)
	for i := 0; i < orders; i++ {
		o := seedOrder(t, db, fmt.Sprintf("ext-race-%d", i), model.OrderItem{SKU: "RACE-1", Quantity: 1})
		ids = append(ids, o.ID)
	}

	outcomes := make(chan Outcome, orders)
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(orderID uint) {
			defer wg.Done()
			outcomes <- p.Process(context.Background(), orderID, 0)
		}(id)
	}
	wg.Wait()
	close(outcomes)

	completed, failed := 0, 0
	for out := range outcomes {
		switch out.Status {
		case OutcomeCompleted:
			completed++
		case OutcomeFailed:
			failed++
			assert.Contains(t, out.Error, "insufficient stock")
		case OutcomeRetrying:
			t.Fatalf("unexpected retry outcome: %+v", out)
		}
	}

	assert.Equal(t, stock, completed, "exactly the stock's worth of orders complete")
	assert.Equal(t, orders-stock, failed)
	assert.Equal(t, 0, inventoryQty(t, db, product.ID), "never oversold below zero")
}

func TestOverlappingOrdersBothComplete(t *testing.T) {
	db := newTestDB(t)
	p := newTestProcessor(db)

	pa := seedProduct(t, db, "A1", 10, 0, 1)
	pb := seedProduct(t, db, "B1", 10, 0, 1)

	// item sets overlap and are supplied in opposite order; sort-then-lock
	// keeps the lock order identical for both workers
	o1 := seedOrder(t, db, "ext-ovl-1",
		model.OrderItem{SKU: "A1", Quantity: 1},
		model.OrderItem{SKU: "B1", Quantity: 1})
	o2 := seedOrder(t, db, "ext-ovl-2",
		model.OrderItem{SKU: "B1", Quantity: 1},
		model.OrderItem{SKU: "A1", Quantity: 1})

	var wg sync.WaitGroup
	outcomes := make(chan Outcome, 2)
	for _, id := range []uint{o1.ID, o2.ID} {
		wg.Add(1)
		go func(orderID uint) {
			defer wg.Done()
			outcomes <- p.Process(context.Background(), orderID, 0)
		}(id)
	}
	wg.Wait()
	close(outcomes)

	for out := range outcomes {
		assert.Equal(t, OutcomeCompleted, out.Status)
	}
	assert.Equal(t, 8, inventoryQty(t, db, pa.ID))
	assert.Equal(t, 8, inventoryQty(t, db, pb.ID))
}

func TestIsBusinessError(t *testing.T) {
	assert.True(t, IsBusinessError(&OrderNotFoundError{OrderID: 1}))
	assert.True(t, IsBusinessError(&ProductNotFoundError{SKU: "X"}))
	assert.True(t, IsBusinessError(&InsufficientStockError{SKU: "X", Requested: 2, Available: 1}))
	assert.False(t, IsBusinessError(context.DeadlineExceeded))
}
