package scanner

import (
	"context"
	"testing"
	"time"

	"core/internal/fulfillment"
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
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Product{}, &model.Inventory{}, &model.Order{}, &model.OrderItem{}, &model.SyncLog{},
	))
	return db
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

func TestScanClassifiesStockLevels(t *testing.T) {
	db := newTestDB(t)

	seedProduct(t, db, "OOS-1", 0, 0, 10)
	seedProduct(t, db, "LOW-1", 2, 0, 15)
	seedProduct(t, db, "OK-1", 100, 0, 10)

	res, err := New(db, time.Minute).Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, res.Checked)
	assert.Equal(t, 1, res.LowStock)
	assert.Equal(t, 1, res.OutOfStock)

	var logs []model.SyncLog
	require.NoError(t, db.Order("id").Find(&logs).Error)
	require.Len(t, logs, 3, "one per affected product plus the summary")

	var failures, successes []model.SyncLog
	for _, l := range logs {
		assert.Equal(t, "sync_inventory", l.TaskName)
		switch l.Status {
		case model.SyncFailure:
			failures = append(failures, l)
		case model.SyncSuccess:
			successes = append(successes, l)
		}
	}

	require.Len(t, failures, 1)
	assert.Contains(t, failures[0].Details, "OUT OF STOCK: OOS-1")
	assert.Contains(t, failures[0].ErrorMessage, "available: 0")

	require.Len(t, successes, 2)
	assert.Contains(t, successes[0].Details, "LOW STOCK: LOW-1")
	assert.Contains(t, successes[0].Details, "available=2, reorder_level=15")
	assert.Contains(t, successes[1].Details, "3 products checked, 1 low stock, 1 out of stock")
}

func TestScanReservedCountsAgainstAvailability(t *testing.T) {
	db := newTestDB(t)

	// quantity 10 but everything reserved: effectively out of stock
	seedProduct(t, db, "RES-1", 10, 10, 5)

	res, err := New(db, time.Minute).Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.OutOfStock)
	assert.Equal(t, 0, res.LowStock)
}

func TestScanEmptyInventoryWritesSummary(t *testing.T) {
	db := newTestDB(t)

	res, err := New(db, time.Minute).Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Checked)

	var logs []model.SyncLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1, "summary entry is written even with nothing to report")
	assert.Equal(t, model.SyncSuccess, logs[0].Status)
	assert.Contains(t, logs[0].Details, "0 products checked")
	assert.NotNil(t, logs[0].DurationMs)
}

// Fulfilling an order can push a product under its reorder level; the next
// sweep must flag it.
func TestScanFlagsLowStockAfterFulfillment(t *testing.T) {
	db := newTestDB(t)

	seedProduct(t, db, "W1", 5, 0, 15)
	order := model.Order{
		ExternalOrderID: "ext-scan-1",
		Status:          model.OrderPending,
		Items:           []model.OrderItem{{SKU: "W1", Quantity: 3}},
	}
	require.NoError(t, db.Create(&order).Error)

	p := fulfillment.NewProcessor(db, fulfillment.Config{MaxRetries: 3, BaseRetryDelay: time.Minute})
	out := p.Process(context.Background(), order.ID, 0)
	require.Equal(t, fulfillment.OutcomeCompleted, out.Status)

	res, err := New(db, time.Minute).Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.LowStock)

	var logs []model.SyncLog
	require.NoError(t, db.Where("task_name = ? AND details LIKE ?", "sync_inventory", "%LOW STOCK%").Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Details, "W1")
	assert.Contains(t, logs[0].Details, "available=2")
}
