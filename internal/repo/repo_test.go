package repo

import (
	"fmt"
	"testing"

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

func TestListOrdersFilterAndPagination(t *testing.T) {
	db := newTestDB(t)

	for i := 0; i < 5; i++ {
		status := model.OrderCompleted
		if i%2 == 1 {
			status = model.OrderFailed
		}
		require.NoError(t, db.Create(&model.Order{
			ExternalOrderID: fmt.Sprintf("ext-%d", i),
			Status:          status,
		}).Error)
	}

	completed := model.OrderCompleted
	orders, total, err := ListOrders(db, &completed, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, orders, 2)
	for _, o := range orders {
		assert.Equal(t, model.OrderCompleted, o.Status)
	}

	orders, total, err = ListOrders(db, nil, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, orders, 2)
}

func TestFindOrderByExternalID(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.Create(&model.Order{ExternalOrderID: "ext-42"}).Error)

	order, err := FindOrderByExternalID(db, "ext-42")
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, "ext-42", order.ExternalOrderID)

	order, err = FindOrderByExternalID(db, "ext-missing")
	require.NoError(t, err)
	assert.Nil(t, order)
}

func TestResetForRetry(t *testing.T) {
	db := newTestDB(t)

	msg := "insufficient stock"
	order := model.Order{ExternalOrderID: "ext-r1", Status: model.OrderFailed, ErrorMessage: &msg, RetryCount: 2}
	require.NoError(t, db.Create(&order).Error)

	require.NoError(t, ResetForRetry(db, &order))

	var got model.Order
	require.NoError(t, db.First(&got, order.ID).Error)
	assert.Equal(t, model.OrderPending, got.Status)
	assert.Nil(t, got.ErrorMessage)
	assert.Equal(t, 3, got.RetryCount)
}

func TestResetForRetryRejectsTerminalOrders(t *testing.T) {
	db := newTestDB(t)

	order := model.Order{ExternalOrderID: "ext-r2", Status: model.OrderCompleted}
	require.NoError(t, db.Create(&order).Error)

	err := ResetForRetry(db, &order)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "illegal order transition")
}

func TestComputeMetrics(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.Create(&model.Order{ExternalOrderID: "m-1", Status: model.OrderCompleted}).Error)
	require.NoError(t, db.Create(&model.Order{ExternalOrderID: "m-2", Status: model.OrderCompleted}).Error)
	require.NoError(t, db.Create(&model.Order{ExternalOrderID: "m-3", Status: model.OrderFailed}).Error)
	require.NoError(t, db.Create(&model.Order{ExternalOrderID: "m-4", Status: model.OrderPending}).Error)

	d1, d2 := int64(100), int64(200)
	require.NoError(t, db.Create(&model.SyncLog{TaskName: "process_order", Status: model.SyncSuccess, DurationMs: &d1}).Error)
	require.NoError(t, db.Create(&model.SyncLog{TaskName: "process_order", Status: model.SyncSuccess, DurationMs: &d2}).Error)
	require.NoError(t, db.Create(&model.SyncLog{TaskName: "process_order", Status: model.SyncFailure}).Error)

	require.NoError(t, db.Create(&model.Product{
		SKU: "LOW-1", Name: "Low", IsActive: true,
		Inventory: &model.Inventory{Quantity: 1, ReorderLevel: 10},
	}).Error)

	m, err := ComputeMetrics(db)
	require.NoError(t, err)
	assert.Equal(t, int64(4), m.TotalOrders)
	assert.Equal(t, int64(2), m.CompletedOrders)
	assert.Equal(t, int64(1), m.FailedOrders)
	assert.Equal(t, int64(1), m.PendingOrders)
	assert.Equal(t, 50.0, m.SuccessRate)
	assert.Equal(t, int64(4), m.OrdersLastHour)
	require.NotNil(t, m.AvgProcessingTimeMs)
	assert.Equal(t, 150.0, *m.AvgProcessingTimeMs)
	assert.Equal(t, int64(1), m.LowStockAlerts)
	assert.Equal(t, int64(3), m.TotalSyncLogs)
}
