package repo

import (
	"math"
	"time"

	"core/internal/model"

	"gorm.io/gorm"
)

// Metrics aggregates order throughput and audit counters for the monitoring
// endpoint.
type Metrics struct {
	TotalOrders         int64    `json:"total_orders"`
	CompletedOrders     int64    `json:"completed_orders"`
	FailedOrders        int64    `json:"failed_orders"`
	PendingOrders       int64    `json:"pending_orders"`
	SuccessRate         float64  `json:"success_rate"`
	AvgProcessingTimeMs *float64 `json:"avg_processing_time_ms"`
	OrdersLastHour      int64    `json:"orders_last_hour"`
	LowStockAlerts      int64    `json:"low_stock_alerts"`
	TotalSyncLogs       int64    `json:"total_sync_logs"`
}

func ComputeMetrics(db *gorm.DB) (*Metrics, error) {
	var m Metrics

	orders := func() *gorm.DB { return db.Model(&model.Order{}) }
	if err := orders().Count(&m.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := orders().Where("status = ?", model.OrderCompleted).Count(&m.CompletedOrders).Error; err != nil {
		return nil, err
	}
	if err := orders().Where("status = ?", model.OrderFailed).Count(&m.FailedOrders).Error; err != nil {
		return nil, err
	}
	if err := orders().Where("status IN ?", []model.OrderStatus{model.OrderPending, model.OrderProcessing}).
		Count(&m.PendingOrders).Error; err != nil {
		return nil, err
	}

	if m.TotalOrders > 0 {
		m.SuccessRate = math.Round(float64(m.CompletedOrders)/float64(m.TotalOrders)*100*100) / 100
	}

	oneHourAgo := time.Now().Add(-time.Hour)
	if err := orders().Where("created_at >= ?", oneHourAgo).Count(&m.OrdersLastHour).Error; err != nil {
		return nil, err
	}

	// Average duration over successful attempts only.
	var avg *float64
	if err := db.Model(&model.SyncLog{}).
		Where("status = ? AND duration_ms IS NOT NULL", model.SyncSuccess).
		Select("AVG(duration_ms)").Scan(&avg).Error; err != nil {
		return nil, err
	}
	if avg != nil {
		rounded := math.Round(*avg*100) / 100
		m.AvgProcessingTimeMs = &rounded
	}

	low, err := ListLowStock(db)
	if err != nil {
		return nil, err
	}
	m.LowStockAlerts = int64(len(low))

	if err := db.Model(&model.SyncLog{}).Count(&m.TotalSyncLogs).Error; err != nil {
		return nil, err
	}

	return &m, nil
}
