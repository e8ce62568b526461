package scanner

import (
	"context"
	"fmt"
	"time"

	"core/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const taskSyncInventory = "sync_inventory"

// Result summarizes one inventory sweep.
type Result struct {
	Checked    int   `json:"checked"`
	LowStock   int   `json:"low_stock"`
	OutOfStock int   `json:"out_of_stock"`
	DurationMs int64 `json:"duration_ms"`
}

// Scanner periodically sweeps the inventory table and writes advisory audit
// entries for low and out-of-stock products. It reads without locks and never
// mutates stock; momentarily stale counts are acceptable.
type Scanner struct {
	db        *gorm.DB
	interval  time.Duration
	isRunning bool
	stopCh    chan struct{}
}

func New(db *gorm.DB, interval time.Duration) *Scanner {
	return &Scanner{
		db:       db,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

func (s *Scanner) Start() {
	if s.isRunning {
		logrus.Warn("inventory scanner is already running")
		return
	}

	s.isRunning = true
	logrus.WithField("interval", s.interval).Info("starting inventory scanner")
	go s.loop()
}

func (s *Scanner) Stop() {
	if !s.isRunning {
		return
	}
	s.isRunning = false
	close(s.stopCh)
}

func (s *Scanner) loop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if _, err := s.Scan(context.Background()); err != nil {
				logrus.WithError(err).Error("inventory scan failed")
			}
		case <-s.stopCh:
			logrus.Info("stopping inventory scanner")
			return
		}
	}
}

// Scan reads every inventory row, classifies stock levels, and writes one
// audit entry per affected product plus a summary entry for the run. The
// summary is written even when nothing is wrong, and a Failure summary is
// still attempted when the sweep itself errors.
func (s *Scanner) Scan(ctx context.Context) (Result, error) {
	start := time.Now()

	var items []model.Inventory
	if err := s.db.WithContext(ctx).Preload("Product").Find(&items).Error; err != nil {
		durationMs := time.Since(start).Milliseconds()
		entry := model.SyncLog{
			TaskName:     taskSyncInventory,
			Status:       model.SyncFailure,
			ErrorMessage: err.Error(),
			DurationMs:   &durationMs,
		}
		if logErr := s.db.WithContext(ctx).Create(&entry).Error; logErr != nil {
			logrus.WithError(logErr).Error("could not write sync log")
		}
		return Result{DurationMs: durationMs}, err
	}

	res := Result{Checked: len(items)}
	var logs []model.SyncLog
	durationMs := int64(0)

	for i := range items {
		inv := &items[i]
		name := fmt.Sprintf("product_id=%d", inv.ProductID)
		sku := "?"
		if inv.Product != nil {
			name = inv.Product.Name
			sku = inv.Product.SKU
		}
		available := inv.Available()

		switch {
		case available <= 0:
			res.OutOfStock++
			logrus.WithField("sku", sku).Warnf("OUT OF STOCK: %s (%s)", sku, name)
			logs = append(logs, model.SyncLog{
				TaskName:     taskSyncInventory,
				Status:       model.SyncFailure,
				Details:      fmt.Sprintf("OUT OF STOCK: %s (%s)", sku, name),
				ErrorMessage: fmt.Sprintf("available: %d", available),
			})
		case available <= inv.ReorderLevel:
			res.LowStock++
			logrus.WithField("sku", sku).Warnf("LOW STOCK: %s (%s): %d left, reorder at %d", sku, name, available, inv.ReorderLevel)
			logs = append(logs, model.SyncLog{
				TaskName: taskSyncInventory,
				Status:   model.SyncSuccess,
				Details:  fmt.Sprintf("LOW STOCK: %s (%s), available=%d, reorder_level=%d", sku, name, available, inv.ReorderLevel),
			})
		}
	}

	durationMs = time.Since(start).Milliseconds()
	res.DurationMs = durationMs

	summary := fmt.Sprintf("Inventory scan done: %d products checked, %d low stock, %d out of stock.",
		res.Checked, res.LowStock, res.OutOfStock)
	logs = append(logs, model.SyncLog{
		TaskName:   taskSyncInventory,
		Status:     model.SyncSuccess,
		Details:    summary,
		DurationMs: &durationMs,
	})
	for i := range logs {
		if logs[i].DurationMs == nil {
			logs[i].DurationMs = &durationMs
		}
	}

	if err := s.db.WithContext(ctx).Create(&logs).Error; err != nil {
		logrus.WithError(err).Error("could not write scan sync logs")
		return res, err
	}

	logrus.Info(summary)
	return res, nil
}
