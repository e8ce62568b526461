package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sort"
	"time"

	"core/internal/model"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const taskProcessOrder = "process_order"

// Config carries the processor's retry policy.
type Config struct {
	MaxRetries     int
	BaseRetryDelay time.Duration
}

// Processor fulfills one order per attempt: it validates and decrements
// inventory per line item inside a single transaction, drives the order state
// machine, and writes one audit record per attempt.
type Processor struct {
	db  *gorm.DB
	cfg Config
}

func NewProcessor(db *gorm.DB, cfg Config) *Processor {
	return &Processor{db: db, cfg: cfg}
}

// lockForUpdate takes an exclusive row lock where the dialect supports it.
// SQLite has no FOR UPDATE clause; its writers serialize on their own.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// backoffDelay is base * 2^attempt: 60s, 120s, 240s with the defaults.
func backoffDelay(base time.Duration, attempt int) time.Duration {
	return base * (1 << attempt)
}

// Process runs one fulfillment attempt for orderID. attempt counts prior
// automatic redeliveries of the same job, starting at zero.
//
// The terminal-state check up front is what makes redelivery of an already
// finished job a no-op: a committed success whose delivery was lost is
// resolved here without touching inventory again.
func (p *Processor) Process(ctx context.Context, orderID uint, attempt int) Outcome {
	start := time.Now()
	taskID := uuid.NewString()

	var order model.Order
	err := p.db.WithContext(ctx).Preload("Items").First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = &OrderNotFoundError{OrderID: orderID}
	}
	if err != nil {
		logrus.WithError(err).WithField("order_id", orderID).Error("could not load order")
		return p.fail(ctx, orderID, attempt, err, taskID, start)
	}

	if order.Status.IsTerminal() {
		logrus.WithFields(logrus.Fields{
			"order_id": orderID,
			"status":   order.Status,
		}).Info("order already in terminal state, skipping")
		out := Outcome{Status: OutcomeCompleted, OrderID: orderID, DurationMs: time.Since(start).Milliseconds()}
		if order.Status == model.OrderCancelled {
			out.Status = OutcomeFailed
			out.Error = fmt.Sprintf("order %d is cancelled", orderID)
		}
		return out
	}

	logrus.WithFields(logrus.Fields{
		"order_id":          orderID,
		"external_order_id": order.ExternalOrderID,
		"items":             len(order.Items),
		"attempt":           attempt,
	}).Info("processing order")

	// Claim the order before touching inventory. Committed eagerly so a
	// crash mid-attempt is observable as stuck-in-processing, not lost.
	if err := order.TransitionTo(model.OrderProcessing); err != nil {
		return p.fail(ctx, orderID, attempt, err, taskID, start)
	}
	if err := p.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", order.ID).
		Update("status", model.OrderProcessing).Error; err != nil {
		return p.fail(ctx, orderID, attempt, err, taskID, start)
	}

	txErr := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock acquisition order is fixed by sorting on SKU: two workers
		// racing for overlapping item sets always lock in the same global
		// order, so no circular wait can form.
		items := make([]model.OrderItem, len(order.Items))
		copy(items, order.Items)
		sort.Slice(items, func(a, b int) bool { return items[a].SKU < items[b].SKU })

		for _, item := range items {
			var product model.Product
			if err := tx.Where("sku = ?", item.SKU).First(&product).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &ProductNotFoundError{SKU: item.SKU}
				}
				return err
			}

			var inv model.Inventory
			if err := lockForUpdate(tx).Where("product_id = ?", product.ID).First(&inv).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &ProductNotFoundError{SKU: item.SKU}
				}
				return err
			}

			available := inv.Available()
			if available < item.Quantity {
				return &InsufficientStockError{SKU: item.SKU, Requested: item.Quantity, Available: available}
			}

			if err := tx.Model(&inv).Updates(map[string]interface{}{
				"quantity":   inv.Quantity - item.Quantity,
				"updated_at": time.Now(),
			}).Error; err != nil {
				return err
			}
			logrus.WithField("order_id", orderID).Debugf("%s -= %d (remaining: %d)", item.SKU, item.Quantity, inv.Quantity-item.Quantity)
		}

		return tx.Model(&model.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
			"status":        model.OrderCompleted,
			"processed_at":  time.Now(),
			"error_message": nil,
		}).Error
	})

	if txErr != nil {
		return p.fail(ctx, orderID, attempt, txErr, taskID, start)
	}

	durationMs := time.Since(start).Milliseconds()
	oid := order.ID
	p.writeLog(ctx, &model.SyncLog{
		TaskID:     taskID,
		TaskName:   taskProcessOrder,
		Status:     model.SyncSuccess,
		OrderID:    &oid,
		Details:    fmt.Sprintf("Order %s processed: %d items fulfilled.", order.ExternalOrderID, len(order.Items)),
		DurationMs: &durationMs,
	})

	logrus.WithFields(logrus.Fields{
		"order_id":          orderID,
		"external_order_id": order.ExternalOrderID,
		"duration_ms":       durationMs,
	}).Info("order completed")

	return Outcome{Status: OutcomeCompleted, OrderID: orderID, DurationMs: durationMs}
}

// fail rolls up the failure path: mark the order failed, write the audit
// record, and decide between a permanent failure and a scheduled retry.
// Secondary errors while recording the failure are logged and swallowed so
// they never mask the original error.
func (p *Processor) fail(ctx context.Context, orderID uint, attempt int, cause error, taskID string, start time.Time) Outcome {
	business := IsBusinessError(cause)

	msg := cause.Error()
	trace := ""
	if !business {
		msg = fmt.Sprintf("%T: %v", cause, cause)
		trace = string(debug.Stack())
	}

	var onf *OrderNotFoundError
	haveOrder := !errors.As(cause, &onf)
	if haveOrder {
		if err := p.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", orderID).Updates(map[string]interface{}{
			"status":        model.OrderFailed,
			"error_message": msg,
		}).Error; err != nil {
			logrus.WithError(err).WithField("order_id", orderID).Error("could not mark order failed")
		}
	}

	durationMs := time.Since(start).Milliseconds()
	oid := orderID
	p.writeLog(ctx, &model.SyncLog{
		TaskID:       taskID,
		TaskName:     taskProcessOrder,
		Status:       model.SyncFailure,
		OrderID:      &oid,
		ErrorMessage: msg,
		Traceback:    trace,
		DurationMs:   &durationMs,
	})

	if business {
		logrus.WithField("order_id", orderID).Warnf("order failed (business): %s", msg)
		return Outcome{Status: OutcomeFailed, OrderID: orderID, Error: msg, DurationMs: durationMs}
	}

	logrus.WithField("order_id", orderID).Errorf("order failed: %s", msg)

	if attempt < p.cfg.MaxRetries {
		delay := backoffDelay(p.cfg.BaseRetryDelay, attempt)

		if haveOrder {
			if err := p.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", orderID).
				Update("retry_count", gorm.Expr("retry_count + ?", 1)).Error; err != nil {
				logrus.WithError(err).WithField("order_id", orderID).Error("could not bump retry count")
			}
		}
		p.writeLog(ctx, &model.SyncLog{
			TaskID:       taskID,
			TaskName:     taskProcessOrder,
			Status:       model.SyncRetry,
			OrderID:      &oid,
			Details:      fmt.Sprintf("Retry attempt %d", attempt+1),
			ErrorMessage: msg,
		})

		logrus.WithFields(logrus.Fields{
			"order_id": orderID,
			"delay":    delay,
			"attempt":  attempt + 1,
		}).Info("retry scheduled")
		return Outcome{Status: OutcomeRetrying, OrderID: orderID, Error: msg, RetryIn: delay, DurationMs: durationMs}
	}

	return Outcome{Status: OutcomeFailed, OrderID: orderID, Error: msg, DurationMs: durationMs}
}

func (p *Processor) writeLog(ctx context.Context, entry *model.SyncLog) {
	if err := p.db.WithContext(ctx).Create(entry).Error; err != nil {
		logrus.WithError(err).Error("could not write sync log")
	}
}
