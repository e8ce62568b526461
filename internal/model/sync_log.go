package model

import (
	"fmt"
	"time"
)

// SyncStatus classifies one task attempt in the audit trail. For scanner
// entries Failure means out of stock and Success means worth noting, not that
// the sweep itself failed.
type SyncStatus string

const (
	SyncSuccess SyncStatus = "success"
	SyncFailure SyncStatus = "failure"
	SyncRetry   SyncStatus = "retry"
)

// ParseSyncStatus maps a raw string to a sync status.
func ParseSyncStatus(s string) (SyncStatus, error) {
	switch SyncStatus(s) {
	case SyncSuccess, SyncFailure, SyncRetry:
		return SyncStatus(s), nil
	}
	return "", fmt.Errorf("invalid sync status: %q", s)
}

// SyncLog is one append-only audit record per task attempt. Rows are never
// updated or deleted; they are the system's only durable observability trail.
type SyncLog struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	TaskID       string     `json:"task_id,omitempty" gorm:"size:255;index"`
	TaskName     string     `json:"task_name" gorm:"size:100;not null"`
	Status       SyncStatus `json:"status" gorm:"size:20;not null;index:ix_sync_logs_status_created"`
	OrderID      *uint      `json:"order_id,omitempty"`
	Details      string     `json:"details,omitempty" gorm:"type:text"`
	ErrorMessage string     `json:"error_message,omitempty" gorm:"type:text"`
	Traceback    string     `json:"-" gorm:"type:text"`
	DurationMs   *int64     `json:"duration_ms,omitempty"`
	CreatedAt    time.Time  `json:"created_at" gorm:"index:ix_sync_logs_status_created"`
}
