package repo

import (
	"core/internal/model"

	"gorm.io/gorm"
)

func ListSyncLogs(db *gorm.DB, status *model.SyncStatus, limit int) ([]model.SyncLog, error) {
	q := db.Model(&model.SyncLog{})
	if status != nil {
		q = q.Where("status = ?", *status)
	}

	var logs []model.SyncLog
	err := q.Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
