package handler

import (
	"time"

	"core/internal/model"
	"core/internal/repo"
	"core/lib/kafka"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Health reports database and queue connectivity.
func (h *Handler) Health(c *fiber.Ctx) error {
	dbStatus := "disconnected"
	queueStatus := "disconnected"

	if sqlDB, err := h.DB.DB(); err == nil {
		if err := sqlDB.PingContext(c.Context()); err == nil {
			dbStatus = "connected"
		} else {
			logrus.WithError(err).Error("database health check failed")
		}
	}

	if err := kafka.Ping(h.Kafka); err == nil {
		queueStatus = "connected"
	} else {
		logrus.WithError(err).Error("queue health check failed")
	}

	overall := "healthy"
	if dbStatus != "connected" || queueStatus != "connected" {
		overall = "degraded"
	}

	return c.JSON(fiber.Map{
		"status":    overall,
		"database":  dbStatus,
		"queue":     queueStatus,
		"timestamp": time.Now().UTC(),
	})
}

func (h *Handler) ListSyncLogs(c *fiber.Ctx) error {
	var status *model.SyncStatus
	if raw := c.Query("status"); raw != "" {
		if s, err := model.ParseSyncStatus(raw); err == nil {
			status = &s
		}
	}

	limit := c.QueryInt("limit", 50)
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	logs, err := repo.ListSyncLogs(h.DB, status, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": true, "data": logs})
}

func (h *Handler) Metrics(c *fiber.Ctx) error {
	metrics, err := repo.ComputeMetrics(h.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": true, "data": metrics})
}
