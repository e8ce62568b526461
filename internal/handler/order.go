package handler

import (
	"errors"
	"fmt"

	"core/internal/fulfillment"
	"core/internal/model"
	"core/internal/repo"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func (h *Handler) ListOrders(c *fiber.Ctx) error {
	var query repo.Query
	query.Parse(c)

	var status *model.OrderStatus
	if query.Status != "" {
		s, err := model.ParseOrderStatus(query.Status)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "error": err.Error()})
		}
		status = &s
	}

	orders, total, err := repo.ListOrders(h.DB, status, query.Page, query.Limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"status": true,
		"data":   orders,
		"total":  total,
		"page":   query.Page,
		"limit":  query.Limit,
	})
}

func (h *Handler) GetOrder(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "error": "invalid order id"})
	}

	order, err := repo.GetOrder(h.DB, uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": false, "error": fmt.Sprintf("order %d not found", id)})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": true, "data": order})
}

// RetryOrder manually re-queues a failed or pending order. The order goes
// back to pending with the error cleared and the retry counter bumped before
// the job is re-enqueued.
func (h *Handler) RetryOrder(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "error": "invalid order id"})
	}

	order, err := repo.GetOrder(h.DB, uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": false, "error": fmt.Sprintf("order %d not found", id)})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "error": err.Error()})
	}

	if order.Status != model.OrderFailed && order.Status != model.OrderPending {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": false,
			"error":  fmt.Sprintf("can only retry failed or pending orders. Current status: %s", order.Status),
		})
	}

	if err := repo.ResetForRetry(h.DB, order); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "error": err.Error()})
	}

	if err := h.Enqueuer.Enqueue(c.Context(), fulfillment.OrderJob{OrderID: order.ID}); err != nil {
		logrus.WithError(err).WithField("order_id", order.ID).Error("could not enqueue retry job")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "error": "could not enqueue retry"})
	}

	logrus.WithFields(logrus.Fields{
		"order_id":    order.ID,
		"retry_count": order.RetryCount,
	}).Info("order re-queued for processing")

	return c.JSON(fiber.Map{
		"status":      "retrying",
		"message":     fmt.Sprintf("Order %d has been re-queued for processing (retry #%d).", order.ID, order.RetryCount),
		"order_id":    order.ID,
		"retry_count": order.RetryCount,
	})
}
