package handler

import (
	"fmt"
	"strconv"
	"strings"

	"core/internal/fulfillment"
	"core/internal/model"
	"core/internal/repo"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

type ShopifyCustomer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type ShopifyLineItem struct {
	SKU       string `json:"sku"`
	Title     string `json:"title"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
	VariantID int64  `json:"variant_id"`
	ProductID int64  `json:"product_id"`
}

// ShopifyOrderWebhook is the incoming order payload.
type ShopifyOrderWebhook struct {
	ID          int64             `json:"id"`
	OrderNumber int64             `json:"order_number"`
	Email       string            `json:"email"`
	TotalPrice  string            `json:"total_price"`
	Currency    string            `json:"currency"`
	Customer    *ShopifyCustomer  `json:"customer"`
	LineItems   []ShopifyLineItem `json:"line_items"`
	Note        string            `json:"note"`
}

// ReceiveOrderWebhook accepts an external order payload, persists the order
// with its line items, and queues the first fulfillment job. Idempotent on
// the external order id: a duplicate delivery returns the existing order and
// enqueues nothing.
func (h *Handler) ReceiveOrderWebhook(c *fiber.Ctx) error {
	var payload ShopifyOrderWebhook
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "error": "invalid request body"})
	}
	if payload.ID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "error": "order id is required"})
	}

	externalID := strconv.FormatInt(payload.ID, 10)
	logrus.WithField("external_order_id", externalID).Info("received order webhook")

	existing, err := repo.FindOrderByExternalID(h.DB, externalID)
	if err != nil {
		logrus.WithError(err).Error("duplicate lookup failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "error": "could not store order"})
	}
	if existing != nil {
		logrus.WithField("external_order_id", externalID).Warn("duplicate webhook for order")
		return c.JSON(fiber.Map{
			"status":   "duplicate",
			"message":  fmt.Sprintf("Order %s already exists.", externalID),
			"order_id": existing.ID,
		})
	}

	customerName := ""
	customerEmail := payload.Email
	if payload.Customer != nil {
		customerName = strings.TrimSpace(strings.TrimSpace(payload.Customer.FirstName) + " " + strings.TrimSpace(payload.Customer.LastName))
		if customerEmail == "" {
			customerEmail = payload.Customer.Email
		}
	}

	currency := payload.Currency
	if currency == "" {
		currency = "USD"
	}
	totalAmount, _ := strconv.ParseFloat(payload.TotalPrice, 64)

	// fasthttp reuses the request buffer after the handler returns
	rawPayload := append([]byte(nil), c.Body()...)

	order := model.Order{
		ExternalOrderID: externalID,
		Status:          model.OrderPending,
		CustomerName:    customerName,
		CustomerEmail:   customerEmail,
		TotalAmount:     totalAmount,
		Currency:        currency,
		Source:          "shopify",
		RawPayload:      datatypes.JSON(rawPayload),
	}

	for _, item := range payload.LineItems {
		sku := item.SKU
		if sku == "" {
			id := item.VariantID
			if id == 0 {
				id = item.ProductID
			}
			sku = fmt.Sprintf("UNKNOWN-%d", id)
		}

		name := item.Title
		if name == "" {
			name = item.Name
		}
		unitPrice, _ := strconv.ParseFloat(item.Price, 64)

		orderItem := model.OrderItem{
			SKU:       sku,
			Name:      name,
			Quantity:  item.Quantity,
			UnitPrice: unitPrice,
		}

		// best-effort catalog link; fulfillment resolves by SKU anyway
		var product model.Product
		if err := h.DB.Where("sku = ?", sku).First(&product).Error; err == nil {
			orderItem.ProductID = product.ID
		}

		order.Items = append(order.Items, orderItem)
	}

	if err := repo.CreateOrderWithItems(h.DB, &order); err != nil {
		logrus.WithError(err).WithField("external_order_id", externalID).Error("could not persist order")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "error": "could not store order"})
	}

	logrus.WithFields(logrus.Fields{
		"external_order_id": externalID,
		"order_id":          order.ID,
		"items":             len(order.Items),
	}).Info("order saved")

	if err := h.Enqueuer.Enqueue(c.Context(), fulfillment.OrderJob{OrderID: order.ID}); err != nil {
		// Order is persisted; the manual retry endpoint can re-queue it.
		logrus.WithError(err).WithField("order_id", order.ID).Error("could not enqueue fulfillment job")
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status":   "accepted",
		"message":  fmt.Sprintf("Order %s queued for processing.", externalID),
		"order_id": order.ID,
	})
}
