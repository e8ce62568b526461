package handler

import (
	"time"

	"core/internal/model"
	"core/internal/repo"

	"github.com/gofiber/fiber/v2"
)

type inventoryResponse struct {
	ID                uint      `json:"id"`
	ProductID         uint      `json:"product_id"`
	ProductName       string    `json:"product_name,omitempty"`
	ProductSKU        string    `json:"product_sku,omitempty"`
	Quantity          int       `json:"quantity"`
	Reserved          int       `json:"reserved"`
	Available         int       `json:"available"`
	ReorderLevel      int       `json:"reorder_level"`
	IsLowStock        bool      `json:"is_low_stock"`
	WarehouseLocation string    `json:"warehouse_location,omitempty"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func buildInventoryResponse(inv *model.Inventory) inventoryResponse {
	resp := inventoryResponse{
		ID:                inv.ID,
		ProductID:         inv.ProductID,
		Quantity:          inv.Quantity,
		Reserved:          inv.Reserved,
		Available:         inv.Available(),
		ReorderLevel:      inv.ReorderLevel,
		IsLowStock:        inv.IsLowStock(),
		WarehouseLocation: inv.WarehouseLocation,
		UpdatedAt:         inv.UpdatedAt,
	}
	if inv.Product != nil {
		resp.ProductName = inv.Product.Name
		resp.ProductSKU = inv.Product.SKU
	}
	return resp
}

func (h *Handler) ListInventory(c *fiber.Ctx) error {
	items, err := repo.ListInventory(h.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "error": err.Error()})
	}

	data := make([]inventoryResponse, 0, len(items))
	for i := range items {
		data = append(data, buildInventoryResponse(&items[i]))
	}
	return c.JSON(fiber.Map{"status": true, "data": data})
}

// InventoryAlerts lists products at or below their reorder level.
func (h *Handler) InventoryAlerts(c *fiber.Ctx) error {
	items, err := repo.ListLowStock(h.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "error": err.Error()})
	}

	data := make([]inventoryResponse, 0, len(items))
	for i := range items {
		data = append(data, buildInventoryResponse(&items[i]))
	}
	return c.JSON(fiber.Map{"status": true, "data": data})
}
