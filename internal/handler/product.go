package handler

import (
	"errors"
	"fmt"

	"core/internal/repo"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func (h *Handler) ListProducts(c *fiber.Ctx) error {
	category := c.Query("category")
	activeOnly := c.QueryBool("active_only", true)

	products, err := repo.ListProducts(h.DB, category, activeOnly)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": true, "data": products})
}

func (h *Handler) GetProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "error": "invalid product id"})
	}

	product, err := repo.GetProduct(h.DB, uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": false, "error": fmt.Sprintf("product %d not found", id)})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": true, "data": product})
}
