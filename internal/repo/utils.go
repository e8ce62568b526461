package repo

import (
	"github.com/gofiber/fiber/v2"
)

type Query struct {
	Status string `query:"status"`
	Limit  int    `query:"limit"`
	Page   int    `query:"page"`
}

func (query *Query) Parse(c *fiber.Ctx) {
	if err := c.QueryParser(query); err != nil {
		query.Limit = 20
		query.Page = 1
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 20
	}
	if query.Limit > 100 {
		query.Limit = 100
	}
}
