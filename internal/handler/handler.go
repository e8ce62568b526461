package handler

import (
	"core/internal/fulfillment"
	"core/lib/kafka"

	"gorm.io/gorm"
)

// Handler carries the dependencies the HTTP layer needs. Built once in main
// and passed to the router; no ambient globals.
type Handler struct {
	DB       *gorm.DB
	Enqueuer fulfillment.Enqueuer
	Kafka    kafka.Config
}
