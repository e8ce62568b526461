package main

import (
	"context"
	"fmt"

	"core/app"
	"core/internal/fulfillment"
	"core/internal/handler"
	"core/internal/scanner"
	"core/lib/kafka"
	"core/router"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg := app.Setup()

	fmt.Println("*************** SETUP KAFKA ***************")
	kcfg := kafka.Config{Brokers: cfg.Kafka.Brokers}
	if err := kafka.Ping(kcfg); err != nil {
		fmt.Println("DISABLE KAFKA!", err)
	} else {
		fmt.Println("Kafka connection established")
	}

	if err := kafka.CreateTopic(kcfg, cfg.Fulfillment.OrdersTopic, 3, 1); err != nil {
		logrus.WithError(err).Warn("could not create orders topic")
	}

	producer := kafka.NewProducer(kcfg)
	defer producer.Close()
	enqueuer := fulfillment.NewKafkaEnqueuer(producer, cfg.Fulfillment.OrdersTopic)

	processor := fulfillment.NewProcessor(cfg.Database.DB, fulfillment.Config{
		MaxRetries:     cfg.Fulfillment.MaxRetries,
		BaseRetryDelay: cfg.Fulfillment.BaseRetryDelay,
	})

	runner := fulfillment.NewRunner(processor, enqueuer, kcfg, cfg.Kafka.GroupID,
		cfg.Fulfillment.OrdersTopic, cfg.Fulfillment.Concurrency)
	runner.Start(context.Background())

	inventoryScanner := scanner.New(cfg.Database.DB, cfg.Fulfillment.ScanInterval)
	inventoryScanner.Start()
	defer inventoryScanner.Stop()

	h := &handler.Handler{DB: cfg.Database.DB, Enqueuer: enqueuer, Kafka: kcfg}
	fiberApp := router.New(h)

	fmt.Println("port=", cfg.WebPort)
	if err := fiberApp.Listen(":" + cfg.WebPort); err != nil {
		logrus.Fatal("server stopped:", err)
	}
}
