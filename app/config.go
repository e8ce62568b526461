package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is a application configuration structure
type (
	AppConfig struct {
		Database    DatabaseConfig
		Logging     LoggingConfig
		Kafka       KafkaConfig
		Fulfillment FulfillmentConfig
		WebPort     string
	}

	KafkaConfig struct {
		Brokers []string
		GroupID string
	}

	// FulfillmentConfig carries the worker knobs. Built once at startup and
	// handed to the processor, runner and scanner explicitly.
	FulfillmentConfig struct {
		OrdersTopic    string
		MaxRetries     int
		BaseRetryDelay time.Duration
		Concurrency    int
		ScanInterval   time.Duration
	}
)

// Setup loads .env, builds the full configuration, connects the database and
// configures logging. The returned config is treated as immutable from here
// on; components receive the pieces they need as arguments.
func Setup() *AppConfig {

	if err := godotenv.Load(".env"); err != nil {
		fmt.Println("Error loading .env file:", err)
	}

	cfg := &AppConfig{
		Database: DatabaseConfig{
			Driver:      os.Getenv("DB_DRIVER"),
			Host:        os.Getenv("DB_HOST"),
			Username:    os.Getenv("DB_USER"),
			Password:    os.Getenv("DB_PASSWORD"),
			DBName:      os.Getenv("DB_NAME"),
			Port:        getEnvAsInt("DB_PORT", 3306),
			MaxIdleConn: getEnvAsInt("MAX_IDLE_CONN", 0),
			MaxOpenConn: getEnvAsInt("MAX_OPEN_CONN", 0),
			MaxLifetime: getEnvAsInt("MAX_LIFE_TIME_PER_CONN", 0),
			Debug:       os.Getenv("DB_DEBUG") == "true",
		},
		Logging: LoggingConfig{
			Type:       os.Getenv("LOG_TYPE"),
			Level:      os.Getenv("LOG_LEVEL"),
			ServerName: os.Getenv("SERVER_NAME"),
		},
		Kafka: KafkaConfig{
			Brokers: strings.Split(os.Getenv("KAFKA_BROKERS"), ","),
			GroupID: getEnvOr("KAFKA_GROUP_ID", "fulfillment-worker-group"),
		},
		Fulfillment: FulfillmentConfig{
			OrdersTopic:    getEnvOr("ORDERS_TOPIC", "orders"),
			MaxRetries:     getEnvAsInt("FULFILLMENT_MAX_RETRIES", 3),
			BaseRetryDelay: time.Duration(getEnvAsInt("FULFILLMENT_BASE_RETRY_DELAY_SECONDS", 60)) * time.Second,
			Concurrency:    getEnvAsInt("FULFILLMENT_CONCURRENCY", 3),
			ScanInterval:   time.Duration(getEnvAsInt("INVENTORY_SCAN_INTERVAL_SECONDS", 300)) * time.Second,
		},
		WebPort: getEnvOr("WEB_PORT", "8000"),
	}

	cfg.Logging.Setup()
	cfg.Database.Setup()

	return cfg
}

func getEnvOr(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// Helper convert env -> int
func getEnvAsInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}
