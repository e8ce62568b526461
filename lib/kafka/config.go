package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

type Config struct {
	Brokers []string
}

// Ping checks broker connectivity by dialing the first broker. Used at
// startup so a missing cluster is visible immediately instead of on the
// first consumed message.
func Ping(cfg Config) error {
	if len(cfg.Brokers) == 0 || cfg.Brokers[0] == "" {
		return fmt.Errorf("KAFKA_BROKERS is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, err := kafka.DialContext(ctx, "tcp", cfg.Brokers[0])
	if err != nil {
		return err
	}
	return conn.Close()
}
