package fulfillment

import (
	"context"
	"strconv"

	"core/lib/kafka"
)

// OrderJob is the queue payload: which order to fulfill and how many
// automatic redeliveries preceded this one. Delivery is at-least-once; the
// processor's terminal-state check absorbs duplicates.
type OrderJob struct {
	OrderID uint `json:"order_id"`
	Attempt int  `json:"attempt"`
}

// Enqueuer hands fulfillment jobs to the queue. Handlers and the runner
// depend on this instead of a concrete transport.
type Enqueuer interface {
	Enqueue(ctx context.Context, job OrderJob) error
}

// KafkaEnqueuer publishes jobs keyed by order ID so redeliveries of one order
// land on the same partition.
type KafkaEnqueuer struct {
	producer *kafka.Producer
	topic    string
}

func NewKafkaEnqueuer(producer *kafka.Producer, topic string) *KafkaEnqueuer {
	return &KafkaEnqueuer{producer: producer, topic: topic}
}

func (e *KafkaEnqueuer) Enqueue(ctx context.Context, job OrderJob) error {
	return e.producer.Send(ctx, e.topic, strconv.FormatUint(uint64(job.OrderID), 10), job)
}
