package fulfillment

import (
	"context"
	"time"

	"core/lib/kafka"

	"github.com/sirupsen/logrus"
)

// Runner consumes order jobs and drives the processor. It owns the
// interpretation of outcomes: a Retrying outcome is turned into a delayed
// republish of the same job with the attempt counter bumped, the same
// re-queue-with-retry-count shape the producer side uses for failed sends.
type Runner struct {
	processor *Processor
	enqueuer  Enqueuer
	worker    *kafka.Worker[OrderJob]
}

func NewRunner(processor *Processor, enqueuer Enqueuer, kcfg kafka.Config, group, topic string, concurrency int) *Runner {
	r := &Runner{processor: processor, enqueuer: enqueuer}
	r.worker = kafka.NewWorker[OrderJob](kcfg, group, []string{topic}, concurrency, r.handle)
	return r
}

// Start runs the consumer loop until ctx is cancelled.
func (r *Runner) Start(ctx context.Context) {
	go func() {
		defer r.worker.Close()
		if err := r.worker.Run(ctx); err != nil && ctx.Err() == nil {
			logrus.WithError(err).Error("fulfillment worker stopped")
		}
	}()
	logrus.Info("fulfillment worker started")
}

func (r *Runner) handle(ctx context.Context, msg kafka.Message[OrderJob]) error {
	out := r.processor.Process(ctx, msg.Value.OrderID, msg.Value.Attempt)

	if out.Status == OutcomeRetrying {
		job := OrderJob{OrderID: msg.Value.OrderID, Attempt: msg.Value.Attempt + 1}
		time.AfterFunc(out.RetryIn, func() {
			if err := r.enqueuer.Enqueue(context.Background(), job); err != nil {
				logrus.WithError(err).WithField("order_id", job.OrderID).Error("could not re-enqueue order for retry")
			}
		})
	}

	// The outcome is fully handled here; never bounce the message back to
	// the consumer group for transport-level redelivery.
	return nil
}
