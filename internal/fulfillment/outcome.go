package fulfillment

import (
	"time"
)

// OutcomeStatus is the closed set of attempt results.
type OutcomeStatus string

const (
	// OutcomeCompleted: the order reached (or already was in) a terminal
	// fulfilled state; inventory is decremented.
	OutcomeCompleted OutcomeStatus = "completed"
	// OutcomeFailed: the order is marked failed and no retry is scheduled.
	OutcomeFailed OutcomeStatus = "failed"
	// OutcomeRetrying: the order is marked failed but the attempt should be
	// redelivered after RetryIn.
	OutcomeRetrying OutcomeStatus = "retrying"
)

// Outcome is what one processing attempt reports back to the job runner.
// Retry scheduling is an explicit value here, not an exception convention of
// the transport.
type Outcome struct {
	Status     OutcomeStatus
	OrderID    uint
	Error      string
	RetryIn    time.Duration
	DurationMs int64
}
