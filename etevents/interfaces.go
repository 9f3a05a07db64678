package etevents

import (
	"context"
	"time"
)

// EventProcessor defines the interface for queueing and delivering event records.
type EventProcessor interface {
	// Start begins delivery of queued events. Events may be enqueued before Start is called;
	// they wait until then. Calling Start more than once has no additional effect.
	Start()
	// Enqueue records a serialized event at the tail of the queue. It returns false if the event
	// was discarded because the queue is full or the processor is closed. Enqueue never waits
	// for network I/O.
	Enqueue(data []byte) bool
	// Flush specifies that queued events should be delivered as soon as possible, cutting short
	// any retry delay that is currently in effect.
	Flush()
	// Len returns the number of events that have been queued but not yet delivered or dropped.
	Len() int
	// Close stops delivery. Events that have not been delivered remain in the queue store, if
	// there is one, and will be delivered by the next processor that uses the same store.
	Close() error
}

// EventSender defines the interface for delivering one already-serialized event record.
type EventSender interface {
	// SendEventData makes a single attempt to deliver data. The payloadID stays the same for
	// every attempt at delivering the same event, so that the service can detect duplicates.
	SendEventData(ctx context.Context, data []byte, payloadID string) EventSenderResult
}

// EventSenderResult is the return type for EventSender.SendEventData.
type EventSenderResult struct {
	// Success is true if the event was delivered.
	Success bool
	// Err describes a failure. It is a *PermanentDeliveryFailure if trying again cannot succeed,
	// and a *DeliveryFailure otherwise.
	Err error
	// RetryAfter is the minimum delay requested by the service before the next attempt, if any.
	RetryAfter time.Duration
}

// DropReason describes why an event left the queue without being delivered.
type DropReason string

const (
	// DropReasonQueueFull means the event arrived while the in-memory queue was at capacity.
	DropReasonQueueFull DropReason = "queue_full"
	// DropReasonPermanentFailure means the service rejected the event in a way that cannot be
	// fixed by retrying.
	DropReasonPermanentFailure DropReason = "permanent_failure"
	// DropReasonRetriesExhausted means every allowed attempt failed.
	DropReasonRetriesExhausted DropReason = "retries_exhausted"
)

// DeliveryObserver receives notifications as events move through the delivery queue.
//
// Methods are called synchronously from the goroutine that caused the transition (the
// application's goroutine for EventEnqueued, the delivery worker for all others), so they should
// return quickly.
type DeliveryObserver interface {
	// EventEnqueued is called when an event has been accepted. persisted is false if it could
	// not be written to the queue store.
	EventEnqueued(persisted bool)
	// EventDelivered is called when an event has been delivered after the given number of attempts.
	EventDelivered(attempts int)
	// DeliveryAttemptFailed is called after each failed attempt.
	DeliveryAttemptFailed(err error, willRetry bool)
	// EventDropped is called when an event is discarded.
	EventDropped(reason DropReason)
}

type noOpObserver struct{}

func (noOpObserver) EventEnqueued(bool) {}
func (noOpObserver) EventDelivered(int) {}
func (noOpObserver) DeliveryAttemptFailed(error, bool) {}
func (noOpObserver) EventDropped(DropReason) {}
