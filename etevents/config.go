package etevents

import (
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/mbsj/go-event-tracker/subsystems"
)

const (
	// DefaultCapacity is the default value for EventsConfiguration.Capacity.
	DefaultCapacity = 10000
	// DefaultMaxAttempts is the default value for EventsConfiguration.MaxAttempts.
	DefaultMaxAttempts = 5
	// DefaultBaseRetryDelay is the default value for EventsConfiguration.BaseRetryDelay.
	DefaultBaseRetryDelay = 1 * time.Second
	// DefaultMaxRetryDelay is the default value for EventsConfiguration.MaxRetryDelay.
	DefaultMaxRetryDelay = 60 * time.Second
	// DefaultRetryJitter is the default value for EventsConfiguration.RetryJitter.
	DefaultRetryJitter = 0.2
)

// EventsConfiguration contains options affecting the behavior of the delivery queue.
type EventsConfiguration struct {
	// The maximum number of events held in memory. Events tracked while the queue is full are
	// discarded.
	Capacity int
	// The total number of delivery attempts made for one event before it is given up on. Only
	// transient failures are retried; a permanent failure drops the event at once.
	MaxAttempts int
	// The delay before the first retry. Each subsequent delay is doubled, up to MaxRetryDelay.
	BaseRetryDelay time.Duration
	// The upper bound for the delay between two attempts.
	MaxRetryDelay time.Duration
	// The randomization factor applied to each delay, as a fraction: 0.2 means +/-20%.
	RetryJitter float64
	// The component that posts event data to the collection service.
	EventSender EventSender
	// The durable side of the queue. If nil, events are only held in memory.
	QueueStore subsystems.EventQueueStore
	// Optional hooks that are notified as events move through the queue.
	Observer DeliveryObserver
	// The destination for log output.
	Loggers ldlog.Loggers
}

func (c EventsConfiguration) withDefaults() EventsConfiguration {
	if c.Capacity <= 0 {
		c.Capacity = DefaultCapacity
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.BaseRetryDelay <= 0 {
		c.BaseRetryDelay = DefaultBaseRetryDelay
	}
	if c.MaxRetryDelay <= 0 {
		c.MaxRetryDelay = DefaultMaxRetryDelay
	}
	if c.MaxRetryDelay < c.BaseRetryDelay {
		c.MaxRetryDelay = c.BaseRetryDelay
	}
	if c.RetryJitter < 0 || c.RetryJitter >= 1 {
		c.RetryJitter = DefaultRetryJitter
	}
	if c.Observer == nil {
		c.Observer = noOpObserver{}
	}
	return c
}
