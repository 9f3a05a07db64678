package etcomponents

import (
	"fmt"
	"time"

	"github.com/mbsj/go-event-tracker/etevents"
	"github.com/mbsj/go-event-tracker/subsystems"
)

// EventProcessorBuilder provides methods for configuring event delivery.
//
// See SendEvents for usage.
type EventProcessorBuilder struct {
	capacity       int
	maxAttempts    int
	baseRetryDelay time.Duration
	maxRetryDelay  time.Duration
	retryJitter    float64
	queueStore     subsystems.ComponentConfigurer[subsystems.EventQueueStore]
	observer       etevents.DeliveryObserver
}

// SendEvents returns a configuration builder for event delivery.
//
// The default configuration has delivery enabled with default settings and an in-memory queue. If
// you want to customize this behavior, call this method to obtain a builder, change its properties
// with the EventProcessorBuilder methods, and store it in Options.Events:
//
//	options := eventtracker.Options{
//	    Events: etcomponents.SendEvents().Capacity(5000).QueueStore(etsqlite.QueueStore("events.db")),
//	}
//
// To disable delivery, use NoEvents instead of SendEvents.
func SendEvents() *EventProcessorBuilder {
	return &EventProcessorBuilder{
		capacity:       etevents.DefaultCapacity,
		maxAttempts:    etevents.DefaultMaxAttempts,
		baseRetryDelay: etevents.DefaultBaseRetryDelay,
		maxRetryDelay:  etevents.DefaultMaxRetryDelay,
		retryJitter:    etevents.DefaultRetryJitter,
	}
}

// Build is called by the tracker to create the event processor instance.
func (b *EventProcessorBuilder) Build(clientContext subsystems.ClientContext) (etevents.EventProcessor, error) {
	loggers := clientContext.GetLoggers()
	loggers.SetPrefix("EventProcessor:")

	storeConfigurer := b.queueStore
	if storeConfigurer == nil {
		storeConfigurer = InMemoryQueueStore()
	}
	store, err := storeConfigurer.Build(clientContext)
	if err != nil {
		return nil, fmt.Errorf("unable to open event queue store: %w", err)
	}

	httpConfig := clientContext.GetHTTP()
	eventSender := etevents.NewServerEventSender(
		httpConfig.CreateHTTPClient(),
		clientContext.GetServiceEndpoints(),
		clientContext.GetEnvironment(),
		httpConfig.DefaultHeaders,
		loggers,
	)
	eventsConfig := etevents.EventsConfiguration{
		Capacity:       b.capacity,
		MaxAttempts:    b.maxAttempts,
		BaseRetryDelay: b.baseRetryDelay,
		MaxRetryDelay:  b.maxRetryDelay,
		RetryJitter:    b.retryJitter,
		EventSender:    eventSender,
		QueueStore:     store,
		Observer:       b.observer,
		Loggers:        loggers,
	}
	return etevents.NewDefaultEventProcessor(eventsConfig), nil
}

// Capacity sets the maximum number of undelivered events held in memory.
//
// Events tracked while the queue is at capacity are discarded, and a warning is logged the first
// time this happens. The default value is etevents.DefaultCapacity.
func (b *EventProcessorBuilder) Capacity(capacity int) *EventProcessorBuilder {
	b.capacity = capacity
	return b
}

// MaxAttempts sets the total number of delivery attempts made for one event before it is
// discarded. Only transient failures (network errors, server errors, throttling) are retried.
//
// The default value is etevents.DefaultMaxAttempts.
func (b *EventProcessorBuilder) MaxAttempts(maxAttempts int) *EventProcessorBuilder {
	b.maxAttempts = maxAttempts
	return b
}

// RetryDelay sets the delay before the first retry of an event, and the upper bound that the
// delay can grow to as it is doubled after each further failure.
//
// The defaults are etevents.DefaultBaseRetryDelay and etevents.DefaultMaxRetryDelay.
func (b *EventProcessorBuilder) RetryDelay(base, max time.Duration) *EventProcessorBuilder {
	b.baseRetryDelay = base
	b.maxRetryDelay = max
	return b
}

// RetryJitter sets the randomization factor applied to each retry delay, as a fraction of the
// delay; 0 disables randomization. Values outside the range [0, 1) select the default,
// etevents.DefaultRetryJitter.
func (b *EventProcessorBuilder) RetryJitter(jitter float64) *EventProcessorBuilder {
	b.retryJitter = jitter
	return b
}

// QueueStore specifies the durable storage for undelivered events.
//
// The default is InMemoryQueueStore, which does not survive a restart. Use a persistent store
// such as etsqlite.QueueStore or etbadger.QueueStore so that events tracked shortly before the
// application exits are delivered the next time it starts.
func (b *EventProcessorBuilder) QueueStore(
	storeConfigurer subsystems.ComponentConfigurer[subsystems.EventQueueStore],
) *EventProcessorBuilder {
	b.queueStore = storeConfigurer
	return b
}

// DeliveryObserver specifies an object to be notified as events are queued, delivered, retried,
// and dropped. The etmetrics package provides an implementation that records Prometheus metrics.
func (b *EventProcessorBuilder) DeliveryObserver(observer etevents.DeliveryObserver) *EventProcessorBuilder {
	b.observer = observer
	return b
}
