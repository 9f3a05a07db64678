package etevents

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/mbsj/go-event-tracker/internal"
	"github.com/mbsj/go-event-tracker/subsystems"
)

const (
	// How often the same kind of repeated warning may be logged.
	repeatedWarningInterval = time.Minute

	storeAppendWarningKey   = "store-append"
	transientFailureWarnKey = "transient-failure"
)

type defaultEventProcessor struct {
	config   EventsConfiguration
	queue    *eventQueue
	store    subsystems.EventQueueStore
	loggers  ldlog.Loggers
	throttle *internal.LogThrottle

	// enqueueLock keeps the order of events in memory identical to their order in the store.
	enqueueLock sync.Mutex

	wakeCh  chan struct{} // an event was enqueued
	flushCh chan struct{} // deliver now, even if we are waiting to retry
	closeCh chan struct{}
	doneCh  chan struct{}

	ctx    context.Context
	cancel context.CancelFunc

	lifecycleLock sync.Mutex
	started       bool
	closed        bool

	queueFullOnce sync.Once
}

// NewDefaultEventProcessor creates an instance of the default implementation of the delivery queue.
//
// Any entries already present in config.QueueStore are loaded into the queue, ahead of any events
// enqueued later. Delivery does not begin until Start is called.
func NewDefaultEventProcessor(config EventsConfiguration) EventProcessor {
	config = config.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	ep := &defaultEventProcessor{
		config:   config,
		queue:    newEventQueue(config.Capacity),
		store:    config.QueueStore,
		loggers:  config.Loggers,
		throttle: internal.NewLogThrottle(repeatedWarningInterval),
		wakeCh:   make(chan struct{}, 1),
		flushCh:  make(chan struct{}, 1),
		closeCh:  make(chan struct{}),
		doneCh:   make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
	ep.restorePersistedEvents()
	return ep
}

func (ep *defaultEventProcessor) restorePersistedEvents() {
	if ep.store == nil {
		return
	}
	entries, err := ep.store.Oldest(0)
	if err != nil {
		ep.loggers.Errorf("Unable to read undelivered events from queue store: %s", err)
		return
	}
	if len(entries) == 0 {
		return
	}
	// Restored events are never dropped for capacity reasons: they are already durable, and
	// leaving them in the store without queueing them would stall them until the next restart.
	ep.queue.lock.Lock()
	for _, entry := range entries {
		ep.queue.events = append(ep.queue.events, &queuedEvent{
			data:      entry.Data,
			storeID:   entry.ID,
			persisted: true,
		})
	}
	ep.queue.lock.Unlock()
	ep.loggers.Infof("Restored %d undelivered events from queue store", len(entries))
}

func (ep *defaultEventProcessor) Start() {
	ep.lifecycleLock.Lock()
	defer ep.lifecycleLock.Unlock()
	if ep.started || ep.closed {
		return
	}
	ep.started = true
	go ep.runDeliveryLoop()
}

func (ep *defaultEventProcessor) Enqueue(data []byte) bool {
	ep.enqueueLock.Lock()
	defer ep.enqueueLock.Unlock()

	if ep.isClosed() {
		return false
	}
	if !ep.queue.hasRoom() {
		ep.dropBecauseQueueFull()
		return false
	}

	e := &queuedEvent{data: data}
	if ep.store != nil {
		id, err := ep.store.Append(data)
		if err != nil {
			if ep.throttle.Allow(storeAppendWarningKey) {
				ep.loggers.Warnf("Unable to write event to queue store; it will be kept in memory only: %s", err)
			}
		} else {
			e.storeID, e.persisted = id, true
		}
	}
	if !ep.queue.push(e) {
		// Can only happen if the queue filled up between hasRoom and push
		if e.persisted {
			_ = ep.store.Remove(e.storeID)
		}
		ep.dropBecauseQueueFull()
		return false
	}
	ep.config.Observer.EventEnqueued(e.persisted)
	notify(ep.wakeCh)
	return true
}

func (ep *defaultEventProcessor) dropBecauseQueueFull() {
	// If the queue is full, the collection service has been unreachable for a long time or events
	// are being produced much faster than they can be delivered. Waiting for room would block the
	// application, so the event is dropped. The log warning about this will only be shown once.
	ep.queueFullOnce.Do(func() {
		ep.loggers.Warn("Event queue is full; some events will be dropped")
	})
	ep.config.Observer.EventDropped(DropReasonQueueFull)
}

func (ep *defaultEventProcessor) Flush() {
	notify(ep.flushCh)
}

func (ep *defaultEventProcessor) Len() int {
	return ep.queue.len()
}

func (ep *defaultEventProcessor) Close() error {
	ep.lifecycleLock.Lock()
	if ep.closed {
		ep.lifecycleLock.Unlock()
		return nil
	}
	ep.closed = true
	started := ep.started
	ep.lifecycleLock.Unlock()

	close(ep.closeCh)
	ep.cancel() // aborts a request that is in progress; that event stays at the head of the queue
	if started {
		<-ep.doneCh
	}

	ep.enqueueLock.Lock()
	defer ep.enqueueLock.Unlock()
	if ep.store != nil {
		return ep.store.Close()
	}
	return nil
}

func (ep *defaultEventProcessor) isClosed() bool {
	ep.lifecycleLock.Lock()
	defer ep.lifecycleLock.Unlock()
	return ep.closed
}

func (ep *defaultEventProcessor) runDeliveryLoop() {
	defer close(ep.doneCh)
	defer func() {
		if err := recover(); err != nil {
			ep.loggers.Errorf("Unexpected panic in event delivery goroutine: %+v", err)
		}
	}()

	retry := newRetryPolicy(ep.config)
	for {
		e, ok := ep.queue.peek()
		if !ok {
			select {
			case <-ep.wakeCh:
			case <-ep.flushCh:
			case <-ep.closeCh:
				return
			}
			continue
		}
		if !ep.deliverHead(e, retry) {
			return
		}
	}
}

// deliverHead makes one attempt at delivering the event at the head of the queue, and then either
// removes it or waits until it is time to try again. It returns false if the processor is closing.
func (ep *defaultEventProcessor) deliverHead(e *queuedEvent, retry *retryPolicy) bool {
	if e.payloadID == "" {
		e.payloadID = newPayloadID()
	}
	e.attempts++
	result := ep.config.EventSender.SendEventData(ep.ctx, e.data, e.payloadID)

	if result.Success {
		ep.removeHead(e)
		ep.config.Observer.EventDelivered(e.attempts)
		retry.reset()
		return true
	}
	if ep.ctx.Err() != nil {
		// The attempt was cut short by Close; it doesn't count
		e.attempts--
		return false
	}

	var permanent *PermanentDeliveryFailure
	if errors.As(result.Err, &permanent) {
		ep.loggers.Errorf("Event was rejected by the collection service and will be discarded: %s", result.Err)
		ep.config.Observer.DeliveryAttemptFailed(result.Err, false)
		ep.removeHead(e)
		ep.config.Observer.EventDropped(DropReasonPermanentFailure)
		retry.reset()
		return true
	}
	if e.attempts >= ep.config.MaxAttempts {
		ep.loggers.Errorf("Giving up on event after %d failed delivery attempts: %s", e.attempts, result.Err)
		ep.config.Observer.DeliveryAttemptFailed(result.Err, false)
		ep.removeHead(e)
		ep.config.Observer.EventDropped(DropReasonRetriesExhausted)
		retry.reset()
		return true
	}

	ep.config.Observer.DeliveryAttemptFailed(result.Err, true)
	delay := retry.nextDelay(result.RetryAfter)
	if ep.throttle.Allow(transientFailureWarnKey) {
		ep.loggers.Warnf("Event delivery failed (%s); will retry in %s", result.Err, delay)
	} else {
		ep.loggers.Debugf("Event delivery failed (%s); will retry in %s", result.Err, delay)
	}
	return ep.waitForRetry(delay)
}

// removeHead deletes a finished event from the store and then from memory, in that order, so
// that the event is never absent from both while it is still pending.
func (ep *defaultEventProcessor) removeHead(e *queuedEvent) {
	if e.persisted {
		if err := ep.store.Remove(e.storeID); err != nil {
			ep.loggers.Errorf("Unable to remove event %d from queue store; it may be sent again after a restart: %s",
				e.storeID, err)
		}
	}
	ep.queue.pop(e)
}

func (ep *defaultEventProcessor) waitForRetry(delay time.Duration) bool {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ep.flushCh:
		return true
	case <-ep.closeCh:
		return false
	}
}

func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default: // a notification is already pending
	}
}

func newPayloadID() string {
	payloadUUID, _ := uuid.NewRandom()
	return payloadUUID.String() // if NewRandom somehow failed, we'll just proceed with an empty string
}
