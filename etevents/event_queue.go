package etevents

import (
	"sync"
)

// queuedEvent is the in-memory representation of one queued event.
type queuedEvent struct {
	data []byte
	// storeID is the ID assigned by the queue store; it is meaningful only if persisted is true.
	storeID   uint64
	persisted bool
	// payloadID and attempts are only touched by the delivery worker.
	payloadID string
	attempts  int
}

// eventQueue is the ordered in-memory queue. Application goroutines push to the tail; the
// delivery worker peeks at and pops the head.
type eventQueue struct {
	events   []*queuedEvent
	capacity int
	lock     sync.Mutex
}

func newEventQueue(capacity int) *eventQueue {
	return &eventQueue{capacity: capacity}
}

// push appends the event unless the queue is full.
func (q *eventQueue) push(e *queuedEvent) bool {
	q.lock.Lock()
	defer q.lock.Unlock()
	if len(q.events) >= q.capacity {
		return false
	}
	q.events = append(q.events, e)
	return true
}

// hasRoom is a quick check used to avoid writing an event to the store only to drop it.
func (q *eventQueue) hasRoom() bool {
	q.lock.Lock()
	defer q.lock.Unlock()
	return len(q.events) < q.capacity
}

func (q *eventQueue) peek() (*queuedEvent, bool) {
	q.lock.Lock()
	defer q.lock.Unlock()
	if len(q.events) == 0 {
		return nil, false
	}
	return q.events[0], true
}

// pop removes e from the head of the queue. It is a no-op if e is no longer at the head.
func (q *eventQueue) pop(e *queuedEvent) {
	q.lock.Lock()
	defer q.lock.Unlock()
	if len(q.events) == 0 || q.events[0] != e {
		return
	}
	q.events[0] = nil
	q.events = q.events[1:]
	if len(q.events) == 0 {
		q.events = nil // let the backing array go
	}
}

func (q *eventQueue) len() int {
	q.lock.Lock()
	defer q.lock.Unlock()
	return len(q.events)
}
