package mocks

import (
	"sync"

	"github.com/mbsj/go-event-tracker/etevents"
)

// CapturingEventProcessor is a test implementation of etevents.EventProcessor that accumulates all
// enqueued records instead of delivering them.
type CapturingEventProcessor struct {
	events  [][]byte
	started int
	flushes int
	closed  bool
	// Reject, if set, makes Enqueue discard every event and return false.
	Reject bool
	lock   sync.Mutex
}

var _ etevents.EventProcessor = (*CapturingEventProcessor)(nil)

// NewCapturingEventProcessor creates a CapturingEventProcessor.
func NewCapturingEventProcessor() *CapturingEventProcessor {
	return &CapturingEventProcessor{}
}

func (c *CapturingEventProcessor) Start() { //nolint:revive
	c.lock.Lock()
	c.started++
	c.lock.Unlock()
}

func (c *CapturingEventProcessor) Enqueue(data []byte) bool { //nolint:revive
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.Reject || c.closed {
		return false
	}
	c.events = append(c.events, append([]byte(nil), data...))
	return true
}

func (c *CapturingEventProcessor) Flush() { //nolint:revive
	c.lock.Lock()
	c.flushes++
	c.lock.Unlock()
}

func (c *CapturingEventProcessor) Len() int { //nolint:revive
	c.lock.Lock()
	defer c.lock.Unlock()
	return len(c.events)
}

func (c *CapturingEventProcessor) Close() error { //nolint:revive
	c.lock.Lock()
	c.closed = true
	c.lock.Unlock()
	return nil
}

// Events returns a copy of the records enqueued so far.
func (c *CapturingEventProcessor) Events() [][]byte {
	c.lock.Lock()
	defer c.lock.Unlock()
	return append([][]byte(nil), c.events...)
}

// StartCount returns the number of times Start was called.
func (c *CapturingEventProcessor) StartCount() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.started
}

// FlushCount returns the number of times Flush was called.
func (c *CapturingEventProcessor) FlushCount() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.flushes
}

// IsClosed returns true if Close was called.
func (c *CapturingEventProcessor) IsClosed() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.closed
}
