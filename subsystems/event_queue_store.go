package subsystems

import (
	"io"
)

// QueueEntry is one not-yet-delivered event held by an EventQueueStore.
type QueueEntry struct {
	// ID is the insertion-order identifier assigned by the store. IDs assigned by one store are
	// strictly increasing, including across process restarts while older entries remain.
	ID uint64
	// Data is the serialized event record.
	Data []byte
}

// EventQueueStore is an interface for the durable side of the delivery queue.
//
// The tracker mirrors every queued event into the store before the tracking call returns, and
// removes it only after the collection endpoint has confirmed delivery (or the event has been
// given up on). Any entries still present when the tracker is created are reloaded and
// delivered first.
//
// Implementations must be safe for concurrent use: Append is called from application goroutines,
// while Remove is called from the delivery worker.
type EventQueueStore interface {
	io.Closer

	// Append stores a new entry at the tail of the queue and returns its ID.
	Append(data []byte) (uint64, error)

	// Oldest returns up to limit entries in insertion order, starting with the oldest. A limit of
	// zero or less means all entries.
	Oldest(limit int) ([]QueueEntry, error)

	// Remove deletes the entry with the given ID. Removing an ID that does not exist is not an
	// error.
	Remove(id uint64) error

	// Count returns the number of entries currently stored.
	Count() (int, error)
}
