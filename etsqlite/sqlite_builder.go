package etsqlite

import (
	"time"

	"github.com/mbsj/go-event-tracker/subsystems"
)

const (
	// DefaultBusyTimeout is the default value for SQLiteQueueStoreBuilder.BusyTimeout.
	DefaultBusyTimeout = 5 * time.Second
)

// SQLiteQueueStoreBuilder is a builder for configuring the SQLite-based queue store.
//
// Obtain an instance of this type by calling QueueStore(). After calling its methods to specify any
// desired custom settings, pass it to etcomponents.EventProcessorBuilder.QueueStore().
//
// Builder calls can be chained, for example:
//
//	etcomponents.SendEvents().QueueStore(etsqlite.QueueStore("events.db").BusyTimeout(time.Second))
//
// You do not need to call the builder's Build() method yourself to build the actual store; that
// will be done by the tracker.
type SQLiteQueueStoreBuilder struct {
	path        string
	busyTimeout time.Duration
}

// QueueStore returns a configurable builder for a SQLite-backed queue store.
//
// The path parameter is required. The file is created if it does not exist, and its schema is
// created or upgraded as needed; the directory containing it must already exist.
func QueueStore(path string) *SQLiteQueueStoreBuilder {
	return &SQLiteQueueStoreBuilder{
		path:        path,
		busyTimeout: DefaultBusyTimeout,
	}
}

// BusyTimeout specifies how long a write waits for a lock held by another connection to the same
// file before failing. The default value is DefaultBusyTimeout.
func (b *SQLiteQueueStoreBuilder) BusyTimeout(busyTimeout time.Duration) *SQLiteQueueStoreBuilder {
	if busyTimeout <= 0 {
		busyTimeout = DefaultBusyTimeout
	}
	b.busyTimeout = busyTimeout
	return b
}

// Build is called internally by the tracker to create the store implementation object.
func (b *SQLiteQueueStoreBuilder) Build(clientContext subsystems.ClientContext) (subsystems.EventQueueStore, error) {
	loggers := clientContext.GetLoggers()
	loggers.SetPrefix("SQLiteQueueStore:")
	return newSQLiteQueueStoreImpl(b, loggers)
}
