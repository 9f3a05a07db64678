package etbadger

import (
	"github.com/mbsj/go-event-tracker/subsystems"
)

// BadgerQueueStoreBuilder is a builder for configuring the Badger-based queue store.
//
// Obtain an instance of this type by calling QueueStore(). After calling its methods to specify any
// desired custom settings, pass it to etcomponents.EventProcessorBuilder.QueueStore().
//
// You do not need to call the builder's Build() method yourself to build the actual store; that
// will be done by the tracker.
type BadgerQueueStoreBuilder struct {
	dir        string
	syncWrites bool
}

// QueueStore returns a configurable builder for a Badger-backed queue store.
//
// The dir parameter is required; the directory is created if it does not exist.
func QueueStore(dir string) *BadgerQueueStoreBuilder {
	return &BadgerQueueStoreBuilder{
		dir:        dir,
		syncWrites: true,
	}
}

// SyncWrites specifies whether each write is synced to disk before it completes. This is true by
// default. Turning it off makes tracking calls faster, at the risk of losing the most recently
// tracked events if the operating system crashes.
func (b *BadgerQueueStoreBuilder) SyncWrites(syncWrites bool) *BadgerQueueStoreBuilder {
	b.syncWrites = syncWrites
	return b
}

// Build is called internally by the tracker to create the store implementation object.
func (b *BadgerQueueStoreBuilder) Build(clientContext subsystems.ClientContext) (subsystems.EventQueueStore, error) {
	loggers := clientContext.GetLoggers()
	loggers.SetPrefix("BadgerQueueStore:")
	return newBadgerQueueStoreImpl(b, loggers)
}
