package etcomponents

import (
	"github.com/mbsj/go-event-tracker/internal/queuestore"
	"github.com/mbsj/go-event-tracker/subsystems"
)

type inMemoryQueueStoreFactory struct{}

func (f inMemoryQueueStoreFactory) Build(subsystems.ClientContext) (subsystems.EventQueueStore, error) {
	return queuestore.NewInMemoryQueueStore(), nil
}

// InMemoryQueueStore returns the default queue store factory. Events queued in memory are lost if
// the process exits before they are delivered; for delivery that survives restarts use a durable
// store such as etsqlite.QueueStore or etbadger.QueueStore.
func InMemoryQueueStore() subsystems.ComponentConfigurer[subsystems.EventQueueStore] {
	return inMemoryQueueStoreFactory{}
}
