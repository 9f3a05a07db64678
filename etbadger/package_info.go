// Package etbadger provides an EventQueueStore backed by an embedded BadgerDB key-value store, so that
// undelivered events survive an application restart.
//
//	options := eventtracker.Options{
//	    Events: etcomponents.SendEvents().QueueStore(etbadger.QueueStore("/var/lib/myapp/event-queue")),
//	}
//
// BadgerDB holds an exclusive lock on its directory, so only one tracker at a time can use it.
package etbadger
