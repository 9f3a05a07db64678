// Package etsqlite provides a SQLite-backed EventQueueStore, so that undelivered events survive an
// application restart.
//
// The store is a single file on local disk, written through the pure-Go modernc.org/sqlite
// driver, so no C toolchain is required:
//
//	options := eventtracker.Options{
//	    Events: etcomponents.SendEvents().QueueStore(etsqlite.QueueStore("/var/lib/myapp/events.db")),
//	}
//
// Only one tracker at a time should use a given file.
package etsqlite
