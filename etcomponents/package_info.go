// Package etcomponents provides the standard configurable components of the event tracker.
//
// Applications use the builders in this package to customize an eventtracker.Options value:
//
//	options := eventtracker.Options{
//	    Events:  etcomponents.SendEvents().MaxAttempts(10).QueueStore(etsqlite.QueueStore("events.db")),
//	    Logging: etcomponents.Logging().MinLevel(ldlog.Debug),
//	}
//
// Any component that is not specified uses its default configuration.
package etcomponents
