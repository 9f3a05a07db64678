// Package eventtracker is the main package for the event tracker.
//
// This package contains the types and methods for the tracker itself ([Tracker]), its identity
// configuration ([Config]), the component options it is constructed with ([Options]), and the two
// kinds of events it reports ([PlayEvent] and [ShareEvent]).
//
// A typical application obtains the process-wide tracker, initializes it once its identity is
// known, and then reports events from anywhere:
//
//	tracker := eventtracker.SharedInstance()
//	err := tracker.Initialize(eventtracker.Config{
//	    APIKey:     "key123",
//	    AppDomain:  "com.example.app",
//	    AppName:    "DemoApp",
//	    AppVersion: "1.0",
//	})
//	...
//	err = tracker.TrackPlay(eventtracker.PlayEvent{RefID: "vid42", APISessionID: "sess9", ViewTimeSeconds: 42.5})
//
// Tracking methods never wait for network I/O. Events are handed to a delivery queue that posts
// them to the collection service in the order they were tracked, retrying transient failures in
// the background. Subpackages provide the configurable parts of that queue: see
// [github.com/mbsj/go-event-tracker/etcomponents] for builders, and
// [github.com/mbsj/go-event-tracker/etsqlite] or [github.com/mbsj/go-event-tracker/etbadger] for
// storage that keeps undelivered events across restarts.
package eventtracker
