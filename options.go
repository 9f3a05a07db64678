package eventtracker

import (
	"time"

	"github.com/mbsj/go-event-tracker/etevents"
	"github.com/mbsj/go-event-tracker/interfaces"
	"github.com/mbsj/go-event-tracker/subsystems"
)

// DefaultLocationTimeout is the default value for Options.LocationTimeout.
const DefaultLocationTimeout = 10 * time.Second

// Options exposes advanced configuration options for the tracker's components.
//
// All of these settings are optional, so an empty Options struct is always valid. See the
// description of each field for the default behavior if it is not set.
//
// Some of the fields are factories for subcomponents of the tracker. The actual implementation
// types, which have methods for configuring that subcomponent, are normally provided by
// corresponding functions in the etcomponents package. For instance, to use a durable queue and a
// shorter retry delay:
//
//	options := eventtracker.Options{
//	    Events: etcomponents.SendEvents().
//	        QueueStore(etsqlite.QueueStore("/var/lib/myapp/events.db")).
//	        RetryDelay(500*time.Millisecond, 30*time.Second),
//	}
type Options struct {
	// Sets the implementation of the delivery queue.
	//
	// If nil, the default is etcomponents.SendEvents(), which delivers events with default
	// settings and keeps undelivered events only in memory. Use etcomponents.NoEvents() to track
	// events without delivering them.
	Events subsystems.ComponentConfigurer[etevents.EventProcessor]

	// Provides configuration of the tracker's network connection behavior.
	//
	// If nil, the default is etcomponents.HTTPConfiguration().
	HTTP subsystems.ComponentConfigurer[subsystems.HTTPConfiguration]

	// Provides configuration of the tracker's logging behavior.
	//
	// If nil, the default is etcomponents.Logging(). Output is only written while logging is
	// enabled through Config.LoggingEnabled or Tracker.SetLoggingEnabled.
	Logging subsystems.ComponentConfigurer[subsystems.LoggingConfiguration]

	// Allows customization of the collection service URIs.
	//
	// This is only needed when sending events to a test service or a proxy. See
	// etcomponents.CustomEndpoints.
	ServiceEndpoints interfaces.ServiceEndpoints

	// Gives the tracker access to the platform's location services.
	//
	// If set, the tracker asks it for the current location each time the application reports that
	// it has become active. If nil, the location only changes through Config.Location and
	// Tracker.SetLocation.
	LocationProvider interfaces.LocationProvider

	// The maximum time to wait for LocationProvider to answer. If zero, DefaultLocationTimeout is
	// used.
	LocationTimeout time.Duration
}
