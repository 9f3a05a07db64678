package etcomponents

import (
	"github.com/mbsj/go-event-tracker/etevents"
	"github.com/mbsj/go-event-tracker/subsystems"
)

type nullEventProcessorFactory struct{}

// NoEvents returns a configuration object that disables event delivery.
//
// Storing this in Options.Events causes the tracker to validate and build events as usual, but
// then discard them instead of sending them, regardless of any other configuration. This can be
// useful in tests or in builds that should never contact the collection service.
//
//	options := eventtracker.Options{
//	    Events: etcomponents.NoEvents(),
//	}
func NoEvents() subsystems.ComponentConfigurer[etevents.EventProcessor] {
	return nullEventProcessorFactory{}
}

func (f nullEventProcessorFactory) Build(subsystems.ClientContext) (etevents.EventProcessor, error) {
	return etevents.NewNullEventProcessor(), nil
}
