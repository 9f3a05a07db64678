// Package subsystems contains interfaces for implementation of custom event tracker components.
//
// Most applications will not need to refer to these types. You will use them if you are creating a
// plug-in component, such as a queue store integration, or a test fixture. They are also used as
// interfaces for the built-in components, so that plugin components can be used interchangeably
// with those: for instance, Options.QueueStore uses the type subsystems.EventQueueStore as an
// abstraction for the durable part of the delivery queue.
//
// The package also includes concrete types that are used as parameters within these interfaces.
package subsystems
