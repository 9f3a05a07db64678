// Package etevents contains the delivery queue of the event tracker: an ordered, durable,
// retrying pipeline that takes serialized event records from the application and posts them to
// the collection service one at a time.
//
// Most applications will not use this package directly; it is configured through
// etcomponents.SendEvents().
package etevents
