// Package queuestore is an internal package containing the in-memory implementation of
// subsystems.EventQueueStore. It is not exposed directly; applications obtain it from
// etcomponents.InMemoryQueueStore.
package queuestore
