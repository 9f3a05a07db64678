// Package testhelpers contains types and functions that may be useful in testing tracker functionality or
// custom integrations.
//
// Its subpackage storetest provides a standard test suite for custom EventQueueStore implementations.
//
// The APIs in this package and its subpackages are supported as part of the tracker.
package testhelpers

// Implementation note: the types and functions in this package are mainly meant for external use, but may
// be useful in tracker tests. Anything that is *only* for tracker tests should be in internal/sharedtest
// instead. Avoid putting anything here that depends on any packages other than subsystems and interfaces,
// since then it might not be possible to use it in other areas of the tracker without causing a cyclic
// reference (that's why storetest is a separate package).
