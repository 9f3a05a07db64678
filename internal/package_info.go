// Package internal contains implementation details that are shared between packages of the
// tracker, but are not exposed to application code.
package internal
