package interfaces

import (
	"context"
	"math"
)

// Location is a device position in decimal degrees.
type Location struct {
	Latitude  float64
	Longitude float64
}

// IsValid returns true if both coordinates are finite and within the WGS84 ranges.
func (l Location) IsValid() bool {
	if math.IsNaN(l.Latitude) || math.IsNaN(l.Longitude) {
		return false
	}
	return l.Latitude >= -90 && l.Latitude <= 90 && l.Longitude >= -180 && l.Longitude <= 180
}

// LocationProvider is implemented by the application to give the tracker access to the
// platform's location services.
//
// The tracker calls CurrentLocation on its own goroutine whenever the application reports that it
// has become active again, so implementations may block until the platform answers or ctx is done.
// Returning ok == false means that no location is currently known; in that case the tracker keeps
// whatever location it had before.
type LocationProvider interface {
	CurrentLocation(ctx context.Context) (location Location, ok bool, err error)
}

// LocationProviderFunc adapts an ordinary function to the LocationProvider interface.
type LocationProviderFunc func(ctx context.Context) (Location, bool, error)

// CurrentLocation calls f(ctx).
func (f LocationProviderFunc) CurrentLocation(ctx context.Context) (Location, bool, error) {
	return f(ctx)
}
