package internal

import (
	"context"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"golang.org/x/sync/singleflight"

	"github.com/mbsj/go-event-tracker/interfaces"
)

const locationRefreshKey = "location"

// LocationRefresher asks a LocationProvider for the device's current location and passes the
// result to a callback. Refreshes requested while one is already running are coalesced into it.
type LocationRefresher struct {
	provider interfaces.LocationProvider
	update   func(interfaces.Location)
	timeout  time.Duration
	loggers  ldlog.Loggers
	group    singleflight.Group
}

// NewLocationRefresher creates a LocationRefresher. The timeout bounds each call to the provider.
func NewLocationRefresher(
	provider interfaces.LocationProvider,
	update func(interfaces.Location),
	timeout time.Duration,
	loggers ldlog.Loggers,
) *LocationRefresher {
	return &LocationRefresher{
		provider: provider,
		update:   update,
		timeout:  timeout,
		loggers:  loggers,
	}
}

// Refresh starts a refresh in the background. The returned channel is closed when the refresh
// this call joined has finished.
func (r *LocationRefresher) Refresh() <-chan struct{} {
	done := make(chan struct{})
	resultCh := r.group.DoChan(locationRefreshKey, func() (interface{}, error) {
		r.refreshNow()
		return nil, nil
	})
	go func() {
		<-resultCh
		close(done)
	}()
	return done
}

func (r *LocationRefresher) refreshNow() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	location, ok, err := r.provider.CurrentLocation(ctx)
	switch {
	case err != nil:
		r.loggers.Warnf("Unable to determine current location: %s", err)
	case !ok:
		r.loggers.Debug("No current location is available; keeping the last known location")
	case !location.IsValid():
		r.loggers.Warnf("Location provider returned an invalid location (%f, %f); ignoring it",
			location.Latitude, location.Longitude)
	default:
		r.update(location)
	}
}
