package eventtracker

import (
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/mbsj/go-event-tracker/etcomponents"
	"github.com/mbsj/go-event-tracker/etevents"
	"github.com/mbsj/go-event-tracker/interfaces"
	"github.com/mbsj/go-event-tracker/internal"
	"github.com/mbsj/go-event-tracker/subsystems"
)

// Version is the tracker's release version.
const Version = internal.TrackerVersion

// Tracker is the event tracker.
//
// Create it with New, or use the process-wide instance returned by SharedInstance. A Tracker must
// be initialized with a Config before events can be tracked; until then the tracking methods
// return ErrUninitialized.
//
// All methods are safe for concurrent use, and none of them wait for network I/O.
type Tracker struct {
	configStore       *configStore
	builder           eventBuilder
	eventProcessor    etevents.EventProcessor
	locationRefresher *internal.LocationRefresher
	loggingEnabled    *atomic.Bool
	loggers           ldlog.Loggers
	startOnce         sync.Once
	closeOnce         sync.Once
	closed            atomic.Bool
}

// New creates a Tracker with the specified component options.
//
// The returned Tracker is not yet initialized. Undelivered events left in a durable queue store by
// an earlier run are loaded into the queue immediately, and are delivered once Initialize has been
// called.
//
// An error is returned only if a component could not be created, for instance if a persistent
// queue store could not be opened.
func New(options Options) (*Tracker, error) {
	enabled := &atomic.Bool{}
	bootstrapContext := subsystems.BasicClientContext{Loggers: ldlog.NewDisabledLoggers()}

	loggingConfigurer := options.Logging
	if loggingConfigurer == nil {
		loggingConfigurer = etcomponents.Logging()
	}
	loggingConfig, err := loggingConfigurer.Build(bootstrapContext)
	if err != nil {
		return nil, fmt.Errorf("invalid logging configuration: %w", err)
	}
	loggers := makeLoggers(loggingConfig, enabled)

	httpConfigurer := options.HTTP
	if httpConfigurer == nil {
		httpConfigurer = etcomponents.HTTPConfiguration()
	}
	httpConfig, err := httpConfigurer.Build(subsystems.BasicClientContext{Loggers: loggers})
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP configuration: %w", err)
	}

	store := newConfigStore()
	clientContext := subsystems.BasicClientContext{
		HTTP:             httpConfig,
		Loggers:          loggers,
		ServiceEndpoints: options.ServiceEndpoints,
		Environment:      store,
	}

	eventsConfigurer := options.Events
	if eventsConfigurer == nil {
		eventsConfigurer = etcomponents.SendEvents()
	}
	eventProcessor, err := eventsConfigurer.Build(clientContext)
	if err != nil {
		return nil, err
	}

	t := &Tracker{
		configStore:    store,
		builder:        eventBuilder{loggers: loggers},
		eventProcessor: eventProcessor,
		loggingEnabled: enabled,
		loggers:        loggers,
	}
	if options.LocationProvider != nil {
		timeout := options.LocationTimeout
		if timeout <= 0 {
			timeout = DefaultLocationTimeout
		}
		t.locationRefresher = internal.NewLocationRefresher(options.LocationProvider, store.setLocation, timeout, loggers)
	}
	return t, nil
}

func makeLoggers(config subsystems.LoggingConfiguration, enabled *atomic.Bool) ldlog.Loggers {
	if config.Disabled {
		return ldlog.NewDisabledLoggers()
	}
	base := config.BaseLogger
	if base == nil {
		base = log.New(os.Stderr, "[EventTracker] ", log.LstdFlags)
	}
	loggers := ldlog.Loggers{}
	loggers.SetBaseLogger(internal.NewGatedBaseLogger(base, enabled))
	loggers.SetMinLevel(config.MinLevel)
	return loggers
}

// Initialize sets the tracker's configuration.
//
// It can be called again at any time, for instance to rotate the API key; the new values replace
// all earlier ones, and apply to every event tracked afterward. Events that are already queued
// keep the values they were built with, but are delivered to the collection service of the
// current Environment.
//
// The first successful call starts delivery of queued events. An error wrapping ErrInvalidConfig
// is returned if APIKey or AppDomain is empty; the existing configuration is then left as it was.
func (t *Tracker) Initialize(config Config) error {
	if t == nil {
		internal.LogErrorNilPointerMethod("Tracker")
		return ErrUninitialized
	}
	if err := config.validate(); err != nil {
		return err
	}
	t.loggingEnabled.Store(config.LoggingEnabled)
	t.configStore.initialize(config)
	t.loggers.Infof("Event tracker %s initialized for %s (%s)", Version, config.AppDomain, config.Environment)
	t.startOnce.Do(t.eventProcessor.Start)
	return nil
}

// SetLocation updates the device location that is added to subsequently tracked events, without
// changing any other configuration. It can be called before Initialize. Coordinates outside the
// valid ranges are ignored.
func (t *Tracker) SetLocation(latitude, longitude float64) {
	if t == nil {
		internal.LogErrorNilPointerMethod("Tracker")
		return
	}
	location := interfaces.Location{Latitude: latitude, Longitude: longitude}
	if !location.IsValid() {
		t.loggers.Warnf("Ignoring invalid location (%f, %f)", latitude, longitude)
		return
	}
	t.configStore.setLocation(location)
}

// LocationUpdated is the notification form of SetLocation, for applications that forward platform
// location callbacks to the tracker.
func (t *Tracker) LocationUpdated(latitude, longitude float64) {
	t.SetLocation(latitude, longitude)
}

// SetLoggingEnabled turns diagnostic log output on or off. Logging is off by default.
func (t *Tracker) SetLoggingEnabled(enabled bool) {
	if t == nil {
		internal.LogErrorNilPointerMethod("Tracker")
		return
	}
	t.loggingEnabled.Store(enabled)
}

// APIKey returns the API key of the current configuration, or "" if the tracker has not been
// initialized.
func (t *Tracker) APIKey() string {
	if t == nil {
		internal.LogErrorNilPointerMethod("Tracker")
		return ""
	}
	return t.configStore.apiKey()
}

// TrackPlay reports that the user watched a video.
//
// The event is validated, combined with the current configuration, and queued for delivery before
// TrackPlay returns; delivery happens in the background. An error is returned, and nothing is
// queued, if the tracker is not initialized (ErrUninitialized), has been closed (ErrTrackerClosed),
// or the event is invalid (an *InvalidEventError matching ErrInvalidEvent).
func (t *Tracker) TrackPlay(event PlayEvent) error {
	if t == nil {
		internal.LogErrorNilPointerMethod("Tracker")
		return ErrUninitialized
	}
	return t.track(playKind, func(snap *configSnapshot) (ldvalue.Value, error) {
		return t.builder.buildPlay(snap, event)
	})
}

// TrackShare reports that the user shared a video. See TrackPlay for the error behavior.
func (t *Tracker) TrackShare(event ShareEvent) error {
	if t == nil {
		internal.LogErrorNilPointerMethod("Tracker")
		return ErrUninitialized
	}
	return t.track(shareKind, func(snap *configSnapshot) (ldvalue.Value, error) {
		return t.builder.buildShare(snap, event)
	})
}

func (t *Tracker) track(kind string, build func(*configSnapshot) (ldvalue.Value, error)) error {
	err := t.trackInternal(build)
	if err != nil {
		t.loggers.Warnf("Unable to track %s event: %s", kind, err)
	}
	return err
}

func (t *Tracker) trackInternal(build func(*configSnapshot) (ldvalue.Value, error)) error {
	if t.closed.Load() {
		return ErrTrackerClosed
	}
	snap := t.configStore.get()
	if snap == nil {
		return ErrUninitialized
	}
	record, err := build(snap)
	if err != nil {
		return err
	}
	data, err := record.MarshalJSON()
	if err != nil {
		return fmt.Errorf("unable to serialize event: %w", err)
	}
	if t.loggers.IsDebugEnabled() {
		t.loggers.Debugf("Queueing event: %s", data)
	}
	t.eventProcessor.Enqueue(data)
	return nil
}

// ApplicationDidBecomeActive should be called when the application returns to the foreground.
//
// If a LocationProvider is configured, the tracker asks it for the current location in the
// background. Delivery of queued events is attempted immediately, cutting short any retry delay.
func (t *Tracker) ApplicationDidBecomeActive() {
	if t == nil {
		internal.LogErrorNilPointerMethod("Tracker")
		return
	}
	t.appResumed()
}

// AppResumed is the notification form of ApplicationDidBecomeActive.
func (t *Tracker) AppResumed() {
	t.ApplicationDidBecomeActive()
}

// appResumed returns a channel that is closed when the location refresh it started, if any, is done.
func (t *Tracker) appResumed() <-chan struct{} {
	var done <-chan struct{}
	if t.locationRefresher != nil {
		done = t.locationRefresher.Refresh()
	} else {
		ch := make(chan struct{})
		close(ch)
		done = ch
	}
	t.eventProcessor.Flush()
	return done
}

// Flush attempts delivery of queued events immediately, cutting short any retry delay.
func (t *Tracker) Flush() {
	if t == nil {
		internal.LogErrorNilPointerMethod("Tracker")
		return
	}
	t.eventProcessor.Flush()
}

// QueueLength returns the number of tracked events that have not yet been delivered or dropped.
func (t *Tracker) QueueLength() int {
	if t == nil {
		internal.LogErrorNilPointerMethod("Tracker")
		return 0
	}
	return t.eventProcessor.Len()
}

// Close shuts down the tracker.
//
// Delivery stops; a request in progress is abandoned and its event stays queued. Events that have
// not been delivered remain in the queue store, so a durable store delivers them after the next
// start. Tracking methods return ErrTrackerClosed afterward. Closing the tracker is not required
// before the process exits, since every queued event is already in the store.
func (t *Tracker) Close() error {
	if t == nil {
		internal.LogErrorNilPointerMethod("Tracker")
		return nil
	}
	var err error
	t.closeOnce.Do(func() {
		t.closed.Store(true)
		t.loggers.Info("Closing event tracker")
		err = t.eventProcessor.Close()
	})
	return err
}
