package eventtracker

import (
	"sync/atomic"

	"github.com/mbsj/go-event-tracker/interfaces"
)

// configSnapshot is an immutable view of the tracker's configuration. It is never modified after
// being published; every change publishes a new one.
type configSnapshot struct {
	config      Config
	location    *interfaces.Location
	initialized bool
}

// configStore holds the current configuration snapshot. Readers always see either the previous
// or the new snapshot in full.
//
// configStore also implements subsystems.EnvironmentSource, so that the delivery queue picks the
// collection service of the current configuration at the time each event is sent.
type configStore struct {
	current atomic.Pointer[configSnapshot]
}

func newConfigStore() *configStore {
	s := &configStore{}
	s.current.Store(&configSnapshot{})
	return s
}

// get returns the current snapshot, or nil if Initialize has not been called.
func (s *configStore) get() *configSnapshot {
	snap := s.current.Load()
	if !snap.initialized {
		return nil
	}
	return snap
}

// initialize replaces the configuration. A nil Location keeps the last known location.
func (s *configStore) initialize(config Config) {
	for {
		old := s.current.Load()
		next := &configSnapshot{config: config, location: old.location, initialized: true}
		if config.Location != nil {
			loc := *config.Location
			next.location = &loc
		}
		next.config.Location = nil
		if s.current.CompareAndSwap(old, next) {
			return
		}
	}
}

// setLocation replaces only the location; it can be called before initialize.
func (s *configStore) setLocation(location interfaces.Location) {
	for {
		old := s.current.Load()
		next := *old
		next.location = &location
		if s.current.CompareAndSwap(old, &next) {
			return
		}
	}
}

func (s *configStore) apiKey() string {
	if snap := s.get(); snap != nil {
		return snap.config.APIKey
	}
	return ""
}

// IsProduction is true until a non-production configuration has been set.
func (s *configStore) IsProduction() bool {
	if snap := s.get(); snap != nil {
		return snap.config.IsProduction()
	}
	return true
}
