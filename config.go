package eventtracker

import (
	"fmt"
	"strings"

	"github.com/mbsj/go-event-tracker/interfaces"
)

// Environment selects which collection service events are delivered to.
type Environment int

const (
	// Production is the default environment.
	Production Environment = iota
	// NonProduction routes events to the staging collection service, so that test traffic does not
	// appear in production analytics.
	NonProduction
)

// String returns "production" or "non-production".
func (e Environment) String() string {
	if e == NonProduction {
		return "non-production"
	}
	return "production"
}

// Config describes the identity of the application that is reporting events.
//
// It is passed to Tracker.Initialize. Every field except Location and LoggingEnabled is copied into
// every event record. APIKey and AppDomain are required; all other fields are optional.
type Config struct {
	// APIKey is the key issued for the application by the collection service.
	APIKey string
	// AppDomain is the application's bundle or package identifier, such as "com.example.app".
	AppDomain string
	// AppName is a human-readable application name.
	AppName string
	// AppVersion is the application's version string.
	AppVersion string
	// Environment selects the production or non-production collection service. The zero value is
	// Production.
	Environment Environment
	// Location is the last known device location, if any. If nil, the tracker keeps any location
	// it already knows from an earlier Initialize, SetLocation, or location refresh.
	Location *interfaces.Location
	// LoggingEnabled turns on diagnostic log output. It can also be changed at any time with
	// Tracker.SetLoggingEnabled.
	LoggingEnabled bool
}

// IsProduction returns true if the Environment is Production.
func (c Config) IsProduction() bool {
	return c.Environment != NonProduction
}

func (c Config) validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return invalidConfig("APIKey")
	}
	if strings.TrimSpace(c.AppDomain) == "" {
		return invalidConfig("AppDomain")
	}
	if c.Location != nil && !c.Location.IsValid() {
		return fmt.Errorf("%w: location (%f, %f) is out of range", ErrInvalidConfig,
			c.Location.Latitude, c.Location.Longitude)
	}
	return nil
}
