package subsystems

import (
	"net/http"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/mbsj/go-event-tracker/interfaces"
)

// EnvironmentSource reports which environment events should currently be delivered to.
//
// The tracker's configuration store implements this interface, so that a change of environment
// made by calling Initialize again applies to events that are still waiting in the queue.
type EnvironmentSource interface {
	IsProduction() bool
}

// ClientContext provides context information from the Tracker when creating other components.
//
// This is passed as a parameter to the Build methods of the component configurers. The actual
// implementation type may contain other properties that are only relevant to the built-in
// components and are therefore not part of the public interface. For test purposes you may use
// the simple struct type BasicClientContext.
type ClientContext interface {
	// GetHTTP returns the configured HTTPConfiguration.
	GetHTTP() HTTPConfiguration

	// GetLoggers returns the loggers that components should write to. Output through these
	// loggers is suppressed while logging is disabled on the tracker.
	GetLoggers() ldlog.Loggers

	// GetServiceEndpoints returns the configuration for service URIs.
	GetServiceEndpoints() interfaces.ServiceEndpoints

	// GetEnvironment returns the source of the current delivery environment.
	GetEnvironment() EnvironmentSource
}

// BasicClientContext is the basic implementation of the ClientContext interface, not including any
// private fields that the tracker may use for implementation details.
type BasicClientContext struct {
	HTTP             HTTPConfiguration
	Loggers          ldlog.Loggers
	ServiceEndpoints interfaces.ServiceEndpoints
	Environment      EnvironmentSource
}

func (b BasicClientContext) GetHTTP() HTTPConfiguration { //nolint:revive
	ret := b.HTTP
	if ret.CreateHTTPClient == nil {
		ret.CreateHTTPClient = func() *http.Client {
			client := *http.DefaultClient
			return &client
		}
	}
	return ret
}

func (b BasicClientContext) GetLoggers() ldlog.Loggers { return b.Loggers } //nolint:revive

func (b BasicClientContext) GetServiceEndpoints() interfaces.ServiceEndpoints { //nolint:revive
	return b.ServiceEndpoints
}

func (b BasicClientContext) GetEnvironment() EnvironmentSource { //nolint:revive
	if b.Environment == nil {
		return productionOnly{}
	}
	return b.Environment
}

type productionOnly struct{}

func (productionOnly) IsProduction() bool { return true }
