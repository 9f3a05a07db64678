package testhelpers

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/mbsj/go-event-tracker/interfaces"
	"github.com/mbsj/go-event-tracker/subsystems"
)

// SimpleClientContext is a reference implementation of subsystems.ClientContext for test code.
//
// The tracker uses the ClientContext interface to pass its configuration to subcomponents.
// SimpleClientContext may be useful for external code to test a custom component.
type SimpleClientContext struct {
	basic subsystems.BasicClientContext
}

// NewSimpleClientContext creates a SimpleClientContext instance, with a standard HTTP configuration,
// disabled logging, default service endpoints, and the production environment.
func NewSimpleClientContext() SimpleClientContext {
	return SimpleClientContext{basic: subsystems.BasicClientContext{Loggers: ldlog.NewDisabledLoggers()}}
}

func (s SimpleClientContext) GetHTTP() subsystems.HTTPConfiguration { //nolint:revive
	return s.basic.GetHTTP()
}

func (s SimpleClientContext) GetLoggers() ldlog.Loggers { //nolint:revive
	return s.basic.GetLoggers()
}

func (s SimpleClientContext) GetServiceEndpoints() interfaces.ServiceEndpoints { //nolint:revive
	return s.basic.GetServiceEndpoints()
}

func (s SimpleClientContext) GetEnvironment() subsystems.EnvironmentSource { //nolint:revive
	return s.basic.GetEnvironment()
}

// WithHTTP returns a new SimpleClientContext based on the original one, but adding the specified
// HTTP configuration.
func (s SimpleClientContext) WithHTTP(httpConfig subsystems.HTTPConfiguration) SimpleClientContext {
	ret := s
	ret.basic.HTTP = httpConfig
	return ret
}

// WithLoggers returns a new SimpleClientContext based on the original one, but writing log output
// to the specified Loggers.
func (s SimpleClientContext) WithLoggers(loggers ldlog.Loggers) SimpleClientContext {
	ret := s
	ret.basic.Loggers = loggers
	return ret
}

// WithServiceEndpoints returns a new SimpleClientContext based on the original one, but with the
// specified service endpoints.
func (s SimpleClientContext) WithServiceEndpoints(endpoints interfaces.ServiceEndpoints) SimpleClientContext {
	ret := s
	ret.basic.ServiceEndpoints = endpoints
	return ret
}

// WithEnvironment returns a new SimpleClientContext based on the original one, but reporting the
// environment from the specified source.
func (s SimpleClientContext) WithEnvironment(env subsystems.EnvironmentSource) SimpleClientContext {
	ret := s
	ret.basic.Environment = env
	return ret
}
