package endpoints

import (
	"strings"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/mbsj/go-event-tracker/interfaces"
)

// Environment is used internally to denote which collection service a URI is for.
type Environment int

const (
	Production    Environment = iota //nolint:revive // internal constant
	NonProduction Environment = iota //nolint:revive // internal constant
)

// EnvironmentFor maps the boolean used throughout the public API to an Environment.
func EnvironmentFor(isProduction bool) Environment {
	if isProduction {
		return Production
	}
	return NonProduction
}

func (e Environment) String() string {
	switch e {
	case Production:
		return "Production"
	case NonProduction:
		return "NonProduction"
	default:
		return "???"
	}
}

func anyCustom(serviceEndpoints interfaces.ServiceEndpoints) bool {
	return serviceEndpoints.Production != "" || serviceEndpoints.NonProduction != ""
}

func getCustom(serviceEndpoints interfaces.ServiceEndpoints, env Environment) string {
	switch env {
	case Production:
		return serviceEndpoints.Production
	case NonProduction:
		return serviceEndpoints.NonProduction
	default:
		return ""
	}
}

// IsCustom returns true if the service endpoint has been overridden with a non-default value.
func IsCustom(serviceEndpoints interfaces.ServiceEndpoints, env Environment) bool {
	uri := getCustom(serviceEndpoints, env)
	return uri != "" && strings.TrimSuffix(uri, "/") != strings.TrimSuffix(DefaultBaseURI(env), "/")
}

// DefaultBaseURI returns the default base URI for the given environment.
func DefaultBaseURI(env Environment) string {
	switch env {
	case Production:
		return DefaultProductionBaseURI
	case NonProduction:
		return DefaultNonProductionBaseURI
	default:
		return ""
	}
}

// SelectBaseURI is a helper for getting either a custom or a default URI for the given environment.
//
// If the application customized one environment but not the other, the missing one falls back to
// its default and an error is logged, since that usually means events from one of the two builds
// will go somewhere unexpected.
func SelectBaseURI(
	serviceEndpoints interfaces.ServiceEndpoints,
	env Environment,
	loggers ldlog.Loggers,
) string {
	var configuredBaseURI string
	if anyCustom(serviceEndpoints) {
		configuredBaseURI = getCustom(serviceEndpoints, env)
		if configuredBaseURI == "" {
			loggers.Errorf(
				"You have set custom ServiceEndpoints without specifying the %s base URI; events may not be delivered where you expect",
				env,
			)
			configuredBaseURI = DefaultBaseURI(env)
		}
	} else {
		configuredBaseURI = DefaultBaseURI(env)
	}
	return strings.TrimRight(configuredBaseURI, "/")
}

// AddPath concatenates a subpath to a URL in a way that will not cause a double slash.
func AddPath(baseURI string, path string) string {
	return strings.TrimSuffix(baseURI, "/") + "/" + strings.TrimPrefix(path, "/")
}
