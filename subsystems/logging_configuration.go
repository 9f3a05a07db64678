package subsystems

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// LoggingConfiguration encapsulates the tracker's general logging configuration.
//
// See etcomponents.LoggingConfigurationBuilder for more details on these properties.
type LoggingConfiguration struct {
	// BaseLogger is the destination for log output. If nil, output goes to os.Stderr.
	BaseLogger ldlog.BaseLogger

	// MinLevel is the lowest level that will be written to BaseLogger.
	MinLevel ldlog.LogLevel

	// Disabled is true if no output should ever be produced, regardless of
	// Tracker.SetLoggingEnabled.
	Disabled bool
}
