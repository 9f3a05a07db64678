package etcomponents

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/mbsj/go-event-tracker/subsystems"
)

// LoggingConfigurationBuilder contains methods for configuring the tracker's logging behavior.
//
// Log output is only produced while logging is enabled on the tracker, through Config.LoggingEnabled
// or Tracker.SetLoggingEnabled. These settings control where that output goes once it is enabled.
//
//	options := eventtracker.Options{
//	    Logging: etcomponents.Logging().MinLevel(ldlog.Warn),
//	}
type LoggingConfigurationBuilder struct {
	config subsystems.LoggingConfiguration
}

// Logging returns a configuration builder for the tracker's logging configuration.
//
// The default configuration writes messages at Info level and above to os.Stderr, with the
// prefix "[EventTracker] ".
func Logging() *LoggingConfigurationBuilder {
	return &LoggingConfigurationBuilder{
		config: subsystems.LoggingConfiguration{MinLevel: ldlog.Info},
	}
}

// BaseLogger specifies the destination for log output. Any implementation of ldlog.BaseLogger, such
// as a *log.Logger from the standard library, can be used.
func (b *LoggingConfigurationBuilder) BaseLogger(baseLogger ldlog.BaseLogger) *LoggingConfigurationBuilder {
	b.config.BaseLogger = baseLogger
	return b
}

// MinLevel specifies the minimum level for log output, where ldlog.Debug is the lowest and ldlog.Error
// is the highest. Log messages at a level lower than this will be suppressed. The default is
// ldlog.Info.
func (b *LoggingConfigurationBuilder) MinLevel(level ldlog.LogLevel) *LoggingConfigurationBuilder {
	b.config.MinLevel = level
	return b
}

// Build is called internally by the tracker.
func (b *LoggingConfigurationBuilder) Build(
	clientContext subsystems.ClientContext,
) (subsystems.LoggingConfiguration, error) {
	return b.config, nil
}

// NoLogging returns a configuration object that disables logging, even if logging is enabled on
// the tracker.
//
//	options := eventtracker.Options{
//	    Logging: etcomponents.NoLogging(),
//	}
func NoLogging() subsystems.ComponentConfigurer[subsystems.LoggingConfiguration] {
	return noLoggingConfigurer{}
}

type noLoggingConfigurer struct{}

func (noLoggingConfigurer) Build(subsystems.ClientContext) (subsystems.LoggingConfiguration, error) {
	return subsystems.LoggingConfiguration{MinLevel: ldlog.None, Disabled: true}, nil
}
