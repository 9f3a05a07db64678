// Package etfile loads the tracker's identity configuration from a file, with optional reloading.
//
// The file may be JSON or YAML. Any field can be overridden by an environment variable:
//
//	# tracker.yaml
//	apiKey: key123
//	appDomain: com.example.app
//	appName: DemoApp
//	appVersion: "1.0"
//	environment: non-production
//	location:
//	  latitude: 37.77
//	  longitude: -122.42
//	loggingEnabled: true
//
// The environment variables are EVENT_TRACKER_API_KEY, EVENT_TRACKER_APP_DOMAIN,
// EVENT_TRACKER_APP_NAME, EVENT_TRACKER_APP_VERSION, EVENT_TRACKER_ENVIRONMENT, and
// EVENT_TRACKER_LOGGING_ENABLED.
//
// WatchConfigFile re-reads the file whenever it changes, so that for instance an API key can be
// rotated without restarting the process:
//
//	err := etfile.WatchConfigFile("tracker.yaml", loggers, func(config eventtracker.Config) {
//	    if err := tracker.Initialize(config); err != nil {
//	        loggers.Errorf("Invalid tracker configuration: %s", err)
//	    }
//	}, closeCh)
package etfile
