package etfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eventtracker "github.com/mbsj/go-event-tracker"
	"github.com/mbsj/go-event-tracker/interfaces"
)

const yamlConfig = `
apiKey: key123
appDomain: com.example.app
appName: DemoApp
appVersion: "1.0"
environment: non-production
location:
  latitude: 37.5
  longitude: -122.25
loggingEnabled: true
`

const jsonConfig = `  {"apiKey": "key123", "appDomain": "com.example.app", "appName": "DemoApp", "appVersion": "1.0",
 "environment": "non-production", "location": {"latitude": 37.5, "longitude": -122.25}, "loggingEnabled": true}`

var expectedConfig = eventtracker.Config{
	APIKey:         "key123",
	AppDomain:      "com.example.app",
	AppName:        "DemoApp",
	AppVersion:     "1.0",
	Environment:    eventtracker.NonProduction,
	Location:       &interfaces.Location{Latitude: 37.5, Longitude: -122.25},
	LoggingEnabled: true,
}

func writeConfigFile(t *testing.T, dir, text string) string {
	path := filepath.Join(dir, "tracker-config")
	require.NoError(t, os.WriteFile(path, []byte(text), 0600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("YAML", func(t *testing.T) {
		config, err := LoadConfig(writeConfigFile(t, t.TempDir(), yamlConfig))
		require.NoError(t, err)
		assert.Equal(t, expectedConfig, config)
	})

	t.Run("JSON", func(t *testing.T) {
		config, err := LoadConfig(writeConfigFile(t, t.TempDir(), jsonConfig))
		require.NoError(t, err)
		assert.Equal(t, expectedConfig, config)
	})

	t.Run("environment defaults to production", func(t *testing.T) {
		config, err := LoadConfig(writeConfigFile(t, t.TempDir(), "apiKey: k\nappDomain: d\n"))
		require.NoError(t, err)
		assert.Equal(t, eventtracker.Config{APIKey: "k", AppDomain: "d", Environment: eventtracker.Production}, config)
	})

	t.Run("unknown environment", func(t *testing.T) {
		_, err := LoadConfig(writeConfigFile(t, t.TempDir(), "apiKey: k\nenvironment: qa\n"))
		assert.ErrorContains(t, err, `unknown environment "qa"`)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "no-such-file"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed file", func(t *testing.T) {
		_, err := LoadConfig(writeConfigFile(t, t.TempDir(), "{not json"))
		assert.ErrorContains(t, err, "error parsing file")
	})

	t.Run("required fields are not checked", func(t *testing.T) {
		config, err := LoadConfig(writeConfigFile(t, t.TempDir(), "appName: DemoApp\n"))
		require.NoError(t, err)
		assert.Equal(t, "", config.APIKey)
	})
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	t.Run("variables replace file values", func(t *testing.T) {
		t.Setenv("EVENT_TRACKER_API_KEY", "rotated")
		t.Setenv("EVENT_TRACKER_ENVIRONMENT", "production")
		t.Setenv("EVENT_TRACKER_LOGGING_ENABLED", "false")

		config, err := LoadConfig(writeConfigFile(t, t.TempDir(), yamlConfig))
		require.NoError(t, err)
		expected := expectedConfig
		expected.APIKey = "rotated"
		expected.Environment = eventtracker.Production
		expected.LoggingEnabled = false
		assert.Equal(t, expected, config)
	})

	t.Run("no file", func(t *testing.T) {
		t.Setenv("EVENT_TRACKER_API_KEY", "k")
		t.Setenv("EVENT_TRACKER_APP_DOMAIN", "d")
		t.Setenv("EVENT_TRACKER_APP_NAME", "n")
		t.Setenv("EVENT_TRACKER_APP_VERSION", "v")
		t.Setenv("EVENT_TRACKER_ENVIRONMENT", "non-production")
		t.Setenv("EVENT_TRACKER_LOGGING_ENABLED", "true")

		config, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, eventtracker.Config{
			APIKey:         "k",
			AppDomain:      "d",
			AppName:        "n",
			AppVersion:     "v",
			Environment:    eventtracker.NonProduction,
			LoggingEnabled: true,
		}, config)
	})

	t.Run("invalid boolean", func(t *testing.T) {
		t.Setenv("EVENT_TRACKER_LOGGING_ENABLED", "sometimes")
		_, err := LoadConfig("")
		assert.ErrorContains(t, err, "EVENT_TRACKER_LOGGING_ENABLED")
	})
}
