package etfile

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/caarlos0/env/v11"
	"gopkg.in/ghodss/yaml.v1"

	eventtracker "github.com/mbsj/go-event-tracker"
	"github.com/mbsj/go-event-tracker/interfaces"
)

const (
	productionName    = "production"
	nonProductionName = "non-production"
)

type fileConfig struct {
	APIKey         string        `json:"apiKey"`
	AppDomain      string        `json:"appDomain"`
	AppName        string        `json:"appName"`
	AppVersion     string        `json:"appVersion"`
	Environment    string        `json:"environment"`
	Location       *fileLocation `json:"location"`
	LoggingEnabled bool          `json:"loggingEnabled"`
}

type fileLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type envConfig struct {
	APIKey         string `env:"EVENT_TRACKER_API_KEY"`
	AppDomain      string `env:"EVENT_TRACKER_APP_DOMAIN"`
	AppName        string `env:"EVENT_TRACKER_APP_NAME"`
	AppVersion     string `env:"EVENT_TRACKER_APP_VERSION"`
	Environment    string `env:"EVENT_TRACKER_ENVIRONMENT"`
	LoggingEnabled string `env:"EVENT_TRACKER_LOGGING_ENABLED"`
}

// LoadConfig reads a configuration file and then applies any environment variable overrides. If
// path is empty, the configuration comes from environment variables alone.
//
// The result is not validated beyond parsing; Tracker.Initialize reports missing required fields.
func LoadConfig(path string) (eventtracker.Config, error) {
	var fc fileConfig
	if path != "" {
		var err error
		if fc, err = readFile(path); err != nil {
			return eventtracker.Config{}, err
		}
	}
	if err := applyEnv(&fc); err != nil {
		return eventtracker.Config{}, err
	}
	return fc.toConfig()
}

func readFile(path string) (fileConfig, error) {
	var data fileConfig
	rawData, err := os.ReadFile(path) //nolint:gosec // G304: reading a caller-specified path is intended
	if err != nil {
		return data, fmt.Errorf("unable to read file: %w", err)
	}
	if detectJSON(rawData) {
		err = json.Unmarshal(rawData, &data)
	} else {
		err = yaml.Unmarshal(rawData, &data)
	}
	if err != nil {
		return data, fmt.Errorf("error parsing file %s: %w", path, err)
	}
	return data, nil
}

func detectJSON(rawData []byte) bool {
	// A valid JSON file for our purposes must be an object, i.e. it must start with '{'
	return strings.HasPrefix(strings.TrimLeftFunc(string(rawData), unicode.IsSpace), "{")
}

func applyEnv(fc *fileConfig) error {
	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	overrideString(&fc.APIKey, ec.APIKey)
	overrideString(&fc.AppDomain, ec.AppDomain)
	overrideString(&fc.AppName, ec.AppName)
	overrideString(&fc.AppVersion, ec.AppVersion)
	overrideString(&fc.Environment, ec.Environment)
	if ec.LoggingEnabled != "" {
		enabled, err := strconv.ParseBool(ec.LoggingEnabled)
		if err != nil {
			return fmt.Errorf("parse env: EVENT_TRACKER_LOGGING_ENABLED: %w", err)
		}
		fc.LoggingEnabled = enabled
	}
	return nil
}

func overrideString(target *string, value string) {
	if value != "" {
		*target = value
	}
}

func (fc fileConfig) toConfig() (eventtracker.Config, error) {
	config := eventtracker.Config{
		APIKey:         fc.APIKey,
		AppDomain:      fc.AppDomain,
		AppName:        fc.AppName,
		AppVersion:     fc.AppVersion,
		LoggingEnabled: fc.LoggingEnabled,
	}
	switch strings.ToLower(strings.TrimSpace(fc.Environment)) {
	case "", productionName:
		config.Environment = eventtracker.Production
	case nonProductionName:
		config.Environment = eventtracker.NonProduction
	default:
		return eventtracker.Config{}, fmt.Errorf("unknown environment %q (expected %q or %q)",
			fc.Environment, productionName, nonProductionName)
	}
	if fc.Location != nil {
		config.Location = &interfaces.Location{Latitude: fc.Location.Latitude, Longitude: fc.Location.Longitude}
	}
	return config, nil
}
