// Package replay parses eventtracker-replay flags and feeds recorded events through a tracker.
package replay

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	eventtracker "github.com/mbsj/go-event-tracker"
	"github.com/mbsj/go-event-tracker/etbadger"
	"github.com/mbsj/go-event-tracker/etcomponents"
	"github.com/mbsj/go-event-tracker/etfile"
	"github.com/mbsj/go-event-tracker/etmetrics"
	"github.com/mbsj/go-event-tracker/etsqlite"
)

const (
	maxLineSize          = 1024 * 1024
	drainPollInterval    = 100 * time.Millisecond
	metricsShutdownGrace = 5 * time.Second
)

// Config holds replay command configuration.
type Config struct {
	ConfigPath            string        `env:"EVENT_TRACKER_CONFIG_FILE"`
	DBPath                string        `env:"EVENT_TRACKER_DB_PATH"`
	BadgerDir             string        `env:"EVENT_TRACKER_BADGER_DIR"`
	Endpoint              string        `env:"EVENT_TRACKER_ENDPOINT"`
	NonProductionEndpoint string        `env:"EVENT_TRACKER_NON_PRODUCTION_ENDPOINT"`
	MetricsAddr           string        `env:"EVENT_TRACKER_METRICS_ADDR"`
	Watch                 bool          `env:"EVENT_TRACKER_WATCH_CONFIG"`
	DrainTimeout          time.Duration `env:"EVENT_TRACKER_DRAIN_TIMEOUT" envDefault:"30s"`
}

// Stats summarizes a replay.
type Stats struct {
	Tracked  int
	Rejected int
	Pending  int
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	fs.StringVar(&cfg.ConfigPath, "config", cfg.ConfigPath, "tracker configuration file (YAML or JSON)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database for the delivery queue (default: in memory)")
	fs.StringVar(&cfg.BadgerDir, "badger-dir", cfg.BadgerDir, "Badger directory for the delivery queue")
	fs.StringVar(&cfg.Endpoint, "endpoint", cfg.Endpoint, "base URI of the collection service")
	fs.StringVar(&cfg.NonProductionEndpoint, "non-production-endpoint", cfg.NonProductionEndpoint,
		"base URI for non-production events (default: same as -endpoint)")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "address to serve Prometheus metrics on")
	fs.BoolVar(&cfg.Watch, "watch", cfg.Watch, "reinitialize the tracker when the configuration file changes")
	fs.DurationVar(&cfg.DrainTimeout, "drain-timeout", cfg.DrainTimeout, "how long to wait for queued events at exit")
	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.DBPath != "" && cfg.BadgerDir != "" {
		return Config{}, errors.New("-db and -badger-dir are mutually exclusive")
	}
	if cfg.Watch && cfg.ConfigPath == "" {
		return Config{}, errors.New("-watch requires -config")
	}
	return cfg, nil
}

// Run replays newline-delimited JSON events from in until it is exhausted or ctx is done, then waits
// up to DrainTimeout for the queue to empty. Events still queued in a SQLite database or Badger
// directory at exit are delivered by the next run.
func Run(ctx context.Context, cfg Config, in io.Reader, loggers ldlog.Loggers) (Stats, error) {
	options, registry, err := makeOptions(cfg)
	if err != nil {
		return Stats{}, err
	}
	tracker, err := eventtracker.New(options)
	if err != nil {
		return Stats{}, err
	}
	defer func() { _ = tracker.Close() }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	if registry != nil {
		server := &http.Server{ //nolint:gosec // G112: metrics endpoint only
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		}
		g.Go(func() error {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve metrics: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), metricsShutdownGrace)
			defer done()
			return server.Shutdown(shutdownCtx)
		})
	}

	if err := initialize(ctx, cfg, tracker, loggers); err != nil {
		cancel()
		_ = g.Wait()
		return Stats{}, err
	}

	var stats Stats
	g.Go(func() error {
		defer cancel()
		var err error
		stats, err = replayEvents(ctx, tracker, in, loggers)
		if err != nil {
			return err
		}
		stats.Pending = drain(ctx, tracker, cfg.DrainTimeout)
		return nil
	})
	err = g.Wait()
	return stats, err
}

func makeOptions(cfg Config) (eventtracker.Options, *prometheus.Registry, error) {
	events := etcomponents.SendEvents()
	if cfg.DBPath != "" {
		events.QueueStore(etsqlite.QueueStore(cfg.DBPath))
	} else if cfg.BadgerDir != "" {
		events.QueueStore(etbadger.QueueStore(cfg.BadgerDir))
	}
	var registry *prometheus.Registry
	if cfg.MetricsAddr != "" {
		registry = prometheus.NewRegistry()
		observer, err := etmetrics.NewDeliveryObserver(registry, "")
		if err != nil {
			return eventtracker.Options{}, nil, err
		}
		events.DeliveryObserver(observer)
	}
	options := eventtracker.Options{Events: events}
	if cfg.Endpoint != "" {
		nonProduction := cfg.NonProductionEndpoint
		if nonProduction == "" {
			nonProduction = cfg.Endpoint
		}
		options.ServiceEndpoints = etcomponents.CustomEndpoints(cfg.Endpoint, nonProduction)
	}
	return options, registry, nil
}

func initialize(ctx context.Context, cfg Config, tracker *eventtracker.Tracker, loggers ldlog.Loggers) error {
	if !cfg.Watch {
		config, err := etfile.LoadConfig(cfg.ConfigPath)
		if err != nil {
			return err
		}
		return tracker.Initialize(config)
	}

	readyCh := make(chan struct{})
	ready := false
	err := etfile.WatchConfigFile(cfg.ConfigPath, loggers, func(config eventtracker.Config) {
		if err := tracker.Initialize(config); err != nil {
			loggers.Errorf("Ignoring configuration from %s: %s", cfg.ConfigPath, err)
			return
		}
		if !ready {
			ready = true
			close(readyCh)
		}
	}, ctx.Done())
	if err != nil {
		return err
	}
	select {
	case <-readyCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type recordedEvent struct {
	Kind                    string            `json:"kind"`
	RefID                   string            `json:"refID"`
	APISessionID            string            `json:"apiSessionID"`
	Streaming               bool              `json:"streaming"`
	ViewTimeSeconds         float64           `json:"viewTimeSeconds"`
	EngagementOver75Percent bool              `json:"engagementOver75Percent"`
	ShareMethod             string            `json:"shareMethod"`
	ExtraParams             map[string]string `json:"extraParams"`
	CustomParams            map[string]string `json:"customParams"`
}

func replayEvents(ctx context.Context, tracker *eventtracker.Tracker, in io.Reader, loggers ldlog.Loggers) (Stats, error) {
	var stats Stats
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNum := 0
	for scanner.Scan() {
		if ctx.Err() != nil {
			return stats, nil
		}
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := trackLine(tracker, line); err != nil {
			loggers.Warnf("Skipping line %d: %s", lineNum, err)
			stats.Rejected++
			continue
		}
		stats.Tracked++
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("read events: %w", err)
	}
	return stats, nil
}

func trackLine(tracker *eventtracker.Tracker, line string) error {
	var e recordedEvent
	if err := json.Unmarshal([]byte(line), &e); err != nil {
		return fmt.Errorf("malformed JSON: %w", err)
	}
	switch e.Kind {
	case "play":
		return tracker.TrackPlay(eventtracker.PlayEvent{
			RefID:                   e.RefID,
			APISessionID:            e.APISessionID,
			Streaming:               e.Streaming,
			ViewTimeSeconds:         e.ViewTimeSeconds,
			EngagementOver75Percent: e.EngagementOver75Percent,
			ExtraParams:             e.ExtraParams,
			CustomParams:            e.CustomParams,
		})
	case "share":
		return tracker.TrackShare(eventtracker.ShareEvent{
			ShareMethod:  eventtracker.ShareMethod(e.ShareMethod),
			RefID:        e.RefID,
			APISessionID: e.APISessionID,
			ExtraParams:  e.ExtraParams,
			CustomParams: e.CustomParams,
		})
	default:
		return fmt.Errorf("unknown event kind %q", e.Kind)
	}
}

// drain flushes the tracker and waits for its queue to empty, returning the number of events left.
func drain(ctx context.Context, tracker *eventtracker.Tracker, timeout time.Duration) int {
	tracker.Flush()
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(drainPollInterval)
	defer ticker.Stop()
	for {
		pending := tracker.QueueLength()
		if pending == 0 {
			return 0
		}
		select {
		case <-ctx.Done():
			return pending
		case <-deadline.C:
			return pending
		case <-ticker.C:
		}
	}
}
