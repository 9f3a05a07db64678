package etfile

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	eventtracker "github.com/mbsj/go-event-tracker"
)

const retryDuration = time.Second

type configWatcher struct {
	watcher *fsnotify.Watcher
	loggers ldlog.Loggers
	apply   func(eventtracker.Config)
	path    string
	absPath string
}

// WatchConfigFile loads the configuration file, passes it to apply, and then does so again each time
// the file changes, until closeCh is closed.
//
// An unreadable or invalid file is logged and skipped; apply is only called with configurations that
// LoadConfig accepted. If the file or its directory cannot be watched yet, the watch is retried every
// second. The returned error only reports failure to create the watcher itself.
func WatchConfigFile(
	path string,
	loggers ldlog.Loggers,
	apply func(eventtracker.Config),
	closeCh <-chan struct{},
) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("unable to create file watcher: %w", err)
	}
	cw := &configWatcher{
		watcher: watcher,
		loggers: loggers,
		apply:   apply,
		path:    path,
	}
	go cw.run(closeCh)
	return nil
}

func (cw *configWatcher) run(closeCh <-chan struct{}) {
	retryCh := make(chan struct{}, 1)
	scheduleRetry := func() {
		time.AfterFunc(retryDuration, func() {
			select {
			case retryCh <- struct{}{}:
			default:
			}
		})
	}
	for {
		if err := cw.setupWatch(); err != nil {
			cw.loggers.Error(err)
			scheduleRetry()
		}

		// Load after the watch is set up so that a change made in between is not missed.
		cw.reload()

		if quit := cw.waitForEvents(closeCh, retryCh); quit {
			return
		}
	}
}

func (cw *configWatcher) reload() {
	config, err := LoadConfig(cw.path)
	if err != nil {
		cw.loggers.Errorf("Unable to load configuration file: %s", err)
		return
	}
	cw.apply(config)
}

func (cw *configWatcher) setupWatch() error {
	absDirPath, err := filepath.Abs(filepath.Dir(cw.path))
	if err != nil {
		return fmt.Errorf(`unable to resolve directory of "%s": %w`, cw.path, err)
	}
	realDirPath, err := filepath.EvalSymlinks(absDirPath)
	if err != nil {
		return fmt.Errorf(`unable to evaluate symlinks for "%s": %w`, absDirPath, err)
	}
	realPath := filepath.Join(realDirPath, filepath.Base(cw.path))
	cw.absPath = realPath
	// The directory watch catches files that are replaced by rename, as editors and config
	// management tools usually do.
	if err := cw.watcher.Add(realDirPath); err != nil {
		return fmt.Errorf(`unable to watch path "%s": %w`, realDirPath, err)
	}
	return nil
}

func (cw *configWatcher) waitForEvents(closeCh <-chan struct{}, retryCh <-chan struct{}) bool {
	for {
		select {
		case <-closeCh:
			if err := cw.watcher.Close(); err != nil {
				cw.loggers.Errorf("Error closing file watcher: %s", err)
			}
			return true
		case event := <-cw.watcher.Events:
			if event.Name != cw.absPath {
				break
			}
			cw.consumeExtraEvents()
			return false
		case err := <-cw.watcher.Errors:
			cw.loggers.Errorf("File watcher error: %s", err)
		case <-retryCh:
			consumeExtraRetries(retryCh)
			return false
		}
	}
}

func (cw *configWatcher) consumeExtraEvents() {
	for {
		select {
		case <-cw.watcher.Events:
		default:
			return
		}
	}
}

func consumeExtraRetries(retryCh <-chan struct{}) {
	for {
		select {
		case <-retryCh:
		default:
			return
		}
	}
}
