package internal

import (
	"sync/atomic"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// GatedBaseLogger is an ldlog.BaseLogger that forwards output to another BaseLogger only while
// its switch is on. This allows log output to be turned on and off at runtime without
// reconfiguring the components that hold a copy of the Loggers.
type GatedBaseLogger struct {
	enabled *atomic.Bool
	target  ldlog.BaseLogger
}

// NewGatedBaseLogger creates a GatedBaseLogger that writes to target while enabled is true.
func NewGatedBaseLogger(target ldlog.BaseLogger, enabled *atomic.Bool) GatedBaseLogger {
	return GatedBaseLogger{enabled: enabled, target: target}
}

func (g GatedBaseLogger) Println(values ...interface{}) { //nolint:revive // standard method
	if g.target != nil && g.enabled.Load() {
		g.target.Println(values...)
	}
}

func (g GatedBaseLogger) Printf(format string, values ...interface{}) { //nolint:revive // standard method
	if g.target != nil && g.enabled.Load() {
		g.target.Printf(format, values...)
	}
}
