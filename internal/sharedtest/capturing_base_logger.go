package sharedtest

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// CapturingBaseLogger is an ldlog.BaseLogger that records every line written to it, including the
// level prefix added by ldlog.Loggers ("WARN: ", etc.).
type CapturingBaseLogger struct {
	lines []string
	lock  sync.Mutex
}

func (c *CapturingBaseLogger) Println(values ...interface{}) { //nolint:revive
	c.add(strings.TrimSuffix(fmt.Sprintln(values...), "\n"))
}

func (c *CapturingBaseLogger) Printf(format string, values ...interface{}) { //nolint:revive
	c.add(fmt.Sprintf(format, values...))
}

func (c *CapturingBaseLogger) add(line string) {
	c.lock.Lock()
	c.lines = append(c.lines, line)
	c.lock.Unlock()
}

// Lines returns a copy of the lines written so far.
func (c *CapturingBaseLogger) Lines() []string {
	c.lock.Lock()
	defer c.lock.Unlock()
	return append([]string(nil), c.lines...)
}

// HasMatch returns true if any line matches the regular expression.
func (c *CapturingBaseLogger) HasMatch(pattern string) bool {
	re := regexp.MustCompile(pattern)
	for _, line := range c.Lines() {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
