package mocks

import (
	"context"
	"sync"

	"github.com/mbsj/go-event-tracker/interfaces"
)

// MockLocationProvider is a test implementation of interfaces.LocationProvider that returns a
// configurable result and counts how many times it was asked.
type MockLocationProvider struct {
	location interfaces.Location
	ok       bool
	err      error
	gate     <-chan struct{}
	calls    int
	lock     sync.Mutex
}

var _ interfaces.LocationProvider = (*MockLocationProvider)(nil)

// NewMockLocationProvider creates a MockLocationProvider that reports no known location.
func NewMockLocationProvider() *MockLocationProvider {
	return &MockLocationProvider{}
}

// SetLocation makes subsequent calls report the specified location.
func (m *MockLocationProvider) SetLocation(location interfaces.Location) {
	m.lock.Lock()
	m.location, m.ok, m.err = location, true, nil
	m.lock.Unlock()
}

// SetError makes subsequent calls fail.
func (m *MockLocationProvider) SetError(err error) {
	m.lock.Lock()
	m.err = err
	m.lock.Unlock()
}

// SetGate makes subsequent calls block until a value can be read from gate or the context is done.
func (m *MockLocationProvider) SetGate(gate <-chan struct{}) {
	m.lock.Lock()
	m.gate = gate
	m.lock.Unlock()
}

// CallCount returns the number of calls to CurrentLocation so far.
func (m *MockLocationProvider) CallCount() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.calls
}

func (m *MockLocationProvider) CurrentLocation(ctx context.Context) (interfaces.Location, bool, error) { //nolint:revive
	m.lock.Lock()
	m.calls++
	gate := m.gate
	m.lock.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return interfaces.Location{}, false, ctx.Err()
		}
	}
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.location, m.ok, m.err
}
