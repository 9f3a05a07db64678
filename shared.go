package eventtracker

import (
	"fmt"
	"os"
	"sync"
)

var (
	sharedLock     sync.Mutex //nolint:gochecknoglobals
	sharedInstance *Tracker   //nolint:gochecknoglobals
)

// SharedInstance returns the process-wide Tracker, creating it with default Options the first
// time it is called.
//
// Applications that need custom Options for the shared tracker should call MakeSharedInstance
// before anything calls SharedInstance. If the default tracker cannot be created, an error is
// written to os.Stderr and nil is returned; every Tracker method can be called on a nil Tracker
// without panicking.
func SharedInstance() *Tracker {
	sharedLock.Lock()
	defer sharedLock.Unlock()
	if sharedInstance == nil {
		t, err := New(Options{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "[EventTracker] ERROR: unable to create shared tracker: %s\n", err)
			return nil
		}
		sharedInstance = t
	}
	return sharedInstance
}

// MakeSharedInstance creates the process-wide Tracker with the specified Options. It returns
// ErrSharedInstanceExists if the shared tracker was already created, by an earlier call to
// MakeSharedInstance or SharedInstance.
func MakeSharedInstance(options Options) (*Tracker, error) {
	sharedLock.Lock()
	defer sharedLock.Unlock()
	if sharedInstance != nil {
		return nil, ErrSharedInstanceExists
	}
	t, err := New(options)
	if err != nil {
		return nil, err
	}
	sharedInstance = t
	return t, nil
}
