package queuestore

import (
	"errors"
	"sort"
	"sync"

	"github.com/mbsj/go-event-tracker/subsystems"
)

var errStoreClosed = errors.New("queue store has been closed")

// inMemoryQueueStore is a memory-based EventQueueStore. Its contents do not survive a restart,
// so it is only suitable when losing undelivered events on exit is acceptable.
type inMemoryQueueStore struct {
	entries []subsystems.QueueEntry
	lastID  uint64
	closed  bool
	lock    sync.RWMutex
}

// NewInMemoryQueueStore creates an instance of the in-memory queue store.
func NewInMemoryQueueStore() subsystems.EventQueueStore {
	return &inMemoryQueueStore{}
}

func (s *inMemoryQueueStore) Append(data []byte) (uint64, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		return 0, errStoreClosed
	}
	s.lastID++
	s.entries = append(s.entries, subsystems.QueueEntry{ID: s.lastID, Data: append([]byte(nil), data...)})
	return s.lastID, nil
}

func (s *inMemoryQueueStore) Oldest(limit int) ([]subsystems.QueueEntry, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.closed {
		return nil, errStoreClosed
	}
	n := len(s.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	ret := make([]subsystems.QueueEntry, n)
	copy(ret, s.entries[:n])
	return ret, nil
}

func (s *inMemoryQueueStore) Remove(id uint64) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		return errStoreClosed
	}
	// entries are always sorted by ID, since IDs are assigned in increasing order
	i := sort.Search(len(s.entries), func(i int) bool { return s.entries[i].ID >= id })
	if i < len(s.entries) && s.entries[i].ID == id {
		s.entries = append(s.entries[:i], s.entries[i+1:]...)
	}
	return nil
}

func (s *inMemoryQueueStore) Count() (int, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.closed {
		return 0, errStoreClosed
	}
	return len(s.entries), nil
}

func (s *inMemoryQueueStore) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.closed = true
	s.entries = nil
	return nil
}
