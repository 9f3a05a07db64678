package storetest

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbsj/go-event-tracker/subsystems"
	"github.com/mbsj/go-event-tracker/testhelpers"
)

// QueueStoreTestSuite provides a configurable test suite for all implementations of
// EventQueueStore.
//
// In order to be testable with this tool, a store implementation must have the following
// characteristics:
//
// 1. Every store produced by the factory function reads and writes the same underlying location.
//
// 2. If the store is durable, a store built after the previous one was closed must see all
// entries that the previous one had not removed.
type QueueStoreTestSuite struct {
	storeFactoryFn func() subsystems.ComponentConfigurer[subsystems.EventQueueStore]
	clearDataFn    func() error
	durable        bool
}

// NewQueueStoreTestSuite creates a QueueStoreTestSuite for testing some implementation of
// EventQueueStore.
//
// The storeFactoryFn parameter is a function that returns a configured factory for this store
// type (for instance, etsqlite.QueueStore(path)). The clearDataFn parameter deletes any existing
// data at that location; it is called before each test.
func NewQueueStoreTestSuite(
	storeFactoryFn func() subsystems.ComponentConfigurer[subsystems.EventQueueStore],
	clearDataFn func() error,
) *QueueStoreTestSuite {
	return &QueueStoreTestSuite{
		storeFactoryFn: storeFactoryFn,
		clearDataFn:    clearDataFn,
	}
}

// Durable enables the tests that close a store and open a new one at the same location.
func (s *QueueStoreTestSuite) Durable(durable bool) *QueueStoreTestSuite {
	s.durable = durable
	return s
}

// Run runs the configured test suite.
func (s *QueueStoreTestSuite) Run(t *testing.T) {
	t.Run("empty store", s.runEmptyStoreTests)
	t.Run("Append", s.runAppendTests)
	t.Run("Oldest", s.runOldestTests)
	t.Run("Remove", s.runRemoveTests)
	t.Run("concurrent appends", s.runConcurrentAppendTests)
	if s.durable {
		t.Run("reopen", s.runReopenTests)
	}
}

func (s *QueueStoreTestSuite) makeStore(t *testing.T) subsystems.EventQueueStore {
	store, err := s.storeFactoryFn().Build(testhelpers.NewSimpleClientContext())
	require.NoError(t, err)
	require.NotNil(t, store)
	return store
}

func (s *QueueStoreTestSuite) clearData(t *testing.T) {
	require.NoError(t, s.clearDataFn())
}

func (s *QueueStoreTestSuite) withStore(t *testing.T, action func(subsystems.EventQueueStore)) {
	s.clearData(t)
	store := s.makeStore(t)
	defer func() { _ = store.Close() }()
	action(store)
}

func appendAll(t *testing.T, store subsystems.EventQueueStore, values ...string) []uint64 {
	ids := make([]uint64, 0, len(values))
	for _, v := range values {
		id, err := store.Append([]byte(v))
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func entryValues(entries []subsystems.QueueEntry) []string {
	ret := make([]string, 0, len(entries))
	for _, e := range entries {
		ret = append(ret, string(e.Data))
	}
	return ret
}

func (s *QueueStoreTestSuite) runEmptyStoreTests(t *testing.T) {
	s.withStore(t, func(store subsystems.EventQueueStore) {
		count, err := store.Count()
		require.NoError(t, err)
		assert.Equal(t, 0, count)

		entries, err := store.Oldest(0)
		require.NoError(t, err)
		assert.Len(t, entries, 0)

		assert.NoError(t, store.Remove(12345))
	})
}

func (s *QueueStoreTestSuite) runAppendTests(t *testing.T) {
	t.Run("assigns increasing IDs", func(t *testing.T) {
		s.withStore(t, func(store subsystems.EventQueueStore) {
			ids := appendAll(t, store, "a", "b", "c")
			assert.Less(t, ids[0], ids[1])
			assert.Less(t, ids[1], ids[2])
		})
	})

	t.Run("increments count", func(t *testing.T) {
		s.withStore(t, func(store subsystems.EventQueueStore) {
			appendAll(t, store, "a", "b")
			count, err := store.Count()
			require.NoError(t, err)
			assert.Equal(t, 2, count)
		})
	})

	t.Run("does not reuse ID of removed tail entry", func(t *testing.T) {
		s.withStore(t, func(store subsystems.EventQueueStore) {
			ids := appendAll(t, store, "a", "b")
			require.NoError(t, store.Remove(ids[1]))
			id3 := appendAll(t, store, "c")[0]
			assert.Greater(t, id3, ids[1])
		})
	})

	t.Run("preserves binary data", func(t *testing.T) {
		s.withStore(t, func(store subsystems.EventQueueStore) {
			data := []byte{0, 1, 2, 255, '\n', '"'}
			_, err := store.Append(data)
			require.NoError(t, err)
			entries, err := store.Oldest(0)
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, data, entries[0].Data)
		})
	})
}

func (s *QueueStoreTestSuite) runOldestTests(t *testing.T) {
	t.Run("returns all entries in insertion order", func(t *testing.T) {
		s.withStore(t, func(store subsystems.EventQueueStore) {
			ids := appendAll(t, store, "a", "b", "c")
			entries, err := store.Oldest(0)
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b", "c"}, entryValues(entries))
			for i, e := range entries {
				assert.Equal(t, ids[i], e.ID)
			}
		})
	})

	t.Run("honors limit", func(t *testing.T) {
		s.withStore(t, func(store subsystems.EventQueueStore) {
			appendAll(t, store, "a", "b", "c")
			entries, err := store.Oldest(2)
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b"}, entryValues(entries))
		})
	})

	t.Run("limit greater than count", func(t *testing.T) {
		s.withStore(t, func(store subsystems.EventQueueStore) {
			appendAll(t, store, "a")
			entries, err := store.Oldest(10)
			require.NoError(t, err)
			assert.Equal(t, []string{"a"}, entryValues(entries))
		})
	})
}

func (s *QueueStoreTestSuite) runRemoveTests(t *testing.T) {
	t.Run("removes head", func(t *testing.T) {
		s.withStore(t, func(store subsystems.EventQueueStore) {
			ids := appendAll(t, store, "a", "b", "c")
			require.NoError(t, store.Remove(ids[0]))
			entries, err := store.Oldest(0)
			require.NoError(t, err)
			assert.Equal(t, []string{"b", "c"}, entryValues(entries))
		})
	})

	t.Run("removes from middle", func(t *testing.T) {
		s.withStore(t, func(store subsystems.EventQueueStore) {
			ids := appendAll(t, store, "a", "b", "c")
			require.NoError(t, store.Remove(ids[1]))
			entries, err := store.Oldest(0)
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "c"}, entryValues(entries))
			count, err := store.Count()
			require.NoError(t, err)
			assert.Equal(t, 2, count)
		})
	})

	t.Run("removing twice is not an error", func(t *testing.T) {
		s.withStore(t, func(store subsystems.EventQueueStore) {
			ids := appendAll(t, store, "a")
			require.NoError(t, store.Remove(ids[0]))
			assert.NoError(t, store.Remove(ids[0]))
		})
	})
}

func (s *QueueStoreTestSuite) runConcurrentAppendTests(t *testing.T) {
	s.withStore(t, func(store subsystems.EventQueueStore) {
		const goroutines, perGoroutine = 8, 25
		var wg sync.WaitGroup
		idsCh := make(chan uint64, goroutines*perGoroutine)
		for g := 0; g < goroutines; g++ {
			wg.Add(1)
			go func(g int) {
				defer wg.Done()
				for i := 0; i < perGoroutine; i++ {
					id, err := store.Append([]byte(fmt.Sprintf("%d-%d", g, i)))
					assert.NoError(t, err)
					idsCh <- id
				}
			}(g)
		}
		wg.Wait()
		close(idsCh)

		seen := make(map[uint64]bool)
		for id := range idsCh {
			assert.False(t, seen[id], "duplicate ID %d", id)
			seen[id] = true
		}
		count, err := store.Count()
		require.NoError(t, err)
		assert.Equal(t, goroutines*perGoroutine, count)
	})
}

func (s *QueueStoreTestSuite) runReopenTests(t *testing.T) {
	t.Run("entries survive close", func(t *testing.T) {
		s.clearData(t)
		store1 := s.makeStore(t)
		ids := appendAll(t, store1, "a", "b", "c")
		require.NoError(t, store1.Remove(ids[0]))
		require.NoError(t, store1.Close())

		store2 := s.makeStore(t)
		defer func() { _ = store2.Close() }()
		entries, err := store2.Oldest(0)
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "c"}, entryValues(entries))
		assert.Equal(t, ids[1], entries[0].ID)
		assert.Equal(t, ids[2], entries[1].ID)
	})

	t.Run("IDs keep increasing after reopen", func(t *testing.T) {
		s.clearData(t)
		store1 := s.makeStore(t)
		ids := appendAll(t, store1, "a", "b")
		require.NoError(t, store1.Close())

		store2 := s.makeStore(t)
		defer func() { _ = store2.Close() }()
		id3 := appendAll(t, store2, "c")[0]
		assert.Greater(t, id3, ids[1])
		entries, err := store2.Oldest(0)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, entryValues(entries))
	})
}
