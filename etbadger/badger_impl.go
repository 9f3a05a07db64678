package etbadger

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/mbsj/go-event-tracker/subsystems"
)

// Implementation notes:
//
// - Each event is stored under the key "q:" followed by its ID as 8 big-endian bytes, so that
// Badger's sorted key order is the queue's insertion order.
//
// - IDs come from a Badger sequence, which persists the highest ID it has handed out. IDs are
// therefore never reused, even after every entry has been removed.

const (
	entryKeyPrefix  = "q:"
	sequenceKey     = "seq:queue"
	sequenceLeaseBy = 100
)

var errStoreClosed = errors.New("badger queue store has been closed")

type badgerQueueStoreImpl struct {
	db      *badger.DB
	seq     *badger.Sequence
	loggers ldlog.Loggers
	closed  bool
	lock    sync.RWMutex
}

func newBadgerQueueStoreImpl(builder *BadgerQueueStoreBuilder, loggers ldlog.Loggers) (*badgerQueueStoreImpl, error) {
	if strings.TrimSpace(builder.dir) == "" {
		return nil, errors.New("badger queue store directory is required")
	}
	opts := badger.DefaultOptions(builder.dir)
	opts.SyncWrites = builder.syncWrites
	opts.Logger = nil // badger's own output does not go through our loggers

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	seq, err := db.GetSequence([]byte(sequenceKey), sequenceLeaseBy)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open badger sequence: %w", err)
	}

	loggers.Infof("Using Badger queue store at %s", builder.dir)
	return &badgerQueueStoreImpl{db: db, seq: seq, loggers: loggers}, nil
}

func entryKey(id uint64) []byte {
	key := make([]byte, len(entryKeyPrefix)+8)
	copy(key, entryKeyPrefix)
	binary.BigEndian.PutUint64(key[len(entryKeyPrefix):], id)
	return key
}

func entryID(key []byte) uint64 {
	return binary.BigEndian.Uint64(key[len(entryKeyPrefix):])
}

func (s *badgerQueueStoreImpl) Append(data []byte) (uint64, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.closed {
		return 0, errStoreClosed
	}

	next, err := s.seq.Next()
	if err != nil {
		return 0, fmt.Errorf("allocate event ID: %w", err)
	}
	id := next + 1 // IDs start at 1
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(entryKey(id), data))
	})
	if err != nil {
		return 0, fmt.Errorf("append event: %w", err)
	}
	return id, nil
}

func (s *badgerQueueStoreImpl) Oldest(limit int) ([]subsystems.QueueEntry, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.closed {
		return nil, errStoreClosed
	}

	var entries []subsystems.QueueEntry
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(entryKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(entries) >= limit {
				break
			}
			item := it.Item()
			data, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			entries = append(entries, subsystems.QueueEntry{ID: entryID(item.Key()), Data: data})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return entries, nil
}

func (s *badgerQueueStoreImpl) Remove(id uint64) error {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.closed {
		return errStoreClosed
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(entryKey(id))
	})
	if err != nil {
		return fmt.Errorf("remove event %d: %w", id, err)
	}
	return nil
}

func (s *badgerQueueStoreImpl) Count() (int, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.closed {
		return 0, errStoreClosed
	}

	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(entryKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}

func (s *badgerQueueStoreImpl) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.seq.Release(); err != nil {
		s.loggers.Warnf("Unable to release event ID sequence: %s", err)
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close badger db: %w", err)
	}
	return nil
}
