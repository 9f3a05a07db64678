package etsqlite

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbsj/go-event-tracker/subsystems"
	"github.com/mbsj/go-event-tracker/testhelpers"
	"github.com/mbsj/go-event-tracker/testhelpers/storetest"
)

func TestSQLiteQueueStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")

	storetest.NewQueueStoreTestSuite(
		func() subsystems.ComponentConfigurer[subsystems.EventQueueStore] {
			return QueueStore(path)
		},
		func() error { return clearData(path) },
	).Durable(true).Run(t)
}

func clearData(path string) error {
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

func TestSQLiteQueueStoreRequiresPath(t *testing.T) {
	_, err := QueueStore(" ").Build(testhelpers.NewSimpleClientContext())
	assert.Error(t, err)
}

func TestSQLiteQueueStoreFailsForMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no-such-dir", "events.db")
	_, err := QueueStore(path).Build(testhelpers.NewSimpleClientContext())
	assert.Error(t, err)
}

func TestMigrationsAreAppliedOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	for i := 0; i < 2; i++ {
		store, err := QueueStore(path).Build(testhelpers.NewSimpleClientContext())
		require.NoError(t, err)
		impl := store.(*sqliteQueueStoreImpl)
		var count int
		require.NoError(t, impl.sqlDB.QueryRow("SELECT COUNT(*) FROM "+migrationTable).Scan(&count))
		assert.Equal(t, 1, count)
		require.NoError(t, store.Close())
	}
}

func TestExtractUpMigration(t *testing.T) {
	assert.Equal(t, "\nA\n", extractUpMigration("-- +migrate Up\nA\n-- +migrate Down\nB\n"))
	assert.Equal(t, "\nA\n", extractUpMigration("-- +migrate Up\nA\n"))
	assert.Equal(t, "A", extractUpMigration("A"))
}

func TestBusyTimeoutDefault(t *testing.T) {
	assert.Equal(t, DefaultBusyTimeout, QueueStore("x").BusyTimeout(0).busyTimeout)
	assert.Equal(t, 3*DefaultBusyTimeout, QueueStore("x").BusyTimeout(3*DefaultBusyTimeout).busyTimeout)
}
