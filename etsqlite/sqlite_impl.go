package etsqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/mbsj/go-event-tracker/etsqlite/migrations"
	"github.com/mbsj/go-event-tracker/subsystems"
)

// Implementation notes:
//
// - Each event is one row of the event_queue table. The INTEGER PRIMARY KEY is the entry ID, so
// ordering by it gives insertion order.
//
// - The connection pool is limited to one connection. Appends from application goroutines and
// removals from the delivery worker are then serialized by database/sql instead of contending for
// SQLite's file lock.

type sqliteQueueStoreImpl struct {
	sqlDB   *sql.DB
	path    string
	loggers ldlog.Loggers
}

func newSQLiteQueueStoreImpl(builder *SQLiteQueueStoreBuilder, loggers ldlog.Loggers) (*sqliteQueueStoreImpl, error) {
	if strings.TrimSpace(builder.path) == "" {
		return nil, errors.New("SQLite queue store path is required")
	}
	cleanPath := filepath.Clean(builder.path)
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)",
		cleanPath, builder.busyTimeout/time.Millisecond)

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	loggers.Infof("Using SQLite queue store at %s", cleanPath)
	return &sqliteQueueStoreImpl{sqlDB: sqlDB, path: cleanPath, loggers: loggers}, nil
}

func (s *sqliteQueueStoreImpl) Append(data []byte) (uint64, error) {
	result, err := s.sqlDB.Exec(
		"INSERT INTO event_queue (data, created_at) VALUES (?, ?)",
		data,
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("append event: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("append event: %w", err)
	}
	return uint64(id), nil
}

func (s *sqliteQueueStoreImpl) Oldest(limit int) ([]subsystems.QueueEntry, error) {
	if limit <= 0 {
		limit = -1 // no limit
	}
	rows, err := s.sqlDB.Query("SELECT id, data FROM event_queue ORDER BY id LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var entries []subsystems.QueueEntry
	for rows.Next() {
		var (
			id   int64
			data []byte
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		entries = append(entries, subsystems.QueueEntry{ID: uint64(id), Data: data})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return entries, nil
}

func (s *sqliteQueueStoreImpl) Remove(id uint64) error {
	if _, err := s.sqlDB.Exec("DELETE FROM event_queue WHERE id = ?", int64(id)); err != nil {
		return fmt.Errorf("remove event %d: %w", id, err)
	}
	return nil
}

func (s *sqliteQueueStoreImpl) Count() (int, error) {
	var count int
	if err := s.sqlDB.QueryRow("SELECT COUNT(*) FROM event_queue").Scan(&count); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}

func (s *sqliteQueueStoreImpl) Close() error {
	return s.sqlDB.Close()
}
