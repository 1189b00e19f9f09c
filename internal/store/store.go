// Package store handles SQLite persistence of the shared usage counter.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/charfit/internal/usage"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for the usage counter. Several processes may
// share one database file.
type Store struct {
	db   *sql.DB
	subs usage.Subscribers
}

var _ usage.Counter = (*Store)(nil)

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS usage_counter (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			count INTEGER NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`INSERT OR IGNORE INTO usage_counter (id, count, updated_at) VALUES (1, 0, '');`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Read returns the current counter value.
func (s *Store) Read(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT count FROM usage_counter WHERE id = 1`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: %w", usage.ErrUnavailable, err)
	}
	return count, nil
}

// IncrementAndGet atomically increments the counter and returns the new value.
func (s *Store) IncrementAndGet(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`UPDATE usage_counter SET count = count + 1, updated_at = ? WHERE id = 1 RETURNING count`,
		time.Now().UTC().Format(time.RFC3339Nano),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", usage.ErrUnavailable, err)
	}
	s.subs.Publish(count)
	return count, nil
}

// Subscribe registers fn for counter changes made through this store or
// observed by Watch.
func (s *Store) Subscribe(fn func(int64)) func() {
	return s.subs.Add(fn)
}

// Watch polls the database for changes written by other processes and
// notifies subscribers until ctx is done.
func (s *Store) Watch(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("watch interval must be > 0")
	}
	last, err := s.Read(ctx)
	if err != nil {
		return err
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			v, err := s.Read(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			if v != last {
				last = v
				s.subs.Publish(v)
			}
		}
	}
}
