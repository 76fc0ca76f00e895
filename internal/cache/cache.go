// Package cache persists fetched passages in a local SQLite database
// with time-based expiration.
//
// Build modes:
//   - Default (CGO_ENABLED=0): pure Go modernc.org/sqlite
//   - CGO mode (CGO_ENABLED=1 -tags cgo_sqlite): mattn/go-sqlite3
package cache

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/VerseDeck/core/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS passages (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	fetched_at INTEGER NOT NULL
);
`

// Store is a persistent passage cache. A zero TTL disables expiration.
type Store struct {
	db  *sql.DB
	ttl time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

// DriverName returns the SQL driver name in use.
func DriverName() string {
	return driverName
}

// DriverType returns "purego" for modernc.org/sqlite or "cgo" for
// mattn/go-sqlite3.
func DriverType() string {
	return driverType
}

// Key derives a cache key from the given parts. Parts are joined with a
// NUL separator so distinct splits never collide.
func Key(parts ...string) string {
	sum := blake3.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:])
}

// Open opens (or creates) the cache database at path.
func Open(path string, ttl time.Duration) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.NewIO("mkdir", filepath.Dir(path), err)
	}

	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return &Store{db: db, ttl: ttl}, nil
}

// Get returns the cached value for key. Expired entries are removed and
// reported as misses.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	var fetchedAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT value, fetched_at FROM passages WHERE key = ?`, key).Scan(&value, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		s.misses.Add(1)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry: %w", err)
	}

	if s.ttl > 0 && time.Since(time.Unix(fetchedAt, 0)) >= s.ttl {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM passages WHERE key = ?`, key); err != nil {
			return nil, false, fmt.Errorf("removing expired cache entry: %w", err)
		}
		s.misses.Add(1)
		return nil, false, nil
	}

	s.hits.Add(1)
	return value, true, nil
}

// Put stores value under key, replacing any previous entry.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO passages (key, value, fetched_at) VALUES (?, ?, ?)`,
		key, value, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Stats describes the cache contents plus this session's hit counters.
type Stats struct {
	Entries   int
	SizeBytes int64
	Hits      int64
	Misses    int64
}

// Stats reports entry count and total value size.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(LENGTH(value)), 0) FROM passages`)
	if err := row.Scan(&st.Entries, &st.SizeBytes); err != nil {
		return Stats{}, fmt.Errorf("reading cache stats: %w", err)
	}
	st.Hits = s.hits.Load()
	st.Misses = s.misses.Load()
	return st, nil
}

// Prune removes entries older than the TTL and reports how many were
// removed. A zero TTL prunes nothing.
func (s *Store) Prune(ctx context.Context) (int64, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	cutoff := time.Now().Add(-s.ttl).Unix()
	res, err := s.db.ExecContext(ctx, `DELETE FROM passages WHERE fetched_at <= ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning cache: %w", err)
	}
	return res.RowsAffected()
}

// Clear removes every entry.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM passages`); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
