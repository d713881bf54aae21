package tagcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"songdiff/internal/logging"
	"songdiff/internal/tags"
)

// ErrLocked is returned by Open when another process holds the cache lock.
var ErrLocked = errors.New("tag cache is locked by another songdiff process")

// ErrCachedFailure is returned on a hit for a file whose last read failed.
var ErrCachedFailure = errors.New("cached tag read failure")

// Stats summarizes the cache contents.
type Stats struct {
	Path     string
	Entries  int
	Failures int
	Hits     int64
	Misses   int64
}

// Cache is a tags.Reader that remembers the results of an inner reader.
type Cache struct {
	db     *sql.DB
	path   string
	lock   *flock.Flock
	inner  tags.Reader
	logger *slog.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// Open creates or connects to the cache database at path and takes its lock.
// The returned Cache must be closed to release the lock.
func Open(ctx context.Context, path string, inner tags.Reader, logger *slog.Logger) (*Cache, error) {
	if path == "" {
		return nil, errors.New("tag cache path is empty")
	}
	if inner == nil {
		return nil, errors.New("tag cache requires an inner reader")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create tag cache directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire tag cache lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, lock.Path())
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	c := &Cache{
		db:     db,
		path:   path,
		lock:   lock,
		inner:  inner,
		logger: logging.NewComponentLogger(logger, "tagcache"),
	}
	if err := c.initSchema(ctx); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}
	return c, nil
}

// Close closes the database and releases the lock.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.db != nil {
		errs = append(errs, c.db.Close())
	}
	if c.lock != nil {
		errs = append(errs, c.lock.Unlock())
	}
	return errors.Join(errs...)
}

// Path returns the database location.
func (c *Cache) Path() string {
	return c.path
}

// Read returns cached metadata when the file is unchanged, otherwise it reads
// through the inner reader and records the outcome.
func (c *Cache) Read(ctx context.Context, path string) (tags.Metadata, error) {
	if err := ctx.Err(); err != nil {
		return tags.Metadata{}, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return tags.Metadata{}, fmt.Errorf("resolve path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return tags.Metadata{}, fmt.Errorf("stat %s: %w", abs, err)
	}
	size := info.Size()
	mtime := info.ModTime().UnixNano()

	meta, failed, hit, err := c.lookup(ctx, abs, size, mtime)
	if err != nil {
		c.logger.Debug("tag cache lookup failed", logging.String("path", abs), logging.Error(err))
	} else if hit {
		c.hits.Add(1)
		if failed {
			return tags.Metadata{}, ErrCachedFailure
		}
		return meta, nil
	}

	c.misses.Add(1)
	meta, readErr := c.inner.Read(ctx, path)
	if readErr != nil && (errors.Is(readErr, context.Canceled) || errors.Is(readErr, context.DeadlineExceeded)) {
		return tags.Metadata{}, readErr
	}
	if err := c.store(ctx, abs, size, mtime, meta, readErr != nil); err != nil {
		logging.WarnWithContext(c.logger, "failed to persist tag cache entry", "tag_cache_store_failed",
			logging.String("path", abs),
			logging.Error(err),
			logging.String(logging.FieldImpact, "file will be re-read on the next run"))
	}
	return meta, readErr
}

func (c *Cache) lookup(ctx context.Context, path string, size, mtime int64) (tags.Metadata, bool, bool, error) {
	var (
		meta   tags.Metadata
		failed bool
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT artist, title, read_failed FROM tag_entries WHERE path = ? AND size = ? AND mtime_ns = ?`,
		path, size, mtime,
	).Scan(&meta.Artist, &meta.Title, &failed)
	if errors.Is(err, sql.ErrNoRows) {
		return tags.Metadata{}, false, false, nil
	}
	if err != nil {
		return tags.Metadata{}, false, false, err
	}
	return meta, failed, true, nil
}

func (c *Cache) store(ctx context.Context, path string, size, mtime int64, meta tags.Metadata, failed bool) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO tag_entries (path, size, mtime_ns, artist, title, read_failed, cached_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(path) DO UPDATE SET
            size = excluded.size,
            mtime_ns = excluded.mtime_ns,
            artist = excluded.artist,
            title = excluded.title,
            read_failed = excluded.read_failed,
            cached_at = excluded.cached_at`,
		path, size, mtime, meta.Artist, meta.Title, failed,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert tag entry: %w", err)
	}
	return nil
}

// Stats reports entry counts plus the hit and miss counters of this process.
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Path: c.path, Hits: c.hits.Load(), Misses: c.misses.Load()}
	err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(1), COALESCE(SUM(read_failed), 0) FROM tag_entries`,
	).Scan(&stats.Entries, &stats.Failures)
	if err != nil {
		return Stats{}, fmt.Errorf("count tag entries: %w", err)
	}
	return stats, nil
}

// Clear removes every entry and returns how many rows were deleted.
func (c *Cache) Clear(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM tag_entries`)
	if err != nil {
		return 0, fmt.Errorf("clear tag entries: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	c.logger.Debug("cleared tag cache", logging.Int64("removed", removed))
	return removed, nil
}
