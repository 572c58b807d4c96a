// Package httpcache provides the two-tier HTTP response cache that sits in
// front of every outbound call to the SEC EDGAR API: a bounded in-memory
// FIFO map backed by a persistent, embedded sqlite store so a cold process
// restart doesn't re-fetch everything.
package httpcache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const memCapacity = 100

// URL classes and their TTLs, per the freshness characteristics of each
// EDGAR endpoint: filings and submission history change far less often
// than nothing at all changes for a filed period, while frames snapshots
// are refreshed daily by SEC.
const (
	TTLCompanyFacts   = 168 * time.Hour
	TTLSubmissions    = 24 * time.Hour
	TTLFrames         = 24 * time.Hour
	TTLCompanyTickers = 168 * time.Hour
	TTLFilingDoc      = 720 * time.Hour
	TTLSearch         = 1 * time.Hour
)

type memEntry struct {
	body      []byte
	expiresAt time.Time
}

// Cache is the two-tier cache: an in-memory FIFO map of capacity
// memCapacity, backed by a persistent sqlite-backed store for cross-process
// durability.
type Cache struct {
	mu    sync.Mutex
	order []string
	mem   map[string]memEntry

	dbPath string
	db     *sql.DB
}

// Open creates a Cache whose persistent tier lives under dir (created if
// necessary). dir is fully caller-controlled so tests can point it at a
// temp directory for isolation.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	c := &Cache{
		mem:    make(map[string]memEntry, memCapacity),
		dbPath: filepath.Join(dir, "httpcache.db"),
	}
	if err := c.openDB(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Cache) openDB() error {
	db, err := sql.Open("sqlite", c.dbPath)
	if err != nil {
		return fmt.Errorf("opening cache store: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		// Corruption resilience: a store that fails its own migration is
		// discarded and recreated rather than left to fail every call.
		slog.Warn("httpcache store failed to migrate, recreating", "path", c.dbPath, "error", err)
		if rmErr := os.Remove(c.dbPath); rmErr != nil && !os.IsNotExist(rmErr) {
			return fmt.Errorf("removing corrupt cache store: %w", rmErr)
		}
		db, err = sql.Open("sqlite", c.dbPath)
		if err != nil {
			return fmt.Errorf("reopening cache store: %w", err)
		}
		if err := migrate(db); err != nil {
			db.Close()
			return fmt.Errorf("migrating recreated cache store: %w", err)
		}
	}
	c.db = db
	return nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS http_cache (
			url_hash   TEXT PRIMARY KEY,
			url        TEXT NOT NULL,
			body       BLOB NOT NULL,
			fetched_at INTEGER NOT NULL,
			expires_at INTEGER NOT NULL
		)
	`)
	return err
}

// Close releases the persistent store handle.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

func hashURL(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached body for url if present and unexpired in either
// tier. A persistent-store read failure degrades to a cache miss — it
// never fails the caller, since falling through to a live fetch is always
// safe.
func (c *Cache) Get(ctx context.Context, url string) ([]byte, bool) {
	key := hashURL(url)
	now := time.Now()

	c.mu.Lock()
	if e, ok := c.mem[key]; ok {
		c.mu.Unlock()
		if now.Before(e.expiresAt) {
			return e.body, true
		}
		c.mu.Lock()
		delete(c.mem, key)
		c.mu.Unlock()
	} else {
		c.mu.Unlock()
	}

	if c.db == nil {
		return nil, false
	}

	var body []byte
	var expiresAtUnix int64
	row := c.db.QueryRowContext(ctx,
		`SELECT body, expires_at FROM http_cache WHERE url_hash = ?`, key)
	if err := row.Scan(&body, &expiresAtUnix); err != nil {
		if err != sql.ErrNoRows {
			slog.Warn("httpcache read failed, degrading to fetch", "url", url, "error", err)
		}
		return nil, false
	}
	if now.After(time.Unix(expiresAtUnix, 0)) {
		return nil, false
	}

	c.promote(key, body, time.Unix(expiresAtUnix, 0))
	return body, true
}

// Set stores body for url with the given TTL in both tiers. Persistent
// write failures are logged and swallowed: a cache write is never allowed
// to fail the request that produced the body.
func (c *Cache) Set(ctx context.Context, url string, body []byte, ttl time.Duration) {
	key := hashURL(url)
	expiresAt := time.Now().Add(ttl)
	c.promote(key, body, expiresAt)

	if c.db == nil {
		return
	}
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO http_cache (url_hash, url, body, fetched_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(url_hash) DO UPDATE SET
			url = excluded.url, body = excluded.body,
			fetched_at = excluded.fetched_at, expires_at = excluded.expires_at
	`, key, url, body, time.Now().Unix(), expiresAt.Unix())
	if err != nil {
		slog.Warn("httpcache write failed, continuing without persistence", "url", url, "error", err)
	}
}

// Stats reports the persistent store's entry count and total body size in
// bytes. It reflects only the persistent tier — the in-memory tier is a
// bounded subset of it and adds nothing to either figure.
type Stats struct {
	Entries   int
	SizeBytes int64
}

// Stats returns the persistent store's current size.
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	if c.db == nil {
		return Stats{}, nil
	}
	var s Stats
	row := c.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(LENGTH(body)), 0) FROM http_cache`)
	if err := row.Scan(&s.Entries, &s.SizeBytes); err != nil {
		return Stats{}, fmt.Errorf("reading cache stats: %w", err)
	}
	return s, nil
}

// Clear empties both cache tiers.
func (c *Cache) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.mem = make(map[string]memEntry, memCapacity)
	c.order = nil
	c.mu.Unlock()

	if c.db == nil {
		return nil
	}
	if _, err := c.db.ExecContext(ctx, `DELETE FROM http_cache`); err != nil {
		return fmt.Errorf("clearing cache store: %w", err)
	}
	return nil
}

// promote inserts/refreshes an entry in the in-memory tier, evicting the
// oldest entry (FIFO) once capacity is exceeded.
func (c *Cache) promote(key string, body []byte, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.mem[key]; !exists {
		c.order = append(c.order, key)
	}
	c.mem[key] = memEntry{body: body, expiresAt: expiresAt}

	for len(c.order) > memCapacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.mem, oldest)
	}
}
