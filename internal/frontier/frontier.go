package frontier

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// URL lifecycle states within the frontier.
const (
	// StatusPending marks a URL that has been discovered but not yet visited.
	StatusPending = "pending"

	// StatusVisited marks a URL whose resource has been processed.
	StatusVisited = "visited"
)

// Store is the persistent crawl frontier: the set of canonical URLs the
// crawl has discovered, each either pending or visited. Deduplication is
// structural - the url column is UNIQUE, so equivalent URLs collapse to
// one row as long as callers canonicalize before inserting.
type Store struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default store options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Stats summarizes the state of the frontier.
type Stats struct {
	// Pending is the number of discovered but unvisited URLs.
	Pending int

	// Visited is the number of processed URLs.
	Visited int
}

// Total returns the number of distinct URLs in the frontier.
func (s Stats) Total() int {
	return s.Pending + s.Visited
}

// Open opens or creates a frontier Store in the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dbDir, "spiderkit.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("frontier database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer, and the frontier is write-heavy.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// createTables creates the frontier schema if it doesn't exist.
func (s *Store) createTables() error {
	schema := `
	-- One row per distinct canonical URL ever discovered by the crawl.
	-- The id column doubles as FIFO ordering for Next().
	CREATE TABLE IF NOT EXISTS frontier (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL UNIQUE,
		source TEXT,
		depth INTEGER DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'pending',
		discovered_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		visited_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_frontier_status ON frontier(status);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// Entry is a frontier row handed back by Next.
type Entry struct {
	// URL is the canonical URL form.
	URL string

	// Source is the URL of the resource the entry was discovered in.
	Source string

	// Depth is the crawl depth at which the URL was discovered.
	Depth int
}

// Add inserts a canonical URL into the frontier. It reports whether the
// URL was new; a false return means an equivalent URL was already known
// and the row is left untouched, preserving the original discovery
// source and depth.
func (s *Store) Add(ctx context.Context, url, source string, depth int) (bool, error) {
	query := `
	INSERT INTO frontier (url, source, depth)
	VALUES (?, ?, ?)
	ON CONFLICT(url) DO NOTHING
	`

	result, err := s.db.ExecContext(ctx, query, url, source, depth)
	if err != nil {
		return false, fmt.Errorf("failed to add frontier entry: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// Seen reports whether the canonical URL is already in the frontier, in
// either state.
func (s *Store) Seen(ctx context.Context, url string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM frontier WHERE url = ?", url).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check frontier entry: %w", err)
	}
	return count > 0, nil
}

// Next returns the oldest pending entry, or nil when the frontier is
// drained. The entry stays pending until MarkVisited is called, so a
// crash between the two leaves the URL eligible for a retry.
func (s *Store) Next(ctx context.Context) (*Entry, error) {
	query := `
	SELECT url, source, depth FROM frontier
	WHERE status = ?
	ORDER BY id
	LIMIT 1
	`

	var e Entry
	var source sql.NullString
	err := s.db.QueryRowContext(ctx, query, StatusPending).Scan(&e.URL, &source, &e.Depth)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch next frontier entry: %w", err)
	}
	e.Source = source.String

	return &e, nil
}

// MarkVisited transitions a URL from pending to visited and stamps the
// visit time.
func (s *Store) MarkVisited(ctx context.Context, url string) error {
	query := `
	UPDATE frontier
	SET status = ?, visited_at = CURRENT_TIMESTAMP
	WHERE url = ?
	`

	if _, err := s.db.ExecContext(ctx, query, StatusVisited, url); err != nil {
		return fmt.Errorf("failed to mark frontier entry visited: %w", err)
	}
	return nil
}

// Stats returns the pending and visited counts.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	query := `
	SELECT status, COUNT(*) FROM frontier GROUP BY status
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to query frontier stats: %w", err)
	}
	defer rows.Close()

	var stats Stats
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return Stats{}, fmt.Errorf("failed to scan frontier stats: %w", err)
		}
		switch status {
		case StatusPending:
			stats.Pending = count
		case StatusVisited:
			stats.Visited = count
		}
	}

	return stats, rows.Err()
}
