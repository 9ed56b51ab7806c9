// Package frontier provides SQLite-based storage for the crawl frontier.
//
// The store keeps a single table keyed on the canonical URL form. Because
// canonicalization collapses equivalent spellings to one string, a plain
// UNIQUE constraint on that column is the whole deduplication mechanism:
// an insert that conflicts is a URL the crawl has already discovered.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of an
// in-memory set because:
// 1. A crawl frontier must survive process restarts
// 2. No external dependencies - the database is a single file
// 3. CGO-free implementation allows easy cross-compilation
// 4. WAL mode provides good concurrent read performance
package frontier
