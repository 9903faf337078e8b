// Package compilecache implements a content-addressed cache of lowered
// LLVM IR text, keyed by a hash of a GraphModule's byte-stable
// serialized JSON (SPEC_FULL.md §3/§5): recompiling a module whose
// .chimod document hasn't changed since the last build is a cache hit.
// Grounded on the teacher's graph/checkpoint/sqlite saver — the same
// "one table, JSON/text blob column, upsert by key" idiom, repurposed
// here for a compiled-artifact cache instead of execution checkpoints.
package compilecache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const createTable = "CREATE TABLE IF NOT EXISTS compiled_modules (" +
	"digest TEXT PRIMARY KEY, " +
	"module_full_name TEXT NOT NULL, " +
	"ir_text BLOB NOT NULL" +
	")"

const upsert = "INSERT OR REPLACE INTO compiled_modules (digest, module_full_name, ir_text) VALUES (?, ?, ?)"

const selectByDigest = "SELECT ir_text FROM compiled_modules WHERE digest = ?"

// Cache is a SQLite-backed content-addressed store of lowered IR text.
type Cache struct {
	db *sql.DB
}

// Open opens (creating if needed) a compile cache at path, which may
// be ":memory:" for a process-local cache.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("compilecache: opening %q: %w", path, err)
	}
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("compilecache: creating schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Digest hashes a module's serialized .chimod document into the cache
// key. Byte-stable Marshal output (package chimod) means an unchanged
// module always hashes to the same digest across process runs.
func Digest(chimodJSON []byte) string {
	sum := sha256.Sum256(chimodJSON)
	return hex.EncodeToString(sum[:])
}

// Lookup returns the cached IR text for digest, if present.
func (c *Cache) Lookup(digest string) (string, bool, error) {
	var irText string
	err := c.db.QueryRow(selectByDigest, digest).Scan(&irText)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("compilecache: looking up %q: %w", digest, err)
	}
	return irText, true, nil
}

// Store records irText under digest, associated with moduleFullName
// for diagnostic listing. Overwrites any previous entry for the same
// digest (module content never changes under a fixed digest, but a
// re-store is harmless and simpler than skipping it).
func (c *Cache) Store(digest, moduleFullName, irText string) error {
	if _, err := c.db.Exec(upsert, digest, moduleFullName, irText); err != nil {
		return fmt.Errorf("compilecache: storing %q: %w", digest, err)
	}
	return nil
}
