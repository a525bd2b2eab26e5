// Package log provides best-effort audit logging for scratch-space
// operations. Entries are stored in ~/.scratch-space/log/scratch-log.db
// and track CLI commands and background store activity.
//
// # Fluent API
//
// Use the fluent builder API to construct and write log entries:
//
//	log.Event("document:update", "write").
//		ID(doc.ID).
//		Write(err)
//
//	log.Event("history:search", "search").
//		Detail("query", query).
//		Detail("count", len(results)).
//		Write(err)
//
// The source parameter follows the format "{component}:{operation}",
// e.g. "document:create", "session:backup", "vfs:write".
package log

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

var (
	global *Logger
	mu     sync.Mutex
)

// Entry represents a single log entry.
type Entry struct {
	Source     string // e.g., "document:update", "session:backup"
	Action     string // verb: read, write, delete, backup, etc.
	DocumentID string // document this operation affects, if any

	// Timing
	Start int64 // unix timestamp when Event() called
	End   int64 // unix timestamp when Write() called

	Success bool           // whether operation succeeded
	Error   string         // error message if failed
	Detail  map[string]any // additional operation-specific data
}

// Builder constructs a log entry using a fluent API.
// Create with [Event], chain methods to set fields, then call
// [Builder.Write] to write the entry.
type Builder struct {
	entry Entry
}

// Event creates a new log entry builder for an operation.
//
// The source identifies where the operation originated, in the format
// "{component}:{operation}" (e.g., "document:create", "vfs:write").
// The action describes what was performed: "read", "write", "delete",
// "backup", "restore", etc.
func Event(source, action string) *Builder {
	return &Builder{
		entry: Entry{
			Source: source,
			Action: action,
			Start:  time.Now().Unix(),
		},
	}
}

// ID sets the document id this operation affects. Leave unset for
// operations that don't target a document (e.g., config, clear-all).
func (b *Builder) ID(id string) *Builder {
	b.entry.DocumentID = id
	return b
}

// Detail adds a key-value pair to the log entry's detail map.
//
// Use for operation-specific data that doesn't fit standard fields:
// search queries, result counts, tag names, etc. Can be called
// multiple times.
func (b *Builder) Detail(key string, value any) *Builder {
	if b.entry.Detail == nil {
		b.entry.Detail = make(map[string]any)
	}
	b.entry.Detail[key] = value
	return b
}

// Write writes the log entry, deriving success/failure from err.
//
// If err is nil, the entry is logged as successful; otherwise as
// failed with the error message. This is the standard way to complete
// a log entry after an operation:
//
//	doc, err := store.Get(id)
//	log.Event("document:cat", "read").ID(id).Write(err)
func (b *Builder) Write(err error) {
	b.entry.End = time.Now().Unix()
	b.entry.Success = err == nil
	if err != nil {
		b.entry.Error = err.Error()
	}
	Log(b.entry)
}

// Open initialises the global logger. Safe to call multiple times.
// Errors are returned but callers may choose to ignore them
// (best-effort logging).
func Open() error {
	mu.Lock()
	defer mu.Unlock()

	if global != nil {
		return nil
	}

	p := dbPath()
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return err
	}

	global = &Logger{db: db}
	return nil
}

// SetRoot sets the storage-root identifier for subsequent log entries.
// The dir should be the absolute path to the storage root.
func SetRoot(dir string) {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.root = hash(dir)
	}
}

// Log writes an entry. Safe to call if logger not initialised (no-op).
func Log(e Entry) {
	mu.Lock()
	l := global
	mu.Unlock()

	if l == nil {
		return
	}
	l.log(e)
}

// Close closes the global logger.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.db.Close()
		global = nil
	}
}
