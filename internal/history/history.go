// Package history maintains the append-only change log for scratchpad
// documents. Every content-affecting mutation produces an immutable
// full-content snapshot, enabling audit and point-in-time recovery.
// Entries are kept newest-first per document and pruned by age and
// count on every append.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/LeonardoCerv/scratch-space/internal/clock"
	"github.com/LeonardoCerv/scratch-space/internal/kv"
	"github.com/LeonardoCerv/scratch-space/internal/log"
)

// ErrEmptyQuery is returned by Search when the query is empty.
var ErrEmptyQuery = errors.New("search query must not be empty")

// ChangeType identifies the kind of change that produced an entry.
type ChangeType string

const (
	ChangeCreate   ChangeType = "create"
	ChangeUpdate   ChangeType = "update"
	ChangeDelete   ChangeType = "delete"
	ChangeRename   ChangeType = "rename"
	ChangeLanguage ChangeType = "language-change"
)

// Meta carries change-specific detail. Only the fields relevant to the
// entry's ChangeType are set: rename and language-change carry
// old/new values, update carries old/new content, create and delete
// carry a description. Use the constructors rather than building Meta
// directly.
type Meta struct {
	OldValue    string `json:"oldValue,omitempty"`
	NewValue    string `json:"newValue,omitempty"`
	Description string `json:"description,omitempty"`
}

// UpdateMeta describes a content change.
func UpdateMeta(old, new string) *Meta {
	return &Meta{OldValue: old, NewValue: new}
}

// RenameMeta describes a name change.
func RenameMeta(old, new string) *Meta {
	return &Meta{OldValue: old, NewValue: new, Description: fmt.Sprintf("Renamed from %q to %q", old, new)}
}

// LanguageMeta describes a language change.
func LanguageMeta(old, new string) *Meta {
	return &Meta{OldValue: old, NewValue: new, Description: fmt.Sprintf("Language changed from %s to %s", old, new)}
}

// DescMeta carries a free-text description only.
func DescMeta(desc string) *Meta {
	return &Meta{Description: desc}
}

// Entry is an immutable snapshot of a document's content at a point in
// time, tagged with the kind of change that produced it.
type Entry struct {
	ID         string     `json:"id"`
	DocumentID string     `json:"documentId"`
	Content    string     `json:"content"`
	Timestamp  time.Time  `json:"timestamp"`
	ChangeType ChangeType `json:"changeType"`
	Meta       *Meta      `json:"metadata,omitempty"`
}

// Options configures a Log.
type Options struct {
	Clock         clock.Clock       // defaults to the real clock
	IDs           clock.IDGenerator // defaults to random UUIDs
	MaxEntries    int               // per-document cap
	RetentionDays int               // age limit
}

// Log owns the per-document history lists. Entries are ordered
// newest-first. Safe for concurrent use.
type Log struct {
	mu        sync.Mutex
	store     kv.Store
	clock     clock.Clock
	ids       clock.IDGenerator
	max       int
	retention time.Duration
	entries   map[string][]Entry
}

// New creates a Log over the given record store and loads existing
// history. Corrupt records are logged and skipped; a single bad file
// never prevents construction.
func New(store kv.Store, opts Options) (*Log, error) {
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.IDs == nil {
		opts.IDs = clock.UUIDGenerator{}
	}

	l := &Log{
		store:     store,
		clock:     opts.Clock,
		ids:       opts.IDs,
		max:       opts.MaxEntries,
		retention: time.Duration(opts.RetentionDays) * 24 * time.Hour,
		entries:   make(map[string][]Entry),
	}

	keys, err := store.List()
	if err != nil {
		return nil, fmt.Errorf("scanning history records: %w", err)
	}
	for _, key := range keys {
		data, err := store.Get(key)
		if err != nil {
			log.Event("history:load", "read").ID(key).Write(err)
			continue
		}
		var list []Entry
		if err := json.Unmarshal(data, &list); err != nil {
			log.Event("history:load", "read").ID(key).Write(err)
			continue
		}
		l.entries[key] = list
	}
	return l, nil
}

// Append records a new snapshot for a document, applies retention, and
// persists the document's entry list.
func (l *Log) Append(documentID, content string, ct ChangeType, meta *Meta) (Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := Entry{
		ID:         l.ids.New(),
		DocumentID: documentID,
		Content:    content,
		Timestamp:  l.clock.Now(),
		ChangeType: ct,
		Meta:       meta,
	}

	list := append([]Entry{entry}, l.entries[documentID]...)
	list = l.prune(list)
	l.entries[documentID] = list

	if err := l.persist(documentID, list); err != nil {
		return entry, err
	}
	return entry, nil
}

// prune drops entries older than the retention window, then truncates
// to the per-document cap. Entries are assumed newest-first.
func (l *Log) prune(list []Entry) []Entry {
	if l.retention > 0 {
		cutoff := l.clock.Now().Add(-l.retention)
		kept := list[:0]
		for _, e := range list {
			if e.Timestamp.After(cutoff) {
				kept = append(kept, e)
			}
		}
		list = kept
	}
	if l.max > 0 && len(list) > l.max {
		list = list[:l.max]
	}
	return list
}

func (l *Log) persist(documentID string, list []Entry) error {
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding history for %s: %w", documentID, err)
	}
	if err := l.store.Put(documentID, data); err != nil {
		return fmt.Errorf("persisting history for %s: %w", documentID, err)
	}
	return nil
}

// Get returns a document's history, newest first.
func (l *Log) Get(documentID string) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), l.entries[documentID]...)
}

// All merges every document's entries, sorted by timestamp descending.
func (l *Log) All() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.allLocked()
}

func (l *Log) allLocked() []Entry {
	var all []Entry
	for _, list := range l.entries {
		all = append(all, list...)
	}
	sortByTimestampDesc(all)
	return all
}

// Find locates an entry by its own id across all documents.
// Returns nil if no entry has that id.
func (l *Log) Find(entryID string) *Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, list := range l.entries {
		for i := range list {
			if list[i].ID == entryID {
				e := list[i]
				return &e
			}
		}
	}
	return nil
}

// Clear removes a document's history and its persisted record.
func (l *Log) Clear(documentID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.entries, documentID)
	err := l.store.Delete(documentID)
	if errors.Is(err, kv.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("deleting history for %s: %w", documentID, err)
	}
	return nil
}

// ClearAll removes all history and every persisted record.
func (l *Log) ClearAll() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var firstErr error
	for id := range l.entries {
		if err := l.store.Delete(id); err != nil && !errors.Is(err, kv.ErrNotFound) && firstErr == nil {
			firstErr = fmt.Errorf("deleting history for %s: %w", id, err)
		}
	}
	l.entries = make(map[string][]Entry)
	return firstErr
}

// sortByTimestampDesc orders entries newest-first. Stable so that
// same-timestamp entries keep their append order.
func sortByTimestampDesc(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
}
