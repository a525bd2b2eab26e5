// store.go implements the document store over a kv.Store and the
// history log.
//
// Concurrency: one mutex guards the index, the debounce timer registry
// and the subscriber set. Debounced saves fire on timer goroutines and
// re-acquire the lock; a timer that was superseded or cancelled finds
// itself absent from the registry and does nothing. Close cancels all
// pending timers without flushing - pending unsaved content inside a
// debounce window is lost on Close, which is the documented trade-off
// of write coalescing.

package scratchpad

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/LeonardoCerv/scratch-space/internal/clock"
	"github.com/LeonardoCerv/scratch-space/internal/history"
	"github.com/LeonardoCerv/scratch-space/internal/kv"
	"github.com/LeonardoCerv/scratch-space/internal/language"
	"github.com/LeonardoCerv/scratch-space/internal/log"
)

// Options configures a Store.
type Options struct {
	Clock           clock.Clock       // defaults to the real clock
	IDs             clock.IDGenerator // defaults to random UUIDs
	AutoSave        bool              // debounce content updates
	AutoSaveDelay   time.Duration     // debounce window
	DefaultLanguage string            // language for new documents
}

// Store owns the in-memory document index. All mutations go through
// its methods; external collaborators never touch the index directly.
// Safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	records kv.Store
	hist    *history.Log
	clock   clock.Clock
	ids     clock.IDGenerator

	autoSave bool
	delay    time.Duration
	lang     string

	docs   map[string]*Document
	timers map[string]*time.Timer
	subs   map[int]chan Change
	nextID int
	closed bool
}

// New creates a Store over the given record store and history log,
// loading existing documents. Corrupt records are logged and skipped;
// the store starts with whatever subset loaded successfully.
func New(records kv.Store, hist *history.Log, opts Options) (*Store, error) {
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.IDs == nil {
		opts.IDs = clock.UUIDGenerator{}
	}
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = language.DefaultLanguage
	}

	s := &Store{
		records:  records,
		hist:     hist,
		clock:    opts.Clock,
		ids:      opts.IDs,
		autoSave: opts.AutoSave,
		delay:    opts.AutoSaveDelay,
		lang:     opts.DefaultLanguage,
		docs:     make(map[string]*Document),
		timers:   make(map[string]*time.Timer),
		subs:     make(map[int]chan Change),
	}

	keys, err := records.List()
	if err != nil {
		return nil, fmt.Errorf("scanning scratchpad records: %w", err)
	}
	for _, key := range keys {
		data, err := records.Get(key)
		if err != nil {
			log.Event("document:load", "read").ID(key).Write(err)
			continue
		}
		var doc Document
		if err := json.Unmarshal(data, &doc); err != nil {
			log.Event("document:load", "read").ID(key).Write(err)
			continue
		}
		if doc.ID == "" {
			log.Event("document:load", "read").ID(key).Write(errors.New("record has no id"))
			continue
		}
		s.docs[doc.ID] = &doc
	}
	return s, nil
}

// Create makes a new document. Name defaults to "Scratch {n+1}" and
// language to the configured default. Persists immediately, records a
// create history entry, and notifies subscribers.
func (s *Store) Create(name, lang string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	if lang == "" {
		lang = s.lang
	} else if !language.Valid(lang) {
		return nil, fmt.Errorf("%w: unsupported language %q", ErrValidation, lang)
	}
	if name == "" {
		name = fmt.Sprintf("Scratch %d", len(s.docs)+1)
	}

	now := s.clock.Now()
	doc := &Document{
		ID:        s.ids.New(),
		Name:      name,
		Content:   "",
		Language:  lang,
		CreatedAt: now,
		UpdatedAt: now,
		Tags:      []string{},
		SortOrder: len(s.docs),
	}
	s.docs[doc.ID] = doc

	if err := s.persistLocked(doc); err != nil {
		delete(s.docs, doc.ID)
		return nil, err
	}
	if _, err := s.hist.Append(doc.ID, "", history.ChangeCreate, history.DescMeta("Created "+name)); err != nil {
		log.Event("document:create", "history").ID(doc.ID).Write(err)
	}

	s.notifyLocked(Change{ID: doc.ID, Op: OpCreate})
	return doc.clone(), nil
}

// Get returns a document by id.
func (s *Store) Get(id string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return doc.clone(), nil
}

// All returns every document, most recently updated first.
func (s *Store) All() []*Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Document, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, d.clone())
	}
	sortDocs(out, SortUpdated, true)
	return out
}

// Count returns the number of documents in the store.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

// Update merges the provided fields over an existing document and
// refreshes UpdatedAt. A content change records an update history
// entry. Persistence is debounced when auto-save is enabled; every
// call notifies subscribers regardless of debounce state.
func (s *Store) Update(id string, p Patch) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	doc, ok := s.docs[id]
	if !ok {
		return nil, ErrNotFound
	}

	var oldContent string
	contentChanged := false
	if p.Content != nil && *p.Content != doc.Content {
		oldContent = doc.Content
		contentChanged = true
	}

	if p.Name != nil {
		doc.Name = *p.Name
	}
	if p.Content != nil {
		doc.Content = *p.Content
	}
	if p.Language != nil {
		if !language.Valid(*p.Language) {
			return nil, fmt.Errorf("%w: unsupported language %q", ErrValidation, *p.Language)
		}
		doc.Language = *p.Language
	}
	if p.Pinned != nil {
		doc.Pinned = *p.Pinned
	}
	if p.Color != nil {
		doc.Color = *p.Color
	}
	if p.SortOrder != nil {
		doc.SortOrder = *p.SortOrder
	}
	doc.UpdatedAt = s.clock.Now()

	if contentChanged {
		if _, err := s.hist.Append(id, doc.Content, history.ChangeUpdate,
			history.UpdateMeta(oldContent, doc.Content)); err != nil {
			log.Event("document:update", "history").ID(id).Write(err)
		}
	}

	if s.autoSave {
		s.scheduleSaveLocked(id)
	} else if err := s.persistLocked(doc); err != nil {
		return nil, err
	}

	s.notifyLocked(Change{ID: id, Op: OpUpdate})
	return doc.clone(), nil
}

// Rename sets a new non-empty name, records it in history, and
// persists immediately (not debounced).
func (s *Store) Rename(id, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return fmt.Errorf("%w: name must not be empty", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	doc, ok := s.docs[id]
	if !ok {
		return ErrNotFound
	}

	oldName := doc.Name
	doc.Name = newName
	doc.UpdatedAt = s.clock.Now()

	if err := s.persistLocked(doc); err != nil {
		return err
	}
	if _, err := s.hist.Append(id, doc.Content, history.ChangeRename,
		history.RenameMeta(oldName, newName)); err != nil {
		log.Event("document:rename", "history").ID(id).Write(err)
	}

	s.notifyLocked(Change{ID: id, Op: OpRename})
	return nil
}

// ChangeLanguage sets a new language, records it in history, and
// persists immediately.
func (s *Store) ChangeLanguage(id, newLang string) error {
	if !language.Valid(newLang) {
		return fmt.Errorf("%w: unsupported language %q", ErrValidation, newLang)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	doc, ok := s.docs[id]
	if !ok {
		return ErrNotFound
	}

	oldLang := doc.Language
	doc.Language = newLang
	doc.UpdatedAt = s.clock.Now()

	if err := s.persistLocked(doc); err != nil {
		return err
	}
	if _, err := s.hist.Append(id, doc.Content, history.ChangeLanguage,
		history.LanguageMeta(oldLang, newLang)); err != nil {
		log.Event("document:lang", "history").ID(id).Write(err)
	}

	s.notifyLocked(Change{ID: id, Op: OpUpdate})
	return nil
}

// Duplicate produces an independent copy with a fresh id, copied
// content, tags, color and language, reset timestamps, and no pin.
// The duplicate gets no history entry of its own.
func (s *Store) Duplicate(id string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	orig, ok := s.docs[id]
	if !ok {
		return nil, ErrNotFound
	}

	now := s.clock.Now()
	dup := &Document{
		ID:        s.ids.New(),
		Name:      orig.Name + " (Copy)",
		Content:   orig.Content,
		Language:  orig.Language,
		CreatedAt: now,
		UpdatedAt: now,
		Tags:      append([]string{}, orig.Tags...),
		Color:     orig.Color,
		SortOrder: len(s.docs),
	}
	s.docs[dup.ID] = dup

	if err := s.persistLocked(dup); err != nil {
		delete(s.docs, dup.ID)
		return nil, err
	}

	s.notifyLocked(Change{ID: dup.ID, Op: OpCreate})
	return dup.clone(), nil
}

// Delete records a delete history entry carrying the last content,
// cancels any pending debounced save, and removes the document and its
// persisted record.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	doc, ok := s.docs[id]
	if !ok {
		return ErrNotFound
	}

	if _, err := s.hist.Append(id, doc.Content, history.ChangeDelete,
		history.DescMeta("Deleted "+doc.Name)); err != nil {
		log.Event("document:delete", "history").ID(id).Write(err)
	}

	s.cancelTimerLocked(id)
	delete(s.docs, id)

	if err := s.records.Delete(id); err != nil && !errors.Is(err, kv.ErrNotFound) {
		return fmt.Errorf("deleting record %s: %w", id, err)
	}

	s.notifyLocked(Change{ID: id, Op: OpDelete})
	return nil
}

// TogglePin flips the pin state, persists immediately, and records a
// descriptive history entry.
func (s *Store) TogglePin(id string) error {
	return s.metaMutation(id, OpPin, func(doc *Document) (string, bool, error) {
		doc.Pinned = !doc.Pinned
		if doc.Pinned {
			return "Pinned", true, nil
		}
		return "Unpinned", true, nil
	})
}

// AddTag appends a tag if not already present. Tags must be non-empty
// and contain no whitespace. Adding an existing tag is a no-op.
func (s *Store) AddTag(id, tag string) error {
	if err := validTag(tag); err != nil {
		return err
	}
	return s.metaMutation(id, OpTag, func(doc *Document) (string, bool, error) {
		if doc.HasTag(tag) {
			return "", false, nil
		}
		doc.Tags = append(doc.Tags, tag)
		return fmt.Sprintf("Added tag %q", tag), true, nil
	})
}

// RemoveTag removes a tag. Removing an absent tag is a no-op.
func (s *Store) RemoveTag(id, tag string) error {
	return s.metaMutation(id, OpTag, func(doc *Document) (string, bool, error) {
		for i, t := range doc.Tags {
			if t == tag {
				doc.Tags = append(doc.Tags[:i], doc.Tags[i+1:]...)
				return fmt.Sprintf("Removed tag %q", tag), true, nil
			}
		}
		return "", false, nil
	})
}

// SetColor sets or clears the document color. An empty color clears;
// anything else must be a #-prefixed hex triple.
func (s *Store) SetColor(id, color string) error {
	if !language.ValidColor(color) {
		return fmt.Errorf("%w: invalid color %q", ErrValidation, color)
	}
	return s.metaMutation(id, OpColor, func(doc *Document) (string, bool, error) {
		doc.Color = color
		if color == "" {
			return "Color removed", true, nil
		}
		return "Color set to " + color, true, nil
	})
}

// metaMutation applies a pin/tag/color-style change: mutate under
// lock, persist immediately, record a descriptive update history
// entry, notify. The mutate func returns (description, changed); when
// changed is false the call is a no-op.
func (s *Store) metaMutation(id string, op Op, mutate func(*Document) (string, bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	doc, ok := s.docs[id]
	if !ok {
		return ErrNotFound
	}

	desc, changed, err := mutate(doc)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	doc.UpdatedAt = s.clock.Now()

	if err := s.persistLocked(doc); err != nil {
		return err
	}
	if _, err := s.hist.Append(id, doc.Content, history.ChangeUpdate,
		history.DescMeta(desc)); err != nil {
		log.Event("document:meta", "history").ID(id).Write(err)
	}

	s.notifyLocked(Change{ID: id, Op: op})
	return nil
}

// SetSortOrder assigns a document's position for the custom sort mode
// and persists immediately.
func (s *Store) SetSortOrder(id string, order int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	doc, ok := s.docs[id]
	if !ok {
		return ErrNotFound
	}

	doc.SortOrder = order
	doc.UpdatedAt = s.clock.Now()
	if err := s.persistLocked(doc); err != nil {
		return err
	}
	s.notifyLocked(Change{ID: id, Op: OpReorder})
	return nil
}

// Reorder bulk-assigns SortOrder by position in ids. If any id is
// unknown nothing is applied.
func (s *Store) Reorder(ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	for _, id := range ids {
		if _, ok := s.docs[id]; !ok {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
	}

	now := s.clock.Now()
	for i, id := range ids {
		doc := s.docs[id]
		doc.SortOrder = i
		doc.UpdatedAt = now
		if err := s.persistLocked(doc); err != nil {
			return err
		}
	}

	s.notifyLocked(Change{Op: OpReorder})
	return nil
}

// AllTags returns the sorted set of tags in use across all documents.
func (s *Store) AllTags() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	var tags []string
	for _, d := range s.docs {
		for _, t := range d.Tags {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	sortStrings(tags)
	return tags
}

// ClearAll cancels every pending debounce timer, deletes all persisted
// records, clears the index, and emits one change notification.
func (s *Store) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	for id := range s.timers {
		s.timers[id].Stop()
	}
	s.timers = make(map[string]*time.Timer)

	var firstErr error
	for id := range s.docs {
		if err := s.records.Delete(id); err != nil && !errors.Is(err, kv.ErrNotFound) && firstErr == nil {
			firstErr = fmt.Errorf("deleting record %s: %w", id, err)
		}
	}
	s.docs = make(map[string]*Document)

	s.notifyLocked(Change{Op: OpClear})
	return firstErr
}

// Flush forces a pending debounced save for id to disk immediately.
// A no-op when nothing is pending.
func (s *Store) Flush(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, pending := s.timers[id]; !pending {
		return nil
	}
	s.cancelTimerLocked(id)

	doc, ok := s.docs[id]
	if !ok {
		return nil
	}
	return s.persistLocked(doc)
}

// Subscribe registers a change listener. The returned cancel func
// unregisters it and closes the channel. Sends never block; a slow
// consumer misses notifications rather than stalling mutations.
func (s *Store) Subscribe() (<-chan Change, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan Change, 16)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Close cancels all pending debounce timers without flushing them and
// closes subscriber channels. Pending unsaved content is lost.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	for id := range s.timers {
		s.timers[id].Stop()
	}
	s.timers = make(map[string]*time.Timer)

	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
	return nil
}

// --- internals (caller holds s.mu) ---

func (s *Store) persistLocked(doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding scratchpad %s: %w", doc.ID, err)
	}
	if err := s.records.Put(doc.ID, data); err != nil {
		return fmt.Errorf("persisting scratchpad %s: %w", doc.ID, err)
	}
	return nil
}

// scheduleSaveLocked coalesces rapid updates: each call cancels the
// pending timer for id and schedules a fresh one, so only the last
// scheduled write lands.
func (s *Store) scheduleSaveLocked(id string) {
	s.cancelTimerLocked(id)
	var t *time.Timer
	t = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		// Superseded or cancelled while we waited for the lock.
		if s.timers[id] != t {
			return
		}
		delete(s.timers, id)

		doc, ok := s.docs[id]
		if !ok {
			return
		}
		if err := s.persistLocked(doc); err != nil {
			// Background save: log and carry on, the next update retries.
			log.Event("document:autosave", "write").ID(id).Write(err)
		}
	})
	s.timers[id] = t
}

func (s *Store) cancelTimerLocked(id string) {
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
}

func (s *Store) notifyLocked(c Change) {
	for _, ch := range s.subs {
		select {
		case ch <- c:
		default:
		}
	}
}
