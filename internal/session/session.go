// Package session tracks workspace state across runs and keeps
// periodic backups of the focused document. A session that was not
// closed cleanly is detected on the next start so open documents can
// be restored.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/LeonardoCerv/scratch-space/internal/clock"
	"github.com/LeonardoCerv/scratch-space/internal/kv"
	"github.com/LeonardoCerv/scratch-space/internal/log"
)

// Records are stored under fixed keys in the session store.
const (
	stateKey   = "session-state"
	backupsKey = "backups"
)

// A session older than this with documents still open is treated as a
// crash rather than a clean exit.
const crashThreshold = 5 * time.Minute

var ErrNoBackup = errors.New("no backup for document")

// View is the editor position saved per open document.
type View struct {
	CursorLine   int `json:"cursorLine"`
	CursorColumn int `json:"cursorColumn"`
	ScrollTop    int `json:"scrollTop"`
}

// State is the persisted session record.
type State struct {
	LastActiveAt time.Time       `json:"lastActiveAt"`
	OpenIDs      []string        `json:"openIds"`
	FocusedID    string          `json:"focusedId,omitempty"`
	Views        map[string]View `json:"views,omitempty"`
}

// Snapshot is what the backup loop captures from a document.
type Snapshot struct {
	ID      string
	Name    string
	Content string
}

// Source supplies document snapshots for backups. The scratchpad
// store satisfies it through an adapter in the caller.
type Source interface {
	Snapshot(id string) (Snapshot, bool)
}

// Options configures a Manager.
type Options struct {
	Clock           clock.Clock
	RecoveryEnabled bool
	BackupInterval  time.Duration
	MaxBackups      int
	RetentionDays   int
}

// Manager owns the session state and the backup slots. Safe for
// concurrent use.
type Manager struct {
	mu      sync.Mutex
	store   kv.Store
	source  Source
	clock   clock.Clock
	opts    Options
	state   State
	backups map[string]Backup

	stop chan struct{}
	done chan struct{}
}

// NewManager loads any persisted session state and backups from the
// store. Corrupt records are logged and start fresh.
func NewManager(store kv.Store, source Source, opts Options) (*Manager, error) {
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}

	m := &Manager{
		store:   store,
		source:  source,
		clock:   opts.Clock,
		opts:    opts,
		backups: make(map[string]Backup),
	}

	if data, err := store.Get(stateKey); err == nil {
		if err := json.Unmarshal(data, &m.state); err != nil {
			log.Event("session:load", "read").ID(stateKey).Write(err)
			m.state = State{}
		}
	} else if !errors.Is(err, kv.ErrNotFound) {
		return nil, fmt.Errorf("loading session state: %w", err)
	}

	if data, err := store.Get(backupsKey); err == nil {
		var list []Backup
		if err := json.Unmarshal(data, &list); err != nil {
			log.Event("session:load", "read").ID(backupsKey).Write(err)
		}
		for _, b := range list {
			m.backups[b.DocumentID] = b
		}
	} else if !errors.Is(err, kv.ErrNotFound) {
		return nil, fmt.Errorf("loading backups: %w", err)
	}

	return m, nil
}

// State returns a copy of the current session state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.copy()
}

func (s State) copy() State {
	out := s
	out.OpenIDs = append([]string{}, s.OpenIDs...)
	if s.Views != nil {
		out.Views = make(map[string]View, len(s.Views))
		for k, v := range s.Views {
			out.Views[k] = v
		}
	}
	return out
}

// UpdateState merges the provided parts into the session state. Nil
// arguments leave the corresponding part untouched. The activity
// timestamp is refreshed and the state persisted either way.
func (m *Manager) UpdateState(focused *string, open []string, views map[string]View) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if focused != nil {
		m.state.FocusedID = *focused
	}
	if open != nil {
		m.state.OpenIDs = dedupe(open)
	}
	if views != nil {
		if m.state.Views == nil {
			m.state.Views = make(map[string]View, len(views))
		}
		for id, v := range views {
			m.state.Views[id] = v
		}
	}
	m.state.LastActiveAt = m.clock.Now()
	return m.persistStateLocked()
}

// dedupe keeps the first occurrence of each id, preserving order.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// RestoreSession returns the focused id, open ids and saved views of
// the persisted session so the caller can reopen them.
func (m *Manager) RestoreSession() (string, []string, map[string]View) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.state.copy()
	return st.FocusedID, st.OpenIDs, st.Views
}

// Touch refreshes the activity timestamp and persists the state.
func (m *Manager) Touch() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.LastActiveAt = m.clock.Now()
	return m.persistStateLocked()
}

// Open marks a document as open and focuses it.
func (m *Manager) Open(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	open := false
	for _, existing := range m.state.OpenIDs {
		if existing == id {
			open = true
			break
		}
	}
	if !open {
		m.state.OpenIDs = append(m.state.OpenIDs, id)
	}
	m.state.FocusedID = id
	m.state.LastActiveAt = m.clock.Now()
	return m.persistStateLocked()
}

// CloseDoc removes a document from the open set. Closing the focused
// document clears the focus.
func (m *Manager) CloseDoc(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.state.OpenIDs {
		if existing == id {
			m.state.OpenIDs = append(m.state.OpenIDs[:i], m.state.OpenIDs[i+1:]...)
			break
		}
	}
	if m.state.FocusedID == id {
		m.state.FocusedID = ""
	}
	delete(m.state.Views, id)
	m.state.LastActiveAt = m.clock.Now()
	return m.persistStateLocked()
}

// SetView records the editor position for an open document.
func (m *Manager) SetView(id string, v View) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Views == nil {
		m.state.Views = make(map[string]View)
	}
	m.state.Views[id] = v
	m.state.LastActiveAt = m.clock.Now()
	return m.persistStateLocked()
}

// Recovery describes an interrupted session found at startup.
type Recovery struct {
	OpenIDs      []string
	FocusedID    string
	Views        map[string]View
	LastActiveAt time.Time
}

// CheckCrashRecovery reports whether the previous session looks
// interrupted: documents were left open and the last activity is
// older than the crash threshold. Returns the state to restore when
// it is.
func (m *Manager) CheckCrashRecovery() (Recovery, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.opts.RecoveryEnabled {
		return Recovery{}, false
	}
	if len(m.state.OpenIDs) == 0 || m.state.LastActiveAt.IsZero() {
		return Recovery{}, false
	}
	if m.clock.Now().Sub(m.state.LastActiveAt) <= crashThreshold {
		return Recovery{}, false
	}

	st := m.state.copy()
	return Recovery{
		OpenIDs:      st.OpenIDs,
		FocusedID:    st.FocusedID,
		Views:        st.Views,
		LastActiveAt: st.LastActiveAt,
	}, true
}

// ClearSession forgets the persisted session state.
func (m *Manager) ClearSession() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = State{LastActiveAt: m.clock.Now()}
	return m.persistStateLocked()
}

// Start launches the periodic backup loop for the focused document.
// A second Start is a no-op until Close.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stop != nil || m.opts.BackupInterval <= 0 {
		return
	}
	m.stop = make(chan struct{})
	m.done = make(chan struct{})
	go m.run(m.stop, m.done)
}

func (m *Manager) run(stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(m.opts.BackupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			m.backupFocused()
		}
	}
}

// backupFocused snapshots the focused document into its backup slot.
func (m *Manager) backupFocused() {
	m.mu.Lock()
	id := m.state.FocusedID
	m.mu.Unlock()
	if id == "" || m.source == nil {
		return
	}

	snap, ok := m.source.Snapshot(id)
	if !ok {
		return
	}
	if err := m.storeBackup(snap, false); err != nil {
		log.Event("session:backup", "write").ID(id).Write(err)
	}
}

// Close stops the backup loop. Nothing is flushed; the next tick
// simply never happens.
func (m *Manager) Close() {
	m.mu.Lock()
	stop, done := m.stop, m.done
	m.stop, m.done = nil, nil
	m.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}
}

func (m *Manager) persistStateLocked() error {
	data, err := json.MarshalIndent(m.state, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session state: %w", err)
	}
	if err := m.store.Put(stateKey, data); err != nil {
		return fmt.Errorf("persisting session state: %w", err)
	}
	return nil
}
