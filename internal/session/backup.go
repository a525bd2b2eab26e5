package session

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Backup is a point-in-time copy of a document's content. Each
// document has a single slot; a newer backup overwrites the older
// one.
type Backup struct {
	DocumentID string    `json:"documentId"`
	Name       string    `json:"name"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	Manual     bool      `json:"manual,omitempty"`
}

// CreateManualBackup snapshots the given document immediately,
// replacing any automatic backup in its slot.
func (m *Manager) CreateManualBackup(id string) (Backup, error) {
	if m.source == nil {
		return Backup{}, ErrNoBackup
	}
	snap, ok := m.source.Snapshot(id)
	if !ok {
		return Backup{}, fmt.Errorf("%w: %s", ErrNoBackup, id)
	}
	if err := m.storeBackup(snap, true); err != nil {
		return Backup{}, err
	}
	b, _ := m.BackupFor(id)
	return b, nil
}

func (m *Manager) storeBackup(snap Snapshot, manual bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.backups[snap.ID] = Backup{
		DocumentID: snap.ID,
		Name:       snap.Name,
		Content:    snap.Content,
		Timestamp:  m.clock.Now(),
		Manual:     manual,
	}
	m.pruneLocked()
	return m.persistBackupsLocked()
}

// Backups returns all backup slots, newest first.
func (m *Manager) Backups() []Backup {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Backup, 0, len(m.backups))
	for _, b := range m.backups {
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// BackupFor returns the backup slot for a document.
func (m *Manager) BackupFor(id string) (Backup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.backups[id]
	if !ok {
		return Backup{}, fmt.Errorf("%w: %s", ErrNoBackup, id)
	}
	return b, nil
}

// DeleteBackup drops the slot for a document.
func (m *Manager) DeleteBackup(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.backups[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNoBackup, id)
	}
	delete(m.backups, id)
	return m.persistBackupsLocked()
}

// ClearBackups drops every backup slot.
func (m *Manager) ClearBackups() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.backups = make(map[string]Backup)
	return m.persistBackupsLocked()
}

// pruneLocked drops backups past the retention window, then evicts
// the oldest slots down to the configured cap.
func (m *Manager) pruneLocked() {
	if m.opts.RetentionDays > 0 {
		cutoff := m.clock.Now().AddDate(0, 0, -m.opts.RetentionDays)
		for id, b := range m.backups {
			if b.Timestamp.Before(cutoff) {
				delete(m.backups, id)
			}
		}
	}

	if m.opts.MaxBackups <= 0 || len(m.backups) <= m.opts.MaxBackups {
		return
	}
	ordered := make([]Backup, 0, len(m.backups))
	for _, b := range m.backups {
		ordered = append(ordered, b)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})
	for _, b := range ordered[:len(ordered)-m.opts.MaxBackups] {
		delete(m.backups, b.DocumentID)
	}
}

// persistBackupsLocked writes the slots as a newest-first array. The
// map is an in-memory view; the record on disk is a plain list.
func (m *Manager) persistBackupsLocked() error {
	ordered := make([]Backup, 0, len(m.backups))
	for _, b := range m.backups {
		ordered = append(ordered, b)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.After(ordered[j].Timestamp)
	})

	data, err := json.MarshalIndent(ordered, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding backups: %w", err)
	}
	if err := m.store.Put(backupsKey, data); err != nil {
		return fmt.Errorf("persisting backups: %w", err)
	}
	return nil
}
