/*
Copyright © 2026 Leonardo Cervantes (LeonardoCerv)
*/

// app.go wires the store stack for command execution.
//
// The stack is built once per process: config, file-backed record
// stores, the history log, the document store, the session manager,
// and the virtual file bridge all share one data directory.

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/LeonardoCerv/scratch-space/internal/config"
	"github.com/LeonardoCerv/scratch-space/internal/history"
	"github.com/LeonardoCerv/scratch-space/internal/kv"
	"github.com/LeonardoCerv/scratch-space/internal/log"
	"github.com/LeonardoCerv/scratch-space/internal/scratchpad"
	"github.com/LeonardoCerv/scratch-space/internal/session"
	"github.com/LeonardoCerv/scratch-space/internal/vfs"
)

type app struct {
	root    string
	cfg     *config.Config
	store   *scratchpad.Store
	hist    *history.Log
	session *session.Manager
	bridge  *vfs.Bridge
}

var (
	theApp   *app
	initOnce sync.Once
	initErr  error
)

// dataDir resolves the data directory, falling back to
// ~/.scratch-space/data when Dir() yields nothing.
func dataDir() (string, error) {
	if d := Dir(); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".scratch-space", "data"), nil
}

// initApp builds the store stack. Subsequent calls return the first
// result. A stack installed by tests is left in place.
func initApp() error {
	if theApp != nil {
		return nil
	}
	initOnce.Do(func() {
		root, err := dataDir()
		if err != nil {
			initErr = err
			return
		}
		log.SetRoot(root)

		cfg, err := config.Load()
		if err != nil {
			initErr = fmt.Errorf("loading config: %w", err)
			return
		}

		historyStore, err := kv.NewFileStore(filepath.Join(root, "history"))
		if err != nil {
			initErr = err
			return
		}
		hist, err := history.New(historyStore, history.Options{
			MaxEntries:    cfg.MaxHistoryEntries(),
			RetentionDays: cfg.HistoryRetentionDays(),
		})
		if err != nil {
			initErr = err
			return
		}

		recordStore, err := kv.NewFileStore(filepath.Join(root, "scratchpads"))
		if err != nil {
			initErr = err
			return
		}
		store, err := scratchpad.New(recordStore, hist, scratchpad.Options{
			AutoSave:        cfg.AutoSaveEnabled(),
			AutoSaveDelay:   cfg.AutoSaveDelay(),
			DefaultLanguage: cfg.Language(),
		})
		if err != nil {
			initErr = err
			return
		}

		sessionStore, err := kv.NewFileStore(filepath.Join(root, "session"))
		if err != nil {
			initErr = err
			return
		}
		mgr, err := session.NewManager(sessionStore, storeSource{store}, session.Options{
			RecoveryEnabled: cfg.RecoveryEnabled(),
			BackupInterval:  cfg.BackupInterval(),
			MaxBackups:      cfg.MaxBackups(),
			RetentionDays:   cfg.BackupRetentionDays(),
		})
		if err != nil {
			initErr = err
			return
		}

		theApp = &app{
			root:    root,
			cfg:     cfg,
			store:   store,
			hist:    hist,
			session: mgr,
			bridge:  vfs.NewBridge(store),
		}
	})
	return initErr
}

func closeApp() {
	if theApp == nil {
		return
	}
	theApp.session.Close()
	if err := theApp.store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing store: %v\n", err)
	}
}

// storeSource adapts the document store to the session backup loop.
type storeSource struct {
	store *scratchpad.Store
}

func (s storeSource) Snapshot(id string) (session.Snapshot, bool) {
	doc, err := s.store.Get(id)
	if err != nil {
		return session.Snapshot{}, false
	}
	return session.Snapshot{ID: doc.ID, Name: doc.Name, Content: doc.Content}, true
}

// resolveID expands an id prefix or exact name to a document id.
// A unique prefix of at least four characters matches; so does an
// exact name when only one document carries it.
func resolveID(arg string) (string, error) {
	if _, err := theApp.store.Get(arg); err == nil {
		return arg, nil
	}

	var matches []string
	for _, doc := range theApp.store.All() {
		if len(arg) >= 4 && strings.HasPrefix(doc.ID, arg) {
			matches = append(matches, doc.ID)
			continue
		}
		if doc.Name == arg {
			matches = append(matches, doc.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no scratchpad matches %q", arg)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%q is ambiguous (%d matches); use a longer id prefix", arg, len(matches))
	}
}
