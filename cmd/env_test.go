// Testing Strategy Design Decision:
//
// The cmd/ package runs CLI integration tests in-process: command
// parsing -> store layer -> file-backed persistence, against a fresh
// temp data directory per test. The store stack is rebuilt for each
// test by resetting the package-level app state.
//
// internal/format shows "[no test files]" - this is intentional. Its
// output is covered by the listing tests here; unit tests for it
// would duplicate coverage without adding value.

package cmd

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeonardoCerv/scratch-space/internal/config"
	"github.com/LeonardoCerv/scratch-space/internal/history"
	"github.com/LeonardoCerv/scratch-space/internal/kv"
	"github.com/LeonardoCerv/scratch-space/internal/scratchpad"
	"github.com/LeonardoCerv/scratch-space/internal/session"
	"github.com/LeonardoCerv/scratch-space/internal/vfs"
)

// testEnv holds test environment state.
type testEnv struct {
	t   *testing.T
	dir string
}

// newTestEnv builds the app against a fresh temp directory and
// captures command output.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	buildTestApp(t, dir)
	t.Cleanup(func() {
		closeApp()
		theApp = nil
	})

	return &testEnv{t: t, dir: dir}
}

// buildTestApp wires a store stack rooted at dir directly, bypassing
// initApp's sync.Once so every test gets a fresh stack.
func buildTestApp(t *testing.T, dir string) {
	t.Helper()

	cfg := &config.Config{}
	require.NoError(t, cfg.Validate())

	historyStore, err := kv.NewFileStore(filepath.Join(dir, "history"))
	require.NoError(t, err)
	hist, err := history.New(historyStore, history.Options{
		MaxEntries:    cfg.MaxHistoryEntries(),
		RetentionDays: cfg.HistoryRetentionDays(),
	})
	require.NoError(t, err)

	recordStore, err := kv.NewFileStore(filepath.Join(dir, "scratchpads"))
	require.NoError(t, err)
	store, err := scratchpad.New(recordStore, hist, scratchpad.Options{
		AutoSave:        cfg.AutoSaveEnabled(),
		AutoSaveDelay:   cfg.AutoSaveDelay(),
		DefaultLanguage: cfg.Language(),
	})
	require.NoError(t, err)

	sessionStore, err := kv.NewFileStore(filepath.Join(dir, "session"))
	require.NoError(t, err)
	mgr, err := session.NewManager(sessionStore, storeSource{store}, session.Options{
		RecoveryEnabled: cfg.RecoveryEnabled(),
		BackupInterval:  cfg.BackupInterval(),
		MaxBackups:      cfg.MaxBackups(),
		RetentionDays:   cfg.BackupRetentionDays(),
	})
	require.NoError(t, err)

	theApp = &app{
		root:    dir,
		cfg:     cfg,
		store:   store,
		hist:    hist,
		session: mgr,
		bridge:  vfs.NewBridge(store),
	}
}

// execMu serialises command execution: cobra command state and the
// package-level flag variables are shared.
var execMu sync.Mutex

// run executes the CLI with the given args and returns stdout.
func (e *testEnv) run(args ...string) string {
	e.t.Helper()
	out, err := e.runErr(args...)
	if err != nil {
		e.t.Fatalf("scratch %v failed: %v\noutput: %s", args, err, out)
	}
	return out
}

// runErr executes the CLI and returns stdout and any error.
func (e *testEnv) runErr(args ...string) (string, error) {
	e.t.Helper()
	return e.runStdinErr("", args...)
}

// runStdin executes the CLI with stdin input.
func (e *testEnv) runStdin(input string, args ...string) string {
	e.t.Helper()
	out, err := e.runStdinErr(input, args...)
	if err != nil {
		e.t.Fatalf("scratch %v failed: %v\noutput: %s", args, err, out)
	}
	return out
}

// runStdinErr executes the CLI with stdin input and returns any error.
func (e *testEnv) runStdinErr(input string, args ...string) (string, error) {
	e.t.Helper()

	execMu.Lock()
	defer execMu.Unlock()

	var buf bytes.Buffer
	prevOut, prevStdin := out, stdin
	SetOut(&buf)
	stdin = strings.NewReader(input)
	defer func() {
		SetOut(prevOut)
		stdin = prevStdin
		resetFlags(rootCmd)
	}()

	rootCmd.SetArgs(args)
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(&buf)
	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every changed flag to its default. Commands are
// package singletons, so flag state would otherwise leak between
// in-process invocations.
func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// contains checks if output contains expected string.
func (e *testEnv) contains(output, expected string) {
	e.t.Helper()
	assert.Contains(e.t, output, expected)
}

// firstID returns the id of the only scratchpad in the store.
func (e *testEnv) firstID() string {
	e.t.Helper()
	docs := theApp.store.All()
	require.Len(e.t, docs, 1)
	return docs[0].ID
}
