package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionShowEmpty(t *testing.T) {
	env := newTestEnv(t)

	out := env.run("session", "show")
	env.contains(out, "no session recorded")
}

func TestSessionOpenAndClose(t *testing.T) {
	env := newTestEnv(t)
	env.run("new", "notes")
	id := env.firstID()

	out := env.run("session", "open", "notes")
	env.contains(out, "opened "+id)

	st := theApp.session.State()
	assert.Equal(t, []string{id}, st.OpenIDs)
	assert.Equal(t, id, st.FocusedID)

	out = env.run("session", "close", "notes")
	env.contains(out, "closed "+id)

	st = theApp.session.State()
	assert.Empty(t, st.OpenIDs)
	assert.Empty(t, st.FocusedID)
}

func TestCatMarksDocumentOpen(t *testing.T) {
	env := newTestEnv(t)
	env.run("new", "notes")
	id := env.firstID()

	env.run("cat", "notes")

	st := theApp.session.State()
	assert.Equal(t, []string{id}, st.OpenIDs)
	assert.Equal(t, id, st.FocusedID)

	out := env.run("session", "show")
	env.contains(out, "> "+id[:8])
}

func TestRmClosesSessionDocument(t *testing.T) {
	env := newTestEnv(t)
	env.run("new", "notes")

	env.run("cat", "notes")
	env.run("rm", "notes")

	st := theApp.session.State()
	assert.Empty(t, st.OpenIDs)
	assert.Empty(t, st.FocusedID)
}

func TestSessionViewRecordsPosition(t *testing.T) {
	env := newTestEnv(t)
	env.run("new", "notes")
	id := env.firstID()
	env.run("session", "open", "notes")

	env.run("session", "view", "notes", "--line", "12", "--col", "3")

	st := theApp.session.State()
	assert.Equal(t, 12, st.Views[id].CursorLine)
	assert.Equal(t, 3, st.Views[id].CursorColumn)

	out := env.run("session", "show")
	env.contains(out, "line 12, col 3")
}

func TestSessionWatchStopsAfterDuration(t *testing.T) {
	env := newTestEnv(t)
	env.run("new", "notes")
	env.run("session", "open", "notes")

	out := env.run("session", "watch", "--for", "10ms")
	env.contains(out, "backing up every")
}

func TestSessionRecover(t *testing.T) {
	env := newTestEnv(t)
	env.run("new", "notes")
	id := env.firstID()

	out := env.run("session", "recover")
	env.contains(out, "no interrupted session")

	// A freshly opened document is activity within the crash
	// threshold, so still no recovery. The stale-session path is
	// covered by the session package tests with a stub clock.
	if err := theApp.session.Open(id); err != nil {
		t.Fatal(err)
	}
	out = env.run("session", "recover")
	env.contains(out, "no interrupted session")
}

func TestSessionClear(t *testing.T) {
	env := newTestEnv(t)
	env.run("new", "notes")
	id := env.firstID()
	if err := theApp.session.Open(id); err != nil {
		t.Fatal(err)
	}

	out := env.run("session", "clear")
	env.contains(out, "session cleared")

	out = env.run("session", "show")
	env.contains(out, "last active")
}
