package cmd

import (
	"strings"
	"testing"
)

func TestHistoryListing(t *testing.T) {
	env := newTestEnv(t)
	env.run("new", "notes")
	id := env.firstID()
	env.runStdin("v1", "write", id)
	env.runStdin("v2", "write", id)

	out := env.run("history", id)
	env.contains(out, "update")
	env.contains(out, "create")
}

func TestHistoryDiff(t *testing.T) {
	env := newTestEnv(t)
	env.run("new", "notes")
	id := env.firstID()
	env.runStdin("hello world\n", "write", id)
	env.runStdin("hello there\n", "write", id)

	out := env.run("history", id, "--diff")
	env.contains(out, "- ")
	env.contains(out, "+ ")
}

func TestHistorySearch(t *testing.T) {
	env := newTestEnv(t)
	env.run("new", "notes")
	id := env.firstID()
	env.runStdin("the quick brown fox\n", "write", id)
	env.runStdin("unrelated content\n", "write", id)

	out := env.run("history", id, "--search", "quick brown")
	env.contains(out, "score")
	env.contains(out, "quick brown fox")

	if _, err := env.runErr("history", id, "--search", "   "); err == nil {
		t.Fatal("blank search query accepted, want error")
	}
}

func TestHistoryRestore(t *testing.T) {
	env := newTestEnv(t)
	env.run("new", "notes")
	id := env.firstID()
	env.runStdin("the original", "write", id)
	env.runStdin("overwritten", "write", id)

	// Find the snapshot holding the original content.
	var entryID string
	for _, e := range theApp.hist.Get(id) {
		if e.Content == "the original" {
			entryID = e.ID
			break
		}
	}
	if entryID == "" {
		t.Fatal("no history entry with original content")
	}

	env.run("history", "restore", entryID)

	out := env.run("cat", id)
	env.contains(out, "the original")
}

func TestHistoryClear(t *testing.T) {
	env := newTestEnv(t)
	env.run("new", "notes")
	id := env.firstID()
	env.runStdin("v1", "write", id)

	env.run("history", id, "--clear")

	out := env.run("history", id)
	if strings.TrimSpace(out) != "" {
		t.Errorf("history not empty after clear:\n%s", out)
	}
}
