package cmd

import (
	"strings"
	"testing"
)

func TestPin(t *testing.T) {
	env := newTestEnv(t)
	env.run("new", "notes")
	id := env.firstID()

	out := env.run("pin", id)
	env.contains(out, "pinned notes")

	out = env.run("pin", id)
	env.contains(out, "unpinned notes")
}

func TestTag(t *testing.T) {
	env := newTestEnv(t)
	env.run("new", "notes")
	id := env.firstID()

	env.run("tag", "add", id, "work")
	env.run("tag", "add", id, "todo")

	out := env.run("tag", "ls")
	env.contains(out, "work")
	env.contains(out, "todo")

	env.run("tag", "rm", id, "work")
	out = env.run("tag", "ls")
	if strings.Contains(out, "work") {
		t.Error("tag ls still shows removed tag")
	}

	if _, err := env.runErr("tag", "add", id, "two words"); err == nil {
		t.Fatal("tag with whitespace accepted, want error")
	}
}

func TestColor(t *testing.T) {
	env := newTestEnv(t)
	env.run("new", "notes")
	id := env.firstID()

	out := env.run("color", id, "#FF6B6B")
	env.contains(out, "#FF6B6B")

	out = env.run("color", id)
	env.contains(out, "color cleared")

	if _, err := env.runErr("color", id, "red"); err == nil {
		t.Fatal("invalid color accepted, want error")
	}
}

func TestReorder(t *testing.T) {
	env := newTestEnv(t)
	env.run("new", "aaaa")
	env.run("new", "bbbb")
	env.run("new", "cccc")

	env.run("reorder", "cccc", "aaaa", "bbbb")

	out := env.run("ls", "--sort", "custom")
	ci := strings.Index(out, "cccc")
	ai := strings.Index(out, "aaaa")
	bi := strings.Index(out, "bbbb")
	if !(ci < ai && ai < bi) {
		t.Errorf("custom order wrong:\n%s", out)
	}
}
