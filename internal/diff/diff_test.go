package diff

import (
	"strings"
	"testing"
)

func TestComputeBasic(t *testing.T) {
	r := Compute("hello world\n", "hello there\n", "v1", "v2")

	if r.Old != "v1" || r.New != "v2" {
		t.Errorf("labels = (%q, %q), want (v1, v2)", r.Old, r.New)
	}
	if !strings.Contains(r.Diff, "- ") || !strings.Contains(r.Diff, "+ ") {
		t.Errorf("diff missing change markers:\n%s", r.Diff)
	}
}

func TestComputeNoChanges(t *testing.T) {
	r := Compute("same\n", "same\n", "a", "b")

	for _, line := range strings.Split(r.Diff, "\n") {
		if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "+ ") {
			t.Errorf("diff of identical content has change line %q", line)
		}
	}
}

func TestComputeCollapsesLongEqualRuns(t *testing.T) {
	var lines []string
	for i := 0; i < 20; i++ {
		lines = append(lines, "line")
	}
	oldContent := "start\n" + strings.Join(lines, "\n") + "\nend\n"
	newContent := "START\n" + strings.Join(lines, "\n") + "\nend\n"

	r := Compute(oldContent, newContent, "a", "b")
	if !strings.Contains(r.Diff, "  ...\n") {
		t.Errorf("long equal run not collapsed:\n%s", r.Diff)
	}
}

func TestFormatHeader(t *testing.T) {
	r := Result{Old: "old-label", New: "new-label", Diff: "+ added\n"}

	got := r.Format(false)
	want := "--- old-label\n+++ new-label\n+ added\n"
	if got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}
}

func TestColourise(t *testing.T) {
	in := "- removed\n+ added\n  kept\n"
	out := Colourise(in)

	if !strings.Contains(out, "\033[31m- removed\033[0m") {
		t.Errorf("deletion not coloured red: %q", out)
	}
	if !strings.Contains(out, "\033[32m+ added\033[0m") {
		t.Errorf("insertion not coloured green: %q", out)
	}
	if !strings.Contains(out, "  kept\n") {
		t.Errorf("context line altered: %q", out)
	}
}

func TestFormatColour(t *testing.T) {
	r := Result{Old: "a", New: "b", Diff: "+ x\n"}
	got := r.Format(true)

	if !strings.HasPrefix(got, "--- a\n+++ b\n") {
		t.Errorf("header missing: %q", got)
	}
	if !strings.Contains(got, "\033[32m") {
		t.Errorf("colour missing: %q", got)
	}
}
