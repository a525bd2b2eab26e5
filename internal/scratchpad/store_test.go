package scratchpad

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeonardoCerv/scratch-space/internal/history"
	"github.com/LeonardoCerv/scratch-space/internal/kv"
	"github.com/LeonardoCerv/scratch-space/internal/testutil"
)

type fixture struct {
	store   *Store
	hist    *history.Log
	records *kv.MemoryStore
	clock   *testutil.StubClock
}

func setup(t *testing.T, opts Options) *fixture {
	t.Helper()

	clk := testutil.FixedClock()
	records := kv.NewMemoryStore()
	hist, err := history.New(kv.NewMemoryStore(), history.Options{
		Clock:         clk,
		IDs:           testutil.NewStubIDGenerator(),
		MaxEntries:    100,
		RetentionDays: 30,
	})
	require.NoError(t, err)

	opts.Clock = clk
	if opts.IDs == nil {
		opts.IDs = testutil.NewStubIDGenerator()
	}
	s, err := New(records, hist, opts)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return &fixture{store: s, hist: hist, records: records, clock: clk}
}

func strPtr(s string) *string { return &s }

func TestCreateDefaults(t *testing.T) {
	f := setup(t, Options{})

	doc, err := f.store.Create("", "")
	require.NoError(t, err)

	assert.Equal(t, "Scratch 1", doc.Name)
	assert.Equal(t, "plaintext", doc.Language)
	assert.Empty(t, doc.Content)
	assert.Equal(t, f.clock.Now(), doc.CreatedAt)
	assert.Equal(t, doc.CreatedAt, doc.UpdatedAt)

	second, err := f.store.Create("", "go")
	require.NoError(t, err)
	assert.Equal(t, "Scratch 2", second.Name)
	assert.Equal(t, "go", second.Language)
}

func TestCreateRejectsUnknownLanguage(t *testing.T) {
	f := setup(t, Options{})

	_, err := f.store.Create("notes", "klingon")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, f.store.Count())
}

func TestCreatePersistsAndRecordsHistory(t *testing.T) {
	f := setup(t, Options{})

	doc, err := f.store.Create("notes", "markdown")
	require.NoError(t, err)

	_, err = f.records.Get(doc.ID)
	require.NoError(t, err)

	entries := f.hist.Get(doc.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, history.ChangeCreate, entries[0].ChangeType)
}

func TestGetMissing(t *testing.T) {
	f := setup(t, Options{})

	_, err := f.store.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateContentRecordsHistory(t *testing.T) {
	f := setup(t, Options{})
	doc, err := f.store.Create("notes", "")
	require.NoError(t, err)

	_, err = f.store.Update(doc.ID, Patch{Content: strPtr("hello")})
	require.NoError(t, err)

	entries := f.hist.Get(doc.ID)
	require.Len(t, entries, 2)
	assert.Equal(t, history.ChangeUpdate, entries[0].ChangeType)
	assert.Equal(t, "hello", entries[0].Content)
	assert.Equal(t, "", entries[0].Meta.OldValue)
	assert.Equal(t, "hello", entries[0].Meta.NewValue)
}

func TestUpdateEqualContentSkipsHistory(t *testing.T) {
	f := setup(t, Options{})
	doc, err := f.store.Create("notes", "")
	require.NoError(t, err)
	_, err = f.store.Update(doc.ID, Patch{Content: strPtr("same")})
	require.NoError(t, err)

	before := len(f.hist.Get(doc.ID))
	_, err = f.store.Update(doc.ID, Patch{Content: strPtr("same")})
	require.NoError(t, err)

	assert.Len(t, f.hist.Get(doc.ID), before)
}

func TestUpdateRefreshesTimestamp(t *testing.T) {
	f := setup(t, Options{})
	doc, err := f.store.Create("notes", "")
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	updated, err := f.store.Update(doc.ID, Patch{Content: strPtr("x")})
	require.NoError(t, err)

	assert.Equal(t, doc.CreatedAt, updated.CreatedAt)
	assert.Equal(t, doc.CreatedAt.Add(time.Hour), updated.UpdatedAt)
}

func TestUpdateMissing(t *testing.T) {
	f := setup(t, Options{})

	_, err := f.store.Update("nope", Patch{Content: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDebouncedSaveCoalesces(t *testing.T) {
	f := setup(t, Options{AutoSave: true, AutoSaveDelay: 20 * time.Millisecond})
	doc, err := f.store.Create("notes", "")
	require.NoError(t, err)

	_, err = f.store.Update(doc.ID, Patch{Content: strPtr("draft 1")})
	require.NoError(t, err)
	_, err = f.store.Update(doc.ID, Patch{Content: strPtr("draft 2")})
	require.NoError(t, err)

	// The record on disk still holds the created state until the
	// debounce window elapses.
	data, err := f.records.Get(doc.ID)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "draft")

	require.Eventually(t, func() bool {
		data, err := f.records.Get(doc.ID)
		return err == nil && strings.Contains(string(data), "draft 2")
	}, time.Second, 10*time.Millisecond)

	data, err = f.records.Get(doc.ID)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "draft 1")
}

func TestFlushLandsPendingWrite(t *testing.T) {
	f := setup(t, Options{AutoSave: true, AutoSaveDelay: time.Minute})
	doc, err := f.store.Create("notes", "")
	require.NoError(t, err)

	_, err = f.store.Update(doc.ID, Patch{Content: strPtr("pending")})
	require.NoError(t, err)
	require.NoError(t, f.store.Flush(doc.ID))

	data, err := f.records.Get(doc.ID)
	require.NoError(t, err)
	assert.Contains(t, string(data), "pending")
}

func TestRename(t *testing.T) {
	f := setup(t, Options{})
	doc, err := f.store.Create("draft", "")
	require.NoError(t, err)

	require.NoError(t, f.store.Rename(doc.ID, "final"))

	got, err := f.store.Get(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Name)

	entries := f.hist.Get(doc.ID)
	require.NotEmpty(t, entries)
	assert.Equal(t, history.ChangeRename, entries[0].ChangeType)
	assert.Equal(t, `Renamed from "draft" to "final"`, entries[0].Meta.Description)
}

func TestRenameEmpty(t *testing.T) {
	f := setup(t, Options{})
	doc, err := f.store.Create("draft", "")
	require.NoError(t, err)

	assert.ErrorIs(t, f.store.Rename(doc.ID, "   "), ErrValidation)
}

func TestChangeLanguage(t *testing.T) {
	f := setup(t, Options{})
	doc, err := f.store.Create("notes", "")
	require.NoError(t, err)

	require.NoError(t, f.store.ChangeLanguage(doc.ID, "go"))

	got, err := f.store.Get(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "go", got.Language)

	entries := f.hist.Get(doc.ID)
	assert.Equal(t, history.ChangeLanguage, entries[0].ChangeType)

	assert.ErrorIs(t, f.store.ChangeLanguage(doc.ID, "klingon"), ErrValidation)
}

func TestDuplicateIsIndependent(t *testing.T) {
	f := setup(t, Options{})
	doc, err := f.store.Create("notes", "go")
	require.NoError(t, err)
	_, err = f.store.Update(doc.ID, Patch{Content: strPtr("body")})
	require.NoError(t, err)
	require.NoError(t, f.store.TogglePin(doc.ID))
	require.NoError(t, f.store.AddTag(doc.ID, "work"))

	f.clock.Advance(time.Hour)
	dup, err := f.store.Duplicate(doc.ID)
	require.NoError(t, err)

	assert.Equal(t, "notes (Copy)", dup.Name)
	assert.Equal(t, "body", dup.Content)
	assert.Equal(t, "go", dup.Language)
	assert.Equal(t, []string{"work"}, dup.Tags)
	assert.False(t, dup.Pinned, "pin state is not copied")
	assert.NotEqual(t, doc.ID, dup.ID)
	assert.Equal(t, f.clock.Now(), dup.CreatedAt)

	// Duplicates start with no history of their own.
	assert.Empty(t, f.hist.Get(dup.ID))

	// Mutating the copy leaves the original untouched.
	_, err = f.store.Update(dup.ID, Patch{Content: strPtr("changed")})
	require.NoError(t, err)
	orig, err := f.store.Get(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "body", orig.Content)
}

func TestDeleteRecordsLastContent(t *testing.T) {
	f := setup(t, Options{})
	doc, err := f.store.Create("notes", "")
	require.NoError(t, err)
	_, err = f.store.Update(doc.ID, Patch{Content: strPtr("final words")})
	require.NoError(t, err)

	require.NoError(t, f.store.Delete(doc.ID))

	_, err = f.store.Get(doc.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.records.Get(doc.ID)
	assert.ErrorIs(t, err, kv.ErrNotFound)

	entries := f.hist.Get(doc.ID)
	require.NotEmpty(t, entries)
	assert.Equal(t, history.ChangeDelete, entries[0].ChangeType)
	assert.Equal(t, "final words", entries[0].Content)
}

func TestTags(t *testing.T) {
	f := setup(t, Options{})
	doc, err := f.store.Create("notes", "")
	require.NoError(t, err)

	require.NoError(t, f.store.AddTag(doc.ID, "work"))
	require.NoError(t, f.store.AddTag(doc.ID, "todo"))
	require.NoError(t, f.store.AddTag(doc.ID, "work")) // no-op

	got, err := f.store.Get(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"work", "todo"}, got.Tags)

	require.NoError(t, f.store.RemoveTag(doc.ID, "work"))
	require.NoError(t, f.store.RemoveTag(doc.ID, "absent")) // no-op

	got, err = f.store.Get(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"todo"}, got.Tags)

	assert.ErrorIs(t, f.store.AddTag(doc.ID, ""), ErrValidation)
	assert.ErrorIs(t, f.store.AddTag(doc.ID, "two words"), ErrValidation)
}

func TestAllTags(t *testing.T) {
	f := setup(t, Options{})
	a, _ := f.store.Create("a", "")
	b, _ := f.store.Create("b", "")
	require.NoError(t, f.store.AddTag(a.ID, "zeta"))
	require.NoError(t, f.store.AddTag(a.ID, "alpha"))
	require.NoError(t, f.store.AddTag(b.ID, "alpha"))

	assert.Equal(t, []string{"alpha", "zeta"}, f.store.AllTags())
}

func TestSetColor(t *testing.T) {
	f := setup(t, Options{})
	doc, err := f.store.Create("notes", "")
	require.NoError(t, err)

	require.NoError(t, f.store.SetColor(doc.ID, "#FF6B6B"))
	got, _ := f.store.Get(doc.ID)
	assert.Equal(t, "#FF6B6B", got.Color)

	require.NoError(t, f.store.SetColor(doc.ID, ""))
	got, _ = f.store.Get(doc.ID)
	assert.Empty(t, got.Color)

	assert.ErrorIs(t, f.store.SetColor(doc.ID, "red"), ErrValidation)
}

func TestReorder(t *testing.T) {
	f := setup(t, Options{})
	a, _ := f.store.Create("a", "")
	b, _ := f.store.Create("b", "")
	c, _ := f.store.Create("c", "")

	require.NoError(t, f.store.Reorder([]string{c.ID, a.ID, b.ID}))

	docs := f.store.List(Filter{SortBy: SortCustom})
	require.Len(t, docs, 3)
	assert.Equal(t, "c", docs[0].Name)
	assert.Equal(t, "a", docs[1].Name)
	assert.Equal(t, "b", docs[2].Name)
}

func TestReorderUnknownIDAppliesNothing(t *testing.T) {
	f := setup(t, Options{})
	a, _ := f.store.Create("a", "")
	b, _ := f.store.Create("b", "")

	err := f.store.Reorder([]string{b.ID, "ghost", a.ID})
	assert.ErrorIs(t, err, ErrNotFound)

	docs := f.store.List(Filter{SortBy: SortCustom})
	assert.Equal(t, "a", docs[0].Name)
	assert.Equal(t, "b", docs[1].Name)
}

func TestClearAll(t *testing.T) {
	f := setup(t, Options{})
	a, _ := f.store.Create("a", "")
	_, _ = f.store.Create("b", "")

	require.NoError(t, f.store.ClearAll())

	assert.Zero(t, f.store.Count())
	_, err := f.records.Get(a.ID)
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestSubscribeReceivesChanges(t *testing.T) {
	f := setup(t, Options{})
	ch, cancel := f.store.Subscribe()
	defer cancel()

	doc, err := f.store.Create("notes", "")
	require.NoError(t, err)

	select {
	case c := <-ch:
		assert.Equal(t, OpCreate, c.Op)
		assert.Equal(t, doc.ID, c.ID)
	case <-time.After(time.Second):
		t.Fatal("no change notification")
	}

	require.NoError(t, f.store.Delete(doc.ID))
	select {
	case c := <-ch:
		assert.Equal(t, OpDelete, c.Op)
	case <-time.After(time.Second):
		t.Fatal("no delete notification")
	}
}

func TestSubscribeCancelClosesChannel(t *testing.T) {
	f := setup(t, Options{})
	ch, cancel := f.store.Subscribe()
	cancel()

	_, open := <-ch
	assert.False(t, open)
}

func TestCloseDropsPendingWrites(t *testing.T) {
	f := setup(t, Options{AutoSave: true, AutoSaveDelay: 20 * time.Millisecond})
	doc, err := f.store.Create("notes", "")
	require.NoError(t, err)

	_, err = f.store.Update(doc.ID, Patch{Content: strPtr("unsaved")})
	require.NoError(t, err)
	require.NoError(t, f.store.Close())

	time.Sleep(60 * time.Millisecond)
	data, err := f.records.Get(doc.ID)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "unsaved")

	_, err = f.store.Create("after", "")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestRestartLoadsDocuments(t *testing.T) {
	f := setup(t, Options{})
	doc, err := f.store.Create("notes", "go")
	require.NoError(t, err)
	_, err = f.store.Update(doc.ID, Patch{Content: strPtr("persisted")})
	require.NoError(t, err)
	require.NoError(t, f.store.Close())

	reopened, err := New(f.records, f.hist, Options{Clock: f.clock})
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "notes", got.Name)
	assert.Equal(t, "persisted", got.Content)
	assert.Equal(t, "go", got.Language)
}

func TestRestartSkipsCorruptRecord(t *testing.T) {
	f := setup(t, Options{})
	doc, err := f.store.Create("notes", "")
	require.NoError(t, err)
	require.NoError(t, f.records.Put("bad", []byte("{not json")))
	require.NoError(t, f.store.Close())

	reopened, err := New(f.records, f.hist, Options{Clock: f.clock})
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, 1, reopened.Count())
	_, err = reopened.Get(doc.ID)
	assert.NoError(t, err)
}
