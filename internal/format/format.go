// Package format provides output formatting utilities for CLI display.
//
// Centralises formatting logic so that command implementations focus on
// business logic while this package handles presentation concerns like
// column alignment and colourised output.
package format

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/LeonardoCerv/scratch-space/internal/diff"
	"github.com/LeonardoCerv/scratch-space/internal/history"
	"github.com/LeonardoCerv/scratch-space/internal/scratchpad"
	"github.com/LeonardoCerv/scratch-space/internal/session"
)

// humanSize formats a byte count as human-readable (e.g., "1.2K", "3.4M").
func humanSize(bytes int64) string {
	const (
		_        = iota
		KB int64 = 1 << (10 * iota)
		MB
		GB
	)
	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1fG", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1fM", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1fK", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%dB", bytes)
	}
}

// relTime formats a timestamp relative to now ("just now", "5m ago").
// Anything older than a week falls back to the date.
func relTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}

// shortID truncates an id for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// List prints scratchpads in simple list format.
func List(w io.Writer, docs []*scratchpad.Document) error {
	for _, doc := range docs {
		pin := "  "
		if doc.Pinned {
			pin = "* "
		}
		fmt.Fprintf(w, "%s  %s%s\n", shortID(doc.ID), pin, doc.Name)
	}
	return nil
}

// Long prints scratchpads with id, language, size, tags, and update time.
func Long(w io.Writer, docs []*scratchpad.Document, now time.Time) error {
	if len(docs) == 0 {
		return nil
	}

	// Find max name length for alignment
	maxName := 4 // minimum "NAME"
	for _, doc := range docs {
		if len(doc.Name) > maxName {
			maxName = len(doc.Name)
		}
	}

	// Print header
	fmt.Fprintf(w, "%-8s  %-*s  %-12s  %6s  %-10s  %s\n", "ID", maxName, "NAME", "LANGUAGE", "SIZE", "UPDATED", "TAGS")

	for _, doc := range docs {
		name := doc.Name
		if doc.Pinned {
			name = name + " *"
		}
		tags := "-"
		if len(doc.Tags) > 0 {
			tags = strings.Join(doc.Tags, ",")
		}
		fmt.Fprintf(w, "%s  %-*s  %-12s  %6s  %-10s  %s\n",
			shortID(doc.ID),
			maxName, name,
			doc.Language,
			humanSize(int64(len(doc.Content))),
			relTime(doc.UpdatedAt, now),
			tags,
		)
	}
	return nil
}

// Names prints just scratchpad names, one per line.
func Names(w io.Writer, docs []*scratchpad.Document) error {
	for _, doc := range docs {
		fmt.Fprintln(w, doc.Name)
	}
	return nil
}

// History prints change entries in list format, newest first.
func History(w io.Writer, entries []history.Entry) error {
	for _, e := range entries {
		desc := "-"
		if e.Meta != nil && e.Meta.Description != "" {
			desc = e.Meta.Description
		}
		fmt.Fprintf(w, "%s  %-16s  %-16s  %s\n",
			shortID(e.ID),
			e.Timestamp.Format("2006-01-02 15:04"),
			e.ChangeType,
			desc,
		)
	}
	return nil
}

// HistoryDiff prints change entries with content diffs between
// consecutive snapshots. Entries are newest first.
func HistoryDiff(w io.Writer, entries []history.Entry, colour bool) error {
	for i := 0; i < len(entries)-1; i++ {
		newer := entries[i]
		older := entries[i+1]

		fmt.Fprintf(w, "=== %s -> %s (%s) ===\n",
			shortID(older.ID), shortID(newer.ID),
			newer.Timestamp.Format("2006-01-02 15:04"),
		)
		if newer.Meta != nil && newer.Meta.Description != "" {
			fmt.Fprintf(w, "Change: %s\n", newer.Meta.Description)
		}

		r := diff.Compute(older.Content, newer.Content, shortID(older.ID), shortID(newer.ID))
		fmt.Fprint(w, r.Format(colour))
		fmt.Fprintln(w)
	}
	return nil
}

// SearchResults prints scored history matches with their context.
func SearchResults(w io.Writer, results []history.SearchResult) error {
	for _, r := range results {
		fmt.Fprintf(w, "%s  %-16s  score %d\n",
			shortID(r.Entry.ID),
			r.Entry.Timestamp.Format("2006-01-02 15:04"),
			r.Score,
		)
		if r.Context != "" {
			for _, line := range strings.Split(r.Context, "\n") {
				fmt.Fprintf(w, "    %s\n", line)
			}
		}
	}
	return nil
}

// Backups prints backup slots, newest first.
func Backups(w io.Writer, backups []session.Backup, now time.Time) error {
	if len(backups) == 0 {
		return nil
	}

	maxName := 4
	for _, b := range backups {
		if len(b.Name) > maxName {
			maxName = len(b.Name)
		}
	}

	fmt.Fprintf(w, "%-8s  %-*s  %6s  %-10s  %s\n", "ID", maxName, "NAME", "SIZE", "TAKEN", "KIND")
	for _, b := range backups {
		kind := "auto"
		if b.Manual {
			kind = "manual"
		}
		fmt.Fprintf(w, "%s  %-*s  %6s  %-10s  %s\n",
			shortID(b.DocumentID),
			maxName, b.Name,
			humanSize(int64(len(b.Content))),
			relTime(b.Timestamp, now),
			kind,
		)
	}
	return nil
}

// Session prints the persisted session state.
func Session(w io.Writer, st session.State, now time.Time) error {
	if st.LastActiveAt.IsZero() && len(st.OpenIDs) == 0 {
		fmt.Fprintln(w, "no session recorded")
		return nil
	}

	if !st.LastActiveAt.IsZero() {
		fmt.Fprintf(w, "last active: %s\n", relTime(st.LastActiveAt, now))
	}
	if st.FocusedID != "" {
		fmt.Fprintf(w, "focused: %s\n", shortID(st.FocusedID))
	}
	for _, id := range st.OpenIDs {
		marker := "  "
		if id == st.FocusedID {
			marker = "> "
		}
		if v, ok := st.Views[id]; ok {
			fmt.Fprintf(w, "%s%s  line %d, col %d\n", marker, shortID(id), v.CursorLine, v.CursorColumn)
		} else {
			fmt.Fprintf(w, "%s%s\n", marker, shortID(id))
		}
	}
	return nil
}
