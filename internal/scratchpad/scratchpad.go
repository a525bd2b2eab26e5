// Package scratchpad implements the document store: an in-memory index
// of scratch documents kept consistent with one JSON record per
// document on disk, with debounced auto-save, tagging, pinning and
// ordering, and a change-notification channel for presentation layers.
package scratchpad

import (
	"errors"
	"time"
)

var (
	// ErrNotFound indicates the requested document does not exist.
	ErrNotFound = errors.New("scratchpad not found")
	// ErrValidation indicates invalid input (empty name, malformed tag
	// or color). Wrapped with detail; check with errors.Is.
	ErrValidation = errors.New("invalid input")
	// ErrClosed is returned by mutations after Close.
	ErrClosed = errors.New("store is closed")
)

// Document is a named scratch text buffer. ID is immutable and unique;
// UpdatedAt refreshes on every mutation. Tags is an ordered list with
// no duplicates. SortOrder is only meaningful for the custom sort mode.
type Document struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Pinned    bool      `json:"pinned"`
	Tags      []string  `json:"tags"`
	Color     string    `json:"color,omitempty"`
	SortOrder int       `json:"sortOrder"`
}

// clone returns a deep copy so callers never alias the store's record.
func (d *Document) clone() *Document {
	cp := *d
	cp.Tags = append([]string(nil), d.Tags...)
	return &cp
}

// HasTag reports whether the document carries tag.
func (d *Document) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Patch carries the fields of an Update. Nil fields are left untouched.
type Patch struct {
	Name      *string
	Content   *string
	Language  *string
	Pinned    *bool
	Color     *string
	SortOrder *int
}

// Op identifies the kind of mutation behind a change notification.
type Op string

const (
	OpCreate  Op = "create"
	OpUpdate  Op = "update"
	OpRename  Op = "rename"
	OpDelete  Op = "delete"
	OpPin     Op = "pin"
	OpTag     Op = "tag"
	OpColor   Op = "color"
	OpReorder Op = "reorder"
	OpClear   Op = "clear"
)

// Change is the payload broadcast to subscribers after a mutation.
// Consumers re-query the store for state; the payload only says what
// moved. ID is empty for store-wide operations (clear).
type Change struct {
	ID string
	Op Op
}
