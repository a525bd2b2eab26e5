package scratchpad

import (
	"fmt"
	"sort"
	"strings"
)

// SortMode selects the comparator used inside the pinned and unpinned
// partitions of a listing.
type SortMode string

const (
	SortName    SortMode = "name"
	SortCreated SortMode = "created"
	SortUpdated SortMode = "updated"
	SortCustom  SortMode = "custom"
)

// ParseSortMode validates a user-supplied sort mode string.
func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(s) {
	case SortName, SortCreated, SortUpdated, SortCustom:
		return SortMode(s), nil
	}
	return "", fmt.Errorf("%w: unknown sort mode %q", ErrValidation, s)
}

// Filter narrows and orders a listing. Zero value matches everything
// and sorts by most recent update.
type Filter struct {
	Tags     []string // match documents carrying any of these tags
	Language string
	Pinned   *bool
	SortBy   SortMode
	Desc     bool
}

// List returns the documents matching f. Pinned documents always sort
// before unpinned ones; the SortBy comparator orders within each
// partition.
func (s *Store) List(f Filter) []*Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Document, 0, len(s.docs))
	for _, d := range s.docs {
		if f.matches(d) {
			out = append(out, d.clone())
		}
	}

	mode, desc := f.SortBy, f.Desc
	if mode == "" {
		// No explicit sort: newest update first.
		mode, desc = SortUpdated, true
	}
	sortDocs(out, mode, desc)
	return out
}

func (f Filter) matches(d *Document) bool {
	if f.Language != "" && d.Language != f.Language {
		return false
	}
	if f.Pinned != nil && d.Pinned != *f.Pinned {
		return false
	}
	if len(f.Tags) > 0 {
		any := false
		for _, t := range f.Tags {
			if d.HasTag(t) {
				any = true
				break
			}
		}
		if !any {
			return false
		}
	}
	return true
}

// sortDocs orders docs with pinned documents first, then by the given
// mode within each partition.
func sortDocs(docs []*Document, mode SortMode, desc bool) {
	sort.SliceStable(docs, func(i, j int) bool {
		a, b := docs[i], docs[j]
		if a.Pinned != b.Pinned {
			return a.Pinned
		}

		var less bool
		switch mode {
		case SortName:
			less = strings.ToLower(a.Name) < strings.ToLower(b.Name)
		case SortCreated:
			less = a.CreatedAt.Before(b.CreatedAt)
		case SortCustom:
			less = a.SortOrder < b.SortOrder
		default:
			less = a.UpdatedAt.Before(b.UpdatedAt)
		}
		if desc {
			return !less && !equalKey(a, b, mode)
		}
		return less
	})
}

// equalKey reports whether a and b compare equal under mode, so that
// descending sorts stay stable for ties.
func equalKey(a, b *Document, mode SortMode) bool {
	switch mode {
	case SortName:
		return strings.EqualFold(a.Name, b.Name)
	case SortCreated:
		return a.CreatedAt.Equal(b.CreatedAt)
	case SortCustom:
		return a.SortOrder == b.SortOrder
	default:
		return a.UpdatedAt.Equal(b.UpdatedAt)
	}
}

func sortStrings(ss []string) {
	sort.Strings(ss)
}

func validTag(tag string) error {
	if tag == "" {
		return fmt.Errorf("%w: tag must not be empty", ErrValidation)
	}
	if strings.ContainsAny(tag, " \t\n") {
		return fmt.Errorf("%w: tag must not contain whitespace", ErrValidation)
	}
	return nil
}
