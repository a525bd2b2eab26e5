// search.go implements relevance search over history entries.
//
// Scoring is additive: an exact substring match scores highest, partial
// word matches and description matches add less, and recent entries get
// a small bonus so fresh work surfaces first. Matching context is the
// matched line plus its immediate neighbours, capped at 200 characters.

package history

import (
	"sort"
	"strings"
	"time"
)

// Relevance scoring weights.
const (
	scoreSubstring   = 100 // content contains the full query
	scoreWord        = 50  // per query word (len > 2) found in content
	scoreDescription = 30  // metadata description contains the query
	scoreFresh       = 20  // entry younger than one day
	scoreRecent      = 10  // entry younger than seven days

	contextLimit = 200 // max characters of matching context
)

// SearchResult pairs an entry with its relevance score and the context
// around the matching lines.
type SearchResult struct {
	Entry   Entry  `json:"entry"`
	Score   int    `json:"score"`
	Context string `json:"context,omitempty"`
}

// Search scans one document's history (or all documents when
// documentID is empty) and returns scored results, best first.
// Zero-score entries are excluded.
func (l *Log) Search(query, documentID string) ([]SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	l.mu.Lock()
	var candidates []Entry
	if documentID != "" {
		candidates = append([]Entry(nil), l.entries[documentID]...)
	} else {
		candidates = l.allLocked()
	}
	now := l.clock.Now()
	l.mu.Unlock()

	q := strings.ToLower(query)

	var results []SearchResult
	for _, e := range candidates {
		s := score(q, e, now)
		if s == 0 {
			continue
		}
		results = append(results, SearchResult{
			Entry:   e,
			Score:   s,
			Context: matchingContext(e.Content, q),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results, nil
}

// score computes the relevance of an entry for a lowercased query.
// The recency bonus applies unconditionally, so very recent entries
// surface even without a textual match.
func score(q string, e Entry, now time.Time) int {
	total := 0
	content := strings.ToLower(e.Content)

	if strings.Contains(content, q) {
		total += scoreSubstring
	}

	for _, word := range strings.Fields(q) {
		if len(word) > 2 && strings.Contains(content, word) {
			total += scoreWord
		}
	}

	if e.Meta != nil && strings.Contains(strings.ToLower(e.Meta.Description), q) {
		total += scoreDescription
	}

	switch age := now.Sub(e.Timestamp); {
	case age < 24*time.Hour:
		total += scoreFresh
	case age < 7*24*time.Hour:
		total += scoreRecent
	}

	return total
}

// matchingContext extracts each matching line together with its
// immediate neighbours, joins the windows with a separator, and caps
// the result at contextLimit characters.
func matchingContext(content, q string) string {
	lines := strings.Split(content, "\n")

	var windows []string
	for i, line := range lines {
		if !strings.Contains(strings.ToLower(line), q) {
			continue
		}
		start := max(0, i-1)
		end := min(len(lines), i+2)
		windows = append(windows, strings.Join(lines[start:end], "\n"))
	}

	joined := strings.Join(windows, "\n...\n")
	runes := []rune(joined)
	if len(runes) > contextLimit {
		return string(runes[:contextLimit]) + "..."
	}
	return joined
}
