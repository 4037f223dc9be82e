// Package dedup implements the deduplicator (C9): removes later duplicate
// completions from an already-sorted response, keeping the first
// occurrence of each SuggestionId. Grounded on suggest_dedup_duplicate.cc.
package dedup

import "github.com/room77/suggestd/pkg/suggest"

// Deduper removes later duplicates from response.Completions in place and
// returns the number of completions removed.
type Deduper interface {
	Dedup(response *suggest.Response) int
}

// Duplicate is the first-occurrence-wins deduplicator: it walks
// response.Completions in order and drops any completion whose
// SuggestionId has already been seen, the Go analogue of the original's
// remove_if over an unordered_set<SuggestionId>.
type Duplicate struct{}

// New returns a Duplicate deduper. It has no configuration.
func New() Duplicate { return Duplicate{} }

func (Duplicate) Dedup(response *suggest.Response) int {
	if response == nil || len(response.Completions) == 0 {
		return 0
	}
	before := len(response.Completions)

	seen := make(map[suggest.SuggestionId]struct{}, before)
	kept := response.Completions[:0]
	for _, c := range response.Completions {
		if _, dup := seen[c.SuggestionId]; dup {
			continue
		}
		seen[c.SuggestionId] = struct{}{}
		kept = append(kept, c)
	}
	response.Completions = kept
	return before - len(kept)
}
