// Package falcon implements the complete-suggestion store (C4): a
// read-only SuggestionId -> *CompleteSuggestion map, fully loaded at
// process init from a single file. Grounded on
// suggest_falcon_csmap.{h,cc}.
package falcon

import (
	"fmt"

	"github.com/room77/suggestd/pkg/latch"
	"github.com/room77/suggestd/pkg/store"
	"github.com/room77/suggestd/pkg/suggest"
)

// Falcon is a read-only, fully-resident suggestion store. Safe for
// concurrent reads after Load returns; it is never mutated afterward.
type Falcon struct {
	id   string
	byID map[suggest.SuggestionId]*suggest.CompleteSuggestion
}

// New returns an empty, unloaded falcon identified by id.
func New(id string) *Falcon {
	return &Falcon{id: id, byID: make(map[suggest.SuggestionId]*suggest.CompleteSuggestion)}
}

// ID returns the falcon's configured name.
func (f *Falcon) ID() string { return f.id }

// Size returns the number of loaded suggestions.
func (f *Falcon) Size() int { return len(f.byID) }

// Load reads a msgpack-encoded map[SuggestionId]*CompleteSuggestion from
// file, replacing any previously loaded content. This is the falcon's
// only write path; there is no incremental update after process init,
// matching "falcons are created once at process init and pinned by the
// manager for the process lifetime".
func (f *Falcon) Load(filename string) error {
	var raw map[suggest.SuggestionId]*suggest.CompleteSuggestion
	if err := store.LoadMsgpack(filename, &raw); err != nil {
		return fmt.Errorf("falcon %s: %w", f.id, err)
	}
	f.byID = raw
	return nil
}

// Find returns the suggestion registered under id, or nil if absent. Nil-safe:
// a nil *Falcon (no falcon configured) just finds nothing.
func (f *Falcon) Find(id suggest.SuggestionId) *suggest.CompleteSuggestion {
	if f == nil {
		return nil
	}
	return f.byID[id]
}

// AddCompleteSuggestions resolves the suggestion ref for every completion
// in response missing one, dropping any completion whose id cannot be
// resolved. A completion with a zero score is seeded from the resolved
// suggestion's base score. If l is non-nil it is notified exactly once on
// return, including when response is nil.
func (f *Falcon) AddCompleteSuggestions(response *suggest.Response, l *latch.Latch) {
	defer latch.ScopedNotify(l)()
	if response == nil {
		return
	}

	kept := response.Completions[:0]
	for i := range response.Completions {
		c := &response.Completions[i]
		if c.Suggestion == nil {
			c.Suggestion = f.Find(c.SuggestionId)
		}
		if c.Suggestion == nil {
			continue
		}
		if c.Score == 0 {
			c.Score = c.Suggestion.BaseScore
		}
		kept = append(kept, *c)
	}
	response.Completions = kept
}
