package algo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/room77/suggestd/pkg/falcon"
	"github.com/room77/suggestd/pkg/suggest"
	"github.com/vmihailenco/msgpack/v5"
)

func TestKeyValueGetCompletionsFound(t *testing.T) {
	a := &KeyValue{
		Lookup: func(key string) ([]suggest.CompletionIndexItem, bool) {
			if key != "chicago" {
				return nil, false
			}
			return []suggest.CompletionIndexItem{{SuggestionId: "a"}, {SuggestionId: "b"}}, true
		},
		Type: suggest.AlgoTypePrefix,
	}
	resp := &suggest.Response{}
	n := a.GetCompletions(&suggest.Request{Query: suggest.Query{}, NormalizedQuery: "chicago"}, resp, nil)
	if n != 2 || !resp.Success {
		t.Fatalf("expected 2 completions, success true, got n=%d resp=%+v", n, resp)
	}
	for _, c := range resp.Completions {
		if c.AlgoType != suggest.AlgoTypePrefix {
			t.Fatalf("expected algo type tagged on every completion, got %+v", c)
		}
	}
}

func TestKeyValueGetCompletionsNotFound(t *testing.T) {
	a := &KeyValue{Lookup: func(string) ([]suggest.CompletionIndexItem, bool) { return nil, false }}
	resp := &suggest.Response{}
	n := a.GetCompletions(&suggest.Request{NormalizedQuery: "nope"}, resp, nil)
	if n != 0 || !resp.Success || len(resp.Completions) != 0 {
		t.Fatalf("expected success with zero completions, got n=%d resp=%+v", n, resp)
	}
}

func TestKeyValueExOverridesScoreFromIndex(t *testing.T) {
	a := &KeyValueEx{
		Lookup: func(string) ([]suggest.CompletionIndexItemEx, bool) {
			return []suggest.CompletionIndexItemEx{
				{CompletionIndexItem: suggest.CompletionIndexItem{SuggestionId: "a"}, IndexScore: 7},
				{CompletionIndexItem: suggest.CompletionIndexItem{SuggestionId: "b"}},
			}, true
		},
	}
	resp := &suggest.Response{}
	a.GetCompletions(&suggest.Request{NormalizedQuery: "q"}, resp, nil)
	if resp.Completions[0].Score != 7 {
		t.Fatalf("expected index score to seed completion score, got %v", resp.Completions[0].Score)
	}
	if resp.Completions[1].Score != 0 {
		t.Fatalf("expected zero index score to leave completion score unset, got %v", resp.Completions[1].Score)
	}
}

func TestKeyValueResolvesSuggestionsFromFalconWhenSet(t *testing.T) {
	encoded, err := msgpack.Marshal(map[suggest.SuggestionId]*suggest.CompleteSuggestion{
		"a": {Display: "Alpha", BaseScore: 10},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := filepath.Join(t.TempDir(), "falcon.msgpack")
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	f := falcon.New("test")
	if err := f.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}

	a := &KeyValue{
		Lookup: func(string) ([]suggest.CompletionIndexItem, bool) {
			return []suggest.CompletionIndexItem{{SuggestionId: "a"}, {SuggestionId: "missing"}}, true
		},
		Falcon: f,
	}
	resp := &suggest.Response{}
	a.GetCompletions(&suggest.Request{NormalizedQuery: "q"}, resp, nil)

	if len(resp.Completions) != 1 {
		t.Fatalf("expected the unresolvable suggestion dropped, got %+v", resp.Completions)
	}
	if resp.Completions[0].Suggestion == nil || resp.Completions[0].Suggestion.Display != "Alpha" {
		t.Fatalf("expected the completion's Suggestion resolved from the falcon, got %+v", resp.Completions[0])
	}
}
