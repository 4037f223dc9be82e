package falcon

import (
	"testing"

	"github.com/room77/suggestd/pkg/latch"
	"github.com/room77/suggestd/pkg/suggest"
)

func newTestFalcon() *Falcon {
	f := New("test")
	f.byID["a"] = &suggest.CompleteSuggestion{Display: "Alpha", BaseScore: 10}
	f.byID["b"] = &suggest.CompleteSuggestion{Display: "Beta", BaseScore: 20}
	return f
}

func TestFindResolvesKnownAndUnknownIds(t *testing.T) {
	f := newTestFalcon()
	if got := f.Find("a"); got == nil || got.Display != "Alpha" {
		t.Fatalf("expected to resolve id a, got %+v", got)
	}
	if got := f.Find("missing"); got != nil {
		t.Fatalf("expected nil for unknown id, got %+v", got)
	}
}

func TestAddCompleteSuggestionsSeedsScoreAndDropsUnresolved(t *testing.T) {
	f := newTestFalcon()
	resp := &suggest.Response{
		Completions: []suggest.Completion{
			{SuggestionId: "a"},
			{SuggestionId: "missing"},
			{SuggestionId: "b", Score: 5},
		},
	}

	l := latch.New(1)
	f.AddCompleteSuggestions(resp, l)

	if l.Remaining() != 0 {
		t.Fatalf("expected latch notified exactly once, remaining=%d", l.Remaining())
	}
	if len(resp.Completions) != 2 {
		t.Fatalf("expected unresolved completion dropped, got %d completions", len(resp.Completions))
	}
	if resp.Completions[0].SuggestionId != "a" || resp.Completions[0].Score != 10 {
		t.Fatalf("expected completion a to be seeded with base score 10, got %+v", resp.Completions[0])
	}
	if resp.Completions[1].SuggestionId != "b" || resp.Completions[1].Score != 5 {
		t.Fatalf("expected completion b to keep its existing score 5, got %+v", resp.Completions[1])
	}
}

func TestAddCompleteSuggestionsNilResponseStillNotifies(t *testing.T) {
	f := newTestFalcon()
	l := latch.New(1)
	f.AddCompleteSuggestions(nil, l)
	if l.Remaining() != 0 {
		t.Fatalf("expected latch notified even for a nil response")
	}
}

func TestLoadUnknownFile(t *testing.T) {
	f := New("test")
	if err := f.Load("/nonexistent/path/does-not-exist.msgpack"); err == nil {
		t.Fatalf("expected error loading a nonexistent file")
	}
}
