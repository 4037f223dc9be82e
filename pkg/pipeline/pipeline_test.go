package pipeline

import (
	"testing"

	"github.com/room77/suggestd/pkg/algo"
	"github.com/room77/suggestd/pkg/dedup"
	"github.com/room77/suggestd/pkg/manager"
	"github.com/room77/suggestd/pkg/suggest"
	"github.com/room77/suggestd/pkg/twiddle"
)

// fixedAlgo returns a canned response, recording the last request it saw.
type fixedAlgo struct {
	response suggest.Response
	lastReq  *suggest.Request
}

func (a *fixedAlgo) GetCompletions(request *suggest.Request, response *suggest.Response, ctx *algo.Context) int {
	a.lastReq = request
	*response = a.response
	return len(response.Completions)
}

func completion(id string, score float64) suggest.Completion {
	return suggest.Completion{
		SuggestionId: suggest.SuggestionId(id),
		Score:        score,
		Suggestion:   &suggest.CompleteSuggestion{Normalized: id},
	}
}

func TestPrepareRequestFillsDefaultsForWeb(t *testing.T) {
	primary := &fixedAlgo{response: suggest.Response{Success: true}}
	p := New(manager.New(primary, nil, nil, nil, nil, nil, nil), Config{})

	p.GetCompletions(suggest.Query{Input: "chicago"}, suggest.DeviceChannel(0), false)

	if primary.lastReq == nil {
		t.Fatalf("expected primary algo to be invoked")
	}
	if primary.lastReq.UserCountry != DefaultCountry {
		t.Fatalf("expected default country %q, got %q", DefaultCountry, primary.lastReq.UserCountry)
	}
	if primary.lastReq.NumSuggestions != DefaultWebSuggestions {
		t.Fatalf("expected default web suggestion count %d, got %d", DefaultWebSuggestions, primary.lastReq.NumSuggestions)
	}
}

func TestPrepareRequestEmptyQueryShortCircuits(t *testing.T) {
	primary := &fixedAlgo{response: suggest.Response{Success: true}}
	p := New(manager.New(primary, nil, nil, nil, nil, nil, nil), Config{})

	resp := p.GetCompletions(suggest.Query{Input: "   "}, suggest.DeviceChannel(0), false)

	if resp.Success {
		t.Fatalf("expected an empty-normalized query to fail without invoking any algo")
	}
	if primary.lastReq != nil {
		t.Fatalf("expected primary algo not to be invoked for an empty query")
	}
}

func TestRunFallbackFlowUsedWhenPrimaryFails(t *testing.T) {
	primary := &fixedAlgo{response: suggest.Response{Success: false}}
	fallback := &fixedAlgo{response: suggest.Response{Success: true, Completions: []suggest.Completion{completion("a", 1)}}}
	p := New(manager.New(primary, fallback, nil, nil, nil, nil, nil), Config{})

	resp := p.GetCompletions(suggest.Query{Input: "chicago"}, suggest.DeviceChannel(0), false)

	if !resp.Success || len(resp.Completions) != 1 {
		t.Fatalf("expected fallback's single completion to surface, got %+v", resp)
	}
}

func TestSecondaryFlowMergesIntoPrimary(t *testing.T) {
	primary := &fixedAlgo{response: suggest.Response{Success: true, Completions: []suggest.Completion{completion("a", 10)}}}
	secondary := &fixedAlgo{response: suggest.Response{Success: true, Completions: []suggest.Completion{completion("b", 5)}}}
	p := New(manager.New(primary, nil, secondary, nil, nil, nil, nil), Config{})

	resp := p.GetCompletions(suggest.Query{Input: "chicago", NumSuggestions: 10}, suggest.DeviceChannel(0), false)

	if len(resp.Completions) != 2 {
		t.Fatalf("expected both primary and secondary completions merged, got %+v", resp.Completions)
	}
}

func TestDedupResponseRunsConfiguredDedupers(t *testing.T) {
	primary := &fixedAlgo{response: suggest.Response{
		Success: true,
		Completions: []suggest.Completion{
			completion("a", 10),
			completion("a", 5),
		},
	}}
	m := manager.New(primary, nil, nil, []dedup.Deduper{dedup.New()}, nil, nil, nil)
	p := New(m, Config{})

	resp := p.GetCompletions(suggest.Query{Input: "chicago"}, suggest.DeviceChannel(0), false)

	if len(resp.Completions) != 1 {
		t.Fatalf("expected the duplicate suggestion id to be deduped, got %+v", resp.Completions)
	}
}

// tripler is a test-only Twiddler that scales every completion's score by 3.
type tripler struct{}

func (tripler) GetScore(request *suggest.Request, response *suggest.Response) twiddle.Result {
	scores := make([]twiddle.Score, len(response.Completions))
	for i := range scores {
		scores[i] = twiddle.Score{Value: 3, DebugInfo: "tripler"}
	}
	return twiddle.Result{Success: true, Scores: scores}
}

func TestTwiddlePrimaryResponseAppliesScore(t *testing.T) {
	primary := &fixedAlgo{response: suggest.Response{Success: true, Completions: []suggest.Completion{completion("a", 2)}}}
	m := manager.New(primary, nil, nil, nil, tripler{}, nil, nil)
	p := New(m, Config{})

	resp := p.GetCompletions(suggest.Query{Input: "chicago"}, suggest.DeviceChannel(0), false)

	if len(resp.Completions) != 1 || resp.Completions[0].Score != 6 {
		t.Fatalf("expected twiddler to scale score by its multiplier, got %+v", resp.Completions)
	}
}

func TestFixPositionsKeepsChildRightAfterParent(t *testing.T) {
	primary := &fixedAlgo{response: suggest.Response{
		Success: true,
		Completions: []suggest.Completion{
			completion("parent", 10),
			completion("other", 9),
			{SuggestionId: "child", ParentId: "parent", Score: 8, Suggestion: &suggest.CompleteSuggestion{Normalized: "child"}},
		},
	}}
	p := New(manager.New(primary, nil, nil, nil, nil, nil, nil), Config{})

	resp := p.GetCompletions(suggest.Query{Input: "chicago", NumSuggestions: 10}, suggest.DeviceChannel(0), false)

	if len(resp.Completions) != 3 {
		t.Fatalf("expected all three completions to survive, got %+v", resp.Completions)
	}
	if resp.Completions[0].SuggestionId != "parent" || resp.Completions[1].SuggestionId != "child" {
		t.Fatalf("expected child to immediately follow its parent, got order %+v", resp.Completions)
	}
}

// attributeLikeAlgo mimics algo.Attribute's contract well enough to test
// end to end: it reads ctx.CurrentResponse's parent completions and emits
// one child per parent, named after it.
type attributeLikeAlgo struct{}

func (attributeLikeAlgo) GetCompletions(request *suggest.Request, response *suggest.Response, ctx *algo.Context) int {
	if ctx == nil || ctx.CurrentResponse == nil {
		response.Success = true
		return 0
	}
	for _, parent := range ctx.CurrentResponse.Completions {
		if parent.ParentId != "" {
			continue
		}
		response.Completions = append(response.Completions, suggest.Completion{
			SuggestionId: suggest.SuggestionId("c_of_" + string(parent.SuggestionId)),
			ParentId:     parent.SuggestionId,
			Score:        parent.Score - 1,
			Suggestion:   &suggest.CompleteSuggestion{Normalized: "c_of_" + string(parent.SuggestionId)},
		})
	}
	response.Success = true
	return len(response.Completions)
}

func TestSecondaryAttributeUsesCurrentResponseEndToEnd(t *testing.T) {
	primary := &fixedAlgo{response: suggest.Response{
		Success: true,
		Completions: []suggest.Completion{
			completion("p1", 10),
			completion("p2", 8),
		},
	}}
	m := manager.New(primary, nil, attributeLikeAlgo{}, nil, nil, nil, nil)
	p := New(m, Config{})

	resp := p.GetCompletions(suggest.Query{Input: "chicago", NumSuggestions: 10}, suggest.DeviceChannel(0), false)

	if len(resp.Completions) != 4 {
		t.Fatalf("expected 2 parents and 2 children to survive, got %+v", resp.Completions)
	}
	want := []suggest.SuggestionId{"p1", "c_of_p1", "p2", "c_of_p2"}
	for i, id := range want {
		if resp.Completions[i].SuggestionId != id {
			t.Fatalf("expected order %v, got %+v", want, resp.Completions)
		}
	}
}

func TestCheckTopCompletionInstantWorthy(t *testing.T) {
	primary := &fixedAlgo{response: suggest.Response{
		Success: true,
		Completions: []suggest.Completion{
			{SuggestionId: "a", Score: 100, Suggestion: &suggest.CompleteSuggestion{Normalized: "a", Freq: 50}},
			{SuggestionId: "b", Score: 1, Suggestion: &suggest.CompleteSuggestion{Normalized: "b", Freq: 50}},
		},
	}}
	p := New(manager.New(primary, nil, nil, nil, nil, nil, nil), Config{})

	resp := p.GetCompletions(suggest.Query{Input: "chicago"}, suggest.DeviceChannel(0), false)

	if !resp.EnableInstant {
		t.Fatalf("expected an overwhelmingly dominant top completion with high frequency to enable instant, got %+v", resp)
	}
}

func TestCheckTopCompletionNotInstantWorthyWhenFreqTooLow(t *testing.T) {
	primary := &fixedAlgo{response: suggest.Response{
		Success: true,
		Completions: []suggest.Completion{
			{SuggestionId: "a", Score: 100, Suggestion: &suggest.CompleteSuggestion{Normalized: "a", Freq: 1}},
		},
	}}
	p := New(manager.New(primary, nil, nil, nil, nil, nil, nil), Config{})

	resp := p.GetCompletions(suggest.Query{Input: "chicago"}, suggest.DeviceChannel(0), false)

	if resp.EnableInstant {
		t.Fatalf("expected a low-frequency top completion not to enable instant, got %+v", resp)
	}
}
