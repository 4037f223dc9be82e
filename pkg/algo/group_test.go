package algo

import (
	"testing"
	"time"

	"github.com/room77/suggestd/pkg/suggest"
)

type constantAlgo struct {
	completions []suggest.Completion
	success     bool
}

func (c constantAlgo) GetCompletions(request *suggest.Request, response *suggest.Response, ctx *Context) int {
	defer ctx.notify()()
	response.Success = c.success
	response.Completions = append(response.Completions, c.completions...)
	return len(c.completions)
}

func TestGroupMergesDistinctSuggestionsFromRequiredMembers(t *testing.T) {
	g := &Group{
		Members: []Member{
			{Name: "a", Algo: constantAlgo{success: true, completions: []suggest.Completion{{SuggestionId: "x", Score: 1}}}, Required: true, Op: ">"},
			{Name: "b", Algo: constantAlgo{success: true, completions: []suggest.Completion{{SuggestionId: "y", Score: 1}}}, Required: true, Op: ">"},
		},
		TimeoutRequired: 50 * time.Millisecond,
		TimeoutOptional: 10 * time.Millisecond,
	}
	resp := &suggest.Response{}
	n := g.GetCompletions(&suggest.Request{NumSuggestions: 10}, resp, nil)
	if n != 2 || !resp.Success {
		t.Fatalf("expected 2 merged completions, got n=%d resp=%+v", n, resp)
	}
}

func TestGroupAppliesWeightAndMergesCollisions(t *testing.T) {
	g := &Group{
		Members: []Member{
			{Name: "a", Algo: constantAlgo{success: true, completions: []suggest.Completion{{SuggestionId: "x", Score: 2}}}, Required: true, Weight: 3, Op: "+"},
			{Name: "b", Algo: constantAlgo{success: true, completions: []suggest.Completion{{SuggestionId: "x", Score: 5}}}, Required: true, Weight: 1, Op: "+"},
		},
		TimeoutRequired: 50 * time.Millisecond,
	}
	resp := &suggest.Response{}
	g.GetCompletions(&suggest.Request{}, resp, nil)
	if len(resp.Completions) != 1 {
		t.Fatalf("expected single merged completion for colliding id, got %+v", resp.Completions)
	}
	if resp.Completions[0].Score != 11 {
		t.Fatalf("expected weighted sum 2*3 + 5*1 = 11, got %v", resp.Completions[0].Score)
	}
}

func TestGroupIgnoresFailedMember(t *testing.T) {
	g := &Group{
		Members: []Member{
			{Name: "ok", Algo: constantAlgo{success: true, completions: []suggest.Completion{{SuggestionId: "x", Score: 1}}}, Required: true, Op: ">"},
			{Name: "bad", Algo: constantAlgo{success: false}, Required: false, Op: ">"},
		},
		TimeoutRequired: 50 * time.Millisecond,
		TimeoutOptional: 10 * time.Millisecond,
	}
	resp := &suggest.Response{}
	n := g.GetCompletions(&suggest.Request{}, resp, nil)
	if n != 1 {
		t.Fatalf("expected only the successful member's completion, got %d", n)
	}
}
