package cli

import (
	"testing"

	"github.com/room77/suggestd/pkg/algo"
	"github.com/room77/suggestd/pkg/manager"
	"github.com/room77/suggestd/pkg/pipeline"
	"github.com/room77/suggestd/pkg/suggest"
)

type fixedAlgo struct {
	completions []suggest.Completion
}

func (f *fixedAlgo) GetCompletions(request *suggest.Request, response *suggest.Response, ctx *algo.Context) int {
	response.Success = true
	response.Completions = append(response.Completions, f.completions...)
	return len(f.completions)
}

func newTestHandler(completions []suggest.Completion) *InputHandler {
	primary := &fixedAlgo{completions: completions}
	m := manager.New(primary, nil, nil, nil, nil, nil, nil)
	p := pipeline.New(m, pipeline.Config{})
	return NewInputHandler(p, suggest.ChannelDesktopWeb, 0, true)
}

func TestHandleInputRejectsShortQuery(t *testing.T) {
	h := newTestHandler(nil)
	h.minPrefixLength = 5
	h.handleInput("ab")
	if h.requestCount != 1 {
		t.Fatalf("expected requestCount to still increment even when rejected, got %d", h.requestCount)
	}
}

func TestHandleInputRunsPipelineForValidQuery(t *testing.T) {
	h := newTestHandler([]suggest.Completion{
		{SuggestionId: "1", Suggestion: &suggest.CompleteSuggestion{Display: "Chicago"}},
	})
	h.handleInput("chi")
	if h.requestCount != 1 {
		t.Fatalf("expected requestCount to be incremented, got %d", h.requestCount)
	}
}

func TestHandleInputHandlesEmptyResponseWithoutPanicking(t *testing.T) {
	h := newTestHandler(nil)
	h.handleInput("zzz")
}
