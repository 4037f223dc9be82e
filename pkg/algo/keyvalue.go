package algo

import (
	"github.com/room77/suggestd/pkg/falcon"
	"github.com/room77/suggestd/pkg/suggest"
)

// KeyValue retrieves completions via an exact lookup of the request's
// normalized query against a preloaded index, tagging every result with a
// fixed algo type. Grounded on SuggestKeyValue::FindCompletions — the plain
// (non-Ex) variant, whose index items carry no per-entry score override.
// Falcon is optional; when set, GetCompletions resolves every returned
// completion's Suggestion pointer before returning, mirroring
// SuggestKeyValueBase::GetCompletions's trailing falcon_->
// AddCompleteSuggestions(response) call.
type KeyValue struct {
	Name   string
	Lookup func(key string) ([]suggest.CompletionIndexItem, bool)
	Type   suggest.AlgoType
	Falcon *falcon.Falcon
}

func (a *KeyValue) GetCompletions(request *suggest.Request, response *suggest.Response, ctx *Context) int {
	defer ctx.notify()()

	items, ok := a.Lookup(request.NormalizedQuery)
	response.Success = true
	if !ok {
		return 0
	}

	before := len(response.Completions)
	for _, item := range items {
		c := suggest.NewCompletionFromIndexItem(item)
		c.AlgoType = a.Type
		response.Completions = append(response.Completions, c)
	}
	if a.Falcon != nil {
		a.Falcon.AddCompleteSuggestions(response, nil)
	}
	return len(response.Completions) - before
}

// KeyValueEx retrieves completions the same way as KeyValue, but its index
// items may carry a per-entry score that overrides the eventual falcon base
// score. Grounded on SuggestKeyValue::FindCompletions's Ex partner.
type KeyValueEx struct {
	Name   string
	Lookup func(key string) ([]suggest.CompletionIndexItemEx, bool)
	Type   suggest.AlgoType
	Falcon *falcon.Falcon
}

func (a *KeyValueEx) GetCompletions(request *suggest.Request, response *suggest.Response, ctx *Context) int {
	defer ctx.notify()()

	items, ok := a.Lookup(request.NormalizedQuery)
	response.Success = true
	if !ok {
		return 0
	}

	before := len(response.Completions)
	for _, item := range items {
		c := suggest.NewCompletionFromIndexItemEx(item)
		c.AlgoType = a.Type
		if item.IndexScore != 0 {
			c.Score = item.IndexScore
		}
		response.Completions = append(response.Completions, c)
	}
	if a.Falcon != nil {
		a.Falcon.AddCompleteSuggestions(response, nil)
	}
	return len(response.Completions) - before
}
