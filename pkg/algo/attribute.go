package algo

import (
	"github.com/room77/suggestd/pkg/falcon"
	"github.com/room77/suggestd/pkg/suggest"
)

// DefaultAttributeKey is the sentinel index key attribute algorithms fall
// back to when no attributes are indexed for the selected suggestion
// itself, mirroring suggest_algo_attribute_default_key.
const DefaultAttributeKey = "__default__"

// Attribute retrieves child suggestions (sort/amenity/neighborhood/etc.
// attributes) for the top MaxAttributeCandidates parent completions of the
// primary response already threaded through Context.CurrentResponse: for
// each such parent (a completion with an empty ParentId) it looks up
// AttributeIndexAlgo keyed by the parent's suggestion id, falling back to
// DefaultAttributeKey when nothing is indexed for it, then turns every
// returned index entry into a child completion scored off that parent.
// Grounded on suggest_attribute.h's documented contract (the base class's
// GetCompletions/GetAttributes definition was not retrieved in source; this
// reconstructs it from the header and from suggest_attribute_location.cc,
// the one concrete override that was retrieved) and on suggestions.cc's
// `context->current_response = response_` threading into the secondary
// phase.
type Attribute struct {
	AttributeIndexAlgo     Algo
	Falcon                 *falcon.Falcon
	MaxAttributeCandidates int

	// PrepareChild customizes a child completion built from its parent,
	// beyond the shared score-inheritance rule every attribute algo uses.
	// nil uses DefaultPrepareChild.
	PrepareChild func(parent, child *suggest.Completion)
}

const defaultMaxAttributeCandidates = 3

func (a *Attribute) GetCompletions(request *suggest.Request, response *suggest.Response, ctx *Context) int {
	defer ctx.notify()()

	if ctx == nil || ctx.CurrentResponse == nil {
		response.Success = true
		return 0
	}

	maxCandidates := a.MaxAttributeCandidates
	if maxCandidates == 0 {
		maxCandidates = defaultMaxAttributeCandidates
	}

	var parents []suggest.Completion
	for _, c := range ctx.CurrentResponse.Completions {
		if c.ParentId != "" {
			continue
		}
		parents = append(parents, c)
		if len(parents) >= maxCandidates {
			break
		}
	}
	if len(parents) == 0 {
		response.Success = true
		return 0
	}

	prepare := a.PrepareChild
	if prepare == nil {
		prepare = DefaultPrepareChild
	}

	response.Completions = make([]suggest.Completion, 0, len(parents))
	for _, parent := range parents {
		for _, child := range a.attributesForParent(request, parent.SuggestionId) {
			if child.Suggestion == nil {
				child.Suggestion = a.Falcon.Find(child.SuggestionId)
			}
			child.ParentId = parent.SuggestionId
			prepare(&parent, &child)
			response.Completions = append(response.Completions, child)
		}
	}

	response.Success = true
	return len(response.Completions)
}

// attributesForParent looks up the attribute index by parentId, falling
// back to DefaultAttributeKey when nothing is indexed for it.
func (a *Attribute) attributesForParent(request *suggest.Request, parentId suggest.SuggestionId) []suggest.Completion {
	attrResp := &suggest.Response{}
	attrReq := *request
	attrReq.NormalizedQuery = string(parentId)
	a.AttributeIndexAlgo.GetCompletions(&attrReq, attrResp, &Context{})

	if !attrResp.Success || len(attrResp.Completions) == 0 {
		attrResp = &suggest.Response{}
		attrReq.NormalizedQuery = DefaultAttributeKey
		a.AttributeIndexAlgo.GetCompletions(&attrReq, attrResp, &Context{})
	}
	if !attrResp.Success {
		return nil
	}
	return attrResp.Completions
}

// DefaultPrepareChild multiplies the child's score by the parent's score
// (denom fixed at 1 — see the resolved Open Question in DESIGN.md, matching
// the original's own denom=1 override ahead of its commented-out
// base-score-ratio line).
func DefaultPrepareChild(parent, child *suggest.Completion) {
	child.Score *= parent.Score
}
