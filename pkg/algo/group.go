package algo

import (
	"time"

	"github.com/room77/suggestd/pkg/latch"
	"github.com/room77/suggestd/pkg/merge"
	"github.com/room77/suggestd/pkg/suggest"
)

// Member configures one algorithm's participation in a Group: its weight
// (multiplied into every completion it returns before merging) and the
// operator used when two member algos agree on the same suggestion id.
type Member struct {
	Name     string
	Algo     Algo
	Weight   float64
	Op       string // merge op for collisions on the same suggestion id; default ">"
	Required bool
}

// Group runs a configured set of retrieval algorithms concurrently and
// merges their completions keyed by suggestion id, required members
// gating completion and optional members given a bounded extension if the
// combined result is still short of the requested count. Grounded on
// SuggestAlgoGroup::GetCompletions/MergeSuggestionsFromAlgo.
type Group struct {
	Members         []Member
	TimeoutRequired time.Duration
	TimeoutOptional time.Duration
}

func (g *Group) GetCompletions(request *suggest.Request, response *suggest.Response, ctx *Context) int {
	defer ctx.notify()()

	var numRequired, numOptional int
	for _, m := range g.Members {
		if m.Required {
			numRequired++
		} else {
			numOptional++
		}
	}

	requiredLatch := latch.New(numRequired)
	optionalLatch := latch.New(numOptional)
	responses := make([]*suggest.Response, len(g.Members))

	for i, m := range g.Members {
		i, m := i, m
		responses[i] = &suggest.Response{}
		l := optionalLatch
		if m.Required {
			l = requiredLatch
		}
		memberCtx := &Context{Latch: l}
		if ctx != nil {
			memberCtx.Pool = ctx.Pool
		}
		task := func() { m.Algo.GetCompletions(request, responses[i], memberCtx) }
		if memberCtx.Pool != nil {
			memberCtx.Pool.Add(task)
		} else {
			task()
		}
	}

	requiredLatch.WaitWithTimeout(g.TimeoutRequired)

	combined := make(map[suggest.SuggestionId]suggest.Completion)
	mergeMembers(g.Members, responses, combined, true)

	if len(combined) < request.NumSuggestions {
		optionalLatch.WaitWithTimeout(g.TimeoutOptional)
	}
	mergeMembers(g.Members, responses, combined, false)

	response.Completions = make([]suggest.Completion, 0, len(combined))
	for _, c := range combined {
		response.Completions = append(response.Completions, c)
	}
	response.Success = true
	return len(response.Completions)
}

// mergeMembers folds every member's response matching the given required
// flag into combined, keyed by suggestion id, scaling by weight first and
// resolving collisions with the member's configured merge operator.
func mergeMembers(members []Member, responses []*suggest.Response, combined map[suggest.SuggestionId]suggest.Completion, required bool) {
	for i, m := range members {
		if m.Required != required {
			continue
		}
		resp := responses[i]
		if resp == nil || !resp.Success || len(resp.Completions) == 0 {
			continue
		}
		op, ok := merge.ByOp(m.Op)
		if !ok {
			op, _ = merge.ByOp(">")
		}
		weight := m.Weight
		if weight == 0 {
			weight = 1
		}
		for _, c := range resp.Completions {
			c.Score *= weight
			existing, found := combined[c.SuggestionId]
			if !found {
				combined[c.SuggestionId] = c
				continue
			}
			op.Merge(&existing, c)
			combined[c.SuggestionId] = existing
		}
	}
}
