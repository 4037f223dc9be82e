package algo

import (
	"fmt"

	"github.com/room77/suggestd/pkg/fuzzy"
	"github.com/room77/suggestd/pkg/suggest"
)

// SpellCorrection retrieves completions by fuzzy-correcting the normalized
// query against a fixed vocabulary of known keys, then re-running the
// wrapped algorithm against the corrected query. It only kicks in when the
// query doesn't already match a known key (Matcher.SuggestCorrection
// returns corrected=false for both an exact match and a hopeless
// mismatch) — the same gate the original's spell-correction chain member
// used, tagging every result it found with AlgoTypeSpellCorrection.
type SpellCorrection struct {
	Matcher  *fuzzy.Matcher
	Delegate Algo
}

func (a *SpellCorrection) GetCompletions(request *suggest.Request, response *suggest.Response, ctx *Context) int {
	defer ctx.notify()()

	corrected, didCorrect := a.Matcher.SuggestCorrection(request.NormalizedQuery)
	if !didCorrect {
		response.Success = true
		return 0
	}

	correctedReq := *request
	correctedReq.NormalizedQuery = corrected

	var delegateCtx *Context
	if ctx != nil {
		delegateCtx = &Context{Pool: ctx.Pool}
	}
	n := a.Delegate.GetCompletions(&correctedReq, response, delegateCtx)

	for i := range response.Completions {
		response.Completions[i].AlgoType |= suggest.AlgoTypeSpellCorrection
		response.Completions[i].DebugInfo += fmt.Sprintf(" spell_corrected:%s->%s", request.NormalizedQuery, corrected)
	}
	return n
}
