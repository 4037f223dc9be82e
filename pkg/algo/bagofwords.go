package algo

import (
	"fmt"
	"sort"
	"strings"

	"github.com/room77/suggestd/pkg/latch"
	"github.com/room77/suggestd/pkg/rank"
	"github.com/room77/suggestd/pkg/suggest"
)

// BagOfWords retrieves completions by splitting the normalized query into
// words, retrieving each word's completions independently via WordAlgo
// (fanned out on the pool, one lookup per word), then boosting every
// candidate by how well its suggestion's words match the query's words in
// order. Grounded on SuggestBagOfWords::GetCompletions.
type BagOfWords struct {
	WordAlgo                 Algo
	MaxSuggestionsMultiplier int
	MaxBoost                 float64
}

const (
	defaultMaxSuggestionsMultiplier = 7
	defaultMaxBoost                 = 5
)

func (a *BagOfWords) GetCompletions(request *suggest.Request, response *suggest.Response, ctx *Context) int {
	defer ctx.notify()()

	words := strings.Fields(request.NormalizedQuery)
	if len(words) == 0 {
		response.Success = true
		return 0
	}

	multiplier := a.MaxSuggestionsMultiplier
	if multiplier == 0 {
		multiplier = defaultMaxSuggestionsMultiplier
	}
	maxBoost := a.MaxBoost
	if maxBoost == 0 {
		maxBoost = defaultMaxBoost
	}

	// Space-terminate every word but the last, and the last too if the
	// query itself ended on a completed word — this tells the mismatch
	// scorer which words need an exact match versus a prefix match.
	matchWords := make([]string, len(words))
	copy(matchWords, words)
	for i := range matchWords {
		if request.LastWordComplete || i != len(matchWords)-1 {
			matchWords[i] += " "
		}
	}

	var memberPool *Context
	if ctx != nil {
		memberPool = &Context{Pool: ctx.Pool}
	} else {
		memberPool = &Context{}
	}

	wordLatch := latch.New(len(words))
	wordResponses := make([]*suggest.Response, len(words))

	for i, w := range words {
		i := i
		wordResponses[i] = &suggest.Response{}
		wordReq := *request
		wordReq.NormalizedQuery = w
		wordCtx := &Context{Pool: memberPool.Pool, Latch: wordLatch}
		task := func() { a.WordAlgo.GetCompletions(&wordReq, wordResponses[i], wordCtx) }
		if wordCtx.Pool != nil {
			wordCtx.Pool.Add(task)
		} else {
			task()
		}
	}
	wordLatch.Wait()

	seen := make(map[suggest.SuggestionId]struct{})
	candidates := make([]suggest.Completion, 0)

	for _, wr := range wordResponses {
		if wr == nil || !wr.Success {
			continue
		}
		for _, c := range wr.Completions {
			if _, ok := seen[c.SuggestionId]; ok {
				continue
			}
			seen[c.SuggestionId] = struct{}{}

			if c.Suggestion == nil {
				continue
			}
			mismatch := wordMismatchExtent(c.Suggestion.Normalized, matchWords)
			if mismatch < 0 {
				continue
			}

			maxMismatch := float64(len(request.NormalizedQuery) * len(c.Suggestion.Normalized))
			mismatchRatio := 0.0
			if maxMismatch != 0 {
				mismatchRatio = mismatch / maxMismatch
			}

			// Deliberately unclamped: the original's clamp to >= 1 is
			// present only as a commented-out dead line.
			boost := maxBoost * (1 - mismatchRatio)
			c.DebugInfo += fmt.Sprintf(" | BOW: Boost = %v", boost)
			c.Score *= boost

			candidates = append(candidates, c)
		}
	}

	if len(candidates) > 0 {
		sort.SliceStable(candidates, func(i, j int) bool {
			return rank.Better(candidates[i], candidates[j])
		})
		maxSuggestions := request.NumSuggestions * multiplier
		if maxSuggestions > 0 && len(candidates) > maxSuggestions {
			candidates = candidates[:maxSuggestions]
		}
		response.Completions = append(response.Completions, candidates...)
	}

	response.Success = true
	return len(response.Completions)
}
