// Package pipeline implements the per-request completion pipeline (C12):
// preparing a raw query into a normalized request, running the primary/
// fallback/secondary retrieval flows against a manager.Manager, twiddling,
// sorting, deduping and trimming in between, and finalizing the response
// (fixing parent/child positions, flagging it instant-worthy). Grounded on
// suggestions.h/.cc. Named pkg/pipeline rather than living inside
// pkg/suggest (the original's home for this logic, Suggestions) to avoid
// an import cycle: this package depends on pkg/algo, pkg/twiddle,
// pkg/dedup and pkg/rank, all of which depend on pkg/suggest for its data
// model.
package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/room77/suggestd/pkg/algo"
	"github.com/room77/suggestd/pkg/manager"
	"github.com/room77/suggestd/pkg/rank"
	"github.com/room77/suggestd/pkg/suggest"
	"github.com/room77/suggestd/pkg/twiddle"
)

// Defaults mirror the original's suggest_input_default_* /
// suggest_min_secondary_suggestions / suggest_max_suggestions_multiplier /
// suggest_top_suggestion_min_* flags.
const (
	DefaultCountry                   = "US"
	DefaultLanguage                  = "en"
	DefaultWebSuggestions             = 10
	DefaultMobileSuggestions          = 5
	DefaultMinSecondarySuggestions    = 6
	DefaultMaxSuggestionsMultiplier   = 6
	DefaultTopSuggestionMinFreq       = 10.0
	DefaultTopSuggestionMinSelectProb = 0.4
)

// Config holds the tunables a Pipeline run uses; a zero Config falls back
// to the package defaults above.
type Config struct {
	DefaultCountry                   string
	DefaultLanguage                  string
	DefaultWebSuggestions            int
	DefaultMobileSuggestions         int
	MinSecondarySuggestions          int
	MaxSuggestionsMultiplier         int
	TopSuggestionMinFreq             float64
	TopSuggestionMinSelectProbability float64
}

func (c Config) withDefaults() Config {
	if c.DefaultCountry == "" {
		c.DefaultCountry = DefaultCountry
	}
	if c.DefaultLanguage == "" {
		c.DefaultLanguage = DefaultLanguage
	}
	if c.DefaultWebSuggestions == 0 {
		c.DefaultWebSuggestions = DefaultWebSuggestions
	}
	if c.DefaultMobileSuggestions == 0 {
		c.DefaultMobileSuggestions = DefaultMobileSuggestions
	}
	if c.MinSecondarySuggestions == 0 {
		c.MinSecondarySuggestions = DefaultMinSecondarySuggestions
	}
	if c.MaxSuggestionsMultiplier == 0 {
		c.MaxSuggestionsMultiplier = DefaultMaxSuggestionsMultiplier
	}
	if c.TopSuggestionMinFreq == 0 {
		c.TopSuggestionMinFreq = DefaultTopSuggestionMinFreq
	}
	if c.TopSuggestionMinSelectProbability == 0 {
		c.TopSuggestionMinSelectProbability = DefaultTopSuggestionMinSelectProb
	}
	return c
}

// Pipeline serves completions for a single request. Not safe for concurrent
// use — one Pipeline per request, matching the original's "not thread safe,
// one object per suggest request" contract.
type Pipeline struct {
	Manager *manager.Manager
	Config  Config

	request           suggest.Request
	response          *suggest.Response
	secondaryResponse *suggest.Response
}

// New returns a Pipeline bound to manager m, using cfg (zero value OK).
func New(m *manager.Manager, cfg Config) *Pipeline {
	return &Pipeline{Manager: m, Config: cfg.withDefaults()}
}

// GetCompletions prepares query, runs the full pipeline, and returns the
// final response. A query that normalizes to empty (e.g. all whitespace)
// yields an unsuccessful response without running any algorithm.
func (p *Pipeline) GetCompletions(query suggest.Query, channel suggest.DeviceChannel, debug bool) *suggest.Response {
	if !p.prepareRequest(query, channel, debug) {
		return &suggest.Response{}
	}
	p.response = &suggest.Response{}

	if !p.runPrimaryFlow() {
		p.runFallbackFlow()
	}
	p.runSecondaryFlow()
	p.finalize()

	return p.response
}

func (p *Pipeline) prepareRequest(query suggest.Query, channel suggest.DeviceChannel, debug bool) bool {
	normalized := normalizeQuery(query.Input)
	if normalized == "" {
		return false
	}

	lastWordComplete := false
	if strings.HasSuffix(query.Input, " ") {
		normalized += " "
		lastWordComplete = true
	}

	if query.UserCountry == "" {
		query.UserCountry = p.Config.DefaultCountry
	}
	if query.UserLanguage == "" {
		query.UserLanguage = p.Config.DefaultLanguage
	}
	if query.NumSuggestions <= 0 {
		if channel.IsMobile() {
			query.NumSuggestions = p.Config.DefaultMobileSuggestions
		} else {
			query.NumSuggestions = p.Config.DefaultWebSuggestions
		}
	}

	p.request = suggest.Request{
		Query:            query,
		DeviceChannel:     channel,
		IsMobile:          channel.IsMobile(),
		Debug:             debug,
		NormalizedQuery:   normalized,
		LastWordComplete:  lastWordComplete,
	}
	return true
}

// normalizeQuery is a simplified stand-in for the original's
// region_data::utils::NormalizeString (locale-aware casefolding/
// transliteration out of scope here): lowercase, trim, collapse internal
// whitespace to single spaces.
func normalizeQuery(input string) string {
	fields := strings.Fields(strings.ToLower(input))
	return strings.Join(fields, " ")
}

func (p *Pipeline) runPrimaryFlow() bool {
	if !p.getPrimarySuggestions() {
		return false
	}
	p.twiddlePrimaryResponse()
	p.sortAndTrim(p.response, p.request.NumSuggestions*p.Config.MaxSuggestionsMultiplier)
	p.dedupResponse()
	trimResponse(p.response, p.request.NumSuggestions)
	return p.response.HasResults()
}

func (p *Pipeline) runFallbackFlow() bool {
	if p.Manager.FallbackAlgo == nil {
		return false
	}
	p.Manager.FallbackAlgo.GetCompletions(&p.request, p.response, nil)
	return p.response.Success
}

func (p *Pipeline) runSecondaryFlow() bool {
	if !p.response.Success {
		return false
	}
	if !p.getSecondarySuggestions() {
		return false
	}
	p.twiddleSecondaryResponse()

	numSecondary := p.request.NumSuggestions - len(p.response.Completions)
	if numSecondary < p.Config.MinSecondarySuggestions {
		numSecondary = p.Config.MinSecondarySuggestions
	}
	p.sortAndTrim(p.secondaryResponse, numSecondary)
	p.mergePrimaryAndSecondary()

	p.sortAndTrim(p.response, p.request.NumSuggestions*p.Config.MaxSuggestionsMultiplier)
	p.dedupResponse()
	trimResponse(p.response, p.request.NumSuggestions)
	return p.response.HasResults()
}

func (p *Pipeline) getPrimarySuggestions() bool {
	if p.Manager.PrimaryAlgo == nil {
		return false
	}
	p.Manager.PrimaryAlgo.GetCompletions(&p.request, p.response, &algo.Context{Pool: p.Manager.Pool})
	return p.response.Success
}

func (p *Pipeline) getSecondarySuggestions() bool {
	if p.Manager.SecondaryAlgo == nil {
		return false
	}
	p.secondaryResponse = &suggest.Response{}
	p.Manager.SecondaryAlgo.GetCompletions(&p.request, p.secondaryResponse, &algo.Context{
		Pool:            p.Manager.Pool,
		CurrentResponse: p.response,
	})
	return p.secondaryResponse.Success && len(p.secondaryResponse.Completions) > 0
}

func (p *Pipeline) twiddlePrimaryResponse() bool {
	return applyTwiddler(p.Manager.PrimaryTwiddler, &p.request, p.response)
}

func (p *Pipeline) twiddleSecondaryResponse() bool {
	return applyTwiddler(p.Manager.SecondaryTwiddler, &p.request, p.secondaryResponse)
}

// applyTwiddler runs t and multiplies each completion's score by the
// twiddler's verdict, appending a debug trace — the Go analogue of
// UpdateCompletionsWithTwiddlerResponse. A nil twiddler or an unsuccessful
// (or short) result leaves scores untouched and reports failure.
func applyTwiddler(t twiddle.Twiddler, request *suggest.Request, response *suggest.Response) bool {
	if t == nil || response == nil || !response.Success || len(response.Completions) == 0 {
		return false
	}
	result := t.GetScore(request, response)
	if !result.Success || len(result.Scores) != len(response.Completions) {
		return false
	}
	for i := range response.Completions {
		response.Completions[i].Score *= result.Scores[i].Value
		response.Completions[i].DebugInfo += fmt.Sprintf(" %s", result.Scores[i].DebugInfo)
	}
	return true
}

func (p *Pipeline) mergePrimaryAndSecondary() {
	if p.secondaryResponse == nil || !p.secondaryResponse.Success || len(p.secondaryResponse.Completions) == 0 {
		return
	}
	p.response.Completions = append(p.response.Completions, p.secondaryResponse.Completions...)
	p.response.Success = true
}

func (p *Pipeline) dedupResponse() {
	for _, d := range p.Manager.Dedupers {
		if len(p.response.Completions) == 0 {
			break
		}
		d.Dedup(p.response)
	}
}

func (p *Pipeline) sortAndTrim(response *suggest.Response, maxSuggestions int) {
	if response == nil || len(response.Completions) == 0 {
		return
	}
	sort.SliceStable(response.Completions, func(i, j int) bool {
		return rank.Better(response.Completions[i], response.Completions[j])
	})
	trimResponse(response, maxSuggestions)
}

func trimResponse(response *suggest.Response, maxSuggestions int) {
	if response == nil || maxSuggestions < 0 || len(response.Completions) <= maxSuggestions {
		return
	}
	response.Completions = response.Completions[:maxSuggestions]
}

func (p *Pipeline) finalize() {
	if !p.response.Success {
		return
	}
	trimResponse(p.response, p.request.NumSuggestions)
	p.fixPositions()
	p.checkTopCompletionInstantWorthy()

	for i := range p.response.Completions {
		c := &p.response.Completions[i]
		c.DebugInfo += " | src: " + suggest.NamesFromAlgoType(c.AlgoType)
	}
}

// fixPositions moves every child completion to immediately follow its
// parent, preserving otherwise-established order, and notes in debug_info
// when a completion's position actually changed.
func (p *Pipeline) fixPositions() {
	children := make(map[suggest.SuggestionId][]suggest.Completion)
	for _, c := range p.response.Completions {
		if c.ParentId == "" {
			continue
		}
		children[c.ParentId] = append(children[c.ParentId], c)
	}

	reordered := make([]suggest.Completion, 0, len(p.response.Completions))
	for _, c := range p.response.Completions {
		if c.ParentId != "" {
			continue
		}
		reordered = append(reordered, c)
		reordered = append(reordered, children[c.SuggestionId]...)
	}

	for newIdx, c := range reordered {
		for oldIdx, orig := range p.response.Completions {
			if orig.SuggestionId == c.SuggestionId {
				if oldIdx != newIdx {
					reordered[newIdx].DebugInfo += fmt.Sprintf(" repositioned:%d->%d", oldIdx, newIdx)
				}
				break
			}
		}
	}

	p.response.Completions = reordered
}

func (p *Pipeline) checkTopCompletionInstantWorthy() {
	if len(p.response.Completions) == 0 {
		return
	}
	top := p.response.Completions[0]
	if top.Suggestion == nil || top.Suggestion.Freq < p.Config.TopSuggestionMinFreq {
		return
	}

	var total float64
	for _, c := range p.response.Completions {
		if c.ParentId != "" {
			continue
		}
		total += c.Score
	}

	if top.Score < total*p.Config.TopSuggestionMinSelectProbability {
		return
	}
	p.response.EnableInstant = true
}
