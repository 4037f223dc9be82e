// Package twiddle implements the rescorer (twiddler) abstraction and the
// rescorer group (C10): each twiddler computes one multiplicative score
// per candidate completion; a group runs a configured set concurrently
// with required/optional semantics and combines their scores via
// configurable binary operators. Grounded on suggest_twiddler_group.cc,
// suggest_domain_boost.cc and suggest_identity_twiddler.cc.
package twiddle

import (
	"fmt"
	"time"

	"github.com/room77/suggestd/pkg/latch"
	"github.com/room77/suggestd/pkg/merge"
	"github.com/room77/suggestd/pkg/suggest"
	"github.com/room77/suggestd/pkg/workerpool"
)

// Score is one twiddler's opinion of one completion: a multiplicative
// factor plus a debug trace fragment.
type Score struct {
	Value     float64
	DebugInfo string
}

// Result is a twiddler's per-request output: one Score per completion in
// the request, in the same order, or Success=false if the twiddler
// declined to score (e.g. the incoming response had no completions).
type Result struct {
	Success bool
	Scores  []Score
}

// Twiddler computes one score per completion in response.Completions.
type Twiddler interface {
	GetScore(request *suggest.Request, response *suggest.Response) Result
}

// Identity always returns a score of 1 for every completion, used as a
// harmless default twiddler or a placeholder slot in a group.
type Identity struct{}

func (Identity) GetScore(request *suggest.Request, response *suggest.Response) Result {
	if response == nil || !response.Success || len(response.Completions) == 0 {
		return Result{}
	}
	scores := make([]Score, len(response.Completions))
	for i := range scores {
		scores[i] = Score{Value: 1}
	}
	return Result{Success: true, Scores: scores}
}

// DomainBoost scores a completion 3 when its country matches the
// requester's user country, else 1 — the same two-value table as the
// original's geo::domain_boost::DomainBoost::Boost.
type DomainBoost struct{}

const (
	sameCountryBoost  = 3.0
	otherCountryBoost = 1.0
)

func (DomainBoost) GetScore(request *suggest.Request, response *suggest.Response) Result {
	if response == nil || !response.Success || len(response.Completions) == 0 {
		return Result{}
	}
	scores := make([]Score, len(response.Completions))
	for i, c := range response.Completions {
		boost := otherCountryBoost
		if c.Suggestion != nil && c.Suggestion.Country != "" && c.Suggestion.Country == request.UserCountry {
			boost = sameCountryBoost
		}
		scores[i] = Score{Value: boost}
	}
	return Result{Success: true, Scores: scores}
}

// Member configures one twiddler's participation in a Group.
type Member struct {
	Name     string
	Twiddler Twiddler
	Required bool
	Weight   float64
	Op       string // "+", "*", "<", ">" — combined via pkg/merge's score-only operators
}

// Group runs a configured set of twiddlers concurrently, required members
// gating the group's completion and optional members given a bounded
// extension, then combines every successful member's per-completion
// scores via its configured weight and operator. Grounded on
// SuggestTwiddlerGroup::GetScore/CombineTwiddlerScore.
type Group struct {
	Members         []Member
	Pool            *workerpool.Pool
	TimeoutRequired time.Duration
	TimeoutOptional time.Duration
}

// GetScore runs every member, waits per required/optional phase timeouts,
// and combines the scores of every member that returned a full-length
// successful result. The group as a whole succeeds iff at least the
// combined score slice matches the completion count (i.e. some member
// contributed).
func (g *Group) GetScore(request *suggest.Request, response *suggest.Response) Result {
	if response == nil || !response.Success || len(response.Completions) == 0 {
		return Result{}
	}
	n := len(response.Completions)

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
	results := make([]Result, len(g.Members))

	for i, m := range g.Members {
		i, m := i, m
		l := optionalLatch
		if m.Required {
			l = requiredLatch
		}
		task := func() {
			defer latch.ScopedNotify(l)()
			results[i] = m.Twiddler.GetScore(request, response)
		}
		if g.Pool != nil {
			g.Pool.Add(task)
		} else {
			task()
		}
	}

	requiredLatch.WaitWithTimeout(g.TimeoutRequired)
	optionalLatch.WaitWithTimeout(g.TimeoutOptional)

	combined := make([]float64, 0, n)
	debugInfo := make([]string, n)
	assigned := false

	for i, m := range g.Members {
		res := results[i]
		if !res.Success || len(res.Scores) != n {
			continue
		}
		op, ok := merge.ByOp(m.Op)
		if !ok {
			op, _ = merge.ByOp("*")
		}
		if !assigned {
			combined = combined[:0]
			for _, s := range res.Scores {
				combined = append(combined, s.Value)
			}
			assigned = true
		} else {
			left := suggest.Completion{}
			for i2, s := range res.Scores {
				left.Score = combined[i2]
				right := suggest.Completion{Score: s.Value * weightOrOne(m.Weight)}
				op.Merge(&left, right)
				combined[i2] = left.Score
			}
		}
		for i2, s := range res.Scores {
			debugInfo[i2] += fmt.Sprintf(" # %s: %v (%s)", m.Name, s.Value, s.DebugInfo)
		}
	}

	if !assigned {
		return Result{}
	}
	scores := make([]Score, n)
	for i := range scores {
		scores[i] = Score{Value: combined[i], DebugInfo: debugInfo[i]}
	}
	return Result{Success: true, Scores: scores}
}

func weightOrOne(w float64) float64 {
	if w == 0 {
		return 1
	}
	return w
}
