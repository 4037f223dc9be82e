// Package merge implements the completion merger library (C13): four
// binary operators that combine two Completion records for the same
// SuggestionId into one, each appending a human-readable trace to
// DebugInfo. Grounded on merge_completions.cc.
package merge

import (
	"fmt"

	"github.com/room77/suggestd/pkg/suggest"
)

// Merger combines right into left in place.
type Merger interface {
	Merge(left *suggest.Completion, right suggest.Completion)
}

// ByOp looks up a merger by its configured operator symbol ("+", "*",
// "<", ">"). The bool is false for an unrecognized operator.
func ByOp(op string) (Merger, bool) {
	m, ok := registry[op]
	return m, ok
}

var registry = map[string]Merger{
	"+": addMerger{},
	"*": multiplyMerger{},
	"<": minMerger{},
	">": maxMerger{},
}

type addMerger struct{}

// Merge sums the two scores and ORs their algo-type bitmasks, keeping
// left's identity (SuggestionId, Suggestion, ParentId).
func (addMerger) Merge(left *suggest.Completion, right suggest.Completion) {
	left.DebugInfo = appendTrace(left.DebugInfo, "+", right)
	left.Score += right.Score
	left.AlgoType |= right.AlgoType
}

type multiplyMerger struct{}

// Merge multiplies the two scores and ORs their algo-type bitmasks,
// keeping left's identity.
func (multiplyMerger) Merge(left *suggest.Completion, right suggest.Completion) {
	left.DebugInfo = appendTrace(left.DebugInfo, "*", right)
	left.Score *= right.Score
	left.AlgoType |= right.AlgoType
}

type minMerger struct{}

// Merge replaces left with right entirely when right scores lower,
// carrying forward a trace of the completion it displaced.
func (minMerger) Merge(left *suggest.Completion, right suggest.Completion) {
	if left.Score > right.Score {
		trace := appendTrace(right.DebugInfo, "<", *left)
		*left = right
		left.DebugInfo = trace
	}
}

type maxMerger struct{}

// Merge replaces left with right entirely when right scores higher,
// carrying forward a trace of the completion it displaced.
func (maxMerger) Merge(left *suggest.Completion, right suggest.Completion) {
	if left.Score < right.Score {
		trace := appendTrace(right.DebugInfo, ">", *left)
		*left = right
		left.DebugInfo = trace
	}
}

func appendTrace(base, op string, c suggest.Completion) string {
	return fmt.Sprintf("%s | %s Algo: %s, %v (%s)", base, op, suggest.NamesFromAlgoType(c.AlgoType), c.Score, c.DebugInfo)
}
