// Package rank implements the completion comparator used to order a
// response's completions into a single total order. Grounded on
// suggest_comparator.h.
package rank

import "github.com/room77/suggestd/pkg/suggest"

// Better reports whether left should rank above right: a strict weak
// ordering by score (descending), falling back to src_type (ascending)
// for stability when scores tie. The original's better_completion had a
// commented-out prefix/child tie-break ahead of the score compare; it was
// never enabled and is not reproduced here — ranking is score-only.
func Better(left, right suggest.Completion) bool {
	if left.Score != right.Score {
		return left.Score > right.Score
	}
	lt, rt := srcType(left), srcType(right)
	return lt < rt
}

func srcType(c suggest.Completion) suggest.EntityType {
	if c.Suggestion == nil {
		return suggest.EntityTypeInvalid
	}
	return c.Suggestion.SrcType
}
