// Package fuzzy implements approximate string matching against a fixed
// vocabulary of known keys, used by pkg/algo's spell-correction retrieval
// algorithm to guess the intended normalized query when an exact-match
// lookup comes up empty. Adapted from the teacher's dictionary spelling
// corrector: same scoring heuristics (first-char/camel-case/separator/
// adjacency bonuses, frequency and length-difference adjustment), repointed
// at a vocabulary of indexed suggestion keys instead of arbitrary English
// words.
package fuzzy

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Matcher suggests the closest known key to a possibly-misspelled query.
type Matcher struct {
	keys    []string
	keyFreq map[string]int
}

// NewMatcher returns a Matcher over keys, each weighted by freq (e.g. a
// falcon base score or index popularity) to break ties toward more
// popular entries.
func NewMatcher(freq map[string]int) *Matcher {
	keys := make([]string, 0, len(freq))
	for k := range freq {
		keys = append(keys, k)
	}
	return &Matcher{keys: keys, keyFreq: freq}
}

// SuggestCorrection returns the best-scoring correction for input, and
// whether a correction was actually made. The bool is false for an exact
// match, in which case the string is the matching key lowercased, and for
// a too-short input or no match at all, in which case the string is input
// unchanged.
func (m *Matcher) SuggestCorrection(input string) (string, bool) {
	if len(input) < 2 {
		return input, false
	}

	lowerInput := strings.ToLower(input)

	for _, key := range m.keys {
		if strings.ToLower(key) == lowerInput {
			return strings.ToLower(key), false
		}
	}

	matches := m.findMatches(lowerInput)
	for i := range matches {
		if freq, ok := m.keyFreq[matches[i].Str]; ok && freq > 0 {
			matches[i].Score += min(freq/10, 30)
		}
		lengthDiff := abs(len(matches[i].Str) - len(input))
		matches[i].Score -= lengthDiff * 2
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > 0 {
		return strings.ToLower(matches[0].Str), true
	}
	return input, false
}

const (
	firstCharMatchBonus            = 15
	adjacentMatchBonus             = 10
	separatorMatchBonus            = 12
	camelCaseMatchBonus            = 12
	unmatchedLeadingCharPenalty    = -3
	maxUnmatchedLeadingCharPenalty = -9
)

// match is one candidate key with its fuzzy score.
type match struct {
	Str            string
	Score          int
	MatchedIndexes []int
}

func (m *Matcher) findMatches(pattern string) []match {
	if len(pattern) == 0 {
		return nil
	}

	var matches []match
	patternRunes := []rune(pattern)

	for _, candidate := range m.keys {
		candidateLower := strings.ToLower(candidate)

		if len(pattern) > 1 && len(candidateLower) > 0 && pattern[0] != candidateLower[0] {
			continue
		}

		cand := match{Str: candidate, MatchedIndexes: make([]int, 0, len(patternRunes))}
		if runFuzzyMatch(patternRunes, candidateLower, &cand) {
			penalty := len(cand.MatchedIndexes) - len(candidateLower)
			cand.Score += penalty
			matches = append(matches, cand)
		}
	}
	return matches
}

// runFuzzyMatch tests if pattern matches candidate, scoring the match in place.
func runFuzzyMatch(pattern []rune, candidate string, m *match) bool {
	candidateRunes := []rune(candidate)

	var last rune
	var lastIndex int
	var currAdjacentMatchBonus int
	patternIndex := 0
	bestScore := -1
	matchedIndex := -1

	for i := 0; i < len(candidateRunes); i++ {
		curr := candidateRunes[i]

		if equalFold(curr, pattern[patternIndex]) {
			score := 0
			if i == 0 {
				score += firstCharMatchBonus
			}
			if i > 0 && unicode.IsLower(last) && unicode.IsUpper(curr) {
				score += camelCaseMatchBonus
			}
			if i > 0 && isSeparator(last) {
				score += separatorMatchBonus
			}
			if len(m.MatchedIndexes) > 0 {
				lastMatch := m.MatchedIndexes[len(m.MatchedIndexes)-1]
				bonus := 0
				if lastIndex == lastMatch {
					bonus = currAdjacentMatchBonus*2 + adjacentMatchBonus
					currAdjacentMatchBonus = bonus
				} else {
					currAdjacentMatchBonus = 0
				}
				score += bonus
			}
			if score > bestScore {
				bestScore = score
				matchedIndex = i
			}

			var nextPatternRune rune
			if patternIndex < len(pattern)-1 {
				nextPatternRune = pattern[patternIndex+1]
			}
			var nextCandidateRune rune
			if i < len(candidateRunes)-1 {
				nextCandidateRune = candidateRunes[i+1]
			}

			if equalFold(nextPatternRune, nextCandidateRune) || nextCandidateRune == 0 {
				if matchedIndex > -1 {
					if len(m.MatchedIndexes) == 0 {
						penalty := matchedIndex * unmatchedLeadingCharPenalty
						bestScore += max(penalty, maxUnmatchedLeadingCharPenalty)
					}
					m.Score += bestScore
					m.MatchedIndexes = append(m.MatchedIndexes, matchedIndex)
					bestScore = -1
					patternIndex++
				}
			}
		}

		last = curr
		lastIndex = i

		if patternIndex >= len(pattern) {
			return true
		}
	}

	return patternIndex >= len(pattern)
}

func isSeparator(r rune) bool {
	return r == ' ' || r == '_' || r == '-' || r == '.' || r == '/'
}

func equalFold(a, b rune) bool {
	if a == b {
		return true
	}
	if a < utf8.RuneSelf && b < utf8.RuneSelf {
		if 'A' <= a && a <= 'Z' {
			a += 'a' - 'A'
		}
		if 'A' <= b && b <= 'Z' {
			b += 'a' - 'A'
		}
		return a == b
	}
	return strings.EqualFold(string(a), string(b))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
