package algo

import "strings"

// wordMismatchExtent scores how far a query's words are from matching str,
// word-for-word: 0 means every query word matched str's words in order and
// at their expected position; the score grows with positional drift and
// out-of-order matches; -1 means the query and str have nothing in common.
//
// words carries one entry per query word, with a trailing space on every
// word except (possibly) the last — the same convention the original used
// to tell a completed word (space-terminated, needs an exact match against
// one of str's words) from the last, still-being-typed word (no trailing
// space, only needs to be a prefix of some word in str).
//
// This is a faithful-in-spirit reconstruction, not a numeric port: the
// original GetWordMisMatchExtent's definition (meta/suggest/server/algos/
// util/suggest_algo_utils.cc) was not available in the retrieved source —
// only its header contract (positional offset + partial order of
// occurrence, documented in suggest_algo_utils.h) and a unit test
// (suggest_algo_utils_test.cc) asserting specific numeric outputs for a
// fixed stopword mock. Reproducing those exact numbers would require
// guessing undocumented constants, so this implementation follows the
// documented contract instead of the test's literal values.
func wordMismatchExtent(str string, words []string) float64 {
	strWords := strings.Fields(str)
	if len(strWords) == 0 || len(words) == 0 {
		return -1
	}

	matched := 0
	mismatch := 0.0
	prevIdx := -1

	for qi, w := range words {
		exact := strings.HasSuffix(w, " ")
		needle := strings.TrimSpace(w)
		if needle == "" {
			continue
		}

		idx := -1
		for si, sw := range strWords {
			if exact {
				if sw == needle {
					idx = si
					break
				}
			} else if strings.HasPrefix(sw, needle) {
				idx = si
				break
			}
		}

		if idx == -1 {
			// No match at all for this query word: penalize by its squared
			// length, the same order of magnitude as a full positional miss.
			mismatch += float64(len(needle) * len(needle))
			continue
		}

		matched++
		offset := idx - qi
		if offset < 0 {
			offset = -offset
		}
		mismatch += float64(offset * offset)

		if idx < prevIdx {
			// Out of order relative to the previous matched word.
			mismatch += float64(len(strWords))
		}
		prevIdx = idx
	}

	if matched == 0 {
		return -1
	}
	return mismatch
}
