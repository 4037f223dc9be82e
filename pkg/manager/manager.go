// Package manager implements the suggestion manager (C11): the stateful
// components a request pipeline needs across requests — the primary/
// fallback/secondary retrieval algorithms, the dedupers run in sequence,
// the primary/secondary twiddlers, and the shared worker pool. Grounded on
// suggestion_manager.h/.cc.
package manager

import (
	"github.com/room77/suggestd/pkg/algo"
	"github.com/room77/suggestd/pkg/dedup"
	"github.com/room77/suggestd/pkg/twiddle"
	"github.com/room77/suggestd/pkg/workerpool"
)

// Manager bundles the components a request pipeline runs against. Unlike
// the original's process-wide singleton (SuggestionManager::Instance()),
// Manager is an ordinary constructed value: the process wires one up at
// startup and hands it to every pipeline run, which is both easier to test
// and avoids hidden global state.
type Manager struct {
	PrimaryAlgo   algo.Algo
	FallbackAlgo  algo.Algo
	SecondaryAlgo algo.Algo

	Dedupers []dedup.Deduper

	PrimaryTwiddler   twiddle.Twiddler
	SecondaryTwiddler twiddle.Twiddler

	Pool *workerpool.Pool
}

// New returns a Manager wired up with the given components. A nil Pool
// means every algorithm/twiddler call runs inline on the caller's
// goroutine rather than fanning out.
func New(primaryAlgo, fallbackAlgo, secondaryAlgo algo.Algo, dedupers []dedup.Deduper, primaryTwiddler, secondaryTwiddler twiddle.Twiddler, pool *workerpool.Pool) *Manager {
	return &Manager{
		PrimaryAlgo:       primaryAlgo,
		FallbackAlgo:      fallbackAlgo,
		SecondaryAlgo:     secondaryAlgo,
		Dedupers:          dedupers,
		PrimaryTwiddler:   primaryTwiddler,
		SecondaryTwiddler: secondaryTwiddler,
		Pool:              pool,
	}
}
