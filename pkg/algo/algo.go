// Package algo implements the retrieval algorithms (C5-C8) that populate a
// response's completions from a query: exact key-value lookups, bag-of-words
// matching, attribute child expansion, and a scatter/gather group that runs
// a configured set of them concurrently. Grounded on suggest_algo.h and its
// concrete subclasses under meta/suggest/server/algos/.
package algo

import (
	"github.com/room77/suggestd/pkg/latch"
	"github.com/room77/suggestd/pkg/suggest"
	"github.com/room77/suggestd/pkg/workerpool"
)

// Context carries the shared resources an algorithm may use while filling a
// response: the process-wide worker pool for fanning out further work, and
// the latch the algorithm must notify exactly once when done. Either field
// may be nil (no pool means run inline; no latch means nothing to notify).
// CurrentResponse, when set, is the already-computed primary response a
// secondary-phase algorithm (e.g. Attribute) reads its parent completions
// from.
type Context struct {
	Pool            *workerpool.Pool
	Latch           *latch.Latch
	CurrentResponse *suggest.Response
}

// notify returns a function that releases c's latch exactly once; the
// function is a no-op if c or c.Latch is nil.
func (c *Context) notify() func() {
	if c == nil {
		return func() {}
	}
	return latch.ScopedNotify(c.Latch)
}

// Algo is the common interface every retrieval algorithm implements. It
// fills response with completions for request and reports how many it
// added. response.Success must be set true by the algorithm iff it
// produced usable (possibly empty) results; it is left false on failure
// (e.g. a dependency unavailable), distinguishing "found nothing" from
// "could not look".
type Algo interface {
	GetCompletions(request *suggest.Request, response *suggest.Response, ctx *Context) int
}
