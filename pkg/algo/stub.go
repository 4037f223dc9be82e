package algo

import "github.com/room77/suggestd/pkg/suggest"

// TemplateExpansion and Fallback are unimplemented retrieval algorithms:
// the original's template-expansion and synonym/spell-correction-driven
// fallback algorithms depend on data files and services that sit outside
// this system's scope (see DESIGN.md's Open Question decisions). Both
// always report failure so a Group or pipeline stage treats them as "could
// not look" rather than "found nothing", and simply skips their
// contribution.
type TemplateExpansion struct{}

func (TemplateExpansion) GetCompletions(request *suggest.Request, response *suggest.Response, ctx *Context) int {
	defer ctx.notify()()
	response.Success = false
	return 0
}

type Fallback struct{}

func (Fallback) GetCompletions(request *suggest.Request, response *suggest.Response, ctx *Context) int {
	defer ctx.notify()()
	response.Success = false
	return 0
}
