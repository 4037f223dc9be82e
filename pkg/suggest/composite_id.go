package suggest

import "strings"

// MultiEntitySeparator joins the parts of a composite SuggestionId. It
// mirrors the original's ::entity::GetMultipleEntitiesSeparator().
const MultiEntitySeparator = "|"

// Operator ids bracketing the inner quoted child id in a composite id,
// grounded on the original's entity::GetEntityIdFromBaseId(kEntityTypeOperator, ...).
const (
	opParamBegin = "o/pb"
	opParamEnd   = "o/pe"
)

// Ranker filter entity ids selected by the attribute retriever depending
// on the child's entity type.
const (
	DistanceEID     = "r/Distance"
	NeighborhoodEID = "f/Neighborhood"
)

// BuildCompositeId joins a parent id, a child id and a ranker filter id
// into a single composite SuggestionId, in the form:
//
//	{parent}|{opBegin}|"{child}"|{opEnd}|{rankerFilterEid}
//
// ParseCompositeId is its exact inverse.
func BuildCompositeId(parentId, childId SuggestionId, rankerFilterEID string) SuggestionId {
	parts := []string{
		string(parentId),
		opParamBegin,
		`"` + string(childId) + `"`,
		opParamEnd,
		rankerFilterEID,
	}
	return SuggestionId(strings.Join(parts, MultiEntitySeparator))
}

// ParseCompositeId splits a composite SuggestionId back into its parent id,
// child id and ranker filter id. ok is false if id is not a well-formed
// composite (i.e. was never built by BuildCompositeId).
func ParseCompositeId(id SuggestionId) (parentId, childId SuggestionId, rankerFilterEID string, ok bool) {
	parts := strings.Split(string(id), MultiEntitySeparator)
	if len(parts) != 5 || parts[1] != opParamBegin || parts[3] != opParamEnd {
		return "", "", "", false
	}
	quoted := parts[2]
	if len(quoted) < 2 || quoted[0] != '"' || quoted[len(quoted)-1] != '"' {
		return "", "", "", false
	}
	return SuggestionId(parts[0]), SuggestionId(quoted[1 : len(quoted)-1]), parts[4], true
}
