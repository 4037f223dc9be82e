package algo

import "github.com/room77/suggestd/pkg/suggest"

// LocationPrepareChild is the location-attribute PrepareChild override:
// same score inheritance as DefaultPrepareChild, but the child's id is
// replaced with a composite id joining the parent, the original child id
// and a ranker filter id chosen by the child's entity type — neighborhood
// children rank under NeighborhoodEID, everything else under DistanceEID.
// Grounded on SuggestLocationAttribute::PrepareChildCompletionFromParent.
func LocationPrepareChild(parent, child *suggest.Completion) {
	DefaultPrepareChild(parent, child)

	rankerFilterEID := suggest.DistanceEID
	if child.Suggestion != nil && child.Suggestion.SrcType == suggest.EntityTypeNeighborhood {
		rankerFilterEID = suggest.NeighborhoodEID
	}
	child.SuggestionId = suggest.BuildCompositeId(parent.SuggestionId, child.SuggestionId, rankerFilterEID)
}
