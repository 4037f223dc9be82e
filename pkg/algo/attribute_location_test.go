package algo

import (
	"testing"

	"github.com/room77/suggestd/pkg/suggest"
)

func TestLocationPrepareChildBuildsCompositeIdAndInheritsScore(t *testing.T) {
	parent := &suggest.Completion{SuggestionId: "parent1", Score: 3}
	child := &suggest.Completion{
		SuggestionId: "child1",
		Score:        2,
		Suggestion:   &suggest.CompleteSuggestion{SrcType: suggest.EntityTypeHotel},
	}
	LocationPrepareChild(parent, child)

	if child.Score != 6 {
		t.Fatalf("expected score 3*2=6, got %v", child.Score)
	}
	parentId, childId, eid, ok := suggest.ParseCompositeId(child.SuggestionId)
	if !ok {
		t.Fatalf("expected a well-formed composite id, got %q", child.SuggestionId)
	}
	if parentId != "parent1" || childId != "child1" || eid != suggest.DistanceEID {
		t.Fatalf("unexpected composite id parts: parent=%s child=%s eid=%s", parentId, childId, eid)
	}
}

func TestLocationPrepareChildUsesNeighborhoodEID(t *testing.T) {
	parent := &suggest.Completion{SuggestionId: "parent1", Score: 1}
	child := &suggest.Completion{
		SuggestionId: "child1",
		Score:        1,
		Suggestion:   &suggest.CompleteSuggestion{SrcType: suggest.EntityTypeNeighborhood},
	}
	LocationPrepareChild(parent, child)

	_, _, eid, ok := suggest.ParseCompositeId(child.SuggestionId)
	if !ok || eid != suggest.NeighborhoodEID {
		t.Fatalf("expected neighborhood ranker filter eid, got %q (ok=%v)", eid, ok)
	}
}
