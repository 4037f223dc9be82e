package manager

import (
	"testing"

	"github.com/room77/suggestd/pkg/algo"
	"github.com/room77/suggestd/pkg/dedup"
	"github.com/room77/suggestd/pkg/twiddle"
)

func TestNewWiresEveryComponent(t *testing.T) {
	primary := &algo.KeyValue{}
	fallback := &algo.Fallback{}
	secondary := &algo.TemplateExpansion{}
	dedupers := []dedup.Deduper{dedup.New()}
	primaryTwiddler := twiddle.Identity{}
	secondaryTwiddler := twiddle.Identity{}

	m := New(primary, fallback, secondary, dedupers, primaryTwiddler, secondaryTwiddler, nil)

	if m.PrimaryAlgo != primary || m.FallbackAlgo != fallback || m.SecondaryAlgo != secondary {
		t.Fatalf("expected algos wired through unchanged")
	}
	if len(m.Dedupers) != 1 {
		t.Fatalf("expected dedupers wired through, got %v", m.Dedupers)
	}
	if m.PrimaryTwiddler != primaryTwiddler || m.SecondaryTwiddler != secondaryTwiddler {
		t.Fatalf("expected twiddlers wired through unchanged")
	}
	if m.Pool != nil {
		t.Fatalf("expected nil pool to pass through as nil")
	}
}
