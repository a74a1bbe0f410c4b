package attrition

import (
	"fmt"
	"testing"

	"github.com/mvittori/trialgen/internal/rng"
)

func makeIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("%05d", 10000+i)
	}
	return ids
}

func TestRetainedCountRounding(t *testing.T) {
	tests := []struct {
		n    int
		rate float64
		want int
	}{
		{5000, 0.10, 4500},
		{100, 0.10, 90},
		{101, 0.10, 91},  // 90.9 rounds to nearest
		{105, 0.10, 95},  // 94.5 rounds half away from zero
		{10, 0.0, 10},
		{3, 0.5, 2}, // 1.5 rounds up
	}
	for _, tt := range tests {
		if got := RetainedCount(tt.n, tt.rate); got != tt.want {
			t.Errorf("RetainedCount(%d, %v) = %d, want %d", tt.n, tt.rate, got, tt.want)
		}
	}
}

func TestSelectSubsetAndCount(t *testing.T) {
	ids := makeIDs(1000)
	kept := Select(ids, 0.10, rng.New(1).Stage(rng.StageAttrition))
	if len(kept) != 900 {
		t.Fatalf("retained %d, want exactly 900", len(kept))
	}
	baseline := make(map[string]bool, len(ids))
	for _, id := range ids {
		baseline[id] = true
	}
	seen := make(map[string]bool, len(kept))
	for _, id := range kept {
		if !baseline[id] {
			t.Fatalf("retained %q not in baseline set", id)
		}
		if seen[id] {
			t.Fatalf("identifier %q retained twice", id)
		}
		seen[id] = true
	}
}

func TestSelectPreservesBaselineOrder(t *testing.T) {
	ids := makeIDs(500)
	kept := Select(ids, 0.2, rng.New(2).Stage(rng.StageAttrition))
	pos := make(map[string]int, len(ids))
	for i, id := range ids {
		pos[id] = i
	}
	for i := 1; i < len(kept); i++ {
		if pos[kept[i-1]] >= pos[kept[i]] {
			t.Fatalf("retained ids out of baseline order at %d: %q then %q", i, kept[i-1], kept[i])
		}
	}
}

func TestSelectDeterministic(t *testing.T) {
	ids := makeIDs(300)
	a := Select(ids, 0.15, rng.New(3).Stage(rng.StageAttrition))
	b := Select(ids, 0.15, rng.New(3).Stage(rng.StageAttrition))
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("selection differs at %d: %q vs %q", i, a[i], b[i])
		}
	}
}

func TestSelectZeroRateKeepsAll(t *testing.T) {
	ids := makeIDs(50)
	kept := Select(ids, 0, rng.New(4).Stage(rng.StageAttrition))
	if len(kept) != 50 {
		t.Fatalf("retained %d, want 50", len(kept))
	}
}
