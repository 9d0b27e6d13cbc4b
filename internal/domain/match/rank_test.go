package match

import (
	"math"
	"reflect"
	"testing"
)

func TestSortRankedDescendingWithIDTiebreak(t *testing.T) {
	entries := []RankedEntry{
		{ID: "proj-b", Score: Score{Overall: 70}},
		{ID: "proj-c", Score: Score{Overall: 90}},
		{ID: "proj-a", Score: Score{Overall: 70}},
		{ID: "proj-d", Score: Score{Overall: 95}},
	}

	SortRanked(entries)

	got := make([]string, 0, len(entries))
	for _, entry := range entries {
		got = append(got, entry.ID)
	}
	want := []string{"proj-d", "proj-c", "proj-a", "proj-b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
}

func TestTruncate(t *testing.T) {
	entries := []RankedEntry{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	if got := Truncate(entries, 2); len(got) != 2 {
		t.Fatalf("Truncate(2) len = %d", len(got))
	}
	if got := Truncate(entries, 0); len(got) != 3 {
		t.Fatalf("Truncate(0) len = %d", len(got))
	}
	if got := Truncate(entries, 10); len(got) != 3 {
		t.Fatalf("Truncate(10) len = %d", len(got))
	}
}

func TestClampScore(t *testing.T) {
	cases := map[float64]float64{
		-5:   0,
		0:    0,
		55.5: 55.5,
		100:  100,
		180:  100,
	}
	for in, want := range cases {
		if got := ClampScore(in); got != want {
			t.Fatalf("ClampScore(%v) = %v, want %v", in, got, want)
		}
	}
	if got := ClampScore(math.NaN()); got != 0 {
		t.Fatalf("ClampScore(NaN) = %v, want 0", got)
	}
}
