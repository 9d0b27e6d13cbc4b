package match

import (
	"context"
	"testing"
)

func TestOnStudentChangedDropsStudentScopedEntries(t *testing.T) {
	cache := newMemCache()
	for _, key := range []string{
		"score:stu-1:proj-1",
		"score:stu-1:proj-2",
		"score:stu-2:proj-1",
		"list:student:stu-1",
		"list:student:stu-2",
		"list:project:proj-1",
		"list:project:proj-2",
		"idx:project:proj-1:slist:stu-1",
		"idx:project:proj-2:slist:stu-2",
		"idx:student:stu-1:plist:proj-1",
	} {
		cache.put(key, "v")
	}

	coordinator := NewInvalidationCoordinator(cache, nil)
	if err := coordinator.OnStudentChanged(context.Background(), "stu-1"); err != nil {
		t.Fatalf("OnStudentChanged() error = %v", err)
	}

	for _, key := range []string{
		"score:stu-1:proj-1",
		"score:stu-1:proj-2",
		"list:student:stu-1",
		// proj-1's candidate list ranked stu-1, found via the reverse index.
		"list:project:proj-1",
		"idx:project:proj-1:slist:stu-1",
		"idx:student:stu-1:plist:proj-1",
	} {
		if cache.has(key) {
			t.Fatalf("key %s should be invalidated", key)
		}
	}

	for _, key := range []string{
		"score:stu-2:proj-1",
		"list:student:stu-2",
		"list:project:proj-2",
		"idx:project:proj-2:slist:stu-2",
	} {
		if !cache.has(key) {
			t.Fatalf("key %s should survive", key)
		}
	}
}

func TestOnProjectChangedDropsProjectScopedEntries(t *testing.T) {
	cache := newMemCache()
	for _, key := range []string{
		"score:stu-1:proj-1",
		"score:stu-1:proj-2",
		"score:stu-2:proj-1",
		"list:project:proj-1",
		"list:project:proj-2",
		"list:student:stu-1",
		"list:student:stu-2",
		"idx:student:stu-1:plist:proj-1",
		"idx:student:stu-2:plist:proj-2",
		"idx:project:proj-1:slist:stu-1",
	} {
		cache.put(key, "v")
	}

	coordinator := NewInvalidationCoordinator(cache, nil)
	if err := coordinator.OnProjectChanged(context.Background(), "proj-1"); err != nil {
		t.Fatalf("OnProjectChanged() error = %v", err)
	}

	for _, key := range []string{
		"score:stu-1:proj-1",
		"score:stu-2:proj-1",
		"list:project:proj-1",
		// stu-1's recommendation list ranked proj-1, found via the reverse index.
		"list:student:stu-1",
		"idx:student:stu-1:plist:proj-1",
		"idx:project:proj-1:slist:stu-1",
	} {
		if cache.has(key) {
			t.Fatalf("key %s should be invalidated", key)
		}
	}

	for _, key := range []string{
		"score:stu-1:proj-2",
		"list:project:proj-2",
		"list:student:stu-2",
		"idx:student:stu-2:plist:proj-2",
	} {
		if !cache.has(key) {
			t.Fatalf("key %s should survive", key)
		}
	}
}

func TestOnStudentChangedTargetsListsViaMembershipIndex(t *testing.T) {
	store := newFakeEntityStore()
	seedEntities(store)
	cache := newMemCache()
	service := NewService(store, nil, cache, nil, nil, Config{})
	coordinator := NewInvalidationCoordinator(cache, nil)
	ctx := context.Background()

	// Rank stu-1 into both project candidate lists; stu-2's own
	// recommendation list must survive a stu-1 mutation.
	if _, err := service.GetProjectCandidates(ctx, "proj-1", 10); err != nil {
		t.Fatalf("GetProjectCandidates(proj-1) error = %v", err)
	}
	if _, err := service.GetProjectCandidates(ctx, "proj-2", 10); err != nil {
		t.Fatalf("GetProjectCandidates(proj-2) error = %v", err)
	}
	if _, err := service.GetStudentRecommendations(ctx, "stu-2", 10); err != nil {
		t.Fatalf("GetStudentRecommendations(stu-2) error = %v", err)
	}

	if err := coordinator.OnStudentChanged(ctx, "stu-1"); err != nil {
		t.Fatalf("OnStudentChanged() error = %v", err)
	}

	if cache.has("list:project:proj-1") || cache.has("list:project:proj-2") {
		t.Fatal("project candidate lists containing stu-1 should be dropped")
	}
	if !cache.has("list:student:stu-2") {
		t.Fatal("unrelated student recommendation list should survive")
	}
}

func TestIndexScanFailureWipesOppositeAxisLists(t *testing.T) {
	cache := newMemCache()
	cache.put("list:project:proj-1", "v")
	cache.put("list:project:proj-2", "v")
	cache.put("list:student:stu-2", "v")
	cache.failKeys = true

	coordinator := NewInvalidationCoordinator(cache, nil)
	if err := coordinator.OnStudentChanged(context.Background(), "stu-1"); err != nil {
		t.Fatalf("OnStudentChanged() error = %v", err)
	}

	if cache.has("list:project:proj-1") || cache.has("list:project:proj-2") {
		t.Fatal("blanket wipe should drop every project candidate list")
	}
	if !cache.has("list:student:stu-2") {
		t.Fatal("student lists on the other axis should survive")
	}
}

func TestInvalidationThenRecompute(t *testing.T) {
	store := newFakeEntityStore()
	seedEntities(store)
	scorer := &fakeScorer{overall: 50}
	cache := newMemCache()
	service := NewService(store, scorer, cache, nil, nil, Config{})
	coordinator := NewInvalidationCoordinator(cache, nil)
	ctx := context.Background()

	if _, err := service.GetScore(ctx, "stu-1", "proj-1"); err != nil {
		t.Fatalf("GetScore() error = %v", err)
	}
	if got := scorer.callCount(); got != 1 {
		t.Fatalf("scorer calls = %d, want 1", got)
	}

	// Mutate the student and invalidate; the next read must recompute
	// against the new profile.
	updated := store.students["stu-1"]
	updated.Skills = append(updated.Skills, "PyTorch")
	store.students["stu-1"] = updated
	scorer.mu.Lock()
	scorer.overall = 95
	scorer.mu.Unlock()

	if err := coordinator.OnStudentChanged(ctx, "stu-1"); err != nil {
		t.Fatalf("OnStudentChanged() error = %v", err)
	}

	score, err := service.GetScore(ctx, "stu-1", "proj-1")
	if err != nil {
		t.Fatalf("GetScore() after invalidation error = %v", err)
	}
	if score.Overall != 95 {
		t.Fatalf("Overall = %v, want recomputed 95", score.Overall)
	}
	if got := scorer.callCount(); got != 2 {
		t.Fatalf("scorer calls = %d, want 2", got)
	}
}

func TestInvalidationReportsMetrics(t *testing.T) {
	cache := newMemCache()
	cache.put("score:stu-1:proj-1", "v")
	cache.put("list:student:stu-1", "v")
	metrics := newFakeMetrics()

	coordinator := NewInvalidationCoordinator(cache, metrics)
	if err := coordinator.OnStudentChanged(context.Background(), "stu-1"); err != nil {
		t.Fatalf("OnStudentChanged() error = %v", err)
	}
	if metrics.invalidations["student"] == 0 {
		t.Fatal("student invalidation metric not recorded")
	}
}

func TestInvalidationValidatesArguments(t *testing.T) {
	coordinator := NewInvalidationCoordinator(newMemCache(), nil)

	if err := coordinator.OnStudentChanged(context.Background(), ""); err == nil {
		t.Fatal("empty student id should fail")
	}
	if err := coordinator.OnProjectChanged(context.Background(), ""); err == nil {
		t.Fatal("empty project id should fail")
	}
}
