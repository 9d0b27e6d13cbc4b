package match

import (
	"context"
	"sync"
	"testing"
	"time"

	domainmatch "resmatch/internal/domain/match"
	"resmatch/internal/ports"
)

type fakeSnapshotStore struct {
	mu        sync.Mutex
	snapshots map[string]ports.MatchSnapshot
	saveErr   error
}

func newFakeSnapshotStore() *fakeSnapshotStore {
	return &fakeSnapshotStore{snapshots: make(map[string]ports.MatchSnapshot)}
}

func (f *fakeSnapshotStore) SaveSnapshot(_ context.Context, snapshot ports.MatchSnapshot) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshots[snapshot.StudentID+":"+snapshot.ProjectID] = snapshot
	return nil
}

func (f *fakeSnapshotStore) LatestSnapshot(_ context.Context, studentID, projectID string) (ports.MatchSnapshot, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	snapshot, ok := f.snapshots[studentID+":"+projectID]
	return snapshot, ok, nil
}

var _ ports.SnapshotStore = (*fakeSnapshotStore)(nil)

func TestScoringRecordsSnapshot(t *testing.T) {
	store := newFakeEntityStore()
	seedEntities(store)
	snapshots := newFakeSnapshotStore()
	scorer := &fakeScorer{overall: 77}
	service := NewService(store, scorer, newMemCache(), snapshots, nil, Config{SnapshotTTL: 24 * time.Hour})
	ctx := context.Background()

	if _, err := service.GetScore(ctx, "stu-1", "proj-1"); err != nil {
		t.Fatalf("GetScore() error = %v", err)
	}

	snapshot, found, err := service.LatestSnapshot(ctx, "stu-1", "proj-1")
	if err != nil {
		t.Fatalf("LatestSnapshot() error = %v", err)
	}
	if !found {
		t.Fatal("snapshot not recorded")
	}
	if snapshot.Score.Overall != 77 || snapshot.Score.Source != domainmatch.SourceModel {
		t.Fatalf("snapshot score = %+v", snapshot.Score)
	}
	if got := snapshot.ValidUntil.Sub(snapshot.ComputedAt); got != 24*time.Hour {
		t.Fatalf("validity window = %v, want 24h", got)
	}
}

func TestSnapshotSurvivesCacheInvalidation(t *testing.T) {
	store := newFakeEntityStore()
	seedEntities(store)
	snapshots := newFakeSnapshotStore()
	cache := newMemCache()
	service := NewService(store, nil, cache, snapshots, nil, Config{})
	coordinator := NewInvalidationCoordinator(cache, nil)
	ctx := context.Background()

	if _, err := service.GetScore(ctx, "stu-1", "proj-1"); err != nil {
		t.Fatalf("GetScore() error = %v", err)
	}
	if err := coordinator.OnStudentChanged(ctx, "stu-1"); err != nil {
		t.Fatalf("OnStudentChanged() error = %v", err)
	}

	// The snapshot store answers independently from the result cache.
	_, found, err := service.LatestSnapshot(ctx, "stu-1", "proj-1")
	if err != nil {
		t.Fatalf("LatestSnapshot() error = %v", err)
	}
	if !found {
		t.Fatal("snapshot must survive cache invalidation")
	}
}

func TestSnapshotSaveFailureDoesNotSurface(t *testing.T) {
	store := newFakeEntityStore()
	seedEntities(store)
	snapshots := newFakeSnapshotStore()
	snapshots.saveErr = context.DeadlineExceeded
	service := NewService(store, nil, newMemCache(), snapshots, nil, Config{})

	if _, err := service.GetScore(context.Background(), "stu-1", "proj-1"); err != nil {
		t.Fatalf("GetScore() error = %v, snapshot failures must stay best-effort", err)
	}
}

func TestLatestSnapshotWithoutStore(t *testing.T) {
	store := newFakeEntityStore()
	seedEntities(store)
	service := NewService(store, nil, nil, nil, nil, Config{})

	_, found, err := service.LatestSnapshot(context.Background(), "stu-1", "proj-1")
	if err != nil {
		t.Fatalf("LatestSnapshot() error = %v", err)
	}
	if found {
		t.Fatal("found = true without a snapshot store")
	}
}
