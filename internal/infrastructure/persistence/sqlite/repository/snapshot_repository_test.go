package repository

import (
	"context"
	"testing"
	"time"

	"resmatch/internal/domain/match"
	"resmatch/internal/ports"
)

func TestSnapshotRepositoryRoundTrip(t *testing.T) {
	repo := NewSnapshotRepository(setupDB(t))
	ctx := context.Background()

	computedAt := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	snapshot := ports.MatchSnapshot{
		StudentID: "stu-1",
		ProjectID: "proj-1",
		Score: match.Score{
			Overall:       81.5,
			SkillMatch:    50,
			Reasoning:     "solid overlap",
			MatchedSkills: []string{"Python"},
			Source:        match.SourceModel,
		},
		ComputedAt: computedAt,
		ValidUntil: computedAt.Add(24 * time.Hour),
	}
	if err := repo.SaveSnapshot(ctx, snapshot); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}

	got, found, err := repo.LatestSnapshot(ctx, "stu-1", "proj-1")
	if err != nil {
		t.Fatalf("LatestSnapshot() error = %v", err)
	}
	if !found {
		t.Fatal("LatestSnapshot() found = false")
	}
	if got.Score.Overall != 81.5 || got.Score.Source != match.SourceModel {
		t.Fatalf("score = %+v", got.Score)
	}
	if !got.ComputedAt.Equal(computedAt) {
		t.Fatalf("ComputedAt = %v, want %v", got.ComputedAt, computedAt)
	}
	if !got.ValidUntil.Equal(computedAt.Add(24 * time.Hour)) {
		t.Fatalf("ValidUntil = %v", got.ValidUntil)
	}
}

func TestSnapshotRepositoryUpsertReplaces(t *testing.T) {
	repo := NewSnapshotRepository(setupDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	base := ports.MatchSnapshot{
		StudentID:  "stu-1",
		ProjectID:  "proj-1",
		Score:      match.Score{Overall: 40, Source: match.SourceFallback},
		ComputedAt: now,
		ValidUntil: now.Add(24 * time.Hour),
	}
	if err := repo.SaveSnapshot(ctx, base); err != nil {
		t.Fatalf("first SaveSnapshot() error = %v", err)
	}

	base.Score = match.Score{Overall: 88, Source: match.SourceModel}
	if err := repo.SaveSnapshot(ctx, base); err != nil {
		t.Fatalf("second SaveSnapshot() error = %v", err)
	}

	got, found, err := repo.LatestSnapshot(ctx, "stu-1", "proj-1")
	if err != nil || !found {
		t.Fatalf("LatestSnapshot() = (%v, %v)", found, err)
	}
	if got.Score.Overall != 88 || got.Score.Source != match.SourceModel {
		t.Fatalf("score = %+v, want replaced model score", got.Score)
	}
}

func TestSnapshotRepositoryMissingPair(t *testing.T) {
	repo := NewSnapshotRepository(setupDB(t))

	_, found, err := repo.LatestSnapshot(context.Background(), "stu-404", "proj-404")
	if err != nil {
		t.Fatalf("LatestSnapshot() error = %v", err)
	}
	if found {
		t.Fatal("found = true for absent pair")
	}
}

func TestSnapshotRepositoryRejectsEmptyIDs(t *testing.T) {
	repo := NewSnapshotRepository(setupDB(t))

	if err := repo.SaveSnapshot(context.Background(), ports.MatchSnapshot{}); err == nil {
		t.Fatal("empty ids should fail")
	}
}
