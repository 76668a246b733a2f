package library_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"storyloom/internal/config"
	"storyloom/internal/generation"
	"storyloom/internal/library"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.CacheDir = filepath.Join(base, "cache")
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	return &cfg
}

func openStore(t *testing.T) *library.Store {
	t.Helper()
	store, err := library.Open(testConfig(t))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewEpisodeStartsPending(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	record, err := store.NewEpisode(ctx, "job-1", "photosynthesis", "Lumi", "adventure")
	if err != nil {
		t.Fatalf("NewEpisode returned error: %v", err)
	}
	if record.Status != generation.StatusPending {
		t.Fatalf("expected pending status, got %s", record.Status)
	}
	if record.Topic != "photosynthesis" || record.CharacterName != "Lumi" {
		t.Fatalf("unexpected record %+v", record)
	}
	if record.CreatedAt.IsZero() || record.UpdatedAt.IsZero() {
		t.Fatal("timestamps should be populated")
	}
	if record.CompletedAt != nil {
		t.Fatal("completed_at should be unset for a fresh job")
	}
}

func TestStatusTransitions(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if _, err := store.NewEpisode(ctx, "job-2", "volcanoes", "Rex", ""); err != nil {
		t.Fatalf("NewEpisode returned error: %v", err)
	}
	if err := store.SetStatus(ctx, "job-2", generation.StatusGenerating); err != nil {
		t.Fatalf("SetStatus returned error: %v", err)
	}
	if err := store.MarkComplete(ctx, "job-2", "Rex: Volcanoes", 8); err != nil {
		t.Fatalf("MarkComplete returned error: %v", err)
	}

	record, err := store.GetByJobID(ctx, "job-2")
	if err != nil {
		t.Fatalf("GetByJobID returned error: %v", err)
	}
	if record.Status != generation.StatusComplete {
		t.Fatalf("expected complete status, got %s", record.Status)
	}
	if record.Title != "Rex: Volcanoes" || record.SceneCount != 8 {
		t.Fatalf("unexpected record %+v", record)
	}
	if record.CompletedAt == nil {
		t.Fatal("completed_at should be set on completion")
	}
}

func TestMarkFailedKeepsReason(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if _, err := store.NewEpisode(ctx, "job-3", "the water cycle", "Lumi", ""); err != nil {
		t.Fatalf("NewEpisode returned error: %v", err)
	}
	if err := store.MarkFailed(ctx, "job-3", "quota exceeded"); err != nil {
		t.Fatalf("MarkFailed returned error: %v", err)
	}

	record, err := store.GetByJobID(ctx, "job-3")
	if err != nil {
		t.Fatalf("GetByJobID returned error: %v", err)
	}
	if record.Status != generation.StatusFailed || record.ErrorMessage != "quota exceeded" {
		t.Fatalf("unexpected record %+v", record)
	}
	if record.DisplayTitle() != "Lumi: The Water Cycle" {
		t.Fatalf("expected title derived from the request, got %q", record.DisplayTitle())
	}
}

func TestGetByJobIDMissing(t *testing.T) {
	store := openStore(t)

	if _, err := store.GetByJobID(context.Background(), "missing"); !errors.Is(err, library.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.MarkFailed(context.Background(), "missing", "x"); !errors.Is(err, library.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for _, jobID := range []string{"job-a", "job-b", "job-c"} {
		if _, err := store.NewEpisode(ctx, jobID, "", "", ""); err != nil {
			t.Fatalf("NewEpisode returned error: %v", err)
		}
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].JobID != "job-c" || records[2].JobID != "job-a" {
		t.Fatalf("expected newest first, got %s..%s", records[0].JobID, records[2].JobID)
	}
}

func TestRemoveAndClear(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for _, jobID := range []string{"job-x", "job-y"} {
		if _, err := store.NewEpisode(ctx, jobID, "", "", ""); err != nil {
			t.Fatalf("NewEpisode returned error: %v", err)
		}
	}
	if err := store.Remove(ctx, "job-x"); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}

	removed, err := store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 record cleared, got %d", removed)
	}
}
