package repository

import (
	"context"
	"testing"
	"time"

	"vellum/internal/database"
	repoerrors "vellum/internal/infrastructure/errors"
	"vellum/internal/infrastructure/logging"
)

// Helper function to set up a recents repository over an in-memory database
func setupTestRecents(t *testing.T, maxRecents int) *SQLiteRecentsRepository {
	t.Helper()

	config := database.TestConfig()
	logger := logging.NewDefaultLogger()
	dbService := database.NewSQLiteService(logger)

	ctx := context.Background()
	err := dbService.Connect(ctx, config)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	err = dbService.Migrate(ctx)
	if err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		dbService.Close()
	})

	return NewSQLiteRecentsRepository(dbService, maxRecents, logger)
}

// recordOpens inserts the given paths in order, spacing the timestamps so the
// recency order is deterministic
func recordOpens(t *testing.T, repo *SQLiteRecentsRepository, paths ...string) {
	t.Helper()

	ctx := context.Background()
	for _, path := range paths {
		if err := repo.RecordOpen(ctx, path, path, 100); err != nil {
			t.Fatalf("Failed to record open for %s: %v", path, err)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestNewSQLiteRecentsRepository(t *testing.T) {
	repo := setupTestRecents(t, 10)

	if repo == nil {
		t.Fatal("NewSQLiteRecentsRepository returned nil")
	}
	if repo.db == nil {
		t.Error("Repository db is nil")
	}
	if repo.logger == nil {
		t.Error("Repository logger is nil")
	}
	if repo.retryConfig == nil {
		t.Error("Repository retryConfig is nil")
	}
	if repo.maxRecents != 10 {
		t.Errorf("Expected maxRecents 10, got %d", repo.maxRecents)
	}
}

func TestNewSQLiteRecentsRepository_Defaults(t *testing.T) {
	repo := setupTestRecents(t, 0)

	if repo.maxRecents != DefaultMaxRecents {
		t.Errorf("Expected non-positive limit to fall back to %d, got %d", DefaultMaxRecents, repo.maxRecents)
	}

	// Nil logger falls back to the default logger
	repo2 := NewSQLiteRecentsRepository(repo.dbService, 5, nil)
	if repo2.logger == nil {
		t.Error("Repository should have default logger when nil is passed")
	}
}

func TestRecentsRepository_RecordOpenAndList(t *testing.T) {
	repo := setupTestRecents(t, 10)
	ctx := context.Background()

	before := time.Now().UTC().Add(-time.Second)

	err := repo.RecordOpen(ctx, "/docs/report.pdf", "report.pdf", 2048)
	if err != nil {
		t.Fatalf("Failed to record open: %v", err)
	}
	recordOpens(t, repo, "/docs/manual.pdf", "/docs/invoice.pdf")

	docs, err := repo.ListRecent(ctx)
	if err != nil {
		t.Fatalf("Failed to list recents: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(docs))
	}

	// Most recently opened first
	if docs[0].Path != "/docs/invoice.pdf" {
		t.Errorf("Expected newest entry first, got %s", docs[0].Path)
	}
	if docs[2].Path != "/docs/report.pdf" {
		t.Errorf("Expected oldest entry last, got %s", docs[2].Path)
	}

	first := docs[2]
	if first.Name != "report.pdf" {
		t.Errorf("Expected name report.pdf, got %s", first.Name)
	}
	if first.SizeBytes != 2048 {
		t.Errorf("Expected size 2048, got %d", first.SizeBytes)
	}
	if first.OpenCount != 1 {
		t.Errorf("Expected open count 1, got %d", first.OpenCount)
	}
	if first.FirstOpenedAt.Before(before) {
		t.Errorf("Expected first opened timestamp after %v, got %v", before, first.FirstOpenedAt)
	}
	if !first.LastOpenedAt.Equal(first.FirstOpenedAt) {
		t.Errorf("Expected matching timestamps on first open, got %v and %v", first.FirstOpenedAt, first.LastOpenedAt)
	}
}

func TestRecentsRepository_RecordOpen_BumpsExisting(t *testing.T) {
	repo := setupTestRecents(t, 10)
	ctx := context.Background()

	err := repo.RecordOpen(ctx, "/docs/report.pdf", "report.pdf", 2048)
	if err != nil {
		t.Fatalf("Failed to record first open: %v", err)
	}
	time.Sleep(2 * time.Millisecond)

	// Reopening the same path updates the entry instead of duplicating it
	err = repo.RecordOpen(ctx, "/docs/report.pdf", "report-renamed.pdf", 4096)
	if err != nil {
		t.Fatalf("Failed to record second open: %v", err)
	}

	docs, err := repo.ListRecent(ctx)
	if err != nil {
		t.Fatalf("Failed to list recents: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("Expected 1 entry after reopening the same path, got %d", len(docs))
	}

	doc := docs[0]
	if doc.OpenCount != 2 {
		t.Errorf("Expected open count 2, got %d", doc.OpenCount)
	}
	if doc.Name != "report-renamed.pdf" {
		t.Errorf("Expected updated name, got %s", doc.Name)
	}
	if doc.SizeBytes != 4096 {
		t.Errorf("Expected updated size 4096, got %d", doc.SizeBytes)
	}
	if !doc.LastOpenedAt.After(doc.FirstOpenedAt) {
		t.Errorf("Expected last opened %v to be after first opened %v", doc.LastOpenedAt, doc.FirstOpenedAt)
	}
}

func TestRecentsRepository_RecordOpen_PrunesHistory(t *testing.T) {
	repo := setupTestRecents(t, 3)

	recordOpens(t, repo, "/docs/a.pdf", "/docs/b.pdf", "/docs/c.pdf", "/docs/d.pdf", "/docs/e.pdf")

	docs, err := repo.ListRecent(context.Background())
	if err != nil {
		t.Fatalf("Failed to list recents: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("Expected history pruned to 3 entries, got %d", len(docs))
	}

	want := []string{"/docs/e.pdf", "/docs/d.pdf", "/docs/c.pdf"}
	for i, doc := range docs {
		if doc.Path != want[i] {
			t.Errorf("Entry %d: expected %s, got %s", i, want[i], doc.Path)
		}
	}
}

func TestRecentsRepository_RecordOpen_ReopenSurvivesPruning(t *testing.T) {
	repo := setupTestRecents(t, 2)

	// Reopening the oldest entry bumps it ahead of the middle one
	recordOpens(t, repo, "/docs/a.pdf", "/docs/b.pdf", "/docs/a.pdf", "/docs/c.pdf")

	docs, err := repo.ListRecent(context.Background())
	if err != nil {
		t.Fatalf("Failed to list recents: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(docs))
	}
	if docs[0].Path != "/docs/c.pdf" || docs[1].Path != "/docs/a.pdf" {
		t.Errorf("Expected [c.pdf a.pdf], got [%s %s]", docs[0].Path, docs[1].Path)
	}
}

func TestRecentsRepository_RecordOpen_EmptyPath(t *testing.T) {
	repo := setupTestRecents(t, 10)
	ctx := context.Background()

	err := repo.RecordOpen(ctx, "", "report.pdf", 2048)
	if err == nil {
		t.Fatal("Expected error for empty path, got nil")
	}
	if !repoerrors.IsValidation(err) {
		t.Errorf("Expected validation error, got: %v", err)
	}

	docs, err := repo.ListRecent(ctx)
	if err != nil {
		t.Fatalf("Failed to list recents: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("Expected empty history after rejected record, got %d entries", len(docs))
	}
}

func TestRecentsRepository_Remove(t *testing.T) {
	repo := setupTestRecents(t, 10)
	ctx := context.Background()

	recordOpens(t, repo, "/docs/a.pdf", "/docs/b.pdf")

	if err := repo.Remove(ctx, "/docs/a.pdf"); err != nil {
		t.Fatalf("Failed to remove entry: %v", err)
	}

	docs, err := repo.ListRecent(ctx)
	if err != nil {
		t.Fatalf("Failed to list recents: %v", err)
	}
	if len(docs) != 1 || docs[0].Path != "/docs/b.pdf" {
		t.Fatalf("Expected only b.pdf to remain, got %v", docs)
	}

	// Removing an unknown path is a no-op
	if err := repo.Remove(ctx, "/docs/missing.pdf"); err != nil {
		t.Errorf("Expected removing unknown path to succeed, got: %v", err)
	}
}

func TestRecentsRepository_Remove_EmptyPath(t *testing.T) {
	repo := setupTestRecents(t, 10)

	err := repo.Remove(context.Background(), "")
	if err == nil {
		t.Fatal("Expected error for empty path, got nil")
	}
	if !repoerrors.IsValidation(err) {
		t.Errorf("Expected validation error, got: %v", err)
	}
}

func TestRecentsRepository_Clear(t *testing.T) {
	repo := setupTestRecents(t, 10)
	ctx := context.Background()

	recordOpens(t, repo, "/docs/a.pdf", "/docs/b.pdf")

	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("Failed to clear history: %v", err)
	}

	docs, err := repo.ListRecent(ctx)
	if err != nil {
		t.Fatalf("Failed to list recents: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("Expected empty history after clear, got %d entries", len(docs))
	}

	// Clearing an empty history succeeds
	if err := repo.Clear(ctx); err != nil {
		t.Errorf("Expected clearing empty history to succeed, got: %v", err)
	}
}

func TestRecentsRepository_ListRecent_Empty(t *testing.T) {
	repo := setupTestRecents(t, 10)

	docs, err := repo.ListRecent(context.Background())
	if err != nil {
		t.Fatalf("Failed to list recents: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("Expected empty history, got %d entries", len(docs))
	}
}
