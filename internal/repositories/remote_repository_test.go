package repository

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/taskhive/taskhive/internal/constants"
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/normalize"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	if err := db.AutoMigrate(&normalize.TaskRow{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	return db
}

func testTask(id, userID string, serial int) models.Task {
	return models.Task{
		ID:           id,
		UserID:       userID,
		SerialNumber: serial,
		Title:        "task " + id,
		Priority:     constants.PriorityMedium,
		Status:       constants.StatusPending,
		DueDate:      time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:    time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Subtasks:     []models.Subtask{},
		Tags:         []string{},
		Images:       []string{},
	}
}

func TestUpsertOneIsIdempotent(t *testing.T) {
	repo := NewRemoteTaskRepository(setupTestDB(t))
	ctx := context.Background()

	task := testTask("task-1", "user-1", 1)
	if err := repo.UpsertOne(ctx, "user-1", task); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	task.Title = "renamed"
	if err := repo.UpsertOne(ctx, "user-1", task); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	tasks, err := repo.FetchAll(ctx, "user-1")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 stored record after duplicate upsert, got %d", len(tasks))
	}
	if tasks[0].Title != "renamed" {
		t.Errorf("expected overwrite-by-id, got title %q", tasks[0].Title)
	}
}

func TestFetchAllScopesByOwner(t *testing.T) {
	repo := NewRemoteTaskRepository(setupTestDB(t))
	ctx := context.Background()

	if err := repo.UpsertOne(ctx, "user-1", testTask("task-1", "user-1", 1)); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := repo.UpsertOne(ctx, "user-2", testTask("task-2", "user-2", 1)); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	tasks, err := repo.FetchAll(ctx, "user-1")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "task-1" {
		t.Errorf("expected only user-1 tasks, got %+v", tasks)
	}
}

func TestDeleteMany(t *testing.T) {
	repo := NewRemoteTaskRepository(setupTestDB(t))
	ctx := context.Background()

	for i, id := range []string{"a", "b", "c"} {
		if err := repo.UpsertOne(ctx, "user-1", testTask(id, "user-1", i+1)); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
	}

	if err := repo.DeleteMany(ctx, []string{"a", "c"}); err != nil {
		t.Fatalf("bulk delete failed: %v", err)
	}

	tasks, err := repo.FetchAll(ctx, "user-1")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "b" {
		t.Errorf("expected only task b to remain, got %+v", tasks)
	}
}

func TestUpsertManyWritesBatch(t *testing.T) {
	repo := NewRemoteTaskRepository(setupTestDB(t))
	ctx := context.Background()

	batch := []models.Task{
		testTask("a", "user-1", 1),
		testTask("b", "user-1", 2),
	}
	if err := repo.UpsertMany(ctx, "user-1", batch); err != nil {
		t.Fatalf("batch upsert failed: %v", err)
	}

	batch[0].SerialNumber = 2
	batch[1].SerialNumber = 1
	if err := repo.UpsertMany(ctx, "user-1", batch); err != nil {
		t.Fatalf("batch re-upsert failed: %v", err)
	}

	tasks, err := repo.FetchAll(ctx, "user-1")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks after batch overwrite, got %d", len(tasks))
	}
}

func TestDeleteAllForUser(t *testing.T) {
	repo := NewRemoteTaskRepository(setupTestDB(t))
	ctx := context.Background()

	if err := repo.UpsertOne(ctx, "user-1", testTask("a", "user-1", 1)); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := repo.UpsertOne(ctx, "user-2", testTask("b", "user-2", 1)); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	if err := repo.DeleteAllForUser(ctx, "user-1"); err != nil {
		t.Fatalf("cascade delete failed: %v", err)
	}

	gone, err := repo.FetchAll(ctx, "user-1")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(gone) != 0 {
		t.Errorf("expected user-1 tasks gone, got %+v", gone)
	}

	kept, err := repo.FetchAll(ctx, "user-2")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(kept) != 1 {
		t.Errorf("expected user-2 tasks untouched, got %+v", kept)
	}
}
