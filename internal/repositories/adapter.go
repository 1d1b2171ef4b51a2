package repository

import (
	"context"

	"github.com/taskhive/taskhive/internal/models"
)

// Mode names the persistence strategy the process runs under. It is
// chosen once at startup and never changes mid-session.
type Mode string

const (
	ModeRemote Mode = "remote"
	ModeLocal  Mode = "local"
)

// TaskStore is the persistence adapter contract shared by the remote
// table-backed store and the local blob-backed store. All writes are
// idempotent by task id: upserting the same task twice leaves one
// stored record.
//
// The local variant has no partial-write primitive, so its UpsertOne,
// DeleteOne and DeleteMany are no-ops; callers persist local changes by
// following up with ReplaceAll carrying the full collection.
type TaskStore interface {
	Mode() Mode

	// FetchAll returns every task owned by userID. Storage failures
	// surface to the caller; an empty collection is not an error.
	FetchAll(ctx context.Context, userID string) ([]models.Task, error)

	UpsertOne(ctx context.Context, userID string, task models.Task) error

	// UpsertMany writes a batch of tasks in one call, all-or-nothing.
	UpsertMany(ctx context.Context, userID string, tasks []models.Task) error

	// ReplaceAll overwrites the full persisted collection for userID.
	ReplaceAll(ctx context.Context, userID string, tasks []models.Task) error

	DeleteOne(ctx context.Context, id string) error

	// DeleteMany removes the given ids in one bulk call.
	DeleteMany(ctx context.Context, ids []string) error

	// DeleteAllForUser cascades on account deletion.
	DeleteAllForUser(ctx context.Context, userID string) error
}
