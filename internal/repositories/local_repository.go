package repository

import (
	"context"
	"encoding/json"
	"log"

	apperrors "github.com/taskhive/taskhive/internal/errors"
	"github.com/taskhive/taskhive/internal/kv"
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/normalize"
)

const taskBlobPrefix = "tasks:"

// LocalTaskRepository persists a user's whole collection as one JSON
// blob in the key-value store. The store has no partial-write
// primitive, so single-record writes and deletes are no-ops here and
// callers snapshot via ReplaceAll instead.
type LocalTaskRepository struct {
	store kv.Store
}

func NewLocalTaskRepository(store kv.Store) *LocalTaskRepository {
	return &LocalTaskRepository{store: store}
}

func (r *LocalTaskRepository) Mode() Mode {
	return ModeLocal
}

func taskBlobKey(userID string) string {
	return taskBlobPrefix + userID
}

// FetchAll returns an empty collection when the user has no blob yet or
// the blob does not parse; only real store failures surface as errors.
func (r *LocalTaskRepository) FetchAll(ctx context.Context, userID string) ([]models.Task, error) {
	raw, ok, err := r.store.Get(ctx, taskBlobKey(userID))
	if err != nil {
		return nil, apperrors.NewPersistence("fetch tasks", err)
	}
	if !ok {
		return []models.Task{}, nil
	}

	var rows []normalize.TaskRow
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		log.Printf("local store: discarding malformed task blob for user %s: %v", userID, err)
		return []models.Task{}, nil
	}

	tasks := make([]models.Task, 0, len(rows))
	for _, row := range rows {
		task, err := normalize.ToCanonical(row)
		if err != nil {
			log.Printf("local store: skipping malformed task record for user %s: %v", userID, err)
			continue
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}

func (r *LocalTaskRepository) UpsertOne(ctx context.Context, userID string, task models.Task) error {
	return nil
}

func (r *LocalTaskRepository) UpsertMany(ctx context.Context, userID string, tasks []models.Task) error {
	return nil
}

func (r *LocalTaskRepository) ReplaceAll(ctx context.Context, userID string, tasks []models.Task) error {
	rows := make([]normalize.TaskRow, 0, len(tasks))
	for _, task := range tasks {
		row := normalize.ToStorage(task)
		row.UserID = userID
		rows = append(rows, row)
	}

	b, err := json.Marshal(rows)
	if err != nil {
		return apperrors.NewPersistence("encode tasks", err)
	}

	if err := r.store.Set(ctx, taskBlobKey(userID), string(b)); err != nil {
		return apperrors.NewPersistence("replace tasks", err)
	}
	return nil
}

func (r *LocalTaskRepository) DeleteOne(ctx context.Context, id string) error {
	return nil
}

func (r *LocalTaskRepository) DeleteMany(ctx context.Context, ids []string) error {
	return nil
}

func (r *LocalTaskRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	if err := r.store.Delete(ctx, taskBlobKey(userID)); err != nil {
		return apperrors.NewPersistence("delete user tasks", err)
	}
	return nil
}
