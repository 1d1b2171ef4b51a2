package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "github.com/taskhive/taskhive/internal/errors"
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/normalize"
)

// RemoteTaskRepository persists each task as one row of the per-user
// task table, scoped by the owning user id. Writes are conflict-resolving
// upserts keyed by task id, so the last write for an id wins.
type RemoteTaskRepository struct {
	db *gorm.DB
}

func NewRemoteTaskRepository(db *gorm.DB) *RemoteTaskRepository {
	return &RemoteTaskRepository{db: db}
}

func (r *RemoteTaskRepository) Mode() Mode {
	return ModeRemote
}

func (r *RemoteTaskRepository) FetchAll(ctx context.Context, userID string) ([]models.Task, error) {
	var rows []normalize.TaskRow
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("serial_number asc").
		Find(&rows).Error
	if err != nil {
		return nil, apperrors.NewPersistence("fetch tasks", err)
	}

	tasks := make([]models.Task, 0, len(rows))
	for _, row := range rows {
		task, err := normalize.ToCanonical(row)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}

func (r *RemoteTaskRepository) UpsertOne(ctx context.Context, userID string, task models.Task) error {
	row := normalize.ToStorage(task)
	row.UserID = userID

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&row).Error
	if err != nil {
		return apperrors.NewPersistence("upsert task", err)
	}
	return nil
}

func (r *RemoteTaskRepository) UpsertMany(ctx context.Context, userID string, tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	rows := make([]normalize.TaskRow, 0, len(tasks))
	for _, task := range tasks {
		row := normalize.ToStorage(task)
		row.UserID = userID
		rows = append(rows, row)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&rows).Error
	})
	if err != nil {
		return apperrors.NewPersistence("upsert tasks", err)
	}
	return nil
}

func (r *RemoteTaskRepository) ReplaceAll(ctx context.Context, userID string, tasks []models.Task) error {
	rows := make([]normalize.TaskRow, 0, len(tasks))
	for _, task := range tasks {
		row := normalize.ToStorage(task)
		row.UserID = userID
		rows = append(rows, row)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&normalize.TaskRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return apperrors.NewPersistence("replace tasks", err)
	}
	return nil
}

func (r *RemoteTaskRepository) DeleteOne(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&normalize.TaskRow{}).Error
	if err != nil {
		return apperrors.NewPersistence("delete task", err)
	}
	return nil
}

func (r *RemoteTaskRepository) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&normalize.TaskRow{}).Error
	if err != nil {
		return apperrors.NewPersistence("delete tasks", err)
	}
	return nil
}

func (r *RemoteTaskRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&normalize.TaskRow{}).Error
	if err != nil {
		return apperrors.NewPersistence("delete user tasks", err)
	}
	return nil
}
