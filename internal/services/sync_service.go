package services

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive/internal/constants"
	apperrors "github.com/taskhive/taskhive/internal/errors"
	"github.com/taskhive/taskhive/internal/models"
	repository "github.com/taskhive/taskhive/internal/repositories"
)

// TaskDraft is the input for creating a task. Zero-valued optional
// fields get defaults: medium priority, pending status, due now.
type TaskDraft struct {
	Title         string                 `json:"title"`
	Description   string                 `json:"description"`
	ProgressNotes string                 `json:"progress_notes"`
	Priority      constants.TaskPriority `json:"priority"`
	DueDate       time.Time              `json:"due_date"`
	Subtasks      []string               `json:"subtasks"`
	Tags          []string               `json:"tags"`
	Images        []string               `json:"images"`
}

// TaskPatch is a partial update; nil fields are left untouched.
type TaskPatch struct {
	Title         *string                 `json:"title"`
	Description   *string                 `json:"description"`
	ProgressNotes *string                 `json:"progress_notes"`
	Priority      *constants.TaskPriority `json:"priority"`
	Status        *constants.TaskStatus   `json:"status"`
	DueDate       *time.Time              `json:"due_date"`
	Tags          *[]string               `json:"tags"`
	Images        *[]string               `json:"images"`
}

// SyncService owns the authoritative in-memory task collection for the
// active user and keeps it convergent with the persisted collection.
//
// Every mutation is two-phase: compute the new collection, then persist
// it through the active store (per-record writes in remote mode, a full
// snapshot via ReplaceAll in local mode). Create and update block on
// persistence so a failed write never shows a phantom task; deletes and
// status/subtask toggles apply optimistically and only log persistence
// failures. Reads never wait on an in-flight write; mutations are
// serialized so two rapid edits of the same task cannot interleave.
type SyncService struct {
	store repository.TaskStore

	// writeMu serializes the compute+persist phase of every mutation.
	// stateMu guards the in-memory collection so snapshots stay
	// available while a write is in flight.
	writeMu sync.Mutex
	stateMu sync.RWMutex

	user  *models.User
	tasks []models.Task
}

func NewSyncService(store repository.TaskStore) *SyncService {
	return &SyncService{store: store}
}

// Load makes user the active session owner and pulls their persisted
// collection into memory. Fetch failures surface: callers must be able
// to tell "no tasks" apart from "couldn't load tasks".
func (s *SyncService) Load(ctx context.Context, user models.User) ([]models.Task, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tasks, err := s.store.FetchAll(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.stateMu.Lock()
	s.user = &user
	s.tasks = tasks
	s.stateMu.Unlock()

	return s.snapshot(), nil
}

// Unload clears the session, dropping the in-memory collection.
func (s *SyncService) Unload() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.stateMu.Lock()
	s.user = nil
	s.tasks = nil
	s.stateMu.Unlock()
}

func (s *SyncService) CurrentUser() *models.User {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// SnapshotTasks returns a copy of the in-memory collection.
func (s *SyncService) SnapshotTasks() []models.Task {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.snapshot()
}

func (s *SyncService) snapshot() []models.Task {
	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Create builds a task from the draft and persists it before it becomes
// visible in memory, so a failed write never shows a phantom task.
func (s *SyncService) Create(ctx context.Context, draft TaskDraft) (models.Task, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	userID, err := s.activeUserID()
	if err != nil {
		return models.Task{}, err
	}
	if strings.TrimSpace(draft.Title) == "" {
		return models.Task{}, apperrors.NewValidation("title must not be empty")
	}

	now := time.Now().UTC()
	task := models.Task{
		ID:            uuid.NewString(),
		UserID:        userID,
		SerialNumber:  models.MaxSerial(s.currentTasks()) + 1,
		Title:         strings.TrimSpace(draft.Title),
		Description:   draft.Description,
		ProgressNotes: draft.ProgressNotes,
		Priority:      draft.Priority,
		Status:        constants.StatusPending,
		DueDate:       draft.DueDate,
		CreatedAt:     now,
		Subtasks:      make([]models.Subtask, 0, len(draft.Subtasks)),
		Tags:          draft.Tags,
		Images:        draft.Images,
	}
	if task.Priority == "" {
		task.Priority = constants.PriorityMedium
	}
	if task.DueDate.IsZero() {
		task.DueDate = now
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}
	if task.Images == nil {
		task.Images = []string{}
	}
	for _, title := range draft.Subtasks {
		if strings.TrimSpace(title) == "" {
			continue
		}
		task.Subtasks = append(task.Subtasks, models.Subtask{
			ID:    uuid.NewString(),
			Title: strings.TrimSpace(title),
		})
	}

	next := append(s.currentTasks(), task)
	if err := s.persistUpsert(ctx, userID, task, next); err != nil {
		return models.Task{}, err
	}

	s.commit(next)
	return task, nil
}

// Update applies a partial edit and persists it before committing to
// memory, like Create.
func (s *SyncService) Update(ctx context.Context, id string, patch TaskPatch) (models.Task, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	userID, err := s.activeUserID()
	if err != nil {
		return models.Task{}, err
	}

	next := s.currentTasks()
	idx := indexByID(next, id)
	if idx < 0 {
		return models.Task{}, apperrors.ErrTaskNotFound
	}

	task := next[idx]
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return models.Task{}, apperrors.NewValidation("title must not be empty")
		}
		task.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.ProgressNotes != nil {
		task.ProgressNotes = *patch.ProgressNotes
	}
	if patch.Priority != nil {
		priority, ok := constants.ParsePriority(string(*patch.Priority))
		if !ok {
			return models.Task{}, apperrors.NewValidation("unknown priority: " + string(*patch.Priority))
		}
		task.Priority = priority
	}
	if patch.Status != nil {
		status, ok := constants.ParseStatus(string(*patch.Status))
		if !ok {
			return models.Task{}, apperrors.NewValidation("unknown status: " + string(*patch.Status))
		}
		task.Status = status
	}
	if patch.DueDate != nil {
		task.DueDate = *patch.DueDate
	}
	if patch.Tags != nil {
		task.Tags = *patch.Tags
	}
	if patch.Images != nil {
		task.Images = *patch.Images
	}
	next[idx] = task

	if err := s.persistUpsert(ctx, userID, task, next); err != nil {
		return models.Task{}, err
	}

	s.commit(next)
	return task, nil
}

// DeleteOne removes a task optimistically: memory is updated first and a
// persistence failure is logged, not rolled back.
func (s *SyncService) DeleteOne(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	userID, err := s.activeUserID()
	if err != nil {
		return err
	}

	next := s.currentTasks()
	idx := indexByID(next, id)
	if idx < 0 {
		return apperrors.ErrTaskNotFound
	}
	next = append(next[:idx], next[idx+1:]...)
	s.commit(next)

	if s.store.Mode() == repository.ModeRemote {
		if err := s.store.DeleteOne(ctx, id); err != nil {
			log.Printf("sync: delete of task %s not persisted: %v", id, err)
		}
		return nil
	}
	if err := s.store.ReplaceAll(ctx, userID, next); err != nil {
		log.Printf("sync: delete of task %s not persisted: %v", id, err)
	}
	return nil
}

// DeleteMany removes a set of tasks optimistically, issuing one bulk
// delete call in remote mode.
func (s *SyncService) DeleteMany(ctx context.Context, ids []string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	userID, err := s.activeUserID()
	if err != nil {
		return err
	}

	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	current := s.currentTasks()
	next := make([]models.Task, 0, len(current))
	for _, t := range current {
		if !drop[t.ID] {
			next = append(next, t)
		}
	}
	s.commit(next)

	if s.store.Mode() == repository.ModeRemote {
		if err := s.store.DeleteMany(ctx, ids); err != nil {
			log.Printf("sync: bulk delete of %d tasks not persisted: %v", len(ids), err)
		}
		return nil
	}
	if err := s.store.ReplaceAll(ctx, userID, next); err != nil {
		log.Printf("sync: bulk delete of %d tasks not persisted: %v", len(ids), err)
	}
	return nil
}

// ToggleStatus flips a task between completed and pending,
// optimistically.
func (s *SyncService) ToggleStatus(ctx context.Context, id string) (models.Task, error) {
	return s.toggle(ctx, id, func(task *models.Task) error {
		if constants.IsTerminal(task.Status) {
			task.Status = constants.StatusPending
		} else {
			task.Status = constants.StatusCompleted
		}
		return nil
	})
}

// ToggleSubtask flips one subtask's completion. The parent task's
// status never changes here: subtask completion and task status are
// independent.
func (s *SyncService) ToggleSubtask(ctx context.Context, taskID, subtaskID string) (models.Task, error) {
	return s.toggle(ctx, taskID, func(task *models.Task) error {
		subtasks := make([]models.Subtask, len(task.Subtasks))
		copy(subtasks, task.Subtasks)
		found := false
		for i := range subtasks {
			if subtasks[i].ID == subtaskID {
				subtasks[i].IsCompleted = !subtasks[i].IsCompleted
				found = true
			}
		}
		if !found {
			return apperrors.ErrSubtaskNotFound
		}
		task.Subtasks = subtasks
		return nil
	})
}

func (s *SyncService) toggle(ctx context.Context, id string, mutate func(*models.Task) error) (models.Task, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	userID, err := s.activeUserID()
	if err != nil {
		return models.Task{}, err
	}

	next := s.currentTasks()
	idx := indexByID(next, id)
	if idx < 0 {
		return models.Task{}, apperrors.ErrTaskNotFound
	}

	task := next[idx]
	if err := mutate(&task); err != nil {
		return models.Task{}, err
	}
	next[idx] = task
	s.commit(next)

	if err := s.persistUpsert(ctx, userID, task, next); err != nil {
		log.Printf("sync: toggle on task %s not persisted: %v", id, err)
	}
	return task, nil
}

// RenumberAll reassigns every serial number from priority and due date
// and persists the result as one batch. All-or-nothing: on a failed
// write the in-memory collection is left exactly as it was.
func (s *SyncService) RenumberAll(ctx context.Context) ([]models.Task, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	userID, err := s.activeUserID()
	if err != nil {
		return nil, err
	}

	next := Renumber(s.currentTasks())
	if err := s.persistBatch(ctx, userID, next, next); err != nil {
		return nil, err
	}

	s.commit(next)
	return s.snapshotOf(next), nil
}

// AppendBatch adds imported tasks as one atomic batch: nothing becomes
// visible unless the whole batch persists.
func (s *SyncService) AppendBatch(ctx context.Context, tasks []models.Task) ([]models.Task, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	userID, err := s.activeUserID()
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return s.snapshot(), nil
	}

	next := append(s.currentTasks(), tasks...)
	if err := s.persistBatch(ctx, userID, tasks, next); err != nil {
		return nil, err
	}

	s.commit(next)
	return s.snapshotOf(next), nil
}

// PurgeUser cascade-deletes a user's persisted tasks, clearing the
// session if that user is active.
func (s *SyncService) PurgeUser(ctx context.Context, userID string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.store.DeleteAllForUser(ctx, userID); err != nil {
		return err
	}

	s.stateMu.Lock()
	if s.user != nil && s.user.ID == userID {
		s.user = nil
		s.tasks = nil
	}
	s.stateMu.Unlock()
	return nil
}

func (s *SyncService) activeUserID() (string, error) {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	if s.user == nil {
		return "", apperrors.ErrNoActiveSession
	}
	return s.user.ID, nil
}

// currentTasks returns a mutable copy of the collection. Callers hold
// writeMu, so the copy cannot go stale before commit.
func (s *SyncService) currentTasks() []models.Task {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *SyncService) commit(tasks []models.Task) {
	s.stateMu.Lock()
	s.tasks = tasks
	s.stateMu.Unlock()
}

func (s *SyncService) snapshotOf(tasks []models.Task) []models.Task {
	out := make([]models.Task, len(tasks))
	copy(out, tasks)
	return out
}

// persistUpsert writes one changed task: a keyed upsert in remote mode,
// a full snapshot in local mode where single-record writes are no-ops.
func (s *SyncService) persistUpsert(ctx context.Context, userID string, task models.Task, full []models.Task) error {
	if s.store.Mode() == repository.ModeRemote {
		return s.store.UpsertOne(ctx, userID, task)
	}
	return s.store.ReplaceAll(ctx, userID, full)
}

// persistBatch writes a set of changed tasks in one call.
func (s *SyncService) persistBatch(ctx context.Context, userID string, changed, full []models.Task) error {
	if s.store.Mode() == repository.ModeRemote {
		return s.store.UpsertMany(ctx, userID, changed)
	}
	return s.store.ReplaceAll(ctx, userID, full)
}

func indexByID(tasks []models.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}
