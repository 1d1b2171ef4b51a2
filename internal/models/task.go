package models

import (
	"time"

	"github.com/taskhive/taskhive/internal/constants"
)

// Subtask is a checklist entry owned by a task. Completion of subtasks
// is independent of the parent task's status.
type Subtask struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	IsCompleted bool   `json:"is_completed"`
}

// Task is the canonical in-memory representation of a unit of work.
// ID is generated client-side at creation and never changes or gets
// reused. SerialNumber is the per-user display order; it is only
// guaranteed dense (1..N) immediately after a renumber.
type Task struct {
	ID            string                 `json:"id"`
	UserID        string                 `json:"user_id"`
	SerialNumber  int                    `json:"serial_number"`
	Title         string                 `json:"title"`
	Description   string                 `json:"description"`
	ProgressNotes string                 `json:"progress_notes"`
	Priority      constants.TaskPriority `json:"priority"`
	Status        constants.TaskStatus   `json:"status"`
	DueDate       time.Time              `json:"due_date"`
	CreatedAt     time.Time              `json:"created_at"`
	Subtasks      []Subtask              `json:"subtasks"`
	Tags          []string               `json:"tags"`
	Images        []string               `json:"images"`
}

// PendingCount counts tasks that still have work outstanding.
func PendingCount(tasks []Task) int {
	n := 0
	for _, t := range tasks {
		if !constants.IsTerminal(t.Status) {
			n++
		}
	}
	return n
}

// MaxSerial returns the highest serial number in the collection, zero
// when the collection is empty.
func MaxSerial(tasks []Task) int {
	max := 0
	for _, t := range tasks {
		if t.SerialNumber > max {
			max = t.SerialNumber
		}
	}
	return max
}
