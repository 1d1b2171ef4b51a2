package normalize

import (
	"time"

	"github.com/taskhive/taskhive/internal/constants"
	apperrors "github.com/taskhive/taskhive/internal/errors"
	"github.com/taskhive/taskhive/internal/models"
)

// SubtaskRow is the persisted shape of a subtask.
type SubtaskRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	IsCompleted bool   `json:"is_completed"`
}

// TaskRow is the flat, snake_case record shape shared by both storage
// backends: the remote task table row and the entries of the local JSON
// blob. Optional fields are pointers or nilable slices so a partially
// populated record survives the trip to ToCanonical.
type TaskRow struct {
	ID            string       `gorm:"primaryKey;size:36" json:"id"`
	UserID        string       `gorm:"index;size:36;not null" json:"user_id"`
	SerialNumber  int          `gorm:"not null" json:"serial_number"`
	Title         string       `gorm:"not null" json:"title"`
	Description   string       `json:"description"`
	ProgressNotes *string      `json:"progress_notes,omitempty"`
	Priority      string       `gorm:"type:varchar(10)" json:"priority"`
	Status        string       `gorm:"type:varchar(20)" json:"status"`
	DueDate       time.Time    `json:"due_date"`
	CreatedAt     time.Time    `json:"created_at"`
	Subtasks      []SubtaskRow `gorm:"serializer:json" json:"subtasks,omitempty"`
	Tags          []string     `gorm:"serializer:json" json:"tags,omitempty"`
	Images        []string     `gorm:"serializer:json" json:"images,omitempty"`
}

func (TaskRow) TableName() string {
	return "tasks"
}

// ToCanonical converts a stored row into the canonical task model.
// Missing collections default to empty, missing progress notes default
// to the empty string, and unrecognized enum values fall back to
// medium/pending. A row without an id or title is unusable and yields
// a MalformedRecordError.
func ToCanonical(row TaskRow) (models.Task, error) {
	if row.ID == "" {
		return models.Task{}, apperrors.NewMalformedRecord("id")
	}
	if row.Title == "" {
		return models.Task{}, apperrors.NewMalformedRecord("title")
	}

	progressNotes := ""
	if row.ProgressNotes != nil {
		progressNotes = *row.ProgressNotes
	}

	priority, ok := constants.ParsePriority(row.Priority)
	if !ok {
		priority = constants.PriorityMedium
	}
	status, ok := constants.ParseStatus(row.Status)
	if !ok {
		status = constants.StatusPending
	}

	subtasks := make([]models.Subtask, 0, len(row.Subtasks))
	for _, s := range row.Subtasks {
		subtasks = append(subtasks, models.Subtask{
			ID:          s.ID,
			Title:       s.Title,
			IsCompleted: s.IsCompleted,
		})
	}

	tags := row.Tags
	if tags == nil {
		tags = []string{}
	}
	images := row.Images
	if images == nil {
		images = []string{}
	}

	return models.Task{
		ID:            row.ID,
		UserID:        row.UserID,
		SerialNumber:  row.SerialNumber,
		Title:         row.Title,
		Description:   row.Description,
		ProgressNotes: progressNotes,
		Priority:      priority,
		Status:        status,
		DueDate:       row.DueDate,
		CreatedAt:     row.CreatedAt,
		Subtasks:      subtasks,
		Tags:          tags,
		Images:        images,
	}, nil
}

// ToStorage converts a canonical task into its stored row shape. It is
// total: a task that passed model validation always maps to a row, and
// ToCanonical(ToStorage(t)) reproduces t.
func ToStorage(t models.Task) TaskRow {
	progressNotes := t.ProgressNotes

	subtasks := make([]SubtaskRow, 0, len(t.Subtasks))
	for _, s := range t.Subtasks {
		subtasks = append(subtasks, SubtaskRow{
			ID:          s.ID,
			Title:       s.Title,
			IsCompleted: s.IsCompleted,
		})
	}

	return TaskRow{
		ID:            t.ID,
		UserID:        t.UserID,
		SerialNumber:  t.SerialNumber,
		Title:         t.Title,
		Description:   t.Description,
		ProgressNotes: &progressNotes,
		Priority:      string(t.Priority),
		Status:        string(t.Status),
		DueDate:       t.DueDate,
		CreatedAt:     t.CreatedAt,
		Subtasks:      subtasks,
		Tags:          t.Tags,
		Images:        t.Images,
	}
}
