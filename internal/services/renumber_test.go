package services

import (
	"testing"
	"time"

	"github.com/taskhive/taskhive/internal/constants"
	"github.com/taskhive/taskhive/internal/models"
)

func renumberTask(id string, p constants.TaskPriority, due time.Time) models.Task {
	return models.Task{
		ID:       id,
		Title:    "task " + id,
		Priority: p,
		Status:   constants.StatusPending,
		DueDate:  due,
	}
}

func TestRenumberByPriority(t *testing.T) {
	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	tasks := []models.Task{
		renumberTask("low", constants.PriorityLow, due),
		renumberTask("urgent", constants.PriorityUrgent, due),
		renumberTask("medium", constants.PriorityMedium, due),
	}

	got := Renumber(tasks)

	wantOrder := []string{"urgent", "medium", "low"}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
		if got[i].SerialNumber != i+1 {
			t.Errorf("task %s: expected serial %d, got %d", id, i+1, got[i].SerialNumber)
		}
	}
}

func TestRenumberDueDateBreaksTies(t *testing.T) {
	early := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	tasks := []models.Task{
		renumberTask("later", constants.PriorityHigh, late),
		renumberTask("sooner", constants.PriorityHigh, early),
	}

	got := Renumber(tasks)
	if got[0].ID != "sooner" || got[1].ID != "later" {
		t.Errorf("expected earlier due date first, got %s then %s", got[0].ID, got[1].ID)
	}
}

func TestRenumberIsStable(t *testing.T) {
	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	tasks := []models.Task{
		renumberTask("first", constants.PriorityMedium, due),
		renumberTask("second", constants.PriorityMedium, due),
		renumberTask("third", constants.PriorityMedium, due),
	}

	got := Renumber(tasks)
	for i, id := range []string{"first", "second", "third"} {
		if got[i].ID != id {
			t.Errorf("equal keys must keep original order: position %d is %s", i, got[i].ID)
		}
	}
}

func TestRenumberSerialsAreDense(t *testing.T) {
	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	priorities := []constants.TaskPriority{
		constants.PriorityLow,
		constants.PriorityUrgent,
		constants.PriorityHigh,
		constants.PriorityMedium,
		constants.PriorityUrgent,
	}

	tasks := make([]models.Task, 0, len(priorities))
	for i, p := range priorities {
		task := renumberTask(string(rune('a'+i)), p, due)
		task.SerialNumber = 100 + i*7
		tasks = append(tasks, task)
	}

	got := Renumber(tasks)

	seen := map[int]bool{}
	for _, task := range got {
		seen[task.SerialNumber] = true
	}
	for n := 1; n <= len(tasks); n++ {
		if !seen[n] {
			t.Errorf("serial %d missing; serials must be exactly 1..%d", n, len(tasks))
		}
	}
	if len(seen) != len(tasks) {
		t.Errorf("expected %d distinct serials, got %d", len(tasks), len(seen))
	}
}

func TestRenumberDoesNotMutateInput(t *testing.T) {
	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	tasks := []models.Task{renumberTask("a", constants.PriorityLow, due)}
	tasks[0].SerialNumber = 42

	Renumber(tasks)

	if tasks[0].SerialNumber != 42 {
		t.Errorf("input slice was mutated: serial is %d", tasks[0].SerialNumber)
	}
}
