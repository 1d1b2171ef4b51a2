package services

import (
	"reflect"
	"testing"
	"time"

	"github.com/taskhive/taskhive/internal/constants"
	"github.com/taskhive/taskhive/internal/models"
)

func TestImportSkipsRowsWithoutTitle(t *testing.T) {
	rows := []map[string]string{
		{"Title": "one"},
		{"Title": "two"},
		{"Description": "no title here"},
		{"Title": "three"},
		{"Title": "   "},
	}

	result := BuildTasksFromRows(rows, nil, "user-1")

	if result.Built != 3 {
		t.Errorf("expected 3 built tasks, got %d", result.Built)
	}
	if result.Skipped != 2 {
		t.Errorf("expected 2 skipped rows, got %d", result.Skipped)
	}
	if len(result.Tasks) != 3 {
		t.Errorf("expected 3 tasks, got %d", len(result.Tasks))
	}
}

func TestImportHeaderSynonyms(t *testing.T) {
	rows := []map[string]string{
		{"Task Title": "via synonym", "DESC": "upper header", "Deadline": "2026-09-15", "Labels": "a,b"},
	}

	result := BuildTasksFromRows(rows, nil, "user-1")
	if result.Built != 1 {
		t.Fatalf("expected 1 task, got %d", result.Built)
	}

	task := result.Tasks[0]
	if task.Title != "via synonym" {
		t.Errorf("title not resolved from synonym: %q", task.Title)
	}
	if task.Description != "upper header" {
		t.Errorf("description not resolved case-insensitively: %q", task.Description)
	}
	if task.DueDate != time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC) {
		t.Errorf("due date not resolved from deadline header: %v", task.DueDate)
	}
	if !reflect.DeepEqual(task.Tags, []string{"a", "b"}) {
		t.Errorf("tags not resolved from labels header: %v", task.Tags)
	}
}

func TestImportSerialContinuesAfterExistingMax(t *testing.T) {
	existing := []models.Task{
		{ID: "x", Title: "x", SerialNumber: 7},
		{ID: "y", Title: "y", SerialNumber: 2},
	}
	rows := []map[string]string{
		{"Title": "first new"},
		{"Title": "second new"},
	}

	result := BuildTasksFromRows(rows, existing, "user-1")

	if result.Tasks[0].SerialNumber != 8 {
		t.Errorf("expected serial 8, got %d", result.Tasks[0].SerialNumber)
	}
	if result.Tasks[1].SerialNumber != 9 {
		t.Errorf("expected serial 9, got %d", result.Tasks[1].SerialNumber)
	}
}

func TestImportExplicitSerialUsedAsIs(t *testing.T) {
	existing := []models.Task{{ID: "x", Title: "x", SerialNumber: 5}}
	rows := []map[string]string{
		{"Title": "collides", "Serial Number": "5"},
		{"Title": "bogus serial", "Serial Number": "-3"},
	}

	result := BuildTasksFromRows(rows, existing, "user-1")

	// An explicit serial is kept even when it duplicates an existing one.
	if result.Tasks[0].SerialNumber != 5 {
		t.Errorf("explicit serial must be used as-is, got %d", result.Tasks[0].SerialNumber)
	}
	if result.Tasks[1].SerialNumber != 6 {
		t.Errorf("unusable serial falls back to max+1, got %d", result.Tasks[1].SerialNumber)
	}
}

func TestImportEnumFallbacks(t *testing.T) {
	rows := []map[string]string{
		{"Title": "odd values", "Priority": "whenever", "Status": "someday"},
		{"Title": "good values", "Priority": "URGENT", "Status": "In Progress"},
	}

	result := BuildTasksFromRows(rows, nil, "user-1")

	if result.Tasks[0].Priority != constants.PriorityMedium {
		t.Errorf("unknown priority must fall back to medium, got %s", result.Tasks[0].Priority)
	}
	if result.Tasks[0].Status != constants.StatusPending {
		t.Errorf("unknown status must fall back to pending, got %s", result.Tasks[0].Status)
	}
	if result.Tasks[1].Priority != constants.PriorityUrgent {
		t.Errorf("expected urgent, got %s", result.Tasks[1].Priority)
	}
	if result.Tasks[1].Status != constants.StatusInProgress {
		t.Errorf("expected in progress, got %s", result.Tasks[1].Status)
	}
}

func TestImportNumericDateSerial(t *testing.T) {
	// 45900 days after 1899-12-30 is 2025-08-31.
	rows := []map[string]string{
		{"Title": "excel date", "Due Date": "45900"},
	}

	result := BuildTasksFromRows(rows, nil, "user-1")

	want := time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC)
	if !result.Tasks[0].DueDate.Equal(want) {
		t.Errorf("expected %v, got %v", want, result.Tasks[0].DueDate)
	}
}

func TestImportUnparseableDateDefaultsToNow(t *testing.T) {
	before := time.Now().UTC()
	rows := []map[string]string{
		{"Title": "bad date", "Due Date": "sometime soon"},
	}

	result := BuildTasksFromRows(rows, nil, "user-1")
	after := time.Now().UTC()

	due := result.Tasks[0].DueDate
	if due.Before(before) || due.After(after) {
		t.Errorf("expected fallback to now, got %v", due)
	}
}

func TestSplitTags(t *testing.T) {
	got := SplitTags("Work, Urgent,  Review")
	want := []string{"Work", "Urgent", "Review"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if got := SplitTags(" , ,"); len(got) != 0 {
		t.Errorf("expected empties filtered, got %v", got)
	}
}

func TestImportFreshIdentity(t *testing.T) {
	rows := []map[string]string{
		{"Title": "a"},
		{"Title": "b"},
	}

	result := BuildTasksFromRows(rows, nil, "user-1")

	if result.Tasks[0].ID == "" || result.Tasks[0].ID == result.Tasks[1].ID {
		t.Errorf("each imported task needs a fresh id: %q vs %q", result.Tasks[0].ID, result.Tasks[1].ID)
	}
	for _, task := range result.Tasks {
		if task.CreatedAt.IsZero() {
			t.Errorf("task %s missing creation timestamp", task.ID)
		}
		if len(task.Subtasks) != 0 || len(task.Images) != 0 {
			t.Errorf("imported tasks start with empty subtasks and images: %+v", task)
		}
		if task.UserID != "user-1" {
			t.Errorf("task %s not owned by importing user", task.ID)
		}
	}
}
