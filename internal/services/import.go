package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive/internal/constants"
	"github.com/taskhive/taskhive/internal/models"
)

// Header synonyms accepted per logical field, in priority order. Lookup
// is case-insensitive.
var (
	titleHeaders       = []string{"title", "task title", "name", "task"}
	descriptionHeaders = []string{"description", "desc", "details", "notes"}
	priorityHeaders    = []string{"priority", "importance"}
	statusHeaders      = []string{"status", "state"}
	serialHeaders      = []string{"serial number", "serial", "s.no", "sno", "no", "#"}
	dueDateHeaders     = []string{"due date", "duedate", "due", "deadline"}
	tagHeaders         = []string{"tags", "labels", "tag"}
)

// Day zero of spreadsheet numeric date serials.
var spreadsheetEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var textDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"02-Jan-2006",
	"January 2, 2006",
}

// ImportResult carries the tasks built from a spreadsheet plus the
// tallies reported back to the user.
type ImportResult struct {
	Tasks   []models.Task
	Built   int
	Skipped int
}

// BuildTasksFromRows turns parsed spreadsheet rows into new tasks for
// userID. Rows without a resolvable title are silently skipped.
// Unparseable optional fields fall back to defaults and never fail the
// row. Rows carrying no usable serial number are numbered continuing
// after the highest serial already in the existing collection, one per
// built row; an explicit positive serial from the sheet is used as-is,
// even if it collides with an existing task's serial.
func BuildTasksFromRows(rows []map[string]string, existing []models.Task, userID string) ImportResult {
	result := ImportResult{Tasks: []models.Task{}}
	nextSerial := models.MaxSerial(existing) + 1
	now := time.Now().UTC()

	for _, row := range rows {
		title, ok := resolveField(row, titleHeaders)
		if !ok || strings.TrimSpace(title) == "" {
			result.Skipped++
			continue
		}

		task := models.Task{
			ID:        uuid.NewString(),
			UserID:    userID,
			Title:     strings.TrimSpace(title),
			Priority:  constants.PriorityMedium,
			Status:    constants.StatusPending,
			DueDate:   now,
			CreatedAt: now,
			Subtasks:  []models.Subtask{},
			Tags:      []string{},
			Images:    []string{},
		}

		if v, ok := resolveField(row, descriptionHeaders); ok {
			task.Description = strings.TrimSpace(v)
		}
		if v, ok := resolveField(row, priorityHeaders); ok {
			if p, ok := constants.ParsePriority(v); ok {
				task.Priority = p
			}
		}
		if v, ok := resolveField(row, statusHeaders); ok {
			if s, ok := constants.ParseStatus(v); ok {
				task.Status = s
			}
		}
		if v, ok := resolveField(row, dueDateHeaders); ok {
			task.DueDate = parseDueDate(v, now)
		}
		if v, ok := resolveField(row, tagHeaders); ok {
			task.Tags = SplitTags(v)
		}

		if n, ok := parseSerial(row); ok {
			task.SerialNumber = n
		} else {
			task.SerialNumber = nextSerial
			nextSerial++
		}

		result.Tasks = append(result.Tasks, task)
		result.Built++
	}

	return result
}

func resolveField(row map[string]string, synonyms []string) (string, bool) {
	for _, want := range synonyms {
		for header, value := range row {
			if strings.EqualFold(strings.TrimSpace(header), want) {
				return value, true
			}
		}
	}
	return "", false
}

func parseSerial(row map[string]string) (int, bool) {
	v, ok := resolveField(row, serialHeaders)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// parseDueDate accepts either a spreadsheet numeric date serial (days
// since the 1899-12-30 epoch, fractions are time of day) or a free-text
// date string. Values it cannot make sense of become fallback.
func parseDueDate(raw string, fallback time.Time) time.Time {
	v := strings.TrimSpace(raw)
	if v == "" {
		return fallback
	}

	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		if serial <= 0 {
			return fallback
		}
		days := time.Duration(serial * 24 * float64(time.Hour))
		return spreadsheetEpoch.Add(days)
	}

	for _, layout := range textDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC()
		}
	}

	return fallback
}

// SplitTags turns a comma-separated tag string into a trimmed list with
// empties dropped.
func SplitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if tag := strings.TrimSpace(p); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
